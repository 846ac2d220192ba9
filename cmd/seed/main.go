package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/logger"

	"github.com/rs/zerolog"
)

func main() {
	count := flag.Int("count", 100, "number of books to insert")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(os.Stderr, "info", false)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.LogPretty)

	ctx := context.Background()
	pool, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	service := book.NewService(book.NewPostgresRepo(database.NewPoolProvider(pool)))

	inserted, err := seed(ctx, service, *count, rand.New(rand.NewSource(rand.Int63())), log)
	if err != nil {
		log.Fatal().Err(err).Int("inserted", inserted).Msg("seed books")
	}
	log.Info().Int("inserted", inserted).Msg("seed complete")
}

type inserter interface {
	InsertBook(ctx context.Context, b book.Book) (bool, error)
}

// seed inserts count generated books and stops at the first failure.
func seed(ctx context.Context, svc inserter, count int, rng *rand.Rand, log zerolog.Logger) (int, error) {
	inserted := 0
	for i := 0; i < count; i++ {
		ok, err := svc.InsertBook(ctx, randomBook(i, rng))
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
		if (i+1)%1000 == 0 {
			log.Info().Msgf("inserted %d/%d books", i+1, count)
		}
	}
	return inserted, nil
}

var (
	words = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "History", "Future",
		"Reality", "Imagination", "Wisdom", "Light", "Darkness", "Time", "Space",
	}
	surnames = []string{"Austen", "Herbert", "Joyce", "Le Guin", "Tolstoy", "Morrison", "Borges", "Woolf"}
)

func randomBook(i int, rng *rand.Rand) book.Book {
	return book.Book{
		Title:  fmt.Sprintf("%s of %s %d", words[rng.Intn(len(words))], words[rng.Intn(len(words))], i+1),
		Author: surnames[rng.Intn(len(surnames))],
		// whole cents between 1.00 and 60.99
		Price: float64(100+rng.Intn(6000)) / 100,
	}
}
