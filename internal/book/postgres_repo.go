package book

import (
	"context"
	"errors"

	"bookstore/internal/database"

	"github.com/jackc/pgx/v5"
)

const (
	listAllSQL = `SELECT * FROM book`
	getByIDSQL = `SELECT * FROM book WHERE book_id = $1`
	insertSQL  = `INSERT INTO book (title, author, price) VALUES ($1, $2, $3)`
	updateSQL  = `UPDATE book SET title = $1, author = $2, price = $3 WHERE book_id = $4`
	deleteSQL  = `DELETE FROM book WHERE book_id = $1`
)

// PostgresRepo maps Repository calls onto the book table. Each call
// checks out one connection, runs one statement, and gives the
// connection back before returning.
type PostgresRepo struct {
	db database.Provider
}

func NewPostgresRepo(db database.Provider) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]Book, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, newDataAccessError("list", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, listAllSQL)
	if err != nil {
		return nil, newDataAccessError("list", err)
	}
	// CollectRows closes rows on every path.
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[Book])
	if err != nil {
		return nil, newDataAccessError("list", err)
	}
	return books, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, bool, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return Book{}, false, newDataAccessError("get", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, getByIDSQL, id)
	if err != nil {
		return Book{}, false, newDataAccessError("get", err)
	}
	b, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, false, nil
		}
		return Book{}, false, newDataAccessError("get", err)
	}
	return b, true, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, title, author string, price float64) (bool, error) {
	return r.exec(ctx, "insert", insertSQL, title, author, price)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, title, author string, price float64) (bool, error) {
	return r.exec(ctx, "update", updateSQL, title, author, price, id)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.exec(ctx, "delete", deleteSQL, id)
}

// exec runs a single-row mutation and reports whether exactly one row
// was affected.
func (r *PostgresRepo) exec(ctx context.Context, op, sql string, args ...any) (bool, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return false, newDataAccessError(op, err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		return false, newDataAccessError(op, err)
	}
	return tag.RowsAffected() == 1, nil
}
