package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDSNEnv names the variable holding the integration database DSN.
const TestDSNEnv = "BOOKSTORE_TEST_DSN"

const bookTableDDL = `CREATE TABLE IF NOT EXISTS book (
	book_id SERIAL PRIMARY KEY,
	title   TEXT NOT NULL,
	author  TEXT NOT NULL,
	price   DOUBLE PRECISION NOT NULL
)`

// OpenTestPool connects to the database named by BOOKSTORE_TEST_DSN and
// skips the test when it is unset or unreachable. The pool is closed on
// cleanup.
func OpenTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("Skipping integration test: %s is not set", TestDSNEnv)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Skipping integration test: cannot ping test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// ResetBookTable creates the book table if needed and empties it, so
// the next insert gets id 1.
func ResetBookTable(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	if _, err := pool.Exec(ctx, bookTableDDL); err != nil {
		t.Fatalf("create book table: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE book RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate book table: %v", err)
	}
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse is a decoded HTTP response.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
