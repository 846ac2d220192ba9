package book

import (
	"errors"
	"fmt"

	"bookstore/internal/database"
)

// ErrBookNotFound is returned by the Service when the book an update or
// delete refers to does not exist.
var ErrBookNotFound = errors.New("book not found")

// Book is one row of the book table. ID is assigned by the store on insert.
type Book struct {
	ID     int64   `json:"id" db:"book_id"`
	Title  string  `json:"title" db:"title"`
	Author string  `json:"author" db:"author"`
	Price  float64 `json:"price" db:"price"`
}

// DataAccessError is returned by the repository for any failure talking
// to the store: acquiring a connection, running the statement, or reading
// the result.
type DataAccessError struct {
	Op   string
	Kind database.Kind
	Err  error
}

func newDataAccessError(op string, err error) *DataAccessError {
	return &DataAccessError{Op: op, Kind: database.Classify(err), Err: err}
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("book %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// ServiceError wraps a repository failure with the operation that failed.
// Cause is stable and safe to branch on; Err is for logs only.
type ServiceError struct {
	Cause string
	Err   error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Cause
	}
	return e.Cause + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
