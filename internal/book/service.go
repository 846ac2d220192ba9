package book

import (
	"context"
)

const (
	causeList   = "failed to list books"
	causeInsert = "failed to insert a book"
	causeUpdate = "failed to update a book"
	causeDelete = "failed to delete book"
	causeGet    = "failed to retrieve book"
)

// Service provides book-related business logic on top of a Repository.
// Every repository failure leaves the Service as a *ServiceError.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListAllBooks returns every stored book, in no particular order.
func (s *Service) ListAllBooks(ctx context.Context) ([]Book, error) {
	books, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, &ServiceError{Cause: causeList, Err: err}
	}
	return books, nil
}

// InsertBook stores a new book. b.ID is ignored; the store assigns it.
func (s *Service) InsertBook(ctx context.Context, b Book) (bool, error) {
	ok, err := s.repo.Insert(ctx, b.Title, b.Author, b.Price)
	if err != nil {
		return false, &ServiceError{Cause: causeInsert, Err: err}
	}
	return ok, nil
}

// UpdateBook overwrites title, author and price of an existing book.
// It returns ErrBookNotFound, without issuing the update, when b.ID is
// unknown. The check and the update are not atomic: a concurrent delete
// in between makes it return false.
func (s *Service) UpdateBook(ctx context.Context, b Book) (bool, error) {
	_, found, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return false, &ServiceError{Cause: causeUpdate, Err: err}
	}
	if !found {
		return false, ErrBookNotFound
	}

	ok, err := s.repo.Update(ctx, b.ID, b.Title, b.Author, b.Price)
	if err != nil {
		return false, &ServiceError{Cause: causeUpdate, Err: err}
	}
	return ok, nil
}

// DeleteBook removes a book, returning ErrBookNotFound when id is unknown.
func (s *Service) DeleteBook(ctx context.Context, id int64) (bool, error) {
	_, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, &ServiceError{Cause: causeDelete, Err: err}
	}
	if !found {
		return false, ErrBookNotFound
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, &ServiceError{Cause: causeDelete, Err: err}
	}
	return ok, nil
}

// GetBook returns the book with the given id; found is false when there
// is none.
func (s *Service) GetBook(ctx context.Context, id int64) (Book, bool, error) {
	b, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, false, &ServiceError{Cause: causeGet, Err: err}
	}
	return b, found, nil
}
