package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage. Implementations
// perform no existence checks: a mutation that matches no row reports
// false, not an error.
type Repository interface {
	ListAll(ctx context.Context) ([]Book, error)
	Insert(ctx context.Context, title, author string, price float64) (bool, error)
	// GetByID reports found == false with a nil error when no row matches.
	GetByID(ctx context.Context, id int64) (Book, bool, error)
	Update(ctx context.Context, id int64, title, author string, price float64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
