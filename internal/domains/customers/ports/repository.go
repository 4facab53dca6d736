package ports

import (
	"context"
	"errors"

	"github.com/petstore/go-petstore-server/internal/domains/customers/domain"
)

var (
	// ErrNotFound signals the referenced customer does not exist.
	ErrNotFound = errors.New("customer not found")
	// ErrConflict signals a save would overwrite an existing customer.
	ErrConflict = errors.New("customer already exists")
	// ErrTransient signals the backing store is temporarily unavailable.
	ErrTransient = errors.New("customer store temporarily unavailable")
)

// Repository persists customers.
type Repository interface {
	// Save inserts a new customer and fails with ErrConflict when the
	// identifier is already taken; it never overwrites an existing row.
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}
