package ports

import (
	"context"
	"errors"

	"github.com/petstore/go-petstore-server/internal/domains/orders/domain"
)

var (
	// ErrNotFound signals the referenced order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrConflict signals a conditional status update lost against a
	// concurrent writer. Callers must re-query before retrying.
	ErrConflict = errors.New("order was modified concurrently")
	// ErrTransient signals the backing store is temporarily unavailable.
	ErrTransient = errors.New("order store temporarily unavailable")
)

// Repository persists orders. Orders are append-and-transition only; there is
// deliberately no delete.
type Repository interface {
	// Save persists the order conditionally. A nil expected status inserts a
	// new row and fails with ErrConflict when the identifier is taken. A
	// non-nil expected status updates the row only while its stored status
	// still equals expected: losing that race is ErrConflict, a missing row
	// is ErrNotFound.
	Save(ctx context.Context, order *domain.Order, expected *domain.Status) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	// UpdateStatus performs a conditional status transition, succeeding only
	// when the stored status still equals from. Zero rows affected means a
	// concurrent writer won and surfaces as ErrConflict.
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (*domain.Order, error)
}
