package ports

import (
	"context"
	"errors"

	"github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	"github.com/petstore/go-petstore-server/internal/shared/projection"
)

var (
	// ErrNotFound signals the referenced pet does not exist.
	ErrNotFound = errors.New("pet not found")
	// ErrConflict signals a conditional status update lost against a
	// concurrent writer. Callers must re-query before retrying.
	ErrConflict = errors.New("pet was modified concurrently")
	// ErrTransient signals the backing store is temporarily unavailable.
	ErrTransient = errors.New("pet store temporarily unavailable")
)

// Repository is the persistence capability the pets context depends on.
type Repository interface {
	// Save persists the pet conditionally. A nil expected status inserts a
	// new row and fails with ErrConflict when the identifier is already
	// taken. A non-nil expected status updates the row only while its stored
	// status still equals expected, so a save never overwrites a concurrent
	// status change: losing that race is ErrConflict, a missing row is
	// ErrNotFound.
	Save(ctx context.Context, pet *domain.Pet, expected *domain.Status) (*projection.Projection[*domain.Pet], error)
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Pet], error)
	FindByStatus(ctx context.Context, statuses []domain.Status) ([]*projection.Projection[*domain.Pet], error)
	List(ctx context.Context) ([]*projection.Projection[*domain.Pet], error)
	// TransitionStatus performs a single conditional update of the pet status,
	// succeeding only when the stored status still equals from. It must be
	// expressed as one indivisible operation against the store: returning
	// ErrConflict means another writer won the race.
	TransitionStatus(ctx context.Context, id int64, from, to domain.Status) error
}
