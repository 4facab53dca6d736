package memory

import (
	"context"
	"sync"

	"github.com/petstore/go-petstore-server/internal/domains/orders/ports"
	petsmemory "github.com/petstore/go-petstore-server/internal/domains/pets/adapters/memory"
	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork serializes order+pet mutation pairs behind a single mutex. It is
// a test double: unlike the PostgreSQL implementation there is no rollback, so
// callbacks must validate before they mutate.
type UnitOfWork struct {
	mu     sync.Mutex
	orders *Repository
	pets   *petsmemory.Repository
}

func NewUnitOfWork(orders *Repository, pets *petsmemory.Repository) *UnitOfWork {
	return &UnitOfWork{orders: orders, pets: pets}
}

func (u *UnitOfWork) Within(_ context.Context, fn func(orders ports.Repository, pets petsports.Repository) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(u.orders, u.pets)
}
