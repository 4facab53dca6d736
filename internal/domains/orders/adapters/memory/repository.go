package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/petstore/go-petstore-server/internal/domains/orders/domain"
	"github.com/petstore/go-petstore-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Conditional updates
// are serialized by the mutex, standing in for the store's atomic primitive.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

// Save applies the conditional contract under the repository lock: inserts
// demand a free identifier, updates demand the stored status still equals
// expected.
func (r *Repository) Save(_ context.Context, order *domain.Order, expected *domain.Status) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := *order
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if expected == nil {
		if clone.ID == 0 {
			r.nextID++
			clone.ID = r.nextID
		} else if _, taken := r.orders[clone.ID]; taken {
			return nil, ports.ErrConflict
		} else if clone.ID > r.nextID {
			r.nextID = clone.ID
		}
		r.orders[clone.ID] = &clone
		saved := clone
		return &saved, nil
	}
	existing, ok := r.orders[clone.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if existing.Status != *expected {
		return nil, ports.ErrConflict
	}
	clone.Status = existing.Status
	r.orders[clone.ID] = &clone
	saved := clone
	return &saved, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		clone := *order
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) FindByCustomer(_ context.Context, customerID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			clone := *order
			list = append(list, &clone)
		}
	}
	return list, nil
}

// UpdateStatus compares and swaps the order status under the repository lock.
func (r *Repository) UpdateStatus(_ context.Context, id int64, from, to domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if order.Status != from {
		return nil, ports.ErrConflict
	}
	order.Status = to
	clone := *order
	return &clone, nil
}
