package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	"github.com/petstore/go-petstore-server/internal/domains/pets/ports"
	"github.com/petstore/go-petstore-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type record struct {
	pet       *domain.Pet
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory pet persistence adapter used as dev fallback and
// test double. Conditional updates are serialized by the mutex, which stands
// in for the store-level atomic primitive.
type Repository struct {
	mu     sync.RWMutex
	pets   map[int64]*record
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{pets: map[int64]*record{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Save applies the conditional contract under the repository lock: inserts
// demand a free identifier, updates demand the stored status still equals
// expected.
func (r *Repository) Save(_ context.Context, pet *domain.Pet, expected *domain.Status) (*projection.Projection[*domain.Pet], error) {
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := pet.Clone()
	now := r.now()
	if expected == nil {
		if clone.ID == 0 {
			r.nextID++
			clone.ID = r.nextID
		} else if _, taken := r.pets[clone.ID]; taken {
			return nil, ports.ErrConflict
		} else if clone.ID > r.nextID {
			r.nextID = clone.ID
		}
		r.pets[clone.ID] = &record{pet: clone, createdAt: now, updatedAt: now}
		pet.ID = clone.ID
		return projection.New(clone.Clone(), now, now), nil
	}
	existing, ok := r.pets[clone.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if existing.pet.Status != *expected {
		return nil, ports.ErrConflict
	}
	clone.Status = existing.pet.Status
	r.pets[clone.ID] = &record{pet: clone, createdAt: existing.createdAt, updatedAt: now}
	return projection.New(clone.Clone(), existing.createdAt, now), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.pets[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projection.New(rec.pet.Clone(), rec.createdAt, rec.updatedAt), nil
}

func (r *Repository) FindByStatus(_ context.Context, statuses []domain.Status) ([]*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[domain.Status]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}
	var result []*projection.Projection[*domain.Pet]
	for _, rec := range r.pets {
		if _, ok := wanted[rec.pet.Status]; ok {
			result = append(result, projection.New(rec.pet.Clone(), rec.createdAt, rec.updatedAt))
		}
	}
	return result, nil
}

func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*projection.Projection[*domain.Pet], 0, len(r.pets))
	for _, rec := range r.pets {
		result = append(result, projection.New(rec.pet.Clone(), rec.createdAt, rec.updatedAt))
	}
	return result, nil
}

// TransitionStatus compares and swaps the status under the repository lock.
func (r *Repository) TransitionStatus(_ context.Context, id int64, from, to domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.pets[id]
	if !ok {
		return ports.ErrNotFound
	}
	if rec.pet.Status != from {
		return ports.ErrConflict
	}
	rec.pet.Status = to
	rec.updatedAt = r.now()
	return nil
}
