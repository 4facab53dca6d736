package application

import (
	"context"
	"fmt"

	types "github.com/petstore/go-petstore-server/internal/domains/pets/application/types"
	"github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	"github.com/petstore/go-petstore-server/internal/domains/pets/ports"
)

// Service orchestrates the pets bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the pets service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddPet validates and persists a new pet aggregate. Pets always enter the
// catalog as available; requesting an order-path status here is an
// invalid-state error, not a validation one.
func (s *Service) AddPet(ctx context.Context, input types.AddPetInput) (*types.PetProjection, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	if status != domain.StatusAvailable {
		return nil, fmt.Errorf("%w: pets must be created as %s", ErrInvalidState, domain.StatusAvailable)
	}
	pet, err := domain.NewPet(0, input.Name, input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	applyReferences(pet, input.Category, input.Tags, input.PhotoURLs)
	saved, err := s.repo.Save(ctx, pet, nil)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdatePet applies a partial mutation to an existing pet. The status field is
// deliberately absent from this flow: status moves only through UpdateStatus
// or the order reservation protocol. The save carries the status loaded here
// as its precondition, so a reservation committing between the read and the
// write surfaces as a conflict instead of being silently erased.
func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error) {
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	pet := current.Entity
	loaded := pet.Status
	if input.Name != nil {
		if err := pet.Rename(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Price != nil {
		if err := pet.ChangePrice(*input.Price); err != nil {
			return nil, mapError(err)
		}
	}
	var tags []types.TagInput
	if input.Tags != nil {
		tags = *input.Tags
	}
	var photos []string
	if input.PhotoURLs != nil {
		photos = *input.PhotoURLs
	}
	if input.Category != nil || input.Tags != nil || input.PhotoURLs != nil {
		applyPartialReferences(pet, input.Category, input.Tags != nil, tags, input.PhotoURLs != nil, photos)
	}
	saved, err := s.repo.Save(ctx, pet, &loaded)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateStatus is the administrative status path. Only the available/withdrawn
// pair may be written here; pending and sold belong to the order path and are
// guarded by the same conditional update the reservation protocol uses.
func (s *Service) UpdateStatus(ctx context.Context, input types.UpdatePetStatusInput) (*types.PetProjection, error) {
	target, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	from := current.Entity.Status
	if domain.OrderPath(target) || domain.OrderPath(from) {
		return nil, fmt.Errorf("%w: %s -> %s is reserved for the order path", ErrInvalidState, from, target)
	}
	if !domain.CanTransition(from, target) {
		return nil, fmt.Errorf("%w: %w (%s -> %s)", ErrInvalidState, domain.ErrInvalidTransition, from, target)
	}
	if err := s.repo.TransitionStatus(ctx, input.ID, from, target); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// GetByID loads a single pet aggregate.
func (s *Service) GetByID(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error) {
	result, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// FindByStatus searches pets matching any of the provided statuses.
func (s *Service) FindByStatus(ctx context.Context, input types.FindPetsByStatusInput) ([]*types.PetProjection, error) {
	statuses := make([]domain.Status, 0, len(input.Statuses))
	for _, raw := range input.Statuses {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, mapError(err)
		}
		statuses = append(statuses, status)
	}
	if len(statuses) == 0 {
		statuses = []domain.Status{domain.StatusAvailable}
	}
	result, err := s.repo.FindByStatus(ctx, statuses)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// List exposes all pets for inventory or admin use cases.
func (s *Service) List(ctx context.Context) ([]*types.PetProjection, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func applyReferences(pet *domain.Pet, category *types.CategoryInput, tags []types.TagInput, photos []string) {
	applyPartialReferences(pet, category, true, tags, true, photos)
}

func applyPartialReferences(pet *domain.Pet, category *types.CategoryInput, setTags bool, tags []types.TagInput, setPhotos bool, photos []string) {
	if category != nil {
		if category.ID == 0 && category.Name == "" {
			pet.UpdateCategory(nil)
		} else {
			pet.UpdateCategory(&domain.Category{ID: category.ID, Name: category.Name})
		}
	}
	if setTags {
		domainTags := make([]domain.Tag, 0, len(tags))
		for _, t := range tags {
			domainTags = append(domainTags, domain.Tag{ID: t.ID, Name: t.Name})
		}
		pet.ReplaceTags(domainTags)
	}
	if setPhotos {
		pet.ReplacePhotos(photos)
	}
}

var _ ports.Service = (*Service)(nil)
