package ports

import (
	"context"

	types "github.com/petstore/go-petstore-server/internal/domains/pets/application/types"
)

// Service exposes the pets use cases to inbound adapters.
type Service interface {
	AddPet(ctx context.Context, input types.AddPetInput) (*types.PetProjection, error)
	UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error)
	UpdateStatus(ctx context.Context, input types.UpdatePetStatusInput) (*types.PetProjection, error)
	GetByID(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error)
	FindByStatus(ctx context.Context, input types.FindPetsByStatusInput) ([]*types.PetProjection, error)
	List(ctx context.Context) ([]*types.PetProjection, error)
}
