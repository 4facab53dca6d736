package ports

import (
	"context"

	"github.com/petstore/go-petstore-server/internal/domains/customers/domain"
)

// Service exposes customer use cases to inbound adapters.
type Service interface {
	Register(ctx context.Context, name, email, phone string) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}
