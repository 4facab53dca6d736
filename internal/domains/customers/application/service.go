package application

import (
	"context"

	"github.com/petstore/go-petstore-server/internal/domains/customers/domain"
	"github.com/petstore/go-petstore-server/internal/domains/customers/ports"
)

// Service orchestrates customer use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Register validates and persists a new customer.
func (s *Service) Register(ctx context.Context, name, email, phone string) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(0, name)
	if err != nil {
		return nil, mapError(err)
	}
	if err := customer.UpdateContact(email, phone); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single customer.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
