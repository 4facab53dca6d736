package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	customerports "github.com/petstore/go-petstore-server/internal/domains/customers/ports"
	"github.com/petstore/go-petstore-server/internal/domains/orders/domain"
	"github.com/petstore/go-petstore-server/internal/domains/orders/ports"
	petsdomain "github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"
)

// Service orchestrates the order use cases, including the inventory
// reservation protocol. It holds no in-process locks across requests:
// correctness under concurrency relies entirely on the store's conditional
// updates, because multiple process instances may run against the same store.
type Service struct {
	orders    ports.Repository
	pets      petsports.Repository
	customers customerports.Repository
	uow       ports.UnitOfWork
	now       func() time.Time
}

// NewService wires the order service with its collaborators.
func NewService(orders ports.Repository, pets petsports.Repository, customers customerports.Repository, uow ports.UnitOfWork) *Service {
	return &Service{
		orders:    orders,
		pets:      pets,
		customers: customers,
		uow:       uow,
		now:       time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *Service) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// PlaceOrder reserves a pet for a customer. The reservation itself is a single
// conditional update (available -> pending): losing that race surfaces as a
// conflict the caller may retry after re-querying. If the order row cannot be
// written after the pet was reserved, the reservation is reverted; a failed
// revert is reported as a compensation error, never swallowed.
func (s *Service) PlaceOrder(ctx context.Context, customerID, petID int64) (*domain.Order, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	current, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	// A pending pet is a reservation another order already holds: that is the
	// same lost race as losing the conditional update below, so it reports as
	// a conflict. Every other non-available status is an invalid-state error.
	if status := current.Entity.Status; status != petsdomain.StatusAvailable {
		if status == petsdomain.StatusPending {
			return nil, fmt.Errorf("%w: pet %d is already reserved", petsports.ErrConflict, petID)
		}
		return nil, fmt.Errorf("%w: pet %d is %s, not %s", ErrInvalidState, petID, status, petsdomain.StatusAvailable)
	}
	if err := s.pets.TransitionStatus(ctx, petID, petsdomain.StatusAvailable, petsdomain.StatusPending); err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(petID, customerID, s.now())
	if err != nil {
		return nil, s.compensate(ctx, petID, mapError(err))
	}
	saved, err := s.orders.Save(ctx, order, nil)
	if err != nil {
		return nil, s.compensate(ctx, petID, err)
	}
	return saved, nil
}

// compensate reverts a reservation after a failed order write. When the revert
// itself fails the pet is stuck pending with no matching order, so both causes
// are joined under ErrCompensation for the operator.
func (s *Service) compensate(ctx context.Context, petID int64, cause error) error {
	if revertErr := s.pets.TransitionStatus(ctx, petID, petsdomain.StatusPending, petsdomain.StatusAvailable); revertErr != nil {
		return fmt.Errorf("%w: pet %d left pending without an order: %w", ErrCompensation, petID, errors.Join(cause, revertErr))
	}
	return cause
}

// ApproveOrder moves a placed order to approved. The pet stays reserved.
func (s *Service) ApproveOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusPlaced {
		return nil, fmt.Errorf("%w: order %d is %s, not %s", ErrInvalidState, orderID, order.Status, domain.StatusPlaced)
	}
	return s.orders.UpdateStatus(ctx, orderID, domain.StatusPlaced, domain.StatusApproved)
}

// FulfillOrder delivers an order: order -> delivered and pet pending -> sold
// as one atomic unit of work. Both writes commit together or neither does.
func (s *Service) FulfillOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.settle(ctx, orderID, domain.StatusDelivered, petsdomain.StatusSold)
}

// CancelOrder releases a reservation: order -> cancelled and pet pending ->
// available as one atomic unit of work. The pet becomes orderable again.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.settle(ctx, orderID, domain.StatusCancelled, petsdomain.StatusAvailable)
}

func (s *Service) settle(ctx context.Context, orderID int64, orderTo domain.Status, petTo petsdomain.Status) (*domain.Order, error) {
	var result *domain.Order
	err := s.uow.Within(ctx, func(orders ports.Repository, pets petsports.Repository) error {
		order, err := orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(order.Status, orderTo) {
			return fmt.Errorf("%w: order %d is %s and cannot become %s", ErrInvalidState, orderID, order.Status, orderTo)
		}
		if err := pets.TransitionStatus(ctx, order.PetID, petsdomain.StatusPending, petTo); err != nil {
			if errors.Is(err, petsports.ErrConflict) {
				return fmt.Errorf("%w: pet %d is not reserved", ErrInvalidState, order.PetID)
			}
			return err
		}
		updated, err := orders.UpdateStatus(ctx, orderID, order.Status, orderTo)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetOrderByID loads a single order.
func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListCustomerOrders returns every order the customer has placed. An unknown
// customer is a not-found error, not an empty list.
func (s *Service) ListCustomerOrders(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orders.FindByCustomer(ctx, customerID)
}

// Inventory returns order counts grouped by status.
func (s *Service) Inventory(ctx context.Context) (map[string]int32, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	result := map[string]int32{}
	for _, order := range orders {
		result[string(order.Status)] += order.Quantity
	}
	return result, nil
}

var _ ports.Service = (*Service)(nil)
