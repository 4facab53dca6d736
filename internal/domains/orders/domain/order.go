package domain

import (
	"errors"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusApproved  Status = "approved"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var (
	ErrInvalidPetID      = errors.New("pet id must be greater than zero")
	ErrInvalidCustomerID = errors.New("customer id must be greater than zero")
	ErrInvalidQuantity   = errors.New("order quantity is fixed at one pet")
	ErrUnknownStatus     = errors.New("order status is not recognized")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
)

// Order holds the relationship between exactly one pet and exactly one
// customer. It owns neither lifecycle and is never deleted; terminal orders
// are retained for audit.
type Order struct {
	ID         int64
	PetID      int64
	CustomerID int64
	Quantity   int32
	Status     Status
	PlacedAt   time.Time
}

// NewOrder validates and constructs a freshly placed Order. The store sells
// discrete animals, so quantity is always one.
func NewOrder(petID, customerID int64, placedAt time.Time) (*Order, error) {
	order := &Order{
		PetID:      petID,
		CustomerID: customerID,
		Quantity:   1,
		Status:     StatusPlaced,
		PlacedAt:   placedAt,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.PetID <= 0 {
		return ErrInvalidPetID
	}
	if o.CustomerID <= 0 {
		return ErrInvalidCustomerID
	}
	if o.Quantity != 1 {
		return ErrInvalidQuantity
	}
	if !ValidStatus(o.Status) {
		return ErrUnknownStatus
	}
	return nil
}

// ValidStatus reports whether the status is one of the enumerated values.
func ValidStatus(status Status) bool {
	switch status {
	case StatusPlaced, StatusApproved, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition is the single source of truth for the order status table.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPlaced:
		return to == StatusApproved || to == StatusDelivered || to == StatusCancelled
	case StatusApproved:
		return to == StatusDelivered || to == StatusCancelled
	default:
		return false
	}
}

// TransitionTo applies a status change after checking the transition table.
func (o *Order) TransitionTo(to Status) error {
	if !ValidStatus(to) {
		return ErrUnknownStatus
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition
	}
	o.Status = to
	return nil
}
