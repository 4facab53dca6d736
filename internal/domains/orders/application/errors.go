package application

import (
	"errors"
	"fmt"

	"github.com/petstore/go-petstore-server/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInvalidState signals the requested transition violates the state table.
	ErrInvalidState = errors.New("invalid order state")
	// ErrCompensation signals a multi-step operation failed to roll back
	// cleanly: a pet may be stuck pending with no matching order. This is a
	// fatal inconsistency requiring operator intervention and must never be
	// swallowed.
	ErrCompensation = errors.New("order compensation failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidPetID) ||
		errors.Is(err, domain.ErrInvalidCustomerID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrUnknownStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return err
}
