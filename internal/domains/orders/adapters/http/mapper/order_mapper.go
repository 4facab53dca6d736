package mapper

import (
	"time"

	ordersdomain "github.com/petstore/go-petstore-server/internal/domains/orders/domain"
)

// NewOrder captures the place-order payload.
type NewOrder struct {
	PetID      int64 `json:"petId"`
	CustomerID int64 `json:"customerId"`
}

// Order represents the transport-layer order shape.
type Order struct {
	ID         int64     `json:"id"`
	PetID      int64     `json:"petId"`
	CustomerID int64     `json:"customerId"`
	Quantity   int32     `json:"quantity"`
	Status     string    `json:"status"`
	PlacedAt   time.Time `json:"placedAt"`
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:         order.ID,
		PetID:      order.PetID,
		CustomerID: order.CustomerID,
		Quantity:   order.Quantity,
		Status:     string(order.Status),
		PlacedAt:   order.PlacedAt,
	}
}

// FromDomainOrderList converts a slice of domain orders.
func FromDomainOrderList(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}
