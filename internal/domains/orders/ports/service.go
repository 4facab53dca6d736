package ports

import (
	"context"

	"github.com/petstore/go-petstore-server/internal/domains/orders/domain"
)

// Service exposes order use cases to inbound adapters.
type Service interface {
	PlaceOrder(ctx context.Context, customerID, petID int64) (*domain.Order, error)
	ApproveOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	FulfillOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64) ([]*domain.Order, error)
	Inventory(ctx context.Context) (map[string]int32, error)
}
