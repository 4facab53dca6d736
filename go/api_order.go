package petstoreserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/petstore/go-petstore-server/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/petstore/go-petstore-server/internal/domains/orders/domain"
	ordersports "github.com/petstore/go-petstore-server/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service ordersports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /v1/orders
// Place an order for a pet, reserving it
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.NewOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), payload.CustomerID, payload.PetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

// Get /v1/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Post /v1/orders/:orderId/approve
// Approve a placed order; the pet stays reserved
func (api *OrderAPI) ApproveOrder(c *gin.Context) {
	api.transition(c, api.service.ApproveOrder)
}

// Post /v1/orders/:orderId/fulfill
// Deliver the order and mark the pet sold
func (api *OrderAPI) FulfillOrder(c *gin.Context) {
	api.transition(c, api.service.FulfillOrder)
}

// Post /v1/orders/:orderId/cancel
// Cancel the order and release the pet reservation
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	api.transition(c, api.service.CancelOrder)
}

func (api *OrderAPI) transition(c *gin.Context, op func(ctx context.Context, orderID int64) (*ordersdomain.Order, error)) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := op(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Get /v1/customers/:customerId/orders
// Orders placed by a customer
func (api *OrderAPI) ListCustomerOrders(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	orders, err := api.service.ListCustomerOrders(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrderList(orders))
}

// Get /v1/store/inventory
// Order counts grouped by status
func (api *OrderAPI) GetInventory(c *gin.Context) {
	inventory, err := api.service.Inventory(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}
