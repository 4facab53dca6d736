package petstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customerhttpmapper "github.com/petstore/go-petstore-server/internal/domains/customers/adapters/http/mapper"
	customersports "github.com/petstore/go-petstore-server/internal/domains/customers/ports"
)

// CustomerAPI wires HTTP transport with the customers bounded context service.
type CustomerAPI struct {
	service customersports.Service
}

// NewCustomerAPI creates a CustomerAPI backed by the provided service.
func NewCustomerAPI(service customersports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

// Post /v1/customers
// Register a new customer
func (api *CustomerAPI) RegisterCustomer(c *gin.Context) {
	var payload customerhttpmapper.NewCustomer
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	customer, err := api.service.Register(c.Request.Context(), payload.Name, payload.Email, payload.Phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customerhttpmapper.FromDomainCustomer(customer))
}

// Get /v1/customers/:customerId
// Find customer by ID
func (api *CustomerAPI) GetCustomerById(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	customer, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerhttpmapper.FromDomainCustomer(customer))
}
