package mapper

import (
	customersdomain "github.com/petstore/go-petstore-server/internal/domains/customers/domain"
)

// NewCustomer captures the registration payload.
type NewCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Customer is the transport-layer customer shape.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// FromDomainCustomer converts a domain customer to the transport representation.
func FromDomainCustomer(customer *customersdomain.Customer) Customer {
	if customer == nil {
		return Customer{}
	}
	return Customer{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
	}
}
