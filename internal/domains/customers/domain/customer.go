package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName    = errors.New("customer name is required")
	ErrInvalidEmail = errors.New("customer email must contain '@'")
)

// Customer represents a store customer able to place orders.
type Customer struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// NewCustomer builds a customer ensuring required invariants.
func NewCustomer(id int64, name string) (*Customer, error) {
	customer := &Customer{ID: id}
	if err := customer.Rename(name); err != nil {
		return nil, err
	}
	return customer, nil
}

// Rename trims and validates the customer name.
func (c *Customer) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}

// UpdateContact applies contact fields, validating email when present.
func (c *Customer) UpdateContact(email, phone string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	return nil
}

// Validate re-applies core invariants for persistence.
func (c *Customer) Validate() error {
	if err := c.Rename(c.Name); err != nil {
		return err
	}
	return c.UpdateContact(c.Email, c.Phone)
}
