package ports

import (
	"context"

	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"
)

// UnitOfWork scopes a set of order and pet writes into one atomic unit: the
// callback either commits as a whole or leaves no trace. Cross-entity
// mutations (order plus pet transitions) must run inside it so partial
// application is never observable.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(orders Repository, pets petsports.Repository) error) error
}
