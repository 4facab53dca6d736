package types

import (
	"github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	"github.com/petstore/go-petstore-server/internal/shared/projection"
)

// PetProjection is the read model returned by pet use cases: the aggregate
// plus its persistence metadata.
type PetProjection = projection.Projection[*domain.Pet]
