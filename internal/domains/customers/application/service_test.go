package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petstore/go-petstore-server/internal/domains/customers/adapters/memory"
	"github.com/petstore/go-petstore-server/internal/domains/customers/domain"
	"github.com/petstore/go-petstore-server/internal/domains/customers/ports"
)

func TestRegister_RoundTrip(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "  Alice  ", "alice@example.com", "555-0100")
	require.NoError(t, err)
	assert.NotZero(t, registered.ID)
	assert.Equal(t, "Alice", registered.Name)
	assert.Equal(t, "alice@example.com", registered.Email)

	loaded, err := svc.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered, loaded)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "   ", "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.Register(ctx, "Bob", "not-an-email", "")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.GetByID(context.Background(), 404)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
