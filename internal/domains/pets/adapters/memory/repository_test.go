package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	"github.com/petstore/go-petstore-server/internal/domains/pets/ports"
)

func newPet(t *testing.T) *domain.Pet {
	t.Helper()
	pet, err := domain.NewPet(0, "Buddy", 100)
	require.NoError(t, err)
	return pet
}

func TestSave_InsertAssignsID(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, newPet(t), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, saved.Entity.ID)
	assert.Equal(t, domain.StatusAvailable, saved.Entity.Status)
}

func TestSave_InsertTakenID(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, newPet(t), nil)
	require.NoError(t, err)

	dupe := newPet(t)
	dupe.ID = saved.Entity.ID
	_, err = repo.Save(ctx, dupe, nil)
	require.ErrorIs(t, err, ports.ErrConflict)
}

func TestSave_UpdateRequiresExpectedStatus(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, newPet(t), nil)
	require.NoError(t, err)
	id := saved.Entity.ID

	// a writer moves the status between the read and the save
	require.NoError(t, repo.TransitionStatus(ctx, id, domain.StatusAvailable, domain.StatusPending))

	stale := saved.Entity.Clone()
	stale.Name = "Rex"
	expected := domain.StatusAvailable
	_, err = repo.Save(ctx, stale, &expected)
	require.ErrorIs(t, err, ports.ErrConflict)

	current, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, current.Entity.Status)
	assert.Equal(t, "Buddy", current.Entity.Name)
}

func TestSave_UpdateKeepsStoredStatus(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, newPet(t), nil)
	require.NoError(t, err)

	renamed := saved.Entity.Clone()
	renamed.Name = "Rex"
	expected := domain.StatusAvailable
	updated, err := repo.Save(ctx, renamed, &expected)
	require.NoError(t, err)
	assert.Equal(t, "Rex", updated.Entity.Name)
	assert.Equal(t, domain.StatusAvailable, updated.Entity.Status)
}

func TestSave_UpdateMissingPet(t *testing.T) {
	repo := NewRepository()

	pet := newPet(t)
	pet.ID = 404
	expected := domain.StatusAvailable
	_, err := repo.Save(context.Background(), pet, &expected)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
