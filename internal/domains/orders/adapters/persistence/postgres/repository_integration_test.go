//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/petstore/go-petstore-server/internal/domains/orders/domain"
	"github.com/petstore/go-petstore-server/internal/domains/orders/ports"
	petspostgres "github.com/petstore/go-petstore-server/internal/domains/pets/adapters/persistence/postgres"
	petsdomain "github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"
	"github.com/petstore/go-petstore-server/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("petstore_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedPet(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	pet, err := petsdomain.NewPet(0, "Rex", 100)
	require.NoError(t, err)
	saved, err := petspostgres.NewRepository(db).Save(context.Background(), pet, nil)
	require.NoError(t, err)
	return saved.Entity.ID
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder(seedPet(t, db), 7, time.Now().UTC())
	require.NoError(t, err)

	saved, err := repo.Save(ctx, order, nil)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	assert.Equal(t, domain.StatusPlaced, saved.Status)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.PetID, fetched.PetID)
	assert.EqualValues(t, 7, fetched.CustomerID)
	assert.EqualValues(t, 1, fetched.Quantity)
}

func TestRepository_UpdateStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder(seedPet(t, db), 7, time.Now().UTC())
	require.NoError(t, err)
	saved, err := repo.Save(ctx, order, nil)
	require.NoError(t, err)

	approved, err := repo.UpdateStatus(ctx, saved.ID, domain.StatusPlaced, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)

	// stale expectation loses the conditional update
	_, err = repo.UpdateStatus(ctx, saved.ID, domain.StatusPlaced, domain.StatusCancelled)
	assert.ErrorIs(t, err, ports.ErrConflict)

	_, err = repo.UpdateStatus(ctx, 404, domain.StatusPlaced, domain.StatusApproved)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_FindByCustomer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, customerID := range []int64{7, 7, 9} {
		order, err := domain.NewOrder(seedPet(t, db), customerID, time.Now().UTC())
		require.NoError(t, err)
		_, err = repo.Save(ctx, order, nil)
		require.NoError(t, err)
	}

	mine, err := repo.FindByCustomer(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUnitOfWork_RollsBackBothWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	petRepo := petspostgres.NewRepository(db)
	orderRepo := NewRepository(db)
	uow := NewUnitOfWork(db)

	petID := seedPet(t, db)
	require.NoError(t, petRepo.TransitionStatus(ctx, petID, petsdomain.StatusAvailable, petsdomain.StatusPending))

	order, err := domain.NewOrder(petID, 7, time.Now().UTC())
	require.NoError(t, err)
	saved, err := orderRepo.Save(ctx, order, nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = uow.Within(ctx, func(orders ports.Repository, pets petsports.Repository) error {
		if err := pets.TransitionStatus(ctx, petID, petsdomain.StatusPending, petsdomain.StatusSold); err != nil {
			return err
		}
		if _, err := orders.UpdateStatus(ctx, saved.ID, domain.StatusPlaced, domain.StatusDelivered); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// neither write must be visible after the rollback
	pet, err := petRepo.GetByID(ctx, petID)
	require.NoError(t, err)
	assert.Equal(t, petsdomain.StatusPending, pet.Entity.Status)

	fetched, err := orderRepo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaced, fetched.Status)
}

func TestUnitOfWork_CommitsBothWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	petRepo := petspostgres.NewRepository(db)
	orderRepo := NewRepository(db)
	uow := NewUnitOfWork(db)

	petID := seedPet(t, db)
	require.NoError(t, petRepo.TransitionStatus(ctx, petID, petsdomain.StatusAvailable, petsdomain.StatusPending))

	order, err := domain.NewOrder(petID, 7, time.Now().UTC())
	require.NoError(t, err)
	saved, err := orderRepo.Save(ctx, order, nil)
	require.NoError(t, err)

	err = uow.Within(ctx, func(orders ports.Repository, pets petsports.Repository) error {
		if err := pets.TransitionStatus(ctx, petID, petsdomain.StatusPending, petsdomain.StatusSold); err != nil {
			return err
		}
		_, err := orders.UpdateStatus(ctx, saved.ID, domain.StatusPlaced, domain.StatusDelivered)
		return err
	})
	require.NoError(t, err)

	pet, err := petRepo.GetByID(ctx, petID)
	require.NoError(t, err)
	assert.Equal(t, petsdomain.StatusSold, pet.Entity.Status)

	fetched, err := orderRepo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, fetched.Status)
}
