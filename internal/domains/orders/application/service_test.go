package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customersmemory "github.com/petstore/go-petstore-server/internal/domains/customers/adapters/memory"
	customersdomain "github.com/petstore/go-petstore-server/internal/domains/customers/domain"
	customerports "github.com/petstore/go-petstore-server/internal/domains/customers/ports"
	ordersmemory "github.com/petstore/go-petstore-server/internal/domains/orders/adapters/memory"
	"github.com/petstore/go-petstore-server/internal/domains/orders/domain"
	"github.com/petstore/go-petstore-server/internal/domains/orders/ports"
	petsmemory "github.com/petstore/go-petstore-server/internal/domains/pets/adapters/memory"
	petsapp "github.com/petstore/go-petstore-server/internal/domains/pets/application"
	petstypes "github.com/petstore/go-petstore-server/internal/domains/pets/application/types"
	petsdomain "github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"
	"github.com/petstore/go-petstore-server/internal/shared/projection"
)

type fixture struct {
	svc       *Service
	orders    *ordersmemory.Repository
	pets      *petsmemory.Repository
	customers *customersmemory.Repository
	petID     int64
	custID    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	orders := ordersmemory.NewRepository()
	pets := petsmemory.NewRepository()
	customers := customersmemory.NewRepository()
	uow := ordersmemory.NewUnitOfWork(orders, pets)

	pet, err := petsdomain.NewPet(0, "Buddy", 100)
	require.NoError(t, err)
	savedPet, err := pets.Save(ctx, pet, nil)
	require.NoError(t, err)

	customer, err := customersdomain.NewCustomer(0, "Alice")
	require.NoError(t, err)
	savedCustomer, err := customers.Save(ctx, customer)
	require.NoError(t, err)

	return &fixture{
		svc:       NewService(orders, pets, customers, uow),
		orders:    orders,
		pets:      pets,
		customers: customers,
		petID:     savedPet.Entity.ID,
		custID:    savedCustomer.ID,
	}
}

func (f *fixture) petStatus(t *testing.T) petsdomain.Status {
	t.Helper()
	current, err := f.pets.GetByID(context.Background(), f.petID)
	require.NoError(t, err)
	return current.Entity.Status
}

func TestPlaceOrder_ReservesPet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaced, order.Status)
	assert.Equal(t, f.petID, order.PetID)
	assert.Equal(t, f.custID, order.CustomerID)
	assert.EqualValues(t, 1, order.Quantity)
	assert.Equal(t, petsdomain.StatusPending, f.petStatus(t))
}

func TestPlaceOrder_UnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), 404, f.petID)
	require.ErrorIs(t, err, customerports.ErrNotFound)
	assert.Equal(t, petsdomain.StatusAvailable, f.petStatus(t))
}

func TestPlaceOrder_UnknownPet(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.custID, 404)
	require.ErrorIs(t, err, petsports.ErrNotFound)
}

func TestPlaceOrder_SoldPet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.pets.TransitionStatus(ctx, f.petID, petsdomain.StatusAvailable, petsdomain.StatusPending))
	require.NoError(t, f.pets.TransitionStatus(ctx, f.petID, petsdomain.StatusPending, petsdomain.StatusSold))

	_, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.ErrorIs(t, err, ErrInvalidState)

	list, listErr := f.orders.List(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, list)
	assert.Equal(t, petsdomain.StatusSold, f.petStatus(t))
}

func TestPlaceOrder_ReservedPetConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.ErrorIs(t, err, petsports.ErrConflict)
	require.NotErrorIs(t, err, ErrInvalidState)

	list, err := f.orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPlaceOrder_ExactlyOneWinnerUnderContention(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.PlaceOrder(ctx, f.custID, f.petID)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, petsports.ErrConflict):
			// losing the CAS and a pre-check that sees pending both conflict
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)
	assert.Equal(t, petsdomain.StatusPending, f.petStatus(t))

	list, err := f.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.petID, list[0].PetID)
}

// reservingPetRepo commits a reservation between a caller's read and write,
// standing in for a PlaceOrder racing an administrative pet update.
type reservingPetRepo struct {
	petsports.Repository
	reserve func()
}

func (r *reservingPetRepo) Save(ctx context.Context, pet *petsdomain.Pet, expected *petsdomain.Status) (*projection.Projection[*petsdomain.Pet], error) {
	if r.reserve != nil {
		r.reserve()
	}
	return r.Repository.Save(ctx, pet, expected)
}

func TestUpdatePet_CannotEraseReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	repo := &reservingPetRepo{Repository: f.pets}
	repo.reserve = func() {
		_, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
		require.NoError(t, err)
	}
	petSvc := petsapp.NewService(repo)

	name := "Rex"
	_, err := petSvc.UpdatePet(ctx, petstypes.UpdatePetInput{ID: f.petID, Name: &name})
	require.ErrorIs(t, err, petsports.ErrConflict)
	assert.Equal(t, petsdomain.StatusPending, f.petStatus(t), "reservation must survive the stale update")

	_, err = f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.ErrorIs(t, err, petsports.ErrConflict)

	list, err := f.orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "the reserved pet can back at most one order")
}

type failingOrderRepo struct {
	ports.Repository
	saveErr error
}

func (f *failingOrderRepo) Save(context.Context, *domain.Order, *domain.Status) (*domain.Order, error) {
	return nil, f.saveErr
}

type conflictOnRevertPetRepo struct {
	petsports.Repository
	reverts int
}

func (c *conflictOnRevertPetRepo) TransitionStatus(ctx context.Context, id int64, from, to petsdomain.Status) error {
	if from == petsdomain.StatusPending && to == petsdomain.StatusAvailable {
		c.reverts++
		return petsports.ErrConflict
	}
	return c.Repository.TransitionStatus(ctx, id, from, to)
}

func TestPlaceOrder_CompensatesFailedOrderWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saveErr := errors.New("orders table unavailable")
	svc := NewService(&failingOrderRepo{Repository: f.orders, saveErr: saveErr}, f.pets, f.customers, ordersmemory.NewUnitOfWork(f.orders, f.pets))

	_, err := svc.PlaceOrder(ctx, f.custID, f.petID)
	require.ErrorIs(t, err, saveErr)
	require.NotErrorIs(t, err, ErrCompensation)
	assert.Equal(t, petsdomain.StatusAvailable, f.petStatus(t), "reservation must be reverted")
}

func TestPlaceOrder_SurfacesCompensationFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saveErr := errors.New("orders table unavailable")
	pets := &conflictOnRevertPetRepo{Repository: f.pets}
	svc := NewService(&failingOrderRepo{Repository: f.orders, saveErr: saveErr}, pets, f.customers, ordersmemory.NewUnitOfWork(f.orders, f.pets))

	_, err := svc.PlaceOrder(ctx, f.custID, f.petID)
	require.ErrorIs(t, err, ErrCompensation)
	require.ErrorIs(t, err, saveErr)
	assert.Equal(t, 1, pets.reverts)
}

func TestFulfillOrder_DeliversAndSells(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)

	delivered, err := f.svc.FulfillOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, delivered.Status)
	assert.Equal(t, petsdomain.StatusSold, f.petStatus(t))
}

func TestFulfillThenCancel_Fails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)
	_, err = f.svc.FulfillOrder(ctx, placed.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, placed.ID)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, petsdomain.StatusSold, f.petStatus(t))
}

func TestCancelOrder_MakesPetOrderableAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)

	cancelled, err := f.svc.CancelOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, petsdomain.StatusAvailable, f.petStatus(t))

	again, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaced, again.Status)
	assert.NotEqual(t, placed.ID, again.ID)
}

func TestCancelOrder_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)
	_, err = f.svc.CancelOrder(ctx, placed.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, placed.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestApproveOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)

	approved, err := f.svc.ApproveOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.Equal(t, petsdomain.StatusPending, f.petStatus(t), "approval keeps the reservation")

	_, err = f.svc.ApproveOrder(ctx, placed.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	delivered, err := f.svc.FulfillOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, delivered.Status)
}

func TestInventory_CountsByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)
	_, err = f.svc.CancelOrder(ctx, placed.ID)
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)

	inventory, err := f.svc.Inventory(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, inventory["cancelled"])
	assert.EqualValues(t, 1, inventory["placed"])
}

func TestListCustomerOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)
	_, err = f.svc.CancelOrder(ctx, placed.ID)
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)

	orders, err := f.svc.ListCustomerOrders(ctx, f.custID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.Equal(t, f.custID, order.CustomerID)
	}

	other, err := customersdomain.NewCustomer(0, "Bob")
	require.NoError(t, err)
	saved, err := f.customers.Save(ctx, other)
	require.NoError(t, err)
	orders, err = f.svc.ListCustomerOrders(ctx, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListCustomerOrders_UnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListCustomerOrders(context.Background(), 404)
	require.ErrorIs(t, err, customerports.ErrNotFound)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetOrderByID(context.Background(), 404)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestWithClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.svc.WithClock(func() time.Time { return placedAt })

	order, err := f.svc.PlaceOrder(ctx, f.custID, f.petID)
	require.NoError(t, err)
	assert.Equal(t, placedAt, order.PlacedAt)
}
