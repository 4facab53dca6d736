package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/petstore/go-petstore-server/internal/domains/orders/domain"
	"github.com/petstore/go-petstore-server/internal/domains/orders/ports"
	platformpg "github.com/petstore/go-petstore-server/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&orderRecord{}); err != nil {
			log.Printf("postgres order repository migration failed: %v", err)
		}
	}
	return repo
}

// NewTxRepository binds a repository to an existing transaction handle.
// No migration runs; the handle is only valid for the transaction's lifetime.
func NewTxRepository(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	PetID      int64     `gorm:"column:pet_id;index:idx_orders_status_pet"`
	CustomerID int64     `gorm:"column:customer_id;index"`
	Quantity   int32     `gorm:"column:quantity"`
	Status     string    `gorm:"column:status;type:varchar(32);index:idx_orders_status_pet"`
	PlacedAt   time.Time `gorm:"column:placed_at"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Save persists an order under the conditional contract. Inserts (expected
// nil) fail with ErrConflict when the identifier is taken. Updates combine the
// id and the expected status into one conditional UPDATE; status itself moves
// only through UpdateStatus.
func (r *Repository) Save(ctx context.Context, order *domain.Order, expected *domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if expected == nil {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			if platformpg.IsUniqueViolation(err) {
				return nil, fmt.Errorf("%w: order %d already exists", ports.ErrConflict, record.ID)
			}
			return nil, r.wrap(err)
		}
		return r.GetByID(ctx, record.ID)
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", record.ID, string(*expected)).
		Updates(map[string]any{
			"pet_id":      record.PetID,
			"customer_id": record.CustomerID,
			"quantity":    record.Quantity,
			"placed_at":   record.PlacedAt,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, r.wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, r.missingOrConflict(ctx, record.ID)
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, r.wrap(err)
	}
	return record.toDomain(), nil
}

// List returns all orders.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, r.wrap(err)
	}
	return toDomainList(records), nil
}

// FindByCustomer returns every order placed by the given customer.
func (r *Repository) FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, r.wrap(err)
	}
	return toDomainList(records), nil
}

// UpdateStatus flips the order status with a single conditional UPDATE, the
// same shape as the pet reservation: the WHERE clause names the expected
// current status, zero rows affected is disambiguated into not-found versus
// a concurrent writer.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, r.wrap(result.Error)
	}
	if result.RowsAffected == 1 {
		return r.GetByID(ctx, id)
	}
	return nil, r.missingOrConflict(ctx, id)
}

// missingOrConflict disambiguates a zero-row conditional write: the row is
// either gone or another writer moved its status on.
func (r *Repository) missingOrConflict(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return r.wrap(err)
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrConflict
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func (r *Repository) wrap(err error) error {
	if err == nil {
		return nil
	}
	if platformpg.IsTransient(err) {
		return fmt.Errorf("%w: %v", ports.ErrTransient, err)
	}
	return err
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:         order.ID,
		PetID:      order.PetID,
		CustomerID: order.CustomerID,
		Quantity:   order.Quantity,
		Status:     string(order.Status),
		PlacedAt:   order.PlacedAt,
	}
}

func toDomainList(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:         r.ID,
		PetID:      r.PetID,
		CustomerID: r.CustomerID,
		Quantity:   r.Quantity,
		Status:     domain.Status(r.Status),
		PlacedAt:   r.PlacedAt,
	}
}
