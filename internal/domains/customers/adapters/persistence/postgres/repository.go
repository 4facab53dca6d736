package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/petstore/go-petstore-server/internal/domains/customers/domain"
	"github.com/petstore/go-petstore-server/internal/domains/customers/ports"
	platformpg "github.com/petstore/go-petstore-server/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&customerRecord{}); err != nil {
			log.Printf("postgres customer repository migration failed: %v", err)
		}
	}
	return repo
}

type customerRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;index"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Save inserts a new customer. An already-taken identifier is ErrConflict;
// existing rows are never overwritten.
func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	record := customerRecord{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if platformpg.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: customer %d", ports.ErrConflict, record.ID)
		}
		return nil, r.wrap(err)
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a customer by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, r.wrap(err)
	}
	return &domain.Customer{
		ID:    record.ID,
		Name:  record.Name,
		Email: record.Email,
		Phone: record.Phone,
	}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
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
