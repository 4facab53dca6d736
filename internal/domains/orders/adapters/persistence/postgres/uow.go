package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/petstore/go-petstore-server/internal/domains/orders/ports"
	petspostgres "github.com/petstore/go-petstore-server/internal/domains/pets/adapters/persistence/postgres"
	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"
	platformpg "github.com/petstore/go-petstore-server/internal/platform/postgres"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs order and pet writes inside one database transaction. The
// callback receives transaction-bound repositories; an error from it rolls
// the whole transaction back, so an order flip never commits without its
// matching pet flip.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(orders ports.Repository, pets petsports.Repository) error) error {
	if u == nil || u.db == nil {
		return errors.New("postgres unit of work not configured")
	}
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewTxRepository(tx), petspostgres.NewTxRepository(tx))
	})
	if err != nil && platformpg.IsTransient(err) {
		return fmt.Errorf("%w: %v", ports.ErrTransient, err)
	}
	return err
}
