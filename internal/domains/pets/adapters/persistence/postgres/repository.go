package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petstore/go-petstore-server/internal/domains/pets/domain"
	"github.com/petstore/go-petstore-server/internal/domains/pets/ports"
	platformpg "github.com/petstore/go-petstore-server/internal/platform/postgres"
	"github.com/petstore/go-petstore-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists pets in PostgreSQL using GORM-mapped columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&categoryRecord{}, &tagRecord{}, &petRecord{}); err != nil {
			log.Printf("postgres pet repository migration failed: %v", err)
		}
	}
	return repo
}

// NewTxRepository binds a repository to an existing transaction handle.
// No migration runs; the handle is only valid for the transaction's lifetime.
func NewTxRepository(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

type categoryRecord struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"column:name"`
}

func (categoryRecord) TableName() string { return "categories" }

type tagRecord struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"column:name"`
}

func (tagRecord) TableName() string { return "tags" }

// petRecord maps the pet aggregate onto the pets table. Category and tags are
// shared rows in their own tables, joined through pet_tags.
type petRecord struct {
	ID         int64           `gorm:"primaryKey;autoIncrement;column:id"`
	Name       string          `gorm:"column:name"`
	CategoryID *int64          `gorm:"column:category_id"`
	Category   *categoryRecord `gorm:"foreignKey:CategoryID;references:ID"`
	Tags       []tagRecord     `gorm:"many2many:pet_tags;joinForeignKey:PetID;joinReferences:TagID"`
	Status     string          `gorm:"column:status;type:varchar(32);index"`
	Price      float64         `gorm:"column:price"`
	PhotoURLs  pq.StringArray  `gorm:"column:photo_urls;type:text[]"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (petRecord) TableName() string { return "pets" }

// Save persists a pet under the conditional contract. Inserts (expected nil)
// fail with ErrConflict when the identifier is taken. Updates combine the id
// and the expected status into one conditional UPDATE, so a save can never
// overwrite a concurrently changed status. Status itself is not part of the
// update set: it moves only through TransitionStatus.
func (r *Repository) Save(ctx context.Context, pet *domain.Pet, expected *domain.Status) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	record := newPetRecord(pet)
	db := r.db.WithContext(ctx)
	if err := r.syncReferences(db, &record); err != nil {
		return nil, r.wrap(err)
	}
	if expected == nil {
		if err := db.Omit(clause.Associations).Create(&record).Error; err != nil {
			if platformpg.IsUniqueViolation(err) {
				return nil, fmt.Errorf("%w: pet %d already exists", ports.ErrConflict, record.ID)
			}
			return nil, r.wrap(err)
		}
		pet.ID = record.ID
	} else {
		result := db.Model(&petRecord{}).
			Where("id = ? AND status = ?", record.ID, string(*expected)).
			Updates(map[string]any{
				"name":        record.Name,
				"category_id": record.CategoryID,
				"price":       record.Price,
				"photo_urls":  record.PhotoURLs,
				"updated_at":  gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return nil, r.wrap(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, r.missingOrConflict(ctx, record.ID)
		}
	}
	if err := r.replaceTags(db, &record); err != nil {
		return nil, r.wrap(err)
	}
	return r.GetByID(ctx, record.ID)
}

// syncReferences upserts the shared category and tag rows the pet points at,
// filling in generated identifiers for new ones.
func (r *Repository) syncReferences(db *gorm.DB, record *petRecord) error {
	if record.Category != nil {
		if err := upsertNamed(db, record.Category, &record.Category.ID, record.Category.Name); err != nil {
			return err
		}
		record.CategoryID = &record.Category.ID
	}
	for i := range record.Tags {
		if err := upsertNamed(db, &record.Tags[i], &record.Tags[i].ID, record.Tags[i].Name); err != nil {
			return err
		}
	}
	return nil
}

func upsertNamed(db *gorm.DB, model any, id *int64, name string) error {
	if *id == 0 {
		return db.Create(model).Error
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{"name": name}),
	}).Create(model).Error
}

func (r *Repository) replaceTags(db *gorm.DB, record *petRecord) error {
	assoc := db.Model(record).Association("Tags")
	if len(record.Tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(&record.Tags)
}

// GetByID fetches a pet by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record petRecord
	if err := r.preloaded(ctx).First(&record, "pets.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, r.wrap(err)
	}
	return toProjection(&record), nil
}

// FindByStatus returns pets matching any provided status.
func (r *Repository) FindByStatus(ctx context.Context, statuses []domain.Status) ([]*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]string, 0, len(statuses))
	for _, s := range statuses {
		args = append(args, string(s))
	}
	var records []petRecord
	if err := r.preloaded(ctx).
		Where("status IN ?", args).
		Order("pets.id").
		Find(&records).Error; err != nil {
		return nil, r.wrap(err)
	}
	return toProjections(records), nil
}

// List returns every persisted pet.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []petRecord
	if err := r.preloaded(ctx).Order("pets.id").Find(&records).Error; err != nil {
		return nil, r.wrap(err)
	}
	return toProjections(records), nil
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") })
}

// TransitionStatus flips the pet status with a single conditional UPDATE.
// The WHERE clause carries both the id and the expected current status, so
// under concurrent writers at most one of them sees RowsAffected == 1. Zero
// rows is then disambiguated with a follow-up read: a missing row is
// ErrNotFound, an existing row whose status moved on is ErrConflict.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&petRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return r.wrap(result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}
	return r.missingOrConflict(ctx, id)
}

// missingOrConflict disambiguates a zero-row conditional write: the row is
// either gone or another writer moved its status on.
func (r *Repository) missingOrConflict(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&petRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return r.wrap(err)
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrConflict
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres pet repository not configured")
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

func newPetRecord(p *domain.Pet) petRecord {
	rec := petRecord{
		ID:        p.ID,
		Name:      p.Name,
		Status:    string(p.Status),
		Price:     p.Price,
		PhotoURLs: copyStringArray(p.PhotoURLs),
	}
	if p.Category != nil {
		rec.Category = &categoryRecord{ID: p.Category.ID, Name: p.Category.Name}
	}
	if len(p.Tags) > 0 {
		rec.Tags = make([]tagRecord, 0, len(p.Tags))
		for _, tag := range p.Tags {
			rec.Tags = append(rec.Tags, tagRecord{ID: tag.ID, Name: tag.Name})
		}
	}
	return rec
}

func toProjections(records []petRecord) []*projection.Projection[*domain.Pet] {
	list := make([]*projection.Projection[*domain.Pet], 0, len(records))
	for i := range records {
		list = append(list, toProjection(&records[i]))
	}
	return list
}

func toProjection(record *petRecord) *projection.Projection[*domain.Pet] {
	if record == nil {
		return nil
	}
	return &projection.Projection[*domain.Pet]{
		Entity:   record.toDomain(),
		Metadata: projection.Metadata{CreatedAt: record.CreatedAt, UpdatedAt: record.UpdatedAt},
	}
}

func (r *petRecord) toDomain() *domain.Pet {
	if r == nil {
		return nil
	}
	pet := &domain.Pet{
		ID:     r.ID,
		Name:   r.Name,
		Status: domain.Status(r.Status),
		Price:  r.Price,
	}
	if len(r.PhotoURLs) > 0 {
		pet.PhotoURLs = append([]string{}, r.PhotoURLs...)
	}
	if r.Category != nil {
		pet.Category = &domain.Category{ID: r.Category.ID, Name: r.Category.Name}
	}
	if len(r.Tags) > 0 {
		tags := make([]domain.Tag, 0, len(r.Tags))
		for _, tag := range r.Tags {
			tags = append(tags, domain.Tag{ID: tag.ID, Name: tag.Name})
		}
		pet.Tags = tags
	}
	return pet
}

func copyStringArray(values []string) pq.StringArray {
	if len(values) == 0 {
		return nil
	}
	return pq.StringArray(append([]string{}, values...))
}
