package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&tagRecord{},
		&petRecord{},
		&customerRecord{},
		&orderRecord{},
	)
}

// Category and tag rows are shared across pets; the pet_tags join table is
// derived from the many-to-many mapping on petRecord.
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

// Pet schema mirrors the pets Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
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

// Customer schema mirrors the customers Postgres adapter.
type customerRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;index"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }
