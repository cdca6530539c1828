package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable product in the catalog
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name          string          `gorm:"size:255;not null;index" json:"name"`
	Code          *string         `gorm:"size:100" json:"code,omitempty"`
	ColorVariant  string          `gorm:"size:100" json:"color_variant"`
	VolumeVariant string          `gorm:"size:100" json:"volume_variant"`
	Rate          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"rate"`
	HSNCode       *string         `gorm:"size:20;column:hsn_code" json:"hsn_code,omitempty"`
	Stock         int             `gorm:"default:0" json:"stock"`
	Notes         *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
