package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CustomerSnapshot is the customer contact data captured when an invoice is created.
// Later catalog edits never reach it.
type CustomerSnapshot struct {
	Name    string `gorm:"size:255;not null" json:"name"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
}

// StoreSnapshot is the store branding captured when an invoice is created.
type StoreSnapshot struct {
	BusinessName string `json:"business_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
	Website      string `json:"website,omitempty"`
	Logo         string `json:"logo,omitempty"`
	PaymentQR    string `json:"payment_qr,omitempty"`
}

// Invoice is a billed sale. Apart from Status it is never modified after creation.
type Invoice struct {
	ID            uuid.UUID                          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string                             `gorm:"size:32;not null;index" json:"invoice_number"`
	IssueDate     time.Time                          `gorm:"type:date;not null;index" json:"issue_date"`
	CustomerID    *uuid.UUID                         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer      CustomerSnapshot                   `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Store         datatypes.JSONType[StoreSnapshot]  `json:"store"`
	GSTEnabled    bool                               `gorm:"not null;default:false" json:"gst_enabled"`
	Subtotal      decimal.Decimal                    `gorm:"type:decimal(15,2);not null;default:0" json:"subtotal"`
	TaxAmount     decimal.Decimal                    `gorm:"type:decimal(15,2);not null;default:0" json:"tax_amount"`
	GrandTotal    decimal.Decimal                    `gorm:"type:decimal(15,2);not null;default:0" json:"grand_total"`
	Status        enum.InvoiceStatus                 `gorm:"default:0;index" json:"status"`
	Notes         *string                            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time                          `json:"created_at"`
	UpdatedAt     time.Time                          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt                     `gorm:"index" json:"-"`

	// Relationships
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// FileName is the document file name for the given extension, e.g. Invoice_050325003.html.
func (i *Invoice) FileName(ext string) string {
	return "Invoice_" + i.InvoiceNumber + "." + ext
}

// InvoiceItem represents a line item on an invoice
type InvoiceItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position      int             `gorm:"not null;default:0" json:"position"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName   string          `gorm:"size:255;not null" json:"product_name"`
	ColorVariant  string          `gorm:"size:100" json:"color_variant"`
	VolumeVariant string          `gorm:"size:100" json:"volume_variant"`
	DisplayName   string          `gorm:"size:255" json:"display_name"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitRate      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_rate"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceSequence holds the last issued per-day sequence number.
type InvoiceSequence struct {
	Day       string    `gorm:"size:10;primaryKey" json:"day"` // YYYY-MM-DD
	Last      int       `gorm:"column:last_seq;not null;default:0" json:"last"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
