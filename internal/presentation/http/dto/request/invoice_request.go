package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerSnapshotRequest carries customer details typed on the invoice form
type CustomerSnapshotRequest struct {
	Name    string `json:"name" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// InvoiceItemRequest represents one line of an invoice creation request
type InvoiceItemRequest struct {
	ProductID     *uuid.UUID       `json:"product_id"`
	ProductName   string           `json:"product_name" binding:"max=255"`
	ColorVariant  string           `json:"color_variant" binding:"max=100"`
	VolumeVariant string           `json:"volume_variant" binding:"max=100"`
	DisplayName   string           `json:"display_name" binding:"max=255"`
	Quantity      int              `json:"quantity"`
	UnitRate      *decimal.Decimal `json:"unit_rate"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	CustomerID      *uuid.UUID              `json:"customer_id"`
	Customer        CustomerSnapshotRequest `json:"customer"`
	IssueDate       string                  `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	GSTEnabled      bool                    `json:"gst_enabled"`
	PaymentReceived bool                    `json:"payment_received"`
	Notes           *string                 `json:"notes"`
	Items           []InvoiceItemRequest    `json:"items" binding:"dive"`
}

// UpdateInvoiceStatusRequest represents a manual status change
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid overdue"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=draft sent paid overdue"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	StartDate  string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// DocumentRequest selects how an invoice document is rendered
type DocumentRequest struct {
	Template string `form:"template" json:"template" binding:"omitempty,oneof=normal thermal"`
	Download bool   `form:"download"`
}

// EmailInvoiceRequest sends an invoice by email. An empty To uses the
// customer email on the invoice.
type EmailInvoiceRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}
