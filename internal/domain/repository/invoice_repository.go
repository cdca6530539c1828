package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/pkg/pagination"
)

// InvoiceStore persists invoices together with their items.
// Getters return (nil, nil) when nothing matches.
type InvoiceStore interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// ListAll returns every invoice issued in the range, items preloaded.
	ListAll(ctx context.Context, from, to *time.Time) ([]entity.Invoice, error)
	// Count is the number of invoices that have not been deleted.
	Count(ctx context.Context) (int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // invoice number or customer name
	Status     *enum.InvoiceStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// InvoiceSequenceRepository hands out per-day invoice sequence numbers.
type InvoiceSequenceRepository interface {
	// Next atomically increments and returns the counter for day (YYYY-MM-DD).
	Next(ctx context.Context, day string) (int, error)
	// Peek returns the value Next would return without consuming it.
	Peek(ctx context.Context, day string) (int, error)
}
