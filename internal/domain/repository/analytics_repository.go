package repository

import (
	"context"
	"time"

	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// TopItemResult is one sold item grouped by its naming fields.
type TopItemResult struct {
	ProductName   string
	ColorVariant  string
	VolumeVariant string
	DisplayName   string
	QuantitySold  int
	Revenue       decimal.Decimal
}

// StatusCountResult is the number of invoices in one status.
type StatusCountResult struct {
	Status enum.InvoiceStatus
	Count  int64
}

// AnalyticsRepository defines aggregation queries over live invoices
type AnalyticsRepository interface {
	// GetTopItems returns items ordered by revenue, invoices issued in [from, to].
	GetTopItems(ctx context.Context, from, to *time.Time, limit int) ([]TopItemResult, error)

	// GetStatusCounts returns invoice counts per status
	GetStatusCounts(ctx context.Context, from, to *time.Time) ([]StatusCountResult, error)
}
