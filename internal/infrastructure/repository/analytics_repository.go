package repository

import (
	"context"
	"time"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopItems(ctx context.Context, from, to *time.Time, limit int) ([]domainRepo.TopItemResult, error) {
	var results []domainRepo.TopItemResult

	query := r.db.WithContext(ctx).
		Table("invoice_items AS ii").
		Select(`ii.product_name AS product_name,
			ii.color_variant AS color_variant,
			ii.volume_variant AS volume_variant,
			ii.display_name AS display_name,
			COALESCE(SUM(ii.quantity), 0) AS quantity_sold,
			COALESCE(SUM(ii.line_total), 0) AS revenue`).
		Joins("JOIN invoices i ON i.id = ii.invoice_id").
		Where("i.deleted_at IS NULL AND ii.deleted_at IS NULL").
		Scopes(IssuedBetween("i.issue_date", from, to))

	err := query.
		Group("ii.product_name, ii.color_variant, ii.volume_variant, ii.display_name").
		Order("revenue DESC, quantity_sold DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Revenue = results[i].Revenue.Round(2)
	}
	return results, nil
}

func (r *analyticsRepository) GetStatusCounts(ctx context.Context, from, to *time.Time) ([]domainRepo.StatusCountResult, error) {
	var results []domainRepo.StatusCountResult

	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(IssuedBetween("issue_date", from, to)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&results).Error
	return results, err
}
