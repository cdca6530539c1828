package database

import (
	"fmt"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDemoCatalog inserts a handful of sample customers and products when
// both catalogs are empty. It never touches existing data.
func SeedDemoCatalog(db *gorm.DB, log *zap.Logger) error {
	var customers, products int64
	if err := db.Model(&entity.Customer{}).Count(&customers).Error; err != nil {
		return fmt.Errorf("count customers: %w", err)
	}
	if err := db.Model(&entity.Product{}).Count(&products).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if customers > 0 || products > 0 {
		log.Info("catalog not empty, skipping seed",
			zap.Int64("customers", customers), zap.Int64("products", products))
		return nil
	}

	phone := "9876543210"
	seedCustomers := []entity.Customer{
		{Name: "Walk-in Customer"},
		{Name: "Sharma Traders", Phone: &phone},
	}
	seedProducts := []entity.Product{
		{Name: "Emulsion Paint", ColorVariant: "White", VolumeVariant: "1L", Rate: decimal.RequireFromString("320.00")},
		{Name: "Emulsion Paint", ColorVariant: "White", VolumeVariant: "4L", Rate: decimal.RequireFromString("1180.00")},
		{Name: "Enamel Paint", ColorVariant: "Red", VolumeVariant: "1L", Rate: decimal.RequireFromString("410.00")},
		{Name: "Paint Brush", VolumeVariant: "2 inch", Rate: decimal.RequireFromString("85.00")},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&seedCustomers).Error; err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
		if err := tx.Create(&seedProducts).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		log.Info("demo catalog seeded",
			zap.Int("customers", len(seedCustomers)), zap.Int("products", len(seedProducts)))
		return nil
	})
}
