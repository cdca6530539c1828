package repository

import (
	"context"
	"errors"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceSequenceRepository struct {
	db *gorm.DB
}

// NewInvoiceSequenceRepository creates the per-day invoice counter
func NewInvoiceSequenceRepository(db *gorm.DB) domainRepo.InvoiceSequenceRepository {
	return &invoiceSequenceRepository{db: db}
}

func (r *invoiceSequenceRepository) Next(ctx context.Context, day string) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.InvoiceSequence{Day: day}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.InvoiceSequence{}).
			Where("day = ?", day).
			UpdateColumn("last_seq", gorm.Expr("last_seq + 1")).Error; err != nil {
			return err
		}
		var seq entity.InvoiceSequence
		if err := tx.First(&seq, "day = ?", day).Error; err != nil {
			return err
		}
		next = seq.Last
		return nil
	})
	return next, err
}

func (r *invoiceSequenceRepository) Peek(ctx context.Context, day string) (int, error) {
	var seq entity.InvoiceSequence
	err := r.db.WithContext(ctx).First(&seq, "day = ?", day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return seq.Last + 1, nil
}
