package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
)

// CatalogStore is the read-only lookup used to prefill invoices.
type CatalogStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}
