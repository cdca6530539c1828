package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
)

type catalogStore struct {
	customers domainRepo.CustomerRepository
	products  domainRepo.ProductRepository
}

// NewCatalogStore exposes the customer and product repositories as a read-only catalog.
func NewCatalogStore(customers domainRepo.CustomerRepository, products domainRepo.ProductRepository) domainRepo.CatalogStore {
	return &catalogStore{customers: customers, products: products}
}

func (c *catalogStore) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return c.customers.GetByID(ctx, id)
}

func (c *catalogStore) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return c.products.GetByID(ctx, id)
}
