package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name          string
	Code          *string
	ColorVariant  string
	VolumeVariant string
	Rate          decimal.Decimal
	HSNCode       *string
	Stock         int
	Notes         *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	var errs []apperror.FieldError
	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if input.Rate.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "rate", Message: "must not be negative"})
	}
	if input.Stock < 0 {
		errs = append(errs, apperror.FieldError{Field: "stock", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	product := &entity.Product{
		Name:          name,
		Code:          trimmedOrNil(input.Code),
		ColorVariant:  strings.TrimSpace(input.ColorVariant),
		VolumeVariant: strings.TrimSpace(input.VolumeVariant),
		Rate:          input.Rate.Round(2),
		HSNCode:       trimmedOrNil(input.HSNCode),
		Stock:         input.Stock,
		Notes:         trimmedOrNil(input.Notes),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProductsInput represents input for listing products
type ListProductsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	SortBy     string
	SortOrder  string
}

// ListProducts lists products with pagination, search and sorting
func (s *ProductService) ListProducts(ctx context.Context, input *ListProductsInput) (*pagination.PaginatedResult[entity.Product], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, &repository.ProductFilterParams{
		Pagination: input.Pagination,
		Search:     strings.TrimSpace(input.Search),
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID            uuid.UUID
	Name          *string
	Code          *string
	ColorVariant  *string
	VolumeVariant *string
	Rate          *decimal.Decimal
	HSNCode       *string
	Stock         *int
	Notes         *string
}

// UpdateProduct updates a product. Rate changes never touch existing invoices.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	var errs []apperror.FieldError
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name == "" {
			errs = append(errs, apperror.FieldError{Field: "name", Message: "must not be empty"})
		} else {
			product.Name = name
		}
	}
	if input.Rate != nil {
		if input.Rate.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: "rate", Message: "must not be negative"})
		} else {
			product.Rate = input.Rate.Round(2)
		}
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			errs = append(errs, apperror.FieldError{Field: "stock", Message: "must not be negative"})
		} else {
			product.Stock = *input.Stock
		}
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if input.Code != nil {
		product.Code = trimmedOrNil(input.Code)
	}
	if input.ColorVariant != nil {
		product.ColorVariant = strings.TrimSpace(*input.ColorVariant)
	}
	if input.VolumeVariant != nil {
		product.VolumeVariant = strings.TrimSpace(*input.VolumeVariant)
	}
	if input.HSNCode != nil {
		product.HSNCode = trimmedOrNil(input.HSNCode)
	}
	if input.Notes != nil {
		product.Notes = trimmedOrNil(input.Notes)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
