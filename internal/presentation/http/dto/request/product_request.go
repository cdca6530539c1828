package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Code          *string         `json:"code" binding:"omitempty,max=100"`
	ColorVariant  string          `json:"color_variant" binding:"max=100"`
	VolumeVariant string          `json:"volume_variant" binding:"max=100"`
	Rate          decimal.Decimal `json:"rate"`
	HSNCode       *string         `json:"hsn_code" binding:"omitempty,max=20"`
	Stock         int             `json:"stock" binding:"min=0"`
	Notes         *string         `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=255"`
	Code          *string          `json:"code" binding:"omitempty,max=100"`
	ColorVariant  *string          `json:"color_variant" binding:"omitempty,max=100"`
	VolumeVariant *string          `json:"volume_variant" binding:"omitempty,max=100"`
	Rate          *decimal.Decimal `json:"rate"`
	HSNCode       *string          `json:"hsn_code" binding:"omitempty,max=20"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
	Notes         *string          `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=name rate stock created_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
