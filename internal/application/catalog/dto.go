package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopadmin/backend/internal/domain/catalog"
)

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name             string     `json:"name" binding:"required,min=1,max=300"`
	Slug             string     `json:"slug" binding:"omitempty,max=320,slug"`
	ParentID         *uuid.UUID `json:"parent_id"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"short_description" binding:"max=500"`
	SortOrder        *int       `json:"sort_order"`
	IsActive         *bool      `json:"is_active"`
	IsFeatured       *bool      `json:"is_featured"`
	Icon             string     `json:"icon" binding:"max=100"`
	BannerPath       string     `json:"banner_path" binding:"max=500"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=300"`
	Slug             *string `json:"slug" binding:"omitempty,max=320,slug"`
	Description      *string `json:"description"`
	ShortDescription *string `json:"short_description" binding:"omitempty,max=500"`
	SortOrder        *int    `json:"sort_order"`
	IsActive         *bool   `json:"is_active"`
	IsFeatured       *bool   `json:"is_featured"`
	Icon             *string `json:"icon" binding:"omitempty,max=100"`
	BannerPath       *string `json:"banner_path" binding:"omitempty,max=500"`
}

// ReorderCategoryRequest re-parents a category and sets its sort position
type ReorderCategoryRequest struct {
	NewParentID  *uuid.UUID `json:"new_parent_id"`
	NewSortOrder int        `json:"new_sort_order"`
}

// MergeCategoriesRequest merges the source category into the target
type MergeCategoriesRequest struct {
	SourceID uuid.UUID `json:"source_id" binding:"required"`
	TargetID uuid.UUID `json:"target_id" binding:"required"`
}

// BulkActiveRequest flips visibility for a set of categories
type BulkActiveRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
	Active bool        `json:"active"`
}

// CategoryListFilter represents filter options for the flat category list
type CategoryListFilter struct {
	Search           string `form:"search"`
	ActiveOnly       bool   `form:"active_only"`
	WithProductsOnly bool   `form:"with_products_only"`
	SortBy           string `form:"sort_by"`
	SortDir          string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	ParentID         *uuid.UUID `json:"parent_id"`
	SortOrder        int        `json:"sort_order"`
	IsActive         bool       `json:"is_active"`
	IsFeatured       bool       `json:"is_featured"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"short_description"`
	Icon             string     `json:"icon"`
	BannerPath       string     `json:"banner_path"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

// MergeResponse reports what a merge moved
type MergeResponse struct {
	TargetID            uuid.UUID `json:"target_id"`
	ProductsMoved       int64     `json:"products_moved"`
	ChildrenMoved       int64     `json:"children_moved"`
	OverlappingProducts int64     `json:"overlapping_products"`
}

// BulkActiveResponse reports how many rows a bulk visibility change touched
type BulkActiveResponse struct {
	Updated int64 `json:"updated"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:               c.ID,
		Name:             c.Name,
		Slug:             c.Slug,
		ParentID:         c.ParentID,
		SortOrder:        c.SortOrder,
		IsActive:         c.IsActive,
		IsFeatured:       c.IsFeatured,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		Icon:             c.Icon,
		BannerPath:       c.BannerPath,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU               string           `json:"sku" binding:"required,min=1,max=64"`
	Name              string           `json:"name" binding:"required,min=1,max=200"`
	Description       string           `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price"`
	PrimaryCategoryID *uuid.UUID       `json:"primary_category_id"`
	CategoryIDs       []uuid.UUID      `json:"category_ids"`
	SortOrder         *int             `json:"sort_order"`
	ImagePath         string           `json:"image_path" binding:"max=500"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price"`
	PrimaryCategoryID *uuid.UUID       `json:"primary_category_id"`
	SortOrder         *int             `json:"sort_order"`
	ImagePath         *string          `json:"image_path" binding:"omitempty,max=500"`
	IsActive          *bool            `json:"is_active"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive"`
	CategoryID *uuid.UUID `form:"category_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	SortBy     string     `form:"sort_by"`
	SortDir    string     `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// SetProductCategoriesRequest replaces a product's category associations
type SetProductCategoriesRequest struct {
	CategoryIDs       []uuid.UUID `json:"category_ids"`
	PrimaryCategoryID *uuid.UUID  `json:"primary_category_id"`
}

// FitmentRequest is one vehicle compatibility row
type FitmentRequest struct {
	Make     string `json:"make" binding:"required,max=100"`
	Model    string `json:"model" binding:"required,max=100"`
	YearFrom int    `json:"year_from" binding:"required"`
	YearTo   int    `json:"year_to" binding:"required"`
}

// SetFitmentsRequest replaces a product's vehicle fitments
type SetFitmentsRequest struct {
	Fitments []FitmentRequest `json:"fitments"`
}

// GenerateVariantsRequest expands a base SKU against option sets
type GenerateVariantsRequest struct {
	BaseSKU    string              `json:"base_sku" binding:"required"`
	OptionSets []catalog.OptionSet `json:"option_sets" binding:"required,min=1"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	CompareAtPrice    decimal.Decimal `json:"compare_at_price"`
	Status            string          `json:"status"`
	SortOrder         int             `json:"sort_order"`
	PrimaryCategoryID *uuid.UUID      `json:"primary_category_id"`
	ImagePath         string          `json:"image_path"`
	CategoryIDs       []uuid.UUID     `json:"category_ids,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// FitmentResponse represents a vehicle fitment in API responses
type FitmentResponse struct {
	ID       uuid.UUID `json:"id"`
	Make     string    `json:"make"`
	Model    string    `json:"model"`
	YearFrom int       `json:"year_from"`
	YearTo   int       `json:"year_to"`
	Label    string    `json:"label"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		CompareAtPrice:    p.CompareAtPrice,
		Status:            string(p.Status),
		SortOrder:         p.SortOrder,
		PrimaryCategoryID: p.PrimaryCategoryID,
		ImagePath:         p.ImagePath,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

// ToFitmentResponse converts a domain VehicleFitment to FitmentResponse
func ToFitmentResponse(f *catalog.VehicleFitment) FitmentResponse {
	return FitmentResponse{
		ID:       f.ID,
		Make:     f.Make,
		Model:    f.Model,
		YearFrom: f.YearFrom,
		YearTo:   f.YearTo,
		Label:    f.Label(),
	}
}
