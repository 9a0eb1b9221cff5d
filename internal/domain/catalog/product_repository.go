package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// ProductRepository defines the persistence interface for products and
// their category and fitment associations
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its unique SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds products associated with a category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product and its associations
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter, applying the same
	// conditions as FindAll
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByCategory counts products matching the filter within a
	// category, applying the same conditions as FindByCategory
	CountByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// CategoryIDs returns the ids of all categories a product is associated with
	CategoryIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)

	// ReplaceCategories replaces a product's category associations in one
	// transaction. Duplicate ids in the input are collapsed.
	ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error

	// FindFitments returns a product's vehicle fitments
	FindFitments(ctx context.Context, productID uuid.UUID) ([]VehicleFitment, error)

	// ReplaceFitments replaces a product's vehicle fitments in one transaction
	ReplaceFitments(ctx context.Context, productID uuid.UUID, fitments []VehicleFitment) error
}
