package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.SKU, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Product with SKU %q already exists", product.SKU))
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		compareAt := product.CompareAtPrice
		if req.CompareAtPrice != nil {
			compareAt = *req.CompareAtPrice
		}
		if err := product.SetPrices(*req.Price, compareAt); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}
	if req.ImagePath != "" {
		if err := product.SetImagePath(req.ImagePath); err != nil {
			return nil, err
		}
	}

	if req.PrimaryCategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.PrimaryCategoryID); err != nil {
			return nil, err
		}
		product.SetPrimaryCategory(req.PrimaryCategoryID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	categoryIDs := req.CategoryIDs
	if req.PrimaryCategoryID != nil {
		categoryIDs = append(categoryIDs, *req.PrimaryCategoryID)
	}
	if len(categoryIDs) > 0 {
		if err := s.productRepo.ReplaceCategories(ctx, product.ID, categoryIDs); err != nil {
			return nil, err
		}
	}

	resp := ToProductResponse(product)
	resp.CategoryIDs = categoryIDs
	return resp, nil
}

// GetByID retrieves a product with its category associations
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := s.productRepo.CategoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	resp.CategoryIDs = categoryIDs
	return resp, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil || req.CompareAtPrice != nil {
		price := product.Price
		if req.Price != nil {
			price = *req.Price
		}
		compareAt := product.CompareAtPrice
		if req.CompareAtPrice != nil {
			compareAt = *req.CompareAtPrice
		}
		if err := product.SetPrices(price, compareAt); err != nil {
			return nil, err
		}
	}

	if req.PrimaryCategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.PrimaryCategoryID); err != nil {
			return nil, err
		}
		product.SetPrimaryCategory(req.PrimaryCategoryID)
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}
	if req.ImagePath != nil {
		if err := product.SetImagePath(*req.ImagePath); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil && *req.IsActive != product.IsActive() {
		if *req.IsActive {
			err = product.Activate()
		} else {
			err = product.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// List returns products matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.SortBy != "" {
		domainFilter.OrderBy = filter.SortBy
	}
	if filter.SortDir != "" {
		domainFilter.OrderDir = filter.SortDir
	}

	var (
		products []catalog.Product
		total    int64
		err      error
	)
	if filter.CategoryID != nil {
		products, err = s.productRepo.FindByCategory(ctx, *filter.CategoryID, domainFilter)
		if err != nil {
			return nil, 0, err
		}
		total, err = s.productRepo.CountByCategory(ctx, *filter.CategoryID, domainFilter)
	} else {
		products, err = s.productRepo.FindAll(ctx, domainFilter)
		if err != nil {
			return nil, 0, err
		}
		total, err = s.productRepo.Count(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// Delete deletes a product and its associations
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// SetCategories replaces a product's category associations. The primary
// category, when given, must be part of the association set and is added to
// it if missing.
func (s *ProductService) SetCategories(ctx context.Context, id uuid.UUID, req SetProductCategoriesRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, categoryID := range req.CategoryIDs {
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			return nil, err
		}
	}

	categoryIDs := req.CategoryIDs
	if req.PrimaryCategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.PrimaryCategoryID); err != nil {
			return nil, err
		}
		found := false
		for _, categoryID := range categoryIDs {
			if categoryID == *req.PrimaryCategoryID {
				found = true
				break
			}
		}
		if !found {
			categoryIDs = append(categoryIDs, *req.PrimaryCategoryID)
		}
	}

	product.SetPrimaryCategory(req.PrimaryCategoryID)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := s.productRepo.ReplaceCategories(ctx, id, categoryIDs); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	resp.CategoryIDs = categoryIDs
	return resp, nil
}

// GetFitments returns a product's vehicle fitments
func (s *ProductService) GetFitments(ctx context.Context, id uuid.UUID) ([]FitmentResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	fitments, err := s.productRepo.FindFitments(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]FitmentResponse, 0, len(fitments))
	for i := range fitments {
		responses = append(responses, ToFitmentResponse(&fitments[i]))
	}
	return responses, nil
}

// SetFitments replaces a product's vehicle fitments
func (s *ProductService) SetFitments(ctx context.Context, id uuid.UUID, req SetFitmentsRequest) ([]FitmentResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	fitments := make([]catalog.VehicleFitment, 0, len(req.Fitments))
	for _, f := range req.Fitments {
		fitment, err := catalog.NewVehicleFitment(id, f.Make, f.Model, f.YearFrom, f.YearTo)
		if err != nil {
			return nil, err
		}
		fitments = append(fitments, *fitment)
	}

	if err := s.productRepo.ReplaceFitments(ctx, id, fitments); err != nil {
		return nil, err
	}

	responses := make([]FitmentResponse, 0, len(fitments))
	for i := range fitments {
		responses = append(responses, ToFitmentResponse(&fitments[i]))
	}
	return responses, nil
}

// GenerateVariants expands a base SKU against option sets without writing
// anything. The caller decides which generated variants to persist.
func (s *ProductService) GenerateVariants(req GenerateVariantsRequest) ([]catalog.VariantDefinition, error) {
	return catalog.GenerateVariants(req.BaseSKU, req.OptionSets)
}
