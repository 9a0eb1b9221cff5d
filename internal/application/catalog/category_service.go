package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if req.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}
	}

	category, err := catalog.NewCategory(req.Name, req.Slug, req.ParentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsBySlug(ctx, category.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Category with slug %q already exists", category.Slug))
	}

	if req.Description != "" || req.ShortDescription != "" {
		if err := category.Update(req.Name, req.Description, req.ShortDescription); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.IsActive != nil {
		category.SetActive(*req.IsActive)
	}
	if req.IsFeatured != nil {
		category.SetFeatured(*req.IsFeatured)
	}
	if req.Icon != "" || req.BannerPath != "" {
		category.SetPresentation(req.Icon, req.BannerPath)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// Update applies a partial update to a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.ShortDescription != nil {
		name := category.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := category.Description
		if req.Description != nil {
			description = *req.Description
		}
		shortDescription := category.ShortDescription
		if req.ShortDescription != nil {
			shortDescription = *req.ShortDescription
		}
		if err := category.Update(name, description, shortDescription); err != nil {
			return nil, err
		}
	}

	if req.Slug != nil && *req.Slug != category.Slug {
		exists, err := s.categoryRepo.ExistsBySlug(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Category with slug %q already exists", *req.Slug))
		}
		if err := category.UpdateSlug(*req.Slug); err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.IsActive != nil {
		category.SetActive(*req.IsActive)
	}
	if req.IsFeatured != nil {
		category.SetFeatured(*req.IsFeatured)
	}
	if req.Icon != nil || req.BannerPath != nil {
		icon := category.Icon
		if req.Icon != nil {
			icon = *req.Icon
		}
		bannerPath := category.BannerPath
		if req.BannerPath != nil {
			bannerPath = *req.BannerPath
		}
		category.SetPresentation(icon, bannerPath)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// List returns the filtered flat read model with counts attached
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]catalog.CategoryNode, error) {
	return s.categoryRepo.FindAll(ctx, catalog.CategoryQuery{
		Search:           filter.Search,
		ActiveOnly:       filter.ActiveOnly,
		WithProductsOnly: filter.WithProductsOnly,
		SortField:        filter.SortBy,
		SortDir:          filter.SortDir,
	})
}

// Tree returns the filtered categories nested into a hierarchy. The same
// filters as List apply, but siblings are always ordered by sort position.
func (s *CategoryService) Tree(ctx context.Context, filter CategoryListFilter) ([]catalog.TreeNode, error) {
	nodes, err := s.categoryRepo.FindAll(ctx, catalog.CategoryQuery{
		Search:           filter.Search,
		ActiveOnly:       filter.ActiveOnly,
		WithProductsOnly: filter.WithProductsOnly,
	})
	if err != nil {
		return nil, err
	}
	return catalog.BuildTree(nodes), nil
}

// Reorder re-parents a category and sets its sort position. The write is a
// single atomic update; when the move would create a cycle nothing is
// written.
func (s *CategoryService) Reorder(ctx context.Context, id uuid.UUID, req ReorderCategoryRequest) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if req.NewParentID != nil {
		if *req.NewParentID == id {
			return shared.ErrCycleDetected
		}
		if _, err := s.categoryRepo.FindByID(ctx, *req.NewParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return err
		}

		// The move creates a cycle exactly when the new parent sits inside
		// the subtree being moved, i.e. the moved category is one of the new
		// parent's ancestors.
		ancestors, err := s.categoryRepo.AncestorIDs(ctx, *req.NewParentID)
		if err != nil {
			return err
		}
		for _, ancestorID := range ancestors {
			if ancestorID == id {
				return shared.ErrCycleDetected
			}
		}
	}

	return s.categoryRepo.Move(ctx, id, req.NewParentID, req.NewSortOrder)
}

// Merge merges the source category into the target: product associations
// are re-pointed without duplicates, direct children move under the target,
// and the source is deleted. All of it happens in one transaction.
func (s *CategoryService) Merge(ctx context.Context, req MergeCategoriesRequest) (*MergeResponse, error) {
	if req.SourceID == req.TargetID {
		return nil, shared.ErrInvalidMergeTarget
	}

	// Target inside the source subtree would orphan the hierarchy.
	ancestors, err := s.categoryRepo.AncestorIDs(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	for _, ancestorID := range ancestors {
		if ancestorID == req.SourceID {
			return nil, shared.ErrInvalidMergeTarget
		}
	}

	stats, err := s.categoryRepo.MergeInto(ctx, req.SourceID, req.TargetID)
	if err != nil {
		return nil, err
	}

	return &MergeResponse{
		TargetID:            req.TargetID,
		ProductsMoved:       stats.ProductsMoved,
		ChildrenMoved:       stats.ChildrenMoved,
		OverlappingProducts: stats.OverlappingProducts,
	}, nil
}

// BulkSetActive flips visibility for exactly the given categories
func (s *CategoryService) BulkSetActive(ctx context.Context, req BulkActiveRequest) (*BulkActiveResponse, error) {
	updated, err := s.categoryRepo.SetActive(ctx, req.IDs, req.Active)
	if err != nil {
		return nil, err
	}
	return &BulkActiveResponse{Updated: updated}, nil
}

// Delete removes a category. Without force the delete is blocked while the
// category still has children or product associations; with force the whole
// subtree is removed and product associations are detached.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if !force {
		hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
		if err != nil {
			return err
		}
		if hasChildren {
			return shared.ErrDeleteBlocked
		}
		hasProducts, err := s.categoryRepo.HasProducts(ctx, id)
		if err != nil {
			return err
		}
		if hasProducts {
			return shared.ErrDeleteBlocked
		}
	}

	return s.categoryRepo.Delete(ctx, id, force)
}
