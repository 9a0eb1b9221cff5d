package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// maxCategoryDepth bounds the ancestor walk so a corrupted parent chain
// cannot loop forever
const maxCategoryDepth = 128

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindBySlug finds a category by its globally unique slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// productsCountExpr counts association rows per category. It is a plain
// correlated subquery so the same statement runs on postgres and sqlite.
const productsCountExpr = "(SELECT COUNT(*) FROM product_categories pc WHERE pc.category_id = categories.id)"

const primaryProductsCountExpr = "(SELECT COUNT(*) FROM products p WHERE p.primary_category_id = categories.id)"

const childrenCountExpr = "(SELECT COUNT(*) FROM categories c WHERE c.parent_id = categories.id)"

// FindAll returns the filtered flat read model with aggregate counts.
// Levels are assigned afterwards over the filtered rows, so a row whose
// ancestors were filtered out reads as a root.
func (r *GormCategoryRepository) FindAll(ctx context.Context, query catalog.CategoryQuery) ([]catalog.CategoryNode, error) {
	db := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Select("categories.id, categories.name, categories.slug, categories.parent_id, " +
			"categories.sort_order, categories.is_active, categories.is_featured, " +
			childrenCountExpr + " AS children_count, " +
			productsCountExpr + " AS products_count, " +
			primaryProductsCountExpr + " AS primary_products_count")

	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(categories.name) LIKE ? OR LOWER(categories.description) LIKE ?", pattern, pattern)
	}
	if query.ActiveOnly {
		db = db.Where("categories.is_active = ?", true)
	}
	if query.WithProductsOnly {
		db = db.Where(productsCountExpr + " > 0")
	}

	sortField := ValidateSortField(query.SortField, CategorySortFields, "sort_order")
	sortDir := ValidateSortOrder(query.SortDir)
	db = db.Order(fmt.Sprintf("%s %s", sortField, sortDir)).Order("categories.id ASC")

	var nodes []catalog.CategoryNode
	if err := db.Scan(&nodes).Error; err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []catalog.CategoryNode{}
	}
	catalog.AssignLevels(nodes)
	return nodes, nil
}

// FindChildren finds all direct children of a category
func (r *GormCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// AncestorIDs walks the parent chain up to the root, nearest first
func (r *GormCategoryRepository) AncestorIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ancestors []uuid.UUID
	current := id
	for depth := 0; depth < maxCategoryDepth; depth++ {
		var row struct {
			ParentID *uuid.UUID
		}
		err := r.db.WithContext(ctx).
			Model(&catalog.Category{}).
			Select("parent_id").
			Where("id = ?", current).
			Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if depth == 0 {
					return nil, shared.ErrNotFound
				}
				// dangling parent reference, treat as root
				return ancestors, nil
			}
			return nil, err
		}
		if row.ParentID == nil {
			return ancestors, nil
		}
		ancestors = append(ancestors, *row.ParentID)
		current = *row.ParentID
	}
	return nil, fmt.Errorf("category %s: parent chain exceeds depth %d", id, maxCategoryDepth)
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Move atomically re-parents a category and sets its sort position
func (r *GormCategoryRepository) Move(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID, sortOrder int) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"parent_id":  newParentID,
			"sort_order": sortOrder,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MergeInto folds the source category into the target inside a single
// transaction: product associations move de-duplicated, primary category
// references and direct children re-point, and the source row is deleted.
func (r *GormCategoryRepository) MergeInto(ctx context.Context, sourceID, targetID uuid.UUID) (*catalog.MergeStats, error) {
	stats := &catalog.MergeStats{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range []uuid.UUID{sourceID, targetID} {
			var count int64
			if err := tx.Model(&catalog.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
		}

		// Associations the target already has would become duplicates;
		// count them, then drop the source side before re-pointing.
		if err := tx.Model(&catalog.ProductCategory{}).
			Where("category_id = ? AND product_id IN (?)",
				sourceID,
				tx.Model(&catalog.ProductCategory{}).Select("product_id").Where("category_id = ?", targetID),
			).
			Count(&stats.OverlappingProducts).Error; err != nil {
			return err
		}

		if stats.OverlappingProducts > 0 {
			if err := tx.
				Where("category_id = ? AND product_id IN (?)",
					sourceID,
					tx.Model(&catalog.ProductCategory{}).Select("product_id").Where("category_id = ?", targetID),
				).
				Delete(&catalog.ProductCategory{}).Error; err != nil {
				return err
			}
		}

		moved := tx.Model(&catalog.ProductCategory{}).
			Where("category_id = ?", sourceID).
			Update("category_id", targetID)
		if moved.Error != nil {
			return moved.Error
		}
		stats.ProductsMoved = moved.RowsAffected

		if err := tx.Model(&catalog.Product{}).
			Where("primary_category_id = ?", sourceID).
			Update("primary_category_id", targetID).Error; err != nil {
			return err
		}

		children := tx.Model(&catalog.Category{}).
			Where("parent_id = ?", sourceID).
			Update("parent_id", targetID)
		if children.Error != nil {
			return children.Error
		}
		stats.ChildrenMoved = children.RowsAffected

		return tx.Delete(&catalog.Category{}, "id = ?", sourceID).Error
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// SetActive flips is_active for exactly the given ids in one transaction
func (r *GormCategoryRepository) SetActive(ctx context.Context, ids []uuid.UUID, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("id IN ?", ids).
		Update("is_active", active)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete removes a category; with cascade the whole subtree and its
// product associations go too
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uuid.UUID{id}
		if cascade {
			frontier := []uuid.UUID{id}
			for depth := 0; len(frontier) > 0 && depth < maxCategoryDepth; depth++ {
				var childIDs []uuid.UUID
				if err := tx.Model(&catalog.Category{}).
					Where("parent_id IN ?", frontier).
					Pluck("id", &childIDs).Error; err != nil {
					return err
				}
				ids = append(ids, childIDs...)
				frontier = childIDs
			}
		}

		if err := tx.Where("category_id IN ?", ids).Delete(&catalog.ProductCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&catalog.Product{}).
			Where("primary_category_id IN ?", ids).
			Update("primary_category_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&catalog.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsBySlug checks global slug uniqueness
func (r *GormCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasChildren checks if a category has any children
func (r *GormCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasProducts checks if a category has any product associations,
// including products using it as their primary category
func (r *GormCategoryRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	count, err := r.CountProducts(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	var primary int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("primary_category_id = ?", id).
		Count(&primary).Error; err != nil {
		return false, err
	}
	return primary > 0, nil
}

// CountProducts counts product associations of a category
func (r *GormCategoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductCategory{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
