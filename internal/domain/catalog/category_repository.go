package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryQuery carries the list/tree filter criteria.
// Search matches name and description case-insensitively. SortField only
// applies to the flat list view; the tree always orders siblings by
// sort_order. Ordering is stable: ties are broken by id.
type CategoryQuery struct {
	Search           string
	ActiveOnly       bool
	WithProductsOnly bool
	SortField        string
	SortDir          string
}

// MergeStats reports what a merge actually moved
type MergeStats struct {
	ProductsMoved       int64
	ChildrenMoved       int64
	OverlappingProducts int64
}

// CategoryRepository defines the persistence interface for categories
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its globally unique slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll returns the filtered flat read model with aggregate counts attached
	FindAll(ctx context.Context, query CategoryQuery) ([]CategoryNode, error)

	// FindChildren finds all direct children of a category, ordered by sort_order
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)

	// AncestorIDs walks the parent chain of a category up to its root,
	// nearest ancestor first. Used for cycle checks and level resolution.
	AncestorIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Move atomically re-parents a category and sets its sort position.
	// Siblings are not renumbered.
	Move(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID, sortOrder int) error

	// MergeInto re-points source's product associations (de-duplicated) and
	// direct children to target, then deletes source, in one transaction.
	MergeInto(ctx context.Context, sourceID, targetID uuid.UUID) (*MergeStats, error)

	// SetActive flips is_active for exactly the given ids in one transaction
	// and returns the number of rows changed.
	SetActive(ctx context.Context, ids []uuid.UUID, active bool) (int64, error)

	// Delete removes a category. With cascade it also removes descendants and
	// product associations; without it the caller must have verified the
	// category is empty.
	Delete(ctx context.Context, id uuid.UUID, cascade bool) error

	// ExistsBySlug checks global slug uniqueness
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// HasChildren checks if a category has any children
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)

	// HasProducts checks if a category has any product associations
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)

	// CountProducts counts product associations of a category
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}
