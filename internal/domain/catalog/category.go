package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// MaxCategoryNameLength bounds the display name
const MaxCategoryNameLength = 300

// Category is a node in the product category hierarchy.
// The hierarchy is a plain adjacency list: ParentID is the only structural
// field, and a nil ParentID marks a root. Depth (level) is never stored;
// it is recomputed from the parent chain on every read so it cannot drift.
type Category struct {
	shared.BaseAggregateRoot
	Name             string     `gorm:"type:varchar(300);not null"`
	Slug             string     `gorm:"type:varchar(320);not null;uniqueIndex"`
	ParentID         *uuid.UUID `gorm:"type:uuid;index"`
	SortOrder        int        `gorm:"not null;default:0"`
	IsActive         bool       `gorm:"not null;default:true"`
	IsFeatured       bool       `gorm:"not null;default:false"`
	Description      string     `gorm:"type:text"`
	ShortDescription string     `gorm:"type:varchar(500)"`
	Icon             string     `gorm:"type:varchar(100)"`
	BannerPath       string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category. An empty slug derives one from the name;
// a non-empty slug is treated as a manual override and validated as-is.
func NewCategory(name, slug string, parentID *uuid.UUID) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	if slug == "" {
		slug = Slugify(name)
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		ParentID:          parentID,
		IsActive:          true,
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// Update updates the category's display fields
func (c *Category) Update(name, description, shortDescription string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.Description = description
	c.ShortDescription = shortDescription
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryUpdatedEvent(c))

	return nil
}

// UpdateSlug overrides the derived slug.
// Slug uniqueness is global and enforced at the persistence layer.
func (c *Category) UpdateSlug(slug string) error {
	if err := validateSlug(slug); err != nil {
		return err
	}

	c.Slug = slug
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryUpdatedEvent(c))

	return nil
}

// MoveTo re-parents the category and assigns its new sibling position.
// Cycle checking against the ancestor chain is the caller's responsibility;
// this method only records the move.
func (c *Category) MoveTo(newParentID *uuid.UUID, sortOrder int) {
	oldParentID := c.ParentID
	c.ParentID = newParentID
	c.SortOrder = sortOrder
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryMovedEvent(c, oldParentID))
}

// SetSortOrder sets the sibling position without re-parenting
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetActive sets storefront visibility
func (c *Category) SetActive(active bool) {
	if c.IsActive == active {
		return
	}
	c.IsActive = active
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryVisibilityChangedEvent(c, !active, active))
}

// SetFeatured toggles the featured flag
func (c *Category) SetFeatured(featured bool) {
	c.IsFeatured = featured
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetPresentation updates the presentational metadata
func (c *Category) SetPresentation(icon, bannerPath string) {
	c.Icon = icon
	c.BannerPath = bannerPath
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// validateCategoryName validates the category name
func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > MaxCategoryNameLength {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 300 characters")
	}
	return nil
}

// validateSlug validates a URL-safe slug
func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Category slug cannot be empty")
	}
	if len(slug) > 320 {
		return shared.NewDomainError("INVALID_SLUG", "Category slug cannot exceed 320 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Category slug can only contain lowercase letters, numbers, and hyphens")
		}
	}
	return nil
}
