package catalog

import (
	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCategory = "Category"

// Event type constants
const (
	EventTypeCategoryCreated           = "CategoryCreated"
	EventTypeCategoryUpdated           = "CategoryUpdated"
	EventTypeCategoryMoved             = "CategoryMoved"
	EventTypeCategoryMerged            = "CategoryMerged"
	EventTypeCategoryVisibilityChanged = "CategoryVisibilityChanged"
	EventTypeCategoryDeleted           = "CategoryDeleted"
)

// CategoryCreatedEvent is published when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, category.ID),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
		ParentID:        category.ParentID,
	}
}

// CategoryUpdatedEvent is published when a category's fields change
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
}

// NewCategoryUpdatedEvent creates a new CategoryUpdatedEvent
func NewCategoryUpdatedEvent(category *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, AggregateTypeCategory, category.ID),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
	}
}

// CategoryMovedEvent is published when a category changes parent or position
type CategoryMovedEvent struct {
	shared.BaseDomainEvent
	CategoryID  uuid.UUID  `json:"category_id"`
	OldParentID *uuid.UUID `json:"old_parent_id,omitempty"`
	NewParentID *uuid.UUID `json:"new_parent_id,omitempty"`
	SortOrder   int        `json:"sort_order"`
}

// NewCategoryMovedEvent creates a new CategoryMovedEvent
func NewCategoryMovedEvent(category *Category, oldParentID *uuid.UUID) *CategoryMovedEvent {
	return &CategoryMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryMoved, AggregateTypeCategory, category.ID),
		CategoryID:      category.ID,
		OldParentID:     oldParentID,
		NewParentID:     category.ParentID,
		SortOrder:       category.SortOrder,
	}
}

// CategoryMergedEvent is published after a merge completes
type CategoryMergedEvent struct {
	shared.BaseDomainEvent
	SourceID      uuid.UUID `json:"source_id"`
	TargetID      uuid.UUID `json:"target_id"`
	ProductsMoved int64     `json:"products_moved"`
	ChildrenMoved int64     `json:"children_moved"`
}

// NewCategoryMergedEvent creates a new CategoryMergedEvent
func NewCategoryMergedEvent(sourceID, targetID uuid.UUID, productsMoved, childrenMoved int64) *CategoryMergedEvent {
	return &CategoryMergedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryMerged, AggregateTypeCategory, targetID),
		SourceID:        sourceID,
		TargetID:        targetID,
		ProductsMoved:   productsMoved,
		ChildrenMoved:   childrenMoved,
	}
}

// CategoryVisibilityChangedEvent is published when is_active flips
type CategoryVisibilityChangedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	WasActive  bool      `json:"was_active"`
	IsActive   bool      `json:"is_active"`
}

// NewCategoryVisibilityChangedEvent creates a new CategoryVisibilityChangedEvent
func NewCategoryVisibilityChangedEvent(category *Category, wasActive, isActive bool) *CategoryVisibilityChangedEvent {
	return &CategoryVisibilityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryVisibilityChanged, AggregateTypeCategory, category.ID),
		CategoryID:      category.ID,
		WasActive:       wasActive,
		IsActive:        isActive,
	}
}
