package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopadmin/backend/internal/domain/content"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// GormBlockRepository implements content.BlockRepository using GORM
type GormBlockRepository struct {
	db *gorm.DB
}

// NewGormBlockRepository creates a new GormBlockRepository
func NewGormBlockRepository(db *gorm.DB) *GormBlockRepository {
	return &GormBlockRepository{db: db}
}

// FindByID finds a block by its ID
func (r *GormBlockRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Block, error) {
	var block content.Block
	if err := r.db.WithContext(ctx).First(&block, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

// FindByArea returns the blocks of an area ordered by sort order
func (r *GormBlockRepository) FindByArea(ctx context.Context, area string, activeOnly bool) ([]content.Block, error) {
	query := r.db.WithContext(ctx).Where("area = ?", area)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var blocks []content.Block
	if err := query.Order("sort_order ASC, id ASC").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// FindAll returns all blocks ordered by area then sort order
func (r *GormBlockRepository) FindAll(ctx context.Context) ([]content.Block, error) {
	var blocks []content.Block
	if err := r.db.WithContext(ctx).
		Order("area ASC, sort_order ASC, id ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// Save creates or updates a block
func (r *GormBlockRepository) Save(ctx context.Context, block *content.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

// Delete deletes a block
func (r *GormBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&content.Block{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Reorder rewrites the sort order of an area's blocks to the given id
// sequence. Every id must belong to the area; partial reorders are
// rejected so two concurrent editors cannot interleave positions.
func (r *GormBlockRepository) Reorder(ctx context.Context, area string, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var areaIDs []uuid.UUID
		if err := tx.Model(&content.Block{}).
			Where("area = ?", area).
			Pluck("id", &areaIDs).Error; err != nil {
			return err
		}

		inArea := make(map[uuid.UUID]struct{}, len(areaIDs))
		for _, id := range areaIDs {
			inArea[id] = struct{}{}
		}
		for _, id := range orderedIDs {
			if _, ok := inArea[id]; !ok {
				return shared.NewDomainError("INVALID_INPUT", "Block "+id.String()+" does not belong to area "+area)
			}
		}

		for position, id := range orderedIDs {
			if err := tx.Model(&content.Block{}).
				Where("id = ?", id).
				Update("sort_order", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
