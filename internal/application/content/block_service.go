package content

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/content"
)

// CreateBlockRequest represents a request to create a content block
type CreateBlockRequest struct {
	Kind      string          `json:"kind" binding:"required"`
	Title     string          `json:"title" binding:"required,min=1,max=200"`
	Area      string          `json:"area" binding:"required,min=1,max=100"`
	Settings  json.RawMessage `json:"settings" binding:"required"`
	SortOrder *int            `json:"sort_order"`
	IsActive  *bool           `json:"is_active"`
}

// UpdateBlockRequest represents a partial update to a content block.
// The kind is fixed at creation and cannot change.
type UpdateBlockRequest struct {
	Title     *string         `json:"title" binding:"omitempty,min=1,max=200"`
	Settings  json.RawMessage `json:"settings"`
	SortOrder *int            `json:"sort_order"`
	IsActive  *bool           `json:"is_active"`
}

// ReorderBlocksRequest rewrites the sort order of an area's blocks
type ReorderBlocksRequest struct {
	Area string      `json:"area" binding:"required"`
	IDs  []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// BlockListFilter represents filter options for the block list
type BlockListFilter struct {
	Area       string `form:"area"`
	ActiveOnly bool   `form:"active_only"`
}

// BlockResponse represents a content block in API responses
type BlockResponse struct {
	ID        uuid.UUID       `json:"id"`
	Kind      string          `json:"kind"`
	Title     string          `json:"title"`
	Area      string          `json:"area"`
	SortOrder int             `json:"sort_order"`
	IsActive  bool            `json:"is_active"`
	Settings  json.RawMessage `json:"settings"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int             `json:"version"`
}

// ToBlockResponse converts a domain Block to BlockResponse
func ToBlockResponse(b *content.Block) *BlockResponse {
	return &BlockResponse{
		ID:        b.ID,
		Kind:      string(b.Kind),
		Title:     b.Title,
		Area:      b.Area,
		SortOrder: b.SortOrder,
		IsActive:  b.IsActive,
		Settings:  b.Settings,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
		Version:   b.Version,
	}
}

// BlockService handles content block operations
type BlockService struct {
	blockRepo content.BlockRepository
}

// NewBlockService creates a new BlockService
func NewBlockService(blockRepo content.BlockRepository) *BlockService {
	return &BlockService{blockRepo: blockRepo}
}

// Create creates a new content block
func (s *BlockService) Create(ctx context.Context, req CreateBlockRequest) (*BlockResponse, error) {
	block, err := content.NewBlock(content.BlockKind(req.Kind), req.Title, req.Area, req.Settings)
	if err != nil {
		return nil, err
	}

	if req.SortOrder != nil {
		block.SetSortOrder(*req.SortOrder)
	}
	if req.IsActive != nil {
		block.SetActive(*req.IsActive)
	}

	if err := s.blockRepo.Save(ctx, block); err != nil {
		return nil, err
	}
	return ToBlockResponse(block), nil
}

// GetByID retrieves a content block by ID
func (s *BlockService) GetByID(ctx context.Context, id uuid.UUID) (*BlockResponse, error) {
	block, err := s.blockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBlockResponse(block), nil
}

// List returns blocks, optionally narrowed to one area
func (s *BlockService) List(ctx context.Context, filter BlockListFilter) ([]BlockResponse, error) {
	var (
		blocks []content.Block
		err    error
	)
	if filter.Area != "" {
		blocks, err = s.blockRepo.FindByArea(ctx, filter.Area, filter.ActiveOnly)
	} else {
		blocks, err = s.blockRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]BlockResponse, 0, len(blocks))
	for i := range blocks {
		responses = append(responses, *ToBlockResponse(&blocks[i]))
	}
	return responses, nil
}

// Update applies a partial update to a content block
func (s *BlockService) Update(ctx context.Context, id uuid.UUID, req UpdateBlockRequest) (*BlockResponse, error) {
	block, err := s.blockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := block.Update(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Settings != nil {
		if err := block.UpdateSettings(req.Settings); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		block.SetSortOrder(*req.SortOrder)
	}
	if req.IsActive != nil {
		block.SetActive(*req.IsActive)
	}

	if err := s.blockRepo.Save(ctx, block); err != nil {
		return nil, err
	}
	return ToBlockResponse(block), nil
}

// Delete deletes a content block
func (s *BlockService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.blockRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.blockRepo.Delete(ctx, id)
}

// Reorder rewrites the sort order of an area's blocks to match the given
// id sequence
func (s *BlockService) Reorder(ctx context.Context, req ReorderBlocksRequest) error {
	return s.blockRepo.Reorder(ctx, req.Area, req.IDs)
}
