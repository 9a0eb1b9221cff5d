package content

import (
	"context"

	"github.com/google/uuid"
)

// BlockRepository defines the persistence interface for content blocks
type BlockRepository interface {
	// FindByID finds a block by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Block, error)

	// FindByArea returns the blocks of an area ordered by sort order
	FindByArea(ctx context.Context, area string, activeOnly bool) ([]Block, error)

	// FindAll returns all blocks ordered by area then sort order
	FindAll(ctx context.Context) ([]Block, error)

	// Save creates or updates a block
	Save(ctx context.Context, block *Block) error

	// Delete deletes a block
	Delete(ctx context.Context, id uuid.UUID) error

	// Reorder rewrites the sort order of an area's blocks to match the
	// given id sequence, in one transaction. Ids outside the area are
	// rejected.
	Reorder(ctx context.Context, area string, orderedIDs []uuid.UUID) error
}
