package content

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// BlockKind identifies the shape of a content block. The set is closed;
// unknown kinds are rejected at the boundary.
type BlockKind string

const (
	BlockKindHero          BlockKind = "hero"
	BlockKindProductGrid   BlockKind = "product_grid"
	BlockKindBanner        BlockKind = "banner"
	BlockKindRichText      BlockKind = "rich_text"
	BlockKindCategoryStrip BlockKind = "category_strip"
)

// IsValid reports whether the kind is one of the recognized block kinds
func (k BlockKind) IsValid() bool {
	switch k {
	case BlockKindHero, BlockKindProductGrid, BlockKindBanner, BlockKindRichText, BlockKindCategoryStrip:
		return true
	}
	return false
}

// Block is a stored page-builder unit. Settings hold the kind-specific
// options as JSON; the schema of that JSON is fixed per kind and
// validated whenever the block is created or its settings change.
// Rendering blocks to HTML is not this service's concern.
type Block struct {
	shared.BaseAggregateRoot
	Kind      BlockKind       `gorm:"type:varchar(32);not null;index"`
	Title     string          `gorm:"type:varchar(200);not null"`
	Area      string          `gorm:"type:varchar(100);not null;index"`
	SortOrder int             `gorm:"not null;default:0"`
	IsActive  bool            `gorm:"not null;default:true"`
	Settings  json.RawMessage `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Block) TableName() string {
	return "content_blocks"
}

// HeroSettings configures a hero block
type HeroSettings struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading,omitempty"`
	ImagePath  string `json:"image_path,omitempty"`
	CTALabel   string `json:"cta_label,omitempty"`
	CTAURL     string `json:"cta_url,omitempty"`
}

// ProductGridSettings configures a product grid block
type ProductGridSettings struct {
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Limit        int        `json:"limit"`
	FeaturedOnly bool       `json:"featured_only,omitempty"`
}

// BannerSettings configures a banner block
type BannerSettings struct {
	ImagePath string `json:"image_path"`
	LinkURL   string `json:"link_url,omitempty"`
	AltText   string `json:"alt_text,omitempty"`
}

// RichTextSettings configures a rich text block
type RichTextSettings struct {
	Body string `json:"body"`
}

// CategoryStripSettings configures a category strip block
type CategoryStripSettings struct {
	CategoryIDs []uuid.UUID `json:"category_ids"`
	ShowCounts  bool        `json:"show_counts,omitempty"`
}

// NewBlock creates a content block, validating the kind and its settings
func NewBlock(kind BlockKind, title, area string, settings json.RawMessage) (*Block, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_BLOCK_KIND", "Unknown content block kind: "+string(kind))
	}
	if err := validateBlockTitle(title); err != nil {
		return nil, err
	}
	area = strings.TrimSpace(area)
	if area == "" {
		return nil, shared.NewDomainError("INVALID_AREA", "Block area cannot be empty")
	}
	normalized, err := ValidateSettings(kind, settings)
	if err != nil {
		return nil, err
	}

	block := &Block{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Title:             title,
		Area:              area,
		IsActive:          true,
		Settings:          normalized,
	}
	return block, nil
}

// Update updates the block's title
func (b *Block) Update(title string) error {
	if err := validateBlockTitle(title); err != nil {
		return err
	}
	b.Title = title
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// UpdateSettings replaces the kind-specific settings. The kind itself is
// immutable; changing the shape of a block means creating a new one.
func (b *Block) UpdateSettings(settings json.RawMessage) error {
	normalized, err := ValidateSettings(b.Kind, settings)
	if err != nil {
		return err
	}
	b.Settings = normalized
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// SetActive sets visibility
func (b *Block) SetActive(active bool) {
	b.IsActive = active
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// SetSortOrder sets the position within the block's area
func (b *Block) SetSortOrder(order int) {
	b.SortOrder = order
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// ValidateSettings decodes raw settings against the kind's schema and
// returns the re-encoded canonical form. Unknown keys are rejected so a
// typo in an option name surfaces as an error instead of being silently
// stored.
func ValidateSettings(kind BlockKind, raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	var target any
	switch kind {
	case BlockKindHero:
		target = &HeroSettings{}
	case BlockKindProductGrid:
		target = &ProductGridSettings{}
	case BlockKindBanner:
		target = &BannerSettings{}
	case BlockKindRichText:
		target = &RichTextSettings{}
	case BlockKindCategoryStrip:
		target = &CategoryStripSettings{}
	default:
		return nil, shared.NewDomainError("INVALID_BLOCK_KIND", "Unknown content block kind: "+string(kind))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, shared.NewDomainError("INVALID_SETTINGS", "Invalid settings for "+string(kind)+" block: "+err.Error())
	}

	if err := checkSettings(kind, target); err != nil {
		return nil, err
	}

	normalized, err := json.Marshal(target)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SETTINGS", "Settings cannot be encoded: "+err.Error())
	}
	return normalized, nil
}

// checkSettings applies per-kind semantic rules after decoding
func checkSettings(kind BlockKind, target any) error {
	switch s := target.(type) {
	case *HeroSettings:
		if strings.TrimSpace(s.Heading) == "" {
			return shared.NewDomainError("INVALID_SETTINGS", "Hero block requires a heading")
		}
	case *ProductGridSettings:
		if s.Limit <= 0 || s.Limit > 100 {
			return shared.NewDomainError("INVALID_SETTINGS", "Product grid limit must be between 1 and 100")
		}
	case *BannerSettings:
		if strings.TrimSpace(s.ImagePath) == "" {
			return shared.NewDomainError("INVALID_SETTINGS", "Banner block requires an image path")
		}
	case *RichTextSettings:
		if strings.TrimSpace(s.Body) == "" {
			return shared.NewDomainError("INVALID_SETTINGS", "Rich text block requires a body")
		}
	case *CategoryStripSettings:
		if len(s.CategoryIDs) == 0 {
			return shared.NewDomainError("INVALID_SETTINGS", "Category strip requires at least one category")
		}
	}
	return nil
}

// validateBlockTitle validates the block title
func validateBlockTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Block title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Block title cannot exceed 200 characters")
	}
	return nil
}
