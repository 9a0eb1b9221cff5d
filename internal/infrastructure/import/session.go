package csvimport

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/catalog"
)

// SessionState is the lifecycle state of an import session
type SessionState string

const (
	StateCreated   SessionState = "created"
	StateMapped    SessionState = "mapped"
	StateValidated SessionState = "validated"
	StateCompleted SessionState = "completed"
	StateFailed    SessionState = "failed"
)

// SourceKind tells where a session's rows came from
type SourceKind string

const (
	SourceCSV      SourceKind = "csv"
	SourceSKUPaste SourceKind = "sku_paste"
)

// ConflictMode decides what happens when an imported SKU already exists
type ConflictMode string

const (
	ConflictSkip   ConflictMode = "skip"
	ConflictUpdate ConflictMode = "update"
	ConflictFail   ConflictMode = "fail"
)

// IsValidConflictMode checks a conflict mode string
func IsValidConflictMode(m string) bool {
	switch ConflictMode(m) {
	case ConflictSkip, ConflictUpdate, ConflictFail:
		return true
	}
	return false
}

// Product fields an import column can map to
const (
	FieldSKU            = "sku"
	FieldName           = "name"
	FieldDescription    = "description"
	FieldPrice          = "price"
	FieldCompareAtPrice = "compare_at_price"
	FieldCategorySlug   = "category_slug"
	FieldStatus         = "status"
	FieldSortOrder      = "sort_order"
	FieldFitments       = "fitments"
)

// MappableFields lists the product fields a column may map to
func MappableFields() []string {
	return []string{
		FieldSKU, FieldName, FieldDescription, FieldPrice, FieldCompareAtPrice,
		FieldCategorySlug, FieldStatus, FieldSortOrder, FieldFitments,
	}
}

// RequiredFields lists the fields a mapping must cover
func RequiredFields() []string {
	return []string{FieldSKU, FieldName}
}

// ColumnMapping maps product field names to file header names
type ColumnMapping map[string]string

// MissingRequired returns the required fields the mapping does not cover
func (m ColumnMapping) MissingRequired() []string {
	var missing []string
	for _, field := range RequiredFields() {
		if m[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// ImportSession carries the state of a multi-step product import across
// requests. It lives in the session store, not the database.
type ImportSession struct {
	ID           uuid.UUID           `json:"id"`
	Source       SourceKind          `json:"source"`
	FileName     string              `json:"file_name,omitempty"`
	FileSize     int64               `json:"file_size,omitempty"`
	State        SessionState        `json:"state"`
	Headers      []string            `json:"headers,omitempty"`
	Rows         []*Row              `json:"rows,omitempty"`
	Mapping      ColumnMapping       `json:"mapping,omitempty"`
	ConflictMode ConflictMode        `json:"conflict_mode"`
	OptionSets   []catalog.OptionSet `json:"option_sets,omitempty"`
	FitmentSpec  string              `json:"fitment_spec,omitempty"`
	Validation   *ValidationResult   `json:"validation,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}

// NewImportSession creates a session for a parsed CSV upload
func NewImportSession(fileName string, fileSize int64, headers []string, rows []*Row) *ImportSession {
	s := newSession(SourceCSV)
	s.FileName = fileName
	s.FileSize = fileSize
	s.Headers = headers
	s.Rows = rows
	return s
}

// NewSKUPasteSession creates a session whose rows are SKU skeletons
func NewSKUPasteSession(rows []*Row) *ImportSession {
	s := newSession(SourceSKUPaste)
	s.Headers = []string{FieldSKU}
	s.Rows = rows
	// pasted rows are already keyed by field name
	s.Mapping = ColumnMapping{FieldSKU: FieldSKU, FieldName: FieldSKU}
	s.State = StateMapped
	return s
}

func newSession(source SourceKind) *ImportSession {
	now := time.Now()
	return &ImportSession{
		ID:           uuid.New(),
		Source:       source,
		State:        StateCreated,
		ConflictMode: ConflictSkip,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetMapping stores the column mapping and advances the session
func (s *ImportSession) SetMapping(mapping ColumnMapping) {
	s.Mapping = mapping
	s.State = StateMapped
	s.Validation = nil
	s.UpdatedAt = time.Now()
}

// SetValidation stores a validation pass result
func (s *ImportSession) SetValidation(result *ValidationResult) {
	s.Validation = result
	if result.IsValid() {
		s.State = StateValidated
	} else {
		s.State = StateMapped
	}
	s.UpdatedAt = time.Now()
}

// MappedValue reads a row value through the column mapping
func (s *ImportSession) MappedValue(row *Row, field string) string {
	header := s.Mapping[field]
	if header == "" {
		return ""
	}
	return row.Get(header)
}

// Finish marks the session completed or failed
func (s *ImportSession) Finish(failed bool) {
	if failed {
		s.State = StateFailed
	} else {
		s.State = StateCompleted
	}
	now := time.Now()
	s.CompletedAt = &now
	s.UpdatedAt = now
}

// CanValidate reports whether the session is ready for a validation pass
func (s *ImportSession) CanValidate() bool {
	return s.State == StateMapped || s.State == StateValidated
}

// CanCommit reports whether the session had a clean validation pass
func (s *ImportSession) CanCommit() bool {
	return s.State == StateValidated
}
