package importapp

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/catalog"
	csvimport "github.com/shopadmin/backend/internal/infrastructure/import"
)

// SetMappingRequest assigns file headers to product fields and picks the
// conflict mode for the eventual commit
type SetMappingRequest struct {
	Mapping      map[string]string `json:"mapping" binding:"required"`
	ConflictMode string            `json:"conflict_mode" binding:"omitempty,oneof=skip update fail"`
}

// SKUPasteRequest starts a session from a pasted SKU list
type SKUPasteRequest struct {
	SKUs         string `json:"skus" binding:"required"`
	ConflictMode string `json:"conflict_mode" binding:"omitempty,oneof=skip update fail"`
}

// SetOptionSetsRequest attaches variant option sets to a session
type SetOptionSetsRequest struct {
	OptionSets []catalog.OptionSet `json:"option_sets" binding:"required"`
}

// SetFitmentSpecRequest attaches a vehicle fitment spec to a session.
// Format: "make|model|yearFrom-yearTo" entries separated by semicolons.
type SetFitmentSpecRequest struct {
	FitmentSpec string `json:"fitment_spec" binding:"required"`
}

// SessionResponse is the import session as seen by the client. Parsed
// rows stay server-side; only their count is reported.
type SessionResponse struct {
	ID             uuid.UUID                   `json:"id"`
	Source         string                      `json:"source"`
	State          string                      `json:"state"`
	FileName       string                      `json:"file_name,omitempty"`
	RowCount       int                         `json:"row_count"`
	Headers        []string                    `json:"headers,omitempty"`
	MappableFields []string                    `json:"mappable_fields"`
	RequiredFields []string                    `json:"required_fields"`
	Mapping        csvimport.ColumnMapping     `json:"mapping,omitempty"`
	ConflictMode   string                      `json:"conflict_mode"`
	OptionSets     []catalog.OptionSet         `json:"option_sets,omitempty"`
	FitmentSpec    string                      `json:"fitment_spec,omitempty"`
	Validation     *csvimport.ValidationResult `json:"validation,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// CommitResult summarizes what a commit wrote
type CommitResult struct {
	TotalRows   int                  `json:"total_rows"`
	CreatedRows int                  `json:"created_rows"`
	UpdatedRows int                  `json:"updated_rows"`
	SkippedRows int                  `json:"skipped_rows"`
	FailedRows  int                  `json:"failed_rows"`
	Errors      []csvimport.RowError `json:"errors,omitempty"`
}

// ToSessionResponse converts an ImportSession to its API shape
func ToSessionResponse(s *csvimport.ImportSession) *SessionResponse {
	return &SessionResponse{
		ID:             s.ID,
		Source:         string(s.Source),
		State:          string(s.State),
		FileName:       s.FileName,
		RowCount:       len(s.Rows),
		Headers:        s.Headers,
		MappableFields: csvimport.MappableFields(),
		RequiredFields: csvimport.RequiredFields(),
		Mapping:        s.Mapping,
		ConflictMode:   string(s.ConflictMode),
		OptionSets:     s.OptionSets,
		FitmentSpec:    s.FitmentSpec,
		Validation:     s.Validation,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
