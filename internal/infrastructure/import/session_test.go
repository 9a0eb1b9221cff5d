package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportSessionLifecycle(t *testing.T) {
	rows := []*Row{
		{LineNumber: 2, Data: map[string]string{"Article": "BP-1", "Title": "Brake Pad"}},
	}
	s := NewImportSession("products.csv", 64, []string{"Article", "Title"}, rows)

	assert.Equal(t, StateCreated, s.State)
	assert.Equal(t, SourceCSV, s.Source)
	assert.Equal(t, ConflictSkip, s.ConflictMode)
	assert.False(t, s.CanValidate())
	assert.False(t, s.CanCommit())

	mapping := ColumnMapping{FieldSKU: "Article", FieldName: "Title"}
	assert.Empty(t, mapping.MissingRequired())
	s.SetMapping(mapping)
	assert.Equal(t, StateMapped, s.State)
	assert.True(t, s.CanValidate())

	assert.Equal(t, "BP-1", s.MappedValue(rows[0], FieldSKU))
	assert.Equal(t, "", s.MappedValue(rows[0], FieldPrice))

	s.SetValidation(&ValidationResult{TotalRows: 1, ValidRows: 1})
	assert.Equal(t, StateValidated, s.State)
	assert.True(t, s.CanCommit())

	// remapping invalidates the previous validation pass
	s.SetMapping(mapping)
	assert.Nil(t, s.Validation)
	assert.False(t, s.CanCommit())

	s.SetValidation(&ValidationResult{TotalRows: 1, ValidRows: 1})
	s.Finish(false)
	assert.Equal(t, StateCompleted, s.State)
	require.NotNil(t, s.CompletedAt)
}

func TestImportSessionFailedValidation(t *testing.T) {
	s := NewImportSession("p.csv", 10, []string{"sku"}, nil)
	s.SetMapping(ColumnMapping{FieldSKU: "sku", FieldName: "sku"})

	s.SetValidation(&ValidationResult{TotalRows: 2, ValidRows: 1, ErrorRows: 1})
	assert.Equal(t, StateMapped, s.State)
	assert.False(t, s.CanCommit())
}

func TestSKUPasteSession(t *testing.T) {
	rows := []*Row{
		{LineNumber: 1, Data: map[string]string{FieldSKU: "AA-1"}},
		{LineNumber: 2, Data: map[string]string{FieldSKU: "AA-2"}},
	}
	s := NewSKUPasteSession(rows)

	assert.Equal(t, SourceSKUPaste, s.Source)
	assert.Equal(t, StateMapped, s.State)
	assert.Empty(t, s.Mapping.MissingRequired())
	assert.Equal(t, "AA-1", s.MappedValue(rows[0], FieldSKU))
}

func TestColumnMappingMissingRequired(t *testing.T) {
	missing := ColumnMapping{FieldName: "Title"}.MissingRequired()
	assert.Equal(t, []string{FieldSKU}, missing)
}

func TestIsValidConflictMode(t *testing.T) {
	assert.True(t, IsValidConflictMode("skip"))
	assert.True(t, IsValidConflictMode("update"))
	assert.True(t, IsValidConflictMode("fail"))
	assert.False(t, IsValidConflictMode("merge"))
}
