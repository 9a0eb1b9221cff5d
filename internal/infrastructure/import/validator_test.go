package csvimport

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(line int, data map[string]string) *Row {
	return &Row{LineNumber: line, Data: data}
}

func TestFieldValidator(t *testing.T) {
	t.Run("required field missing", func(t *testing.T) {
		v := NewFieldValidator([]FieldRule{
			Field("sku").Required().Build(),
		}, nil, 10)

		ok := v.ValidateRow(row(2, map[string]string{"sku": ""}))
		assert.False(t, ok)

		errs := v.Errors().Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportRequiredField, errs[0].Code)
	})

	t.Run("type checks", func(t *testing.T) {
		v := NewFieldValidator([]FieldRule{
			Field("price").Decimal().Build(),
			Field("sort_order").Int().Build(),
			Field("active").Bool().Build(),
		}, nil, 10)

		assert.True(t, v.ValidateRow(row(2, map[string]string{
			"price": "19.99", "sort_order": "3", "active": "yes",
		})))
		assert.False(t, v.ValidateRow(row(3, map[string]string{
			"price": "cheap", "sort_order": "3.5", "active": "maybe",
		})))
		assert.Equal(t, 3, v.Errors().TotalCount())
	})

	t.Run("optional empty fields pass", func(t *testing.T) {
		v := NewFieldValidator([]FieldRule{
			Field("price").Decimal().Build(),
		}, nil, 10)
		assert.True(t, v.ValidateRow(row(2, map[string]string{"price": ""})))
	})

	t.Run("minimum value", func(t *testing.T) {
		v := NewFieldValidator([]FieldRule{
			Field("price").Decimal().MinValue(decimal.Zero).Build(),
		}, nil, 10)
		assert.False(t, v.ValidateRow(row(2, map[string]string{"price": "-1"})))
	})

	t.Run("uniqueness within file is case-insensitive", func(t *testing.T) {
		v := NewFieldValidator([]FieldRule{
			Field("sku").Unique().Build(),
		}, nil, 10)

		assert.True(t, v.ValidateRow(row(2, map[string]string{"sku": "ab-1"})))
		assert.False(t, v.ValidateRow(row(3, map[string]string{"sku": "AB-1"})))

		errs := v.Errors().Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportDuplicateInFile, errs[0].Code)
	})

	t.Run("reference lookup cached", func(t *testing.T) {
		calls := 0
		lookup := func(refType, value string) (bool, error) {
			calls++
			return value == "brakes", nil
		}
		v := NewFieldValidator([]FieldRule{
			Field("category_slug").Reference("category").Build(),
		}, lookup, 10)

		assert.True(t, v.ValidateRow(row(2, map[string]string{"category_slug": "brakes"})))
		assert.True(t, v.ValidateRow(row(3, map[string]string{"category_slug": "brakes"})))
		assert.False(t, v.ValidateRow(row(4, map[string]string{"category_slug": "nope"})))
		assert.Equal(t, 2, calls)

		errs := v.Errors().Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportReferenceNotFound, errs[0].Code)
	})

	t.Run("custom rule", func(t *testing.T) {
		v := NewFieldValidator([]FieldRule{
			Field("status").Custom(func(value string) error {
				if value != "active" && value != "inactive" {
					return errors.New("status must be active or inactive")
				}
				return nil
			}).Build(),
		}, nil, 10)

		assert.True(t, v.ValidateRow(row(2, map[string]string{"status": "active"})))
		assert.False(t, v.ValidateRow(row(3, map[string]string{"status": "broken"})))
	})
}

func TestErrorCollectionCap(t *testing.T) {
	ec := NewErrorCollection(2)
	for i := 0; i < 5; i++ {
		ec.AddRequired(i+2, "sku")
	}

	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, 5, ec.TotalCount())
	assert.True(t, ec.IsTruncated())
	assert.True(t, ec.HasErrors())
}

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("Yes"))
	assert.True(t, ParseBool("1"))
	assert.False(t, ParseBool("no"))
	assert.False(t, ParseBool(""))
}
