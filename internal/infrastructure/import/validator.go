package csvimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldType is the expected type of a mapped field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeBool    FieldType = "bool"
)

// FieldRule defines the validation rules for one mapped field
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MaxLength   int
	MinValue    *decimal.Decimal
	Pattern     *regexp.Regexp
	PatternDesc string
	Unique      bool
	Reference   string // reference kind resolved by the caller, e.g. "category"
	CustomFunc  func(value string) error
}

// FieldRuleBuilder builds field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for the given column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Int sets the field type to integer
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Bool sets the field type to boolean
func (b *FieldRuleBuilder) Bool() *FieldRuleBuilder {
	b.rule.Type = TypeBool
	return b
}

// MaxLength sets the maximum length
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue sets the minimum numeric value
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// Pattern sets a regex the value must match
func (b *FieldRuleBuilder) Pattern(pattern, description string) *FieldRuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = description
	return b
}

// Unique marks the field as unique within the file
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

// Reference marks the field as a reference of the given kind
func (b *FieldRuleBuilder) Reference(refType string) *FieldRuleBuilder {
	b.rule.Reference = refType
	return b
}

// Custom attaches a custom validation function
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the built rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// ReferenceLookup resolves whether a referenced value exists,
// e.g. whether a category slug names a real category
type ReferenceLookup func(refType, value string) (bool, error)

// FieldValidator validates parsed rows against field rules
type FieldValidator struct {
	rules      []FieldRule
	seenValues map[string]map[string]int // column -> value -> first row
	refLookup  ReferenceLookup
	refCache   map[string]map[string]bool
	errors     *ErrorCollection
}

// NewFieldValidator creates a validator. refLookup may be nil when no
// rule carries a Reference.
func NewFieldValidator(rules []FieldRule, refLookup ReferenceLookup, maxErrors int) *FieldValidator {
	return &FieldValidator{
		rules:      rules,
		seenValues: make(map[string]map[string]int),
		refLookup:  refLookup,
		refCache:   make(map[string]map[string]bool),
		errors:     NewErrorCollection(maxErrors),
	}
}

// ValidateRow validates one row, recording errors, and reports whether
// the row passed
func (v *FieldValidator) ValidateRow(row *Row) bool {
	ok := true
	for _, rule := range v.rules {
		if !v.validateField(row, rule) {
			ok = false
		}
	}
	return ok
}

func (v *FieldValidator) validateField(row *Row, rule FieldRule) bool {
	value := row.Get(rule.Column)

	if value == "" {
		if rule.Required {
			v.errors.AddRequired(row.LineNumber, rule.Column)
			return false
		}
		return true
	}

	if err := checkType(value, rule.Type); err != nil {
		v.errors.AddType(row.LineNumber, rule.Column, string(rule.Type), value)
		return false
	}

	ok := true

	if rule.MaxLength > 0 && len(value) > rule.MaxLength {
		v.errors.Add(NewRowError(row.LineNumber, rule.Column, ErrCodeImportInvalidLength,
			fmt.Sprintf("length must be at most %d", rule.MaxLength)))
		ok = false
	}

	if rule.MinValue != nil && (rule.Type == TypeInt || rule.Type == TypeDecimal) {
		if d, err := decimal.NewFromString(value); err == nil && d.LessThan(*rule.MinValue) {
			v.errors.Add(NewRowError(row.LineNumber, rule.Column, ErrCodeImportValidation,
				fmt.Sprintf("value must be at least %s", rule.MinValue.String())))
			ok = false
		}
	}

	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		v.errors.Add(RowError{Row: row.LineNumber, Column: rule.Column, Code: ErrCodeImportPatternMismatch,
			Message: fmt.Sprintf("value does not match %s", rule.PatternDesc), Value: value})
		ok = false
	}

	if rule.Unique {
		key := strings.ToUpper(value)
		if v.seenValues[rule.Column] == nil {
			v.seenValues[rule.Column] = make(map[string]int)
		}
		if firstRow, dup := v.seenValues[rule.Column][key]; dup {
			v.errors.Add(RowError{Row: row.LineNumber, Column: rule.Column, Code: ErrCodeImportDuplicateInFile,
				Message: fmt.Sprintf("duplicate value '%s' (first seen in row %d)", value, firstRow), Value: value})
			ok = false
		} else {
			v.seenValues[rule.Column][key] = row.LineNumber
		}
	}

	if rule.Reference != "" && v.refLookup != nil {
		if !v.checkReference(row.LineNumber, rule.Column, rule.Reference, value) {
			ok = false
		}
	}

	if rule.CustomFunc != nil {
		if err := rule.CustomFunc(value); err != nil {
			v.errors.Add(NewRowError(row.LineNumber, rule.Column, ErrCodeImportValidation, err.Error()))
			ok = false
		}
	}

	return ok
}

func (v *FieldValidator) checkReference(row int, column, refType, value string) bool {
	if v.refCache[refType] == nil {
		v.refCache[refType] = make(map[string]bool)
	}
	exists, cached := v.refCache[refType][value]
	if !cached {
		var err error
		exists, err = v.refLookup(refType, value)
		if err != nil {
			v.errors.Add(NewRowError(row, column, ErrCodeImportValidation,
				fmt.Sprintf("error checking %s reference: %v", refType, err)))
			return false
		}
		v.refCache[refType][value] = exists
	}
	if !exists {
		v.errors.AddReference(row, column, value, refType)
		return false
	}
	return true
}

// checkType validates a value against its expected type
func checkType(value string, fieldType FieldType) error {
	switch fieldType {
	case TypeInt:
		_, err := strconv.ParseInt(value, 10, 64)
		return err
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err
	case TypeBool:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no", "y", "n":
			return nil
		}
		return fmt.Errorf("invalid boolean value: %s", value)
	}
	return nil
}

// ParseBool interprets the boolean spellings checkType accepts
func ParseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

// Errors returns the accumulated errors
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}
