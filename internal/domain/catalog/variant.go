package catalog

import (
	"strings"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// MaxOptionSets bounds the number of option dimensions so variant
// expansion stays a manageable size
const MaxOptionSets = 4

// OptionSet is one variant dimension, e.g. Size with values S, M, L
type OptionSet struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// VariantDefinition is one generated variant of a base product
type VariantDefinition struct {
	SKU     string            `json:"sku"`
	Options map[string]string `json:"options"`
}

// Validate checks the option set for empty names, empty value lists and
// duplicate values
func (os OptionSet) Validate() error {
	if strings.TrimSpace(os.Name) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "option set name cannot be empty")
	}
	if len(os.Values) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "option set must have at least one value")
	}
	seen := make(map[string]struct{}, len(os.Values))
	for _, v := range os.Values {
		v = strings.TrimSpace(v)
		if v == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "option value cannot be empty")
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			return shared.NewDomainError("VALIDATION_ERROR", "duplicate option value: "+v)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// GenerateVariants expands option sets into the full combination of
// variant definitions. Variants are ordered by the input order of the
// sets and their values, and SKUs are suffixed with the slugified value
// of each dimension.
//
// GenerateVariants("TS-100", [Size:{S,M}, Color:{Red}]) yields
// TS-100-S-RED and TS-100-M-RED.
func GenerateVariants(baseSKU string, sets []OptionSet) ([]VariantDefinition, error) {
	baseSKU = strings.ToUpper(strings.TrimSpace(baseSKU))
	if err := validateSKU(baseSKU); err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "at least one option set is required")
	}
	if len(sets) > MaxOptionSets {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "too many option sets")
	}

	names := make(map[string]struct{}, len(sets))
	for _, set := range sets {
		if err := set.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(strings.TrimSpace(set.Name))
		if _, dup := names[key]; dup {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "duplicate option set name: "+set.Name)
		}
		names[key] = struct{}{}
	}

	variants := []VariantDefinition{{SKU: baseSKU, Options: map[string]string{}}}
	for _, set := range sets {
		next := make([]VariantDefinition, 0, len(variants)*len(set.Values))
		for _, base := range variants {
			for _, value := range set.Values {
				value = strings.TrimSpace(value)
				options := make(map[string]string, len(base.Options)+1)
				for k, v := range base.Options {
					options[k] = v
				}
				options[set.Name] = value
				next = append(next, VariantDefinition{
					SKU:     base.SKU + "-" + skuSuffix(value),
					Options: options,
				})
			}
		}
		variants = next
	}
	return variants, nil
}

// skuSuffix folds an option value into an uppercase SKU fragment,
// replacing anything outside the SKU alphabet with a hyphen
func skuSuffix(value string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToUpper(value) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
