package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Brake Pads", "brake-pads"},
		{"collapses punctuation runs", "Oil & Air  Filters!", "oil-air-filters"},
		{"strips diacritics", "Électricité Générale", "electricite-generale"},
		{"trims edge hyphens", "  --Wipers-- ", "wipers"},
		{"keeps digits", "Model 3 Parts", "model-3-parts"},
		{"already a slug", "brake-pads", "brake-pads"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}
