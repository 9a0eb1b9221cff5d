package importapp

import (
	"fmt"
	"strconv"
	"strings"
)

// FitmentInput is one parsed vehicle compatibility entry
type FitmentInput struct {
	Make     string
	Model    string
	YearFrom int
	YearTo   int
}

// ParseFitmentSpec parses a compact fitment list of the form
// "make|model|yearFrom-yearTo; make|model|year". A single year stands
// for a range of one. An empty spec parses to nothing.
func ParseFitmentSpec(spec string) ([]FitmentInput, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var fitments []FitmentInput
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("fitment entry %q must have the form make|model|years", entry)
		}

		vehicleMake := strings.TrimSpace(parts[0])
		model := strings.TrimSpace(parts[1])
		yearFrom, yearTo, err := parseYearRange(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("fitment entry %q: %w", entry, err)
		}

		if vehicleMake == "" || model == "" {
			return nil, fmt.Errorf("fitment entry %q is missing make or model", entry)
		}

		fitments = append(fitments, FitmentInput{
			Make:     vehicleMake,
			Model:    model,
			YearFrom: yearFrom,
			YearTo:   yearTo,
		})
	}
	return fitments, nil
}

func parseYearRange(years string) (int, int, error) {
	from, to, found := strings.Cut(years, "-")
	yearFrom, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", from)
	}
	if !found {
		return yearFrom, yearFrom, nil
	}
	yearTo, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", to)
	}
	return yearFrom, yearTo, nil
}
