package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// VehicleFitment records that a product fits a vehicle model within an
// inclusive year range
type VehicleFitment struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Make      string    `gorm:"type:varchar(100);not null" json:"make"`
	Model     string    `gorm:"type:varchar(100);not null" json:"model"`
	YearFrom  int       `gorm:"not null" json:"year_from"`
	YearTo    int       `gorm:"not null" json:"year_to"`
}

// TableName returns the table name for GORM
func (VehicleFitment) TableName() string {
	return "vehicle_fitments"
}

// NewVehicleFitment creates a validated fitment
func NewVehicleFitment(productID uuid.UUID, make, model string, yearFrom, yearTo int) (*VehicleFitment, error) {
	f := &VehicleFitment{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Make:       strings.TrimSpace(make),
		Model:      strings.TrimSpace(model),
		YearFrom:   yearFrom,
		YearTo:     yearTo,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks make, model and the year range
func (f *VehicleFitment) Validate() error {
	if f.Make == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "fitment make cannot be empty")
	}
	if f.Model == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "fitment model cannot be empty")
	}
	if f.YearFrom < 1900 || f.YearFrom > 2100 {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("fitment year %d out of range", f.YearFrom))
	}
	if f.YearTo < f.YearFrom {
		return shared.NewDomainError("VALIDATION_ERROR", "fitment year range is inverted")
	}
	if f.YearTo > 2100 {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("fitment year %d out of range", f.YearTo))
	}
	return nil
}

// Matches reports whether the fitment covers the given vehicle year
func (f *VehicleFitment) Matches(make, model string, year int) bool {
	return strings.EqualFold(f.Make, make) &&
		strings.EqualFold(f.Model, model) &&
		year >= f.YearFrom && year <= f.YearTo
}

// Label renders the fitment for display, e.g. "Toyota Corolla 2015-2019"
func (f *VehicleFitment) Label() string {
	if f.YearFrom == f.YearTo {
		return fmt.Sprintf("%s %s %d", f.Make, f.Model, f.YearFrom)
	}
	return fmt.Sprintf("%s %s %d-%d", f.Make, f.Model, f.YearFrom, f.YearTo)
}
