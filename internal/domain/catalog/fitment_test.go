package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVehicleFitment(t *testing.T) {
	productID := uuid.New()

	t.Run("creates valid fitment", func(t *testing.T) {
		f, err := NewVehicleFitment(productID, " Toyota ", "Corolla", 2015, 2019)
		require.NoError(t, err)

		assert.Equal(t, "Toyota", f.Make)
		assert.Equal(t, "Corolla", f.Model)
		assert.Equal(t, "Toyota Corolla 2015-2019", f.Label())
	})

	t.Run("single year label", func(t *testing.T) {
		f, err := NewVehicleFitment(productID, "Honda", "Civic", 2020, 2020)
		require.NoError(t, err)
		assert.Equal(t, "Honda Civic 2020", f.Label())
	})

	t.Run("rejects inverted year range", func(t *testing.T) {
		_, err := NewVehicleFitment(productID, "Honda", "Civic", 2020, 2019)
		assert.Error(t, err)
	})

	t.Run("rejects blank make or model", func(t *testing.T) {
		_, err := NewVehicleFitment(productID, "  ", "Civic", 2019, 2020)
		assert.Error(t, err)
		_, err = NewVehicleFitment(productID, "Honda", "", 2019, 2020)
		assert.Error(t, err)
	})

	t.Run("rejects out of range years", func(t *testing.T) {
		_, err := NewVehicleFitment(productID, "Honda", "Civic", 1850, 1900)
		assert.Error(t, err)
		_, err = NewVehicleFitment(productID, "Honda", "Civic", 2099, 2150)
		assert.Error(t, err)
	})
}

func TestVehicleFitmentMatches(t *testing.T) {
	f, err := NewVehicleFitment(uuid.New(), "Toyota", "Corolla", 2015, 2019)
	require.NoError(t, err)

	assert.True(t, f.Matches("toyota", "COROLLA", 2017))
	assert.True(t, f.Matches("Toyota", "Corolla", 2015))
	assert.True(t, f.Matches("Toyota", "Corolla", 2019))
	assert.False(t, f.Matches("Toyota", "Corolla", 2014))
	assert.False(t, f.Matches("Toyota", "Camry", 2017))
}
