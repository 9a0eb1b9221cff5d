package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopadmin/backend/internal/domain/shared"
)

func TestProductRepository_CountMatchesFindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	active := seedProduct(t, db, "AC-1")
	inactive := seedProduct(t, db, "IN-1")
	require.NoError(t, inactive.Deactivate())
	require.NoError(t, db.Save(inactive).Error)

	t.Run("status filter applies to both", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = "active"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, active.SKU, products[0].SKU)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("search filter applies to both", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "ac-1"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("unfiltered counts everything", func(t *testing.T) {
		total, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("count ignores pagination", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 1

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestProductRepository_CountByCategory(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	cat := seedCategory(t, db, "Brakes", nil, 0)
	other := seedCategory(t, db, "Wheels", nil, 1)

	viaJoin := seedProduct(t, db, "BR-1", cat.ID)
	viaPrimary := seedProduct(t, db, "BR-2")
	viaPrimary.SetPrimaryCategory(&cat.ID)
	require.NoError(t, db.Save(viaPrimary).Error)
	seedProduct(t, db, "WH-1", other.ID)

	inactive := seedProduct(t, db, "BR-3", cat.ID)
	require.NoError(t, inactive.Deactivate())
	require.NoError(t, db.Save(inactive).Error)

	t.Run("counts join and primary associations once", func(t *testing.T) {
		filter := shared.DefaultFilter()

		products, err := repo.FindByCategory(ctx, cat.ID, filter)
		require.NoError(t, err)
		require.Len(t, products, 3)

		total, err := repo.CountByCategory(ctx, cat.ID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("status filter narrows the category count", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = "active"

		products, err := repo.FindByCategory(ctx, cat.ID, filter)
		require.NoError(t, err)
		require.Len(t, products, 2)

		total, err := repo.CountByCategory(ctx, cat.ID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	skus := func(t *testing.T) []string {
		t.Helper()
		products, err := repo.FindByCategory(ctx, cat.ID, shared.DefaultFilter())
		require.NoError(t, err)
		out := make([]string, 0, len(products))
		for _, p := range products {
			out = append(out, p.SKU)
		}
		return out
	}

	t.Run("other categories stay excluded", func(t *testing.T) {
		assert.NotContains(t, skus(t), "WH-1")
		assert.Contains(t, skus(t), viaJoin.SKU)
	})
}
