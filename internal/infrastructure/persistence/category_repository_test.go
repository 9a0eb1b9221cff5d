package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// newMockCategoryRepository creates a GormCategoryRepository with a mocked SQL connection
func newMockCategoryRepository(t *testing.T) (*GormCategoryRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCategoryRepository(gormDB), mock, mockDB
}

func TestGormCategoryRepository_FindByID(t *testing.T) {
	t.Run("finds existing category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "slug", "sort_order", "is_active"}).
			AddRow(categoryID, "Brakes", "brakes", 0, true)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(categoryID, 1).
			WillReturnRows(rows)

		category, err := repo.FindByID(context.Background(), categoryID)

		assert.NoError(t, err)
		require.NotNil(t, category)
		assert.Equal(t, categoryID, category.ID)
		assert.Equal(t, "brakes", category.Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(categoryID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		category, err := repo.FindByID(context.Background(), categoryID)

		assert.Nil(t, category)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_Move(t *testing.T) {
	t.Run("updates parent and sort order", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()
		newParentID := uuid.New()

		mock.ExpectExec(`UPDATE "categories" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Move(context.Background(), categoryID, &newParentID, 2)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when no rows change", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "categories" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Move(context.Background(), uuid.New(), nil, 0)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_SetActive(t *testing.T) {
	t.Run("empty id list touches nothing", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		changed, err := repo.SetActive(context.Background(), nil, true)
		assert.NoError(t, err)
		assert.Zero(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports changed row count", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		ids := []uuid.UUID{uuid.New(), uuid.New()}

		mock.ExpectExec(`UPDATE "categories" SET`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		changed, err := repo.SetActive(context.Background(), ids, false)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_ExistsBySlug(t *testing.T) {
	repo, mock, mockDB := newMockCategoryRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories" WHERE slug = \$1`).
		WithArgs("brakes").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsBySlug(context.Background(), "brakes")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
