package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// newTestDB opens an in-memory sqlite database with the catalog schema.
// The repository SQL sticks to portable constructs, so the same
// statements that run against postgres run here.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductCategory{},
		&catalog.VehicleFitment{},
	))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string, parentID *uuid.UUID, sortOrder int) *catalog.Category {
	t.Helper()
	cat, err := catalog.NewCategory(name, "", parentID)
	require.NoError(t, err)
	cat.SetSortOrder(sortOrder)
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, categoryIDs ...uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Product "+sku)
	require.NoError(t, err)
	require.NoError(t, db.Create(p).Error)
	for _, categoryID := range categoryIDs {
		require.NoError(t, db.Create(&catalog.ProductCategory{ProductID: p.ID, CategoryID: categoryID}).Error)
	}
	return p
}

func TestCategoryRepository_ReorderThenMergeScenario(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	electronics := seedCategory(t, db, "Electronics", nil, 0)
	phones := seedCategory(t, db, "Phones", &electronics.ID, 0)
	cables := seedCategory(t, db, "Cables", &electronics.ID, 1)

	for i := 0; i < 5; i++ {
		seedProduct(t, db, uuid.NewString()[:8], phones.ID)
	}

	// move Cables under Phones
	require.NoError(t, repo.Move(ctx, cables.ID, &phones.ID, 0))

	moved, err := repo.FindByID(ctx, cables.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, phones.ID, *moved.ParentID)

	ancestors, err := repo.AncestorIDs(ctx, cables.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, phones.ID, ancestors[0])
	assert.Equal(t, electronics.ID, ancestors[1])

	// the tree reflects the move
	nodes, err := repo.FindAll(ctx, catalog.CategoryQuery{})
	require.NoError(t, err)
	tree := catalog.BuildTree(nodes)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	phonesNode := tree[0].Children[0]
	assert.Equal(t, phones.ID, phonesNode.ID)
	assert.Equal(t, int64(5), phonesNode.ProductsCount)
	require.Len(t, phonesNode.Children, 1)
	assert.Equal(t, cables.ID, phonesNode.Children[0].ID)
	assert.Equal(t, 2, phonesNode.Children[0].Level)

	// merge Cables into Phones
	stats, err := repo.MergeInto(ctx, cables.ID, phones.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.ProductsMoved)
	assert.Zero(t, stats.ChildrenMoved)

	_, err = repo.FindByID(ctx, cables.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	count, err := repo.CountProducts(ctx, phones.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestCategoryRepository_MergeDeduplicatesAssociations(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	source := seedCategory(t, db, "Old Brakes", nil, 0)
	target := seedCategory(t, db, "Brakes", nil, 1)
	child := seedCategory(t, db, "Brake Lines", &source.ID, 0)

	shared1 := seedProduct(t, db, "SHARED-1", source.ID, target.ID)
	onlySource := seedProduct(t, db, "ONLY-SRC", source.ID)
	seedProduct(t, db, "ONLY-TGT", target.ID)

	// a product whose primary category is the source must follow the merge
	require.NoError(t, db.Model(&catalog.Product{}).
		Where("id = ?", onlySource.ID).
		Update("primary_category_id", source.ID).Error)

	stats, err := repo.MergeInto(ctx, source.ID, target.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.OverlappingProducts)
	assert.Equal(t, int64(1), stats.ProductsMoved)
	assert.Equal(t, int64(1), stats.ChildrenMoved)

	// target has the union, without duplicates
	count, err := repo.CountProducts(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	var dup int64
	require.NoError(t, db.Model(&catalog.ProductCategory{}).
		Where("product_id = ? AND category_id = ?", shared1.ID, target.ID).
		Count(&dup).Error)
	assert.Equal(t, int64(1), dup)

	// child re-pointed, primary category re-pointed, source gone
	movedChild, err := repo.FindByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, movedChild.ParentID)
	assert.Equal(t, target.ID, *movedChild.ParentID)

	var repointed catalog.Product
	require.NoError(t, db.First(&repointed, "id = ?", onlySource.ID).Error)
	require.NotNil(t, repointed.PrimaryCategoryID)
	assert.Equal(t, target.ID, *repointed.PrimaryCategoryID)

	_, err = repo.FindByID(ctx, source.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestCategoryRepository_MergeMissingTargetLeavesSourceIntact(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	source := seedCategory(t, db, "Survivor", nil, 0)
	seedProduct(t, db, "KEEP-1", source.ID)

	_, err := repo.MergeInto(ctx, source.ID, uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)

	// nothing rolled forward
	kept, err := repo.FindByID(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "Survivor", kept.Name)

	count, err := repo.CountProducts(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCategoryRepository_FindAllFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	withProducts := seedCategory(t, db, "Stocked", nil, 0)
	empty := seedCategory(t, db, "Empty Shelf", nil, 1)
	inactive := seedCategory(t, db, "Hidden", nil, 2)
	inactive.SetActive(false)
	require.NoError(t, db.Save(inactive).Error)

	seedProduct(t, db, "SKU-A", withProducts.ID)

	t.Run("with products only excludes zero-count categories", func(t *testing.T) {
		nodes, err := repo.FindAll(ctx, catalog.CategoryQuery{WithProductsOnly: true})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, withProducts.ID, nodes[0].ID)
		assert.Equal(t, int64(1), nodes[0].ProductsCount)
	})

	t.Run("active only excludes inactive", func(t *testing.T) {
		nodes, err := repo.FindAll(ctx, catalog.CategoryQuery{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, nodes, 2)
		for _, n := range nodes {
			assert.NotEqual(t, inactive.ID, n.ID)
		}
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		nodes, err := repo.FindAll(ctx, catalog.CategoryQuery{Search: "eMpTy"})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, empty.ID, nodes[0].ID)
	})
}

func TestCategoryRepository_FindAllCarriesLevelsAndChildrenCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	root := seedCategory(t, db, "Drivetrain", nil, 0)
	child := seedCategory(t, db, "Chains", &root.ID, 0)
	seedCategory(t, db, "Cassettes", &root.ID, 1)
	grand := seedCategory(t, db, "Chain Links", &child.ID, 0)

	nodes, err := repo.FindAll(ctx, catalog.CategoryQuery{})
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	byID := make(map[uuid.UUID]catalog.CategoryNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	assert.Equal(t, 0, byID[root.ID].Level)
	assert.Equal(t, int64(2), byID[root.ID].ChildrenCount)
	assert.Equal(t, 1, byID[child.ID].Level)
	assert.Equal(t, int64(1), byID[child.ID].ChildrenCount)
	assert.Equal(t, 2, byID[grand.ID].Level)
	assert.Equal(t, int64(0), byID[grand.ID].ChildrenCount)

	// a filter that hides the ancestors leaves the surviving row a root,
	// while its stored child count is untouched
	filtered, err := repo.FindAll(ctx, catalog.CategoryQuery{Search: "chains"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, child.ID, filtered[0].ID)
	assert.Equal(t, 0, filtered[0].Level)
	assert.Equal(t, int64(1), filtered[0].ChildrenCount)
}

func TestCategoryRepository_DeleteCascade(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	root := seedCategory(t, db, "Doomed", nil, 0)
	child := seedCategory(t, db, "Doomed Child", &root.ID, 0)
	grand := seedCategory(t, db, "Doomed Grandchild", &child.ID, 0)
	survivor := seedCategory(t, db, "Survivor", nil, 1)

	p := seedProduct(t, db, "ORPHANED", grand.ID, survivor.ID)
	require.NoError(t, db.Model(&catalog.Product{}).
		Where("id = ?", p.ID).
		Update("primary_category_id", grand.ID).Error)

	require.NoError(t, repo.Delete(ctx, root.ID, true))

	for _, id := range []uuid.UUID{root.ID, child.ID, grand.ID} {
		_, err := repo.FindByID(ctx, id)
		assert.Equal(t, shared.ErrNotFound, err)
	}

	// the product survives, detached from the deleted subtree
	var kept catalog.Product
	require.NoError(t, db.First(&kept, "id = ?", p.ID).Error)
	assert.Nil(t, kept.PrimaryCategoryID)

	count, err := repo.CountProducts(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCategoryRepository_SetActiveExactSet(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	a := seedCategory(t, db, "A", nil, 0)
	b := seedCategory(t, db, "B", nil, 1)
	c := seedCategory(t, db, "C", nil, 2)

	changed, err := repo.SetActive(ctx, []uuid.UUID{a.ID, b.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	nodes, err := repo.FindAll(ctx, catalog.CategoryQuery{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, c.ID, nodes[0].ID)
}
