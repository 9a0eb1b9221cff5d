package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
)

// MockCategoryRepository implements catalog.CategoryRepository for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, query catalog.CategoryQuery) ([]catalog.CategoryNode, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CategoryNode), args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) AncestorIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Move(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID, sortOrder int) error {
	args := m.Called(ctx, id, newParentID, sortOrder)
	return args.Error(0)
}

func (m *MockCategoryRepository) MergeInto(ctx context.Context, sourceID, targetID uuid.UUID) (*catalog.MergeStats, error) {
	args := m.Called(ctx, sourceID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MergeStats), args.Error(1)
}

func (m *MockCategoryRepository) SetActive(ctx context.Context, ids []uuid.UUID, active bool) (int64, error) {
	args := m.Called(ctx, ids, active)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	args := m.Called(ctx, id, cascade)
	return args.Error(0)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func setupCategoryRouter(repo *MockCategoryRepository) *gin.Engine {
	engine := gin.New()
	h := NewCategoryHandler(catalogapp.NewCategoryService(repo))

	engine.POST("/categories", h.Create)
	engine.GET("/categories/:id", h.Get)
	engine.PUT("/categories/:id/reorder", h.Reorder)
	engine.POST("/categories/merge", h.Merge)
	engine.DELETE("/categories/:id", h.Delete)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCategoryHandlerCreate(t *testing.T) {
	t.Run("creates category with derived slug", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("ExistsBySlug", mock.Anything, "brake-pads").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		engine := setupCategoryRouter(repo)
		w := postJSON(t, engine, "POST", "/categories", gin.H{"name": "Brake Pads"})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "Brake Pads", data["name"])
		assert.Equal(t, "brake-pads", data["slug"])
	})

	t.Run("duplicate slug returns 409", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("ExistsBySlug", mock.Anything, "brake-pads").Return(true, nil)

		engine := setupCategoryRouter(repo)
		w := postJSON(t, engine, "POST", "/categories", gin.H{"name": "Brake Pads"})

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing name fails binding", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		engine := setupCategoryRouter(repo)

		w := postJSON(t, engine, "POST", "/categories", gin.H{"slug": "orphan"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCategoryHandlerReorder(t *testing.T) {
	t.Run("move into own subtree returns 422", func(t *testing.T) {
		parent := mustTestCategory(t, "Engine", "engine")
		child := mustTestCategory(t, "Pistons", "pistons")

		repo := new(MockCategoryRepository)
		repo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
		repo.On("FindByID", mock.Anything, child.ID).Return(child, nil)
		repo.On("AncestorIDs", mock.Anything, child.ID).Return([]uuid.UUID{parent.ID}, nil)

		engine := setupCategoryRouter(repo)
		w := postJSON(t, engine, "PUT", "/categories/"+parent.ID.String()+"/reorder",
			gin.H{"new_parent_id": child.ID, "new_sort_order": 0})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeCycleDetected, resp.Error.Code)
		repo.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		engine := setupCategoryRouter(repo)

		w := postJSON(t, engine, "PUT", "/categories/nope/reorder", gin.H{"new_sort_order": 1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCategoryHandlerMerge(t *testing.T) {
	t.Run("merge into self returns 422", func(t *testing.T) {
		id := uuid.New()
		repo := new(MockCategoryRepository)
		engine := setupCategoryRouter(repo)

		w := postJSON(t, engine, "POST", "/categories/merge",
			gin.H{"source_id": id, "target_id": id})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidMergeTarget, resp.Error.Code)
	})

	t.Run("reports merge stats", func(t *testing.T) {
		source := uuid.New()
		target := uuid.New()

		repo := new(MockCategoryRepository)
		repo.On("AncestorIDs", mock.Anything, target).Return([]uuid.UUID{}, nil)
		repo.On("MergeInto", mock.Anything, source, target).Return(&catalog.MergeStats{
			ProductsMoved:       7,
			ChildrenMoved:       2,
			OverlappingProducts: 1,
		}, nil)

		engine := setupCategoryRouter(repo)
		w := postJSON(t, engine, "POST", "/categories/merge",
			gin.H{"source_id": source, "target_id": target})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, float64(7), data["products_moved"])
		assert.Equal(t, float64(2), data["children_moved"])
		assert.Equal(t, float64(1), data["overlapping_products"])
	})
}

func TestCategoryHandlerDelete(t *testing.T) {
	t.Run("blocked by children returns 409", func(t *testing.T) {
		cat := mustTestCategory(t, "Wheels", "wheels")

		repo := new(MockCategoryRepository)
		repo.On("FindByID", mock.Anything, cat.ID).Return(cat, nil)
		repo.On("HasChildren", mock.Anything, cat.ID).Return(true, nil)

		engine := setupCategoryRouter(repo)
		req := httptest.NewRequest("DELETE", "/categories/"+cat.ID.String(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeDeleteBlocked, resp.Error.Code)
	})

	t.Run("force delete cascades", func(t *testing.T) {
		cat := mustTestCategory(t, "Wheels", "wheels")

		repo := new(MockCategoryRepository)
		repo.On("FindByID", mock.Anything, cat.ID).Return(cat, nil)
		repo.On("Delete", mock.Anything, cat.ID, true).Return(nil)

		engine := setupCategoryRouter(repo)
		req := httptest.NewRequest("DELETE", "/categories/"+cat.ID.String()+"?force=true", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		repo.AssertNotCalled(t, "HasChildren", mock.Anything, mock.Anything)
	})
}

func mustTestCategory(t *testing.T, name, slug string) *catalog.Category {
	t.Helper()
	cat, err := catalog.NewCategory(name, slug, nil)
	require.NoError(t, err)
	return cat
}
