package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-task-api/internal/dto"
	"github.com/yukikurage/kanban-task-api/internal/models"
	"github.com/yukikurage/kanban-task-api/internal/repository"
	"github.com/yukikurage/kanban-task-api/internal/services"
	"github.com/yukikurage/kanban-task-api/internal/testutil"
	"gorm.io/gorm"
)

type categoryTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupCategoryTestEnv(t *testing.T) categoryTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	handler := NewCategoryHandler(services.NewCategoryService(repository.NewCategoryRepository(db)))

	r := gin.New()
	r.GET("/categories", handler.ListCategories)
	r.POST("/categories", handler.CreateCategory)
	r.GET("/categories/:id", handler.GetCategory)
	r.PUT("/categories/:id", handler.UpdateCategory)
	r.DELETE("/categories/:id", handler.DeleteCategory)

	return categoryTestEnv{db: db, router: r}
}

func (env categoryTestEnv) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestCategoryHandler_CRUD(t *testing.T) {
	env := setupCategoryTestEnv(t)

	w := env.do(http.MethodPost, "/categories", []byte(`{"name": "work"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.CategoryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "work", created.Name)

	w = env.do(http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []dto.CategoryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	w = env.do(http.MethodPut, "/categories/1", []byte(`{"name": "office"}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/categories/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched dto.CategoryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "office", fetched.Name)

	w = env.do(http.MethodDelete, "/categories/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/categories/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryHandler_Errors(t *testing.T) {
	env := setupCategoryTestEnv(t)
	testutil.CreateCategory(t, env.db, "work")
	testutil.CreateCategory(t, env.db, "home")

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "duplicate create", method: http.MethodPost, path: "/categories", body: `{"name": "work"}`, wantStatus: http.StatusConflict},
		{name: "empty create", method: http.MethodPost, path: "/categories", body: `{"name": ""}`, wantStatus: http.StatusBadRequest},
		{name: "empty rename", method: http.MethodPut, path: "/categories/1", body: `{"name": "  "}`, wantStatus: http.StatusBadRequest},
		{name: "rename to taken", method: http.MethodPut, path: "/categories/1", body: `{"name": "home"}`, wantStatus: http.StatusConflict},
		{name: "rename missing", method: http.MethodPut, path: "/categories/99", body: `{"name": "x"}`, wantStatus: http.StatusNotFound},
		{name: "bad id", method: http.MethodGet, path: "/categories/abc", wantStatus: http.StatusBadRequest},
		{name: "delete missing", method: http.MethodDelete, path: "/categories/99", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if tt.body != "" {
				body = []byte(tt.body)
			}
			w := env.do(tt.method, tt.path, body)

			assert.Equal(t, tt.wantStatus, w.Code)
			var response map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Contains(t, response, "error")
		})
	}
}

func TestCategoryHandler_DeleteDetachesTasks(t *testing.T) {
	env := setupCategoryTestEnv(t)
	user := testutil.CreateUser(t, env.db, "alice")
	category := testutil.CreateCategory(t, env.db, "work")
	t1 := testutil.CreateTask(t, env.db, &models.Task{Title: "t1", UserID: user.ID, CategoryID: &category.ID})
	t2 := testutil.CreateTask(t, env.db, &models.Task{Title: "t2", UserID: user.ID, CategoryID: &category.ID})

	w := env.do(http.MethodDelete, "/categories/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, id := range []uint64{t1.ID, t2.ID} {
		var stored models.Task
		require.NoError(t, env.db.First(&stored, id).Error)
		assert.Nil(t, stored.CategoryID)
	}
}
