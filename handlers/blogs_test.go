package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/impactorbit/impactorbit-backend/internal/blogs"
	"github.com/impactorbit/impactorbit-backend/internal/docstore"
)

func newBlogRouter(t *testing.T) (*gin.Engine, *docstore.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := docstore.NewMemoryStore()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	store.SetClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	})
	h := NewBlogHandler(blogs.NewRegistry(store), blogs.NewCoordinator(store))
	g := gin.New()
	api := g.Group("/api")
	h.RegisterPublic(api)
	h.RegisterAdmin(api)
	return g, store
}

func doJSON(t *testing.T, g *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestCategoryCRUD(t *testing.T) {
	g, _ := newBlogRouter(t)

	rw := doJSON(t, g, http.MethodPost, "/api/categories", gin.H{"name": "Tech News"})
	require.Equal(t, http.StatusCreated, rw.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &created))
	require.Equal(t, "tech-news", created["id"])

	rw = doJSON(t, g, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rw.Code)
	var cats []blogs.Category
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &cats))
	require.Len(t, cats, 1)
	require.Equal(t, "Tech News", cats[0].Name)

	rw = doJSON(t, g, http.MethodGet, "/api/categories/tech-news", nil)
	require.Equal(t, http.StatusOK, rw.Code)

	rw = doJSON(t, g, http.MethodPatch, "/api/categories/tech-news", gin.H{"seoTitle": "Tech"})
	require.Equal(t, http.StatusNoContent, rw.Code)

	rw = doJSON(t, g, http.MethodDelete, "/api/categories/tech-news", nil)
	require.Equal(t, http.StatusNoContent, rw.Code)

	rw = doJSON(t, g, http.MethodGet, "/api/categories/tech-news", nil)
	require.Equal(t, http.StatusNotFound, rw.Code)
}

func TestCategoryValidation(t *testing.T) {
	g, _ := newBlogRouter(t)

	rw := doJSON(t, g, http.MethodPost, "/api/categories", gin.H{"name": "   "})
	require.Equal(t, http.StatusBadRequest, rw.Code)

	rw = doJSON(t, g, http.MethodPatch, "/api/categories/missing", gin.H{"name": "x"})
	require.Equal(t, http.StatusNotFound, rw.Code)
}

func TestBlogCRUDAndCategoryFilter(t *testing.T) {
	g, _ := newBlogRouter(t)

	doJSON(t, g, http.MethodPost, "/api/categories", gin.H{"name": "Tech"})
	doJSON(t, g, http.MethodPost, "/api/categories", gin.H{"name": "Design"})

	var ids []string
	for i := 0; i < 3; i++ {
		cat := "tech"
		if i == 2 {
			cat = "design"
		}
		rw := doJSON(t, g, http.MethodPost, "/api/blogs", gin.H{
			"categoryId": cat,
			"blog":       gin.H{"title": fmt.Sprintf("Post %d", i), "content": "<p>hi</p>", "author": "A", "date": "2024-01-01"},
		})
		require.Equal(t, http.StatusCreated, rw.Code)
		var res map[string]string
		require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &res))
		ids = append(ids, res["id"])
	}

	// global listing newest first
	rw := doJSON(t, g, http.MethodGet, "/api/blogs", nil)
	require.Equal(t, http.StatusOK, rw.Code)
	var all []blogs.Blog
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &all))
	require.Len(t, all, 3)
	require.Equal(t, "Post 2", all[0].Title)

	// filtered listing
	rw = doJSON(t, g, http.MethodGet, "/api/blogs?category=tech", nil)
	var techOnly []blogs.Blog
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &techOnly))
	require.Len(t, techOnly, 2)
	for _, b := range techOnly {
		require.Equal(t, "tech", b.Category)
	}

	// fetch one
	rw = doJSON(t, g, http.MethodGet, "/api/blogs/"+ids[0], nil)
	require.Equal(t, http.StatusOK, rw.Code)
	var one blogs.Blog
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &one))
	require.Equal(t, "Post 0", one.Title)

	// patch in place
	rw = doJSON(t, g, http.MethodPatch, "/api/blogs/"+ids[0], gin.H{
		"fields":     gin.H{"title": "Post 0 v2"},
		"categoryId": "tech",
	})
	require.Equal(t, http.StatusNoContent, rw.Code)

	// move category
	rw = doJSON(t, g, http.MethodPatch, "/api/blogs/"+ids[0], gin.H{
		"fields":     gin.H{},
		"categoryId": "design",
	})
	require.Equal(t, http.StatusNoContent, rw.Code)
	rw = doJSON(t, g, http.MethodGet, "/api/blogs/"+ids[0], nil)
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &one))
	require.Equal(t, "design", one.Category)
	require.Equal(t, "Post 0 v2", one.Title)

	// delete with mirror hint
	rw = doJSON(t, g, http.MethodDelete, "/api/blogs/"+ids[0]+"?category=design", nil)
	require.Equal(t, http.StatusNoContent, rw.Code)
	rw = doJSON(t, g, http.MethodGet, "/api/blogs/"+ids[0], nil)
	require.Equal(t, http.StatusNotFound, rw.Code)
}

func TestBlogErrorMapping(t *testing.T) {
	g, _ := newBlogRouter(t)

	rw := doJSON(t, g, http.MethodGet, "/api/blogs/nope", nil)
	require.Equal(t, http.StatusNotFound, rw.Code)

	rw = doJSON(t, g, http.MethodPatch, "/api/blogs/nope", gin.H{
		"fields":     gin.H{"title": "x"},
		"categoryId": "tech",
	})
	require.Equal(t, http.StatusNotFound, rw.Code)

	// missing categoryId fails binding
	rw = doJSON(t, g, http.MethodPost, "/api/blogs", gin.H{"blog": gin.H{"title": "x"}})
	require.Equal(t, http.StatusBadRequest, rw.Code)
}
