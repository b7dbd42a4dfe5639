package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impactorbit/impactorbit-backend/internal/blogs"
	"github.com/impactorbit/impactorbit-backend/internal/docstore"
	"github.com/impactorbit/impactorbit-backend/pkg/logger"
)

// BlogHandler exposes categories and blogs over REST. Reads are public;
// the caller decides which routes to wrap in auth middleware at
// registration time.
type BlogHandler struct {
	registry    *blogs.Registry
	coordinator *blogs.Coordinator
}

func NewBlogHandler(r *blogs.Registry, c *blogs.Coordinator) *BlogHandler {
	return &BlogHandler{registry: r, coordinator: c}
}

// RegisterPublic registers the read-only routes.
func (h *BlogHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.GET("/categories/:id", h.GetCategory)
	rg.GET("/blogs", h.ListBlogs)
	rg.GET("/blogs/:id", h.GetBlog)
}

// RegisterAdmin registers the mutating routes. Wrap the group in auth
// middleware before passing it in.
func (h *BlogHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/categories", h.CreateCategory)
	rg.PATCH("/categories/:id", h.UpdateCategory)
	rg.DELETE("/categories/:id", h.DeleteCategory)
	rg.POST("/blogs", h.CreateBlog)
	rg.PATCH("/blogs/:id", h.UpdateBlog)
	rg.DELETE("/blogs/:id", h.DeleteBlog)
}

// writeError maps the blogs error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, blogs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, blogs.ErrNotFound), errors.Is(err, docstore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *BlogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.registry.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *BlogHandler) ListCategories(c *gin.Context) {
	cats, err := h.registry.FetchCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *BlogHandler) GetCategory(c *gin.Context) {
	cat, err := h.registry.FetchCategoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *BlogHandler) UpdateCategory(c *gin.Context) {
	var patch docstore.Document
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.registry.UpdateCategory(c.Request.Context(), c.Param("id"), patch); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BlogHandler) DeleteCategory(c *gin.Context) {
	if err := h.registry.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateBlogRequest is the admin-form payload for a new post.
type CreateBlogRequest struct {
	CategoryID string          `json:"categoryId" binding:"required"`
	Blog       blogs.BlogInput `json:"blog"`
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.coordinator.AddBlog(c.Request.Context(), req.CategoryID, req.Blog)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *BlogHandler) ListBlogs(c *gin.Context) {
	var (
		list []blogs.Blog
		err  error
	)
	if cat := c.Query("category"); cat != "" {
		list, err = h.coordinator.FetchBlogsFromCategory(c.Request.Context(), cat)
	} else {
		list, err = h.coordinator.FetchBlogs(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BlogHandler) GetBlog(c *gin.Context) {
	b, err := h.coordinator.FetchBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBlogRequest carries a field patch plus the category the post should
// live under after the update. Sending the current category keeps the post
// in place; sending a different one moves the mirror copy.
type UpdateBlogRequest struct {
	Fields     docstore.Document `json:"fields"`
	CategoryID string            `json:"categoryId" binding:"required"`
}

func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	var req UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.coordinator.UpdateBlog(c.Request.Context(), c.Param("id"), req.Fields, req.CategoryID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	if err := h.coordinator.DeleteBlog(c.Request.Context(), c.Param("id"), c.Query("category")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
