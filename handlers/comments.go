package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impactorbit/impactorbit-backend/internal/comments"
	"github.com/impactorbit/impactorbit-backend/internal/docstore"
	"github.com/impactorbit/impactorbit-backend/pkg/logger"
)

// CommentHandler serves visitor comments and the moderation screen.
type CommentHandler struct {
	store *comments.Store
}

func NewCommentHandler(s *comments.Store) *CommentHandler {
	return &CommentHandler{store: s}
}

// RegisterPublic: visitors can post a comment and read approved ones.
func (h *CommentHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/blogs/:id/comments", h.Create)
	rg.GET("/blogs/:id/comments", h.ListApproved)
}

// RegisterAdmin: moderation list, approval toggle, delete.
func (h *CommentHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/comments", h.ListAll)
	rg.PATCH("/comments/:id/approval", h.SetApproval)
	rg.DELETE("/comments/:id", h.Delete)
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.store.Add(c.Request.Context(), c.Param("id"), req.Name, req.Email, req.Comment)
	if err != nil {
		logger.Errorf("comment create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CommentHandler) ListApproved(c *gin.Context) {
	list, err := h.store.ListApprovedForBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommentHandler) ListAll(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommentHandler) SetApproval(c *gin.Context) {
	var req struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.SetApproval(c.Request.Context(), c.Param("id"), *req.Approved); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
