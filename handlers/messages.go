package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
	"github.com/impactorbit/impactorbit-backend/internal/messages"
	"github.com/impactorbit/impactorbit-backend/pkg/logger"
)

// MessageHandler serves the contact form and the admin inbox.
type MessageHandler struct {
	store *messages.Store
}

func NewMessageHandler(s *messages.Store) *MessageHandler {
	return &MessageHandler{store: s}
}

// RegisterPublic: the contact form posts here.
func (h *MessageHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/messages", h.Create)
}

// RegisterAdmin: inbox listing plus edit/delete/clear-all.
func (h *MessageHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/messages", h.List)
	rg.PATCH("/messages/:id", h.Update)
	rg.DELETE("/messages/:id", h.Delete)
	rg.DELETE("/messages", h.ClearAll)
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req messages.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	id, err := h.store.Add(c.Request.Context(), req)
	if err != nil {
		logger.Errorf("message create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *MessageHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *MessageHandler) Update(c *gin.Context) {
	var patch docstore.Document
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) ClearAll(c *gin.Context) {
	if err := h.store.ClearAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
