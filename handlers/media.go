package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/impactorbit/impactorbit-backend/internal/storage"
	"github.com/impactorbit/impactorbit-backend/pkg/logger"
)

// MediaHandler uploads blog cover images and hands out presigned URLs the
// panel stores as imageLink values.
type MediaHandler struct {
	storage *storage.MediaStorage
	urlTTL  time.Duration
}

func NewMediaHandler(s *storage.MediaStorage) *MediaHandler {
	return &MediaHandler{storage: s, urlTTL: 7 * 24 * time.Hour}
}

func (h *MediaHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/media", h.Upload)
	rg.GET("/media/url", h.PresignedURL)
}

// Upload accepts a multipart "file" field, stores it and returns the
// object key plus a presigned GET URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()

	key := storage.ImageKey(fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := h.storage.Upload(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
		logger.Errorf("media upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u, err := h.storage.PresignedURL(c.Request.Context(), key, h.urlTTL)
	if err != nil {
		logger.Errorf("presign after upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presign failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "url": u})
}

// PresignedURL returns a fresh presigned GET URL for an existing object.
func (h *MediaHandler) PresignedURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key query param required"})
		return
	}
	u, err := h.storage.PresignedURL(c.Request.Context(), key, h.urlTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presign failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": u})
}
