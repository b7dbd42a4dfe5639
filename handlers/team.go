package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
	"github.com/impactorbit/impactorbit-backend/internal/storage"
	"github.com/impactorbit/impactorbit-backend/internal/team"
	"github.com/impactorbit/impactorbit-backend/pkg/logger"
)

// TeamHandler serves team-member profiles for the about page and the
// manage-team panel screen. Avatar uploads go through the media storage;
// when that is not configured the avatar route answers 503.
type TeamHandler struct {
	store  *team.Store
	media  *storage.MediaStorage
	urlTTL time.Duration
}

func NewTeamHandler(s *team.Store, media *storage.MediaStorage) *TeamHandler {
	return &TeamHandler{store: s, media: media, urlTTL: 7 * 24 * time.Hour}
}

// RegisterPublic: visitors read the team listing and single profiles.
func (h *TeamHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/team", h.List)
	rg.GET("/team/:email", h.Get)
}

// RegisterAdmin: profile upsert, avatar upload, delete.
func (h *TeamHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.PUT("/team", h.Upsert)
	rg.POST("/team/:email/avatar", h.UploadAvatar)
	rg.DELETE("/team/:email", h.Delete)
}

func (h *TeamHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TeamHandler) Get(c *gin.Context) {
	m, err := h.store.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "team member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// Upsert saves a profile keyed by its email. Re-submitting the same email
// edits the existing member.
func (h *TeamHandler) Upsert(c *gin.Context) {
	var req team.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email, err := h.store.Upsert(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, team.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Errorf("team upsert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email})
}

// UploadAvatar stores a multipart "file" under the member's avatar key and
// records the presigned URL on the profile.
func (h *TeamHandler) UploadAvatar(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
		return
	}
	email := c.Param("email")
	if _, err := h.store.Get(c.Request.Context(), email); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "team member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
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

	key := storage.AvatarKey(email, fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := h.media.Upload(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
		logger.Errorf("avatar upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u, err := h.media.PresignedURL(c.Request.Context(), key, h.urlTTL)
	if err != nil {
		logger.Errorf("presign after avatar upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presign failed"})
		return
	}
	if err := h.store.SetAvatarURL(c.Request.Context(), email, u); err != nil {
		logger.Errorf("avatar url save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "url": u})
}

func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("email")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
