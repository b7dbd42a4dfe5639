package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/impactorbit/impactorbit-backend/internal/admins"
	"github.com/impactorbit/impactorbit-backend/pkg/middleware"
)

// AdminHandler backs the manage-admins screen: list accounts, change a
// role, remove an account.
type AdminHandler struct {
	svc *admins.Service
}

func NewAdminHandler(svc *admins.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Register adds the admin-management routes to an authenticated group.
// Role enforcement is layered here rather than at the group so /me stays
// reachable for every signed-in account.
func (h *AdminHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	manage := rg.Group("", middleware.RequireRole(admins.RoleAdmin))
	manage.GET("/admins", h.List)
	manage.PATCH("/admins/:sub/role", h.SetRole)
	manage.DELETE("/admins/:sub", h.Delete)
}

// Me returns the account record for the authenticated subject.
func (h *AdminHandler) Me(c *gin.Context) {
	sub := middleware.ClaimString(c, "sub")
	if sub == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no subject claim"})
		return
	}
	a, err := h.svc.GetBySub(c.Request.Context(), sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AdminHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// nobody may edit their own role; the last master locking itself out
	// is unrecoverable without DB surgery
	if c.Param("sub") == middleware.ClaimString(c, "sub") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change own role"})
		return
	}
	if err := h.svc.SetRole(c.Request.Context(), c.Param("sub"), req.Role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	if c.Param("sub") == middleware.ClaimString(c, "sub") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete own account"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("sub")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
