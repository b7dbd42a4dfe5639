package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/impactorbit/impactorbit-backend/internal/admins"
)

// injectClaims stands in for the auth middleware in tests.
func injectClaims(sub, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("claims", map[string]interface{}{"sub": sub, "role": role})
		c.Next()
	}
}

func newAdminRouter(t *testing.T, repo *fakeAdminRepo, sub, role string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(admins.NewService(repo))
	g := gin.New()
	api := g.Group("/api", injectClaims(sub, role))
	h.Register(api)
	return g
}

func TestAdminMe(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.bySub["sub-1"] = &admins.Admin{Sub: "sub-1", Email: "a@b.c", Role: admins.RoleEditor}
	g := newAdminRouter(t, repo, "sub-1", admins.RoleEditor)

	rw := doJSON(t, g, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, rw.Code)
	var a admins.Admin
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &a))
	require.Equal(t, "a@b.c", a.Email)
}

func TestAdminManagementRequiresRole(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.bySub["sub-1"] = &admins.Admin{Sub: "sub-1", Role: admins.RoleEditor}
	g := newAdminRouter(t, repo, "sub-1", admins.RoleEditor)

	rw := doJSON(t, g, http.MethodGet, "/api/admins", nil)
	require.Equal(t, http.StatusForbidden, rw.Code)
}

func TestAdminSetRoleAndDelete(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.bySub["boss"] = &admins.Admin{Sub: "boss", Role: admins.RoleMaster}
	repo.bySub["sub-2"] = &admins.Admin{Sub: "sub-2", Role: admins.RoleViewer}
	g := newAdminRouter(t, repo, "boss", admins.RoleMaster)

	rw := doJSON(t, g, http.MethodGet, "/api/admins", nil)
	require.Equal(t, http.StatusOK, rw.Code)

	rw = doJSON(t, g, http.MethodPatch, "/api/admins/sub-2/role", gin.H{"role": admins.RoleEditor})
	require.Equal(t, http.StatusNoContent, rw.Code)
	require.Equal(t, admins.RoleEditor, repo.bySub["sub-2"].Role)

	// self-service role change is refused
	rw = doJSON(t, g, http.MethodPatch, "/api/admins/boss/role", gin.H{"role": admins.RoleViewer})
	require.Equal(t, http.StatusBadRequest, rw.Code)

	// unknown account
	rw = doJSON(t, g, http.MethodPatch, "/api/admins/nobody/role", gin.H{"role": admins.RoleEditor})
	require.Equal(t, http.StatusNotFound, rw.Code)

	rw = doJSON(t, g, http.MethodDelete, "/api/admins/sub-2", nil)
	require.Equal(t, http.StatusNoContent, rw.Code)
	require.NotContains(t, repo.bySub, "sub-2")

	// self-delete refused
	rw = doJSON(t, g, http.MethodDelete, "/api/admins/boss", nil)
	require.Equal(t, http.StatusBadRequest, rw.Code)
}
