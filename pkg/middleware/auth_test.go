package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/impactorbit/impactorbit-backend/internal/admins"
	"github.com/impactorbit/impactorbit-backend/internal/sessions"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct {
	role string
}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	if raw == "goodtoken" {
		claims := map[string]interface{}{"sub": "user1", "email": "test@example.com"}
		if f.role != "" {
			claims["role"] = f.role
		}
		return &fakeToken{data: claims}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	g := gin.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rw := httptest.NewRecorder()

	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	g := gin.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "BadHeader")
	rw := httptest.NewRecorder()

	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	g := gin.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer goodtoken")
	rw := httptest.NewRecorder()

	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		claims, ok := c.Get("claims")
		require.True(t, ok)
		resp, _ := json.Marshal(gin.H{"claims": claims})
		c.Writer.Write(resp)
	})
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Contains(t, got, "claims")
}

func TestAuthMiddleware_RejectsRevokedToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	sessions.SetBlacklistClient(client)
	defer sessions.SetBlacklistClient(nil)

	token := "goodtoken"
	require.NoError(t, sessions.BlacklistAccessToken(context.Background(), token, 5*time.Second))

	g := gin.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rw := httptest.NewRecorder()

	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) { c.Status(http.StatusOK) })
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		role string
		min  string
		want int
	}{
		{admins.RoleMaster, admins.RoleAdmin, http.StatusOK},
		{admins.RoleAdmin, admins.RoleAdmin, http.StatusOK},
		{admins.RoleEditor, admins.RoleAdmin, http.StatusForbidden},
		{"", admins.RoleViewer, http.StatusForbidden},
	}
	for _, tc := range cases {
		g := gin.New()
		g.GET("/", AuthMiddleware(&fakeVerifier{role: tc.role}), RequireRole(tc.min), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer goodtoken")
		rw := httptest.NewRecorder()
		g.ServeHTTP(rw, req)
		require.Equal(t, tc.want, rw.Code, "role=%q min=%q", tc.role, tc.min)
	}
}

func TestRequirePanelAccess(t *testing.T) {
	run := func(role string) int {
		g := gin.New()
		g.GET("/", AuthMiddleware(&fakeVerifier{role: role}), RequirePanelAccess(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer goodtoken")
		rw := httptest.NewRecorder()
		g.ServeHTTP(rw, req)
		return rw.Code
	}
	require.Equal(t, http.StatusOK, run(admins.RoleEditor))
	require.Equal(t, http.StatusForbidden, run(admins.RoleViewer))
}
