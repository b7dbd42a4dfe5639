package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware_AllowsWithinBurst(t *testing.T) {
	g := gin.New()
	g.GET("/", RateLimitMiddleware(1, 3), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.0.1:1234"
		rw := httptest.NewRecorder()
		g.ServeHTTP(rw, req)
		require.Equal(t, http.StatusOK, rw.Code, "request %d", i)
	}
}

func TestRateLimitMiddleware_RejectsBeyondBurst(t *testing.T) {
	g := gin.New()
	g.GET("/", RateLimitMiddleware(0.001, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.0.2:1234"
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.1.0.2:1234"
	rw2 := httptest.NewRecorder()
	g.ServeHTTP(rw2, req2)
	require.Equal(t, http.StatusTooManyRequests, rw2.Code)
	require.Equal(t, "1", rw2.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_KeysPerSubject(t *testing.T) {
	g := gin.New()
	// inject claims before the limiter so the key is the subject
	inject := func(sub string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("claims", map[string]interface{}{"sub": sub})
			c.Next()
		}
	}
	g.GET("/a", inject("alice"), RateLimitMiddleware(0.001, 1), func(c *gin.Context) { c.Status(http.StatusOK) })
	g.GET("/b", inject("bob"), RateLimitMiddleware(0.001, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/a", nil))
	require.Equal(t, http.StatusOK, rw.Code)

	// alice exhausted her bucket, bob still has his
	rw2 := httptest.NewRecorder()
	g.ServeHTTP(rw2, httptest.NewRequest(http.MethodGet, "/a", nil))
	require.Equal(t, http.StatusTooManyRequests, rw2.Code)

	rw3 := httptest.NewRecorder()
	g.ServeHTTP(rw3, httptest.NewRequest(http.MethodGet, "/b", nil))
	require.Equal(t, http.StatusOK, rw3.Code)
}
