package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/impactorbit/impactorbit-backend/internal/admins"
	"github.com/impactorbit/impactorbit-backend/internal/config"
	"github.com/impactorbit/impactorbit-backend/internal/oidc"
	"github.com/impactorbit/impactorbit-backend/internal/sessions"
	"github.com/impactorbit/impactorbit-backend/internal/tokens"
	"github.com/impactorbit/impactorbit-backend/pkg/logger"
)

// LoginRequest used for password-mode login (dev/testing) and the
// authorization-code exchange the panel frontend performs.
type LoginRequest struct {
	Mode        string `json:"mode" binding:"required"` // "password" | "auth_code"
	Username    string `json:"username"`
	Password    string `json:"password"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	adminsSvc   *admins.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, a *admins.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, adminsSvc: a, sessionsSvc: s}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// Login exchanges provider credentials for a panel session: verify the id
// token, upsert the admin record, mint refresh + access tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode != "password" && req.Mode != "auth_code" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported mode"})
		return
	}
	issuer := strings.TrimRight(h.cfg.OIDC.Issuer, "/")
	if issuer == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "identity provider not configured"})
		return
	}

	var tokenResp *tokenResponse
	var err error
	if req.Mode == "password" {
		tokenResp, err = requestPasswordToken(c.Request.Context(), issuer, h.cfg.OIDC.ClientID, h.cfg.OIDC.ClientSecret, req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed", "details": err.Error()})
			return
		}
	} else {
		if req.Code == "" || req.RedirectURI == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code and redirect_uri required for auth_code mode"})
			return
		}
		logger.Debugf("Login(auth_code): code length=%d redirect_uri=%s", len(req.Code), req.RedirectURI)
		tokenResp, err = requestAuthCodeToken(c.Request.Context(), issuer, h.cfg.OIDC.ClientID, h.cfg.OIDC.ClientSecret, req.Code, req.RedirectURI)
		if err != nil {
			logger.Errorf("auth-code token exchange error (redirect_uri=%q): %v", req.RedirectURI, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed", "details": err.Error()})
			return
		}
	}

	claims, err := verifyIDToken(c.Request.Context(), tokenResp.IDToken, issuer, h.cfg.OIDC.ClientID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token", "details": err.Error()})
		return
	}
	a, err := h.adminsSvc.UpsertFromClaims(c.Request.Context(), claims)
	if err != nil {
		logger.Errorf("admin upsert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "admin upsert failed"})
		return
	}
	if a == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "admin upsert failed", "details": "claims missing sub"})
		return
	}
	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), a.Sub, a.Role, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, a, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	// camelCase response to match the panel's LoginResponse shape
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": rft,
		"admin":        a,
		"expiresIn":    int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	a, err := h.adminsSvc.GetBySub(c.Request.Context(), sess.Sub)
	if err != nil || a == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "admin lookup failed"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, a, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "expires_in": int(h.cfg.JWT.AccessTokenTTL.Seconds())})
}

// Logout invalidates the refresh token and blacklists the presented access
// token for its remaining lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	auth := c.GetHeader("Authorization")
	if auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if exp, err := parseExpFromJWT(at); err == nil {
				if ttl := time.Until(exp); ttl > 0 {
					if err := sessions.BlacklistAccessToken(c.Request.Context(), at, ttl); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
						return
					}
				}
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// parseExpFromJWT decodes the JWT payload and returns the `exp` claim.
// Payload-only parsing (no signature verification), good enough for
// computing the remaining blacklist TTL.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	b, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		b, err = base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return time.Time{}, err
		}
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	v, ok := claims["exp"]
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	switch vv := v.(type) {
	case float64:
		return time.Unix(int64(vv), 0), nil
	case json.Number:
		i64, err := vv.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(i64, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported exp type %T", v)
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

func tokenEndpoint(issuer string) string {
	return issuer + "/protocol/openid-connect/token"
}

func requestPasswordToken(ctx context.Context, issuer, clientID, clientSecret, username, password string) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint(issuer), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(b))
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func requestAuthCodeToken(ctx context.Context, issuer, clientID, clientSecret, code, redirectURI string) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	body := form.Encode()

	// One quick retry: some providers reject a code briefly while it
	// propagates, and the panel cannot re-run the redirect.
	for attempt := 1; attempt <= 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint(issuer), strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := http.DefaultClient.Do(req)
		if err == nil && resp.StatusCode == http.StatusUnauthorized && clientSecret != "" {
			// fall back to HTTP Basic client authentication
			_ = resp.Body.Close()
			logger.Warnf("requestAuthCodeToken: exchange returned 401, retrying with Basic auth")
			req2, err2 := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint(issuer), strings.NewReader(body))
			if err2 == nil {
				req2.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				req2.SetBasicAuth(clientID, clientSecret)
				resp, err = http.DefaultClient.Do(req2)
			}
		}
		if err != nil {
			if attempt == 2 {
				return nil, err
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			bodyStr := string(b)
			if resp.StatusCode == http.StatusBadRequest && strings.Contains(bodyStr, "Code not valid") && attempt == 1 {
				time.Sleep(150 * time.Millisecond)
				continue
			}
			return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, bodyStr)
		}
		var tr tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
			return nil, err
		}
		return &tr, nil
	}
	return nil, fmt.Errorf("token exchange failed after retries")
}

func verifyIDToken(ctx context.Context, idToken, issuer, clientID string) (map[string]interface{}, error) {
	ver, err := oidc.NewVerifier(ctx, issuer, clientID)
	if err != nil {
		if strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN"))) == "true" {
			iv := oidc.NewInsecureVerifier()
			tkn, err := iv.Verify(ctx, idToken)
			if err != nil {
				return nil, err
			}
			var claims map[string]interface{}
			if err := tkn.Claims(&claims); err != nil {
				return nil, err
			}
			return claims, nil
		}
		return nil, err
	}
	idt, err := ver.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	var claims map[string]interface{}
	if err := idt.Claims(&claims); err != nil {
		return nil, err
	}
	return claims, nil
}
