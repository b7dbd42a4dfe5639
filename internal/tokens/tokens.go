package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/impactorbit/impactorbit-backend/internal/admins"
	"github.com/impactorbit/impactorbit-backend/internal/config"
)

// GenerateAccessToken creates a signed JWT access token for the admin. The
// role claim is what the middleware's role checks read, so it must always be
// present.
func GenerateAccessToken(cfg *config.Config, a *admins.Admin, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   a.Sub,
		"name":  a.Name,
		"email": a.Email,
		"role":  a.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// ParseAccessToken verifies the signature and returns the claims.
func ParseAccessToken(cfg *config.Config, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
