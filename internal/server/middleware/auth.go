// Package middleware holds the gin middlewares shared by every route group.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/config"
)

const (
	userIDKey = "birdo.user_id"
	emailKey  = "birdo.email"
)

// Auth verifies the HS256 bearer token issued by the hosted auth service and
// stores the caller identity in the gin context.
func Auth(cfg config.AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	secret := []byte(cfg.JWTSecret)
	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(30 * time.Second),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return func(c *gin.Context) {
		raw, err := bearer(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		token, err := jwt.ParseString(raw, opts...)
		if err != nil {
			logger.Debug("rejected access token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		if token.Subject() == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token has no subject"})
			return
		}

		c.Set(userIDKey, token.Subject())
		if v, ok := token.Get("email"); ok {
			if email, ok := v.(string); ok {
				c.Set(emailKey, email)
			}
		}
		c.Next()
	}
}

func bearer(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("missing bearer token")
	}
	return strings.TrimSpace(token), nil
}

// UserID returns the authenticated caller id, or "" outside an Auth group.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Email returns the email claim of the caller's token, if any.
func Email(c *gin.Context) string {
	return c.GetString(emailKey)
}

// SetIdentity stores a caller identity. Handler tests use it in place of Auth.
func SetIdentity(userID, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userIDKey, userID)
		c.Set(emailKey, email)
		c.Next()
	}
}
