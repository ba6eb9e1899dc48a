package http

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/allisson/go-pwdhash"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/webhooks/internal/errors"
	"github.com/allisson/webhooks/internal/httputil"
)

func newAdminTokenHasher() (*pwdhash.PasswordHasher, error) {
	return pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
}

// HashAdminToken hashes a plain admin token with Argon2id for ADMIN_TOKEN_HASH.
func HashAdminToken(plainToken string) (string, error) {
	if strings.TrimSpace(plainToken) == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "admin token must not be blank")
	}

	hasher, err := newAdminTokenHasher()
	if err != nil {
		return "", fmt.Errorf("failed to create admin token hasher: %w", err)
	}

	hash, err := hasher.Hash([]byte(plainToken))
	if err != nil {
		return "", fmt.Errorf("failed to hash admin token: %w", err)
	}
	return hash, nil
}

// AdminAuthMiddleware guards the admin API with a static bearer token.
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
// The token is checked against tokenHash in constant time by go-pwdhash.
// Missing, malformed or wrong tokens all produce 401 Unauthorized.
func AdminAuthMiddleware(tokenHash string, logger *slog.Logger) (gin.HandlerFunc, error) {
	if tokenHash == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "admin token hash is required")
	}

	hasher, err := newAdminTokenHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token hasher: %w", err)
	}

	const bearerPrefix = "bearer "

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) <= len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("admin authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, nil)
			c.Abort()
			return
		}

		ok, err := hasher.Verify([]byte(authHeader[len(bearerPrefix):]), tokenHash)
		if err != nil || !ok {
			logger.Debug("admin authentication failed: token mismatch")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, nil)
			c.Abort()
			return
		}

		c.Next()
	}, nil
}
