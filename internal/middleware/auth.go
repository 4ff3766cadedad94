package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/pkg/auth"
	apperrors "github.com/myway/panel-api/pkg/errors"
)

var errMissingToken = errors.New("missing bearer token")

// Authorizer validates a session token and re-checks allow-list membership.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	authz Authorizer
}

func NewAuthMiddleware(authz Authorizer) *AuthMiddleware {
	return &AuthMiddleware{authz: authz}
}

// Authenticate runs on every protected request, streams included, so a
// revoked or no longer allowed operator is stopped before any store access.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			handler.Error(c, apperrors.Unauthorized(errMissingToken))
			return
		}

		claims, err := m.authz.Authorize(c.Request.Context(), token)
		if err != nil {
			handler.Error(c, err)
			return
		}

		c.Set(handler.ContextClaims, claims)
		c.Next()
	}
}

// bearerToken reads the Authorization header. EventSource cannot set
// headers, so the access_token query parameter is accepted as well.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return c.Query("access_token")
}
