package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stay-booking/auth"
	"stay-booking/logger"
	"stay-booking/utils"
)

const identityKey = "identity"

// Authenticator verifies a bearer token. AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (auth.Identity, error)
}

// bearerToken reads the Authorization header. EventSource clients cannot set headers,
// so the access_token query parameter is accepted as well.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Query("access_token")
}

// OptionalAuth attaches the identity when a valid token is present and continues anonymously otherwise.
func OptionalAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			id, err := a.Authenticate(c.Request.Context(), raw)
			if err == nil {
				c.Set(identityKey, id)
			} else {
				logger.L().Debug("ignoring invalid token", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			}
		}
		c.Next()
	}
}

// RequireAuth rejects the request with 401 unless a valid token is present.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			utils.JSONError(c, http.StatusUnauthorized, "error.authRequired", "user not authenticated")
			return
		}
		id, err := a.Authenticate(c.Request.Context(), raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "error.sessionInvalid", err.Error())
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// Identity returns the caller set by the auth middleware, anonymous when none.
func Identity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Identity{}
}
