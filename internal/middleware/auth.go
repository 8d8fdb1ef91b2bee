package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/campusfind/lostfound/internal/auth"
	"github.com/campusfind/lostfound/pkg/errors"
	"github.com/campusfind/lostfound/pkg/logger"
	"github.com/campusfind/lostfound/pkg/response"
)

const (
	CtxClaimsKey  = "authClaims"
	CtxUserIDKey  = "userID"
	CtxUserRole   = "userRole"
	CtxTokenIDKey = "tokenID"
)

// Auth enforces JWT authentication using the supplied JWT service. Tokens on
// the denylist (logged out) are rejected even when otherwise valid.
func Auth(jwt *iauth.JWTService, denylist iauth.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		if denylist != nil && claims.ID != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail closed: an unreachable denylist must not let
				// logged-out tokens back in.
				logger.WithModule("auth").Warn("denylist lookup failed",
					zap.String("token_id", claims.ID),
					zap.Error(err),
				)
				response.Error(c, errors.ErrUnauthorized)
				c.Abort()
				return
			}
			if revoked {
				response.Error(c, errors.ErrUnauthorized)
				c.Abort()
				return
			}
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxTokenIDKey, claims.ID)

		c.Next()
	}
}

// RequireAdmin gates a route group to callers holding the admin role.
// It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != "admin" {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
