package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	iauth "github.com/campusfind/lostfound/internal/auth"
	"github.com/campusfind/lostfound/internal/middleware"
	"github.com/campusfind/lostfound/internal/services"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
	"github.com/campusfind/lostfound/pkg/response"
	"github.com/campusfind/lostfound/pkg/validator"
)

// bindAndValidate binds the request payload into T and runs struct validation.
// On failure it writes the error response and returns false.
func bindAndValidate[T any](c *gin.Context, target *T) bool {
	if err := c.ShouldBind(target); err != nil {
		response.Error(c, apperrors.NewBadRequest("Invalid request payload"))
		return false
	}

	if err := validator.ValidateStruct(target); err != nil {
		response.Error(c, apperrors.NewBadRequest(err.Error()))
		return false
	}
	return true
}

// currentActor extracts the authenticated identity set by the auth middleware.
func currentActor(c *gin.Context) (services.Actor, bool) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return services.Actor{}, false
	}
	return services.Actor{ID: userID, Role: c.GetString(middleware.CtxUserRole)}, true
}

// currentClaims returns the raw JWT claims set by the auth middleware.
func currentClaims(c *gin.Context) (*iauth.Claims, bool) {
	value, ok := c.Get(middleware.CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*iauth.Claims)
	return claims, ok
}

// parseIntQuery reads an integer query parameter, falling back on absence or
// garbage.
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func requestContext(c *gin.Context) context.Context {
	return c.Request.Context()
}
