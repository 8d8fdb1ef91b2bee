package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/pkg/response"
)

// ActivityHandler exposes the audit trail. Admin only.
type ActivityHandler struct {
	activity *services.ActivityService
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List handles GET /api/activity-logs.
func (h *ActivityHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 25)

	entries, total, err := h.activity.List(requestContext(c), page, perPage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, entries, response.NewMeta(page, perPage, total))
}
