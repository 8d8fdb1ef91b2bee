package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/pkg/response"
)

// PickupHandler exposes pickup-request endpoints.
type PickupHandler struct {
	pickups *services.PickupService
}

// NewPickupHandler constructs a PickupHandler.
func NewPickupHandler(pickups *services.PickupService) *PickupHandler {
	return &PickupHandler{pickups: pickups}
}

type pickupRequest struct {
	ItemID  string `json:"id_barang" validate:"required,uuid"`
	Message string `json:"pesan_pengambilan" validate:"omitempty,max=2000"`
}

type pickupStatusRequest struct {
	Status string `json:"status_pengambilan" validate:"required,oneof=disetujui ditolak"`
}

// Create handles POST /api/pengambilan.
func (h *PickupHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req pickupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pickup, err := h.pickups.Request(requestContext(c), actor, req.ItemID, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pickup)
}

// UpdateStatus handles PATCH /api/pengambilan/:id/status. Admin only.
func (h *PickupHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req pickupStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pickup, err := h.pickups.UpdateStatus(requestContext(c), actor, c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pickup)
}

// List handles GET /api/pengambilan.
func (h *PickupHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	pickups, err := h.pickups.List(requestContext(c), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pickups)
}
