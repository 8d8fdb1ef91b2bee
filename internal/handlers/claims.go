package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/pkg/response"
)

// ClaimHandler exposes finder-claim endpoints.
type ClaimHandler struct {
	claims *services.ClaimService
}

// NewClaimHandler constructs a ClaimHandler.
func NewClaimHandler(claims *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

type claimRequest struct {
	ItemID        string `json:"id_barang" form:"id_barang" validate:"required,uuid"`
	FoundLocation string `json:"lokasi_ditemukan" form:"lokasi_ditemukan" validate:"omitempty,max=150"`
	Description   string `json:"deskripsi_klaim" form:"deskripsi_klaim" validate:"required,max=2000"`
}

type claimStatusRequest struct {
	Status string `json:"status_klaim" validate:"required,oneof=diterima_pemilik ditolak_pemilik divalidasi_admin ditolak_admin"`
}

// Create handles POST /api/klaim-penemuan (multipart, optional foto_penemuan).
func (h *ClaimHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req claimRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claim, err := h.claims.File(requestContext(c), actor, services.ClaimInput{
		ItemID:        req.ItemID,
		FoundLocation: req.FoundLocation,
		Description:   req.Description,
	}, formFile(c, "foto_penemuan"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, claim)
}

// UpdateStatus handles PATCH /api/klaim-penemuan/:id/status.
func (h *ClaimHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req claimStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claim, err := h.claims.UpdateStatus(requestContext(c), actor, c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, claim)
}

// List handles GET /api/klaim-penemuan?barang_id=.
func (h *ClaimHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	claims, err := h.claims.List(requestContext(c), actor, c.Query("barang_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, claims)
}
