package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfind/lostfound/internal/services"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
	"github.com/campusfind/lostfound/pkg/response"
)

// ProofHandler exposes the handover-evidence endpoint.
type ProofHandler struct {
	proofs *services.ProofService
}

// NewProofHandler constructs a ProofHandler.
func NewProofHandler(proofs *services.ProofService) *ProofHandler {
	return &ProofHandler{proofs: proofs}
}

type proofRequest struct {
	ItemID string `form:"id_barang" validate:"required,uuid"`
	Note   string `form:"catatan" validate:"omitempty,max=2000"`
}

// Create handles POST /api/bukti (multipart, foto_bukti required). Admin only.
func (h *ProofHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req proofRequest
	if !bindAndValidate(c, &req) {
		return
	}

	photo := formFile(c, "foto_bukti")
	if photo == nil {
		response.Error(c, apperrors.NewBadRequest("foto_bukti is required"))
		return
	}

	proof, err := h.proofs.Record(requestContext(c), actor, req.ItemID, photo, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, proof)
}
