package handlers

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusfind/lostfound/internal/services"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
	"github.com/campusfind/lostfound/pkg/response"
)

// ItemHandler exposes the lost/found report endpoints.
type ItemHandler struct {
	items *services.ItemService
}

// NewItemHandler constructs an ItemHandler.
func NewItemHandler(items *services.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

type itemRequest struct {
	Name        string `form:"nama_barang" validate:"required,min=3,max=100"`
	Description string `form:"deskripsi" validate:"required,min=5"`
	ReportType  string `form:"tipe_laporan" validate:"required,oneof=hilang ditemukan"`
	CategoryID  string `form:"id_kategori" validate:"required,uuid"`
	LocationID  string `form:"id_lokasi" validate:"omitempty,uuid"`
	OccurredOn  string `form:"tanggal_kejadian" validate:"omitempty,datetime=2006-01-02"`
}

type itemUpdateRequest struct {
	Name        string `form:"nama_barang" validate:"omitempty,min=3,max=100"`
	Description string `form:"deskripsi" validate:"omitempty,min=5"`
	ReportType  string `form:"tipe_laporan" validate:"omitempty,oneof=hilang ditemukan"`
	CategoryID  string `form:"id_kategori" validate:"omitempty,uuid"`
	LocationID  string `form:"id_lokasi" validate:"omitempty,uuid"`
	OccurredOn  string `form:"tanggal_kejadian" validate:"omitempty,datetime=2006-01-02"`
}

func itemInputFrom(name, description, reportType, categoryID, locationID, occurredOn string) (services.ItemInput, error) {
	input := services.ItemInput{
		Name:        name,
		Description: description,
		ReportType:  reportType,
		CategoryID:  categoryID,
	}
	if locationID != "" {
		input.LocationID = &locationID
	}
	if occurredOn != "" {
		date, err := time.Parse("2006-01-02", occurredOn)
		if err != nil {
			return input, apperrors.NewBadRequest("tanggal_kejadian must use the YYYY-MM-DD format")
		}
		input.OccurredOn = &date
	}
	return input, nil
}

// formFile returns the named upload when present, nil when the field is
// absent.
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}

func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// Create handles POST /api/barang (multipart).
func (h *ItemHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req itemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input, err := itemInputFrom(req.Name, req.Description, req.ReportType, req.CategoryID, req.LocationID, req.OccurredOn)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.items.Create(requestContext(c), actor, input, formFile(c, "gambar"), formFiles(c, "foto_lain[]"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// List handles GET /api/barang.
func (h *ItemHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	filter := services.ItemFilter{
		ReportType: c.Query("tipe"),
		Status:     c.Query("status"),
		Query:      c.Query("q"),
		Page:       parseIntQuery(c, "page", 1),
		PerPage:    parseIntQuery(c, "per_page", 0),
	}

	items, total, err := h.items.List(requestContext(c), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, perPage := filter.Page, filter.PerPage
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 12
	}
	response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(page, perPage, total))
}

// Get handles GET /api/barang/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	item, err := h.items.Get(requestContext(c), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// Update handles PUT /api/barang/:id (multipart allowed).
func (h *ItemHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req itemUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input, err := itemInputFrom(req.Name, req.Description, req.ReportType, req.CategoryID, req.LocationID, req.OccurredOn)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.items.Update(requestContext(c), actor, c.Param("id"), input, formFile(c, "gambar"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// Verify handles POST /api/barang/:id/verifikasi. Admin only.
func (h *ItemHandler) Verify(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	item, err := h.items.Verify(requestContext(c), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// Delete handles DELETE /api/barang/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.items.Delete(requestContext(c), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Item deleted"})
}
