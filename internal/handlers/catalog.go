package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/pkg/response"
)

// CatalogHandler exposes category and location CRUD.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type categoryRequest struct {
	Name        string `json:"nama_kategori" validate:"required,min=2,max=50"`
	Description string `json:"deskripsi" validate:"omitempty,max=500"`
}

type categoryUpdateRequest struct {
	Name        string `json:"nama_kategori" validate:"omitempty,min=2,max=50"`
	Description string `json:"deskripsi" validate:"omitempty,max=500"`
}

type locationRequest struct {
	Name        string `json:"nama_lokasi" validate:"required,min=2,max=100"`
	Description string `json:"deskripsi" validate:"omitempty,max=500"`
}

type locationUpdateRequest struct {
	Name        string `json:"nama_lokasi" validate:"omitempty,min=2,max=100"`
	Description string `json:"deskripsi" validate:"omitempty,max=500"`
}

// ListCategories handles GET /api/kategori.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// GetCategory handles GET /api/kategori/:id.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// CreateCategory handles POST /api/kategori. Admin only.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(requestContext(c), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/kategori/:id. Admin only.
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req categoryUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	category, err := h.catalog.UpdateCategory(requestContext(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/kategori/:id. Admin only.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Category deleted"})
}

// ListLocations handles GET /api/lokasi.
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	locations, err := h.catalog.ListLocations(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, locations)
}

// GetLocation handles GET /api/lokasi/:id.
func (h *CatalogHandler) GetLocation(c *gin.Context) {
	location, err := h.catalog.GetLocation(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, location)
}

// CreateLocation handles POST /api/lokasi. Admin only.
func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	location, err := h.catalog.CreateLocation(requestContext(c), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, location)
}

// UpdateLocation handles PUT /api/lokasi/:id. Admin only.
func (h *CatalogHandler) UpdateLocation(c *gin.Context) {
	var req locationUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	location, err := h.catalog.UpdateLocation(requestContext(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, location)
}

// DeleteLocation handles DELETE /api/lokasi/:id. Admin only.
func (h *CatalogHandler) DeleteLocation(c *gin.Context) {
	if err := h.catalog.DeleteLocation(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Location deleted"})
}
