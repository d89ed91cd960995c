package handler

import (
	"errors"

	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/cartloom/exporter/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportTypeHandler handles export type configuration HTTP requests
type ExportTypeHandler struct {
	BaseHandler
	types export.TypeConfigRepository
}

// NewExportTypeHandler creates a new ExportTypeHandler
func NewExportTypeHandler(types export.TypeConfigRepository) *ExportTypeHandler {
	return &ExportTypeHandler{types: types}
}

// List returns every export type configuration
func (h *ExportTypeHandler) List(c *gin.Context) {
	configs, err := h.types.FindAll(c.Request.Context())
	if err != nil {
		h.InternalError(c, "Failed to list export types: "+err.Error())
		return
	}
	h.Success(c, dto.NewExportTypeListResponse(configs))
}

// Get returns one export type configuration by ID
func (h *ExportTypeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid export type ID")
		return
	}

	cfg, err := h.types.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, export.ErrNotFound) {
			h.NotFound(c, "Export type not found")
			return
		}
		h.InternalError(c, "Failed to get export type: "+err.Error())
		return
	}

	h.Success(c, dto.NewExportTypeResponse(cfg))
}

// Create registers a new export type configuration
func (h *ExportTypeHandler) Create(c *gin.Context) {
	var req dto.ExportTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cfg := req.ToDomain(uuid.New())
	if err := h.types.Save(c.Request.Context(), cfg); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, dto.NewExportTypeResponse(cfg))
}

// Update replaces an existing export type configuration
func (h *ExportTypeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid export type ID")
		return
	}

	var req dto.ExportTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// The config must exist; updates never create.
	if _, err := h.types.FindByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, export.ErrNotFound) {
			h.NotFound(c, "Export type not found")
			return
		}
		h.InternalError(c, "Failed to get export type: "+err.Error())
		return
	}

	cfg := req.ToDomain(id)
	if err := h.types.Save(c.Request.Context(), cfg); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.NewExportTypeResponse(cfg))
}

// Delete removes an export type configuration
func (h *ExportTypeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid export type ID")
		return
	}

	if err := h.types.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, export.ErrNotFound) {
			h.NotFound(c, "Export type not found")
			return
		}
		h.InternalError(c, "Failed to delete export type: "+err.Error())
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all export type configuration routes
func (h *ExportTypeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	types := rg.Group("/export-types")
	{
		types.GET("", h.List)
		types.GET("/:id", h.Get)
		types.POST("", h.Create)
		types.PUT("/:id", h.Update)
		types.DELETE("/:id", h.Delete)
	}
}
