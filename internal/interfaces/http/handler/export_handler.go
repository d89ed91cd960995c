package handler

import (
	"context"
	"strconv"
	"time"

	appexport "github.com/cartloom/exporter/internal/application/export"
	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/cartloom/exporter/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportService is the handler's view of the export orchestrator
type ExportService interface {
	RunManual(ctx context.Context, date time.Time, typeIDs []uuid.UUID) (*export.Report, error)
	SetupAutomation(ctx context.Context) error
	Status(ctx context.Context) map[string]any
}

// ExportHandler handles export pipeline HTTP requests
type ExportHandler struct {
	BaseHandler
	service  ExportService
	history  export.HistoryRepository
	retries  export.RetryStateRepository
	uploader appexport.Uploader
	location *time.Location
}

// NewExportHandler creates a new ExportHandler. Default run dates are
// computed in location, the pipeline's reference timezone.
func NewExportHandler(
	service ExportService,
	history export.HistoryRepository,
	retries export.RetryStateRepository,
	uploader appexport.Uploader,
	location *time.Location,
) *ExportHandler {
	if location == nil {
		location = time.UTC
	}
	return &ExportHandler{
		service:  service,
		history:  history,
		retries:  retries,
		uploader: uploader,
		location: location,
	}
}

// Run triggers a manual export run for a target date. An empty date means
// yesterday; an empty type list means every enabled type.
func (h *ExportHandler) Run(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RunExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// Yesterday in the reference timezone, matching the scheduled run.
	date := time.Now().In(h.location).AddDate(0, 0, -1)
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	typeIDs := make([]uuid.UUID, 0, len(req.TypeIDs))
	for _, raw := range req.TypeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid export type ID: "+raw)
			return
		}
		typeIDs = append(typeIDs, id)
	}

	report, err := h.service.RunManual(ctx, date, typeIDs)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.NewReportResponse(report))
}

// ListHistory returns the most recent ledger entries, newest first
func (h *ExportHandler) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "Invalid limit, expected a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.history.List(ctx, limit)
	if err != nil {
		h.InternalError(c, "Failed to list export history: "+err.Error())
		return
	}

	h.Success(c, dto.NewHistoryListResponse(entries))
}

// Statistics aggregates the history ledger
func (h *ExportHandler) Statistics(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.history.Statistics(ctx)
	if err != nil {
		h.InternalError(c, "Failed to aggregate export statistics: "+err.Error())
		return
	}

	h.Success(c, stats)
}

// Status reports pipeline status: service identity, storage target, last run
// and any pending retry
func (h *ExportHandler) Status(c *gin.Context) {
	h.Success(c, h.service.Status(c.Request.Context()))
}

// RetryState returns the pending retry marker, or 404 when none is pending
func (h *ExportHandler) RetryState(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.retries.Get(ctx)
	if err != nil {
		h.InternalError(c, "Failed to read retry state: "+err.Error())
		return
	}
	if state == nil {
		h.NotFound(c, "No retry is pending")
		return
	}

	h.Success(c, dto.RetryStateResponse{
		Reason:    state.Reason,
		Timestamp: state.Timestamp,
		Attempts:  state.Attempts,
	})
}

// SetupAutomation verifies storage connectivity and arms the daily schedule
func (h *ExportHandler) SetupAutomation(c *gin.Context) {
	if err := h.service.SetupAutomation(c.Request.Context()); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"automation": "armed"})
}

// TestStorage performs a storage connectivity check
func (h *ExportHandler) TestStorage(c *gin.Context) {
	h.Success(c, h.uploader.TestConnection(c.Request.Context()))
}

// RegisterRoutes registers all export pipeline routes
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	exports := rg.Group("/exports")
	{
		exports.POST("/run", h.Run)
		exports.GET("/history", h.ListHistory)
		exports.GET("/statistics", h.Statistics)
		exports.GET("/status", h.Status)
		exports.GET("/retry", h.RetryState)
		exports.POST("/automation/setup", h.SetupAutomation)
		exports.GET("/storage/test", h.TestStorage)
	}
}
