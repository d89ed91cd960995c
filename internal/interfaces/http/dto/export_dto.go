package dto

import (
	"time"

	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/google/uuid"
)

// dateLayout is the wire format for export target dates
const dateLayout = "2006-01-02"

// RunExportRequest triggers a manual export run
type RunExportRequest struct {
	// Date is the target date, YYYY-MM-DD. Empty means yesterday.
	Date string `json:"date"`
	// TypeIDs restricts the run to the listed export types. Empty means
	// every enabled type.
	TypeIDs []string `json:"type_ids"`
}

// TypeResultResponse is the per-type outcome within a run report
type TypeResultResponse struct {
	TypeID      string `json:"type_id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Stage       string `json:"stage"`
	Skipped     bool   `json:"skipped"`
	Produced    bool   `json:"produced"`
	RecordCount int    `json:"record_count"`
	FileName    string `json:"file_name,omitempty"`
	ObjectKey   string `json:"object_key,omitempty"`
	FileSize    int64  `json:"file_size"`
	Error       string `json:"error,omitempty"`
}

// ReportResponse is the outcome of one pipeline execution
type ReportResponse struct {
	Trigger    string               `json:"trigger"`
	Date       string               `json:"date"`
	Outcome    string               `json:"outcome"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Results    []TypeResultResponse `json:"results"`
}

// NewReportResponse converts a run report to its response representation
func NewReportResponse(report *export.Report) ReportResponse {
	results := make([]TypeResultResponse, 0, len(report.Results))
	for _, res := range report.Results {
		out := TypeResultResponse{
			TypeID:      res.TypeID.String(),
			Name:        res.Name,
			Kind:        res.Kind.String(),
			Stage:       string(res.Stage),
			Skipped:     res.Skipped,
			Produced:    res.Produced,
			RecordCount: res.RecordCount,
			FileName:    res.FileName,
			ObjectKey:   res.ObjectKey,
			FileSize:    res.FileSize,
		}
		if res.Err != nil {
			out.Error = res.Err.Error()
		}
		results = append(results, out)
	}
	return ReportResponse{
		Trigger:    string(report.Trigger),
		Date:       report.Date.Format(dateLayout),
		Outcome:    string(report.Outcome),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Results:    results,
	}
}

// HistoryEntryResponse is one export history ledger entry
type HistoryEntryResponse struct {
	ID         string    `json:"id"`
	ExportType string    `json:"export_type"`
	ExportName string    `json:"export_name"`
	Date       string    `json:"date"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	Status     string    `json:"status"`
	FileSize   int64     `json:"file_size"`
	FileExists bool      `json:"file_exists"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewHistoryListResponse converts ledger entries to their response form
func NewHistoryListResponse(entries []export.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			ID:         e.ID.String(),
			ExportType: e.ExportType.String(),
			ExportName: e.ExportName,
			Date:       e.Date.Format(dateLayout),
			FileName:   e.FileName,
			FilePath:   e.FilePath,
			Status:     string(e.Status),
			FileSize:   e.FileSize,
			FileExists: e.FileExists,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}

// FieldMappingDTO pairs a data-source key with an output column name
type FieldMappingDTO struct {
	Enabled    bool   `json:"enabled"`
	DataSource string `json:"data_source" binding:"required"`
	ColumnName string `json:"column_name" binding:"required"`
}

// ExportTypeRequest creates or updates an export type configuration
type ExportTypeRequest struct {
	Name            string            `json:"name" binding:"required"`
	Kind            string            `json:"kind" binding:"required"`
	Enabled         bool              `json:"enabled"`
	Frequency       string            `json:"frequency"`
	TimeOfDay       string            `json:"time_of_day"`
	RemoteDirectory string            `json:"remote_directory"`
	LocalFolder     string            `json:"local_folder"`
	FilePrefix      string            `json:"file_prefix" binding:"required"`
	Mappings        []FieldMappingDTO `json:"mappings"`
	Statuses        []string          `json:"statuses"`
	IncludeOrigin   bool              `json:"include_origin"`
}

// ToDomain converts the request to a domain config with the given ID.
// An empty mapping list falls back to the kind's built-in defaults.
func (r *ExportTypeRequest) ToDomain(id uuid.UUID) *export.TypeConfig {
	kind := export.Kind(r.Kind)
	mappings := make([]export.FieldMapping, 0, len(r.Mappings))
	for _, m := range r.Mappings {
		mappings = append(mappings, export.FieldMapping{
			Enabled:    m.Enabled,
			DataSource: m.DataSource,
			ColumnName: m.ColumnName,
		})
	}
	if len(mappings) == 0 {
		mappings = export.DefaultMappings(kind)
	}
	return &export.TypeConfig{
		ID:              id,
		Name:            r.Name,
		Kind:            kind,
		Enabled:         r.Enabled,
		Frequency:       export.Frequency(r.Frequency),
		TimeOfDay:       r.TimeOfDay,
		RemoteDirectory: r.RemoteDirectory,
		LocalFolder:     r.LocalFolder,
		FilePrefix:      r.FilePrefix,
		Mappings:        mappings,
		Statuses:        r.Statuses,
		IncludeOrigin:   r.IncludeOrigin,
	}
}

// ExportTypeResponse is one export type configuration
type ExportTypeResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Kind            string            `json:"kind"`
	Enabled         bool              `json:"enabled"`
	Frequency       string            `json:"frequency,omitempty"`
	TimeOfDay       string            `json:"time_of_day,omitempty"`
	RemoteDirectory string            `json:"remote_directory"`
	LocalFolder     string            `json:"local_folder"`
	FilePrefix      string            `json:"file_prefix"`
	Mappings        []FieldMappingDTO `json:"mappings"`
	Statuses        []string          `json:"statuses,omitempty"`
	IncludeOrigin   bool              `json:"include_origin"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewExportTypeResponse converts a domain config to its response form
func NewExportTypeResponse(cfg *export.TypeConfig) ExportTypeResponse {
	mappings := make([]FieldMappingDTO, 0, len(cfg.Mappings))
	for _, m := range cfg.Mappings {
		mappings = append(mappings, FieldMappingDTO{
			Enabled:    m.Enabled,
			DataSource: m.DataSource,
			ColumnName: m.ColumnName,
		})
	}
	return ExportTypeResponse{
		ID:              cfg.ID.String(),
		Name:            cfg.Name,
		Kind:            cfg.Kind.String(),
		Enabled:         cfg.Enabled,
		Frequency:       string(cfg.Frequency),
		TimeOfDay:       cfg.TimeOfDay,
		RemoteDirectory: cfg.RemoteDirectory,
		LocalFolder:     cfg.LocalFolder,
		FilePrefix:      cfg.FilePrefix,
		Mappings:        mappings,
		Statuses:        cfg.Statuses,
		IncludeOrigin:   cfg.IncludeOrigin,
		CreatedAt:       cfg.CreatedAt,
		UpdatedAt:       cfg.UpdatedAt,
	}
}

// NewExportTypeListResponse converts domain configs to their response form
func NewExportTypeListResponse(configs []export.TypeConfig) []ExportTypeResponse {
	out := make([]ExportTypeResponse, 0, len(configs))
	for i := range configs {
		out = append(out, NewExportTypeResponse(&configs[i]))
	}
	return out
}

// RetryStateResponse is the pending retry marker, if any
type RetryStateResponse struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
	Attempts  int       `json:"attempts"`
}
