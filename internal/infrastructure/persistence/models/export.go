package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/google/uuid"
)

// ExportTypeModel is the persistence model for export type configurations.
// Field mappings and status allow-lists are stored as JSONB documents.
type ExportTypeModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Kind            string    `gorm:"type:varchar(50);not null"`
	Enabled         bool      `gorm:"not null;default:true"`
	Frequency       string    `gorm:"type:varchar(20);not null;default:'daily'"`
	TimeOfDay       string    `gorm:"type:varchar(5)"`
	RemoteDirectory string    `gorm:"type:varchar(255);not null"`
	LocalFolder     string    `gorm:"type:varchar(255);not null"`
	FilePrefix      string    `gorm:"type:varchar(100);not null"`
	Mappings        string    `gorm:"type:jsonb;default:'[]'"`
	Statuses        string    `gorm:"type:jsonb;default:'[]'"`
	IncludeOrigin   bool      `gorm:"not null;default:true"`
	CreatedAt       time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (ExportTypeModel) TableName() string {
	return "export_types"
}

// ToDomain converts the persistence model to a domain TypeConfig
func (m *ExportTypeModel) ToDomain() (*export.TypeConfig, error) {
	var mappings []export.FieldMapping
	if m.Mappings != "" {
		if err := json.Unmarshal([]byte(m.Mappings), &mappings); err != nil {
			return nil, fmt.Errorf("failed to decode field mappings for export type %s: %w", m.Name, err)
		}
	}
	var statuses []string
	if m.Statuses != "" {
		if err := json.Unmarshal([]byte(m.Statuses), &statuses); err != nil {
			return nil, fmt.Errorf("failed to decode statuses for export type %s: %w", m.Name, err)
		}
	}
	return &export.TypeConfig{
		ID:              m.ID,
		Name:            m.Name,
		Kind:            export.Kind(m.Kind),
		Enabled:         m.Enabled,
		Frequency:       export.Frequency(m.Frequency),
		TimeOfDay:       m.TimeOfDay,
		RemoteDirectory: m.RemoteDirectory,
		LocalFolder:     m.LocalFolder,
		FilePrefix:      m.FilePrefix,
		Mappings:        mappings,
		Statuses:        statuses,
		IncludeOrigin:   m.IncludeOrigin,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

// ExportTypeModelFromDomain converts a domain TypeConfig to its persistence model
func ExportTypeModelFromDomain(cfg *export.TypeConfig) (*ExportTypeModel, error) {
	mappings, err := json.Marshal(cfg.Mappings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode field mappings for export type %s: %w", cfg.Name, err)
	}
	statuses, err := json.Marshal(cfg.Statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to encode statuses for export type %s: %w", cfg.Name, err)
	}
	return &ExportTypeModel{
		ID:              cfg.ID,
		Name:            cfg.Name,
		Kind:            string(cfg.Kind),
		Enabled:         cfg.Enabled,
		Frequency:       string(cfg.Frequency),
		TimeOfDay:       cfg.TimeOfDay,
		RemoteDirectory: cfg.RemoteDirectory,
		LocalFolder:     cfg.LocalFolder,
		FilePrefix:      cfg.FilePrefix,
		Mappings:        string(mappings),
		Statuses:        string(statuses),
		IncludeOrigin:   cfg.IncludeOrigin,
		CreatedAt:       cfg.CreatedAt,
		UpdatedAt:       cfg.UpdatedAt,
	}, nil
}

// ExportHistoryModel is the persistence model for export history ledger entries
type ExportHistoryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExportType string    `gorm:"type:varchar(50);not null;index:idx_export_histories_lookup"`
	ExportName string    `gorm:"type:varchar(255);not null;index:idx_export_histories_lookup"`
	Date       time.Time `gorm:"type:date;not null;index:idx_export_histories_lookup"`
	FileName   string    `gorm:"type:varchar(255);not null"`
	FilePath   string    `gorm:"type:varchar(1024)"`
	Status     string    `gorm:"type:varchar(20);not null"`
	FileSize   int64     `gorm:"not null;default:0"`
	FileExists bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (ExportHistoryModel) TableName() string {
	return "export_histories"
}

// ToDomain converts the persistence model to a domain HistoryEntry
func (m *ExportHistoryModel) ToDomain() *export.HistoryEntry {
	return &export.HistoryEntry{
		ID:         m.ID,
		ExportType: export.Kind(m.ExportType),
		ExportName: m.ExportName,
		Date:       m.Date,
		FileName:   m.FileName,
		FilePath:   m.FilePath,
		Status:     export.Status(m.Status),
		FileSize:   m.FileSize,
		FileExists: m.FileExists,
		CreatedAt:  m.CreatedAt,
	}
}

// ExportHistoryModelFromDomain converts a domain HistoryEntry to its persistence model
func ExportHistoryModelFromDomain(entry *export.HistoryEntry) *ExportHistoryModel {
	return &ExportHistoryModel{
		ID:         entry.ID,
		ExportType: string(entry.ExportType),
		ExportName: entry.ExportName,
		Date:       entry.Date,
		FileName:   entry.FileName,
		FilePath:   entry.FilePath,
		Status:     string(entry.Status),
		FileSize:   entry.FileSize,
		FileExists: entry.FileExists,
		CreatedAt:  entry.CreatedAt,
	}
}

// RetryStateModel is the persistence model for the single-row retry marker
type RetryStateModel struct {
	ID        int       `gorm:"primaryKey"`
	Reason    string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"type:timestamptz;not null"`
	Attempts  int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (RetryStateModel) TableName() string {
	return "export_retry_state"
}

// ToDomain converts the persistence model to a domain RetryState
func (m *RetryStateModel) ToDomain() *export.RetryState {
	return &export.RetryState{
		Reason:    m.Reason,
		Timestamp: m.Timestamp,
		Attempts:  m.Attempts,
	}
}
