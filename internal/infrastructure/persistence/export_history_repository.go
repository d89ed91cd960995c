package persistence

import (
	"context"
	"time"

	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/cartloom/exporter/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExportHistoryRepository implements export.HistoryRepository using GORM
type GormExportHistoryRepository struct {
	db *gorm.DB
}

// NewGormExportHistoryRepository creates a new GormExportHistoryRepository
func NewGormExportHistoryRepository(db *gorm.DB) *GormExportHistoryRepository {
	return &GormExportHistoryRepository{db: db}
}

// Record appends a ledger entry and evicts the oldest entries beyond
// export.HistoryCapacity. Append and eviction run in one transaction so the
// cap holds even under concurrent writers.
func (r *GormExportHistoryRepository) Record(ctx context.Context, entry *export.HistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ExportHistoryModelFromDomain(entry)).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.ExportHistoryModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count <= export.HistoryCapacity {
			return nil
		}

		// Evict strictly oldest-created-first.
		var staleIDs []string
		if err := tx.Model(&models.ExportHistoryModel{}).
			Select("id").
			Order("created_at ASC").
			Limit(int(count - export.HistoryCapacity)).
			Pluck("id", &staleIDs).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ExportHistoryModel{}, "id IN ?", staleIDs).Error
	})
}

// Exists reports whether a completed export is already recorded for
// (type, date, name)
func (r *GormExportHistoryRepository) Exists(ctx context.Context, exportType export.Kind, date time.Time, exportName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ExportHistoryModel{}).
		Where("export_type = ? AND export_name = ? AND date = ? AND status = ?",
			string(exportType), exportName, date.Format("2006-01-02"), string(export.StatusCompleted)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns the most recent entries, created_at descending
func (r *GormExportHistoryRepository) List(ctx context.Context, limit int) ([]export.HistoryEntry, error) {
	if limit <= 0 || limit > export.HistoryCapacity {
		limit = export.HistoryCapacity
	}
	var historyModels []models.ExportHistoryModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	entries := make([]export.HistoryEntry, len(historyModels))
	for i := range historyModels {
		entries[i] = *historyModels[i].ToDomain()
	}
	return entries, nil
}

// Statistics aggregates the current ledger contents
func (r *GormExportHistoryRepository) Statistics(ctx context.Context) (*export.Statistics, error) {
	stats := &export.Statistics{
		ByType: make(map[string]int64),
		ByDate: make(map[string]int64),
	}

	type totalsRow struct {
		Total      int64
		Succeeded  int64
		Failed     int64
		TotalBytes int64
	}
	var totals totalsRow
	if err := r.db.WithContext(ctx).Model(&models.ExportHistoryModel{}).
		Select(
			"COUNT(*) AS total, "+
				"COUNT(*) FILTER (WHERE status = 'completed') AS succeeded, "+
				"COUNT(*) FILTER (WHERE status = 'failed') AS failed, "+
				"COALESCE(SUM(file_size) FILTER (WHERE status = 'completed'), 0) AS total_bytes").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.Total = totals.Total
	stats.Succeeded = totals.Succeeded
	stats.Failed = totals.Failed
	stats.TotalBytes = totals.TotalBytes

	type groupRow struct {
		Key   string
		Count int64
	}
	var byType []groupRow
	if err := r.db.WithContext(ctx).Model(&models.ExportHistoryModel{}).
		Select("export_type AS key, COUNT(*) AS count").
		Group("export_type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, row := range byType {
		stats.ByType[row.Key] = row.Count
	}

	var byDate []groupRow
	if err := r.db.WithContext(ctx).Model(&models.ExportHistoryModel{}).
		Select("TO_CHAR(date, 'YYYY-MM-DD') AS key, COUNT(*) AS count").
		Group("TO_CHAR(date, 'YYYY-MM-DD')").
		Scan(&byDate).Error; err != nil {
		return nil, err
	}
	for _, row := range byDate {
		stats.ByDate[row.Key] = row.Count
	}

	return stats, nil
}

// Compile-time interface compliance check
var _ export.HistoryRepository = (*GormExportHistoryRepository)(nil)
