package persistence

import (
	"context"
	"errors"

	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/cartloom/exporter/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// retryStateRowID pins the marker to a single row
const retryStateRowID = 1

// GormRetryStateRepository implements export.RetryStateRepository using GORM.
// The marker is a single upserted row: present means a retry is pending.
type GormRetryStateRepository struct {
	db *gorm.DB
}

// NewGormRetryStateRepository creates a new GormRetryStateRepository
func NewGormRetryStateRepository(db *gorm.DB) *GormRetryStateRepository {
	return &GormRetryStateRepository{db: db}
}

// Get returns the pending retry marker, or nil when none is set
func (r *GormRetryStateRepository) Get(ctx context.Context) (*export.RetryState, error) {
	var model models.RetryStateModel
	if err := r.db.WithContext(ctx).First(&model, retryStateRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the retry marker
func (r *GormRetryStateRepository) Save(ctx context.Context, state *export.RetryState) error {
	model := &models.RetryStateModel{
		ID:        retryStateRowID,
		Reason:    state.Reason,
		Timestamp: state.Timestamp,
		Attempts:  state.Attempts,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason", "timestamp", "attempts"}),
		}).
		Create(model).Error
}

// Clear removes the retry marker; clearing an absent marker is not an error
func (r *GormRetryStateRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Delete(&models.RetryStateModel{}, retryStateRowID).Error
}

// Compile-time interface compliance check
var _ export.RetryStateRepository = (*GormRetryStateRepository)(nil)
