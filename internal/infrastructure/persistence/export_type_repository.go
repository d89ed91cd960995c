package persistence

import (
	"context"
	"errors"

	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/cartloom/exporter/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExportTypeRepository implements export.TypeConfigRepository using GORM
type GormExportTypeRepository struct {
	db *gorm.DB
}

// NewGormExportTypeRepository creates a new GormExportTypeRepository
func NewGormExportTypeRepository(db *gorm.DB) *GormExportTypeRepository {
	return &GormExportTypeRepository{db: db}
}

// FindByID finds an export type configuration by ID
func (r *GormExportTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*export.TypeConfig, error) {
	var model models.ExportTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, export.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDs returns the configurations for the given IDs; unknown IDs are
// silently absent from the result
func (r *GormExportTypeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]export.TypeConfig, error) {
	var typeModels []models.ExportTypeModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&typeModels).Error; err != nil {
		return nil, err
	}
	return toDomainConfigs(typeModels)
}

// FindAll returns every export type configuration
func (r *GormExportTypeRepository) FindAll(ctx context.Context) ([]export.TypeConfig, error) {
	var typeModels []models.ExportTypeModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&typeModels).Error; err != nil {
		return nil, err
	}
	return toDomainConfigs(typeModels)
}

// FindEnabled returns every enabled export type configuration
func (r *GormExportTypeRepository) FindEnabled(ctx context.Context) ([]export.TypeConfig, error) {
	var typeModels []models.ExportTypeModel
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("name ASC").
		Find(&typeModels).Error; err != nil {
		return nil, err
	}
	return toDomainConfigs(typeModels)
}

// Save creates or updates an export type configuration
func (r *GormExportTypeRepository) Save(ctx context.Context, cfg *export.TypeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	model, err := models.ExportTypeModelFromDomain(cfg)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// Delete removes an export type configuration by ID
func (r *GormExportTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExportTypeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return export.ErrNotFound
	}
	return nil
}

// CountEnabled counts enabled export type configurations
func (r *GormExportTypeRepository) CountEnabled(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ExportTypeModel{}).
		Where("enabled = ?", true).
		Count(&count).Error
	return count, err
}

func toDomainConfigs(typeModels []models.ExportTypeModel) ([]export.TypeConfig, error) {
	configs := make([]export.TypeConfig, 0, len(typeModels))
	for i := range typeModels {
		cfg, err := typeModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		configs = append(configs, *cfg)
	}
	return configs, nil
}

// Compile-time interface compliance check
var _ export.TypeConfigRepository = (*GormExportTypeRepository)(nil)
