package export

import (
	"context"

	"github.com/google/uuid"
)

// TypeConfigRepository persists export type configurations. Configs are
// edited through the admin surface and read-only to the pipeline.
type TypeConfigRepository interface {
	// FindByID finds an export type config by ID
	FindByID(ctx context.Context, id uuid.UUID) (*TypeConfig, error)

	// FindByIDs finds the configs for the given IDs, preserving enablement
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]TypeConfig, error)

	// FindAll returns every configured export type
	FindAll(ctx context.Context) ([]TypeConfig, error)

	// FindEnabled returns only enabled export types
	FindEnabled(ctx context.Context) ([]TypeConfig, error)

	// Save creates or updates a config after Validate has passed
	Save(ctx context.Context, cfg *TypeConfig) error

	// Delete removes a config
	Delete(ctx context.Context, id uuid.UUID) error

	// CountEnabled counts enabled export types, used by the run
	// precondition check
	CountEnabled(ctx context.Context) (int64, error)
}
