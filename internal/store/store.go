// Package store persists the nutrition reference data the classifier's
// fallback path and the foods API query. It is reference data only; no
// pipeline state is ever written here.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/genau-project/speisecheck/internal/model"
)

// SchemaVersion is the food store's schema contract. The classifier fallback
// depends on this exact shape; there is no runtime schema discovery.
const SchemaVersion = 1

// FoodStore is the persistence interface for the nutrition lookup table.
type FoodStore interface {
	// SearchByName finds foods whose name contains the query,
	// case-insensitively.
	SearchByName(ctx context.Context, query string, limit int) ([]model.Food, error)

	// GetFood loads one food by primary key. Returns nil when not found.
	GetFood(ctx context.Context, id int64) (*model.Food, error)

	// SearchByTokens returns candidate rows whose name contains any of the
	// tokens. This is the classifier fallback contract (classify.FoodLookup).
	SearchByTokens(ctx context.Context, tokens []string, limit int) ([]model.FoodCandidate, error)

	// ReplaceAll destructively resets the table and bulk-inserts the given
	// foods. Used by the one-shot import job.
	ReplaceAll(ctx context.Context, foods []model.Food) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures the store backend.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Open creates a store for the configured driver.
func Open(ctx context.Context, cfg Config) (FoodStore, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
