// Package database provides the data access layer with support for multiple backends.
// It keeps rumor-check history and the request audit log; incident reports are
// never stored.
package database

import (
	"context"
	"fmt"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/models"
)

// Store defines the interface for data persistence.
type Store interface {
	// Rumor-check history
	SaveCheck(ctx context.Context, rec *models.CheckRecord) error
	// GetCheckByHash returns the most recent remote result for a request hash,
	// or nil when there is none.
	GetCheckByHash(ctx context.Context, hash string) (*models.CheckRecord, error)
	ListChecks(ctx context.Context, limit, offset int) ([]*models.CheckRecord, error)

	// Audit logs
	LogRequest(ctx context.Context, log *models.AuditLog) error
	GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// Lifecycle
	Close() error
	Migrate() error
}

// Open creates the store selected by configuration. Driver "none" yields a
// nil store and no error.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := NewPostgresStore(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
