package migrations

import (
	"context"
	"fmt"

	"medialog/internal/core"
)

// Manager handles blog feature migrations
type Manager struct {
	migrationService *core.MigrationService
	logger           *core.Logger
}

// NewManager creates a new blog migration manager
func NewManager(db *core.Database, logger *core.Logger) *Manager {
	migrationService := core.NewMigrationService(db, logger)
	return &Manager{
		migrationService: migrationService,
		logger:           logger,
	}
}

// Migrations returns all blog migrations in order
func (m *Manager) Migrations() []core.Migration {
	return []core.Migration{
		Migration003CreateBlogTables,
	}
}

// Migrate applies all pending blog migrations
func (m *Manager) Migrate(ctx context.Context) error {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	for _, migration := range m.Migrations() {
		if err := m.migrationService.ApplyMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	m.logger.Info("Blog migrations completed")
	return nil
}
