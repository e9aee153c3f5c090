package migrations

import (
	"context"
	"fmt"

	"medialog/internal/core"
)

// Manager handles media feature migrations
type Manager struct {
	migrationService *core.MigrationService
	logger           *core.Logger
}

// NewManager creates a new media migration manager
func NewManager(db *core.Database, logger *core.Logger) *Manager {
	migrationService := core.NewMigrationService(db, logger)
	return &Manager{
		migrationService: migrationService,
		logger:           logger,
	}
}

// Migrations returns all media migrations in order
func (m *Manager) Migrations() []core.Migration {
	return []core.Migration{
		Migration002CreateMediaTables,
	}
}

// Migrate applies all pending media migrations
func (m *Manager) Migrate(ctx context.Context) error {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	for _, migration := range m.Migrations() {
		if err := m.migrationService.ApplyMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	m.logger.Info("Media migrations completed")
	return nil
}

// Rollback rolls back the last applied media migration
func (m *Manager) Rollback(ctx context.Context) error {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	applied, err := m.migrationService.GetAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	var last *core.Migration
	for _, migration := range applied {
		for _, own := range m.Migrations() {
			if migration.Version == own.Version {
				mig := own
				last = &mig
			}
		}
	}
	if last == nil {
		return fmt.Errorf("no media migrations have been applied")
	}

	if err := m.migrationService.RollbackMigration(ctx, *last); err != nil {
		return fmt.Errorf("failed to rollback migration %d (%s): %w", last.Version, last.Name, err)
	}

	m.logger.Info("Rolled back media migration", "version", last.Version, "name", last.Name)
	return nil
}

// Status returns the current migration status
func (m *Manager) Status(ctx context.Context) (*core.MigrationStatus, error) {
	return m.migrationService.GetMigrationStatus(ctx)
}
