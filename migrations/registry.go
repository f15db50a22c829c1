// Package migrations holds the MongoDB schema migrations of evelink. Each
// file registers itself from init.
package migrations

import (
	"go-evelink/pkg/migrations"
)

var registeredMigrations []migrations.RegisteredMigration

// Migration is a convenience type for registering migrations
type Migration struct {
	Version     string
	Description string
	Up          migrations.MigrationFunc
	Down        migrations.MigrationFunc
}

// Register adds a migration to the registry
func Register(migration Migration) {
	registeredMigrations = append(registeredMigrations, migrations.RegisteredMigration{
		Version:     migration.Version,
		Description: migration.Description,
		Up:          migration.Up,
		Down:        migration.Down,
	})
}

// RegisterAll registers all migrations with the runner
func RegisterAll(runner *migrations.Runner) {
	runner.Register(registeredMigrations...)
}
