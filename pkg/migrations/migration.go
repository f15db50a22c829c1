package migrations

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "_migrations"

// Migration is the record of an applied migration
type Migration struct {
	Version     string    `bson:"version"`
	Description string    `bson:"description"`
	AppliedAt   time.Time `bson:"applied_at"`
	Checksum    string    `bson:"checksum"`
}

// MigrationFunc defines a migration function signature
type MigrationFunc func(ctx context.Context, db *mongo.Database) error

// RegisteredMigration holds migration metadata and functions
type RegisteredMigration struct {
	Version     string
	Description string
	Up          MigrationFunc
	Down        MigrationFunc // optional
}

// Checksum identifies the migration's declared content
func (m RegisteredMigration) Checksum() string {
	sum := sha256.Sum256([]byte(m.Version + "\x00" + m.Description))
	return hex.EncodeToString(sum[:])
}

// Status is one line of Runner.Status
type Status struct {
	Version     string
	Description string
	AppliedAt   *time.Time
	// Modified is set when the applied checksum no longer matches
	Modified bool
}

// Runner manages database migrations
type Runner struct {
	db         *mongo.Database
	collection *mongo.Collection
	migrations []RegisteredMigration
}

// NewRunner creates a new migration runner
func NewRunner(db *mongo.Database) *Runner {
	r := &Runner{db: db}
	if db != nil {
		r.collection = db.Collection(collectionName)
	}
	return r
}

// Register adds migrations, keeping them ordered by version. It panics on a
// duplicate version or a migration without Up.
func (r *Runner) Register(migrations ...RegisteredMigration) {
	for _, m := range migrations {
		if m.Up == nil {
			panic(fmt.Sprintf("migrations: %s has no Up function", m.Version))
		}
		for _, existing := range r.migrations {
			if existing.Version == m.Version {
				panic(fmt.Sprintf("migrations: duplicate version %s", m.Version))
			}
		}
		r.migrations = append(r.migrations, m)
	}
	sort.Slice(r.migrations, func(i, j int) bool { return r.migrations[i].Version < r.migrations[j].Version })
}

// Migrations returns the registered migrations in version order
func (r *Runner) Migrations() []RegisteredMigration {
	return append([]RegisteredMigration(nil), r.migrations...)
}

// Run applies every pending migration in order and returns how many ran
func (r *Runner) Run(ctx context.Context) (int, error) {
	if err := r.ensureMigrationsIndex(ctx); err != nil {
		return 0, fmt.Errorf("failed to create migrations index: %w", err)
	}

	applied, err := r.appliedMigrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	ran := 0
	for _, migration := range r.migrations {
		if _, ok := applied[migration.Version]; ok {
			continue
		}

		slog.InfoContext(ctx, "Running migration", "version", migration.Version, "description", migration.Description)
		if err := migration.Up(ctx, r.db); err != nil {
			return ran, fmt.Errorf("migration %s failed: %w", migration.Version, err)
		}

		record := Migration{
			Version:     migration.Version,
			Description: migration.Description,
			AppliedAt:   time.Now().UTC(),
			Checksum:    migration.Checksum(),
		}
		if _, err := r.collection.InsertOne(ctx, record); err != nil {
			return ran, fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}
		ran++
	}

	return ran, nil
}

// Rollback reverts the last steps applied migrations, newest first
func (r *Runner) Rollback(ctx context.Context, steps int) (int, error) {
	applied, err := r.appliedMigrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	reverted := 0
	for i := len(r.migrations) - 1; i >= 0 && reverted < steps; i-- {
		migration := r.migrations[i]
		if _, ok := applied[migration.Version]; !ok {
			continue
		}
		if migration.Down == nil {
			return reverted, fmt.Errorf("migration %s cannot be rolled back", migration.Version)
		}

		slog.InfoContext(ctx, "Rolling back migration", "version", migration.Version)
		if err := migration.Down(ctx, r.db); err != nil {
			return reverted, fmt.Errorf("rollback %s failed: %w", migration.Version, err)
		}
		if _, err := r.collection.DeleteOne(ctx, bson.M{"version": migration.Version}); err != nil {
			return reverted, fmt.Errorf("failed to remove migration record %s: %w", migration.Version, err)
		}
		reverted++
	}

	return reverted, nil
}

// Status reports every registered migration and when it was applied
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	applied, err := r.appliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	statuses := make([]Status, 0, len(r.migrations))
	for _, migration := range r.migrations {
		status := Status{Version: migration.Version, Description: migration.Description}
		if record, ok := applied[migration.Version]; ok {
			appliedAt := record.AppliedAt
			status.AppliedAt = &appliedAt
			status.Modified = record.Checksum != migration.Checksum()
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (r *Runner) ensureMigrationsIndex(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *Runner) appliedMigrations(ctx context.Context) (map[string]Migration, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Migration
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	applied := make(map[string]Migration, len(records))
	for _, record := range records {
		applied[record.Version] = record
	}
	return applied, nil
}
