package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func noop(ctx context.Context, db *mongo.Database) error {
	return nil
}

func TestRegisterOrdersByVersion(t *testing.T) {
	runner := NewRunner(nil)
	runner.Register(
		RegisteredMigration{Version: "002_second", Up: noop},
		RegisteredMigration{Version: "001_first", Up: noop},
	)
	runner.Register(RegisteredMigration{Version: "003_third", Up: noop})

	var versions []string
	for _, m := range runner.Migrations() {
		versions = append(versions, m.Version)
	}
	assert.Equal(t, []string{"001_first", "002_second", "003_third"}, versions)
}

func TestRegisterRejectsInvalidMigrations(t *testing.T) {
	runner := NewRunner(nil)
	runner.Register(RegisteredMigration{Version: "001_first", Up: noop})

	assert.Panics(t, func() {
		runner.Register(RegisteredMigration{Version: "001_first", Up: noop})
	})
	assert.Panics(t, func() {
		runner.Register(RegisteredMigration{Version: "002_no_up"})
	})
}

func TestChecksumTracksDescription(t *testing.T) {
	a := RegisteredMigration{Version: "001", Description: "create indexes"}
	b := RegisteredMigration{Version: "001", Description: "create more indexes"}

	assert.Equal(t, a.Checksum(), a.Checksum())
	assert.NotEqual(t, a.Checksum(), b.Checksum())
	assert.Len(t, a.Checksum(), 64)
}
