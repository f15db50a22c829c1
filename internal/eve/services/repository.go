package services

import (
	"context"
	"errors"
	"fmt"

	"go-evelink/internal/eve/models"
	"go-evelink/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database operations for the alliance snapshot
type Repository struct {
	mongodb   *database.MongoDB
	alliances *mongo.Collection
	syncRuns  *mongo.Collection
}

// NewRepository creates a new eve repository
func NewRepository(mongodb *database.MongoDB) *Repository {
	return &Repository{
		mongodb:   mongodb,
		alliances: mongodb.Collection(models.AllianceCollection),
		syncRuns:  mongodb.Collection(models.SyncRunCollection),
	}
}

// UpsertAlliances replaces each alliance document in a single unordered bulk write
func (r *Repository) UpsertAlliances(ctx context.Context, snapshots []models.AllianceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(snapshots))
	for i := range snapshots {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"alliance_id": snapshots[i].AllianceID}).
			SetReplacement(snapshots[i]).
			SetUpsert(true))
	}

	if _, err := r.alliances.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert alliances: %w", err)
	}
	return nil
}

// DeleteStale removes alliances that the given sync run did not write
func (r *Repository) DeleteStale(ctx context.Context, syncID string) (int64, error) {
	result, err := r.alliances.DeleteMany(ctx, bson.M{"sync_id": bson.M{"$ne": syncID}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale alliances: %w", err)
	}
	return result.DeletedCount, nil
}

// GetAlliance retrieves one alliance; it returns ErrAllianceNotFound when absent
func (r *Repository) GetAlliance(ctx context.Context, allianceID int64) (*models.AllianceSnapshot, error) {
	var snapshot models.AllianceSnapshot
	err := r.alliances.FindOne(ctx, bson.M{"alliance_id": allianceID}).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAllianceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *Repository) CountAlliances(ctx context.Context) (int64, error) {
	return r.alliances.CountDocuments(ctx, bson.M{})
}

// SaveSyncRun inserts or replaces a sync run by ID
func (r *Repository) SaveSyncRun(ctx context.Context, run *models.SyncRun) error {
	_, err := r.syncRuns.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, options.Replace().SetUpsert(true))
	return err
}

// LastSyncRun returns the most recently started run, or nil when none exist
func (r *Repository) LastSyncRun(ctx context.Context) (*models.SyncRun, error) {
	var run models.SyncRun
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})
	err := r.syncRuns.FindOne(ctx, bson.M{}, opts).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Ping checks the database behind the repository
func (r *Repository) Ping(ctx context.Context) error {
	return r.mongodb.HealthCheck(ctx)
}
