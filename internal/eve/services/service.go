package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go-evelink/internal/eve/dto"
	"go-evelink/internal/eve/models"
	"go-evelink/pkg/eveapi/eve"

	"github.com/google/uuid"
)

var (
	// ErrSnapshotsDisabled is returned by snapshot operations when MongoDB is unavailable
	ErrSnapshotsDisabled = errors.New("alliance snapshots are disabled: no database connection")
	// ErrAllianceNotFound is returned when the snapshot has no such alliance
	ErrAllianceNotFound = errors.New("alliance not found in snapshot")
	// ErrSyncInProgress is returned when a sync is requested while one is running
	ErrSyncInProgress = errors.New("alliance sync already in progress")
)

// Mapper is the subset of *eve.EVE the service depends on
type Mapper interface {
	CharacterIDsFromNames(ctx context.Context, names []string) (eve.CharacterIDMap, error)
	CharacterIDFromName(ctx context.Context, name string) (*int64, error)
	CharacterInfoFromID(ctx context.Context, charID int64) (*eve.CharacterInfo, error)
	Alliances(ctx context.Context) (eve.AllianceDirectory, error)
}

// SnapshotStore persists the alliance snapshot; *Repository implements it
type SnapshotStore interface {
	UpsertAlliances(ctx context.Context, snapshots []models.AllianceSnapshot) error
	DeleteStale(ctx context.Context, syncID string) (int64, error)
	GetAlliance(ctx context.Context, allianceID int64) (*models.AllianceSnapshot, error)
	CountAlliances(ctx context.Context) (int64, error)
	SaveSyncRun(ctx context.Context, run *models.SyncRun) error
	LastSyncRun(ctx context.Context) (*models.SyncRun, error)
	Ping(ctx context.Context) error
}

// Service handles eve business logic
type Service struct {
	mapper       Mapper
	store        SnapshotStore
	cacheBackend string
	syncMu       sync.Mutex
	now          func() time.Time
}

// NewService creates a new eve service. store may be nil, in which case the
// snapshot operations return ErrSnapshotsDisabled.
func NewService(mapper Mapper, store SnapshotStore, cacheBackend string) *Service {
	return &Service{
		mapper:       mapper,
		store:        store,
		cacheBackend: cacheBackend,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SnapshotsEnabled reports whether a snapshot store is configured
func (s *Service) SnapshotsEnabled() bool {
	return s.store != nil
}

// ResolveCharacterIDs maps each name to its character ID
func (s *Service) ResolveCharacterIDs(ctx context.Context, names []string) (*dto.CharacterIDsOutput, error) {
	slog.InfoContext(ctx, "Resolving character names", "count", len(names))

	ids, err := s.mapper.CharacterIDsFromNames(ctx, names)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve character names", "error", err)
		return nil, fmt.Errorf("failed to resolve character names: %w", err)
	}

	return &dto.CharacterIDsOutput{Body: ids}, nil
}

// ResolveCharacterID maps one name to its character ID
func (s *Service) ResolveCharacterID(ctx context.Context, name string) (*dto.CharacterIDOutput, error) {
	id, err := s.mapper.CharacterIDFromName(ctx, name)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve character name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to resolve character name: %w", err)
	}

	return &dto.CharacterIDOutput{
		Body: dto.CharacterIDResult{Name: name, CharacterID: id},
	}, nil
}

// GetCharacterInfo retrieves a character's public profile
func (s *Service) GetCharacterInfo(ctx context.Context, characterID int64) (*dto.CharacterInfoOutput, error) {
	slog.InfoContext(ctx, "Getting character info", "character_id", characterID)

	info, err := s.mapper.CharacterInfoFromID(ctx, characterID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to get character info", "character_id", characterID, "error", err)
		return nil, fmt.Errorf("failed to get character information: %w", err)
	}

	return &dto.CharacterInfoOutput{Body: *info}, nil
}

// ListAlliances retrieves the full alliance directory from the API
func (s *Service) ListAlliances(ctx context.Context) (*dto.AllianceDirectoryOutput, error) {
	alliances, err := s.mapper.Alliances(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to get alliance list", "error", err)
		return nil, fmt.Errorf("failed to get alliances: %w", err)
	}

	slog.InfoContext(ctx, "Retrieved alliance list", "count", len(alliances))
	return &dto.AllianceDirectoryOutput{Body: alliances}, nil
}

// GetAllianceSnapshot reads one alliance from the last sync
func (s *Service) GetAllianceSnapshot(ctx context.Context, allianceID int64) (*dto.AllianceSnapshotOutput, error) {
	if s.store == nil {
		return nil, ErrSnapshotsDisabled
	}

	snapshot, err := s.store.GetAlliance(ctx, allianceID)
	if err != nil {
		if !errors.Is(err, ErrAllianceNotFound) {
			slog.ErrorContext(ctx, "Failed to read alliance snapshot", "alliance_id", allianceID, "error", err)
		}
		return nil, err
	}

	return &dto.AllianceSnapshotOutput{Body: *snapshot}, nil
}

// SyncAlliances fetches the alliance directory and replaces the stored
// snapshot with it. Only one sync runs at a time.
func (s *Service) SyncAlliances(ctx context.Context, trigger string) (*dto.SyncOutput, error) {
	if s.store == nil {
		return nil, ErrSnapshotsDisabled
	}
	if !s.syncMu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.syncMu.Unlock()

	run := &models.SyncRun{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Status:    models.SyncStatusRunning,
		StartedAt: s.now(),
	}
	logger := slog.With("sync_id", run.ID, "trigger", trigger)
	logger.InfoContext(ctx, "Starting alliance sync")

	if err := s.store.SaveSyncRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}

	count, removed, syncErr := s.syncAlliances(ctx, run.ID)

	finished := s.now()
	run.FinishedAt = &finished
	run.AllianceCount = count
	run.Removed = removed
	run.Status = models.SyncStatusCompleted
	if syncErr != nil {
		run.Status = models.SyncStatusFailed
		run.Error = syncErr.Error()
	}

	// the request context may already be done when the sync failed on it
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.store.SaveSyncRun(saveCtx, run); err != nil {
		logger.ErrorContext(ctx, "Failed to record sync run result", "error", err)
	}

	if syncErr != nil {
		logger.ErrorContext(ctx, "Alliance sync failed", "error", syncErr)
		return nil, syncErr
	}

	logger.InfoContext(ctx, "Alliance sync completed",
		"alliances", count, "removed", removed,
		"duration", finished.Sub(run.StartedAt))

	return &dto.SyncOutput{Body: syncResult(run)}, nil
}

func (s *Service) syncAlliances(ctx context.Context, syncID string) (int, int64, error) {
	directory, err := s.mapper.Alliances(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get alliances: %w", err)
	}

	snapshots := toSnapshots(directory, syncID, s.now())
	if err := s.store.UpsertAlliances(ctx, snapshots); err != nil {
		return 0, 0, err
	}

	removed, err := s.store.DeleteStale(ctx, syncID)
	if err != nil {
		return len(snapshots), 0, err
	}
	return len(snapshots), removed, nil
}

// toSnapshots converts the directory into documents ordered by alliance ID,
// with member corporations ordered by corporation ID
func toSnapshots(directory eve.AllianceDirectory, syncID string, now time.Time) []models.AllianceSnapshot {
	snapshots := make([]models.AllianceSnapshot, 0, len(directory))
	for _, alliance := range directory {
		corps := make([]models.MemberCorpSnapshot, 0, len(alliance.MemberCorps))
		for _, corp := range alliance.MemberCorps {
			corps = append(corps, models.MemberCorpSnapshot{
				CorporationID: corp.ID,
				StartDate:     corp.Timestamp,
			})
		}
		sort.Slice(corps, func(i, j int) bool { return corps[i].CorporationID < corps[j].CorporationID })

		snapshots = append(snapshots, models.AllianceSnapshot{
			AllianceID:  alliance.ID,
			Name:        alliance.Name,
			Ticker:      alliance.Ticker,
			ExecutorID:  alliance.ExecutorID,
			MemberCount: alliance.MemberCount,
			StartDate:   alliance.Timestamp,
			MemberCorps: corps,
			SyncID:      syncID,
			UpdatedAt:   now,
		})
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].AllianceID < snapshots[j].AllianceID })
	return snapshots
}

func syncResult(run *models.SyncRun) dto.SyncResult {
	return dto.SyncResult{
		SyncID:        run.ID,
		Status:        run.Status,
		AllianceCount: run.AllianceCount,
		Removed:       run.Removed,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
		Error:         run.Error,
	}
}

// GetStatus returns the health status of the eve module
func (s *Service) GetStatus(ctx context.Context) *dto.EveStatusResponse {
	status := &dto.EveStatusResponse{
		Module: "eve",
		Status: "healthy",
		Dependencies: &dto.EveDependencyStatus{
			Database:     "disabled",
			CacheBackend: s.cacheBackend,
		},
		LastChecked: s.now().Format(time.RFC3339),
	}

	if s.store == nil {
		status.Status = "degraded"
		status.Message = ErrSnapshotsDisabled.Error()
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Message = "Database health check failed: " + err.Error()
		status.Dependencies.Database = "error"
		return status
	}
	status.Dependencies.Database = "connected"

	if count, err := s.store.CountAlliances(ctx); err == nil {
		status.Dependencies.StoredAlliances = count
	}

	run, err := s.store.LastSyncRun(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read last sync run", "error", err)
	} else if run != nil {
		result := syncResult(run)
		status.LastSync = &result
		if run.Status == models.SyncStatusFailed {
			status.Status = "degraded"
			status.Message = "Last alliance sync failed"
		}
	}

	return status
}
