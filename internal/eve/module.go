package eve

import (
	"context"
	"log/slog"
	"time"

	"go-evelink/internal/eve/models"
	"go-evelink/internal/eve/routes"
	"go-evelink/internal/eve/services"
	"go-evelink/pkg/config"
	"go-evelink/pkg/database"
	"go-evelink/pkg/eveapi"
	evemapper "go-evelink/pkg/eveapi/eve"
	"go-evelink/pkg/module"

	"github.com/danielgtaylor/huma/v2"
	"github.com/robfig/cron/v3"
)

// DefaultSyncSchedule refreshes the alliance snapshot every six hours
const DefaultSyncSchedule = "0 0 */6 * * *"

const syncTimeout = 5 * time.Minute

// Module represents the eve module
type Module struct {
	*module.BaseModule
	service  *services.Service
	routes   *routes.Module
	schedule string
}

// NewModule creates a new eve module instance. mongodb may be nil, which
// disables the alliance snapshot endpoints and the sync job.
func NewModule(mongodb *database.MongoDB, eveClient *eveapi.Client) *Module {
	var store services.SnapshotStore
	if mongodb != nil {
		store = services.NewRepository(mongodb)
	}

	service := services.NewService(evemapper.New(eveClient), store, eveClient.CacheBackend())

	m := &Module{
		BaseModule: module.NewBaseModule("eve"),
		service:    service,
		routes:     routes.NewModule(service),
		schedule:   config.GetEnv("EVE_ALLIANCE_SYNC_SCHEDULE", DefaultSyncSchedule),
	}

	slog.Info("EVE module initialized", "name", m.Name(), "snapshots", service.SnapshotsEnabled())

	return m
}

// RegisterUnifiedRoutes registers all eve routes with the provided Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath string) {
	slog.Info("Registering eve unified routes", "basePath", basePath)
	m.routes.RegisterUnifiedRoutes(api, basePath)
}

// StartBackgroundTasks runs the alliance sync on its cron schedule until the
// module is stopped
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	if !m.service.SnapshotsEnabled() {
		slog.Info("Alliance sync job skipped: MongoDB unavailable")
		m.BaseModule.StartBackgroundTasks(ctx)
		return
	}

	scheduler := cron.New(cron.WithSeconds())
	_, err := scheduler.AddFunc(m.schedule, func() {
		syncCtx, cancel := context.WithTimeout(ctx, syncTimeout)
		defer cancel()
		if _, err := m.service.SyncAlliances(syncCtx, models.TriggerScheduled); err != nil {
			slog.Error("Scheduled alliance sync failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("Invalid alliance sync schedule, job disabled", "schedule", m.schedule, "error", err)
		m.BaseModule.StartBackgroundTasks(ctx)
		return
	}

	scheduler.Start()
	slog.Info("Alliance sync job scheduled", "schedule", m.schedule)

	select {
	case <-ctx.Done():
	case <-m.StopChannel():
	}

	<-scheduler.Stop().Done()
	slog.Info("Alliance sync job stopped")
}
