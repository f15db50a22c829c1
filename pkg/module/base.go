package module

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

// Module is implemented by every feature module mounted by the server
type Module interface {
	// RegisterUnifiedRoutes registers the module's operations under basePath
	RegisterUnifiedRoutes(api huma.API, basePath string)

	// StartBackgroundTasks runs until ctx is cancelled or Stop is called
	StartBackgroundTasks(ctx context.Context)

	Stop()

	Name() string
}

// BaseModule provides the name and stop handling shared by modules
type BaseModule struct {
	name     string
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewBaseModule(name string) *BaseModule {
	return &BaseModule{
		name:   name,
		stopCh: make(chan struct{}),
	}
}

func (b *BaseModule) Name() string {
	return b.name
}

// StopChannel is closed when the module is stopped
func (b *BaseModule) StopChannel() <-chan struct{} {
	return b.stopCh
}

// Stop is safe to call more than once
func (b *BaseModule) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
		slog.Info("Module stopped", "module", b.name)
	})
}

// StartBackgroundTasks blocks until the module is stopped; modules with
// background work override it.
func (b *BaseModule) StartBackgroundTasks(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-b.stopCh:
	}
}
