package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go-evelink/internal/eve"
	"go-evelink/pkg/app"
	"go-evelink/pkg/config"
	"go-evelink/pkg/handlers"
	"go-evelink/pkg/module"
	"go-evelink/pkg/version"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "go.uber.org/automaxprocs"
)

const serviceName = "evelink"

// requestLogger is chi's logger minus health checks
func requestLogger(next http.Handler) http.Handler {
	logged := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		logged.ServeHTTP(w, r)
	})
}

func main() {
	versionInfo := version.Get()
	log.Printf("Version: %s | Build: %s (%s)", version.String(), versionInfo.BuildDate, versionInfo.Platform)
	log.Printf("CPUs: %d | GOMAXPROCS: %d", runtime.NumCPU(), runtime.GOMAXPROCS(0))

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	appCtx, err := app.InitializeApp(ctx, serviceName)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(handlers.TracingMiddleware(serviceName))

	checks := map[string]handlers.HealthCheck{}
	if appCtx.MongoDB != nil {
		checks["mongodb"] = appCtx.MongoDB.HealthCheck
	}
	if appCtx.Redis != nil {
		checks["redis"] = appCtx.Redis.HealthCheck
	}
	r.Get("/health", handlers.HealthHandler(serviceName, checks))

	eveModule := eve.NewModule(appCtx.MongoDB, appCtx.EveClient)
	modules := []module.Module{eveModule}

	humaConfig := huma.DefaultConfig("EVE Link API", versionInfo.Version)
	humaConfig.Info.Description = "EVE Online XML API /eve/ calls mapped to JSON"

	apiPrefix := config.GetAPIPrefix()
	var api huma.API
	if apiPrefix == "" {
		api = humachi.New(r, humaConfig)
	} else {
		r.Route(apiPrefix, func(prefixRouter chi.Router) {
			api = humachi.New(prefixRouter, humaConfig)
		})
	}

	eveModule.RegisterUnifiedRoutes(api, "/eve")

	for _, mod := range modules {
		go mod.StartBackgroundTasks(ctx)
	}

	port := app.GetPort("8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server: http://localhost:%s%s | OpenAPI: %s/openapi.json", port, apiPrefix, apiPrefix)

	go func() {
		slog.Info("Starting evelink server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Received shutdown signal, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	for _, mod := range modules {
		mod.Stop()
	}
	stopBackground()

	appCtx.Shutdown(shutdownCtx)

	slog.Info("Evelink shutdown completed successfully")
}
