// Package main starts the development backend: the REST API mirror and the
// activity feed over one local origin, backed by seeded in-memory fixtures.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/config"
	"github.com/flagforge/flagforge/internal/logger"
	"github.com/flagforge/flagforge/internal/server/handler/http"
	"github.com/flagforge/flagforge/internal/server/store"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		panic(err)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Seed the in-memory fixtures.
	mem := store.NewMemory()
	mem.Seed()

	hub := http.NewHub(zapLogger)
	router := http.NewRouter(mem, hub, zapLogger)

	zapLogger.Info("devserver listening",
		zap.String("addr", options.Addr),
		zap.String("api", "http://"+options.Addr+"/api"),
		zap.String("feed", "ws://"+options.Addr+"/ws/activity"),
	)
	if err := nethttp.ListenAndServe(options.Addr, router); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
