package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/cors"

	"review-desk/api/router"
	"review-desk/config"
	"review-desk/db"
	"review-desk/enricher"
	"review-desk/gateway"
	"review-desk/internal/logger"
	"review-desk/localstore"
	"review-desk/repositories"
	"review-desk/services"
)

// @title        Review Desk API
// @version      1.0
// @description  Review submission, AI enrichment and admin aggregation API
// @BasePath     /api/v1
func main() {
	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")
	cfg := config.GetConfig()

	ctx := context.Background()

	apiKey, err := config.GeminiAPIKey()
	if err != nil {
		logger.Log.Errorf("gateway configuration error: %v", err)
		os.Exit(1)
	}
	gw, err := gateway.New(ctx, gateway.Config{
		APIKey: apiKey,
		Model:  cfg.GeminiModel,
		Retry:  gateway.RetryPolicyFromConfig(cfg.Retry),
	})
	if err != nil {
		logger.Log.Errorf("failed to construct gateway: %v", err)
		os.Exit(1)
	}
	enr := enricher.New(gw)

	// Primary store is Mongo; a failed connection drops the whole service to
	// the local CSV store rather than refusing to accept reviews.
	var store repositories.SubmissionStore
	var genLogs *repositories.GenerationLogRepository
	if err := db.Init(ctx); err != nil {
		logger.Log.Warnf("remote store unavailable, using local CSV store: %v", err)
		store = localstore.New(cfg.Store.LocalFile)
	} else {
		store = repositories.NewSubmissionRepository(db.Database(), cfg.Store.Collection)
		genLogs = repositories.NewGenerationLogRepository(db.Database())
	}
	backup := localstore.New(cfg.Store.BackupFile)

	svc := services.NewSubmissionService(store, backup, enr, genLogs, cfg.GeminiModel)

	r := router.New(svc)
	handler := cors.Default().Handler(r)

	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf(":%d", port)
	logger.Log.Infof("review-desk api listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
