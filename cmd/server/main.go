package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/movelens/internal/api"
	"github.com/vytor/movelens/internal/config"
	"github.com/vytor/movelens/internal/db"
	"github.com/vytor/movelens/internal/engine"
	"github.com/vytor/movelens/internal/jobs"
	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/repository/sqlite"
	"github.com/vytor/movelens/internal/services"
	"github.com/vytor/movelens/internal/worker"
)

const maxBodyBytes = 8 << 20

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MoveLens Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("stockfish_path=%s", cfg.StockfishPath)
	log.Debug("stockfish_depth=%d", cfg.StockfishDepth)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("analysis_worker_count=%d", cfg.AnalysisWorkerCount)
	log.Debug("analysis_queue_size=%d", cfg.AnalysisQueueSize)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("max_games=%d", cfg.MaxGames)
	log.Debug("oracle_failure_policy=%s", cfg.OracleFailurePolicy)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One engine process per analysis worker
	engines, err := engine.NewPool(ctx, cfg.AnalysisWorkerCount, engine.Opener(engine.Options{
		Path:    cfg.StockfishPath,
		Depth:   cfg.StockfishDepth,
		Threads: cfg.StockfishThreads,
		HashMB:  cfg.StockfishHashMB,
		Timeout: cfg.StockfishTimeout,
	}))
	if err != nil {
		log.Error("failed to start engines: %v", err)
		os.Exit(1)
	}
	defer engines.Close()

	analysisCfg, err := services.NewAnalysisConfig(cfg)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	client := lichess.New(cfg.LichessBaseURL, cfg.LichessAPIToken)
	if cfg.LichessAPIToken != "" {
		if acct, err := client.VerifyToken(ctx); err != nil {
			log.Warn("lichess token check failed: %v", err)
		} else {
			log.Info("lichess token valid for %s", acct.Username)
		}
	}

	// Initialize repositories and services
	resultRepo := sqlite.NewResultRepository(database.DB)
	runRepo := sqlite.NewRunRepository(database.DB)

	analysisService := services.NewAnalysisService(engines, resultRepo, runRepo, analysisCfg)
	resultService := services.NewResultService(resultRepo, runRepo)

	// Initialize worker pools
	analysisPool := worker.NewPool("analysis", cfg.AnalysisWorkerCount, cfg.AnalysisQueueSize)
	importPool := worker.NewPool("import", cfg.ImportWorkerCount, cfg.ImportQueueSize)
	queue := jobs.NewWorkerQueue(analysisPool, importPool, analysisService, client)
	importService := services.NewImportService(client, queue, cfg.MaxGames, cfg.PerfType)

	srv := &api.Server{
		AnalysisService: analysisService,
		ResultService:   resultService,
		ImportService:   importService,
		DB:              database,
		Engines:         engines,
		TopN:            cfg.TopN,
		MaxBodyBytes:    maxBodyBytes,
	}

	analysisPool.Start(ctx)
	importPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pools")
	cancel()
	analysisPool.Stop()
	importPool.Stop()

	log.Info("===========================================")
	log.Info("MoveLens Server Stopped")
	log.Info("===========================================")
}
