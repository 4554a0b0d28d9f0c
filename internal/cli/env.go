package cli

import (
	"context"

	"github.com/vytor/movelens/internal/config"
	"github.com/vytor/movelens/internal/db"
	"github.com/vytor/movelens/internal/engine"
	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/report"
	"github.com/vytor/movelens/internal/repository/sqlite"
	"github.com/vytor/movelens/internal/services"
)

// Env is what a command works against. Analysis is nil unless the env was
// opened with engines.
type Env struct {
	Analysis services.AnalysisService
	Results  services.ResultService
	Import   services.ImportService
	Reports  *report.Writer
	Close    func() error
}

// OpenOptions says which parts of the env a command needs.
type OpenOptions struct {
	Engines   bool
	Reanalyze bool
}

// Opener builds an Env from configuration.
type Opener func(ctx context.Context, cfg config.Config, opts OpenOptions) (*Env, error)

// OpenEnv opens the store, and the engine pool when asked to.
func OpenEnv(ctx context.Context, cfg config.Config, opts OpenOptions) (*Env, error) {
	if !opts.Engines {
		cfg.StockfishPath = ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	resultRepo := sqlite.NewResultRepository(database.DB)
	runRepo := sqlite.NewRunRepository(database.DB)
	env := &Env{
		Results: services.NewResultService(resultRepo, runRepo),
		Import:  services.NewImportService(lichess.New(cfg.LichessBaseURL, cfg.LichessAPIToken), nil, cfg.MaxGames, cfg.PerfType),
		Reports: report.NewWriter(cfg.ReportDir),
		Close:   database.Close,
	}
	if !opts.Engines {
		return env, nil
	}

	analysisCfg, err := services.NewAnalysisConfig(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}
	analysisCfg.Reanalyze = opts.Reanalyze

	pool, err := engine.NewPool(ctx, cfg.AnalysisWorkerCount, engine.Opener(engine.Options{
		Path:    cfg.StockfishPath,
		Depth:   cfg.StockfishDepth,
		Threads: cfg.StockfishThreads,
		HashMB:  cfg.StockfishHashMB,
		Timeout: cfg.StockfishTimeout,
	}))
	if err != nil {
		database.Close()
		return nil, err
	}

	env.Analysis = services.NewAnalysisService(pool, resultRepo, runRepo, analysisCfg)
	env.Close = func() error {
		pool.Close()
		return database.Close()
	}
	return env, nil
}
