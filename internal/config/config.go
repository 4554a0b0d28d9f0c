package config

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Oracle failure policies accepted by ORACLE_FAILURE_POLICY.
const (
	PolicyAbort   = "abort"
	PolicyNeutral = "neutral"
)

type Config struct {
	Addr                string
	DBPath              string
	StockfishPath       string
	StockfishDepth      int
	StockfishThreads    int
	StockfishHashMB     int
	StockfishTimeout    time.Duration
	LogLevel            string
	AnalysisWorkerCount int
	AnalysisQueueSize   int
	ImportWorkerCount   int
	ImportQueueSize     int
	LichessBaseURL      string
	LichessAPIToken     string
	MaxGames            int
	PerfType            string
	TopN                int
	OracleFailurePolicy string
	ReportDir           string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", defaultDBPath()),
		StockfishPath:       envOr("STOCKFISH_PATH", "stockfish"),
		StockfishDepth:      envIntOr("STOCKFISH_DEPTH", 15),
		StockfishThreads:    envIntOr("STOCKFISH_THREADS", 1),
		StockfishHashMB:     envIntOr("STOCKFISH_HASH_MB", 64),
		StockfishTimeout:    envDurationOr("STOCKFISH_TIMEOUT", 30*time.Second),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		AnalysisWorkerCount: envIntOr("ANALYSIS_WORKER_COUNT", 2),
		AnalysisQueueSize:   envIntOr("ANALYSIS_QUEUE_SIZE", 64),
		ImportWorkerCount:   envIntOr("IMPORT_WORKER_COUNT", 1),
		ImportQueueSize:     envIntOr("IMPORT_QUEUE_SIZE", 16),
		LichessBaseURL:      envOr("LICHESS_BASE_URL", "https://lichess.org"),
		LichessAPIToken:     os.Getenv("LICHESS_API_TOKEN"),
		MaxGames:            envIntOr("MAX_GAMES", 20),
		PerfType:            envOr("PERF_TYPE", "blitz,rapid,classical"),
		TopN:                envIntOr("TOP_N", 10),
		OracleFailurePolicy: strings.ToLower(envOr("ORACLE_FAILURE_POLICY", PolicyAbort)),
		ReportDir:           envOr("REPORT_DIR", "reports"),
	}
}

// defaultDBPath places the database under the XDG data home, falling back to
// the working directory when that cannot be created.
func defaultDBPath() string {
	p, err := xdg.DataFile(filepath.Join("movelens", "movelens.db"))
	if err != nil {
		return "file:movelens.db"
	}
	return "file:" + p
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.StockfishPath != "" {
		if _, err := exec.LookPath(c.StockfishPath); err != nil {
			problems = append(problems, fmt.Sprintf("STOCKFISH_PATH %q not found: %v", c.StockfishPath, err))
		}
	}
	if c.StockfishDepth < 1 || c.StockfishDepth > 30 {
		problems = append(problems, fmt.Sprintf("STOCKFISH_DEPTH must be between 1 and 30, got %d", c.StockfishDepth))
	}
	if c.StockfishThreads < 1 {
		problems = append(problems, fmt.Sprintf("STOCKFISH_THREADS must be positive, got %d", c.StockfishThreads))
	}
	if c.StockfishHashMB < 1 {
		problems = append(problems, fmt.Sprintf("STOCKFISH_HASH_MB must be positive, got %d", c.StockfishHashMB))
	}
	if c.StockfishTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("STOCKFISH_TIMEOUT must be positive, got %s", c.StockfishTimeout))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.AnalysisWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("ANALYSIS_WORKER_COUNT must be positive, got %d", c.AnalysisWorkerCount))
	}
	if c.AnalysisQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("ANALYSIS_QUEUE_SIZE must be positive, got %d", c.AnalysisQueueSize))
	}
	if c.ImportWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("IMPORT_WORKER_COUNT must be positive, got %d", c.ImportWorkerCount))
	}
	if c.ImportQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("IMPORT_QUEUE_SIZE must be positive, got %d", c.ImportQueueSize))
	}
	if c.LichessBaseURL == "" {
		problems = append(problems, "LICHESS_BASE_URL cannot be empty")
	}
	if c.MaxGames < 1 {
		problems = append(problems, fmt.Sprintf("MAX_GAMES must be positive, got %d", c.MaxGames))
	}
	if c.TopN < 0 {
		problems = append(problems, fmt.Sprintf("TOP_N cannot be negative, got %d", c.TopN))
	}
	if c.OracleFailurePolicy != PolicyAbort && c.OracleFailurePolicy != PolicyNeutral {
		problems = append(problems, fmt.Sprintf("ORACLE_FAILURE_POLICY must be %q or %q, got %q", PolicyAbort, PolicyNeutral, c.OracleFailurePolicy))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
