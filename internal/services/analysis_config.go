package services

import (
	"github.com/vytor/movelens/internal/analysis"
	"github.com/vytor/movelens/internal/config"
)

// AnalysisConfig holds configuration for game analysis
type AnalysisConfig struct {
	FailurePolicy analysis.FailurePolicy
	TopN          int  // blunders listed in a batch summary, 0 = all
	Reanalyze     bool // evaluate games again even when a stored result exists
}

// NewAnalysisConfig derives the analysis settings from the application config.
func NewAnalysisConfig(cfg config.Config) (AnalysisConfig, error) {
	policy, err := analysis.ParseFailurePolicy(cfg.OracleFailurePolicy)
	if err != nil {
		return AnalysisConfig{}, err
	}
	return AnalysisConfig{FailurePolicy: policy, TopN: cfg.TopN}, nil
}
