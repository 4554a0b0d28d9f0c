// Package cli implements the movelens command line.
package cli

import (
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/vytor/movelens/internal/config"
	"github.com/vytor/movelens/internal/logger"
)

const spinCharset = 14

type app struct {
	open Opener
	cfg  config.Config
}

// Root is the movelens command backed by the real store and engines.
func Root() *cobra.Command {
	return NewRoot(OpenEnv)
}

// NewRoot builds the command tree around open.
func NewRoot(open Opener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:   "movelens",
		Short: "Find the moves that lost your chess games",
		Long: heredoc.Doc(`movelens replays chess games through a UCI engine, measures
			how much evaluation every move gave away and classifies the
			worst ones as inaccuracies, mistakes and blunders.

			Games come from Lichess or from PGN files. Results are stored
			in SQLite and written as text reports, CSV series and square
			heatmaps under the report directory.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if v, _ := cmd.Flags().GetString("db"); v != "" {
				a.cfg.DBPath = v
			}
			if v, _ := cmd.Flags().GetString("reports"); v != "" {
				a.cfg.ReportDir = v
			}

			level := logger.ParseLevel(a.cfg.LogLevel)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = logger.DEBUG
			}
			logger.SetDefault(logger.New(
				logger.WithLevel(level),
				logger.WithOutput(cmd.ErrOrStderr()),
			))
			return nil
		},
	}

	// global flags
	root.PersistentFlags().String("db", "", "SQLite database path (default $DB_PATH)")
	root.PersistentFlags().String("reports", "", "Directory reports are written to (default $REPORT_DIR)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Show debug logging")

	root.AddCommand(a.analyzeCmd())
	root.AddCommand(a.reportCmd())
	root.AddCommand(a.explainCmd())

	return root
}

// withEnv opens an env for the duration of fn.
func (a *app) withEnv(cmd *cobra.Command, opts OpenOptions, fn func(*Env) error) error {
	env, err := a.open(cmd.Context(), a.cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if env.Close == nil {
			return
		}
		if err := env.Close(); err != nil {
			logger.Default().Warn("failed to close: %v", err)
		}
	}()
	return fn(env)
}

func newSpinner(cmd *cobra.Command, suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[spinCharset], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = suffix
	return s
}
