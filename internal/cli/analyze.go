package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/vytor/movelens/internal/analysis"
	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/pgn"
	"github.com/vytor/movelens/internal/report"
)

// movelens analyze
func (a *app) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze { user | game | last | pgn }",
		Short: "Analyze games and write their reports",
		Long: heredoc.Doc(`analyze evaluates every move of the selected games, stores
			the results and writes the per-game and aggregate reports.

			Games already in the store are reused unless --reanalyze
			is given.`),
		Args: cobra.NoArgs,
	}
	cmd.PersistentFlags().Bool("reanalyze", false, "Evaluate games again even when a stored result exists")

	user := &cobra.Command{
		Use:   "user <username>",
		Short: "Analyze a user's most recent Lichess games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("max")
			perf, _ := cmd.Flags().GetString("perf")
			return a.analyzeLichess(cmd, lichess.Request{Username: args[0], Max: n, PerfType: perf})
		},
	}
	user.Flags().Int("max", 0, "Number of games to fetch (default $MAX_GAMES)")
	user.Flags().String("perf", "", "Comma separated speeds, e.g. blitz,rapid (default $PERF_TYPE)")

	game := &cobra.Command{
		Use:   "game <game-id>",
		Short: "Analyze one Lichess game by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyzeLichess(cmd, lichess.Request{GameID: pgn.NormalizeGameID(args[0])})
		},
	}

	last := &cobra.Command{
		Use:   "last <username>",
		Short: "Analyze the last game a Lichess user played",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyzeLichess(cmd, lichess.Request{Username: args[0], LastOnly: true})
		},
	}

	file := &cobra.Command{
		Use:   "pgn <file>",
		Short: "Analyze every game in a PGN file",
		Long: heredoc.Doc(`pgn analyzes every game of a PGN file. Games are named by
			their GameId header or a Lichess URL in Site or Link, or
			game-N by position in the file when they have neither.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			raws := rawGamesFromPGN(string(data))
			if len(raws) == 0 {
				return fmt.Errorf("%s: no games found", args[0])
			}
			return a.withEnv(cmd, a.analysisOptions(cmd), func(env *Env) error {
				return a.runBatch(cmd, env, "pgn:"+filepath.Base(args[0]), raws)
			})
		},
	}

	cmd.AddCommand(user, game, last, file)
	return cmd
}

func (a *app) analysisOptions(cmd *cobra.Command) OpenOptions {
	reanalyze, _ := cmd.Flags().GetBool("reanalyze")
	return OpenOptions{Engines: true, Reanalyze: reanalyze}
}

func (a *app) analyzeLichess(cmd *cobra.Command, req lichess.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return a.withEnv(cmd, a.analysisOptions(cmd), func(env *Env) error {
		s := newSpinner(cmd, " fetching games from Lichess")
		s.Start()
		raws, err := env.Import.Fetch(cmd.Context(), req)
		s.Stop()
		if err != nil {
			return err
		}
		return a.runBatch(cmd, env, req.Source(), raws)
	})
}

// runBatch analyzes raws as one run, writes the reports and prints the
// outcome.
func (a *app) runBatch(cmd *cobra.Command, env *Env, source string, raws []models.RawGame) error {
	log := logger.Default().WithField("source", source)

	s := newSpinner(cmd, fmt.Sprintf(" analyzing %d games", len(raws)))
	s.Start()
	batch, err := env.Analysis.AnalyzeBatch(cmd.Context(), source, raws)
	s.Stop()
	if err != nil {
		return err
	}

	for _, f := range batch.Failures {
		log.Warn("skipped %s: %s", f.GameID, f.Reason)
	}
	if len(batch.Results) == 0 {
		return fmt.Errorf("none of the %d games could be analyzed", len(raws))
	}

	written, err := env.Reports.WriteGames(batch.Results)
	if err != nil {
		return err
	}
	aggregate, err := env.Reports.WriteAggregate(batch.Summary, analysis.BuildHeatmap(batch.Results...))
	if err != nil {
		return err
	}
	written = append(written, aggregate...)

	out := cmd.OutOrStdout()
	if len(batch.Results) == 1 {
		err = report.WriteGame(out, batch.Results[0])
	} else {
		err = writeOverview(out, batch.Summary)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nrun %s: %d analyzed, %d skipped, %d files written to %s\n",
		batch.RunID, len(batch.Results), len(batch.Failures), len(written), env.Reports.Dir())
	return nil
}

func writeOverview(w io.Writer, summary models.GlobalSummary) error {
	if err := report.WriteSummary(w, summary); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return report.WriteTopBlunders(w, summary.TopBlunders)
}

// rawGamesFromPGN splits a PGN document. Games without an id header are
// named game-N by position.
func rawGamesFromPGN(text string) []models.RawGame {
	chunks := pgn.Split(text)
	raws := make([]models.RawGame, 0, len(chunks))
	for i, chunk := range chunks {
		id := pgn.GameID(models.RawGame{PGN: chunk})
		if id == "" {
			id = fmt.Sprintf("game-%d", i+1)
		}
		raws = append(raws, models.RawGame{ID: id, PGN: chunk})
	}
	return raws
}
