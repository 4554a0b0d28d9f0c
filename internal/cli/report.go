package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/report"
)

// movelens report
func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [--game id]",
		Short: "Write reports for games already analyzed",
		Long: heredoc.Doc(`report rewrites the report files from the store without
			running the engine again.

			With --game only that game's report and loss series are
			written. Otherwise every stored game matching the filters
			is reported along with the summary, the blunder ranking
			and the square heatmaps.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, _ := cmd.Flags().GetString("game")
			player, _ := cmd.Flags().GetString("player")
			runID, _ := cmd.Flags().GetString("run")
			topN, _ := cmd.Flags().GetInt("top")
			if topN <= 0 {
				topN = a.cfg.TopN
			}

			return a.withEnv(cmd, OpenOptions{}, func(env *Env) error {
				if gameID != "" {
					return gameReport(cmd, env, gameID)
				}
				return aggregateReport(cmd, env, models.ResultFilter{Player: player, RunID: runID}, topN)
			})
		},
	}
	cmd.Flags().String("game", "", "Report a single game")
	cmd.Flags().String("player", "", "Only games this player took part in")
	cmd.Flags().String("run", "", "Only games analyzed by this run")
	cmd.Flags().Int("top", 0, "Length of the blunder ranking (default $TOP_N)")
	return cmd
}

func gameReport(cmd *cobra.Command, env *Env, gameID string) error {
	res, err := env.Results.GetResult(cmd.Context(), gameID)
	if err != nil {
		return err
	}
	written, err := env.Reports.WriteGames([]models.GameResult{*res})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.WriteGame(out, *res); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d files written to %s\n", len(written), env.Reports.Dir())
	return nil
}

func aggregateReport(cmd *cobra.Command, env *Env, filter models.ResultFilter, topN int) error {
	ctx := cmd.Context()

	games, _, err := env.Results.ListResults(ctx, filter)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		return fmt.Errorf("no analyzed games match")
	}
	summary, err := env.Results.Summary(ctx, filter, topN)
	if err != nil {
		return err
	}
	grid, err := env.Results.Heatmap(ctx, filter)
	if err != nil {
		return err
	}

	written, err := env.Reports.WriteGames(games)
	if err != nil {
		return err
	}
	aggregate, err := env.Reports.WriteAggregate(summary, grid)
	if err != nil {
		return err
	}
	written = append(written, aggregate...)

	out := cmd.OutOrStdout()
	if err := writeOverview(out, summary); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d files written to %s\n", len(written), env.Reports.Dir())
	return nil
}
