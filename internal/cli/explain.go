package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/report"
)

// movelens explain
func (a *app) explainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <game-id>",
		Short: "Build a prompt asking a language model to explain a game's worst moves",
		Long: heredoc.Doc(`explain picks the largest mistakes of an analyzed game and
			writes a prompt asking for a short explanation of each one.
			The prompt is printed and saved next to the other reports.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("worst")
			return a.withEnv(cmd, OpenOptions{}, func(env *Env) error {
				bad, err := env.Results.WorstPlies(cmd.Context(), args[0], n)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(bad) == 0 {
					fmt.Fprintf(out, "no mistakes found in %s\n", args[0])
					return nil
				}

				prompt := report.ExplainPrompt(bad)
				path, err := env.Reports.WritePrompt(args[0], prompt)
				if err != nil {
					return err
				}
				logger.Default().Info("prompt written to %s", path)
				fmt.Fprintln(out, prompt)
				return nil
			})
		},
	}
	cmd.Flags().IntP("worst", "n", 5, "Number of moves to explain")
	return cmd
}
