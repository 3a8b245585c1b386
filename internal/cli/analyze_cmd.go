package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andreicstoica/refract/internal/cli/formatter"
	"github.com/andreicstoica/refract/internal/embedding"
	"github.com/andreicstoica/refract/internal/service"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run theme analysis over a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			res, err := app.Analysis.Run(cmd.Context(), string(data))
			if errors.Is(err, service.ErrNoSentences) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to analyze")
				return nil
			}
			if errors.Is(err, embedding.ErrNoCredential) {
				fmt.Fprintln(cmd.OutOrStdout(), "theme analysis is disabled: set OPENAI_API_KEY to enable it")
				return nil
			}
			if err != nil {
				return err
			}

			out := formatter.FormatAnalysis(string(data), res.Themes, res.Ranges, app.useColor())
			fmt.Fprint(cmd.OutOrStdout(), out)
			if res.Usage.Tokens > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d embedding tokens ($%.6f)\n", res.Usage.Tokens, res.Usage.Cost)
			}
			return nil
		},
	}
}
