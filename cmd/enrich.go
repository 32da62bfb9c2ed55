package cmd

import (
	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <file>",
	Short: "Re-enrich an existing recommendations file",
	Long: `Read a {"recommendations": [...]} document, enrich every item again and
write the result to the configured output path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()
		app := newApp(ctx, cfg)
		defer app.Close()

		summary, err := app.orchestrator.EnrichDocument(ctx, args[0])
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}
