package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"LyricRec/model"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <artist> <title>",
	Short: "Analyze a single song",
	Long:  `Fetch Last.fm metadata for one song, estimate its audio features and print the combined record.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		query := model.TrackQuery{
			Artist: strings.TrimSpace(args[0]),
			Title:  strings.TrimSpace(args[1]),
		}
		if query.Artist == "" || query.Title == "" {
			return fmt.Errorf("artist and title must not be empty")
		}

		ctx := cmd.Context()
		app := newApp(ctx, cfg)
		defer app.Close()

		item, err := app.orchestrator.Analyze(ctx, query)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(item, "", cfg.Settings.Output.Indent)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
