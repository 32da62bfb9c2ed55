package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"LyricRec/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the default settings file",
	Long:  `Print the built-in tuning defaults as TOML. Save the output, edit it and point SETTINGS_PATH at it to override.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), config.SampleSettings())
		return err
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}
