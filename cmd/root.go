package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"LyricRec/config"
	"LyricRec/logger"
	"LyricRec/storage"
)

// cfg is loaded once per process in PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lyricrec",
	Short: "Lyric-based song recommendations enriched with Last.fm and ChatGPT.",
	Long: `lyricrec asks a chat model for lyric-based recommendations for the configured
user profile, enriches every song with Last.fm metadata and model-estimated
audio features, and writes the result to enhanced_recommendations.json.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runPipeline,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		initLogger(nil)
		return err
	}
	cfg = loaded
	initLogger(cfg)
	if !cfg.EnvFileLoaded {
		logger.Debug("[Config] no .env file found, relying on existing environment variables and defaults")
	}
	return nil
}

func initLogger(c *config.Config) {
	lc := logger.Config{
		Level:      logger.InfoLevel,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
	if c != nil {
		lc.Level = logger.ParseLevel(c.LogLevel)
		lc.OutputPath = c.LogFile
	}
	logger.InitLogger(lc)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()

	app := newApp(ctx, cfg)
	defer app.Close()

	summary, err := app.orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	doc, err := storage.EncodeDocument(summary.Document, cfg.Settings.Output.Indent)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(doc))

	printSummary(cmd.ErrOrStderr(), summary)
	return nil
}

// Execute executes the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("[lyricrec] run failed", logger.ErrorField(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
	logger.Sync()
}
