package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"LyricRec/config"
	"LyricRec/db"
	"LyricRec/repository"
	"LyricRec/storage"
)

const checkTimeout = 10 * time.Second

type checkResult struct {
	component string
	status    string
	detail    string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and export backends",
	Long:  `Verify API credentials are present and test the connection of every enabled export (MinIO, Redis, MySQL).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		results := runChecks(ctx, cfg)

		rows := make([][]string, 0, len(results))
		failed := 0
		for _, r := range results {
			if r.status == statusFailed {
				failed++
			}
			rows = append(rows, []string{r.component, r.status, r.detail})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderTable(out, []string{"Component", "Status", "Detail"}, rows, nil))

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

const (
	statusOK       = "ok"
	statusFailed   = "failed"
	statusDisabled = "disabled"
)

func runChecks(ctx context.Context, c *config.Config) []checkResult {
	results := []checkResult{checkCredentials(c)}
	results = append(results, checkMinio(ctx, c))
	results = append(results, checkRedis(ctx, c))
	results = append(results, checkArchive(ctx, c))
	return results
}

func checkCredentials(c *config.Config) checkResult {
	if err := c.Validate(); err != nil {
		return checkResult{"credentials", statusFailed, err.Error()}
	}
	return checkResult{"credentials", statusOK, fmt.Sprintf("model %s, output %s", c.OpenAIModel, c.OutputPath)}
}

func checkMinio(ctx context.Context, c *config.Config) checkResult {
	if !c.MinioEnabled() {
		return checkResult{"minio", statusDisabled, "MINIO_ENDPOINT not set"}
	}
	client, err := storage.NewMinioClient(c)
	if err != nil {
		return checkResult{"minio", statusFailed, err.Error()}
	}
	sink := storage.NewMinioSink(client, c.MinioBucket, c.MinioRegion, c.Settings.Minio.ObjectPrefix)
	if err := sink.EnsureBucket(ctx); err != nil {
		return checkResult{"minio", statusFailed, err.Error()}
	}
	stats, err := sink.Stats(ctx)
	if err != nil {
		return checkResult{"minio", statusFailed, err.Error()}
	}
	return checkResult{"minio", statusOK, fmt.Sprintf("bucket %s: %d document(s), %s",
		c.MinioBucket, stats.Objects, storage.FormatSize(stats.TotalSize))}
}

func checkRedis(ctx context.Context, c *config.Config) checkResult {
	if !c.RedisEnabled() {
		return checkResult{"redis", statusDisabled, "REDIS_HOST not set"}
	}
	client, err := db.ConnectRedis(ctx, c)
	if err != nil {
		return checkResult{"redis", statusFailed, err.Error()}
	}
	defer client.Close()

	if err := db.TestRedis(ctx, client); err != nil {
		return checkResult{"redis", statusFailed, err.Error()}
	}
	return checkResult{"redis", statusOK, fmt.Sprintf("%s:%s db %d", c.RedisHost, c.RedisPort, c.RedisDB)}
}

func checkArchive(ctx context.Context, c *config.Config) checkResult {
	if !c.ArchiveEnabled() {
		return checkResult{"mysql", statusDisabled, "DB_HOST not set"}
	}
	gdb, err := db.OpenGorm(c)
	if err != nil {
		return checkResult{"mysql", statusFailed, err.Error()}
	}
	defer db.CloseGorm(gdb)

	repo := repository.NewGormRecommendationRepository(gdb)
	if err := repo.Ping(ctx); err != nil {
		return checkResult{"mysql", statusFailed, err.Error()}
	}
	if c.Settings.Archive.AutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			return checkResult{"mysql", statusFailed, err.Error()}
		}
	}
	return checkResult{"mysql", statusOK, fmt.Sprintf("%s/%s", c.DBHost, c.DBName)}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
