package cmd

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"LyricRec/config"
	"LyricRec/core/agent"
	"LyricRec/core/enrich"
	"LyricRec/core/lastfm"
	"LyricRec/core/pipeline"
	"LyricRec/core/plugin"
	"LyricRec/db"
	"LyricRec/logger"
	"LyricRec/repository"
	"LyricRec/storage"
)

// app holds everything a command needs and what must be closed after.
type app struct {
	orchestrator *pipeline.Orchestrator
	redisClient  *redis.Client
	gormDB       *gorm.DB
}

func newApp(ctx context.Context, c *config.Config) *app {
	lfm := lastfm.NewClient(c.LastfmAPIKey)
	lfm.SetBaseURL(c.LastfmBaseURL)
	lfm.SetTimeout(c.LastfmTimeout())

	chat := agent.NewChatClient(agent.Config{
		APIBaseURL: c.OpenAIBaseURL,
		APIKey:     c.OpenAIAPIKey,
		Model:      c.OpenAIModel,
		Timeout:    c.OpenAITimeout(),
	})
	synth := agent.NewSynthesizer(chat, agent.CompletionOptions{
		Temperature: c.Settings.Synthesis.Temperature,
		MaxTokens:   c.Settings.Synthesis.MaxTokens,
	})
	recommender := agent.NewRecommender(chat, agent.CompletionOptions{
		Temperature: c.Settings.Recommendation.Temperature,
		MaxTokens:   c.Settings.Recommendation.MaxTokens,
	})
	enricher := enrich.NewEnricher(plugin.NewLastfmPlugin(lfm), synth, c.Settings.Pace())

	a := &app{}
	exports := a.exports(ctx, c)

	a.orchestrator = pipeline.NewOrchestrator(recommender, enricher, pipeline.Options{
		Profile: c.Profile,
		Output:  storage.NewFileSink(c.OutputPath, c.Settings.Output.Indent),
		Exports: exports,
	})

	logger.Info("[lyricrec] pipeline ready",
		logger.String("model", chat.Model()),
		logger.String("output", c.OutputPath),
		logger.Int("exports", len(exports)))
	return a
}

// exports builds the optional sinks. A sink whose backend cannot be
// reached is skipped with a warning.
func (a *app) exports(ctx context.Context, c *config.Config) []storage.Sink {
	var sinks []storage.Sink

	if c.MinioEnabled() {
		client, err := storage.NewMinioClient(c)
		if err != nil {
			logger.Warn("[lyricrec] MinIO export disabled", logger.ErrorField(err))
		} else {
			sinks = append(sinks, storage.NewMinioSink(client, c.MinioBucket, c.MinioRegion, c.Settings.Minio.ObjectPrefix))
		}
	}

	if c.RedisEnabled() {
		client, err := db.ConnectRedis(ctx, c)
		if err != nil {
			logger.Warn("[lyricrec] Redis export disabled", logger.ErrorField(err))
		} else {
			a.redisClient = client
			sinks = append(sinks, storage.NewRedisSink(client, c.Settings.Redis.KeyPrefix, c.Settings.Redis.Channel, c.Settings.RedisTTL()))
		}
	}

	if c.ArchiveEnabled() {
		gdb, err := db.OpenGorm(c)
		if err != nil {
			logger.Warn("[lyricrec] MySQL archive disabled", logger.ErrorField(err))
		} else {
			a.gormDB = gdb
			repo := repository.NewGormRecommendationRepository(gdb)
			sinks = append(sinks, storage.NewArchiveSink(repo, c.Settings.Archive.AutoMigrate))
		}
	}
	return sinks
}

// Close releases connections opened for the exports.
func (a *app) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logger.Warn("[lyricrec] closing Redis", logger.ErrorField(err))
		}
	}
	if err := db.CloseGorm(a.gormDB); err != nil {
		logger.Warn("[lyricrec] closing MySQL", logger.ErrorField(err))
	}
}
