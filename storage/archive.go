package storage

import (
	"context"
	"fmt"
	"time"

	"LyricRec/logger"
	"LyricRec/model"
	"LyricRec/repository"
)

// ArchiveSink persists a run and one row per recommendation.
type ArchiveSink struct {
	repo     repository.RecommendationRepository
	migrate  bool
	migrated bool
	now      func() time.Time
}

// NewArchiveSink 创建 MySQL 归档输出；migrate 为 true 时首次写入前自动建表
func NewArchiveSink(repo repository.RecommendationRepository, migrate bool) *ArchiveSink {
	return &ArchiveSink{repo: repo, migrate: migrate, now: time.Now}
}

func (s *ArchiveSink) Name() string { return "archive" }

func (s *ArchiveSink) Write(ctx context.Context, runID string, doc *model.RecommendationDocument) error {
	if s.migrate && !s.migrated {
		if err := s.repo.Migrate(ctx); err != nil {
			return err
		}
		s.migrated = true
	}

	run, err := BuildRun(runID, doc, s.now())
	if err != nil {
		return err
	}
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return err
	}

	logger.Info("[ArchiveSink] run archived",
		logger.String("runId", runID),
		logger.Int("tracks", len(run.Tracks)))
	return nil
}

// BuildRun converts a document into its archived rows.
func BuildRun(runID string, doc *model.RecommendationDocument, createdAt time.Time) (*model.RecommendationRun, error) {
	data, err := EncodeDocument(doc, "")
	if err != nil {
		return nil, err
	}

	var items []model.EnrichedRecommendation
	if doc != nil {
		items = doc.Recommendations
	}
	enriched, _ := model.Summarize(items)

	run := &model.RecommendationRun{
		ID:            runID,
		ItemCount:     len(items),
		EnrichedCount: enriched,
		Document:      string(data),
		Tracks:        make([]model.EnrichedTrack, 0, len(items)),
		CreatedAt:     createdAt,
	}
	for i, item := range items {
		track := model.EnrichedTrack{
			RunID:     runID,
			Position:  i,
			Title:     item.Title(),
			Artist:    item.Artist(),
			CreatedAt: createdAt,
		}
		if item.Enrichment != nil {
			track.Enriched = true
			track.Popularity = item.Enrichment.Metadata.Popularity
			track.Genres = model.StringList(item.Enrichment.Metadata.Genres)
			track.DataSources = model.StringList(item.Enrichment.DataSources)
		}
		run.Tracks = append(run.Tracks, track)
	}
	if len(run.ID) > 36 {
		return nil, fmt.Errorf("storage: run id %q too long", runID)
	}
	return run, nil
}
