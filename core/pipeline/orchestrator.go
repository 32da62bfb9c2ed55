// Package pipeline drives a whole run: generate recommendations, enrich
// them, write the document.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"LyricRec/logger"
	"LyricRec/model"
	"LyricRec/storage"
)

// Generator produces the initial recommendation list from a profile.
type Generator interface {
	Generate(ctx context.Context, profile []byte) ([]model.Recommendation, error)
}

// Enricher adds metadata and audio features to recommendations.
type Enricher interface {
	Enrich(ctx context.Context, recs []model.Recommendation) ([]model.EnrichedRecommendation, error)
	Analyze(ctx context.Context, query model.TrackQuery) (*model.Enrichment, error)
}

// Options configures an Orchestrator.
type Options struct {
	Profile []byte
	Output  *storage.FileSink
	Exports []storage.Sink
}

// Orchestrator runs the pipeline once per call.
type Orchestrator struct {
	generator Generator
	enricher  Enricher
	profile   []byte
	output    *storage.FileSink
	exports   []storage.Sink

	newID func() string
	now   func() time.Time
}

// NewOrchestrator 创建流水线编排器
func NewOrchestrator(generator Generator, enricher Enricher, opts Options) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		enricher:  enricher,
		profile:   opts.Profile,
		output:    opts.Output,
		exports:   opts.Exports,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Run generates recommendations for the configured profile, enriches
// them and writes the result. Item failures are absorbed by the
// enricher; any other failure aborts the run.
func (o *Orchestrator) Run(ctx context.Context) (*model.RunSummary, error) {
	runID := o.newID()
	started := o.now()

	logger.Info("[Orchestrator] getting music recommendations", logger.String("runId", runID))
	recs, err := o.generator.Generate(ctx, o.profile)
	if err != nil {
		return nil, fmt.Errorf("pipeline: generate recommendations: %w", err)
	}
	logger.Info("[Orchestrator] got recommendations", logger.Int("count", len(recs)))

	return o.enrichAndWrite(ctx, runID, started, recs)
}

// EnrichDocument re-enriches the recommendations stored at path. Keys a
// previous enrichment added are replaced.
func (o *Orchestrator) EnrichDocument(ctx context.Context, path string) (*model.RunSummary, error) {
	runID := o.newID()
	started := o.now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read %s: %w", path, err)
	}
	var doc model.GeneratedRecommendations
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("pipeline: parse %s: %w", path, err)
	}
	if doc.Recommendations == nil {
		return nil, fmt.Errorf("pipeline: %s has no recommendations array", path)
	}

	logger.Info("[Orchestrator] re-enriching document",
		logger.String("runId", runID),
		logger.String("path", path),
		logger.Int("count", len(doc.Recommendations)))
	return o.enrichAndWrite(ctx, runID, started, doc.Recommendations)
}

// Analyze runs the per-track pipeline for a single song and returns it
// in the same shape as an enriched item.
func (o *Orchestrator) Analyze(ctx context.Context, query model.TrackQuery) (*model.EnrichedRecommendation, error) {
	enrichment, err := o.enricher.Analyze(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pipeline: analyze %q by %s: %w", query.Title, query.Artist, err)
	}

	var rec model.Recommendation
	if err := rec.Set("track_name", query.Title); err != nil {
		return nil, err
	}
	if err := rec.Set("artist_name", query.Artist); err != nil {
		return nil, err
	}
	return &model.EnrichedRecommendation{Recommendation: rec, Enrichment: enrichment}, nil
}

func (o *Orchestrator) enrichAndWrite(ctx context.Context, runID string, started time.Time, recs []model.Recommendation) (*model.RunSummary, error) {
	items, err := o.enricher.Enrich(ctx, recs)
	if err != nil {
		return nil, fmt.Errorf("pipeline: enrich: %w", err)
	}

	doc := &model.RecommendationDocument{Recommendations: items}
	if o.output == nil {
		return nil, errors.New("pipeline: no output configured")
	}
	if err := o.output.Write(ctx, runID, doc); err != nil {
		return nil, fmt.Errorf("pipeline: write output: %w", err)
	}

	enriched, sources := model.Summarize(items)
	summary := &model.RunSummary{
		RunID:        runID,
		StartedAt:    started,
		OutputPath:   o.output.Path(),
		Total:        len(items),
		Enriched:     enriched,
		SourceCounts: sources,
		SinksWritten: []string{o.output.Name()},
		Document:     doc,
	}

	for _, sink := range o.exports {
		if err := sink.Write(ctx, runID, doc); err != nil {
			logger.Warn("[Orchestrator] export failed",
				logger.String("sink", sink.Name()),
				logger.String("runId", runID),
				logger.ErrorField(err))
			summary.SinksFailed = append(summary.SinksFailed, sink.Name())
			continue
		}
		summary.SinksWritten = append(summary.SinksWritten, sink.Name())
	}

	summary.FinishedAt = o.now()
	logger.Info("[Orchestrator] results saved",
		logger.String("runId", runID),
		logger.String("path", summary.OutputPath),
		logger.Int("total", summary.Total),
		logger.Int("enriched", summary.Enriched),
		logger.Duration("elapsed", summary.FinishedAt.Sub(started)))
	return summary, nil
}
