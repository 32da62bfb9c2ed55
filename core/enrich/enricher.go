// Package enrich merges Last.fm metadata and synthesized audio features
// into recommendation items.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"LyricRec/core/features"
	"LyricRec/core/plugin"
	"LyricRec/logger"
	"LyricRec/model"
)

// DefaultPace is the delay applied after every item.
const DefaultPace = 500 * time.Millisecond

// genrePreview is how many genres are echoed in the progress log.
const genrePreview = 3

var errMissingIdentity = errors.New("enrich: item has no title or artist")

// FeatureSynthesizer estimates an audio feature record. A nil record with
// a nil error means no data was produced.
type FeatureSynthesizer interface {
	Synthesize(ctx context.Context, artist, title string, hints model.NormalizedFeatures) (*model.AudioFeatureRecord, error)
}

// Enricher processes recommendations one at a time.
type Enricher struct {
	metadata plugin.MetadataPlugin
	synth    FeatureSynthesizer
	pace     time.Duration
}

// NewEnricher 创建推荐增强器；pace 为每条处理后的固定等待时间
func NewEnricher(metadata plugin.MetadataPlugin, synth FeatureSynthesizer, pace time.Duration) *Enricher {
	if pace < 0 {
		pace = 0
	}
	return &Enricher{metadata: metadata, synth: synth, pace: pace}
}

// Enrich returns one output item per input item, in order. An item whose
// processing fails is emitted unchanged. The batch stops only when ctx is
// done, in which case the items finished so far are returned with the
// context error.
func (e *Enricher) Enrich(ctx context.Context, recs []model.Recommendation) ([]model.EnrichedRecommendation, error) {
	out := make([]model.EnrichedRecommendation, 0, len(recs))
	total := len(recs)

	logger.Info("[Enricher] enhancing recommendations with Last.fm + ChatGPT", logger.Int("count", total))

	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		progress := fmt.Sprintf("[%d/%d]", i+1, total)

		enrichment, err := e.enrichItem(ctx, rec)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			logger.Warn("[Enricher] "+progress+" error processing item, keeping original",
				logger.String("title", rec.Title()),
				logger.ErrorField(err))
			out = append(out, model.EnrichedRecommendation{Recommendation: rec})
		} else {
			out = append(out, model.EnrichedRecommendation{Recommendation: rec, Enrichment: enrichment})
		}

		if err := sleepWithContext(ctx, e.pace); err != nil {
			return out, err
		}
	}

	logger.Info("[Enricher] enhancement complete", logger.Int("processed", len(out)))
	return out, nil
}

// enrichItem converts a panic inside one item into an item error.
func (e *Enricher) enrichItem(ctx context.Context, rec model.Recommendation) (enrichment *model.Enrichment, err error) {
	defer func() {
		if r := recover(); r != nil {
			enrichment = nil
			err = fmt.Errorf("enrich: panic: %v", r)
		}
	}()

	if !rec.Has("title") || !rec.Has("artist") {
		return nil, errMissingIdentity
	}
	return e.Analyze(ctx, rec.Query())
}

// Analyze runs the per-track pipeline: metadata lookup, normalization,
// then feature synthesis.
func (e *Enricher) Analyze(ctx context.Context, query model.TrackQuery) (*model.Enrichment, error) {
	logger.Info("[Enricher] analyzing",
		logger.String("title", query.Title),
		logger.String("artist", query.Artist))

	md := e.metadata.Lookup(ctx, query)
	hints := features.Normalize(md.Track, md.Artist)
	if len(hints.Genres) > 0 {
		preview := hints.Genres
		if len(preview) > genrePreview {
			preview = preview[:genrePreview]
		}
		logger.Info("[Enricher] genres", logger.String("genres", strings.Join(preview, ", ")))
	}

	record, err := e.synth.Synthesize(ctx, query.Artist, query.Title, hints)
	if err != nil {
		return nil, err
	}

	sources := make([]string, 0, 2)
	if hints.Matched {
		sources = append(sources, e.metadata.GetSource())
	}
	if record != nil {
		sources = append(sources, model.SourceChatGPT)
	}

	logger.Info("[Enricher] analysis complete",
		logger.String("title", query.Title),
		logger.Strings("sources", sources))

	return &model.Enrichment{
		AudioFeatures: record,
		Metadata:      hints,
		DataSources:   sources,
	}, nil
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
