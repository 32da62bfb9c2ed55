package model

import (
	"bytes"
	"encoding/json"
)

// Keys written by the enricher. They replace same-named keys of the
// original item when an item is enriched again.
const (
	KeyAudioFeatures = "audio_features"
	KeyMetadata      = "metadata"
	KeyDataSources   = "data_sources"
)

// Recommendation is one item produced by the recommendation prompt. It
// keeps every field of the source object, in source order, so that an
// item can be written back out unchanged.
type Recommendation struct {
	Object
}

// NewRecommendation builds a recommendation with only artist and title.
func NewRecommendation(artist, title string) Recommendation {
	var r Recommendation
	_ = r.Set("title", title)
	_ = r.Set("artist", artist)
	return r
}

func (r Recommendation) Title() string  { return r.Field("title") }
func (r Recommendation) Artist() string { return r.Field("artist") }

// Query returns the artist/title pair used for lookups.
func (r Recommendation) Query() TrackQuery {
	return TrackQuery{Artist: r.Artist(), Title: r.Title()}
}

// EnrichedRecommendation is an original recommendation plus, when
// enrichment succeeded, the merged audio features and metadata.
type EnrichedRecommendation struct {
	Recommendation
	Enrichment *Enrichment
}

var enrichmentKeys = map[string]bool{
	KeyAudioFeatures: true,
	KeyMetadata:      true,
	KeyDataSources:   true,
}

// MarshalJSON emits the original item unchanged when Enrichment is nil.
func (e EnrichedRecommendation) MarshalJSON() ([]byte, error) {
	if e.Enrichment == nil {
		return e.Recommendation.MarshalJSON()
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	n, err := e.Recommendation.writeFields(&buf, enrichmentKeys)
	if err != nil {
		return nil, err
	}

	features := []byte("{}")
	if e.Enrichment.AudioFeatures != nil {
		if features, err = json.Marshal(e.Enrichment.AudioFeatures); err != nil {
			return nil, err
		}
	}
	metadata := e.Enrichment.Metadata
	if metadata.Genres == nil {
		metadata.Genres = []string{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	sources := e.Enrichment.DataSources
	if sources == nil {
		sources = []string{}
	}
	src, err := json.Marshal(sources)
	if err != nil {
		return nil, err
	}

	for _, member := range []struct {
		key   string
		value []byte
	}{
		{KeyAudioFeatures, features},
		{KeyMetadata, meta},
		{KeyDataSources, src},
	} {
		if err := writeMember(&buf, n, member.key, member.value); err != nil {
			return nil, err
		}
		n++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecommendationDocument is the file written at the end of a run.
type RecommendationDocument struct {
	Recommendations []EnrichedRecommendation `json:"recommendations"`
}

// GeneratedRecommendations is the document expected from the model. A
// missing or null list decodes to nil; an empty list decodes to an empty
// non-nil slice.
type GeneratedRecommendations struct {
	Recommendations []Recommendation `json:"recommendations"`
}
