package model

// Provenance labels written into data_sources.
const (
	SourceLastfm  = "lastfm"
	SourceChatGPT = "chatgpt"
)

// TrackQuery identifies a song by artist and title.
type TrackQuery struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// NormalizedFeatures is the canonical shape of Last.fm metadata.
type NormalizedFeatures struct {
	DurationMs   int64    `json:"duration_ms"`
	Playcount    int64    `json:"playcount"`
	Listeners    int64    `json:"listeners"`
	Genres       []string `json:"genres"`
	Popularity   float64  `json:"popularity"`
	// ArtistGenres is nil when no artist record was available and points
	// to a possibly empty list otherwise.
	ArtistGenres *[]string `json:"artist_genres,omitempty"`

	// Matched is true when a track record was available.
	Matched bool `json:"-"`
}

// Provenance keys the synthesizer writes into every feature record.
const (
	KeyAnalysisSource  = "analysis_source"
	KeyAnalysisVersion = "analysis_version"
)

// AudioFeatureKeys lists the estimates the feature prompt asks for.
var AudioFeatureKeys = []string{
	"danceability", "energy", "valence", "acousticness", "instrumentalness",
	"speechiness", "liveness", "loudness", "tempo", "key", "mode", "time_signature",
}

// AudioFeatureRecord is the object returned by the model, kept as sent:
// members keep their order and JSON type, missing ones stay missing and
// extra ones are carried along. Only the provenance keys are written.
type AudioFeatureRecord struct {
	Object
}

// NonNumeric returns the expected estimates that are missing or are not
// JSON numbers.
func (r AudioFeatureRecord) NonNumeric() []string {
	var out []string
	for _, key := range AudioFeatureKeys {
		if _, ok := r.Number(key); !ok {
			out = append(out, key)
		}
	}
	return out
}

// SetProvenance overwrites analysis_source and analysis_version.
func (r *AudioFeatureRecord) SetProvenance(source, version string) {
	_ = r.Set(KeyAnalysisSource, source)
	_ = r.Set(KeyAnalysisVersion, version)
}

// Enrichment is the data merged into a recommendation.
type Enrichment struct {
	AudioFeatures *AudioFeatureRecord
	Metadata      NormalizedFeatures
	DataSources   []string
}

// HasSource reports whether label is among the data sources.
func (e *Enrichment) HasSource(label string) bool {
	if e == nil {
		return false
	}
	for _, s := range e.DataSources {
		if s == label {
			return true
		}
	}
	return false
}
