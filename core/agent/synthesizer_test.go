package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"LyricRec/model"
)

type stubCompleter struct {
	content  string
	err      error
	calls    int
	messages []model.OpenAIChatMessage
	opts     CompletionOptions
}

func (s *stubCompleter) Complete(ctx context.Context, messages []model.OpenAIChatMessage, opts CompletionOptions) (string, error) {
	s.calls++
	s.messages = messages
	s.opts = opts
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.content, s.err
}

const twelveFields = `{"danceability":0.3,"energy":0.6,"valence":0.2,"acousticness":0.5,` +
	`"instrumentalness":0.0,"speechiness":0.04,"liveness":0.1,"loudness":-8.7,` +
	`"tempo":92,"key":7.0,"mode":1,"time_signature":4,"analysis_source":"model","analysis_version":"9"}`

func synthesize(t *testing.T, content string) *model.AudioFeatureRecord {
	t.Helper()
	rec, err := NewSynthesizer(&stubCompleter{content: content}, FeatureOptions).
		Synthesize(context.Background(), "Johnny Cash", "Hurt", model.NormalizedFeatures{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	return rec
}

func encodeRecord(t *testing.T, rec *model.AudioFeatureRecord) string {
	t.Helper()
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

func TestSynthesizeOverwritesProvenance(t *testing.T) {
	stub := &stubCompleter{content: "```json\n" + twelveFields + "\n```"}
	s := NewSynthesizer(stub, FeatureOptions)

	rec, err := s.Synthesize(context.Background(), "Radiohead", "Creep", model.NormalizedFeatures{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.Field(model.KeyAnalysisSource) != "chatgpt" || rec.Field(model.KeyAnalysisVersion) != "1.0" {
		t.Fatalf("provenance = %q/%q", rec.Field(model.KeyAnalysisSource), rec.Field(model.KeyAnalysisVersion))
	}
	for key, want := range map[string]float64{"key": 7, "tempo": 92, "loudness": -8.7} {
		if got, ok := rec.Number(key); !ok || got != want {
			t.Fatalf("%s = %v (%v), want %v", key, got, ok, want)
		}
	}
	if odd := rec.NonNumeric(); len(odd) != 0 {
		t.Fatalf("NonNumeric = %v", odd)
	}
	if stub.calls != 1 {
		t.Fatalf("calls = %d, want 1", stub.calls)
	}
	if stub.opts.Temperature != 0.2 || stub.opts.MaxTokens != 300 {
		t.Fatalf("opts = %+v", stub.opts)
	}
	if len(stub.messages) != 1 || stub.messages[0].Role != model.RoleUser {
		t.Fatalf("messages = %+v", stub.messages)
	}
}

func TestSynthesizePassesRecordThrough(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		odd     []string
	}{
		{
			name:    "out of range values",
			content: `{"danceability":3.5,"tempo":999,"key":42}`,
			want:    `{"danceability":3.5,"tempo":999,"key":42,"analysis_source":"chatgpt","analysis_version":"1.0"}`,
		},
		{
			name:    "string valued field",
			content: `{"danceability":0.3,"energy":0.2,"key":"A minor","mode":"minor"}`,
			want:    `{"danceability":0.3,"energy":0.2,"key":"A minor","mode":"minor","analysis_source":"chatgpt","analysis_version":"1.0"}`,
			odd:     []string{"key", "mode"},
		},
		{
			name:    "missing fields stay missing",
			content: `{"danceability":0.3,"energy":0.2}`,
			want:    `{"danceability":0.3,"energy":0.2,"analysis_source":"chatgpt","analysis_version":"1.0"}`,
		},
		{
			name:    "extra keys are kept",
			content: `{"energy":0.2,"genre":"country","notes":{"mood":"bleak"}}`,
			want:    `{"energy":0.2,"genre":"country","notes":{"mood":"bleak"},"analysis_source":"chatgpt","analysis_version":"1.0"}`,
		},
		{
			name:    "provenance keeps its position",
			content: `{"analysis_source":"model","energy":0.2}`,
			want:    `{"analysis_source":"chatgpt","energy":0.2,"analysis_version":"1.0"}`,
		},
		{
			name:    "empty object",
			content: `{}`,
			want:    `{"analysis_source":"chatgpt","analysis_version":"1.0"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := synthesize(t, tt.content)
			if got := encodeRecord(t, rec); got != tt.want {
				t.Fatalf("record = %s\nwant     %s", got, tt.want)
			}
			if tt.odd != nil {
				odd := map[string]bool{}
				for _, key := range rec.NonNumeric() {
					odd[key] = true
				}
				for _, key := range tt.odd {
					if !odd[key] {
						t.Errorf("NonNumeric should report %q, got %v", key, rec.NonNumeric())
					}
				}
			}
		})
	}
}

func TestSynthesizeRejectsNonObjects(t *testing.T) {
	for _, content := range []string{`[1,2,3]`, `null`, `"energy"`, `42`} {
		t.Run(content, func(t *testing.T) {
			rec, err := NewSynthesizer(&stubCompleter{content: content}, FeatureOptions).
				Synthesize(context.Background(), "a", "b", model.NormalizedFeatures{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec != nil {
				t.Fatalf("expected nil record, got %s", encodeRecord(t, rec))
			}
		})
	}
}

func TestSynthesizeFailuresYieldNil(t *testing.T) {
	tests := []struct {
		name string
		stub *stubCompleter
	}{
		{"malformed json", &stubCompleter{content: "```json\n{\"energy\": \n```"}},
		{"prose", &stubCompleter{content: "Sorry, I don't know this song."}},
		{"transport", &stubCompleter{err: errors.New("connection refused")}},
		{"empty completion", &stubCompleter{err: ErrEmptyCompletion}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewSynthesizer(tt.stub, FeatureOptions).Synthesize(context.Background(), "a", "b", model.NormalizedFeatures{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec != nil {
				t.Fatalf("expected nil record, got %s", encodeRecord(t, rec))
			}
			if tt.stub.calls != 1 {
				t.Fatalf("calls = %d, want exactly one attempt", tt.stub.calls)
			}
		})
	}
}

func TestSynthesizeReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := NewSynthesizer(&stubCompleter{content: twelveFields}, FeatureOptions).Synthesize(ctx, "a", "b", model.NormalizedFeatures{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %s", encodeRecord(t, rec))
	}
}

func TestFeatureHints(t *testing.T) {
	tests := []struct {
		name  string
		hints model.NormalizedFeatures
		want  string
	}{
		{"none", model.NormalizedFeatures{}, ""},
		{"genres", model.NormalizedFeatures{Genres: []string{"rock", "grunge"}}, "Genres: rock, grunge. "},
		{"duration", model.NormalizedFeatures{DurationMs: 238000}, "Duration: 3:58. "},
		{"short duration", model.NormalizedFeatures{DurationMs: 65999}, "Duration: 1:05. "},
		{"at threshold", model.NormalizedFeatures{Popularity: 0.5}, ""},
		{"popular", model.NormalizedFeatures{Popularity: 0.75}, "This is a popular/well-known song. "},
		{
			"all",
			model.NormalizedFeatures{Genres: []string{"rock"}, DurationMs: 180000, Popularity: 0.9},
			"Genres: rock. Duration: 3:00. This is a popular/well-known song. ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FeatureHints(tt.hints); got != tt.want {
				t.Fatalf("FeatureHints = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFeaturePrompt(t *testing.T) {
	prompt := BuildFeaturePrompt("Johnny Cash", "Hurt", model.NormalizedFeatures{Genres: []string{"country"}})
	for _, want := range []string{
		`Analyze the song "Hurt" by Johnny Cash`,
		"Genres: country. ",
		`"time_signature": 4`,
		"Respond ONLY with valid JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
