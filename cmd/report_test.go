package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"LyricRec/config"
	"LyricRec/model"
)

func summaryFixture(t *testing.T) *model.RunSummary {
	t.Helper()
	var recs model.GeneratedRecommendations
	if err := json.Unmarshal([]byte(`{"recommendations":[{"title":"Hurt","artist":"Johnny Cash"},{"title":"Creep","artist":"Radiohead"}]}`), &recs); err != nil {
		t.Fatal(err)
	}
	doc := &model.RecommendationDocument{Recommendations: []model.EnrichedRecommendation{
		{
			Recommendation: recs.Recommendations[0],
			Enrichment: &model.Enrichment{
				Metadata:    model.NormalizedFeatures{Matched: true, Genres: []string{"country", "cover"}, Popularity: 0.756},
				DataSources: []string{"lastfm", "chatgpt"},
			},
		},
		{Recommendation: recs.Recommendations[1]},
	}}
	start := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	return &model.RunSummary{
		RunID:        "run-1",
		StartedAt:    start,
		FinishedAt:   start.Add(1500 * time.Millisecond),
		OutputPath:   "enhanced_recommendations.json",
		Total:        2,
		Enriched:     1,
		SourceCounts: map[string]int{"lastfm": 1, "chatgpt": 1},
		SinksWritten: []string{"file"},
		SinksFailed:  []string{"redis"},
		Document:     doc,
	}
}

func TestTrackRows(t *testing.T) {
	rows := trackRows(summaryFixture(t).Document)
	want := [][]string{
		{"1", "Hurt", "Johnny Cash", "country, cover", "0.76", "lastfm, chatgpt"},
		{"2", "Creep", "Radiohead", "-", "-", "-"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %v\nwant %v", rows, want)
	}
	if trackRows(nil) != nil {
		t.Fatal("nil document should give no rows")
	}
}

func TestPrintSummaryPlainStyle(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, summaryFixture(t))
	out := buf.String()

	for _, want := range []string{
		"Johnny Cash",
		"chatgpt=1, lastfm=1",
		"Failed exports",
		"1.5s",
		"Results saved to 'enhanced_recommendations.json'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "╭") {
		t.Fatal("non-terminal output should not use rounded borders")
	}
	if !strings.Contains(out, "+-") {
		t.Fatalf("expected ASCII borders:\n%s", out)
	}
}

func TestRenderTableNoColumns(t *testing.T) {
	if got := renderTable(&bytes.Buffer{}, nil, nil, nil); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"lookup": false, "enrich": false, "check": false, "settings": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if err := lookupCmd.Args(lookupCmd, []string{"only-artist"}); err == nil {
		t.Fatal("lookup should require artist and title")
	}
	if err := enrichCmd.Args(enrichCmd, nil); err == nil {
		t.Fatal("enrich should require a file")
	}
}

func TestSettingsCommandPrintsDecodableDefaults(t *testing.T) {
	var out bytes.Buffer
	settingsCmd.SetOut(&out)
	defer settingsCmd.SetOut(nil)

	if err := settingsCmd.RunE(settingsCmd, nil); err != nil {
		t.Fatal(err)
	}
	path := t.TempDir() + "/settings.toml"
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("printed settings do not load: %v", err)
	}
	if !reflect.DeepEqual(got, config.DefaultSettings()) {
		t.Fatalf("printed settings differ from defaults: %+v", got)
	}
}

func TestRunChecksWithNothingEnabled(t *testing.T) {
	c := &config.Config{OpenAIAPIKey: "k", LastfmAPIKey: "l", Settings: config.DefaultSettings()}
	results := runChecks(context.Background(), c)
	if len(results) != 4 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].status != statusOK {
		t.Fatalf("credentials = %+v", results[0])
	}
	for _, r := range results[1:] {
		if r.status != statusDisabled {
			t.Fatalf("%s = %s, want disabled", r.component, r.status)
		}
	}
}
