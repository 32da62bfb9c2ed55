package agent

import (
	"context"
	"errors"
	"testing"

	"LyricRec/model"
)

func TestRecommenderGenerate(t *testing.T) {
	stub := &stubCompleter{content: "```json\n" + `{"recommendations":[` +
		`{"title":"Skinny Love","artist":"Bon Iver","reason":"quiet ache"},` +
		`{"title":"Breathe Me","artist":"Sia"}]}` + "\n```"}
	profile := []byte(`{"user_profile":{"user_id":"u1"}}`)

	recs, err := NewRecommender(stub, RecommendationOptions).Generate(context.Background(), profile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Title() != "Skinny Love" || recs[0].Artist() != "Bon Iver" || recs[0].Field("reason") != "quiet ache" {
		t.Fatalf("unexpected first item %v", recs[0].Keys())
	}

	if len(stub.messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(stub.messages))
	}
	if stub.messages[0].Role != model.RoleSystem || stub.messages[0].Content != RecommendationSystemPrompt {
		t.Fatal("first message should be the system prompt")
	}
	if stub.messages[1].Role != model.RoleUser || stub.messages[1].Content != string(profile) {
		t.Fatalf("second message = %+v", stub.messages[1])
	}
	if stub.opts.Temperature != 0.8 || stub.opts.MaxTokens != 0 {
		t.Fatalf("opts = %+v", stub.opts)
	}
}

func TestRecommenderGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		stub *stubCompleter
	}{
		{"transport", &stubCompleter{err: errors.New("dial tcp: refused")}},
		{"malformed", &stubCompleter{content: "```json\n{\"recommendations\": [\n```"}},
		{"missing array", &stubCompleter{content: `{"songs":[]}`}},
		{"null array", &stubCompleter{content: `{"recommendations":null}`}},
		{"non-object item", &stubCompleter{content: `{"recommendations":["Hurt"]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRecommender(tt.stub, RecommendationOptions).Generate(context.Background(), []byte(`{}`)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRecommenderGenerateEmptyList(t *testing.T) {
	recs, err := NewRecommender(&stubCompleter{content: `{"recommendations":[]}`}, RecommendationOptions).
		Generate(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Fatalf("recs = %#v, want an empty list", recs)
	}
}
