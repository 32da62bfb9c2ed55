// Package storage writes the finished recommendation document to its
// destinations. The file sink is primary; the others are exports that
// the program never reads back.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"LyricRec/model"
)

// DefaultIndent is the indentation of written documents.
const DefaultIndent = "  "

// Sink receives the document of one run.
type Sink interface {
	Name() string
	Write(ctx context.Context, runID string, doc *model.RecommendationDocument) error
}

// EncodeDocument renders doc as UTF-8 JSON with the given indent. An
// empty indent produces compact output.
func EncodeDocument(doc *model.RecommendationDocument, indent string) ([]byte, error) {
	if doc == nil {
		doc = &model.RecommendationDocument{}
	}
	if doc.Recommendations == nil {
		doc = &model.RecommendationDocument{Recommendations: []model.EnrichedRecommendation{}}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("storage: encode document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
