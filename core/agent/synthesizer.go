package agent

import (
	"context"

	"LyricRec/logger"
	"LyricRec/model"
)

// Provenance written into every synthesized record.
const (
	AnalysisSource  = model.SourceChatGPT
	AnalysisVersion = "1.0"
)

// FeatureOptions are the sampling controls used for feature synthesis.
var FeatureOptions = CompletionOptions{Temperature: 0.2, MaxTokens: 300}

// Completer is the chat call the synthesizer and recommender depend on.
type Completer interface {
	Complete(ctx context.Context, messages []model.OpenAIChatMessage, opts CompletionOptions) (string, error)
}

// Synthesizer estimates audio features for a song with one chat call.
type Synthesizer struct {
	chat Completer
	opts CompletionOptions
}

// NewSynthesizer 创建音频特征合成器
func NewSynthesizer(chat Completer, opts CompletionOptions) *Synthesizer {
	return &Synthesizer{chat: chat, opts: opts}
}

// Synthesize asks the model for an audio feature record. Any JSON object
// is accepted and passed through with its provenance overwritten.
// Transport and parse failures are logged and yield (nil, nil); only a
// cancelled context is returned as an error.
func (s *Synthesizer) Synthesize(ctx context.Context, artist, title string, hints model.NormalizedFeatures) (*model.AudioFeatureRecord, error) {
	messages := []model.OpenAIChatMessage{
		{Role: model.RoleUser, Content: BuildFeaturePrompt(artist, title, hints)},
	}

	content, err := s.chat.Complete(ctx, messages, s.opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("[Synthesizer] 获取音频特征失败",
			logger.String("artist", artist),
			logger.String("title", title),
			logger.ErrorField(err))
		return nil, nil
	}

	var record model.AudioFeatureRecord
	if err := DecodeJSON(content, &record); err != nil {
		logger.Warn("[Synthesizer] JSON parsing error",
			logger.String("title", title),
			logger.String("rawResponse", content),
			logger.ErrorField(err))
		return nil, nil
	}

	if odd := record.NonNumeric(); len(odd) > 0 {
		logger.Debug("[Synthesizer] feature record passed through with gaps",
			logger.String("title", title),
			logger.Strings("nonNumeric", odd))
	}
	record.SetProvenance(AnalysisSource, AnalysisVersion)
	return &record, nil
}
