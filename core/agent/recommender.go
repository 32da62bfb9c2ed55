package agent

import (
	"context"
	"errors"
	"fmt"

	"LyricRec/logger"
	"LyricRec/model"
)

// RecommendationOptions are the sampling controls of the generation call.
var RecommendationOptions = CompletionOptions{Temperature: 0.8}

var errMissingRecommendations = errors.New("agent: response has no recommendations array")

// Recommender generates lyric-based recommendations from a user profile.
type Recommender struct {
	chat         Completer
	systemPrompt string
	opts         CompletionOptions
}

// NewRecommender 创建推荐生成器
func NewRecommender(chat Completer, opts CompletionOptions) *Recommender {
	return &Recommender{
		chat:         chat,
		systemPrompt: RecommendationSystemPrompt,
		opts:         opts,
	}
}

// Generate sends the profile document and decodes the returned list.
// Unlike feature synthesis, every failure here is returned.
func (r *Recommender) Generate(ctx context.Context, profile []byte) ([]model.Recommendation, error) {
	messages := []model.OpenAIChatMessage{
		{Role: model.RoleSystem, Content: r.systemPrompt},
		{Role: model.RoleUser, Content: string(profile)},
	}

	content, err := r.chat.Complete(ctx, messages, r.opts)
	if err != nil {
		return nil, fmt.Errorf("agent: generate recommendations: %w", err)
	}

	var doc model.GeneratedRecommendations
	if err := DecodeJSON(content, &doc); err != nil {
		logger.Warn("[Recommender] could not parse recommendations",
			logger.String("rawResponse", content))
		return nil, err
	}
	if doc.Recommendations == nil {
		return nil, errMissingRecommendations
	}

	logger.Info("[Recommender] 获取推荐成功", logger.Int("count", len(doc.Recommendations)))
	return doc.Recommendations, nil
}
