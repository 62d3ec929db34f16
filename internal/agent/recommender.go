package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// llmRecommender satisfies optimizer.Recommender with a one-shot
// completion call over the ranked moves (spec §4.4 step 9); the caller
// falls back to the templated recommendation on error or empty text.
type llmRecommender struct {
	provider llm.Provider
}

func newLLMRecommender(provider llm.Provider) *llmRecommender {
	return &llmRecommender{provider: provider}
}

const recommenderSystemPrompt = `You are a fantasy basketball analyst. Given a ranked list of drop/add move candidates, write a short (2-4 sentence) recommendation explaining the top move and why it beats the alternatives. Be concrete about the projected net gain.`

func (r *llmRecommender) Recommend(ctx context.Context, moves []models.MoveRecommendation) (string, error) {
	if r.provider == nil || len(moves) == 0 {
		return "", fmt.Errorf("agent: recommender: no provider or no moves")
	}
	var b strings.Builder
	for _, m := range moves {
		fmt.Fprintf(&b, "#%d drop %s add %s: net gain %.1f, confidence %s\n",
			m.Rank, m.DropPlayerName, m.AddPlayerName, m.NetGain, m.Confidence)
	}
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: recommenderSystemPrompt},
			{Role: llm.RoleUser, Content: b.String()},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("agent: recommender: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
