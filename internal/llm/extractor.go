package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractedIntelligence is the structured shape the intelligence extractor
// produces from one news article (spec §4.7 step 4).
type ExtractedIntelligence struct {
	PlayerName         *string `json:"playerName,omitempty"`
	Sentiment          string  `json:"sentiment"`
	Category           string  `json:"category"`
	ImpactBackup       *string `json:"impactBackup,omitempty"`
	IsInjuryReport     bool    `json:"isInjuryReport"`
	InjuryStatus       *string `json:"injuryStatus,omitempty"`
	ExpectedReturnDate *string `json:"expectedReturnDate,omitempty"`
	ImpactedPlayerIDs  []string `json:"impactedPlayerIds"`
}

// Extractor runs one news article through a Provider in JSON mode to
// produce ExtractedIntelligence. Grounded on the teacher's
// ai_recommendations.go prompt-then-parse-JSON-from-response shape
// (buildRecommendationPrompt + the "[" / "]" extraction in
// callAnthropicAPI), generalized to use a provider's native JSON mode
// instead of scraping delimiters out of free text.
type Extractor struct {
	provider Provider
}

func NewExtractor(provider Provider) *Extractor {
	return &Extractor{provider: provider}
}

const extractionSystemPrompt = `You are a fantasy basketball news analyst. Given one news article, extract structured intelligence as a single JSON object with exactly these fields:
{
  "playerName": string or null,
  "sentiment": "POSITIVE" | "NEGATIVE" | "NEUTRAL",
  "category": "Injury" | "Trade" | "Lineup" | "Performance" | "Other",
  "impactBackup": string or null (name of a backup player who benefits, if any),
  "isInjuryReport": boolean,
  "injuryStatus": string or null,
  "expectedReturnDate": string or null (ISO 8601 date),
  "impactedPlayerIds": array of player name strings mentioned as affected
}
Return ONLY the JSON object, no prose.`

// Extract classifies one article's title+content.
func (e *Extractor) Extract(ctx context.Context, title, content string) (*ExtractedIntelligence, error) {
	resp, err := e.provider.Complete(ctx, CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: extractionSystemPrompt},
			{Role: RoleUser, Content: fmt.Sprintf("Title: %s\n\nContent: %s", title, content)},
		},
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: extract: %w", err)
	}

	raw := strings.TrimSpace(resp.Content)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("llm: extract: no JSON object in response")
	}
	raw = raw[start : end+1]

	var out ExtractedIntelligence
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("llm: extract: unmarshal: %w", err)
	}
	if out.Sentiment == "" {
		out.Sentiment = "NEUTRAL"
	}
	if out.Category == "" {
		out.Category = "Other"
	}
	return &out, nil
}
