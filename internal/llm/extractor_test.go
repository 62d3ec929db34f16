package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractProvider struct {
	content string
	err     error
}

func (f *fakeExtractProvider) Name() string               { return "fake" }
func (f *fakeExtractProvider) Model() string              { return "fake-model" }
func (f *fakeExtractProvider) SupportsToolChoiceAny() bool { return false }
func (f *fakeExtractProvider) Complete(context.Context, CompletionRequest) (*CompletionResponse, error) {
	return &CompletionResponse{Content: f.content}, f.err
}

func TestExtractorParsesJSONObject(t *testing.T) {
	provider := &fakeExtractProvider{content: `Sure, here is the analysis: {"playerName":"Jayson Tatum","sentiment":"NEGATIVE","category":"Injury","isInjuryReport":true,"injuryStatus":"OUT","impactedPlayerIds":["Derrick White"]} done.`}
	e := NewExtractor(provider)

	out, err := e.Extract(context.Background(), "Tatum injury update", "Tatum is out with an ankle injury.")
	require.NoError(t, err)
	require.NotNil(t, out.PlayerName)
	assert.Equal(t, "Jayson Tatum", *out.PlayerName)
	assert.True(t, out.IsInjuryReport)
	require.Len(t, out.ImpactedPlayerIDs, 1)
	assert.Equal(t, "Derrick White", out.ImpactedPlayerIDs[0])
}

func TestExtractorDefaultsMissingFields(t *testing.T) {
	provider := &fakeExtractProvider{content: `{"isInjuryReport":false,"impactedPlayerIds":[]}`}
	e := NewExtractor(provider)

	out, err := e.Extract(context.Background(), "Routine update", "Nothing notable happened.")
	require.NoError(t, err)
	assert.Equal(t, "NEUTRAL", out.Sentiment)
	assert.Equal(t, "Other", out.Category)
}

func TestExtractorErrorsOnNoJSON(t *testing.T) {
	provider := &fakeExtractProvider{content: "no json here at all"}
	e := NewExtractor(provider)

	_, err := e.Extract(context.Background(), "title", "content")
	assert.Error(t, err, "expected an error when no JSON object is present")
}
