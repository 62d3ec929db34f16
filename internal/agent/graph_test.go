package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
	"github.com/bpolitiadis/fanvise-sub000/internal/tools"
)

// mockProvider replaces a hand-rolled fake with testify/mock so each test
// states its turn sequence as ordered .On(...).Return(...).Once() chains.
type mockProvider struct {
	mock.Mock
	supportsAny bool
}

func (m *mockProvider) Name() string               { return "fake" }
func (m *mockProvider) Model() string               { return "fake-model" }
func (m *mockProvider) SupportsToolChoiceAny() bool { return m.supportsAny }

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*llm.CompletionResponse)
	return resp, args.Error(1)
}

func textResponse(content string) *llm.CompletionResponse {
	return &llm.CompletionResponse{Content: content}
}

func toolCallResponse(name string, toolArgs map[string]interface{}) *llm.CompletionResponse {
	return &llm.CompletionResponse{ToolCalls: []llm.ToolCall{{ID: "call_1", Name: name, Arguments: toolArgs}}}
}

func newTestRegistry() *tools.Registry {
	r := tools.NewRegistry()
	r.Register(tools.Tool{
		Name:           "get_my_roster",
		Description:    "fetch the caller's roster",
		InputSchema:    map[string]interface{}{"type": "object"},
		RequiresTeam:   true,
		RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"teamName": "Test Team"}, nil
		},
	})
	return r
}

func TestRunReActNoToolsCalled(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return(textResponse("Here is some general advice."), nil).Once()
	g := NewGraph(Config{Provider: provider, Tools: newTestRegistry()})

	out, err := g.Run(context.Background(), Input{Query: "tell me a joke", Language: models.LanguageEN})
	require.NoError(t, err)
	assert.Equal(t, 1, out.ToolCallCount)
	assert.Equal(t, "Here is some general advice.", out.Answer)
	provider.AssertExpectations(t)
}

func TestRunReActWithToolCallThenAnswer(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return(toolCallResponse("get_my_roster", map[string]interface{}{}), nil).Once()
	provider.On("Complete", mock.Anything, mock.Anything).Return(textResponse("Your roster looks strong."), nil).Once()
	g := NewGraph(Config{Provider: provider, Tools: newTestRegistry()})

	teamID, leagueID := "t1", "l1"
	out, err := g.Run(context.Background(), Input{Query: "give me a comprehensive audit", TeamID: &teamID, LeagueID: &leagueID})
	require.NoError(t, err)
	assert.Equal(t, 2, out.ToolCallCount)
	assert.Equal(t, "Your roster looks strong.", out.Answer)
	provider.AssertExpectations(t)
}

func TestRunReActCapsToolCalls(t *testing.T) {
	provider := &mockProvider{}
	for i := 0; i < maxToolCalls; i++ {
		provider.On("Complete", mock.Anything, mock.Anything).Return(toolCallResponse("get_my_roster", map[string]interface{}{}), nil).Once()
	}
	g := NewGraph(Config{Provider: provider, Tools: newTestRegistry()})

	teamID, leagueID := "t1", "l1"
	out, err := g.Run(context.Background(), Input{Query: "give me a comprehensive audit", TeamID: &teamID, LeagueID: &leagueID})
	require.NoError(t, err)
	assert.Equal(t, maxToolCalls, out.ToolCallCount)
	assert.Contains(t, out.Answer, "capped")
	provider.AssertExpectations(t)
}

func TestSynthesizeReplacesUndoneplan(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return(textResponse(`I will call "name":"get_my_roster" next.`), nil).Once()
	g := NewGraph(Config{Provider: provider, Tools: newTestRegistry()})

	out, err := g.Run(context.Background(), Input{Query: "tell me about my team"})
	require.NoError(t, err)
	assert.Equal(t, retryPrompt, out.Answer)
	provider.AssertExpectations(t)
}

func TestRouteToOptimizerRequiresBothIDs(t *testing.T) {
	g := NewGraph(Config{Provider: &mockProvider{}, Tools: newTestRegistry()})
	teamID := "t1"
	state := &State{Intent: "lineup_optimization", TeamID: &teamID}
	assert.False(t, g.routeToOptimizer(state), "routeToOptimizer() without leagueId, want false")

	leagueID := "l1"
	state.LeagueID = &leagueID
	assert.True(t, g.routeToOptimizer(state), "routeToOptimizer() with both ids present, want true")
}

type fakeSnapshots struct {
	snap *models.Snapshot
	err  error
}

func (f *fakeSnapshots) Build(_ context.Context, _, _ string) (*models.Snapshot, error) {
	return f.snap, f.err
}

type fakeSchedule struct{}

func (f *fakeSchedule) GamesInWindow(_ context.Context, _, _ time.Time) ([]models.NBAGame, error) {
	return nil, nil
}

func TestRunOptimizerPropagatesNoLegalMoves(t *testing.T) {
	g := NewGraph(Config{
		Provider:  &mockProvider{},
		Tools:     newTestRegistry(),
		Snapshots: &fakeSnapshots{snap: &models.Snapshot{MyTeam: models.Team{Roster: nil}, FreeAgents: nil}},
		Schedule:  &fakeSchedule{},
	})
	teamID, leagueID := "t1", "l1"
	state := newState(Input{Query: "optimize my lineup", TeamID: &teamID, LeagueID: &leagueID})
	g.runOptimizer(context.Background(), state)
	require.Error(t, state.Err, "expected an error for no legal moves")
}
