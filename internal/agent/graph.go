package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bpolitiadis/fanvise-sub000/internal/apperr"
	"github.com/bpolitiadis/fanvise-sub000/internal/intent"
	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/optimizer"
	"github.com/bpolitiadis/fanvise-sub000/internal/tools"
)

const maxToolCalls = 15

// Config bundles the Graph's dependencies.
type Config struct {
	Provider  llm.Provider
	Tools     *tools.Registry
	Snapshots optimizer.SnapshotFetcher
	Schedule  optimizer.ScheduleLoader
	Logger    *logrus.Logger
}

// Graph is the Agent Orchestrator (C8): classify_intent routes to either
// run_optimizer or the agent<->tools ReAct loop followed by synthesize.
type Graph struct {
	cfg         Config
	recommender optimizer.Recommender
}

func NewGraph(cfg Config) *Graph {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Graph{cfg: cfg, recommender: newLLMRecommender(cfg.Provider)}
}

// Run executes the graph to completion and returns its final output.
func (g *Graph) Run(ctx context.Context, in Input) (Output, error) {
	state := newState(in)
	g.classifyIntent(state)

	if g.routeToOptimizer(state) {
		g.runOptimizer(ctx, state)
	} else {
		g.runReAct(ctx, state)
		g.synthesize(state)
	}

	// Invariant violations are folded into the answer by synthesize (capped
	// note, retry prompt) and are not surfaced to the caller.
	err := state.Err
	var inv *apperr.InvariantViolation
	if errors.As(err, &inv) {
		err = nil
	}
	return state.toOutput(), err
}

func (g *Graph) classifyIntent(state *State) {
	state.Intent = intent.Classify(lastUserQuery(state.Messages))
}

// routeToOptimizer implements "if intent==lineup_optimization AND both
// teamId/leagueId are present -> run_optimizer; else -> agent".
func (g *Graph) routeToOptimizer(state *State) bool {
	return state.Intent == intent.LineupOptimization && state.TeamID != nil && state.LeagueID != nil
}

func (g *Graph) runOptimizer(ctx context.Context, state *State) {
	result, err := optimizer.RunOptimizerGraph(ctx, *state.LeagueID, *state.TeamID, g.cfg.Snapshots, g.cfg.Schedule, g.recommender)
	if err != nil {
		state.Err = err
		if apperr.IsRecoverable(err) {
			state.Answer = err.Error()
		} else {
			state.Answer = retryPrompt
		}
		return
	}
	state.Answer = result.Recommendation
	state.RankedMoves = result.RankedMoves
	state.FetchedAt = result.FetchedAt
	state.WindowStart = result.WindowStart
	state.WindowEnd = result.WindowEnd
}

// runReAct drives the agent<->tools loop: invoke the LLM, execute any
// tool calls it returns, feed the results back, repeat until a
// tool-call-free turn or the MAX_TOOL_CALLS cap.
func (g *Graph) runReAct(ctx context.Context, state *State) {
	for {
		req := llm.CompletionRequest{
			Messages: g.buildTurnMessages(state),
			Tools:    toolSpecs(g.cfg.Tools),
		}
		if g.cfg.Provider.SupportsToolChoiceAny() &&
			shouldForceToolCall(state.Intent, lastUserQuery(state.Messages), state.TeamID, state.LeagueID, state.ToolCallCount) {
			req.ToolChoice = llm.ToolChoiceAny
		}

		resp, err := g.cfg.Provider.Complete(ctx, req)
		if err != nil {
			state.Err = fmt.Errorf("agent: react: %w", err)
			return
		}
		state.ToolCallCount++

		if len(resp.ToolCalls) == 0 {
			state.Messages = append(state.Messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
			return
		}

		state.Messages = append(state.Messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})

		if state.ToolCallCount >= maxToolCalls {
			state.Err = apperr.NewInvariantViolation("tool_call_cap", "reached MAX_TOOL_CALLS")
			return
		}

		toolMessages := executeToolCalls(ctx, g.cfg.Tools, resp.ToolCalls, state.TeamID, state.LeagueID)
		state.Messages = append(state.Messages, toolMessages...)
	}
}

// buildTurnMessages prepends the system prompt, context_note, and
// language_note ahead of the accumulated, already-normalized history
// (tool message content is always a string here — it comes straight out
// of Registry.Invoke's JSON encoding).
func (g *Graph) buildTurnMessages(state *State) []llm.Message {
	out := make([]llm.Message, 0, len(state.Messages)+3)
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: contextNote(state.TeamID, state.LeagueID)})
	if note := languageNote(state.Language); note != "" {
		out = append(out, llm.Message{Role: llm.RoleSystem, Content: note})
	}
	out = append(out, state.Messages...)
	return out
}

// synthesize extracts the last assistant text, replaces it with a retry
// prompt if it looks like an undone plan, and appends the capped-turn
// notice when the tool-call cap was hit.
func (g *Graph) synthesize(state *State) {
	text := lastAssistantText(state.Messages)
	if !hasToolMessage(state.Messages) && looksLikePlan(text) {
		text = retryPrompt
	}
	if text == "" {
		text = retryPrompt
	}

	var inv *apperr.InvariantViolation
	if state.Err != nil && errors.As(state.Err, &inv) {
		text += cappedNote
		g.cfg.Logger.WithField("kind", inv.Kind).Warn("agent: invariant violation")
	}

	state.Answer = text
}

func lastUserQuery(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func lastAssistantText(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleAssistant {
			return messages[i].Content
		}
	}
	return ""
}

func hasToolMessage(messages []llm.Message) bool {
	for _, m := range messages {
		if m.Role == llm.RoleTool {
			return true
		}
	}
	return false
}
