// Package agent implements the Agent Orchestrator (C8): a small state
// graph — classify_intent, run_optimizer, agent⇄tools (ReAct), synthesize
// — plus the Structured Stream Encoder (C10) that turns the graph's
// output into a single text stream carrying an occasional sentinel
// token. Grounded on the teacher's internal/services/ai_recommendations.go
// request-building and the realtime-service's sse_provider.go
// heartbeat/backpressure handling, generalized from a single-shot
// completion call into a multi-turn tool-calling loop.
package agent

import (
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/intent"
	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// Input is the orchestrator's entry point payload.
type Input struct {
	Query    string
	History  []models.ChatMessage
	TeamID   *string
	LeagueID *string
	Language models.Language
}

// State is threaded through the graph. messages is append-only;
// toolCallCount is summed; every other field is last-writer-wins.
type State struct {
	Messages      []llm.Message
	TeamID        *string
	LeagueID      *string
	Language      models.Language
	Intent        intent.Intent
	Answer        string
	ToolCallCount int
	Err           error

	RankedMoves []models.MoveRecommendation
	FetchedAt   time.Time
	WindowStart time.Time
	WindowEnd   time.Time
}

// Output is what Run returns to the caller (spec §4.2 contract).
type Output struct {
	Answer        string
	Intent        intent.Intent
	ToolCallCount int
	RankedMoves   []models.MoveRecommendation
	FetchedAt     time.Time
	WindowStart   time.Time
	WindowEnd     time.Time
}

func newState(in Input) *State {
	s := &State{
		TeamID:   in.TeamID,
		LeagueID: in.LeagueID,
		Language: in.Language,
	}
	for _, m := range in.History {
		s.Messages = append(s.Messages, historyToMessage(m))
	}
	s.Messages = append(s.Messages, llm.Message{Role: llm.RoleUser, Content: in.Query})
	return s
}

func historyToMessage(m models.ChatMessage) llm.Message {
	out := llm.Message{Content: m.Content}
	switch m.Role {
	case models.RoleUser:
		out.Role = llm.RoleUser
	case models.RoleAssistant:
		out.Role = llm.RoleAssistant
	case models.RoleTool:
		out.Role = llm.RoleTool
	case models.RoleSystem:
		out.Role = llm.RoleSystem
	default:
		out.Role = llm.RoleUser
	}
	if m.ToolCallID != nil {
		out.ToolCallID = *m.ToolCallID
	}
	return out
}

func (s *State) toOutput() Output {
	return Output{
		Answer:        s.Answer,
		Intent:        s.Intent,
		ToolCallCount: s.ToolCallCount,
		RankedMoves:   s.RankedMoves,
		FetchedAt:     s.FetchedAt,
		WindowStart:   s.WindowStart,
		WindowEnd:     s.WindowEnd,
	}
}
