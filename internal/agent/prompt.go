package agent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bpolitiadis/fanvise-sub000/internal/intent"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

const systemPrompt = `You are FanVise, a fantasy basketball co-manager. Answer using the tools available to you; never guess a roster, schedule, or news fact you can fetch. Keep answers concise and decision-focused.`

// contextNote enumerates active teamId/leagueId and instructs the model
// to invoke tools rather than describe them (spec §4.2).
func contextNote(teamID, leagueID *string) string {
	var b strings.Builder
	b.WriteString("Context: ")
	if leagueID != nil {
		fmt.Fprintf(&b, "leagueId=%s ", *leagueID)
	}
	if teamID != nil {
		fmt.Fprintf(&b, "teamId=%s ", *teamID)
	}
	b.WriteString("— when a tool needs these, call it; you do not need to ask the user for them. Invoke tools, do not describe them.")
	return b.String()
}

// languageNote forces reply language when language == el.
func languageNote(language models.Language) string {
	if language == models.LanguageEL {
		return "Reply in Greek."
	}
	return ""
}

var toolForcingKeywords = regexp.MustCompile(`\b(roster|standings|matchup|lineup|free agents?|waiver|injury|status|news)\b`)

// shouldForceToolCall implements the tool-call forcing rule: first turn,
// both teamId/leagueId present, no tool result yet, and either the intent
// is one of the four ReAct-heavy intents or the query matches a
// roster/standings/matchup keyword.
func shouldForceToolCall(in intent.Intent, query string, teamID, leagueID *string, toolCallCount int) bool {
	if toolCallCount != 0 || teamID == nil || leagueID == nil {
		return false
	}
	switch in {
	case intent.TeamAudit, intent.MatchupAnalysis, intent.FreeAgentScan, intent.PlayerResearch:
		return true
	}
	return toolForcingKeywords.MatchString(strings.ToLower(query))
}

var planLikePattern = regexp.MustCompile(`"name"\s*:\s*"get_|^\s*(first|step \d|i will|i'll|plan:)`)

// looksLikePlan reports whether text reads like the model narrated an
// intended tool call instead of invoking it.
func looksLikePlan(text string) bool {
	return planLikePattern.MatchString(strings.ToLower(text))
}

const retryPrompt = "I need to fetch your data first — let me pull that up and I'll follow up with a real answer."

const cappedNote = "\n\n(Note: analysis was capped after reaching the maximum number of tool calls for this turn.)"
