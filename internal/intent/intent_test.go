package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Intent
	}{
		{"empty", "", GeneralAdvice},
		{"whitespace", "   ", GeneralAdvice},
		{"non-nba sport without nba word", "who should I start in my NFL fantasy league", GeneralAdvice},
		{"non-nba sport with nba word still routes", "nba vs nfl comparison: audit my NBA team", TeamAudit},
		{"safety exclusion beats drop", "Breaking rumor on X says Giannis broke his leg. Should I drop him right now?", PlayerResearch},
		{"hypothetical guard", "Assuming my starter is ruled out tonight, who do I start?", TeamAudit},
		{"team audit", "Give me a comprehensive audit of my team", TeamAudit},
		{"matchup beats streaming", "Provide a deep-dive review of my current matchup. Suggest free agents to stream to secure the win.", MatchupAnalysis},
		{"lineup optimization", "Optimize my lineup for this week.", LineupOptimization},
		{"bare stream falls to free agent scan", "who should I stream this week", FreeAgentScan},
		{"free agent scan", "show me the best available free agents on the waiver wire", FreeAgentScan},
		{"player research injury", "is Tatum playing tonight, what's his status", PlayerResearch},
		{"general fallback", "tell me a joke", GeneralAdvice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.query))
		})
	}
}

func TestClassifyNeverEmpty(t *testing.T) {
	queries := []string{
		"random text with no keywords",
		"STREAM DROP LINEUP matchup audit",
		"",
	}
	valid := map[Intent]bool{
		TeamAudit: true, MatchupAnalysis: true, LineupOptimization: true,
		FreeAgentScan: true, PlayerResearch: true, GeneralAdvice: true,
	}
	for _, q := range queries {
		assert.True(t, valid[Classify(q)], "Classify(%q) returned an invalid intent", q)
	}
}

func TestClassifySafetyExclusionNeverOptimizer(t *testing.T) {
	q := "unverified social media post says he tore his achilles, drop him?"
	assert.NotEqual(t, LineupOptimization, Classify(q), "safety exclusion query must never route to lineup_optimization")
}
