package optimizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

func window(days int) (time.Time, time.Time) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)
	return start, end
}

func gamesForTeam(teamID int, dates ...string) []models.NBAGame {
	var out []models.NBAGame
	for _, d := range dates {
		t, _ := time.Parse("2006-01-02", d)
		out = append(out, models.NBAGame{ID: d + "-g", Date: t, HomeTeamID: teamID, AwayTeamID: 999})
	}
	return out
}

func TestScoreDroppingCandidateCeiling(t *testing.T) {
	start, end := window(7)
	player := models.Player{
		PlayerID: 1, PlayerName: "A", AvgFpts: 5, ProTeamID: 10,
		InjuryStatus: models.InjuryOut, GamesPlayed: 2,
	}
	// 0 games scheduled for proTeamId 10 in window.
	ds := ScoreDroppingCandidate(player, &start, &end, 30, nil)
	assert.GreaterOrEqual(t, ds.Score, 70.0)
	assert.LessOrEqual(t, ds.Score, 100.0)
	assert.Lenf(t, ds.Reasons, 4, "expected 4 reasons (well below avg, no games, OUT, low sample), got %v", ds.Reasons)
}

func TestScoreDroppingCandidateAlwaysInRange(t *testing.T) {
	start, end := window(7)
	players := []models.Player{
		{PlayerID: 1, AvgFpts: 0, ProTeamID: 1, InjuryStatus: models.InjuryOut, GamesPlayed: 0},
		{PlayerID: 2, AvgFpts: 50, ProTeamID: 2, InjuryStatus: models.InjuryActive, GamesPlayed: 40},
	}
	games := append(gamesForTeam(1, "2026-01-02"), gamesForTeam(2, "2026-01-02", "2026-01-03")...)
	for _, p := range players {
		ds := ScoreDroppingCandidate(p, &start, &end, 25, games)
		assert.GreaterOrEqualf(t, ds.Score, 0.0, "score out of range for player %d", p.PlayerID)
		assert.LessOrEqualf(t, ds.Score, 100.0, "score out of range for player %d", p.PlayerID)
	}
}

func TestScoreStreamingCandidateZeroGamesZeroScore(t *testing.T) {
	start, end := window(7)
	fa := models.FreeAgent{PlayerID: 2, PlayerName: "B", AvgFpts: 25, ProTeamID: 20}
	ss := ScoreStreamingCandidate(fa, &start, &end, nil)
	assert.Zero(t, ss.Score)
	assert.Zero(t, ss.GamesRemaining)
}

func TestConfidenceTierZeroGamesPlayedIsLow(t *testing.T) {
	assert.Equal(t, models.ConfidenceLow, ConfidenceTier(models.InjuryActive, 0))
}

func TestConfidenceTierInjuryOverridesGamesPlayed(t *testing.T) {
	assert.Equal(t, models.ConfidenceLow, ConfidenceTier(models.InjuryGTD, 30))
}
