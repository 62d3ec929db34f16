package optimizer

import (
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

const defaultLeagueAvgFpts = 25.0

// ScoreDroppingCandidate implements spec §4.3.1. preloadedGames MUST be
// preloaded once per optimizer run by the caller (spec §9 "determinism
// under concurrency") and passed by reference here; this function never
// fetches the schedule itself.
func ScoreDroppingCandidate(player models.Player, windowStart, windowEnd *time.Time, leagueAvgFpts float64, preloadedGames []models.NBAGame) models.DropScore {
	if leagueAvgFpts <= 0 {
		leagueAvgFpts = defaultLeagueAvgFpts
	}
	start, end := resolveWindow(windowStart, windowEnd)

	dates := distinctGameDates(preloadedGames, start, end, map[int]bool{player.ProTeamID: true})
	gamesRemaining := len(dates)
	projected := player.AvgFpts * float64(gamesRemaining)

	var score float64
	var reasons []string

	switch {
	case player.AvgFpts < 0.6*leagueAvgFpts:
		score += 40
		reasons = append(reasons, "well below league avg")
	case player.AvgFpts < 0.8*leagueAvgFpts:
		score += 20
		reasons = append(reasons, "below league avg")
	}

	switch gamesRemaining {
	case 0:
		score += 40
		reasons = append(reasons, "No games remaining")
	case 1:
		score += 20
		reasons = append(reasons, "Only 1 game remaining")
	}

	switch player.InjuryStatus {
	case models.InjuryOut:
		score += 30
		reasons = append(reasons, "Currently OUT")
	case models.InjuryDTD, models.InjuryGTD, models.InjuryQuestionable:
		score += 15
		reasons = append(reasons, "Injury uncertainty")
	}

	if player.GamesPlayed < 5 {
		score += 10
		reasons = append(reasons, "Low sample size")
	}

	return models.DropScore{
		PlayerID:            player.PlayerID,
		PlayerName:          player.PlayerName,
		Score:               clamp(score, 0, 100),
		GamesRemaining:      gamesRemaining,
		ProjectedWindowFpts: projected,
		Reasons:             reasons,
	}
}

const streamMaxScore = 3 * 30.0 // 90, per spec §4.3.2

// ScoreStreamingCandidate implements spec §4.3.2.
func ScoreStreamingCandidate(fa models.FreeAgent, windowStart, windowEnd *time.Time, preloadedGames []models.NBAGame) models.StreamScore {
	start, end := resolveWindow(windowStart, windowEnd)
	dates := distinctGameDates(preloadedGames, start, end, map[int]bool{fa.ProTeamID: true})
	gamesRemaining := len(dates)
	projected := fa.AvgFpts * float64(gamesRemaining)

	capped := projected
	if capped > streamMaxScore {
		capped = streamMaxScore
	}
	score := roundHalfUp(capped / streamMaxScore * 100)
	if gamesRemaining == 0 {
		score = 0
	}

	return models.StreamScore{
		PlayerID:            fa.PlayerID,
		PlayerName:          fa.PlayerName,
		Score:               score,
		GamesRemaining:      gamesRemaining,
		GameDates:           dates,
		ProjectedWindowFpts: projected,
		Confidence:          ConfidenceTier(fa.InjuryStatus, fa.GamesPlayed),
	}
}

func resolveWindow(windowStart, windowEnd *time.Time) (time.Time, time.Time) {
	if windowStart != nil && windowEnd != nil {
		return *windowStart, *windowEnd
	}
	return DefaultWindow(time.Now())
}

func roundHalfUp(f float64) float64 {
	return float64(int(f + 0.5))
}
