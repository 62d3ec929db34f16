package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

func TestSimulateMoveNetGainMatchesDelta(t *testing.T) {
	start, end := window(7)
	drop := models.Player{PlayerID: 1, PlayerName: "A", EligibleSlots: []string{"PG"}, ProTeamID: 1, AvgFpts: 10}
	add := models.FreeAgent{PlayerID: 2, PlayerName: "B", EligibleSlots: []string{"PG"}, ProTeamID: 2, AvgFpts: 25}
	roster := []models.Player{drop}
	slots := map[string]int{"PG": 1, "BE": 2}
	games := gamesForTeam(2, "2026-01-02")

	result := SimulateMove(drop, add, roster, slots, &start, &end, games)

	expected := round1(result.ProjectedWindowFpts - result.BaselineWindowFpts)
	assert.Equal(t, expected, result.NetGain)
	assert.Greater(t, result.NetGain, 0.0, "expected positive net gain when add has games and drop does not")
}

func TestSimulateMoveFastPathScenario(t *testing.T) {
	start, end := window(7)
	drop := models.Player{PlayerID: 13, PlayerName: "PlayerA", EligibleSlots: []string{"PG"}, ProTeamID: 100, AvgFpts: 10}
	add := models.FreeAgent{PlayerID: 14, PlayerName: "PlayerB", EligibleSlots: []string{"PG"}, ProTeamID: 200, AvgFpts: 25}
	roster := []models.Player{drop}
	slots := map[string]int{"PG": 1, "BE": 2}
	games := gamesForTeam(200, "2026-01-02", "2026-01-03")

	result := SimulateMove(drop, add, roster, slots, &start, &end, games)
	assert.Greater(t, result.NetGain, 0.0)
	assert.Equal(t, "PlayerA", result.Drop.Name)
	assert.Equal(t, "PlayerB", result.Add.Name)
}

func TestSimulateMoveUncertainAvailabilityWarning(t *testing.T) {
	start, end := window(7)
	drop := models.Player{PlayerID: 1, PlayerName: "A", EligibleSlots: []string{"PG"}, ProTeamID: 1, AvgFpts: 10}
	add := models.FreeAgent{PlayerID: 2, PlayerName: "B", EligibleSlots: []string{"PG"}, ProTeamID: 2, AvgFpts: 20, InjuryStatus: models.InjuryGTD}
	result := SimulateMove(drop, add, []models.Player{drop}, map[string]int{"PG": 1, "BE": 1}, &start, &end, nil)
	assert.Contains(t, result.Warnings, "availability uncertain")
}

func TestSimulateMoveNoLegalSlotWarning(t *testing.T) {
	start, end := window(7)
	drop := models.Player{PlayerID: 1, PlayerName: "A", EligibleSlots: []string{"PG"}, ProTeamID: 1, AvgFpts: 10}
	add := models.FreeAgent{PlayerID: 2, PlayerName: "B", EligibleSlots: []string{"IR"}, ProTeamID: 2, AvgFpts: 20}
	result := SimulateMove(drop, add, []models.Player{drop}, map[string]int{"PG": 1, "BE": 1}, &start, &end, nil)
	assert.False(t, result.IsLegal, "expected illegal move when add player has no starting-slot eligibility")
}
