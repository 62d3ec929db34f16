package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

func sampleRosterSlots() map[string]int {
	return map[string]int{
		"PG": 1, "SG": 1, "SF": 1, "PF": 1, "C": 1,
		"G": 1, "F": 1, "UTIL": 1, "BE": 3, "IR": 1,
	}
}

func TestBuildDailyLineupEmptyRoster(t *testing.T) {
	assignments := BuildDailyLineup(nil, sampleRosterSlots(), map[int]bool{1: true})
	for _, a := range assignments {
		if a.Slot != "BE" {
			assert.Nil(t, a.Player)
		}
	}
}

func TestBuildDailyLineupAssignsHighestFptsFirst(t *testing.T) {
	roster := []models.Player{
		{PlayerID: 1, PlayerName: "Low", Position: "PG", EligibleSlots: []string{"PG", "G"}, ProTeamID: 1, AvgFpts: 10},
		{PlayerID: 2, PlayerName: "High", Position: "PG", EligibleSlots: []string{"PG", "G"}, ProTeamID: 1, AvgFpts: 30},
	}
	slots := map[string]int{"PG": 1, "BE": 5}
	assignments := BuildDailyLineup(roster, slots, map[int]bool{1: true})
	found := false
	for _, a := range assignments {
		if a.Slot == "PG" && a.Player != nil {
			found = true
			assert.Equal(t, "High", a.Player.PlayerName)
		}
	}
	assert.True(t, found, "PG slot was never filled")
}

func TestValidateLineupLegalityEmptyRosterIsIllegalWhenSlotsRequired(t *testing.T) {
	result := ValidateLineupLegality(LegalityCheckInput{
		Roster:           nil,
		RosterSlots:      map[string]int{"PG": 1},
		PlayingPlayerIDs: map[int]bool{},
	})
	assert.False(t, result.IsLegal, "expected isLegal=false when a starting slot has count>0 and roster is empty")
}

func TestValidateLineupLegalityFullyAssignedIsLegal(t *testing.T) {
	roster := []models.Player{
		{PlayerID: 1, PlayerName: "A", EligibleSlots: []string{"PG"}, ProTeamID: 1, AvgFpts: 20},
	}
	result := ValidateLineupLegality(LegalityCheckInput{
		Roster:           roster,
		RosterSlots:      map[string]int{"PG": 1, "BE": 2},
		PlayingPlayerIDs: map[int]bool{1: true},
	})
	require.True(t, result.IsLegal, "expected legal lineup, got warnings: %v", result.Warnings)
}

func TestValidateLineupLegalityReportsLegallyBenchedPlayersWithGames(t *testing.T) {
	// 3 playing players, 1 starting PG slot, 2 bench slots: every extra
	// player is legally benched, not roster overflow, yet all 2 should
	// still surface in BenchedWithGames (spec §4.3.4).
	roster := []models.Player{
		{PlayerID: 1, PlayerName: "Starter", EligibleSlots: []string{"PG"}, ProTeamID: 1, AvgFpts: 30},
		{PlayerID: 2, PlayerName: "Bench One", EligibleSlots: []string{"PG"}, ProTeamID: 1, AvgFpts: 20},
		{PlayerID: 3, PlayerName: "Bench Two", EligibleSlots: []string{"PG"}, ProTeamID: 1, AvgFpts: 10},
	}
	result := ValidateLineupLegality(LegalityCheckInput{
		Roster:           roster,
		RosterSlots:      map[string]int{"PG": 1, "BE": 2},
		PlayingPlayerIDs: map[int]bool{1: true, 2: true, 3: true},
	})
	require.True(t, result.IsLegal)
	assert.Len(t, result.BenchedWithGames, 2)
	assert.Len(t, result.Warnings, 1)
}
