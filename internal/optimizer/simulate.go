package optimizer

import (
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// SimulateMove implements spec §4.3.5.
func SimulateMove(drop models.Player, add models.FreeAgent, currentRoster []models.Player, rosterSlots map[string]int, windowStart, windowEnd *time.Time, preloadedGames []models.NBAGame) models.SimulateMoveResult {
	start, end := resolveWindow(windowStart, windowEnd)

	allProTeams := map[int]bool{}
	for _, p := range currentRoster {
		allProTeams[p.ProTeamID] = true
	}
	allProTeams[add.ProTeamID] = true
	dates := distinctGameDates(preloadedGames, start, end, allProTeams)

	projectedRoster := make([]models.Player, 0, len(currentRoster))
	for _, p := range currentRoster {
		if p.PlayerID == drop.PlayerID {
			continue
		}
		projectedRoster = append(projectedRoster, p)
	}
	projectedRoster = append(projectedRoster, models.Player{
		PlayerID:      add.PlayerID,
		PlayerName:    add.PlayerName,
		Position:      add.Position,
		EligibleSlots: add.EligibleSlots,
		ProTeamID:     add.ProTeamID,
		InjuryStatus:  add.InjuryStatus,
		AvgFpts:       add.AvgFpts,
		TotalFpts:     0,
		GamesPlayed:   0,
	})

	var baselineTotal, projectedTotal float64
	var breakdown []DailyBreakdownInternal

	for _, d := range dates {
		playing := playingProTeamIDsOnDate(preloadedGames, d)

		baselineAssignments := BuildDailyLineup(currentRoster, rosterSlots, playing)
		baselineTotal += sumStarterFpts(baselineAssignments)

		projectedAssignments := BuildDailyLineup(projectedRoster, rosterSlots, playing)
		projectedTotal += sumStarterFpts(projectedAssignments)

		breakdown = append(breakdown, DailyBreakdownInternal{Date: d, Assignments: projectedAssignments})
	}

	netGain := round1(projectedTotal - baselineTotal)

	isLegal := false
	for _, slot := range startingSlotOrder {
		if slot == "BE" || slot == "IR" {
			continue
		}
		if canFillSlot(add.EligibleSlots, slot) {
			isLegal = true
			break
		}
	}

	var warnings []string
	if add.InjuryStatus == models.InjuryDTD || add.InjuryStatus == models.InjuryGTD {
		warnings = append(warnings, "availability uncertain")
	}
	if !isLegal {
		warnings = append(warnings, "no legal starting slot for added player")
	}

	return models.SimulateMoveResult{
		IsLegal:             isLegal,
		Drop:                models.PlayerRef{ID: drop.PlayerID, Name: drop.PlayerName},
		Add:                 models.PlayerRef{ID: add.PlayerID, Name: add.PlayerName},
		BaselineWindowFpts:  round1(baselineTotal),
		ProjectedWindowFpts: round1(projectedTotal),
		NetGain:             netGain,
		DailyBreakdown:      toModelBreakdown(breakdown),
		Confidence:          ConfidenceTier(add.InjuryStatus, add.GamesPlayed),
		Warnings:            warnings,
	}
}

// DailyBreakdownInternal holds the full slot assignments for a date before
// being flattened to the slim models.DailyBreakdown the caller sees.
type DailyBreakdownInternal struct {
	Date        string
	Assignments []SlotAssignment
}

func toModelBreakdown(in []DailyBreakdownInternal) []models.DailyBreakdown {
	out := make([]models.DailyBreakdown, 0, len(in))
	for _, d := range in {
		var slots []string
		for _, a := range d.Assignments {
			if a.Player != nil {
				slots = append(slots, a.Slot)
			}
		}
		out = append(out, models.DailyBreakdown{Date: d.Date, SlotsUsed: slots})
	}
	return out
}

func sumStarterFpts(assignments []SlotAssignment) float64 {
	var total float64
	for _, a := range assignments {
		if a.Slot == "BE" || a.Player == nil {
			continue
		}
		total += a.Player.AvgFpts
	}
	return total
}
