package optimizer

import (
	"sort"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// SlotAssignment pairs a starting slot label with the player assigned to
// it (or nil if unfilled).
type SlotAssignment struct {
	Slot   string
	Player *models.Player
}

// BuildDailyLineup implements spec §4.3.3. rosterSlots maps slot label to
// the number of openings in that slot, drawn from League.RosterSlots.
func BuildDailyLineup(roster []models.Player, rosterSlots map[string]int, playingProTeamIDs map[int]bool) []SlotAssignment {
	eligible := make([]models.Player, 0, len(roster))
	for _, p := range roster {
		if !playingProTeamIDs[p.ProTeamID] {
			continue
		}
		if p.InjuryStatus == models.InjuryOut || p.InjuryStatus == models.InjuryIR {
			continue
		}
		eligible = append(eligible, p)
	}
	inRosterOrder := append([]models.Player(nil), eligible...)

	// Sort descending by avgFpts; ties keep earlier input order (stable
	// sort over the already roster-ordered slice).
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].AvgFpts > eligible[j].AvgFpts
	})

	assigned := map[int]bool{}
	var out []SlotAssignment

	for _, slot := range startingSlotOrder {
		count := rosterSlots[slot]
		for i := 0; i < count; i++ {
			var fill *models.Player
			for idx := range eligible {
				p := &eligible[idx]
				if assigned[p.PlayerID] {
					continue
				}
				if canFillSlot(p.EligibleSlots, slot) {
					fill = p
					break
				}
			}
			if fill != nil {
				assigned[fill.PlayerID] = true
				cp := *fill
				out = append(out, SlotAssignment{Slot: slot, Player: &cp})
			} else {
				out = append(out, SlotAssignment{Slot: slot, Player: nil})
			}
		}
	}

	// Remaining eligible players fill BE up to its count, in roster order.
	benchCount := rosterSlots["BE"]
	benched := 0
	for idx := range inRosterOrder {
		if benched >= benchCount {
			break
		}
		p := &inRosterOrder[idx]
		if assigned[p.PlayerID] {
			continue
		}
		assigned[p.PlayerID] = true
		cp := *p
		out = append(out, SlotAssignment{Slot: "BE", Player: &cp})
		benched++
	}

	return out
}

// LegalityCheckInput bundles the arguments for ValidateLineupLegality.
type LegalityCheckInput struct {
	Roster            []models.Player
	RosterSlots       map[string]int
	PlayingPlayerIDs  map[int]bool
}

// LegalityResult is the outcome of a legality check (spec §4.3.4).
type LegalityResult struct {
	IsLegal            bool
	UnfilledStartingSlots []string
	BenchedWithGames   []models.Player
	Warnings           []string
}

// ValidateLineupLegality implements spec §4.3.4: the same greedy
// assignment as BuildDailyLineup, restricted to players in
// PlayingPlayerIDs.
func ValidateLineupLegality(in LegalityCheckInput) LegalityResult {
	playingProTeamIDs := map[int]bool{}
	playingRoster := make([]models.Player, 0, len(in.Roster))
	for _, p := range in.Roster {
		if in.PlayingPlayerIDs[p.PlayerID] {
			playingRoster = append(playingRoster, p)
			playingProTeamIDs[p.ProTeamID] = true
		}
	}

	assignments := BuildDailyLineup(playingRoster, in.RosterSlots, playingProTeamIDs)

	// startingSlotPlayerIDs tracks only players placed in a starting slot
	// (not BE): spec §4.3.4 defines benchedWithGames as playing players who
	// could not be assigned to *any starting slot*, which includes players
	// correctly routed to the bench, not just roster overflow beyond bench
	// capacity.
	var unfilled []string
	startingSlotPlayerIDs := map[int]bool{}
	for _, a := range assignments {
		if a.Slot == "BE" {
			continue
		}
		if a.Player == nil {
			unfilled = append(unfilled, a.Slot)
		} else {
			startingSlotPlayerIDs[a.Player.PlayerID] = true
		}
	}

	var benchedWithGames []models.Player
	for _, p := range playingRoster {
		if !startingSlotPlayerIDs[p.PlayerID] {
			benchedWithGames = append(benchedWithGames, p)
		}
	}

	var warnings []string
	if len(unfilled) > 0 {
		warnings = append(warnings, "unfilled starting slots: "+joinStrings(unfilled))
	}
	if len(benchedWithGames) > 0 {
		names := make([]string, 0, len(benchedWithGames))
		for _, p := range benchedWithGames {
			names = append(names, p.PlayerName)
		}
		warnings = append(warnings, "benched players with games: "+joinStrings(names))
	}

	return LegalityResult{
		IsLegal:               len(unfilled) == 0,
		UnfilledStartingSlots: unfilled,
		BenchedWithGames:      benchedWithGames,
		Warnings:              warnings,
	}
}

func joinStrings(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
