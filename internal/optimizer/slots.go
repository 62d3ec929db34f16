// Package optimizer implements the pure, deterministic scoring and
// simulation math kernel (C4) and the deterministic pipeline that drives
// it end to end (C9, graph.go). The kernel functions perform no I/O and
// accept no context.Context. RunOptimizerGraph is the one function that
// takes a context; it reaches the snapshot, the schedule and the final
// recommendation through injected interfaces.
package optimizer

import (
	"sort"
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// slotHierarchy maps a roster slot label to the set of positions that can
// fill it (spec §4.3).
var slotHierarchy = map[string][]string{
	"PG":   {"PG"},
	"SG":   {"SG"},
	"SF":   {"SF"},
	"PF":   {"PF"},
	"C":    {"C"},
	"G":    {"PG", "SG"},
	"F":    {"SF", "PF"},
	"GF":   {"PG", "SG", "SF", "PF"},
	"FC":   {"SF", "PF", "C"},
	"UTIL": {"PG", "SG", "SF", "PF", "C"},
	"BE":   {"PG", "SG", "SF", "PF", "C"},
	"IR":   {"IR"},
}

// startingSlotOrder places specific-position labels ahead of flex labels,
// per spec §4.3.3 step 3. BE and IR are never starting slots.
var startingSlotOrder = []string{"PG", "SG", "SF", "PF", "C", "G", "F", "GF", "FC", "UTIL"}

// canFillSlot reports whether any of the player's eligible positions can
// occupy the given roster slot.
func canFillSlot(eligible []string, slot string) bool {
	allowed, ok := slotHierarchy[slot]
	if !ok {
		return false
	}
	for _, e := range eligible {
		for _, a := range allowed {
			if e == a {
				return true
			}
		}
	}
	return false
}

// ConfidenceTier derives the Confidence enum from injury status and games
// played (spec §4.3 "Confidence tier").
func ConfidenceTier(injuryStatus models.InjuryStatus, gamesPlayed int) models.Confidence {
	switch injuryStatus {
	case models.InjuryDTD, models.InjuryGTD, models.InjuryQuestionable:
		return models.ConfidenceLow
	}
	switch {
	case gamesPlayed >= 15:
		return models.ConfidenceHigh
	case gamesPlayed >= 7:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// DefaultWindow returns [now, next Sunday 23:59:59.999] in UTC, per spec
// §4.3 "Window default".
func DefaultWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	daysUntilSunday := (int(time.Sunday) - int(now.Weekday()) + 7) % 7
	end := now.AddDate(0, 0, daysUntilSunday)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999000000, time.UTC)
	if end.Before(now) {
		end = end.AddDate(0, 0, 7)
	}
	return now, end
}

// dateKey formats t as its UTC YYYY-MM-DD date key.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// distinctGameDates returns the sorted, de-duplicated date keys in
// [start, end] on which any of the given pro teams has a game.
func distinctGameDates(games []models.NBAGame, start, end time.Time, proTeamIDs map[int]bool) []string {
	seen := map[string]bool{}
	for _, g := range games {
		if g.Date.Before(start) || g.Date.After(end) {
			continue
		}
		if !proTeamIDs[g.HomeTeamID] && !proTeamIDs[g.AwayTeamID] {
			continue
		}
		seen[dateKey(g.Date)] = true
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// playingProTeamIDsOnDate returns the set of pro-team IDs with a game on
// the given date key.
func playingProTeamIDsOnDate(games []models.NBAGame, date string) map[int]bool {
	out := map[int]bool{}
	for _, g := range games {
		if dateKey(g.Date) != date {
			continue
		}
		out[g.HomeTeamID] = true
		out[g.AwayTeamID] = true
	}
	return out
}

func round1(f float64) float64 {
	return float64(int(f*10+sign(f)*0.5)) / 10
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
