package cache

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TTLs per component, spec §5 "Shared state".
const (
	LeagueTTL     = 60 * time.Second
	MatchupTTL    = 45 * time.Second
	ScheduleTTL   = 6 * time.Hour
	FreeAgentsTTL = 5 * time.Minute
)

// Every tenant-scoped key builder below includes leagueId and, where
// relevant, teamId and seasonId, per spec §3.2's cross-tenant-safety
// invariant and §9's "cache key discipline" design note: an unkeyed cache
// wrapper is a critical bug regardless of call-site correctness.
// ScheduleKey is the exception: it is keyed on the date range alone.

func LeagueKey(leagueID string) string {
	return fmt.Sprintf("fanvise:league:%s", leagueID)
}

func MatchupKey(leagueID, teamID, seasonID string) string {
	return fmt.Sprintf("fanvise:matchup:%s:%s:%s", leagueID, teamID, seasonID)
}

func ScheduleKey(rangeStart, rangeEnd string) string {
	return fmt.Sprintf("fanvise:schedule:%s:%s", rangeStart, rangeEnd)
}

// FreeAgentsKey is additionally keyed on the sorted roster IDs of both
// teams in the matchup so that a free-agent list filtered against one
// pair of rosters is never served to a different pair (spec §4.5 step 7).
func FreeAgentsKey(leagueID, seasonID string, myRosterIDs, oppRosterIDs []int) string {
	return fmt.Sprintf("fanvise:freeagents:%s:%s:%s:%s",
		leagueID, seasonID, sortedIDs(myRosterIDs), sortedIDs(oppRosterIDs))
}

func sortedIDs(ids []int) string {
	cp := append([]int(nil), ids...)
	sort.Ints(cp)
	parts := make([]string, len(cp))
	for i, id := range cp {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
