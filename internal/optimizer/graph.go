package optimizer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/apperr"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// SnapshotFetcher supplies the snapshot RunOptimizerGraph works from.
// It, ScheduleLoader and Recommender are RunOptimizerGraph's only
// suspending dependencies; the scoring, lineup and simulation functions
// are pure. Implemented by internal/snapshot.Builder.
type SnapshotFetcher interface {
	Build(ctx context.Context, leagueID, teamID string) (*models.Snapshot, error)
}

// ScheduleLoader preloads every game in the window exactly once, per
// spec §9 "determinism under concurrency".
type ScheduleLoader interface {
	GamesInWindow(ctx context.Context, start, end time.Time) ([]models.NBAGame, error)
}

// Recommender produces the optional final natural-language recommendation
// (spec §4.4 step 9); on failure the caller falls back to a templated
// string built from rankedMoves.
type Recommender interface {
	Recommend(ctx context.Context, moves []models.MoveRecommendation) (string, error)
}

const rankedMoveCount = 3

// Result is the output of RunOptimizerGraph.
type Result struct {
	Recommendation string
	RankedMoves    []models.MoveRecommendation
	WindowStart    time.Time
	WindowEnd      time.Time
	FetchedAt      time.Time
}

// RunOptimizerGraph implements C9: fetch snapshot, score candidates,
// simulate pairs, rank, and optionally narrate.
func RunOptimizerGraph(ctx context.Context, leagueID, teamID string, snapshots SnapshotFetcher, schedule ScheduleLoader, recommender Recommender) (*Result, error) {
	snap, err := snapshots.Build(ctx, leagueID, teamID)
	if err != nil {
		return nil, fmt.Errorf("optimizer graph: build snapshot: %w", err)
	}

	roster := snap.MyTeam.Roster
	rosterSlots := snap.League.RosterSlots
	leagueAvg := meanPositiveAvgFpts(roster)

	windowStart, windowEnd := DefaultWindow(time.Now())
	games, err := schedule.GamesInWindow(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("optimizer graph: load schedule: %w", err)
	}

	drops := make([]models.DropScore, 0, len(roster))
	for _, p := range roster {
		drops = append(drops, ScoreDroppingCandidate(p, &windowStart, &windowEnd, leagueAvg, games))
	}
	sort.SliceStable(drops, func(i, j int) bool { return drops[i].Score > drops[j].Score })

	streams := make([]models.StreamScore, 0, len(snap.FreeAgents))
	for _, fa := range snap.FreeAgents {
		streams = append(streams, ScoreStreamingCandidate(fa, &windowStart, &windowEnd, games))
	}
	sort.SliceStable(streams, func(i, j int) bool { return streams[i].Score > streams[j].Score })

	kDrops := min(5, len(drops))
	kStreams := min(10, len(streams))

	type simOutcome struct {
		sim   models.SimulateMoveResult
		drop  models.Player
		add   models.FreeAgent
		dropS models.DropScore
		addS  models.StreamScore
	}

	var outcomes []simOutcome
	rosterByID := indexRosterByID(roster)
	faByID := indexFAByID(snap.FreeAgents)

	for i := 0; i < kDrops; i++ {
		dropPlayer, ok := rosterByID[drops[i].PlayerID]
		if !ok {
			continue
		}
		for j := 0; j < kStreams; j++ {
			addFA, ok := faByID[streams[j].PlayerID]
			if !ok {
				continue
			}
			if !slotsCompatible(dropPlayer.EligibleSlots, addFA.EligibleSlots) {
				continue
			}
			sim := SimulateMove(dropPlayer, addFA, roster, rosterSlots, &windowStart, &windowEnd, games)
			outcomes = append(outcomes, simOutcome{sim: sim, drop: dropPlayer, add: addFA, dropS: drops[i], addS: streams[j]})
		}
	}

	legal := make([]simOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.sim.IsLegal {
			legal = append(legal, o)
		}
	}

	candidates := legal
	if len(legal) == 0 {
		candidates = outcomes
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.sim.NetGain != b.sim.NetGain {
			return a.sim.NetGain > b.sim.NetGain
		}
		if a.add.AvgFpts != b.add.AvgFpts {
			return a.add.AvgFpts > b.add.AvgFpts
		}
		return a.add.PercentOwned < b.add.PercentOwned
	})

	n := min(rankedMoveCount, len(candidates))
	rankedMoves := make([]models.MoveRecommendation, 0, n)
	for i := 0; i < n; i++ {
		c := candidates[i]
		rankedMoves = append(rankedMoves, models.MoveRecommendation{
			Rank:                i + 1,
			DropPlayerName:      c.drop.PlayerName,
			AddPlayerName:       c.add.PlayerName,
			DropScore:           c.dropS.Score,
			StreamScore:         c.addS.Score,
			BaselineWindowFpts:  c.sim.BaselineWindowFpts,
			ProjectedWindowFpts: c.sim.ProjectedWindowFpts,
			NetGain:             c.sim.NetGain,
			Confidence:          c.sim.Confidence,
			Warnings:            c.sim.Warnings,
		})
	}

	if len(rankedMoves) == 0 {
		return nil, fmt.Errorf("optimizer graph: %w", apperr.ErrNoLegalMoves)
	}

	recommendation := templateRecommendation(rankedMoves)
	if recommender != nil {
		if text, err := recommender.Recommend(ctx, rankedMoves); err == nil && text != "" {
			recommendation = text
		}
	}

	return &Result{
		Recommendation: recommendation,
		RankedMoves:    rankedMoves,
		WindowStart:    windowStart,
		WindowEnd:      windowEnd,
		FetchedAt:      time.Now().UTC(),
	}, nil
}

func slotsCompatible(dropSlots, addSlots []string) bool {
	for _, d := range dropSlots {
		for _, a := range addSlots {
			if d == a {
				return true
			}
		}
	}
	// Fall back to "both can fill a common UTIL-equivalent slot".
	return canFillSlot(dropSlots, "UTIL") && canFillSlot(addSlots, "UTIL")
}

func templateRecommendation(moves []models.MoveRecommendation) string {
	if len(moves) == 0 {
		return "No legal moves available in the current window."
	}
	top := moves[0]
	return fmt.Sprintf("Drop %s for %s: projected net gain of %.1f fantasy points over the window.",
		top.DropPlayerName, top.AddPlayerName, top.NetGain)
}

func meanPositiveAvgFpts(roster []models.Player) float64 {
	var sum float64
	var count int
	for _, p := range roster {
		if p.AvgFpts > 0 {
			sum += p.AvgFpts
			count++
		}
	}
	if count < 3 {
		return defaultLeagueAvgFpts
	}
	return sum / float64(count)
}

func indexRosterByID(roster []models.Player) map[int]models.Player {
	out := make(map[int]models.Player, len(roster))
	for _, p := range roster {
		out[p.PlayerID] = p
	}
	return out
}

func indexFAByID(fas []models.FreeAgent) map[int]models.FreeAgent {
	out := make(map[int]models.FreeAgent, len(fas))
	for _, f := range fas {
		out[f.PlayerID] = f
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
