package tools

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
	"github.com/bpolitiadis/fanvise-sub000/internal/optimizer"
)

// SnapshotProvider is the subset of snapshot.Builder the tool registry
// depends on.
type SnapshotProvider interface {
	Build(ctx context.Context, leagueID, teamID string) (*models.Snapshot, error)
	Scoreboard(ctx context.Context, leagueID string, matchupPeriod int) ([]models.ScoreboardMatchup, error)
}

// NewsSearcher is the subset of internal/llm + internal/store the news
// tools depend on.
type NewsSearcher interface {
	SearchByQuery(ctx context.Context, query string, limit int, daysBack int) ([]models.NewsItem, error)
	ByPlayerName(ctx context.Context, playerName string, limit int) ([]models.NewsItem, error)
	RefreshPlayer(ctx context.Context, playerName string) (int, []models.NewsItem, error)
}

// StatusLookup is the subset of internal/espn + internal/store the
// player-status tool depends on.
type StatusLookup interface {
	PlayerStatus(ctx context.Context, leagueID, playerName string) (models.PlayerStatusSnapshot, string, error)
}

// ScheduleLookup preloads games for a window, shared with the optimizer.
type ScheduleLookup interface {
	GamesInWindow(ctx context.Context, start, end time.Time) ([]models.NBAGame, error)
}

// Deps bundles every collaborator the spec §4.6 tools delegate to.
type Deps struct {
	Snapshots SnapshotProvider
	News      NewsSearcher
	Status    StatusLookup
	Schedule  ScheduleLookup
}

// RegisterAll builds and registers every tool named in spec §4.6's table.
func RegisterAll(r *Registry, deps Deps) {
	r.Register(Tool{
		Name:        "get_espn_player_status",
		Description: "Current injury status for one player. Falls back from ESPN player card to DB snapshot to UNKNOWN. Call this first for any injury question.",
		InputSchema: schema("playerName", "string", true),
		RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			name, _ := args["playerName"].(string)
			leagueID, _ := args["leagueId"].(string)
			status, source, err := deps.Status.PlayerStatus(ctx, leagueID, name)
			if err != nil {
				return map[string]interface{}{"playerName": name, "status": "UNKNOWN", "source": source}, nil
			}
			return map[string]interface{}{"playerName": name, "status": status, "source": source}, nil
		},
	})

	r.Register(Tool{
		Name:        "get_player_news",
		Description: "Semantic news search scoped to a player. Returns recent news items with sentiment and category. Use before refresh_player_news.",
		InputSchema: schema("playerName", "string", true),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			name, _ := args["playerName"].(string)
			limit := intArg(args, "limit", 10)
			items, err := deps.News.ByPlayerName(ctx, name, limit)
			if err != nil {
				return nil, err
			}
			return items, nil
		},
	})

	r.Register(Tool{
		Name:        "refresh_player_news",
		Description: "Live RSS pull and ingest for one player. Use only if get_player_news returned 0 results.",
		InputSchema: schema("playerName", "string", true),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			name, _ := args["playerName"].(string)
			refreshed, items, err := deps.News.RefreshPlayer(ctx, name)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"refreshed": refreshed, "items": items}, nil
		},
	})

	r.Register(Tool{
		Name:        "get_my_roster",
		Description: "Roster with schedule, dropScore, and reasons. Returns {teamName, source:'ESPN', roster}. Call this first for any roster question; free agents never appear here.",
		InputSchema: schema("teamId", "string", true),
		RequiresTeam: true, RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			teamID, _ := args["teamId"].(string)
			leagueID, _ := args["leagueId"].(string)
			snap, err := deps.Snapshots.Build(ctx, leagueID, teamID)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"teamName": snap.MyTeam.Name, "source": "ESPN", "roster": snap.MyTeam.Roster}, nil
		},
	})

	r.Register(Tool{
		Name:        "get_free_agents",
		Description: "Free-agent candidates, optionally with schedule and streamScore. Sorted by streamScore when schedule is included.",
		InputSchema: schema("limit", "integer", false),
		RequiresTeam: true, RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			teamID, _ := args["teamId"].(string)
			leagueID, _ := args["leagueId"].(string)
			limit := intArg(args, "limit", 15)
			snap, err := deps.Snapshots.Build(ctx, leagueID, teamID)
			if err != nil {
				return nil, err
			}
			fas := snap.FreeAgents
			if limit > 0 && len(fas) > limit {
				fas = fas[:limit]
			}
			return fas, nil
		},
	})

	r.Register(Tool{
		Name:        "get_matchup_details",
		Description: "Current fantasy score and remaining games for the active matchup.",
		InputSchema: schema("teamId", "string", true),
		RequiresTeam: true, RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			teamID, _ := args["teamId"].(string)
			leagueID, _ := args["leagueId"].(string)
			snap, err := deps.Snapshots.Build(ctx, leagueID, teamID)
			if err != nil {
				return nil, err
			}
			if snap.Matchup == nil {
				return map[string]interface{}{"source": "ESPN_UNAVAILABLE"}, nil
			}
			return snap.Matchup, nil
		},
	})

	r.Register(Tool{
		Name:        "get_league_standings",
		Description: "Full standings sorted by wins then losses.",
		RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			leagueID, _ := args["leagueId"].(string)
			teamID, _ := args["teamId"].(string)
			snap, err := deps.Snapshots.Build(ctx, leagueID, teamID)
			if err != nil {
				return nil, err
			}
			teams := append([]models.Team(nil), snap.League.Teams...)
			sort.SliceStable(teams, func(i, j int) bool {
				ri, rj := teams[i].Record, teams[j].Record
				if ri == nil || rj == nil {
					return false
				}
				if ri.Wins != rj.Wins {
					return ri.Wins > rj.Wins
				}
				return ri.Losses < rj.Losses
			})
			return teams, nil
		},
	})

	r.Register(Tool{
		Name:        "search_news_by_topic",
		Description: "Broad semantic news search across all players by free-text topic.",
		InputSchema: schema("query", "string", true),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			query, _ := args["query"].(string)
			limit := intArg(args, "limit", 10)
			return deps.News.SearchByQuery(ctx, query, limit, 14)
		},
	})

	r.Register(Tool{
		Name:        "get_league_scoreboard",
		Description: "All matchups in the current scoring period.",
		InputSchema: schema("matchupPeriod", "integer", false),
		RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			leagueID, _ := args["leagueId"].(string)
			period := intArg(args, "matchupPeriod", 0)
			matchups, err := deps.Snapshots.Scoreboard(ctx, leagueID, period)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"matchups": matchups}, nil
		},
	})

	r.Register(Tool{
		Name:        "get_league_activity",
		Description: "Recent executed waiver/free-agent/trade transactions.",
		RequiresLeague: true, RequiresTeam: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			leagueID, _ := args["leagueId"].(string)
			teamID, _ := args["teamId"].(string)
			snap, err := deps.Snapshots.Build(ctx, leagueID, teamID)
			if err != nil {
				return nil, err
			}
			return snap.Transactions, nil
		},
	})

	r.Register(Tool{
		Name:        "get_team_season_stats",
		Description: "Season aggregates per team, sorted by fantasy points for.",
		RequiresLeague: true, RequiresTeam: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			leagueID, _ := args["leagueId"].(string)
			teamID, _ := args["teamId"].(string)
			snap, err := deps.Snapshots.Build(ctx, leagueID, teamID)
			if err != nil {
				return nil, err
			}
			return snap.League.Teams, nil
		},
	})

	r.Register(Tool{
		Name:        "simulate_move",
		Description: "Deterministic simulation of a drop/add pair over the current window. Wraps the optimizer's pure scoring math.",
		RequiresTeam: true, RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			teamID, _ := args["teamId"].(string)
			leagueID, _ := args["leagueId"].(string)
			dropID := intArg(args, "dropPlayerId", 0)
			addID := intArg(args, "addPlayerId", 0)

			snap, err := deps.Snapshots.Build(ctx, leagueID, teamID)
			if err != nil {
				return nil, err
			}
			var drop *models.Player
			for i := range snap.MyTeam.Roster {
				if snap.MyTeam.Roster[i].PlayerID == dropID {
					drop = &snap.MyTeam.Roster[i]
				}
			}
			var add *models.FreeAgent
			for i := range snap.FreeAgents {
				if snap.FreeAgents[i].PlayerID == addID {
					add = &snap.FreeAgents[i]
				}
			}
			if drop == nil || add == nil {
				return nil, fmt.Errorf("simulate_move: drop or add player not found in snapshot")
			}
			start, end := optimizer.DefaultWindow(time.Now())
			games, err := deps.Schedule.GamesInWindow(ctx, start, end)
			if err != nil {
				return nil, err
			}
			result := optimizer.SimulateMove(*drop, *add, snap.MyTeam.Roster, snap.League.RosterSlots, &start, &end, games)
			return result, nil
		},
	})

	r.Register(Tool{
		Name:        "validate_lineup_legality",
		Description: "Lineup legality check over the current roster. Takes no date argument; every rostered player is treated as playing.",
		RequiresTeam: true, RequiresLeague: true,
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			teamID, _ := args["teamId"].(string)
			leagueID, _ := args["leagueId"].(string)
			snap, err := deps.Snapshots.Build(ctx, leagueID, teamID)
			if err != nil {
				return nil, err
			}
			playing := map[int]bool{}
			for _, p := range snap.MyTeam.Roster {
				playing[p.PlayerID] = true
			}
			result := optimizer.ValidateLineupLegality(optimizer.LegalityCheckInput{
				Roster: snap.MyTeam.Roster, RosterSlots: snap.League.RosterSlots, PlayingPlayerIDs: playing,
			})
			return result, nil
		},
	})
}

func schema(field, typ string, required bool) map[string]interface{} {
	props := map[string]interface{}{
		field: map[string]interface{}{"type": typ},
	}
	s := map[string]interface{}{"type": "object", "properties": props}
	if required {
		s["required"] = []string{field}
	}
	return s
}

func intArg(args map[string]interface{}, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}
