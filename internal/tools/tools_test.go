package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

type stubSnapshots struct {
	snap       *models.Snapshot
	err        error
	scoreboard []models.ScoreboardMatchup
}

func (s *stubSnapshots) Build(context.Context, string, string) (*models.Snapshot, error) {
	return s.snap, s.err
}

func (s *stubSnapshots) Scoreboard(context.Context, string, int) ([]models.ScoreboardMatchup, error) {
	return s.scoreboard, nil
}

type stubNews struct{}

func (stubNews) SearchByQuery(context.Context, string, int, int) ([]models.NewsItem, error) {
	return []models.NewsItem{{Title: "topic hit"}}, nil
}
func (stubNews) ByPlayerName(context.Context, string, int) ([]models.NewsItem, error) {
	return []models.NewsItem{{Title: "player hit"}}, nil
}
func (stubNews) RefreshPlayer(context.Context, string) (int, []models.NewsItem, error) {
	return 2, []models.NewsItem{{Title: "fresh"}}, nil
}

type stubStatus struct{}

func (stubStatus) PlayerStatus(context.Context, string, string) (models.PlayerStatusSnapshot, string, error) {
	return models.PlayerStatusSnapshot{PlayerName: "Tatum"}, "ESPN", nil
}

type erroringStatus struct{}

func (erroringStatus) PlayerStatus(context.Context, string, string) (models.PlayerStatusSnapshot, string, error) {
	return models.PlayerStatusSnapshot{}, "", errors.New("espn unavailable")
}

type stubSchedule struct{}

func (stubSchedule) GamesInWindow(context.Context, time.Time, time.Time) ([]models.NBAGame, error) {
	return nil, nil
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		MyTeam: models.Team{
			Name: "Test Team",
			Roster: []models.Player{
				{PlayerID: 1, PlayerName: "Drop Guy", AvgFpts: 20, EligibleSlots: []string{"PG", "UTIL"}},
			},
		},
		FreeAgents: []models.FreeAgent{
			{PlayerID: 2, PlayerName: "Add Guy", AvgFpts: 30, EligibleSlots: []string{"PG", "UTIL"}},
		},
		League: models.League{
			Teams: []models.Team{
				{ID: "t1", Name: "Leaders", Record: &models.Record{Wins: 10, Losses: 2}},
				{ID: "t2", Name: "Laggers", Record: &models.Record{Wins: 3, Losses: 9}},
			},
			RosterSlots: map[string]int{"PG": 1, "UTIL": 2},
		},
		Matchup:      nil,
		Transactions: []string{"Added Add Guy"},
	}
}

func buildRegistry(t *testing.T, deps Deps) *Registry {
	t.Helper()
	r := NewRegistry()
	RegisterAll(r, deps)
	return r
}

func TestRegisterAllRegistersEveryTool(t *testing.T) {
	r := buildRegistry(t, Deps{Snapshots: &stubSnapshots{snap: testSnapshot()}, News: stubNews{}, Status: stubStatus{}, Schedule: stubSchedule{}})

	want := []string{
		"get_espn_player_status", "get_player_news", "refresh_player_news",
		"get_my_roster", "get_free_agents", "get_matchup_details", "get_league_standings",
		"search_news_by_topic", "get_league_scoreboard", "get_league_activity", "get_team_season_stats",
		"simulate_move", "validate_lineup_legality",
	}
	for _, name := range want {
		_, ok := r.Get(name)
		assert.Truef(t, ok, "tool %q not registered", name)
	}
	assert.Len(t, r.All(), len(want))
}

func TestGetEspnPlayerStatusFallsBackToUnknownOnError(t *testing.T) {
	r := buildRegistry(t, Deps{Snapshots: &stubSnapshots{snap: testSnapshot()}, News: stubNews{}, Status: erroringStatus{}, Schedule: stubSchedule{}})

	out, err := r.Invoke(context.Background(), "get_espn_player_status", map[string]interface{}{"playerName": "Tatum"})
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"UNKNOWN"`)
}

func TestGetMyRosterReturnsTeamNameAndRoster(t *testing.T) {
	r := buildRegistry(t, Deps{Snapshots: &stubSnapshots{snap: testSnapshot()}, News: stubNews{}, Status: stubStatus{}, Schedule: stubSchedule{}})

	out, err := r.Invoke(context.Background(), "get_my_roster", map[string]interface{}{"teamId": "t1", "leagueId": "l1"})
	require.NoError(t, err)
	assert.Contains(t, out, "Test Team")
	assert.Contains(t, out, "Drop Guy")
}

func TestGetLeagueStandingsSortsByWinsThenLosses(t *testing.T) {
	r := buildRegistry(t, Deps{Snapshots: &stubSnapshots{snap: testSnapshot()}, News: stubNews{}, Status: stubStatus{}, Schedule: stubSchedule{}})

	out, err := r.Invoke(context.Background(), "get_league_standings", map[string]interface{}{"leagueId": "l1"})
	require.NoError(t, err)
	assert.Less(t, indexOf(out, "Leaders"), indexOf(out, "Laggers"))
}

func TestGetLeagueScoreboardReturnsMatchups(t *testing.T) {
	scoreboard := []models.ScoreboardMatchup{
		{HomeTeamID: 1, HomeScore: 110, AwayTeamID: 2, AwayScore: 98, Status: models.MatchupInProgress, ScoringPeriod: 3},
	}
	r := buildRegistry(t, Deps{Snapshots: &stubSnapshots{snap: testSnapshot(), scoreboard: scoreboard}, News: stubNews{}, Status: stubStatus{}, Schedule: stubSchedule{}})

	out, err := r.Invoke(context.Background(), "get_league_scoreboard", map[string]interface{}{"leagueId": "l1"})
	require.NoError(t, err)
	assert.Contains(t, out, `"homeTeamId":1`)
	assert.Contains(t, out, `"awayScore":98`)
}

func TestSimulateMoveReturnsErrorWhenPlayerMissing(t *testing.T) {
	r := buildRegistry(t, Deps{Snapshots: &stubSnapshots{snap: testSnapshot()}, News: stubNews{}, Status: stubStatus{}, Schedule: stubSchedule{}})

	_, err := r.Invoke(context.Background(), "simulate_move", map[string]interface{}{
		"teamId": "t1", "leagueId": "l1", "dropPlayerId": float64(999), "addPlayerId": float64(2),
	})
	assert.Error(t, err)
}

func TestSimulateMoveSucceedsForKnownPlayers(t *testing.T) {
	r := buildRegistry(t, Deps{Snapshots: &stubSnapshots{snap: testSnapshot()}, News: stubNews{}, Status: stubStatus{}, Schedule: stubSchedule{}})

	out, err := r.Invoke(context.Background(), "simulate_move", map[string]interface{}{
		"teamId": "t1", "leagueId": "l1", "dropPlayerId": float64(1), "addPlayerId": float64(2),
	})
	require.NoError(t, err)
	assert.Contains(t, out, "isLegal")
}

func TestInjectContextFillsMissingTeamAndLeague(t *testing.T) {
	r := buildRegistry(t, Deps{Snapshots: &stubSnapshots{snap: testSnapshot()}, News: stubNews{}, Status: stubStatus{}, Schedule: stubSchedule{}})

	teamID, leagueID := "t1", "l1"
	args := r.InjectContext("get_my_roster", map[string]interface{}{}, &teamID, &leagueID)
	assert.Equal(t, "t1", args["teamId"])
	assert.Equal(t, "l1", args["leagueId"])
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
