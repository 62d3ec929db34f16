// Package snapshot implements the Intelligence Snapshot Builder (C5),
// composing league/team/matchup/schedule/free-agent/transaction data into
// one immutable artifact per request. Grounded on the teacher's
// internal/services/aggregator.go DataAggregator composition-of-
// providers-and-cache shape, retargeted to ESPN fantasy views.
package snapshot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bpolitiadis/fanvise-sub000/internal/apperr"
	"github.com/bpolitiadis/fanvise-sub000/internal/cache"
	"github.com/bpolitiadis/fanvise-sub000/internal/espn"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
	"github.com/bpolitiadis/fanvise-sub000/internal/store"
)

type Builder struct {
	espnClient     *espn.Client
	leagueStore    *store.LeagueStore
	scheduleStore  *store.ScheduleStore
	cacheService   *cache.Service
	logger         *logrus.Logger
	currentPeriodFn func() int
}

func NewBuilder(espnClient *espn.Client, leagueStore *store.LeagueStore, scheduleStore *store.ScheduleStore, cacheService *cache.Service, logger *logrus.Logger) *Builder {
	return &Builder{
		espnClient:    espnClient,
		leagueStore:   leagueStore,
		scheduleStore: scheduleStore,
		cacheService:  cacheService,
		logger:        logger,
		currentPeriodFn: func() int {
			_, week := time.Now().UTC().ISOWeek()
			return week
		},
	}
}

// Build implements spec §4.5's 9-step procedure. ESPN failures degrade
// (matchup becomes absent) rather than aborting; only a missing league or
// team row fails the whole build.
func (b *Builder) Build(ctx context.Context, leagueID, teamID string) (*models.Snapshot, error) {
	league, err := cache.GetOrLoad(ctx, b.cacheService, cache.LeagueKey(leagueID), cache.LeagueTTL, func(ctx context.Context) (models.League, error) {
		l, err := b.leagueStore.ByID(ctx, leagueID)
		if err != nil {
			return models.League{}, apperr.NewLeagueNotFound(leagueID)
		}
		return *l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot builder: %w", apperr.NewLeagueNotFound(leagueID))
	}

	myTeam := league.TeamByID(teamID)
	if myTeam == nil {
		return nil, fmt.Errorf("snapshot builder: %w", apperr.NewTeamNotFound(leagueID, teamID))
	}

	currentPeriod := b.currentPeriodFn()
	var matchup *models.Matchup
	var opponent *models.Team

	matchupKey := cache.MatchupKey(leagueID, teamID, league.SeasonID)
	type matchupBundle struct {
		Matchup   models.Matchup
		MyRoster  []models.Player
		OppRoster []models.Player
		OppID     string
	}
	bundle, err := cache.GetOrLoad(ctx, b.cacheService, matchupKey, cache.MatchupTTL, func(ctx context.Context) (matchupBundle, error) {
		m, myRoster, oppRoster, err := b.espnClient.GetMatchup(ctx, leagueID, teamID, currentPeriod, league.SeasonID)
		if err != nil {
			return matchupBundle{}, err
		}
		return matchupBundle{Matchup: *m, MyRoster: myRoster, OppRoster: oppRoster}, nil
	})
	if err != nil {
		b.logger.WithError(err).WithFields(logrus.Fields{"leagueId": leagueID, "teamId": teamID}).
			Warn("snapshot builder: matchup fetch degraded, continuing without it")
	} else {
		matchup = &bundle.Matchup
		myTeam.Roster = bundle.MyRoster
		for i := range league.Teams {
			if league.Teams[i].ID != teamID {
				opp := league.Teams[i]
				opp.Roster = bundle.OppRoster
				opponent = &opp
				break
			}
		}
	}

	scheduleDensity := b.buildScheduleDensity(ctx, myTeam.Roster)

	freeAgents := b.buildFreeAgents(ctx, leagueID, league.SeasonID, myTeam, opponent)

	var transactions []string
	if txns, err := b.espnClient.GetTransactions(ctx, leagueID, teamNameIndex(league.Teams)); err == nil {
		transactions = txns
	} else {
		b.logger.WithError(err).Warn("snapshot builder: transactions fetch degraded")
	}

	return &models.Snapshot{
		League:          league,
		MyTeam:          *myTeam,
		Opponent:        opponent,
		Matchup:         matchup,
		ScheduleDensity: scheduleDensity,
		FreeAgents:      freeAgents,
		Transactions:    transactions,
		BuiltAt:         time.Now().UTC(),
	}, nil
}

// Scoreboard loads the league-wide matchup list for matchupPeriod (spec
// §4.6 get_league_scoreboard's optional matchupPeriod argument), or the
// current scoring period if matchupPeriod is 0 — unlike Build, it is
// scoped to the league only and needs no teamID.
func (b *Builder) Scoreboard(ctx context.Context, leagueID string, matchupPeriod int) ([]models.ScoreboardMatchup, error) {
	league, err := cache.GetOrLoad(ctx, b.cacheService, cache.LeagueKey(leagueID), cache.LeagueTTL, func(ctx context.Context) (models.League, error) {
		l, err := b.leagueStore.ByID(ctx, leagueID)
		if err != nil {
			return models.League{}, apperr.NewLeagueNotFound(leagueID)
		}
		return *l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot builder: %w", apperr.NewLeagueNotFound(leagueID))
	}

	period := matchupPeriod
	if period == 0 {
		period = b.currentPeriodFn()
	}
	return b.espnClient.GetScoreboard(ctx, leagueID, league.SeasonID, period)
}

// buildScheduleDensity computes manGames over the fixed 7-day window
// (spec §4.5 step 6; spec §9 Open Question notes this proxy is kept
// as-is rather than parameterized to the exact matchup window).
func (b *Builder) buildScheduleDensity(ctx context.Context, roster []models.Player) map[int]int {
	today := time.Now().UTC()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	rangeKey := cache.ScheduleKey(start.Format("2006-01-02"), end.Format("2006-01-02"))
	games, err := cache.GetOrLoad(ctx, b.cacheService, rangeKey, cache.ScheduleTTL, func(ctx context.Context) ([]models.NBAGame, error) {
		return b.scheduleStore.GamesInWindow(ctx, start, end)
	})
	if err != nil {
		b.logger.WithError(err).Warn("snapshot builder: schedule density degraded")
		return map[int]int{}
	}

	density := map[int]int{}
	for _, p := range roster {
		count := 0
		for _, g := range games {
			if g.HomeTeamID == p.ProTeamID || g.AwayTeamID == p.ProTeamID {
				count++
			}
		}
		density[p.PlayerID] = count
	}
	return density
}

// buildFreeAgents fetches the top ~150 free agents, filters owned/injured
// players, and returns the top 15 (spec §4.5 step 7).
func (b *Builder) buildFreeAgents(ctx context.Context, leagueID, seasonID string, myTeam *models.Team, opponent *models.Team) []models.FreeAgent {
	owned := map[int]bool{}
	for _, p := range myTeam.Roster {
		owned[p.PlayerID] = true
	}
	if opponent != nil {
		for _, p := range opponent.Roster {
			owned[p.PlayerID] = true
		}
	}

	key := cache.FreeAgentsKey(leagueID, seasonID, rosterIDs(myTeam.Roster), rosterIDsOrEmpty(opponent))
	candidates, err := cache.GetOrLoad(ctx, b.cacheService, key, cache.FreeAgentsTTL, func(ctx context.Context) ([]models.FreeAgent, error) {
		return b.espnClient.GetFreeAgents(ctx, leagueID, seasonID, 150)
	})
	if err != nil {
		b.logger.WithError(err).Warn("snapshot builder: free agents fetch degraded")
		return nil
	}

	var out []models.FreeAgent
	for _, fa := range candidates {
		if owned[fa.PlayerID] {
			continue
		}
		if fa.InjuryStatus == models.InjuryOut || fa.InjuryStatus == models.InjuryIR {
			continue
		}
		out = append(out, fa)
		if len(out) >= 15 {
			break
		}
	}
	return out
}

func rosterIDs(roster []models.Player) []int {
	out := make([]int, 0, len(roster))
	for _, p := range roster {
		out = append(out, p.PlayerID)
	}
	return out
}

func rosterIDsOrEmpty(t *models.Team) []int {
	if t == nil {
		return nil
	}
	return rosterIDs(t.Roster)
}

func teamNameIndex(teams []models.Team) map[int]string {
	out := map[int]string{}
	for _, t := range teams {
		if id, err := strconv.Atoi(t.ID); err == nil {
			out[id] = t.Name
		}
	}
	return out
}
