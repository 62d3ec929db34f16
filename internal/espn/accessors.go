package espn

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// GetLeagueSettings fetches mSettings + mTeam and assembles a League with
// empty rosters (rosters are fetched separately via GetMatchup).
func (c *Client) GetLeagueSettings(ctx context.Context, leagueID, seasonID string) (*models.League, error) {
	var settings leagueSettingsResponse
	if err := c.get(ctx, leagueID, []string{ViewSettings}, &settings); err != nil {
		return nil, fmt.Errorf("espn: get league settings: %w", err)
	}

	var teamsResp leagueTeamsResponse
	if err := c.get(ctx, leagueID, []string{ViewTeam}, &teamsResp); err != nil {
		return nil, fmt.Errorf("espn: get league teams: %w", err)
	}

	rosterSlots := map[string]int{}
	for slotID, count := range settings.Settings.RosterSettings.LineupSlotCounts {
		id, err := strconv.Atoi(slotID)
		if err != nil {
			continue
		}
		if label, ok := SlotIDToLabel[id]; ok && count > 0 {
			rosterSlots[label] = count
		}
	}

	teams := make([]models.Team, 0, len(teamsResp.Teams))
	for _, t := range teamsResp.Teams {
		manager := ""
		if len(t.Owners) > 0 {
			manager = t.Owners[0]
		}
		teams = append(teams, models.Team{
			ID:      strconv.Itoa(t.ID),
			Name:    teamDisplayName(t),
			Abbrev:  t.Abbrev,
			Manager: manager,
			Record: &models.Record{
				Wins: t.Record.Overall.Wins, Losses: t.Record.Overall.Losses, Ties: t.Record.Overall.Ties,
			},
		})
	}

	return &models.League{
		ID:          leagueID,
		SeasonID:    seasonID,
		Name:        settings.Settings.Name,
		RosterSlots: rosterSlots,
		Teams:       teams,
	}, nil
}

func teamDisplayName(t teamResponse) string {
	if t.Location != "" || t.Nickname != "" {
		return fmt.Sprintf("%s %s", t.Location, t.Nickname)
	}
	return fmt.Sprintf("Team %d", t.ID)
}

// GetMatchup fetches the live matchup for teamID at the current scoring
// period, filtering schedule entries per spec §4.5 step 3: team in
// {home,away} AND matchupPeriodId == currentPeriod, falling back to any
// matchup containing the team if the current period has none.
func (c *Client) GetMatchup(ctx context.Context, leagueID, teamID string, currentPeriod int, seasonID string) (*models.Matchup, []models.Player, []models.Player, error) {
	var resp matchupResponse
	views := []string{ViewMatchupScore, ViewScoreboard, ViewRoster, ViewRosterForPeriod}
	if err := c.get(ctx, leagueID, views, &resp); err != nil {
		return nil, nil, nil, fmt.Errorf("espn: get matchup: %w", err)
	}

	teamIDInt, _ := strconv.Atoi(teamID)

	var fallback *matchupScheduleEntry
	for i := range resp.Schedule {
		s := resp.Schedule[i]
		if s.Home.TeamID != teamIDInt && s.Away.TeamID != teamIDInt {
			continue
		}
		if s.MatchupPeriodID == currentPeriod {
			return buildMatchup(s, teamIDInt, seasonID)
		}
		if fallback == nil {
			fallback = &resp.Schedule[i]
		}
	}
	if fallback != nil {
		return buildMatchup(*fallback, teamIDInt, seasonID)
	}

	return nil, nil, nil, fmt.Errorf("espn: %w", errNoMatchupForPeriod)
}

// GetAllRosters fetches every team's current roster for the league's
// active scoring period, for the status-sync job's "collect up to 200
// roster player IDs" step (spec §4.7). Results are deduplicated by
// player id and capped at 200.
func (c *Client) GetAllRosters(ctx context.Context, leagueID, seasonID string) ([]models.Player, error) {
	var resp matchupResponse
	views := []string{ViewMatchupScore, ViewScoreboard, ViewRoster, ViewRosterForPeriod}
	if err := c.get(ctx, leagueID, views, &resp); err != nil {
		return nil, fmt.Errorf("espn: get all rosters: %w", err)
	}

	const limit = 200
	seen := map[int]bool{}
	var out []models.Player
	for _, s := range resp.Schedule {
		for _, side := range []matchupTeamResponse{s.Home, s.Away} {
			for _, p := range mapRoster(side.RosterForCurrentScoringPeriod.Entries, seasonID) {
				if seen[p.PlayerID] {
					continue
				}
				seen[p.PlayerID] = true
				out = append(out, p)
				if len(out) >= limit {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

// GetScoreboard fetches every matchup in currentPeriod across the whole
// league (spec §4.6 get_league_scoreboard), unlike GetMatchup which is
// always scoped to one team's own matchup.
func (c *Client) GetScoreboard(ctx context.Context, leagueID, seasonID string, currentPeriod int) ([]models.ScoreboardMatchup, error) {
	var resp matchupResponse
	views := []string{ViewMatchupScore, ViewScoreboard}
	if err := c.get(ctx, leagueID, views, &resp); err != nil {
		return nil, fmt.Errorf("espn: get scoreboard: %w", err)
	}

	out := make([]models.ScoreboardMatchup, 0, len(resp.Schedule))
	for _, s := range resp.Schedule {
		if s.MatchupPeriodID != currentPeriod {
			continue
		}
		status := models.MatchupInProgress
		if s.Winner != "" && s.Winner != "UNDECIDED" {
			status = models.MatchupCompleted
		}
		out = append(out, models.ScoreboardMatchup{
			HomeTeamID:    s.Home.TeamID,
			HomeScore:     s.Home.TotalPoints,
			AwayTeamID:    s.Away.TeamID,
			AwayScore:     s.Away.TotalPoints,
			Status:        status,
			ScoringPeriod: s.MatchupPeriodID,
		})
	}
	return out, nil
}

func buildMatchup(s matchupScheduleEntry, teamIDInt int, seasonID string) (*models.Matchup, []models.Player, []models.Player, error) {
	var myEntry, oppEntry matchupTeamResponse
	if s.Home.TeamID == teamIDInt {
		myEntry, oppEntry = s.Home, s.Away
	} else {
		myEntry, oppEntry = s.Away, s.Home
	}

	status := models.MatchupInProgress
	if s.Winner != "" && s.Winner != "UNDECIDED" {
		status = models.MatchupCompleted
	}

	matchup := &models.Matchup{
		MyScore:       myEntry.TotalPoints,
		OpponentScore: oppEntry.TotalPoints,
		Differential:  myEntry.TotalPoints - oppEntry.TotalPoints,
		Status:        status,
		ScoringPeriod: s.MatchupPeriodID,
	}

	myRoster := mapRoster(myEntry.RosterForCurrentScoringPeriod.Entries, seasonID)
	oppRoster := mapRoster(oppEntry.RosterForCurrentScoringPeriod.Entries, seasonID)
	return matchup, myRoster, oppRoster, nil
}

func mapRoster(entries []espnPlayerEntry, seasonID string) []models.Player {
	seasonIDInt, _ := strconv.Atoi(seasonID)
	out := make([]models.Player, 0, len(entries))
	for _, e := range entries {
		p := e.PlayerPoolEntry.Player
		var avg, total float64
		var gamesPlayed int
		for _, st := range p.Stats {
			if st.SeasonID == seasonIDInt && st.StatSourceID == 0 && st.StatSplitTypeID == 0 {
				avg = st.AppliedAverage
				total = st.AppliedTotal
				if avg > 0 {
					gamesPlayed = int(total / avg)
				}
			}
		}
		out = append(out, models.Player{
			PlayerID:      p.ID,
			PlayerName:    p.FullName,
			Position:      PositionIDToLabel[p.DefaultPositionID],
			EligibleSlots: eligibleSlotLabels(p.EligibleSlots),
			ProTeamID:     p.ProTeamID,
			InjuryStatus:  mapInjuryStatus(p.InjuryStatus),
			AvgFpts:       avg,
			TotalFpts:     total,
			GamesPlayed:   gamesPlayed,
		})
	}
	return out
}

func eligibleSlotLabels(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if label, ok := SlotIDToLabel[id]; ok {
			out = append(out, label)
		}
	}
	return out
}

func mapInjuryStatus(s string) models.InjuryStatus {
	switch s {
	case "OUT":
		return models.InjuryOut
	case "DAY_TO_DAY":
		return models.InjuryDTD
	case "GAME_TIME_DECISION":
		return models.InjuryGTD
	case "QUESTIONABLE":
		return models.InjuryQuestionable
	case "SUSPENSION":
		return models.InjurySuspended
	case "INJURY_RESERVE":
		return models.InjuryIR
	default:
		return models.InjuryActive
	}
}

// GetFreeAgents fetches up to ~150 free agents via kona_player_info,
// mapping each into models.FreeAgent (spec §4.5 step 7; filtering by
// ownership happens in the snapshot builder).
func (c *Client) GetFreeAgents(ctx context.Context, leagueID, seasonID string, limit int) ([]models.FreeAgent, error) {
	var resp freeAgentsResponse
	if err := c.get(ctx, leagueID, []string{ViewKonaPlayerInfo}, &resp); err != nil {
		return nil, fmt.Errorf("espn: get free agents: %w", err)
	}

	seasonIDInt, _ := strconv.Atoi(seasonID)
	out := make([]models.FreeAgent, 0, len(resp.Players))
	for _, e := range resp.Players {
		p := e.PlayerPoolEntry.Player
		var avg float64
		var gamesPlayed int
		for _, st := range p.Stats {
			if st.SeasonID == seasonIDInt && st.StatSourceID == 0 && st.StatSplitTypeID == 0 {
				avg = st.AppliedAverage
				if avg > 0 && st.AppliedTotal > 0 {
					gamesPlayed = int(st.AppliedTotal / avg)
				}
			}
		}
		out = append(out, models.FreeAgent{
			PlayerID:      p.ID,
			PlayerName:    p.FullName,
			Position:      PositionIDToLabel[p.DefaultPositionID],
			EligibleSlots: eligibleSlotLabels(p.EligibleSlots),
			ProTeamID:     p.ProTeamID,
			InjuryStatus:  mapInjuryStatus(p.InjuryStatus),
			AvgFpts:       avg,
			GamesPlayed:   gamesPlayed,
			PercentOwned:  p.PercentOwned,
		})
		if len(out) >= limit {
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgFpts > out[j].AvgFpts })
	return out, nil
}

// GetPlayerCard fetches one player's current card via kona_player_info
// scoped to that player id, for the status-sync job's per-player
// throttled loop (spec §4.7 "status snapshot").
func (c *Client) GetPlayerCard(ctx context.Context, leagueID string, playerID int) (*models.PlayerStatusSnapshot, error) {
	filter := fmt.Sprintf(`{"players":{"filterIds":{"value":[%d]}}}`, playerID)
	var resp freeAgentsResponse
	if err := c.getFiltered(ctx, leagueID, []string{ViewKonaPlayerInfo}, filter, &resp); err != nil {
		return nil, fmt.Errorf("espn: get player card: %w", err)
	}
	return firstPlayerCard(resp, fmt.Sprintf("player %d not found", playerID))
}

// GetPlayerCardByName resolves a player card by fuzzy name match, for
// callers that only have a display name (spec §4.6 get_espn_player_status).
// ESPN's kona_player_info accepts a filterNameSearch filter in place of
// filterIds; the first match is returned.
func (c *Client) GetPlayerCardByName(ctx context.Context, leagueID, playerName string) (*models.PlayerStatusSnapshot, error) {
	filter := fmt.Sprintf(`{"players":{"filterNameSearch":{"value":[%q]}}}`, playerName)
	var resp freeAgentsResponse
	if err := c.getFiltered(ctx, leagueID, []string{ViewKonaPlayerInfo}, filter, &resp); err != nil {
		return nil, fmt.Errorf("espn: get player card by name: %w", err)
	}
	return firstPlayerCard(resp, fmt.Sprintf("no player matching %q", playerName))
}

func firstPlayerCard(resp freeAgentsResponse, notFoundMsg string) (*models.PlayerStatusSnapshot, error) {
	if len(resp.Players) == 0 {
		return nil, fmt.Errorf("espn: %s", notFoundMsg)
	}
	p := resp.Players[0].PlayerPoolEntry.Player

	var injuryStatusPtr *string
	if p.InjuryStatus != "" {
		s := string(mapInjuryStatus(p.InjuryStatus))
		injuryStatusPtr = &s
	}

	return &models.PlayerStatusSnapshot{
		PlayerID:     p.ID,
		PlayerName:   p.FullName,
		ProTeamID:    p.ProTeamID,
		Injured:      p.InjuryStatus != "" && p.InjuryStatus != "ACTIVE",
		InjuryStatus: injuryStatusPtr,
		OutForSeason: p.InjuryStatus == "INJURY_RESERVE",
		LastSyncedAt: time.Now().UTC(),
	}, nil
}

// GetTransactions fetches recent executed waiver/free-agent/trade
// transactions (spec §4.5 step 8), newest first, capped at 10.
func (c *Client) GetTransactions(ctx context.Context, leagueID string, teamNames map[int]string) ([]string, error) {
	var resp transactionsResponse
	if err := c.get(ctx, leagueID, []string{ViewTransactions}, &resp); err != nil {
		return nil, fmt.Errorf("espn: get transactions: %w", err)
	}

	type txn struct {
		text string
		date int64
	}
	var txns []txn
	for _, t := range resp.Transactions {
		if t.Status != "EXECUTED" {
			continue
		}
		if t.Type != "WAIVER" && t.Type != "FREEAGENT" && t.Type != "TRADE" {
			continue
		}
		name := teamNames[t.TeamID]
		if name == "" {
			name = fmt.Sprintf("Team %d", t.TeamID)
		}
		txns = append(txns, txn{text: fmt.Sprintf("%s executed a %s transaction", name, t.Type), date: t.ProcessDate})
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].date > txns[j].date })

	limit := 10
	if len(txns) < limit {
		limit = len(txns)
	}
	out := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, txns[i].text)
	}
	return out, nil
}

var errNoMatchupForPeriod = fmt.Errorf("no matchup for current scoring period")
