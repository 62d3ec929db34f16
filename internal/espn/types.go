package espn

// ESPN fantasy API response shapes. The client tolerates extra fields
// (spec §6); only the subset FanVise consumes is modeled.

type leagueSettingsResponse struct {
	Settings struct {
		Name          string `json:"name"`
		ScoringSettings struct {
			ScoringItems []struct {
				StatID     int     `json:"statId"`
				PointsOverrides map[string]float64 `json:"pointsOverrides"`
			} `json:"scoringItems"`
		} `json:"scoringSettings"`
		RosterSettings struct {
			LineupSlotCounts map[string]int `json:"lineupSlotCounts"`
		} `json:"rosterSettings"`
	} `json:"settings"`
	SeasonID int `json:"seasonId"`
}

type teamResponse struct {
	ID       int    `json:"id"`
	Location string `json:"location"`
	Nickname string `json:"nickname"`
	Abbrev   string `json:"abbrev"`
	Record   struct {
		Overall struct {
			Wins   int `json:"wins"`
			Losses int `json:"losses"`
			Ties   int `json:"ties"`
		} `json:"overall"`
	} `json:"record"`
	Owners []string `json:"owners"`
}

type leagueTeamsResponse struct {
	Teams []teamResponse `json:"teams"`
}

type espnPlayerEntry struct {
	PlayerID     int `json:"playerId"`
	PlayerPoolEntry struct {
		Player espnPlayer `json:"player"`
	} `json:"playerPoolEntry"`
	LineupSlotID int `json:"lineupSlotId"`
}

type espnPlayer struct {
	ID              int     `json:"id"`
	FullName        string  `json:"fullName"`
	DefaultPositionID int   `json:"defaultPositionId"`
	EligibleSlots   []int   `json:"eligibleSlots"`
	ProTeamID       int     `json:"proTeamId"`
	InjuryStatus    string  `json:"injuryStatus"`
	Injured         bool    `json:"injured"`
	PercentOwned    float64 `json:"percentOwned"`
	Stats           []espnPlayerStats `json:"stats"`
}

type espnPlayerStats struct {
	SeasonID      int     `json:"seasonId"`
	StatSourceID  int     `json:"statSourceId"`
	StatSplitTypeID int   `json:"statSplitTypeId"`
	AppliedTotal  float64 `json:"appliedTotal"`
	AppliedAverage float64 `json:"appliedAverage"`
}

type rosterResponse struct {
	Roster struct {
		Entries []espnPlayerEntry `json:"entries"`
	} `json:"roster"`
}

type matchupResponse struct {
	Schedule []matchupScheduleEntry `json:"schedule"`
}

type matchupScheduleEntry struct {
	MatchupPeriodID int                 `json:"matchupPeriodId"`
	Home            matchupTeamResponse `json:"home"`
	Away            matchupTeamResponse `json:"away"`
	Winner          string              `json:"winner"`
}

type matchupTeamResponse struct {
	TeamID            int     `json:"teamId"`
	TotalPoints       float64 `json:"totalPoints"`
	RosterForCurrentScoringPeriod struct {
		Entries []espnPlayerEntry `json:"entries"`
	} `json:"rosterForCurrentScoringPeriod"`
}

type transactionsResponse struct {
	Transactions []struct {
		Type       string `json:"type"`
		Status     string `json:"status"`
		TeamID     int    `json:"teamId"`
		Items      []struct {
			PlayerID int    `json:"playerId"`
			Type     string `json:"type"`
		} `json:"items"`
		ProcessDate int64 `json:"proposedDate"`
	} `json:"transactions"`
}

type freeAgentsResponse struct {
	Players []espnPlayerEntry `json:"players"`
}

// PositionIDToLabel maps ESPN's numeric defaultPositionId to FanVise's
// slot labels.
var PositionIDToLabel = map[int]string{
	0: "PG", 1: "SG", 2: "SF", 3: "PF", 4: "C", 5: "G", 6: "F",
}

// SlotIDToLabel maps ESPN's numeric lineupSlotId/eligibleSlots entries.
var SlotIDToLabel = map[int]string{
	0: "PG", 1: "SG", 2: "SF", 3: "PF", 4: "C",
	5: "G", 6: "F", 9: "GF", 10: "FC", 11: "UTIL", 12: "BE", 13: "IR",
}
