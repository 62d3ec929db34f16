package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScheduleGame is the persisted row backing the Schedule Store (C1).
type ScheduleGame struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Date            time.Time `gorm:"index" json:"date"`
	HomeTeamID      int       `json:"homeTeamId"`
	AwayTeamID      int       `json:"awayTeamId"`
	SeasonID        string    `gorm:"index" json:"seasonId"`
	ScoringPeriodID *int      `json:"scoringPeriodId,omitempty"`
}

func (ScheduleGame) TableName() string { return "nba_schedule" }

// NewsItemRow is the persisted row backing the News Store (C2). The
// embedding column stores a JSON-encoded []float32 rather than a native
// vector type; see internal/store/news.go for why.
type NewsItemRow struct {
	ID                 string         `gorm:"primaryKey" json:"id"`
	URL                string         `gorm:"uniqueIndex" json:"url"`
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	Summary            string         `json:"summary"`
	PublishedAt        time.Time      `gorm:"index" json:"publishedAt"`
	Source             string         `json:"source"`
	Embedding          datatypes.JSON `json:"embedding"`
	PlayerName         *string        `gorm:"index" json:"playerName,omitempty"`
	Sentiment          string         `json:"sentiment"`
	Category           string         `json:"category"`
	ImpactBackup       *string        `json:"impactBackup,omitempty"`
	IsInjuryReport     bool           `json:"isInjuryReport"`
	InjuryStatus       *string        `json:"injuryStatus,omitempty"`
	ExpectedReturnDate *time.Time     `json:"expectedReturnDate,omitempty"`
	ImpactedPlayerIDs  datatypes.JSON `json:"impactedPlayerIds"`
	TrustLevel         int            `json:"trustLevel"`
	CreatedAt          time.Time      `json:"createdAt"`
}

func (NewsItemRow) TableName() string { return "news_items" }

// PlayerStatusSnapshotRow is the persisted row backing the Status Store (C2).
type PlayerStatusSnapshotRow struct {
	PlayerID           int        `gorm:"primaryKey" json:"playerId"`
	PlayerName         string     `json:"playerName"`
	ProTeamID          int        `json:"proTeamId"`
	FantasyTeamID      *string    `json:"fantasyTeamId,omitempty"`
	Injured            bool       `json:"injured"`
	InjuryStatus       *string    `json:"injuryStatus,omitempty"`
	InjuryType         *string    `json:"injuryType,omitempty"`
	OutForSeason       bool       `json:"outForSeason"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	LastNewsDate       *time.Time `json:"lastNewsDate,omitempty"`
	Droppable          *bool      `json:"droppable,omitempty"`
	LineupLocked       *bool      `json:"lineupLocked,omitempty"`
	TradeLocked        *bool      `json:"tradeLocked,omitempty"`
	Source             string     `json:"source"`
	LastSyncedAt       time.Time  `json:"lastSyncedAt"`
}

func (PlayerStatusSnapshotRow) TableName() string { return "player_status_snapshots" }

// LeagueRow is the persisted row backing the League Store. Teams is kept
// inline as jsonb because it is read atomically with the league row
// (spec §6), the same reasoning the teacher applies to storing Lineup
// player sets as a single jsonb column rather than a join table.
type LeagueRow struct {
	LeagueID          string         `gorm:"primaryKey" json:"leagueId"`
	SeasonID          string         `json:"seasonId"`
	Name              string         `json:"name"`
	ScoringSettings   datatypes.JSON `json:"scoringSettings"`
	RosterSettings    datatypes.JSON `json:"rosterSettings"`
	Teams             datatypes.JSON `json:"teams"`
	DraftDetail       datatypes.JSON `json:"draftDetail"`
	PositionalRatings datatypes.JSON `json:"positionalRatings"`
	LiveScoring       datatypes.JSON `json:"liveScoring"`
	LastUpdatedAt     time.Time      `json:"lastUpdatedAt"`
}

func (LeagueRow) TableName() string { return "leagues" }

// DailyLeaderRow is the persisted row backing the optional Daily Leaders
// Store enrichment, composite-keyed on (league, season, period, player).
type DailyLeaderRow struct {
	LeagueID         string         `gorm:"primaryKey;column:league_id" json:"leagueId"`
	SeasonID         string         `gorm:"primaryKey;column:season_id" json:"seasonId"`
	ScoringPeriodID  int            `gorm:"primaryKey;column:scoring_period_id" json:"scoringPeriodId"`
	PlayerID         int            `gorm:"primaryKey;column:player_id" json:"playerId"`
	PeriodDate       time.Time      `json:"periodDate"`
	PlayerName       string         `json:"playerName"`
	PositionID       *int           `json:"positionId,omitempty"`
	ProTeamID        *int           `json:"proTeamId,omitempty"`
	FantasyPoints    *float64       `json:"fantasyPoints,omitempty"`
	Stats            datatypes.JSON `json:"stats"`
	OwnershipPercent *float64       `json:"ownershipPercent,omitempty"`
	Source           string         `json:"source"`
	LastSyncedAt     time.Time      `json:"lastSyncedAt"`
}

func (DailyLeaderRow) TableName() string { return "daily_leaders" }
