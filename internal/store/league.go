package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

type LeagueStore struct {
	db *gorm.DB
}

func NewLeagueStore(db *gorm.DB) *LeagueStore {
	return &LeagueStore{db: db}
}

// ByID loads the cached league row, used as the snapshot builder's first
// step (spec §4.5 step 1); callers treat a missing row as LeagueNotFound.
func (s *LeagueStore) ByID(ctx context.Context, leagueID string) (*models.League, error) {
	var row models.LeagueRow
	if err := s.db.WithContext(ctx).Where("league_id = ?", leagueID).First(&row).Error; err != nil {
		return nil, fmt.Errorf("league store: by id: %w", err)
	}

	var teams []models.Team
	if err := json.Unmarshal(row.Teams, &teams); err != nil {
		return nil, fmt.Errorf("league store: unmarshal teams: %w", err)
	}
	var scoring map[string]float64
	_ = json.Unmarshal(row.ScoringSettings, &scoring)
	var rosterSlots map[string]int
	_ = json.Unmarshal(row.RosterSettings, &rosterSlots)

	return &models.League{
		ID: row.LeagueID, SeasonID: row.SeasonID, Name: row.Name,
		ScoringSettings: scoring, RosterSlots: rosterSlots, Teams: teams,
	}, nil
}

// Upsert writes the league row atomically, including its team list
// inline as jsonb (spec §6 "teams is an inline array because it is read
// atomically with the league row").
func (s *LeagueStore) Upsert(ctx context.Context, league models.League) error {
	teamsJSON, err := json.Marshal(league.Teams)
	if err != nil {
		return fmt.Errorf("league store: marshal teams: %w", err)
	}
	scoringJSON, err := json.Marshal(league.ScoringSettings)
	if err != nil {
		return fmt.Errorf("league store: marshal scoring settings: %w", err)
	}
	rosterJSON, err := json.Marshal(league.RosterSlots)
	if err != nil {
		return fmt.Errorf("league store: marshal roster settings: %w", err)
	}

	row := models.LeagueRow{
		LeagueID: league.ID, SeasonID: league.SeasonID, Name: league.Name,
		ScoringSettings: scoringJSON, RosterSettings: rosterJSON, Teams: teamsJSON,
		LastUpdatedAt: time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "league_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"season_id", "name", "scoring_settings", "roster_settings", "teams", "last_updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("league store: upsert: %w", err)
	}
	return nil
}
