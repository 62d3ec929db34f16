package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// DailyLeadersStore is an optional enrichment store (spec §6), composite
// keyed on (leagueId, seasonId, scoringPeriodId, playerId).
type DailyLeadersStore struct {
	db *gorm.DB
}

func NewDailyLeadersStore(db *gorm.DB) *DailyLeadersStore {
	return &DailyLeadersStore{db: db}
}

func (s *DailyLeadersStore) Upsert(ctx context.Context, row models.DailyLeaderRow) error {
	row.LastSyncedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "league_id"}, {Name: "season_id"}, {Name: "scoring_period_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"period_date", "player_name", "position_id", "pro_team_id", "fantasy_points", "stats", "ownership_percent", "last_synced_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("daily leaders store: upsert: %w", err)
	}
	return nil
}

func (s *DailyLeadersStore) ForScoringPeriod(ctx context.Context, leagueID, seasonID string, scoringPeriodID int) ([]models.DailyLeaderRow, error) {
	var rows []models.DailyLeaderRow
	err := s.db.WithContext(ctx).
		Where("league_id = ? AND season_id = ? AND scoring_period_id = ?", leagueID, seasonID, scoringPeriodID).
		Order("fantasy_points DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("daily leaders store: for scoring period: %w", err)
	}
	return rows, nil
}
