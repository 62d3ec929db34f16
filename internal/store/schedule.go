// Package store holds the gorm-backed repositories behind the Schedule
// Store (C1), News & Status Store (C2), League Store, and Daily Leaders
// Store (§6).
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

type ScheduleStore struct {
	db *gorm.DB
}

func NewScheduleStore(db *gorm.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// GamesInWindow implements the Schedule Store range query by date, used
// by the optimizer's single preload-per-run (spec §4.3, §9).
func (s *ScheduleStore) GamesInWindow(ctx context.Context, start, end time.Time) ([]models.NBAGame, error) {
	var rows []models.ScheduleGame
	if err := s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", start, end).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("schedule store: games in window: %w", err)
	}

	out := make([]models.NBAGame, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.NBAGame{
			ID: r.ID, Date: r.Date, HomeTeamID: r.HomeTeamID, AwayTeamID: r.AwayTeamID,
			SeasonID: r.SeasonID, ScoringPeriodID: r.ScoringPeriodID,
		})
	}
	return out, nil
}

// Upsert inserts or replaces a game row by its ESPN-assigned ID.
func (s *ScheduleStore) Upsert(ctx context.Context, games []models.NBAGame) error {
	rows := make([]models.ScheduleGame, 0, len(games))
	for _, g := range games {
		rows = append(rows, models.ScheduleGame{
			ID: g.ID, Date: g.Date, HomeTeamID: g.HomeTeamID, AwayTeamID: g.AwayTeamID,
			SeasonID: g.SeasonID, ScoringPeriodID: g.ScoringPeriodID,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Save(&rows).Error; err != nil {
		return fmt.Errorf("schedule store: upsert: %w", err)
	}
	return nil
}
