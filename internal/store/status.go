package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

type StatusStore struct {
	db *gorm.DB
}

func NewStatusStore(db *gorm.DB) *StatusStore {
	return &StatusStore{db: db}
}

// Upsert writes a player status snapshot keyed by playerId (spec §4.7
// "Status snapshot").
func (s *StatusStore) Upsert(ctx context.Context, snap models.PlayerStatusSnapshot) error {
	row := models.PlayerStatusSnapshotRow{
		PlayerID: snap.PlayerID, PlayerName: snap.PlayerName, ProTeamID: snap.ProTeamID,
		FantasyTeamID: snap.FantasyTeamID, Injured: snap.Injured, InjuryStatus: snap.InjuryStatus,
		InjuryType: snap.InjuryType, OutForSeason: snap.OutForSeason,
		ExpectedReturnDate: snap.ExpectedReturnDate, LastNewsDate: snap.LastNewsDate,
		Droppable: snap.Droppable, LineupLocked: snap.LineupLocked, TradeLocked: snap.TradeLocked,
		Source: "ESPN", LastSyncedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"player_name", "pro_team_id", "fantasy_team_id", "injured", "injury_status", "injury_type", "out_for_season", "expected_return_date", "last_synced_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("status store: upsert: %w", err)
	}
	return nil
}

// ByPlayerName is the DB fallback used when a live ESPN lookup by name
// fails (spec §4.6 get_espn_player_status: ESPN -> DB -> UNKNOWN).
func (s *StatusStore) ByPlayerName(ctx context.Context, playerName string) (*models.PlayerStatusSnapshot, error) {
	var row models.PlayerStatusSnapshotRow
	err := s.db.WithContext(ctx).Where("player_name = ?", playerName).Order("last_synced_at DESC").First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("status store: by player name: %w", err)
	}
	return rowToSnapshot(row), nil
}

// ByPlayerID is the DB fallback get_espn_player_status drops to when the
// live ESPN player card lookup fails (spec §4.6 tool table).
func (s *StatusStore) ByPlayerID(ctx context.Context, playerID int) (*models.PlayerStatusSnapshot, error) {
	var row models.PlayerStatusSnapshotRow
	err := s.db.WithContext(ctx).Where("player_id = ?", playerID).First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("status store: by player id: %w", err)
	}
	return rowToSnapshot(row), nil
}

func rowToSnapshot(row models.PlayerStatusSnapshotRow) *models.PlayerStatusSnapshot {
	return &models.PlayerStatusSnapshot{
		PlayerID: row.PlayerID, PlayerName: row.PlayerName, ProTeamID: row.ProTeamID,
		FantasyTeamID: row.FantasyTeamID, Injured: row.Injured, InjuryStatus: row.InjuryStatus,
		InjuryType: row.InjuryType, OutForSeason: row.OutForSeason,
		ExpectedReturnDate: row.ExpectedReturnDate, LastNewsDate: row.LastNewsDate,
		Droppable: row.Droppable, LineupLocked: row.LineupLocked, TradeLocked: row.TradeLocked,
		LastSyncedAt: row.LastSyncedAt,
	}
}
