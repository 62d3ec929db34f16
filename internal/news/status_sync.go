package news

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// playerCardThrottle is the spacing between per-player ESPN calls (spec
// §4.7 "Throttle ~120ms between cards to respect rate limits"), applied
// as a fixed wait (select on time.After and ctx.Done) between calls
// rather than a token-bucket limiter since this is a fixed inter-call
// delay, not a burst-capped rate.
const playerCardThrottle = 120 * time.Millisecond

// RosterSource is the subset of espn.Client the status-sync job depends on.
type RosterSource interface {
	GetAllRosters(ctx context.Context, leagueID, seasonID string) ([]models.Player, error)
	GetPlayerCard(ctx context.Context, leagueID string, playerID int) (*models.PlayerStatusSnapshot, error)
}

// SnapshotStore is the subset of store.StatusStore the sync job writes to.
type SnapshotStore interface {
	Upsert(ctx context.Context, snap models.PlayerStatusSnapshot) error
}

// StatusSyncJob is the scheduled job that refreshes player_status_snapshots
// from live ESPN player cards (spec §4.7 "Status snapshot").
type StatusSyncJob struct {
	espn     RosterSource
	store    SnapshotStore
	leagueID string
	seasonID string
	logger   *logrus.Logger
}

func NewStatusSyncJob(espn RosterSource, store SnapshotStore, leagueID, seasonID string, logger *logrus.Logger) *StatusSyncJob {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StatusSyncJob{espn: espn, store: store, leagueID: leagueID, seasonID: seasonID, logger: logger}
}

// Run fetches the league's current rosters, then fetches and upserts each
// player's card in turn, throttled to respect ESPN's rate limits.
func (j *StatusSyncJob) Run(ctx context.Context) error {
	roster, err := j.espn.GetAllRosters(ctx, j.leagueID, j.seasonID)
	if err != nil {
		return fmt.Errorf("news: status sync: collect rosters: %w", err)
	}

	j.logger.WithField("players", len(roster)).Info("news: status sync starting")

	for i, p := range roster {
		if i > 0 {
			select {
			case <-time.After(playerCardThrottle):
			case <-ctx.Done():
				return fmt.Errorf("news: status sync: context cancelled: %w", ctx.Err())
			}
		}

		snap, err := j.espn.GetPlayerCard(ctx, j.leagueID, p.PlayerID)
		if err != nil {
			j.logger.WithError(err).WithField("playerId", p.PlayerID).Warn("news: status sync: player card fetch failed")
			continue
		}
		if err := j.store.Upsert(ctx, *snap); err != nil {
			j.logger.WithError(err).WithField("playerId", p.PlayerID).Warn("news: status sync: upsert failed")
		}
	}

	j.logger.Info("news: status sync completed")
	return nil
}
