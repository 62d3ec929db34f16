package news

import (
	"context"
	"fmt"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// EspnPlayerCard is the subset of espn.Client the status lookup depends on.
type EspnPlayerCard interface {
	GetPlayerCardByName(ctx context.Context, leagueID, playerName string) (*models.PlayerStatusSnapshot, error)
}

// StatusStore is the subset of store.StatusStore the status lookup falls
// back to.
type StatusStore interface {
	ByPlayerName(ctx context.Context, playerName string) (*models.PlayerStatusSnapshot, error)
}

// StatusLookup satisfies tools.StatusLookup: a live ESPN player-card
// lookup, falling back to the last synced DB snapshot (spec §4.6
// get_espn_player_status: "Falls back from ESPN player card to DB
// snapshot to UNKNOWN").
type StatusLookup struct {
	espn  EspnPlayerCard
	store StatusStore
}

func NewStatusLookup(espn EspnPlayerCard, store StatusStore) *StatusLookup {
	return &StatusLookup{espn: espn, store: store}
}

func (l *StatusLookup) PlayerStatus(ctx context.Context, leagueID, playerName string) (models.PlayerStatusSnapshot, string, error) {
	if snap, err := l.espn.GetPlayerCardByName(ctx, leagueID, playerName); err == nil {
		return *snap, "ESPN", nil
	}
	if snap, err := l.store.ByPlayerName(ctx, playerName); err == nil {
		return *snap, "DB", nil
	}
	return models.PlayerStatusSnapshot{}, "", fmt.Errorf("news: no status available for %q", playerName)
}
