package news

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

type fakeRosterSource struct {
	roster []models.Player
	cards  map[int]*models.PlayerStatusSnapshot
}

func (f *fakeRosterSource) GetAllRosters(context.Context, string, string) ([]models.Player, error) {
	return f.roster, nil
}

func (f *fakeRosterSource) GetPlayerCard(_ context.Context, _ string, playerID int) (*models.PlayerStatusSnapshot, error) {
	snap, ok := f.cards[playerID]
	if !ok {
		return nil, errors.New("not found")
	}
	return snap, nil
}

type fakeSnapshotStore struct {
	upserted []models.PlayerStatusSnapshot
}

func (f *fakeSnapshotStore) Upsert(_ context.Context, snap models.PlayerStatusSnapshot) error {
	f.upserted = append(f.upserted, snap)
	return nil
}

func TestStatusSyncJobUpsertsEveryRosterPlayer(t *testing.T) {
	espn := &fakeRosterSource{
		roster: []models.Player{{PlayerID: 1, PlayerName: "A"}, {PlayerID: 2, PlayerName: "B"}},
		cards: map[int]*models.PlayerStatusSnapshot{
			1: {PlayerID: 1, PlayerName: "A"},
			2: {PlayerID: 2, PlayerName: "B"},
		},
	}
	store := &fakeSnapshotStore{}
	job := NewStatusSyncJob(espn, store, "l1", "2024", nil)

	err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.upserted, 2)
}

func TestStatusSyncJobSkipsPlayersWhoseCardFetchFails(t *testing.T) {
	espn := &fakeRosterSource{
		roster: []models.Player{{PlayerID: 1, PlayerName: "A"}, {PlayerID: 2, PlayerName: "B"}},
		cards: map[int]*models.PlayerStatusSnapshot{
			1: {PlayerID: 1, PlayerName: "A"},
		},
	}
	store := &fakeSnapshotStore{}
	job := NewStatusSyncJob(espn, store, "l1", "2024", nil)

	err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.upserted, 1, "expected 1 upsert when one card fetch failed")
}
