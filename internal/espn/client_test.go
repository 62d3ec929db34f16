package espn

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(Config{Sport: "fba", SeasonID: "2024"}, logrus.StandardLogger())
	c.baseURL = server.URL
	return c
}

func TestGetPlayerCardFetchesSinglePlayer(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Fantasy-Filter"), "expected X-Fantasy-Filter header to be set")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"players":[{"playerId":123,"playerPoolEntry":{"player":{"id":123,"fullName":"Jayson Tatum","proTeamId":2,"injuryStatus":"DAY_TO_DAY"}}}]}`))
	})

	snap, err := c.GetPlayerCard(t.Context(), "league1", 123)
	require.NoError(t, err)
	assert.Equal(t, "Jayson Tatum", snap.PlayerName)
	require.NotNil(t, snap.InjuryStatus)
	assert.Equal(t, "DTD", *snap.InjuryStatus)
	assert.True(t, snap.Injured, "expected Injured=true for a DAY_TO_DAY player")
}

func TestGetPlayerCardReturnsErrorWhenNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"players":[]}`))
	})

	_, err := c.GetPlayerCard(t.Context(), "league1", 999)
	assert.Error(t, err, "expected an error for an empty players response")
}

func TestGetFilteredOmitsHeaderWhenNoFilter(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-Fantasy-Filter"), "expected no filter header for an unfiltered call")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"players":[]}`))
	})

	var resp freeAgentsResponse
	err := c.get(t.Context(), "league1", []string{ViewKonaPlayerInfo}, &resp)
	require.NoError(t, err)
}

func TestGetRetriesOnTransientStatus(t *testing.T) {
	attempts := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"players":[]}`))
	})

	var resp freeAgentsResponse
	err := c.get(t.Context(), "league1", []string{ViewKonaPlayerInfo}, &resp)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, attempts, 2)
}

func TestGetScoreboardFiltersToCurrentPeriod(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"schedule":[
			{"matchupPeriodId":3,"winner":"UNDECIDED","home":{"teamId":1,"totalPoints":110},"away":{"teamId":2,"totalPoints":98}},
			{"matchupPeriodId":4,"winner":"HOME","home":{"teamId":3,"totalPoints":120},"away":{"teamId":4,"totalPoints":100}}
		]}`))
	})

	matchups, err := c.GetScoreboard(t.Context(), "league1", "2024", 3)
	require.NoError(t, err)
	require.Len(t, matchups, 1)
	assert.Equal(t, 1, matchups[0].HomeTeamID)
	assert.Equal(t, 2, matchups[0].AwayTeamID)
	assert.Equal(t, 3, matchups[0].ScoringPeriod)
}
