// Package espn implements the typed accessor to ESPN's fantasy read API
// (C3), grounded on the teacher's internal/providers/espn.go
// typed-struct-per-response + cache-then-fetch shape, generalized from
// scoreboard/roster views to the fantasy views spec §6 names.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const baseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games"

type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *logrus.Logger

	baseURL  string
	sport    string
	seasonID string
	swid     string
	s2       string
}

type Config struct {
	Sport    string
	SeasonID string
	SWID     string
	S2       string
	Timeout  time.Duration
}

func NewClient(cfg Config, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	breakerSettings := gobreaker.Settings{
		Name:        "espn",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker(breakerSettings),
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		logger:     logger,
		baseURL:    baseURL,
		sport:      cfg.Sport,
		seasonID:   cfg.SeasonID,
		swid:       cfg.SWID,
		s2:         cfg.S2,
	}
}

// views are the fantasy views spec §6 names explicitly.
const (
	ViewSettings          = "mSettings"
	ViewTeam              = "mTeam"
	ViewRoster             = "mRoster"
	ViewMatchup            = "mMatchup"
	ViewMatchupScore        = "mMatchupScore"
	ViewScoreboard         = "mScoreboard"
	ViewTransactions       = "mTransactions2"
	ViewKonaPlayerInfo      = "kona_player_info"
	ViewPositionalRatings   = "mPositionalRatings"
	ViewLiveScoring         = "mLiveScoring"
	ViewRosterForPeriod     = "rosterForCurrentScoringPeriod"
)

// get performs a rate-limited, circuit-broken, retried GET against the
// ESPN league endpoint with the given views, unmarshaling the JSON body
// into dest. Retries up to 3x on 5xx/429 with exponential backoff
// (1s/2s/4s) and jitter, per spec §5.
func (c *Client) get(ctx context.Context, leagueID string, views []string, dest interface{}) error {
	return c.getFiltered(ctx, leagueID, views, "", dest)
}

// getFiltered is get plus ESPN's X-Fantasy-Filter header, used to scope
// kona_player_info to a single player id (spec §4.7 status snapshot job)
// instead of the whole free-agent pool.
func (c *Client) getFiltered(ctx context.Context, leagueID string, views []string, filter string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("espn: rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/%s/seasons/%s/segments/0/leagues/%s", c.baseURL, c.sport, c.seasonID, leagueID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("espn: build request: %w", err)
	}
	q := req.URL.Query()
	for _, v := range views {
		q.Add("view", v)
	}
	req.URL.RawQuery = q.Encode()
	if filter != "" {
		req.Header.Set("X-Fantasy-Filter", filter)
	}

	if c.swid != "" && c.s2 != "" {
		req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})
		req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.s2})
	}

	const maxAttempts = 4 // initial try + 3 retries
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
			select {
			case <-time.After(backoff + jitter):
			case <-ctx.Done():
				return fmt.Errorf("espn: context cancelled during backoff: %w", ctx.Err())
			}
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return nil, fmt.Errorf("espn: transient status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("espn: unexpected status %d", resp.StatusCode)
			}
			var raw json.RawMessage
			if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
				return nil, fmt.Errorf("espn: decode response: %w", err)
			}
			return raw, nil
		})
		if err == nil {
			raw := result.(json.RawMessage)
			if err := json.Unmarshal(raw, dest); err != nil {
				return fmt.Errorf("espn: unmarshal into target: %w", err)
			}
			return nil
		}
		lastErr = err
		c.logger.WithError(err).WithField("attempt", attempt+1).Warn("espn: request attempt failed")
	}

	return fmt.Errorf("espn: request failed after retries: %w", lastErr)
}
