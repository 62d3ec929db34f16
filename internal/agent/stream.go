package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

const (
	heartbeatToken    = "[[FV_STREAM_READY]]"
	heartbeatInterval = 30 * time.Second
)

// movesPayload is the JSON shape base64-encoded into the terminal
// [[FV_MOVES:...]] sentinel (spec §6).
type movesPayload struct {
	Moves       []models.MoveRecommendation `json:"moves"`
	FetchedAt   time.Time                   `json:"fetchedAt"`
	WindowStart time.Time                   `json:"windowStart"`
	WindowEnd   time.Time                   `json:"windowEnd"`
}

// Stream implements the Structured Stream Encoder (C10): runs the graph
// to completion, then yields the answer as whitespace-delimited text
// deltas over the returned channel, followed by the [[FV_MOVES:...]]
// sentinel when rankedMoves is non-empty. The Complete calls backing the
// graph are not themselves token-streamed, so if the graph stalls past
// heartbeatInterval before producing a result, a heartbeat token is
// emitted so the consumer's connection does not appear dead (spec §6
// backpressure). Cancelling ctx stops delivery immediately; chunks
// already sent are not retracted.
func (g *Graph) Stream(ctx context.Context, in Input) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)

		done := make(chan struct{})
		var output Output
		go func() {
			defer close(done)
			output, _ = g.Run(ctx, in)
		}()

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

	wait:
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				break wait
			case <-ticker.C:
				if !send(ctx, out, heartbeatToken) {
					return
				}
			}
		}

		if output.Answer == "" {
			send(ctx, out, retryPrompt)
			return
		}
		for _, chunk := range chunkWords(output.Answer) {
			if !send(ctx, out, chunk) {
				return
			}
		}

		if len(output.RankedMoves) > 0 {
			if sentinel, err := encodeMovesSentinel(output); err == nil {
				send(ctx, out, sentinel)
			}
		}
	}()
	return out
}

func send(ctx context.Context, out chan<- string, chunk string) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func chunkWords(text string) []string {
	words := strings.Fields(text)
	out := make([]string, len(words))
	for i, w := range words {
		if i > 0 {
			w = " " + w
		}
		out[i] = w
	}
	return out
}

func encodeMovesSentinel(output Output) (string, error) {
	payload := movesPayload{
		Moves:       output.RankedMoves,
		FetchedAt:   output.FetchedAt,
		WindowStart: output.WindowStart,
		WindowEnd:   output.WindowEnd,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("agent: encode moves sentinel: %w", err)
	}
	return fmt.Sprintf("[[FV_MOVES:%s]]", base64.StdEncoding.EncodeToString(data)), nil
}
