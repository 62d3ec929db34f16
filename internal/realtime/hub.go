// Package realtime implements the optional injury-alert nudge channel
// (spec §6's "websocket/stream transport" adjunct to the primary chat
// stream): a small broadcast hub that pushes a message to every
// connected client whenever internal/news ingests a new injury report,
// so an open FanVise tab can surface "Tatum ruled out" without the user
// having to ask the chat endpoint. Grounded on the teacher's
// backend.deprecated/internal/services/websocket.go WebSocketHub, pared
// down from its topic-subscription model (FanVise has exactly one
// broadcast topic: injury alerts) to a single fan-out channel.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// InjuryAlert is the wire message pushed to every connected client.
type InjuryAlert struct {
	Type        string     `json:"type"`
	PlayerName  *string    `json:"playerName,omitempty"`
	Title       string     `json:"title"`
	Status      *string    `json:"injuryStatus,omitempty"`
	Source      string     `json:"source"`
	PublishedAt time.Time  `json:"publishedAt"`
	SentAt      time.Time  `json:"sentAt"`
}

// Hub fans out injury alerts to every registered client. One per process.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run drives the hub's event loop until ctx is cancelled.
func (h *Hub) Run(ctxDone <-chan struct{}) {
	for {
		select {
		case <-ctxDone:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.logger.Warn("realtime: client send buffer full, dropping alert")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastInjuryAlert implements news.AlertBroadcaster: it is called by
// the ingestor after upserting an item flagged IsInjuryReport.
func (h *Hub) BroadcastInjuryAlert(item models.NewsItem) error {
	alert := InjuryAlert{
		Type:        "injury_alert",
		PlayerName:  item.PlayerName,
		Title:       item.Title,
		Status:      item.InjuryStatus,
		Source:      item.Source,
		PublishedAt: item.PublishedAt,
		SentAt:      time.Now().UTC(),
	}
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("realtime: broadcast channel full, dropping alert")
	}
	return nil
}
