package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/bpolitiadis/fanvise-sub000/internal/realtime"
)

var alertUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// AlertsHandler upgrades a plain HTTP request onto the injury-alert
// broadcast hub (internal/realtime), the optional nudge channel
// alongside the primary chat stream (spec §6).
type AlertsHandler struct {
	hub    *realtime.Hub
	logger *logrus.Logger
}

func NewAlertsHandler(hub *realtime.Hub, logger *logrus.Logger) *AlertsHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AlertsHandler{hub: hub, logger: logger}
}

func (h *AlertsHandler) HandleAlerts(c *gin.Context) {
	conn, err := alertUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("alerts: failed to upgrade connection")
		return
	}

	client := realtime.NewClient(h.hub, conn)
	h.hub.Register(client)

	welcome := map[string]interface{}{
		"type":      "welcome",
		"message":   "Connected to FanVise injury alerts",
		"timestamp": time.Now().UTC(),
	}
	if err := conn.WriteJSON(welcome); err != nil {
		h.logger.WithError(err).Warn("alerts: failed to send welcome message")
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
