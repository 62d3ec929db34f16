package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bpolitiadis/fanvise-sub000/internal/agent"
	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

// chatMessageIn is the wire shape of one entry in the request body's
// messages array (spec §6: `{role, content}`).
type chatMessageIn struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// chatRequest is the request body spec §6 names for POST /api/v1/chat.
type chatRequest struct {
	Messages       []chatMessageIn `json:"messages" binding:"required,min=1"`
	ActiveTeamID   *string         `json:"activeTeamId"`
	ActiveLeagueID *string         `json:"activeLeagueId"`
	TeamName       *string         `json:"teamName"`
	Language       string          `json:"language"`
}

// ChatHandler implements the chat endpoint (spec §6): it runs the agent
// orchestrator's graph and streams the answer back as chunked
// text/plain, grounded on the heartbeat/backpressure contract documented
// on agent.Graph.Stream.
type ChatHandler struct {
	graph    *agent.Graph
	provider llm.Provider
	logger   *logrus.Logger
}

func NewChatHandler(graph *agent.Graph, provider llm.Provider, logger *logrus.Logger) *ChatHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ChatHandler{graph: graph, provider: provider, logger: logger}
}

func (h *ChatHandler) PostChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat request body"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	in := agent.Input{
		Query:    req.Messages[len(req.Messages)-1].Content,
		History:  toHistory(req.Messages[:len(req.Messages)-1]),
		TeamID:   req.ActiveTeamID,
		LeagueID: req.ActiveLeagueID,
		Language: resolveLanguage(req.Language),
	}

	c.Header("x-fanvise-ai-provider", h.provider.Name())
	c.Header("x-fanvise-ai-model", h.provider.Model())
	c.Header("x-fanvise-agent", "supervisor")
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	flusher.Flush()

	ctx := c.Request.Context()
	for chunk := range h.graph.Stream(ctx, in) {
		if _, err := c.Writer.WriteString(chunk); err != nil {
			h.logger.WithError(err).Warn("chat stream write failed")
			return
		}
		flusher.Flush()
	}
}

func toHistory(msgs []chatMessageIn) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, models.ChatMessage{Role: models.ChatRole(m.Role), Content: m.Content})
	}
	return out
}

func resolveLanguage(lang string) models.Language {
	if lang == string(models.LanguageEL) {
		return models.LanguageEL
	}
	return models.LanguageEN
}
