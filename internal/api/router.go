package api

import (
	"github.com/gin-gonic/gin"

	"github.com/bpolitiadis/fanvise-sub000/internal/api/handlers"
)

// SetupRoutes wires the chat endpoint onto the given /api/v1 group.
// Health/readiness probes are registered separately at the router root
// in cmd/server/main.go, matching the teacher's own split between
// top-level health checks and versioned API routes.
func SetupRoutes(group *gin.RouterGroup, chatHandler *handlers.ChatHandler) {
	group.POST("/chat", chatHandler.PostChat)
}
