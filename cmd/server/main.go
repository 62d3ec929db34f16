package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bpolitiadis/fanvise-sub000/internal/agent"
	"github.com/bpolitiadis/fanvise-sub000/internal/api"
	"github.com/bpolitiadis/fanvise-sub000/internal/api/handlers"
	"github.com/bpolitiadis/fanvise-sub000/internal/api/middleware"
	"github.com/bpolitiadis/fanvise-sub000/internal/cache"
	"github.com/bpolitiadis/fanvise-sub000/internal/espn"
	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/news"
	"github.com/bpolitiadis/fanvise-sub000/internal/realtime"
	"github.com/bpolitiadis/fanvise-sub000/internal/snapshot"
	"github.com/bpolitiadis/fanvise-sub000/internal/store"
	"github.com/bpolitiadis/fanvise-sub000/internal/tools"
	"github.com/bpolitiadis/fanvise-sub000/pkg/config"
	"github.com/bpolitiadis/fanvise-sub000/pkg/database"
	"github.com/bpolitiadis/fanvise-sub000/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger()
	log.WithFields(logrus.Fields{
		"environment": cfg.Env,
		"espn_league": cfg.ESPNLeagueID,
	}).Info("Starting FanVise")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment(), database.PoolConfig{
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	bgCtx := context.Background()
	if err := redisClient.Ping(bgCtx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	cacheService := cache.NewService(redisClient)

	espnClient := espn.NewClient(espn.Config{
		Sport:    cfg.ESPNSport,
		SeasonID: cfg.ESPNSeasonID,
		SWID:     cfg.ESPNSWID,
		S2:       cfg.ESPNS2,
		Timeout:  cfg.ESPNTimeout,
	}, log)

	leagueStore := store.NewLeagueStore(db.DB)
	scheduleStore := store.NewScheduleStore(db.DB)
	newsStore := store.NewNewsStore(db.DB)
	statusStore := store.NewStatusStore(db.DB)

	snapshotBuilder := snapshot.NewBuilder(espnClient, leagueStore, scheduleStore, cacheService, log)

	provider, embeddingProvider := buildLLMProviders(cfg, log)

	extractor := llm.NewExtractor(provider)
	ingestor := news.NewIngestor(news.DefaultFeeds(), newsStore, extractor, embeddingProvider, log)
	searcher := news.NewSearcher(newsStore, embeddingProvider, ingestor)
	statusLookup := news.NewStatusLookup(espnClient, statusStore)
	statusSync := news.NewStatusSyncJob(espnClient, statusStore, cfg.ESPNLeagueID, cfg.ESPNSeasonID, log)
	scheduler := news.NewScheduler(ingestor, statusSync, cfg.NewsPollInterval, log)

	alertHub := realtime.NewHub(log)
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	go alertHub.Run(hubCtx.Done())
	ingestor.WithAlertBroadcaster(alertHub)

	if err := scheduler.Start(bgCtx); err != nil {
		logrus.Fatalf("Failed to start news/status scheduler: %v", err)
	}
	defer scheduler.Stop()

	registry := tools.NewRegistry()
	tools.RegisterAll(registry, tools.Deps{
		Snapshots: snapshotBuilder,
		News:      searcher,
		Status:    statusLookup,
		Schedule:  scheduleStore,
	})

	graph := agent.NewGraph(agent.Config{
		Provider:  provider,
		Tools:     registry,
		Snapshots: snapshotBuilder,
		Schedule:  scheduleStore,
		Logger:    log,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(db, redisClient)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	alertsHandler := handlers.NewAlertsHandler(alertHub, log)
	router.GET("/ws/alerts", alertsHandler.HandleAlerts)

	chatHandler := handlers.NewChatHandler(graph, provider, log)
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, chatHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // chat responses stream indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited")
}

// buildLLMProviders selects the completion and embedding providers per
// spec §6: managed deploys force cloud regardless of USE_LOCAL_AI, and
// the embedding provider tries models in order, falling through to the
// next on a "not found" response.
func buildLLMProviders(cfg *config.Config, log *logrus.Logger) (llm.Provider, *llm.EmbeddingProvider) {
	var provider llm.Provider
	if cfg.UseLocalAI {
		provider = llm.NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel, cfg.LLMTimeout)
	} else {
		provider = llm.NewGeminiProvider(cfg.GoogleAPIKey, cfg.GeminiModel, cfg.LLMTimeout)
	}
	log.WithFields(logrus.Fields{"provider": provider.Name(), "model": provider.Model()}).Info("LLM provider selected")

	gemini := llm.NewGeminiEmbedder(cfg.GoogleAPIKey, cfg.GeminiEmbeddingModel, cfg.EmbeddingTimeout)
	ollama := llm.NewOllamaEmbedder(cfg.OllamaURL, cfg.OllamaEmbeddingModel, cfg.EmbeddingTimeout)

	var embedders []llm.Embedder
	if cfg.EmbeddingProvider == "ollama" {
		embedders = []llm.Embedder{ollama, gemini}
	} else {
		embedders = []llm.Embedder{gemini, ollama}
	}
	return provider, llm.NewEmbeddingProvider(embedders...)
}
