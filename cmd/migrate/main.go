package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
	"github.com/bpolitiadis/fanvise-sub000/pkg/config"
	"github.com/bpolitiadis/fanvise-sub000/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
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

	switch os.Args[1] {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")
	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")
	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.ScheduleGame{},
		&models.NewsItemRow{},
		&models.PlayerStatusSnapshotRow{},
		&models.LeagueRow{},
		&models.DailyLeaderRow{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_nba_schedule_date ON nba_schedule(date)",
		"CREATE INDEX IF NOT EXISTS idx_nba_schedule_season ON nba_schedule(season_id)",
		"CREATE INDEX IF NOT EXISTS idx_news_items_published_at ON news_items(published_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_news_items_player_name ON news_items(player_name)",
		"CREATE INDEX IF NOT EXISTS idx_player_status_snapshots_player_name ON player_status_snapshots(player_name)",
		"CREATE INDEX IF NOT EXISTS idx_daily_leaders_period ON daily_leaders(league_id, season_id, scoring_period_id)",
	}
	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"daily_leaders",
		"leagues",
		"player_status_snapshots",
		"news_items",
		"nba_schedule",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
