package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration.
func InitLogger() *logrus.Logger {
	log := logrus.New()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("invalid LOG_LEVEL, using info")
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(os.Stdout)
	Logger = log
	return log
}

// GetLogger returns the global logger, initializing it if necessary.
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger()
	}
	return Logger
}

// WithQuery creates a logger entry scoped to a single chat turn.
func WithQuery(leagueID, teamID, intent string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"league_id": leagueID,
		"team_id":   teamID,
		"intent":    intent,
	})
}

// WithTenant creates a logger entry scoped to a cache/snapshot tenant.
func WithTenant(leagueID, teamID string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"league_id": leagueID,
		"team_id":   teamID,
	})
}
