// Package news implements the News/Status Ingestion pipeline (C11):
// RSS polling into structured, embedded news items, query-time semantic
// search, player-scoped live refresh, and the ESPN status-snapshot sync
// job. Grounded on the teacher's DataFetcherService
// (internal/services/data_fetcher.go) for the scheduled-job shape, and
// on internal/services/ai_recommendations.go for the
// prompt-an-LLM-then-parse-structured-output pattern reused here for
// news extraction.
package news

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/bpolitiadis/fanvise-sub000/internal/apperr"
	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

const ingestConcurrency = 5

// nbaKeyword is the early-reject filter for non-whitelisted feeds (spec
// §4.7 ingest step 2).
var nbaKeyword = regexp.MustCompile(`(?i)\b(nba|basketball)\b`)

// NewsStore is the subset of store.NewsStore the ingestor and the live
// player-refresh path depend on.
type NewsStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Upsert(ctx context.Context, item models.NewsItem, embedding []float32, trustLevel int) error
	ByPlayerName(ctx context.Context, playerName string, limit int) ([]models.NewsItem, error)
	RecentItems(ctx context.Context, daysBack int, limit int) ([]models.NewsItem, error)
}

// AlertBroadcaster is the optional realtime nudge channel (spec §6): when
// set, the ingestor notifies it of every newly upserted injury report.
// Implemented by internal/realtime.Hub; nil is a valid no-op value.
type AlertBroadcaster interface {
	BroadcastInjuryAlert(item models.NewsItem) error
}

// Ingestor runs the RSS -> extract -> embed -> gate -> upsert pipeline.
type Ingestor struct {
	feeds      []Feed
	parser     *gofeed.Parser
	store      NewsStore
	extractor  *llm.Extractor
	embeddings *llm.EmbeddingProvider
	logger     *logrus.Logger
	alerts     AlertBroadcaster
}

func NewIngestor(feeds []Feed, store NewsStore, extractor *llm.Extractor, embeddings *llm.EmbeddingProvider, logger *logrus.Logger) *Ingestor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Ingestor{feeds: feeds, parser: gofeed.NewParser(), store: store, extractor: extractor, embeddings: embeddings, logger: logger}
}

// WithAlertBroadcaster attaches the realtime nudge channel after
// construction, since internal/realtime.Hub and internal/news have no
// constructor-order dependency on each other.
func (ing *Ingestor) WithAlertBroadcaster(b AlertBroadcaster) *Ingestor {
	ing.alerts = b
	return ing
}

// IngestAll polls every configured feed once, logging per-feed failures
// rather than aborting the whole run.
func (ing *Ingestor) IngestAll(ctx context.Context) {
	for _, feed := range ing.feeds {
		if _, err := ing.ingestFeed(ctx, feed); err != nil {
			ing.logger.WithError(err).WithField("source", feed.Source).Warn("news: feed ingest failed")
		}
	}
}

// ingestFeed parses one feed, filters candidates, and fans the
// extract+embed+upsert work out across ingestConcurrency workers. It
// returns the number of items it attempted to ingest.
func (ing *Ingestor) ingestFeed(ctx context.Context, feed Feed) (int, error) {
	parsed, err := ing.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return 0, fmt.Errorf("news: parse feed %s: %w", feed.Source, err)
	}

	var candidates []*gofeed.Item
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		if !feed.Whitelisted && !matchesNBAKeyword(item.Title, item.Description) {
			continue
		}
		exists, err := ing.store.ExistsByURL(ctx, item.Link)
		if err != nil {
			ing.logger.WithError(err).WithField("url", item.Link).Warn("news: dedup check failed")
			continue
		}
		if exists {
			continue
		}
		candidates = append(candidates, item)
	}

	p := pool.New().WithMaxGoroutines(ingestConcurrency).WithContext(ctx)
	for _, item := range candidates {
		item := item
		p.Go(func(ctx context.Context) error {
			ing.ingestOne(ctx, feed, item)
			return nil
		})
	}
	_ = p.Wait()

	return len(candidates), nil
}

// ingestOne runs one article through extraction, the gate, and embedding,
// then upserts it. Failures at any step are logged and the item is
// dropped rather than retried inline (spec §4.7 step 4-6).
func (ing *Ingestor) ingestOne(ctx context.Context, feed Feed, item *gofeed.Item) {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	extracted, err := ing.extractor.Extract(ctx, item.Title, content)
	if err != nil {
		ing.logger.WithError(err).WithField("url", item.Link).Warn("news: extraction failed")
		return
	}

	matchedKeyword := matchesNBAKeyword(item.Title, item.Description)
	if extracted.Category == string(models.CategoryOther) && !matchedKeyword {
		return
	}

	vec, _, err := ing.embeddings.Embed(ctx, item.Title+"\n"+content)
	if err != nil {
		var inv *apperr.InvariantViolation
		if errors.As(err, &inv) {
			ing.logger.WithError(err).WithField("url", item.Link).Error("news: embedding dimension mismatch, dropping item")
			return
		}
		ing.logger.WithError(err).WithField("url", item.Link).Warn("news: embedding failed")
		return
	}

	publishedAt := time.Now().UTC()
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed.UTC()
	}

	newsItem := models.NewsItem{
		ID:                 uuid.NewString(),
		URL:                item.Link,
		Title:              item.Title,
		Content:            content,
		Summary:            item.Description,
		PublishedAt:        publishedAt,
		Source:             feed.Source,
		SourceTrustLevel:   feed.TrustLevel,
		PlayerName:         extracted.PlayerName,
		Sentiment:          models.Sentiment(extracted.Sentiment),
		Category:           models.NewsCategory(extracted.Category),
		ImpactBackup:       extracted.ImpactBackup,
		IsInjuryReport:     extracted.IsInjuryReport,
		InjuryStatus:       extracted.InjuryStatus,
		ExpectedReturnDate: parseISODate(extracted.ExpectedReturnDate),
		ImpactedPlayerIDs:  extracted.ImpactedPlayerIDs,
	}

	if err := ing.store.Upsert(ctx, newsItem, vec, feed.TrustLevel); err != nil {
		ing.logger.WithError(err).WithField("url", item.Link).Warn("news: upsert failed")
		return
	}

	if ing.alerts != nil && newsItem.IsInjuryReport {
		if err := ing.alerts.BroadcastInjuryAlert(newsItem); err != nil {
			ing.logger.WithError(err).Warn("news: injury alert broadcast failed")
		}
	}
}

func matchesNBAKeyword(fields ...string) bool {
	for _, f := range fields {
		if nbaKeyword.MatchString(f) {
			return true
		}
	}
	return false
}

func parseISODate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
