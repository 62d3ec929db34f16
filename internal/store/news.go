package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bpolitiadis/fanvise-sub000/internal/apperr"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

type NewsStore struct {
	db *gorm.DB

	mu  sync.Mutex
	dim int
}

func NewNewsStore(db *gorm.DB) *NewsStore {
	return &NewsStore{db: db}
}

// Upsert inserts a news item keyed by its unique URL, recording the
// feed's trustLevel (spec §4.7 step 6). A second call with the same URL
// is a no-op on id (spec §8 idempotence).
//
// The store pins the embedding width of the first vector it ever
// persists and rejects any later vector of a different width (spec §3.2
// "mismatched dimensionality fails ingestion loudly") — a second line of
// defense alongside llm.EmbeddingProvider's own pinning, in case a
// caller ever upserts a vector it didn't get from that provider.
func (s *NewsStore) Upsert(ctx context.Context, item models.NewsItem, embedding []float32, trustLevel int) error {
	if err := s.checkDimension(len(embedding)); err != nil {
		return err
	}

	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("news store: marshal embedding: %w", err)
	}
	impactedJSON, err := json.Marshal(item.ImpactedPlayerIDs)
	if err != nil {
		return fmt.Errorf("news store: marshal impacted players: %w", err)
	}

	row := models.NewsItemRow{
		ID:                 item.ID,
		URL:                item.URL,
		Title:              item.Title,
		Content:            item.Content,
		Summary:            item.Summary,
		PublishedAt:        item.PublishedAt,
		Source:             item.Source,
		Embedding:          embeddingJSON,
		PlayerName:         item.PlayerName,
		Sentiment:          string(item.Sentiment),
		Category:           string(item.Category),
		ImpactBackup:       item.ImpactBackup,
		IsInjuryReport:     item.IsInjuryReport,
		InjuryStatus:       item.InjuryStatus,
		ExpectedReturnDate: item.ExpectedReturnDate,
		ImpactedPlayerIDs:  impactedJSON,
		TrustLevel:         trustLevel,
		CreatedAt:          time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content", "summary", "sentiment", "category", "impact_backup", "is_injury_report", "injury_status", "expected_return_date", "impacted_player_ids", "trust_level"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("news store: upsert: %w", err)
	}
	return nil
}

// ExistsByURL checks for a dedup match against an RSS item's URL before
// the expensive extraction/embedding step (spec §4.7 step 3).
func (s *NewsStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.NewsItemRow{}).Where("url = ?", url).Count(&count).Error; err != nil {
		return false, fmt.Errorf("news store: exists by url: %w", err)
	}
	return count > 0, nil
}

// checkDimension pins the store's expected embedding width on the first
// upsert and fails loudly on any later mismatch rather than letting a
// ragged vector corrupt SearchByEmbedding's cosine comparisons.
func (s *NewsStore) checkDimension(got int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if got == 0 {
		return apperr.NewInvariantViolation("embedding_dimension_mismatch", "upsert called with an empty embedding vector")
	}
	if s.dim == 0 {
		s.dim = got
		return nil
	}
	if got != s.dim {
		return apperr.NewInvariantViolation("embedding_dimension_mismatch",
			fmt.Sprintf("upsert vector has %d dims, store is pinned to %d", got, s.dim))
	}
	return nil
}

const similarityThreshold = 0.25

// SearchByEmbedding performs query-time semantic search. No vector-index
// client exists anywhere in the retrieval pack, so similarity is computed
// application-side over embeddings stored as JSON-encoded []float32 — the
// one deliberate stdlib-math component, justified in DESIGN.md.
func (s *NewsStore) SearchByEmbedding(ctx context.Context, queryEmbedding []float32, limit int, daysBack int) ([]models.NewsItem, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysBack)

	var rows []models.NewsItemRow
	if err := s.db.WithContext(ctx).Where("published_at >= ?", cutoff).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("news store: search candidates: %w", err)
	}

	type scored struct {
		item  models.NewsItem
		score float64
	}
	var matches []scored
	for _, r := range rows {
		var emb []float32
		if err := json.Unmarshal(r.Embedding, &emb); err != nil {
			continue
		}
		sim := cosineSimilarity(queryEmbedding, emb)
		if sim < similarityThreshold {
			continue
		}
		matches = append(matches, scored{item: rowToItem(r), score: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]models.NewsItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.item)
	}
	return out, nil
}

// ByPlayerName returns news items tagged to the given player, newest first.
func (s *NewsStore) ByPlayerName(ctx context.Context, playerName string, limit int) ([]models.NewsItem, error) {
	var rows []models.NewsItemRow
	q := s.db.WithContext(ctx).Where("player_name = ?", playerName).Order("published_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("news store: by player name: %w", err)
	}
	out := make([]models.NewsItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToItem(r))
	}
	return out, nil
}

// RecentItems returns the most recently published items within daysBack,
// used as the candidate set for the fuzzy player-name fallback when
// ByPlayerName finds nothing (spec §4.7 live player refresh).
func (s *NewsStore) RecentItems(ctx context.Context, daysBack int, limit int) ([]models.NewsItem, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysBack)
	var rows []models.NewsItemRow
	q := s.db.WithContext(ctx).Where("published_at >= ?", cutoff).Order("published_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("news store: recent items: %w", err)
	}
	out := make([]models.NewsItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToItem(r))
	}
	return out, nil
}

func rowToItem(r models.NewsItemRow) models.NewsItem {
	var impacted []string
	_ = json.Unmarshal(r.ImpactedPlayerIDs, &impacted)
	return models.NewsItem{
		ID: r.ID, URL: r.URL, Title: r.Title, Content: r.Content, Summary: r.Summary,
		PublishedAt: r.PublishedAt, Source: r.Source, SourceTrustLevel: r.TrustLevel,
		PlayerName: r.PlayerName, Sentiment: models.Sentiment(r.Sentiment),
		Category: models.NewsCategory(r.Category), ImpactBackup: r.ImpactBackup, IsInjuryReport: r.IsInjuryReport,
		InjuryStatus: r.InjuryStatus, ExpectedReturnDate: r.ExpectedReturnDate,
		ImpactedPlayerIDs: impacted,
	}
}

// cosineSimilarity computes the cosine of the angle between two
// embedding vectors of equal dimensionality.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
