package news

import (
	"context"
	"fmt"

	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

const defaultSearchDaysBack = 14

// EmbeddingSearchStore is the subset of store.NewsStore the query-time
// search path depends on.
type EmbeddingSearchStore interface {
	SearchByEmbedding(ctx context.Context, queryEmbedding []float32, limit int, daysBack int) ([]models.NewsItem, error)
	ByPlayerName(ctx context.Context, playerName string, limit int) ([]models.NewsItem, error)
}

// Searcher satisfies tools.NewsSearcher, wiring embedding-then-lookup
// semantic search (spec §4.7 "Search") and delegating the live-refresh
// path to an Ingestor.
type Searcher struct {
	store      EmbeddingSearchStore
	embeddings *llm.EmbeddingProvider
	ingestor   *Ingestor
}

func NewSearcher(store EmbeddingSearchStore, embeddings *llm.EmbeddingProvider, ingestor *Ingestor) *Searcher {
	return &Searcher{store: store, embeddings: embeddings, ingestor: ingestor}
}

// SearchByQuery embeds the query and runs semantic search over the news
// store (spec §4.7 "searchNews(query, limit, daysBack=14)").
func (s *Searcher) SearchByQuery(ctx context.Context, query string, limit int, daysBack int) ([]models.NewsItem, error) {
	if daysBack <= 0 {
		daysBack = defaultSearchDaysBack
	}
	vec, _, err := s.embeddings.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("news: embed search query: %w", err)
	}
	return s.store.SearchByEmbedding(ctx, vec, limit, daysBack)
}

func (s *Searcher) ByPlayerName(ctx context.Context, playerName string, limit int) ([]models.NewsItem, error) {
	return s.store.ByPlayerName(ctx, playerName, limit)
}

func (s *Searcher) RefreshPlayer(ctx context.Context, playerName string) (int, []models.NewsItem, error) {
	return s.ingestor.FetchPlayerSpecificNews(ctx, playerName)
}
