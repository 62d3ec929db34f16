package news

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

type fakeSearchStore struct {
	embeddedQuery []float32
	daysBack      int
	items         []models.NewsItem
}

func (f *fakeSearchStore) SearchByEmbedding(_ context.Context, vec []float32, _ int, daysBack int) ([]models.NewsItem, error) {
	f.embeddedQuery = vec
	f.daysBack = daysBack
	return f.items, nil
}

func (f *fakeSearchStore) ByPlayerName(context.Context, string, int) ([]models.NewsItem, error) {
	return f.items, nil
}

func TestSearchByQueryDefaultsDaysBackTo14(t *testing.T) {
	store := &fakeSearchStore{items: []models.NewsItem{{Title: "hit"}}}
	embeddings := llm.NewEmbeddingProvider(&fakeEmbedder{vec: []float32{0.5, 0.5}})
	s := NewSearcher(store, embeddings, nil)

	items, err := s.SearchByQuery(context.Background(), "tatum injury", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultSearchDaysBack, store.daysBack)
	assert.Len(t, items, 1)
	assert.Len(t, store.embeddedQuery, 2)
}
