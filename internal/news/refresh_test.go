package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpolitiadis/fanvise-sub000/internal/llm"
	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

func TestNormalizeForMatchStripsDiacritics(t *testing.T) {
	assert.Equal(t, "nikola jokic", normalizeForMatch("Nikola Jokić"))
}

func TestFetchPlayerSpecificNewsPrefersTaggedMatches(t *testing.T) {
	store := newMemNewsStore()
	name := "Nikola Jokic"
	store.byName[name] = []models.NewsItem{{Title: "Jokic news"}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`))
	}))
	t.Cleanup(server.Close)

	extractor := llm.NewExtractor(&fakeExtractProvider{content: `{}`})
	embeddings := llm.NewEmbeddingProvider(&fakeEmbedder{vec: []float32{0.1}})
	ing := NewIngestor([]Feed{{Source: "Test", URL: server.URL, TrustLevel: 5, Whitelisted: true}}, store, extractor, embeddings, logrus.StandardLogger())

	refreshed, items, err := ing.FetchPlayerSpecificNews(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed, "expected 0 refreshed for an empty feed")
	require.Len(t, items, 1)
	assert.Equal(t, "Jokic news", items[0].Title)
}

func TestFetchPlayerSpecificNewsFallsBackToFuzzyMatch(t *testing.T) {
	store := newMemNewsStore()
	store.recent = []models.NewsItem{
		{Title: "Jokic drops triple-double", Summary: "Another big night."},
		{Title: "Unrelated headline", Summary: "Nothing to see here."},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`))
	}))
	t.Cleanup(server.Close)

	extractor := llm.NewExtractor(&fakeExtractProvider{content: `{}`})
	embeddings := llm.NewEmbeddingProvider(&fakeEmbedder{vec: []float32{0.1}})
	ing := NewIngestor([]Feed{{Source: "Test", URL: server.URL, TrustLevel: 5, Whitelisted: true}}, store, extractor, embeddings, logrus.StandardLogger())

	_, items, err := ing.FetchPlayerSpecificNews(context.Background(), "Jokić")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Jokic drops triple-double", items[0].Title)
}
