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

type memNewsStore struct {
	upserted []models.NewsItem
	byURL    map[string]bool
	byName   map[string][]models.NewsItem
	recent   []models.NewsItem
}

func newMemNewsStore() *memNewsStore {
	return &memNewsStore{byURL: map[string]bool{}, byName: map[string][]models.NewsItem{}}
}

func (m *memNewsStore) ExistsByURL(context.Context, string) (bool, error) { return false, nil }
func (m *memNewsStore) Upsert(_ context.Context, item models.NewsItem, _ []float32, _ int) error {
	m.upserted = append(m.upserted, item)
	return nil
}
func (m *memNewsStore) ByPlayerName(_ context.Context, name string, limit int) ([]models.NewsItem, error) {
	return m.byName[name], nil
}
func (m *memNewsStore) RecentItems(context.Context, int, int) ([]models.NewsItem, error) {
	return m.recent, nil
}

type fakeExtractProvider struct{ content string }

func (f *fakeExtractProvider) Name() string               { return "fake" }
func (f *fakeExtractProvider) Model() string              { return "fake-model" }
func (f *fakeExtractProvider) SupportsToolChoiceAny() bool { return false }
func (f *fakeExtractProvider) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: f.content}, nil
}

type fakeEmbedder struct{ vec []float32 }

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) { return f.vec, nil }
func (f *fakeEmbedder) ModelName() string                                { return "fake-embed" }

func newTestIngestor(t *testing.T, feedXML string, store NewsStore, extractContent string) (*Ingestor, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedXML))
	}))
	t.Cleanup(server.Close)

	extractor := llm.NewExtractor(&fakeExtractProvider{content: extractContent})
	embeddings := llm.NewEmbeddingProvider(&fakeEmbedder{vec: []float32{0.1, 0.2, 0.3}})
	ing := NewIngestor([]Feed{{Source: "Test", URL: server.URL, TrustLevel: 8, Whitelisted: true}}, store, extractor, embeddings, logrus.StandardLogger())
	return ing, server
}

const rssWithOneItem = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<item>
<title>Jayson Tatum day-to-day with ankle sprain</title>
<description>Celtics star Tatum is questionable for tonight's game.</description>
<link>https://example.com/tatum-injury</link>
</item>
</channel></rss>`

func TestIngestFeedUpsertsMatchingItem(t *testing.T) {
	store := newMemNewsStore()
	ing, _ := newTestIngestor(t, rssWithOneItem, store, `{"playerName":"Jayson Tatum","sentiment":"NEGATIVE","category":"Injury","isInjuryReport":true,"injuryStatus":"DAY_TO_DAY","impactedPlayerIds":[]}`)

	ing.IngestAll(context.Background())

	require.Len(t, store.upserted, 1)
	assert.Equal(t, "https://example.com/tatum-injury", store.upserted[0].URL)
	require.NotNil(t, store.upserted[0].PlayerName)
	assert.Equal(t, "Jayson Tatum", *store.upserted[0].PlayerName)
}

func TestIngestFeedDropsOtherCategoryWithoutKeywordMatch(t *testing.T) {
	store := newMemNewsStore()
	// Whitelisted feed, so it passes the early-reject keyword gate, but the
	// extractor returns Category=Other and the text contains no nba/basketball
	// keyword, so the post-extraction gate (spec §4.7 step 5) should drop it.
	rss := `<?xml version="1.0"?>
<rss version="2.0"><channel>
<item>
<title>Local weather update</title>
<description>Rain expected this weekend.</description>
<link>https://example.com/weather</link>
</item>
</channel></rss>`
	ing, _ := newTestIngestor(t, rss, store, `{"sentiment":"NEUTRAL","category":"Other","isInjuryReport":false,"impactedPlayerIds":[]}`)

	ing.IngestAll(context.Background())

	assert.Empty(t, store.upserted, "expected the Other-category gate to drop the item")
}

func TestIngestFeedSkipsAlreadySeenURL(t *testing.T) {
	store := newMemNewsStore()
	store.byURL["https://example.com/tatum-injury"] = true
	seenStore := &existsTrueStore{memNewsStore: store}
	ing, _ := newTestIngestor(t, rssWithOneItem, seenStore, `{"category":"Injury","sentiment":"NEUTRAL"}`)

	ing.IngestAll(context.Background())

	assert.Empty(t, store.upserted, "expected a deduplicated URL to be skipped")
}

type existsTrueStore struct{ *memNewsStore }

func (s *existsTrueStore) ExistsByURL(context.Context, string) (bool, error) { return true, nil }
