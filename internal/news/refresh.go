package news

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bpolitiadis/fanvise-sub000/internal/models"
)

const (
	recentItemsDaysBack = 14
	recentItemsLimit    = 200
	fuzzyMatchLimit     = 20
)

// diacriticsTransformer strips combining marks after NFD decomposition,
// so "Jokić" and "Jokic" compare equal.
var diacriticsTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeForMatch(s string) string {
	result, _, err := transform.String(diacriticsTransformer, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(strings.TrimSpace(result))
}

// FetchPlayerSpecificNews implements the live player-scoped refresh (spec
// §4.7): pull every configured feed immediately, ingest any new items,
// then return items matching the player — first by the extractor's
// tagged playerName, falling back to a diacritic-insensitive substring
// match against title/summary for items the extractor left untagged.
func (ing *Ingestor) FetchPlayerSpecificNews(ctx context.Context, playerName string) (int, []models.NewsItem, error) {
	refreshed := 0
	for _, feed := range ing.feeds {
		n, err := ing.ingestFeed(ctx, feed)
		if err != nil {
			ing.logger.WithError(err).WithField("source", feed.Source).Warn("news: player-refresh feed ingest failed")
			continue
		}
		refreshed += n
	}

	items, err := ing.store.ByPlayerName(ctx, playerName, fuzzyMatchLimit)
	if err != nil {
		return refreshed, nil, fmt.Errorf("news: fetch player news: %w", err)
	}
	if len(items) > 0 {
		return refreshed, items, nil
	}

	target := normalizeForMatch(playerName)
	recent, err := ing.store.RecentItems(ctx, recentItemsDaysBack, recentItemsLimit)
	if err != nil {
		return refreshed, nil, fmt.Errorf("news: fetch recent items for fuzzy match: %w", err)
	}

	var matched []models.NewsItem
	for _, it := range recent {
		if strings.Contains(normalizeForMatch(it.Title), target) || strings.Contains(normalizeForMatch(it.Summary), target) {
			matched = append(matched, it)
		}
		if len(matched) >= fuzzyMatchLimit {
			break
		}
	}
	return refreshed, matched, nil
}
