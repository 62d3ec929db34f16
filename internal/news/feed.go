package news

// Feed is one configured RSS source for the ingest loop (spec §4.7
// "for each configured RSS feed (source, url, trustLevel)").
type Feed struct {
	Source      string
	URL         string
	TrustLevel  int
	Whitelisted bool // skips the NBA-keyword early reject
}

// DefaultFeeds is the bundled feed list. cmd/server passes it to the
// ingestor as is; there is no config setting that replaces it.
func DefaultFeeds() []Feed {
	return []Feed{
		{Source: "ESPN NBA", URL: "https://www.espn.com/espn/rss/nba/news", TrustLevel: 9, Whitelisted: true},
		{Source: "Yahoo NBA", URL: "https://sports.yahoo.com/nba/rss.xml", TrustLevel: 7, Whitelisted: true},
		{Source: "RotoWire NBA", URL: "https://www.rotowire.com/rss/news.php?sport=NBA", TrustLevel: 8, Whitelisted: true},
		{Source: "Reddit r/nba", URL: "https://www.reddit.com/r/nba/.rss", TrustLevel: 3, Whitelisted: false},
	}
}
