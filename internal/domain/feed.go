package domain

import "time"

// Feed identifies a single configured RSS/Atom source.
type Feed struct {
	Name string
	URL  string
}

// FeedItem is one entry pulled from a feed, before any fetching.
type FeedItem struct {
	Title       string
	Link        string
	GUID        string
	FeedName    string
	PublishedAt time.Time
}
