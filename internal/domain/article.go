package domain

import "time"

// Article is the fetched and cleaned content of one feed item. It lives only
// for the duration of a single processing unit; the ledger keeps the URL.
type Article struct {
	URL       string
	Title     string
	RawHTML   string
	Text      string
	FetchedAt time.Time
}

// Relevance is the model's verdict on whether an article is worth mining.
type Relevance struct {
	Relevant   bool
	Reason     string
	Confidence float64
}
