package domain

import "time"

// ItemType tags the logical meaning of a ledger URL.
type ItemType string

const (
	ItemTypeArticle    ItemType = "article"
	ItemTypeCompany    ItemType = "company"
	ItemTypePersonPage ItemType = "person"
)

// SeenRecord is one row of the dedup ledger. The URL is globally unique
// across all item types; FirstSeen and ItemType are immutable after insert.
type SeenRecord struct {
	URL         string
	ItemType    ItemType
	FirstSeen   time.Time
	LastUpdated time.Time
}
