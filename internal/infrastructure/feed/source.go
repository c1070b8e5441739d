package feed

import (
	"context"
	"log/slog"

	"github.com/mmcdole/gofeed"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// Source pulls items from RSS/Atom feeds via gofeed.
type Source struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.FeedSource = (*Source)(nil)

// NewSource builds a feed source with its own parser instance.
func NewSource(logger *slog.Logger) *Source {
	return &Source{parser: gofeed.NewParser(), logger: logger}
}

// FetchItems parses the feed and returns at most limit entries, in feed
// order. Entries without a link are dropped.
func (s *Source) FetchItems(ctx context.Context, feed domain.Feed, limit int) ([]domain.FeedItem, error) {
	parsed, err := s.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, &domain.FetchError{URL: feed.URL, Err: err}
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry.Link == "" {
			continue
		}
		if limit > 0 && len(items) >= limit {
			break
		}

		item := domain.FeedItem{
			Title:    entry.Title,
			Link:     entry.Link,
			GUID:     entry.GUID,
			FeedName: feed.Name,
		}
		if item.GUID == "" {
			item.GUID = entry.Link
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}
		items = append(items, item)
	}

	s.logger.Debug("feed fetched", "feed", feed.Name, "items", len(items), "total", len(parsed.Items))
	return items, nil
}
