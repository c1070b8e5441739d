package ports

import (
	"context"
	"time"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
)

// Ledger is the durable set of previously-seen URLs. HasSeen is a pure
// lookup and must be cheap to call before any network or model cost.
// RecordSeen upserts atomically: an existing URL only gets its last-updated
// timestamp refreshed, never a new first-seen or item type.
type Ledger interface {
	HasSeen(ctx context.Context, url string) (bool, error)
	RecordSeen(ctx context.Context, url string, itemType domain.ItemType) error
	CountByType(ctx context.Context) (map[domain.ItemType]int, error)
	SeenSince(ctx context.Context, itemType domain.ItemType, since time.Time) ([]domain.SeenRecord, error)
	Close() error
}

// FeedSource pulls entries from a single configured feed, capped at limit.
type FeedSource interface {
	FetchItems(ctx context.Context, feed domain.Feed, limit int) ([]domain.FeedItem, error)
}

// PageFetcher retrieves raw HTML for a URL, applying the polite-crawling
// delay. Failures are transient and never fatal to the run.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// ArticleReader fetches a URL and reduces it to readable article text.
type ArticleReader interface {
	ReadArticle(ctx context.Context, url, title string) (*domain.Article, error)
}

// PageReader fetches a URL and reduces it to plain page text, suitable for
// feeding to the entity extractor.
type PageReader interface {
	ReadPage(ctx context.Context, url string) (string, error)
}

// EntityExtractor runs model-backed extraction over article and page text.
// Implementations retry on malformed output internally and return a typed
// extraction error once the retry budget is spent.
type EntityExtractor interface {
	CheckRelevance(ctx context.Context, article *domain.Article) (domain.Relevance, error)
	ExtractCompanies(ctx context.Context, article *domain.Article, limit int) ([]domain.CompanyMention, error)
	ExtractArticlePeople(ctx context.Context, article *domain.Article, companyName string) ([]domain.PersonCandidate, error)
	ExtractPagePeople(ctx context.Context, pageText, pageURL, companyName string) ([]domain.PersonCandidate, error)
	ExtractWebsite(ctx context.Context, article *domain.Article, companyName string) (string, error)
	VetCandidate(ctx context.Context, candidate domain.PersonCandidate) (*domain.Vetting, error)
}

// TeamPageLocator produces candidate team/about page URLs for a company,
// best effort: lookup failures shrink the result instead of erroring.
type TeamPageLocator interface {
	FindTeamURLs(ctx context.Context, company domain.CompanyMention, article *domain.Article) []string
}

// Scorer turns a vetted candidate into final scores. Pure computation, no
// side effects.
type Scorer interface {
	ResponseScore(vetting *domain.Vetting, company domain.CompanyMention) (float64, string)
	Score(candidate domain.PersonCandidate, vetting *domain.Vetting, company domain.CompanyMention, articleURL string) domain.ScoredCandidate
}

// CandidateSink persists the ranked output (CSV file, spreadsheet, ...).
type CandidateSink interface {
	Write(ctx context.Context, candidates []domain.ScoredCandidate) error
}
