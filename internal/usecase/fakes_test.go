package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
)

// In-memory ledger with injectable failures.
type fakeLedger struct {
	seen         map[string]domain.ItemType
	recorded     []string
	hasSeenErr   error
	recordErr    error
	recordErrFor map[string]error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{seen: make(map[string]domain.ItemType)}
}

func (l *fakeLedger) HasSeen(_ context.Context, url string) (bool, error) {
	if l.hasSeenErr != nil {
		return false, l.hasSeenErr
	}
	_, ok := l.seen[url]
	return ok, nil
}

func (l *fakeLedger) RecordSeen(_ context.Context, url string, itemType domain.ItemType) error {
	if l.recordErr != nil {
		return l.recordErr
	}
	if err := l.recordErrFor[url]; err != nil {
		return err
	}
	if _, ok := l.seen[url]; !ok {
		l.seen[url] = itemType
	}
	l.recorded = append(l.recorded, url)
	return nil
}

func (l *fakeLedger) CountByType(context.Context) (map[domain.ItemType]int, error) {
	counts := make(map[domain.ItemType]int)
	for _, itemType := range l.seen {
		counts[itemType]++
	}
	return counts, nil
}

func (l *fakeLedger) SeenSince(context.Context, domain.ItemType, time.Time) ([]domain.SeenRecord, error) {
	return nil, nil
}

func (l *fakeLedger) Close() error { return nil }

// Feed source returning a fixed item list.
type fakeSource struct {
	items []domain.FeedItem
	err   error
}

func (s *fakeSource) FetchItems(_ context.Context, feed domain.Feed, limit int) ([]domain.FeedItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := s.items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]domain.FeedItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].FeedName = feed.Name
	}
	return out, nil
}

// Article reader serving canned text per URL.
type fakeArticles struct {
	texts map[string]string
	errs  map[string]error
}

func (a *fakeArticles) ReadArticle(_ context.Context, url, title string) (*domain.Article, error) {
	if err := a.errs[url]; err != nil {
		return nil, err
	}
	text, ok := a.texts[url]
	if !ok {
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("no canned article")}
	}
	return &domain.Article{URL: url, Title: title, Text: text, FetchedAt: time.Now()}, nil
}

// Page reader serving canned text per URL.
type fakePages struct {
	texts map[string]string
	errs  map[string]error
}

func (p *fakePages) ReadPage(_ context.Context, url string) (string, error) {
	if err := p.errs[url]; err != nil {
		return "", err
	}
	text, ok := p.texts[url]
	if !ok {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("no canned page")}
	}
	return text, nil
}

// Team page locator keyed by company name.
type fakeFinder struct {
	urls map[string][]string
}

func (f *fakeFinder) FindTeamURLs(_ context.Context, company domain.CompanyMention, _ *domain.Article) []string {
	return f.urls[company.Name]
}

// Entity extractor with per-key canned results. Missing keys fall back to
// permissive defaults so tests only configure what they assert on.
type fakeExtractor struct {
	relevance     map[string]domain.Relevance
	relevanceErr  map[string]error
	companies     map[string][]domain.CompanyMention
	companiesErr  map[string]error
	articlePeople map[string][]domain.PersonCandidate
	articleErr    map[string]error
	pagePeople    map[string][]domain.PersonCandidate
	pageErr       map[string]error
	vettings      map[string]*domain.Vetting
	vettingErr    map[string]error

	relevanceCalls int
	companyCalls   int
	vettingCalls   int
}

func (e *fakeExtractor) CheckRelevance(_ context.Context, article *domain.Article) (domain.Relevance, error) {
	e.relevanceCalls++
	if err := e.relevanceErr[article.URL]; err != nil {
		return domain.Relevance{}, err
	}
	if rel, ok := e.relevance[article.URL]; ok {
		return rel, nil
	}
	return domain.Relevance{Relevant: true, Confidence: 1}, nil
}

func (e *fakeExtractor) ExtractCompanies(_ context.Context, article *domain.Article, limit int) ([]domain.CompanyMention, error) {
	e.companyCalls++
	if err := e.companiesErr[article.URL]; err != nil {
		return nil, err
	}
	companies := e.companies[article.URL]
	if limit > 0 && len(companies) > limit {
		companies = companies[:limit]
	}
	return companies, nil
}

func (e *fakeExtractor) ExtractArticlePeople(_ context.Context, article *domain.Article, companyName string) ([]domain.PersonCandidate, error) {
	if err := e.articleErr[companyName]; err != nil {
		return nil, err
	}
	return e.articlePeople[companyName], nil
}

func (e *fakeExtractor) ExtractPagePeople(_ context.Context, _, pageURL, _ string) ([]domain.PersonCandidate, error) {
	if err := e.pageErr[pageURL]; err != nil {
		return nil, err
	}
	return e.pagePeople[pageURL], nil
}

func (e *fakeExtractor) ExtractWebsite(context.Context, *domain.Article, string) (string, error) {
	return "", nil
}

func (e *fakeExtractor) VetCandidate(_ context.Context, candidate domain.PersonCandidate) (*domain.Vetting, error) {
	e.vettingCalls++
	if err := e.vettingErr[candidate.Name]; err != nil {
		return nil, err
	}
	if vetting, ok := e.vettings[candidate.Name]; ok {
		return vetting, nil
	}
	return &domain.Vetting{MatchesCriteria: true}, nil
}

// Sink capturing what the pipeline wrote.
type fakeSink struct {
	got []domain.ScoredCandidate
	err error
}

func (s *fakeSink) Write(_ context.Context, candidates []domain.ScoredCandidate) error {
	if s.err != nil {
		return s.err
	}
	s.got = candidates
	return nil
}
