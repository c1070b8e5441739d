package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/scoring"
)

const (
	articleURL  = "https://news.example.com/acme"
	article2URL = "https://news.example.com/beta"
)

type pipelineFixture struct {
	ledger    *fakeLedger
	source    *fakeSource
	articles  *fakeArticles
	extractor *fakeExtractor
	pages     *fakePages
	finder    *fakeFinder
	sink      *fakeSink
	cfg       config.Config
	logger    *slog.Logger
}

func newFixture() *pipelineFixture {
	cfg := config.Config{
		Feeds: []config.FeedConfig{{Name: "funding", URL: "https://feeds.example.com/rss"}},
		Preferences: config.PreferencesConfig{
			Schools:         []string{"MIT"},
			SeniorityLevels: []string{"senior"},
		},
		Weights: config.WeightsConfig{
			SchoolMatch:    1.0,
			RoleMatch:      1.0,
			IndustryMatch:  1.0,
			SeniorityMatch: 0.5,
			LocationMatch:  0.3,
		},
		Limits: config.LimitsConfig{
			MaxArticlesPerFeed:     10,
			MaxCompaniesPerArticle: 5,
			MaxPeoplePerCompany:    10,
			MinResponseThreshold:   0.3,
			MinScoreThreshold:      0.5,
		},
	}

	return &pipelineFixture{
		ledger: newFakeLedger(),
		source: &fakeSource{items: []domain.FeedItem{
			{Title: "Acme raises $10M", Link: articleURL},
		}},
		articles:  &fakeArticles{texts: map[string]string{articleURL: "Acme Robotics raised a round."}},
		extractor: &fakeExtractor{},
		pages:     &fakePages{},
		finder:    &fakeFinder{},
		sink:      &fakeSink{},
		cfg:       cfg,
		logger:    slog.Default(),
	}
}

func (f *pipelineFixture) pipeline() *Pipeline {
	resolver := NewResolver(ResolverDeps{
		Ledger:    f.ledger,
		Pages:     f.pages,
		Extractor: f.extractor,
		Finder:    f.finder,
		Logger:    f.logger,
	}, f.cfg.Limits.MaxPeoplePerCompany)

	return NewPipeline(PipelineDeps{
		Ledger:    f.ledger,
		Source:    f.source,
		Articles:  f.articles,
		Extractor: f.extractor,
		Resolver:  resolver,
		Scorer:    scoring.NewScorer(f.cfg.Preferences, f.cfg.Weights),
		Sink:      f.sink,
		Logger:    f.logger,
	}, f.cfg)
}

func TestRunHappyPath(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.extractor.companies = map[string][]domain.CompanyMention{
		articleURL: {{Name: "Acme", SourceArticleURL: articleURL}},
	}
	f.extractor.articlePeople = map[string][]domain.PersonCandidate{
		"Acme": {{Name: "Jane Doe", Title: "CTO", Source: domain.SourceArticle, SourceURL: articleURL}},
	}
	f.extractor.vettings = map[string]*domain.Vetting{
		"Jane Doe": {School: "MIT", SeniorityLevel: "senior", MatchesCriteria: true},
	}

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.ItemsDiscovered)
	assert.Equal(t, 1, report.ArticlesProcessed)
	assert.Equal(t, 1, report.CompaniesFound)
	assert.Equal(t, 1, report.CandidatesResolved)
	assert.Equal(t, 1, report.CandidatesWritten)
	assert.Empty(t, report.Failures)

	require.Len(t, f.sink.got, 1)
	scored := f.sink.got[0]
	assert.Equal(t, "Jane Doe", scored.Name)
	assert.Equal(t, "Acme", scored.CompanyName)
	assert.Equal(t, articleURL, scored.SourceArticleURL)
	assert.Greater(t, scored.TotalScore, 0.5)

	assert.Equal(t, domain.ItemTypeArticle, f.ledger.seen[articleURL])
}

func TestRunSecondPassSkipsEverything(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.ledger.seen[articleURL] = domain.ItemTypeArticle

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, 1, report.ItemsSkipped)
	assert.Zero(t, report.ArticlesProcessed)
	assert.Zero(t, f.extractor.relevanceCalls, "seen article must not be re-billed")
	assert.Empty(t, f.sink.got)
}

func TestRunFailureIsolation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.source.items = []domain.FeedItem{
		{Title: "Broken", Link: article2URL},
		{Title: "Working", Link: articleURL},
	}
	f.articles.errs = map[string]error{
		article2URL: &domain.FetchError{URL: article2URL, Err: context.DeadlineExceeded},
	}

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, article2URL, report.Failures[0].Subject)

	_, brokenRecorded := f.ledger.seen[article2URL]
	assert.False(t, brokenRecorded, "failed article must stay unrecorded for retry")
	assert.Equal(t, domain.ItemTypeArticle, f.ledger.seen[articleURL])
}

func TestRunIrrelevantArticleRecorded(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.extractor.relevance = map[string]domain.Relevance{
		articleURL: {Relevant: false, Reason: "sports recap"},
	}

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.ArticlesIrrelevant)
	assert.Zero(t, report.ArticlesProcessed)
	assert.Zero(t, f.extractor.companyCalls, "irrelevant article must not reach company extraction")
	assert.Equal(t, domain.ItemTypeArticle, f.ledger.seen[articleURL], "irrelevant article still recorded")
}

func TestRunRelevanceErrorKeepsArticle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.extractor.relevanceErr = map[string]error{
		articleURL: &domain.ExtractionError{Subject: articleURL, Attempts: 3, Err: context.DeadlineExceeded},
	}

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.ArticlesProcessed)
	assert.Equal(t, 1, f.extractor.companyCalls)
}

func TestRunStorageErrorAborts(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.ledger.hasSeenErr = &domain.StorageError{Op: "has_seen", Err: context.DeadlineExceeded}

	report, err := f.pipeline().Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAborted, report.State)
	assert.Empty(t, f.sink.got)

	var storageErr *domain.StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestRunAbortReportsExtractStageAfterResolve(t *testing.T) {
	t.Parallel()

	f := newFixture()
	var logBuf bytes.Buffer
	f.logger = slog.New(slog.NewTextHandler(&logBuf, nil))

	// First article resolves a company, which advances the run state.
	// The second article's ledger write then fails while extracting.
	f.source.items = append(f.source.items, domain.FeedItem{Title: "Beta ships", Link: article2URL})
	f.articles.texts[article2URL] = "Beta launched a product."
	f.extractor.companies = map[string][]domain.CompanyMention{
		articleURL: {{Name: "Acme", SourceArticleURL: articleURL}},
	}
	f.ledger.recordErrFor = map[string]error{
		article2URL: &domain.StorageError{Op: "record_seen", Err: context.DeadlineExceeded},
	}

	report, err := f.pipeline().Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAborted, report.State)
	assert.Contains(t, logBuf.String(), "stage="+string(StateExtract),
		"abort during extraction must not report the previous item's stage")
}

func TestRunCompanyDedup(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.extractor.companies = map[string][]domain.CompanyMention{
		articleURL: {{Name: "Acme", Website: "https://acme.com", SourceArticleURL: articleURL}},
	}
	f.extractor.articlePeople = map[string][]domain.PersonCandidate{
		"Acme": {{Name: "Jane Doe"}},
	}
	f.ledger.seen["https://acme.com"] = domain.ItemTypeCompany

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.CandidatesResolved, "seen company must not be re-resolved")
}

func TestRunRecordsResolvedCompany(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.extractor.companies = map[string][]domain.CompanyMention{
		articleURL: {{Name: "Acme", Website: "https://acme.com", SourceArticleURL: articleURL}},
	}

	_, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.ItemTypeCompany, f.ledger.seen["https://acme.com"])
}

func TestRunGating(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.cfg.Limits.MinResponseThreshold = 0.6
	f.cfg.Limits.MinScoreThreshold = 1.0
	f.extractor.companies = map[string][]domain.CompanyMention{
		articleURL: {{Name: "Acme", SourceArticleURL: articleURL}},
	}
	f.extractor.articlePeople = map[string][]domain.PersonCandidate{
		"Acme": {
			{Name: "Keeper"},
			{Name: "Not A Fit"},
			{Name: "Unreachable"},
			{Name: "Low Total"},
		},
	}
	f.extractor.vettings = map[string]*domain.Vetting{
		// fit 1.5, response 0.5 + 0.1 senior + 0.2 news = 0.8, total 2.3
		"Keeper": {School: "MIT", SeniorityLevel: "senior", MatchesCriteria: true},
		// dropped by the criteria gate before any scoring
		"Not A Fit": {School: "MIT", MatchesCriteria: false},
		// response 0.5 - 0.2 ceo + 0.2 news = 0.5 < 0.6; the fit score of
		// 1.0 would clear the total gate, so only the response gate drops it
		"Unreachable": {School: "MIT", SeniorityLevel: "ceo", MatchesCriteria: true},
		// response 0.5 + 0.2 news = 0.7 passes, fit 0, total 0.7 < 1.0
		"Low Total": {MatchesCriteria: true},
	}

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.sink.got, 1)
	assert.Equal(t, "Keeper", f.sink.got[0].Name)
	assert.Equal(t, 1, report.CandidatesWritten)
	assert.Equal(t, 4, f.extractor.vettingCalls, "all resolved candidates are vetted")
}

func TestRunEndToEndScenario(t *testing.T) {
	t.Parallel()

	const teamURL = "https://acme.com/team"

	f := newFixture()
	f.source.items = []domain.FeedItem{
		{Title: "Acme raises $10M", Link: articleURL},
		{Title: "Beta funding", Link: article2URL},
	}
	f.articles.texts[article2URL] = "Beta raised a round."
	f.extractor.companiesErr = map[string]error{
		article2URL: &domain.ExtractionError{Subject: article2URL, Attempts: 3, Err: context.DeadlineExceeded},
	}
	f.extractor.companies = map[string][]domain.CompanyMention{
		articleURL: {{Name: "Acme", TeamPageURL: teamURL, SourceArticleURL: articleURL}},
	}
	f.extractor.articlePeople = map[string][]domain.PersonCandidate{
		"Acme": {{Name: "jane doe", Title: "founder", LinkedInURL: "https://li.com/jane", Source: domain.SourceArticle, SourceURL: articleURL}},
	}
	f.extractor.pagePeople = map[string][]domain.PersonCandidate{
		teamURL: {{Name: "Jane Doe", Title: "Co-founder & CEO", LinkedInURL: "https://li.com/jane", Source: domain.SourceTeamPage, SourceURL: teamURL}},
	}
	f.extractor.vettings = map[string]*domain.Vetting{
		"Jane Doe": {School: "MIT", SeniorityLevel: "senior", MatchesCriteria: true},
	}
	f.pages.texts = map[string]string{teamURL: "team page text"}
	f.finder.urls = map[string][]string{"Acme": {teamURL}}

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.sink.got, 1)
	jane := f.sink.got[0]
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, "Co-founder & CEO", jane.Title, "team page title wins over article title")

	assert.Equal(t, domain.ItemTypeArticle, f.ledger.seen[articleURL])
	assert.Equal(t, domain.ItemTypePersonPage, f.ledger.seen[teamURL])
	_, betaRecorded := f.ledger.seen[article2URL]
	assert.False(t, betaRecorded, "failed extraction leaves the article unrecorded")
	require.Len(t, report.Failures, 1)
}

func TestRunVettingFailureIsolated(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.extractor.companies = map[string][]domain.CompanyMention{
		articleURL: {{Name: "Acme", SourceArticleURL: articleURL}},
	}
	f.extractor.articlePeople = map[string][]domain.PersonCandidate{
		"Acme": {
			{Name: "Broken Vetting"},
			{Name: "Jane Doe"},
		},
	}
	f.extractor.vettings = map[string]*domain.Vetting{
		"Jane Doe": {School: "MIT", SeniorityLevel: "senior", MatchesCriteria: true},
	}
	f.extractor.vettingErr = map[string]error{
		"Broken Vetting": &domain.ExtractionError{Subject: "Broken Vetting", Attempts: 3, Err: context.DeadlineExceeded},
	}

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.sink.got, 1)
	assert.Equal(t, "Jane Doe", f.sink.got[0].Name)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, StateGateScore, report.Failures[0].Stage)
}

func TestRunBrokenFeedIsolated(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.source.err = &domain.FetchError{URL: "https://feeds.example.com/rss", Err: context.DeadlineExceeded}

	report, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, StateFetchFeeds, report.Failures[0].Stage)
	assert.Zero(t, report.ItemsDiscovered)
}

func TestRunOutputFailureAborts(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.sink.err = &domain.OutputError{Sink: "csv", Err: context.DeadlineExceeded}

	report, err := f.pipeline().Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAborted, report.State)

	var outputErr *domain.OutputError
	assert.ErrorAs(t, err, &outputErr)
}
