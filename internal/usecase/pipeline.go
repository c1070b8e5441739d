package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// RunState names the pipeline stage a run is in.
type RunState string

const (
	StateFetchFeeds  RunState = "FETCH_FEEDS"
	StateDedupFilter RunState = "DEDUP_FILTER"
	StateExtract     RunState = "EXTRACT_ARTICLES"
	StateResolve     RunState = "RESOLVE_COMPANIES_AND_PEOPLE"
	StateGateScore   RunState = "GATE_AND_SCORE"
	StateWriteOutput RunState = "WRITE_OUTPUT"
	StateDone        RunState = "DONE"
	StateAborted     RunState = "ABORTED"
)

// ItemFailure records one item-local failure without stopping the run.
type ItemFailure struct {
	Stage   RunState
	Subject string
	Err     error
}

// RunReport summarizes a pipeline run. A run that found nothing still
// produces a report with its counters at zero.
type RunReport struct {
	RunID              string
	State              RunState
	StartedAt          time.Time
	FinishedAt         time.Time
	ItemsDiscovered    int
	ItemsSkipped       int
	ArticlesProcessed  int
	ArticlesIrrelevant int
	CompaniesFound     int
	CandidatesResolved int
	CandidatesWritten  int
	Failures           []ItemFailure
}

func (r *RunReport) fail(stage RunState, subject string, err error) {
	r.Failures = append(r.Failures, ItemFailure{Stage: stage, Subject: subject, Err: err})
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Ledger    ports.Ledger
	Source    ports.FeedSource
	Articles  ports.ArticleReader
	Extractor ports.EntityExtractor
	Resolver  *Resolver
	Scorer    ports.Scorer
	Sink      ports.CandidateSink
	Logger    *slog.Logger
}

// Pipeline implements the scouting workflow: pull feeds, drop already-seen
// links, extract companies and people, vet and score, write output.
type Pipeline struct {
	ledger    ports.Ledger
	source    ports.FeedSource
	articles  ports.ArticleReader
	extractor ports.EntityExtractor
	resolver  *Resolver
	scorer    ports.Scorer
	sink      ports.CandidateSink
	logger    *slog.Logger
	cfg       config.Config
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps, cfg config.Config) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		ledger:    deps.Ledger,
		source:    deps.Source,
		articles:  deps.Articles,
		extractor: deps.Extractor,
		resolver:  deps.Resolver,
		scorer:    deps.Scorer,
		sink:      deps.Sink,
		logger:    logger.With("component", "pipeline"),
		cfg:       cfg,
	}
}

// resolved carries a candidate through gating with the context it came from.
type resolved struct {
	candidate  domain.PersonCandidate
	company    domain.CompanyMention
	articleURL string
}

// Run executes one complete pipeline pass. Item-local failures are recorded
// in the report and skipped; a storage error aborts the run because the
// ledger can no longer guarantee dedup.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		State:     StateFetchFeeds,
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With("run_id", report.RunID)
	logger.Info("pipeline run started", "feeds", len(p.cfg.Feeds))

	items := p.fetchFeeds(ctx, report, logger)

	report.State = StateDedupFilter
	fresh, err := p.filterSeen(ctx, items, report, logger)
	if err != nil {
		return p.abort(report, logger, err)
	}

	report.State = StateExtract
	candidates, err := p.extractAndResolve(ctx, fresh, report, logger)
	if err != nil {
		return p.abort(report, logger, err)
	}

	report.State = StateGateScore
	scored := p.gateAndScore(ctx, candidates, report, logger)

	report.State = StateWriteOutput
	if err := p.sink.Write(ctx, scored); err != nil {
		return p.abort(report, logger, fmt.Errorf("write output: %w", err))
	}
	report.CandidatesWritten = len(scored)

	report.State = StateDone
	report.FinishedAt = time.Now().UTC()
	logger.Info("pipeline run finished",
		"discovered", report.ItemsDiscovered,
		"skipped", report.ItemsSkipped,
		"articles", report.ArticlesProcessed,
		"companies", report.CompaniesFound,
		"candidates", report.CandidatesResolved,
		"written", report.CandidatesWritten,
		"failures", len(report.Failures))
	return report, nil
}

func (p *Pipeline) abort(report *RunReport, logger *slog.Logger, err error) (*RunReport, error) {
	stage := report.State
	report.State = StateAborted
	report.FinishedAt = time.Now().UTC()
	logger.Error("pipeline run aborted", "stage", stage, "error", err)
	return report, err
}

// fetchFeeds pulls every configured feed. A broken feed is logged and
// skipped so the rest of the run proceeds.
func (p *Pipeline) fetchFeeds(ctx context.Context, report *RunReport, logger *slog.Logger) []domain.FeedItem {
	var items []domain.FeedItem
	for _, feed := range p.cfg.DomainFeeds() {
		fetched, err := p.source.FetchItems(ctx, feed, p.cfg.Limits.MaxArticlesPerFeed)
		if err != nil {
			report.fail(StateFetchFeeds, feed.URL, err)
			logger.Warn("feed fetch failed", "feed", feed.Name, "error", err)
			continue
		}
		logger.Info("feed fetched", "feed", feed.Name, "items", len(fetched))
		items = append(items, fetched...)
	}
	report.ItemsDiscovered = len(items)
	return items
}

// filterSeen drops links already in the ledger before any fetch or model
// cost is spent on them.
func (p *Pipeline) filterSeen(ctx context.Context, items []domain.FeedItem, report *RunReport, logger *slog.Logger) ([]domain.FeedItem, error) {
	fresh := make([]domain.FeedItem, 0, len(items))
	for _, item := range items {
		seen, err := p.ledger.HasSeen(ctx, item.Link)
		if err != nil {
			return nil, fmt.Errorf("dedup lookup %s: %w", item.Link, err)
		}
		if seen {
			report.ItemsSkipped++
			continue
		}
		fresh = append(fresh, item)
	}
	logger.Info("dedup filter applied", "fresh", len(fresh), "skipped", report.ItemsSkipped)
	return fresh, nil
}

// extractAndResolve processes each fresh article end to end: fetch, check
// relevance, extract companies, resolve people per company. The article is
// recorded seen only after its own work unit succeeded, so an interrupted
// or failed item is retried on the next run.
func (p *Pipeline) extractAndResolve(ctx context.Context, items []domain.FeedItem, report *RunReport, logger *slog.Logger) ([]resolved, error) {
	var out []resolved

	for _, item := range items {
		// Resolution may have advanced the state for the previous item.
		report.State = StateExtract

		article, err := p.articles.ReadArticle(ctx, item.Link, item.Title)
		if err != nil {
			report.fail(StateExtract, item.Link, err)
			logger.Warn("article read failed", "url", item.Link, "error", err)
			continue
		}

		relevance, err := p.extractor.CheckRelevance(ctx, article)
		if err != nil {
			// Billing already happened; treat the article as relevant
			// rather than losing it to a transient model failure.
			logger.Warn("relevance check failed, keeping article",
				"url", item.Link, "error", err)
			relevance = domain.Relevance{Relevant: true, Reason: "relevance check failed"}
		}
		if !relevance.Relevant {
			report.ArticlesIrrelevant++
			logger.Debug("article not relevant", "url", item.Link, "reason", relevance.Reason)
			if err := p.ledger.RecordSeen(ctx, item.Link, domain.ItemTypeArticle); err != nil {
				return nil, fmt.Errorf("record irrelevant article %s: %w", item.Link, err)
			}
			continue
		}

		companies, err := p.extractor.ExtractCompanies(ctx, article, p.cfg.Limits.MaxCompaniesPerArticle)
		if err != nil {
			report.fail(StateExtract, item.Link, err)
			logger.Warn("company extraction failed", "url", item.Link, "error", err)
			continue
		}
		report.ArticlesProcessed++
		report.CompaniesFound += len(companies)

		if err := p.ledger.RecordSeen(ctx, item.Link, domain.ItemTypeArticle); err != nil {
			return nil, fmt.Errorf("record article %s: %w", item.Link, err)
		}

		for _, company := range companies {
			companyResolved, err := p.resolveCompany(ctx, company, article, report, logger)
			if err != nil {
				return nil, err
			}
			out = append(out, companyResolved...)
		}
	}

	report.CandidatesResolved = len(out)
	return out, nil
}

// resolveCompany gates a company behind the ledger by its website, resolves
// its people, and records the company once resolution succeeded.
func (p *Pipeline) resolveCompany(ctx context.Context, company domain.CompanyMention, article *domain.Article, report *RunReport, logger *slog.Logger) ([]resolved, error) {
	report.State = StateResolve
	if company.Website != "" {
		seen, err := p.ledger.HasSeen(ctx, company.Website)
		if err != nil {
			return nil, fmt.Errorf("dedup lookup %s: %w", company.Website, err)
		}
		if seen {
			logger.Debug("company already resolved", "company", company.Name)
			report.ItemsSkipped++
			return nil, nil
		}
	}

	people, failures, err := p.resolver.Resolve(ctx, company, article)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", company.Name, err)
	}
	report.Failures = append(report.Failures, failures...)
	logger.Info("company resolved", "company", company.Name, "people", len(people))

	if company.Website != "" {
		if err := p.ledger.RecordSeen(ctx, company.Website, domain.ItemTypeCompany); err != nil {
			return nil, fmt.Errorf("record company %s: %w", company.Website, err)
		}
	}

	out := make([]resolved, 0, len(people))
	for _, person := range people {
		out = append(out, resolved{
			candidate:  person,
			company:    company,
			articleURL: article.URL,
		})
	}
	return out, nil
}

// gateAndScore vets each candidate and applies the two score gates. The
// response gate runs before fit scoring so obviously unreachable people
// cost nothing further.
func (p *Pipeline) gateAndScore(ctx context.Context, candidates []resolved, report *RunReport, logger *slog.Logger) []domain.ScoredCandidate {
	var out []domain.ScoredCandidate

	for _, item := range candidates {
		vetting, err := p.extractor.VetCandidate(ctx, item.candidate)
		if err != nil {
			report.fail(StateGateScore, item.candidate.Name, err)
			logger.Warn("vetting failed", "name", item.candidate.Name, "error", err)
			continue
		}

		if !vetting.MatchesCriteria && !p.cfg.DebugKeepNonmatching {
			logger.Debug("candidate does not match criteria",
				"name", item.candidate.Name, "reasoning", vetting.Reasoning)
			continue
		}

		responseScore, _ := p.scorer.ResponseScore(vetting, item.company)
		if responseScore < p.cfg.Limits.MinResponseThreshold {
			logger.Debug("candidate below response threshold",
				"name", item.candidate.Name, "score", responseScore)
			continue
		}

		scored := p.scorer.Score(item.candidate, vetting, item.company, item.articleURL)
		if scored.TotalScore < p.cfg.Limits.MinScoreThreshold {
			logger.Debug("candidate below score threshold",
				"name", item.candidate.Name, "score", scored.TotalScore)
			continue
		}
		out = append(out, scored)
	}

	logger.Info("gating finished", "vetted", len(candidates), "kept", len(out))
	return out
}
