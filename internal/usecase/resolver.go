package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// ResolverDeps wires the adapters needed for per-company person resolution.
type ResolverDeps struct {
	Ledger    ports.Ledger
	Pages     ports.PageReader
	Extractor ports.EntityExtractor
	Finder    ports.TeamPageLocator
	Logger    *slog.Logger
}

// Resolver finds people for a company in two tiers: first from the article
// text itself, then from the company's team page. Results from both tiers
// are merged by identity, with team-page data taking precedence because a
// company's own page is more current than a news mention.
type Resolver struct {
	ledger    ports.Ledger
	pages     ports.PageReader
	extractor ports.EntityExtractor
	finder    ports.TeamPageLocator
	logger    *slog.Logger
	maxPeople int
}

// NewResolver constructs the resolver. maxPeople caps the merged result.
func NewResolver(deps ResolverDeps, maxPeople int) *Resolver {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		ledger:    deps.Ledger,
		pages:     deps.Pages,
		extractor: deps.Extractor,
		finder:    deps.Finder,
		logger:    logger.With("component", "resolver"),
		maxPeople: maxPeople,
	}
}

// Resolve runs both tiers for one company. Item-local failures (page fetch,
// extraction exhaustion) are reported in failures and shrink the result;
// only storage errors from the ledger abort resolution.
func (r *Resolver) Resolve(ctx context.Context, company domain.CompanyMention, article *domain.Article) ([]domain.PersonCandidate, []ItemFailure, error) {
	var failures []ItemFailure

	articlePeople, err := r.extractor.ExtractArticlePeople(ctx, article, company.Name)
	if err != nil {
		failures = append(failures, ItemFailure{
			Stage:   StateResolve,
			Subject: company.Name,
			Err:     err,
		})
		r.logger.Warn("article people extraction failed",
			"company", company.Name, "error", err)
	}

	teamPeople, teamFailures, err := r.resolveTeamPages(ctx, company, article)
	if err != nil {
		return nil, failures, err
	}
	failures = append(failures, teamFailures...)

	merged := mergeCandidates(articlePeople, teamPeople)
	if r.maxPeople > 0 && len(merged) > r.maxPeople {
		merged = merged[:r.maxPeople]
	}
	return merged, failures, nil
}

// resolveTeamPages discovers and extracts the company's team pages. Pages
// already recorded in the ledger are skipped; a page is recorded only after
// its extraction succeeds, so an interrupted run retries it next time.
func (r *Resolver) resolveTeamPages(ctx context.Context, company domain.CompanyMention, article *domain.Article) ([]domain.PersonCandidate, []ItemFailure, error) {
	urls := r.finder.FindTeamURLs(ctx, company, article)
	if len(urls) == 0 {
		r.logger.Debug("no team pages found", "company", company.Name)
		return nil, nil, nil
	}

	var people []domain.PersonCandidate
	var failures []ItemFailure

	for _, pageURL := range urls {
		seen, err := r.ledger.HasSeen(ctx, pageURL)
		if err != nil {
			return nil, failures, err
		}
		if seen {
			r.logger.Debug("team page already processed", "url", pageURL)
			continue
		}

		text, err := r.pages.ReadPage(ctx, pageURL)
		if err != nil {
			// Most candidates are synthesized path guesses; one that does
			// not resolve is expected, not a failure. Only a team page the
			// article itself pointed at is worth reporting.
			if pageURL == company.TeamPageURL {
				failures = append(failures, ItemFailure{
					Stage:   StateResolve,
					Subject: pageURL,
					Err:     err,
				})
			} else {
				r.logger.Debug("candidate team page did not resolve", "url", pageURL, "error", err)
			}
			continue
		}

		extracted, err := r.extractor.ExtractPagePeople(ctx, text, pageURL, company.Name)
		if err != nil {
			failures = append(failures, ItemFailure{
				Stage:   StateResolve,
				Subject: pageURL,
				Err:     err,
			})
			continue
		}

		people = append(people, extracted...)

		if err := r.ledger.RecordSeen(ctx, pageURL, domain.ItemTypePersonPage); err != nil {
			return people, failures, err
		}
		r.logger.Info("team page processed",
			"company", company.Name, "url", pageURL, "people", len(extracted))
	}

	return people, failures, nil
}

// mergeCandidates combines both tiers keyed by identity. Team-page values
// overwrite article values on conflict; empty fields are filled from
// whichever tier has them. Article order is preserved, new team-page
// identities append after.
func mergeCandidates(articlePeople, teamPeople []domain.PersonCandidate) []domain.PersonCandidate {
	var order []string
	byKey := make(map[string]domain.PersonCandidate)

	for _, p := range articlePeople {
		key := identityKey(p)
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
			byKey[key] = p
		}
	}

	for _, p := range teamPeople {
		key := identityKey(p)
		if key == "" {
			continue
		}
		existing, ok := byKey[key]
		if !ok {
			order = append(order, key)
			byKey[key] = p
			continue
		}
		byKey[key] = mergePair(existing, p)
	}

	merged := make([]domain.PersonCandidate, 0, len(order))
	for _, key := range order {
		merged = append(merged, byKey[key])
	}
	return merged
}

// mergePair folds a team-page record into an article record. The team page
// is authoritative for every field it has a value for.
func mergePair(article, teamPage domain.PersonCandidate) domain.PersonCandidate {
	out := article
	if teamPage.Name != "" {
		out.Name = teamPage.Name
	}
	if teamPage.Title != "" {
		out.Title = teamPage.Title
	}
	if teamPage.LinkedInURL != "" {
		out.LinkedInURL = teamPage.LinkedInURL
	}
	if teamPage.Email != "" {
		out.Email = teamPage.Email
	}
	if teamPage.Bio != "" {
		out.Bio = teamPage.Bio
	}
	out.Source = teamPage.Source
	out.SourceURL = teamPage.SourceURL
	return out
}

// identityKey identifies a person across tiers: the LinkedIn URL when
// available, otherwise the normalized name.
func identityKey(p domain.PersonCandidate) string {
	if url := strings.ToLower(strings.TrimSpace(p.LinkedInURL)); url != "" {
		return strings.TrimSuffix(url, "/")
	}
	return normalizeName(p.Name)
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
