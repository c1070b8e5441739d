package llm

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// websiteConfidenceFloor rejects low-confidence website guesses.
const websiteConfidenceFloor = 0.5

// Wire types for structured model output.
type relevanceResult struct {
	IsRelevant bool    `json:"is_relevant"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

type companyWire struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Website          string `json:"website"`
	TeamPageURL      string `json:"team_page_url"`
	MentionedContext string `json:"mentioned_context"`
}

type companiesResult struct {
	Companies []companyWire `json:"companies"`
}

type personWire struct {
	FullName    string `json:"full_name"`
	Title       string `json:"title"`
	LinkedInURL string `json:"linkedin_url"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
}

type peopleResult struct {
	People []personWire `json:"people"`
}

type websiteResult struct {
	WebsiteURL string  `json:"website_url"`
	Confidence float64 `json:"confidence"`
}

type vettingResult struct {
	School          string   `json:"school"`
	RoleCategory    string   `json:"role_category"`
	SeniorityLevel  string   `json:"seniority_level"`
	Location        string   `json:"location"`
	Industries      []string `json:"industry_experience"`
	MatchesCriteria bool     `json:"matches_criteria"`
	Reasoning       string   `json:"reasoning"`
}

// Extractor implements entity extraction on top of a provider client,
// applying the shared rate limit and the bounded schema-retry loop.
type Extractor struct {
	client     Client
	limiter    *rate.Limiter
	keywords   config.KeywordsConfig
	prefs      config.PreferencesConfig
	maxRetries int
	logger     *slog.Logger
}

var _ ports.EntityExtractor = (*Extractor)(nil)

// NewExtractor wires a provider client with keyword and preference context.
func NewExtractor(client Client, cfg config.Config, logger *slog.Logger) *Extractor {
	return &Extractor{
		client:     client,
		limiter:    rate.NewLimiter(rate.Every(cfg.Fetch.RequestDelay()), 1),
		keywords:   cfg.Keywords,
		prefs:      cfg.Preferences,
		maxRetries: cfg.LLM.MaxRetries,
		logger:     logger,
	}
}

// WithDelay replaces the minimum interval between model calls.
func (e *Extractor) WithDelay(d time.Duration) *Extractor {
	e.limiter = rate.NewLimiter(rate.Every(d), 1)
	return e
}

func (e *Extractor) wait(ctx context.Context) error {
	return e.limiter.Wait(ctx)
}

// CheckRelevance decides whether the article is worth mining for contacts.
func (e *Extractor) CheckRelevance(ctx context.Context, article *domain.Article) (domain.Relevance, error) {
	if err := e.wait(ctx); err != nil {
		return domain.Relevance{}, err
	}

	prompt := relevancePrompt(article.Title, article.Text, e.keywords)
	result, attempts, err := generateStructured[relevanceResult](ctx, e.client, prompt, e.maxRetries)
	if err != nil {
		return domain.Relevance{}, &domain.ExtractionError{Subject: article.URL, Attempts: attempts, Err: err}
	}

	e.logger.Debug("relevance checked", "url", article.URL, "relevant", result.IsRelevant, "confidence", result.Confidence)
	return domain.Relevance{
		Relevant:   result.IsRelevant,
		Reason:     result.Reason,
		Confidence: result.Confidence,
	}, nil
}

// ExtractCompanies pulls company mentions out of the article text, capped
// at limit before any further per-company work.
func (e *Extractor) ExtractCompanies(ctx context.Context, article *domain.Article, limit int) ([]domain.CompanyMention, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}

	prompt := companyPrompt(article.Text)
	result, attempts, err := generateStructured[companiesResult](ctx, e.client, prompt, e.maxRetries)
	if err != nil {
		return nil, &domain.ExtractionError{Subject: article.URL, Attempts: attempts, Err: err}
	}

	mentions := result.Companies
	if limit > 0 && len(mentions) > limit {
		mentions = mentions[:limit]
	}

	companies := make([]domain.CompanyMention, 0, len(mentions))
	for _, mention := range mentions {
		if mention.Name == "" {
			continue
		}
		companies = append(companies, domain.CompanyMention{
			Name:             mention.Name,
			Description:      mention.Description,
			Website:          mention.Website,
			TeamPageURL:      mention.TeamPageURL,
			MentionedContext: mention.MentionedContext,
			SourceArticleURL: article.URL,
		})
	}

	e.logger.Debug("companies extracted", "url", article.URL, "count", len(companies))
	return companies, nil
}

// ExtractArticlePeople pulls people tied to the company from article text.
func (e *Extractor) ExtractArticlePeople(ctx context.Context, article *domain.Article, companyName string) ([]domain.PersonCandidate, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}

	prompt := articlePeoplePrompt(article.Title, article.Text, companyName)
	result, attempts, err := generateStructured[peopleResult](ctx, e.client, prompt, e.maxRetries)
	if err != nil {
		return nil, &domain.ExtractionError{Subject: article.URL, Attempts: attempts, Err: err}
	}

	return toCandidates(result.People, domain.SourceArticle, article.URL), nil
}

// ExtractPagePeople pulls team members out of a team/about page's text.
func (e *Extractor) ExtractPagePeople(ctx context.Context, pageText, pageURL, companyName string) ([]domain.PersonCandidate, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}

	prompt := pagePeoplePrompt(pageText, companyName)
	result, attempts, err := generateStructured[peopleResult](ctx, e.client, prompt, e.maxRetries)
	if err != nil {
		return nil, &domain.ExtractionError{Subject: pageURL, Attempts: attempts, Err: err}
	}

	return toCandidates(result.People, domain.SourceTeamPage, pageURL), nil
}

// ExtractWebsite tries to recover the company's website from article text.
// Low-confidence answers are discarded.
func (e *Extractor) ExtractWebsite(ctx context.Context, article *domain.Article, companyName string) (string, error) {
	if err := e.wait(ctx); err != nil {
		return "", err
	}

	prompt := websitePrompt(companyName, article.Text)
	result, attempts, err := generateStructured[websiteResult](ctx, e.client, prompt, e.maxRetries)
	if err != nil {
		return "", &domain.ExtractionError{Subject: companyName, Attempts: attempts, Err: err}
	}

	if result.WebsiteURL == "" || result.Confidence <= websiteConfidenceFloor {
		return "", nil
	}
	return result.WebsiteURL, nil
}

// VetCandidate assesses a merged candidate against the user's preferences.
func (e *Extractor) VetCandidate(ctx context.Context, candidate domain.PersonCandidate) (*domain.Vetting, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}

	prompt := vettingPrompt(candidate, e.prefs)
	result, attempts, err := generateStructured[vettingResult](ctx, e.client, prompt, e.maxRetries)
	if err != nil {
		return nil, &domain.ExtractionError{Subject: candidate.Name, Attempts: attempts, Err: err}
	}

	return &domain.Vetting{
		School:          result.School,
		RoleCategory:    result.RoleCategory,
		SeniorityLevel:  result.SeniorityLevel,
		Location:        result.Location,
		Industries:      result.Industries,
		MatchesCriteria: result.MatchesCriteria,
		Reasoning:       result.Reasoning,
	}, nil
}

func toCandidates(people []personWire, source domain.CandidateSource, sourceURL string) []domain.PersonCandidate {
	candidates := make([]domain.PersonCandidate, 0, len(people))
	for _, person := range people {
		if person.FullName == "" {
			continue
		}
		candidates = append(candidates, domain.PersonCandidate{
			Name:        person.FullName,
			Title:       person.Title,
			LinkedInURL: person.LinkedInURL,
			Email:       person.Email,
			Bio:         person.Bio,
			Source:      source,
			SourceURL:   sourceURL,
		})
	}
	return candidates
}
