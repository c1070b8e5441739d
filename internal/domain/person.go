package domain

import "time"

// CandidateSource tells where a person candidate was extracted from.
type CandidateSource string

const (
	SourceArticle  CandidateSource = "article"
	SourceTeamPage CandidateSource = "team_page"
)

// PersonCandidate is one person found for a company, from either tier.
type PersonCandidate struct {
	Name        string
	Title       string
	LinkedInURL string
	Email       string
	Bio         string
	Source      CandidateSource
	SourceURL   string
}

// Vetting is the model's assessment of a candidate against the user's
// preferences.
type Vetting struct {
	School          string
	RoleCategory    string
	SeniorityLevel  string
	Location        string
	Industries      []string
	MatchesCriteria bool
	Reasoning       string
}

// ScoredCandidate is a vetted candidate with final scores, ready for output.
type ScoredCandidate struct {
	Name             string
	Title            string
	LinkedInURL      string
	Email            string
	CompanyName      string
	CompanyURL       string
	School           string
	RoleCategory     string
	SeniorityLevel   string
	Location         string
	Industries       []string
	FitScore         float64
	ResponseScore    float64
	TotalScore       float64
	FitReasons       string
	ResponseReasons  string
	SourceArticleURL string
	ProfileURLs      []string
	DiscoveredAt     time.Time
}
