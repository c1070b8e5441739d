package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/domain"
)

func testScorer() *Scorer {
	prefs := config.PreferencesConfig{
		Schools:         []string{"MIT", "Stanford"},
		Roles:           []string{"engineering", "product"},
		Industries:      []string{"robotics", "ai"},
		SeniorityLevels: []string{"senior", "lead"},
		Locations:       []string{"Boston", "San Francisco"},
	}
	weights := config.WeightsConfig{
		SchoolMatch:    1.0,
		RoleMatch:      1.0,
		IndustryMatch:  1.0,
		SeniorityMatch: 0.5,
		LocationMatch:  0.3,
	}
	return NewScorer(prefs, weights)
}

func TestFitScoreAllMatches(t *testing.T) {
	t.Parallel()

	vetting := &domain.Vetting{
		School:         "MIT Sloan",
		RoleCategory:   "Engineering",
		SeniorityLevel: "Senior",
		Location:       "Boston, MA",
		Industries:     []string{"Robotics", "AI"},
	}

	score, reasoning := testScorer().FitScore(vetting)
	// 1.0 school + 1.0 role + 2 * 1.0 industries + 0.5 seniority + 0.3 location
	assert.InDelta(t, 4.8, score, 1e-9)
	assert.Contains(t, reasoning, "School match: MIT Sloan")
	assert.Contains(t, reasoning, "Industry match: Robotics, AI")
}

func TestFitScoreCaseInsensitive(t *testing.T) {
	t.Parallel()

	vetting := &domain.Vetting{School: "massachusetts institute... mit"}
	score, _ := testScorer().FitScore(vetting)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestFitScoreNoMatches(t *testing.T) {
	t.Parallel()

	vetting := &domain.Vetting{School: "Oxford", RoleCategory: "finance"}
	score, reasoning := testScorer().FitScore(vetting)
	assert.Zero(t, score)
	assert.Equal(t, "No specific matches found", reasoning)
}

func TestResponseScoreSeniorityAdjustments(t *testing.T) {
	t.Parallel()

	scorer := testScorer()
	company := domain.CompanyMention{Name: "Acme"}

	cLevel, _ := scorer.ResponseScore(&domain.Vetting{SeniorityLevel: "C-Level (CEO)"}, company)
	assert.InDelta(t, 0.3, cLevel, 1e-9)

	vp, _ := scorer.ResponseScore(&domain.Vetting{SeniorityLevel: "VP"}, company)
	assert.InDelta(t, 0.4, vp, 1e-9)

	senior, _ := scorer.ResponseScore(&domain.Vetting{SeniorityLevel: "Senior"}, company)
	assert.InDelta(t, 0.6, senior, 1e-9)
}

func TestResponseScoreNewsAndRoleBoosts(t *testing.T) {
	t.Parallel()

	scorer := testScorer()
	inNews := domain.CompanyMention{Name: "Acme", SourceArticleURL: "https://news.example.com/acme"}

	score, reasoning := scorer.ResponseScore(&domain.Vetting{RoleCategory: "Recruiting"}, inNews)
	// 0.5 base + 0.2 news + 0.2 recruiting
	assert.InDelta(t, 0.9, score, 1e-9)
	assert.Contains(t, reasoning, "Recently in the news")
	assert.Contains(t, reasoning, "Recruiting role")
}

func TestResponseScoreClamped(t *testing.T) {
	t.Parallel()

	scorer := testScorer()
	inNews := domain.CompanyMention{SourceArticleURL: "https://news.example.com/a"}

	high, _ := scorer.ResponseScore(&domain.Vetting{SeniorityLevel: "senior", RoleCategory: "recruiting"}, inNews)
	assert.LessOrEqual(t, high, 1.0)

	low, _ := scorer.ResponseScore(&domain.Vetting{SeniorityLevel: "ceo"}, domain.CompanyMention{})
	assert.GreaterOrEqual(t, low, 0.0)
}

func TestScoreBuildsCandidate(t *testing.T) {
	t.Parallel()

	candidate := domain.PersonCandidate{
		Name:        "Jane Doe",
		Title:       "CTO",
		LinkedInURL: "https://linkedin.com/in/janedoe",
	}
	vetting := &domain.Vetting{
		School:         "MIT",
		RoleCategory:   "engineering",
		SeniorityLevel: "senior",
		Industries:     []string{"robotics"},
	}
	company := domain.CompanyMention{
		Name:             "Acme",
		TeamPageURL:      "https://acme.com/team",
		SourceArticleURL: "https://news.example.com/acme",
	}

	scored := testScorer().Score(candidate, vetting, company, "https://news.example.com/acme")

	require.Equal(t, "Jane Doe", scored.Name)
	assert.Equal(t, "Acme", scored.CompanyName)
	assert.Equal(t, "https://news.example.com/acme", scored.SourceArticleURL)
	assert.InDelta(t, scored.FitScore+scored.ResponseScore, scored.TotalScore, 1e-9)
	assert.Equal(t, []string{"https://linkedin.com/in/janedoe", "https://acme.com/team"}, scored.ProfileURLs)
	assert.False(t, scored.DiscoveredAt.IsZero())
}
