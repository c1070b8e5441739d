package scoring

import (
	"strings"
	"time"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

const responseBaseScore = 0.5

// Scorer computes fit and response-likelihood scores from vetting results.
// Pure arithmetic over preferences and weights, no side effects.
type Scorer struct {
	prefs   config.PreferencesConfig
	weights config.WeightsConfig
}

var _ ports.Scorer = (*Scorer)(nil)

// NewScorer wires preferences and weights.
func NewScorer(prefs config.PreferencesConfig, weights config.WeightsConfig) *Scorer {
	return &Scorer{prefs: prefs, weights: weights}
}

// FitScore sums the weighted preference matches found in the vetting.
func (s *Scorer) FitScore(vetting *domain.Vetting) (float64, string) {
	score := 0.0
	var reasons []string

	if vetting.School != "" && containsFold(s.prefs.Schools, vetting.School) {
		score += s.weights.SchoolMatch
		reasons = append(reasons, "School match: "+vetting.School)
	}

	if vetting.RoleCategory != "" && containsFold(s.prefs.Roles, vetting.RoleCategory) {
		score += s.weights.RoleMatch
		reasons = append(reasons, "Role match: "+vetting.RoleCategory)
	}

	if len(vetting.Industries) > 0 && len(s.prefs.Industries) > 0 {
		var matched []string
		for _, industry := range vetting.Industries {
			if overlapsFold(s.prefs.Industries, industry) {
				matched = append(matched, industry)
			}
		}
		if len(matched) > 0 {
			score += s.weights.IndustryMatch * float64(len(matched))
			reasons = append(reasons, "Industry match: "+strings.Join(matched, ", "))
		}
	}

	if vetting.SeniorityLevel != "" && containsFold(s.prefs.SeniorityLevels, vetting.SeniorityLevel) {
		score += s.weights.SeniorityMatch
		reasons = append(reasons, "Seniority match: "+vetting.SeniorityLevel)
	}

	if vetting.Location != "" && overlapsFold(s.prefs.Locations, vetting.Location) {
		score += s.weights.LocationMatch
		reasons = append(reasons, "Location match: "+vetting.Location)
	}

	if len(reasons) == 0 && vetting.Reasoning != "" {
		reasons = append(reasons, vetting.Reasoning)
	}

	reasoning := "No specific matches found"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}
	return score, reasoning
}

// ResponseScore estimates how likely the person is to answer an outreach
// message, clamped to [0, 1].
func (s *Scorer) ResponseScore(vetting *domain.Vetting, company domain.CompanyMention) (float64, string) {
	score := responseBaseScore
	var reasons []string

	if vetting.SeniorityLevel != "" {
		level := strings.ToLower(vetting.SeniorityLevel)
		switch {
		case containsAny(level, "c-level", "ceo", "cto", "cfo"):
			score -= 0.2
			reasons = append(reasons, "C-level (typically busy)")
		case containsAny(level, "vp", "director"):
			score -= 0.1
			reasons = append(reasons, "Director/VP level")
		case containsAny(level, "senior", "lead", "staff"):
			score += 0.1
			reasons = append(reasons, "Senior IC (often accessible)")
		}
	}

	if company.SourceArticleURL != "" {
		score += 0.2
		reasons = append(reasons, "Recently in the news (good timing)")
	}

	if vetting.RoleCategory != "" {
		role := strings.ToLower(vetting.RoleCategory)
		switch {
		case containsAny(role, "recruiting", "hr", "people"):
			score += 0.2
			reasons = append(reasons, "Recruiting role (open to outreach)")
		case containsAny(role, "bd", "business development", "sales"):
			score += 0.15
			reasons = append(reasons, "BD/Sales role (network-oriented)")
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	reasoning := "Standard response likelihood"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}
	return score, reasoning
}

// Score combines both scores into a fully populated output candidate.
func (s *Scorer) Score(candidate domain.PersonCandidate, vetting *domain.Vetting, company domain.CompanyMention, articleURL string) domain.ScoredCandidate {
	fitScore, fitReasons := s.FitScore(vetting)
	responseScore, responseReasons := s.ResponseScore(vetting, company)

	var profileURLs []string
	if candidate.LinkedInURL != "" {
		profileURLs = append(profileURLs, candidate.LinkedInURL)
	}
	if company.TeamPageURL != "" {
		profileURLs = append(profileURLs, company.TeamPageURL)
	}

	return domain.ScoredCandidate{
		Name:             candidate.Name,
		Title:            candidate.Title,
		LinkedInURL:      candidate.LinkedInURL,
		Email:            candidate.Email,
		CompanyName:      company.Name,
		CompanyURL:       company.TeamPageURL,
		School:           vetting.School,
		RoleCategory:     vetting.RoleCategory,
		SeniorityLevel:   vetting.SeniorityLevel,
		Location:         vetting.Location,
		Industries:       vetting.Industries,
		FitScore:         fitScore,
		ResponseScore:    responseScore,
		TotalScore:       fitScore + responseScore,
		FitReasons:       fitReasons,
		ResponseReasons:  responseReasons,
		SourceArticleURL: articleURL,
		ProfileURLs:      profileURLs,
		DiscoveredAt:     time.Now().UTC(),
	}
}

// containsFold reports whether any target is a case-insensitive substring
// of the value.
func containsFold(targets []string, value string) bool {
	lower := strings.ToLower(value)
	for _, target := range targets {
		if target != "" && strings.Contains(lower, strings.ToLower(target)) {
			return true
		}
	}
	return false
}

// overlapsFold matches in both directions: target inside value or value
// inside target.
func overlapsFold(targets []string, value string) bool {
	lower := strings.ToLower(value)
	for _, target := range targets {
		targetLower := strings.ToLower(target)
		if target == "" {
			continue
		}
		if strings.Contains(lower, targetLower) || strings.Contains(targetLower, lower) {
			return true
		}
	}
	return false
}

func containsAny(value string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}
