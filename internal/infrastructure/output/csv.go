package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

var csvHeader = []string{
	"name",
	"title",
	"company",
	"company_url",
	"linkedin_url",
	"email",
	"school",
	"role_category",
	"seniority_level",
	"location",
	"industries",
	"fit_score",
	"response_score",
	"total_score",
	"fit_reasons",
	"response_reasons",
	"source_article",
	"profile_urls",
	"discovered_at",
}

// CSVSink writes the ranked candidate list to a CSV file, replacing any
// previous run's output.
type CSVSink struct {
	path string
}

var _ ports.CandidateSink = (*CSVSink)(nil)

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Write sorts candidates by total score descending and rewrites the file.
func (s *CSVSink) Write(_ context.Context, candidates []domain.ScoredCandidate) error {
	sorted := sortByScore(candidates)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.OutputError{Sink: "csv", Err: fmt.Errorf("create output directory: %w", err)}
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return &domain.OutputError{Sink: "csv", Err: fmt.Errorf("create file: %w", err)}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return &domain.OutputError{Sink: "csv", Err: fmt.Errorf("write header: %w", err)}
	}
	for _, c := range sorted {
		if err := w.Write(csvRow(c)); err != nil {
			return &domain.OutputError{Sink: "csv", Err: fmt.Errorf("write row: %w", err)}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &domain.OutputError{Sink: "csv", Err: fmt.Errorf("flush: %w", err)}
	}
	return nil
}

func csvRow(c domain.ScoredCandidate) []string {
	return []string{
		c.Name,
		c.Title,
		c.CompanyName,
		c.CompanyURL,
		c.LinkedInURL,
		c.Email,
		c.School,
		c.RoleCategory,
		c.SeniorityLevel,
		c.Location,
		strings.Join(c.Industries, "; "),
		fmt.Sprintf("%.2f", c.FitScore),
		fmt.Sprintf("%.2f", c.ResponseScore),
		fmt.Sprintf("%.2f", c.TotalScore),
		c.FitReasons,
		c.ResponseReasons,
		c.SourceArticleURL,
		strings.Join(c.ProfileURLs, "; "),
		c.DiscoveredAt.Format(time.RFC3339),
	}
}

// sortByScore returns a copy ranked by total score descending. The sort is
// stable so equal scores keep discovery order.
func sortByScore(candidates []domain.ScoredCandidate) []domain.ScoredCandidate {
	sorted := make([]domain.ScoredCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})
	return sorted
}
