package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// SheetsSink mirrors the ranked candidate list into a Google Sheets
// spreadsheet. Each run clears the first sheet and rewrites it so the
// spreadsheet always shows the latest ranking.
type SheetsSink struct {
	sheetID string
	creds   string
}

var _ ports.CandidateSink = (*SheetsSink)(nil)

func NewSheetsSink(sheetID, credentialsPath string) *SheetsSink {
	return &SheetsSink{sheetID: sheetID, creds: credentialsPath}
}

func (s *SheetsSink) Write(ctx context.Context, candidates []domain.ScoredCandidate) error {
	var opts []option.ClientOption
	if s.creds != "" {
		opts = append(opts, option.WithCredentialsFile(s.creds))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return &domain.OutputError{Sink: "sheets", Err: fmt.Errorf("create service: %w", err)}
	}

	if _, err := svc.Spreadsheets.Values.Clear(s.sheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return &domain.OutputError{Sink: "sheets", Err: fmt.Errorf("clear spreadsheet: %w", err)}
	}

	rows := make([][]interface{}, 0, len(candidates)+1)
	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	rows = append(rows, header)
	for _, c := range sortByScore(candidates) {
		rows = append(rows, sheetRow(c))
	}

	values := &sheets.ValueRange{Values: rows}
	_, err = svc.Spreadsheets.Values.Update(s.sheetID, "A1", values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return &domain.OutputError{Sink: "sheets", Err: fmt.Errorf("update spreadsheet: %w", err)}
	}
	return nil
}

func sheetRow(c domain.ScoredCandidate) []interface{} {
	return []interface{}{
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
