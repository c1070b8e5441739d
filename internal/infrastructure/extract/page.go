package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// Team/about pages are fed to the extractor truncated to this many bytes.
const maxPageChars = 8000

// PageReader fetches an arbitrary page and reduces it to plain text for
// entity extraction.
type PageReader struct {
	fetcher ports.PageFetcher
	logger  *slog.Logger
}

var _ ports.PageReader = (*PageReader)(nil)

// NewPageReader wires a page fetcher.
func NewPageReader(fetcher ports.PageFetcher, logger *slog.Logger) *PageReader {
	return &PageReader{fetcher: fetcher, logger: logger}
}

// ReadPage fetches the URL and returns its visible text, truncated to a
// model-friendly size. Empty pages are reported as fetch failures so the
// caller retries them on a later run.
func (r *PageReader) ReadPage(ctx context.Context, url string) (string, error) {
	html, err := r.fetcher.FetchPage(ctx, url)
	if err != nil {
		return "", err
	}

	text := plainText(html)
	if text == "" {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("no visible text")}
	}
	if len(text) > maxPageChars {
		text = text[:maxPageChars]
	}

	r.logger.Debug("page extracted", "url", url, "chars", len(text))
	return text, nil
}
