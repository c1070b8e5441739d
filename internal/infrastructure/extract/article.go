package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// Readability output shorter than this falls back to whole-document text.
const minReadableChars = 200

// ArticleReader fetches an article URL and reduces it to readable text.
type ArticleReader struct {
	fetcher ports.PageFetcher
	logger  *slog.Logger
}

var _ ports.ArticleReader = (*ArticleReader)(nil)

// NewArticleReader wires a page fetcher.
func NewArticleReader(fetcher ports.PageFetcher, logger *slog.Logger) *ArticleReader {
	return &ArticleReader{fetcher: fetcher, logger: logger}
}

// ReadArticle fetches the URL and extracts its main text. The feed title is
// preferred; the document title fills in when the feed had none.
func (r *ArticleReader) ReadArticle(ctx context.Context, url, title string) (*domain.Article, error) {
	html, err := r.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	text, docTitle := readableText(html)
	if text == "" {
		return nil, &domain.ExtractionError{Subject: url, Attempts: 1, Err: fmt.Errorf("no readable text")}
	}
	if title == "" {
		title = docTitle
	}

	r.logger.Debug("article extracted", "url", url, "chars", len(text))

	return &domain.Article{
		URL:       url,
		Title:     title,
		RawHTML:   html,
		Text:      text,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// readableText runs readability over the HTML and falls back to stripped
// whole-document text when the extraction is empty or suspiciously short.
func readableText(html string) (text, title string) {
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err == nil {
		text = strings.TrimSpace(article.TextContent)
		title = strings.TrimSpace(article.Title)
	}

	if len(text) < minReadableChars {
		if fallback := plainText(html); len(fallback) > len(text) {
			text = fallback
		}
	}

	return text, title
}

// plainText strips scripts and styles and returns the document's visible
// text with collapsed whitespace.
func plainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()

	var b strings.Builder
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		b.WriteString(body.Text())
	})
	if b.Len() == 0 {
		b.WriteString(doc.Text())
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
