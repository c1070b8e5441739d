package extract

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// maxTeamURLs bounds how many candidate pages one company can cost.
const maxTeamURLs = 5

// Path suffixes tried against a company website.
var teamPagePaths = []string{
	"/team",
	"/about",
	"/about-us",
	"/company",
	"/leadership",
	"/people",
	"/our-team",
	"/careers",
	"/about/team",
}

// Anchor keywords that mark a homepage link as team-related.
var teamLinkKeywords = []string{"team", "about", "leadership", "people", "company", "our-team"}

// websiteResolver extracts a company website from article text.
type websiteResolver interface {
	ExtractWebsite(ctx context.Context, article *domain.Article, companyName string) (string, error)
}

// TeamFinder locates candidate team/about page URLs for a company. All of
// its lookups are best effort: a failure shrinks the candidate list rather
// than failing the company.
type TeamFinder struct {
	fetcher  ports.PageFetcher
	resolver websiteResolver
	logger   *slog.Logger
}

var _ ports.TeamPageLocator = (*TeamFinder)(nil)

// NewTeamFinder wires a page fetcher and a website resolver.
func NewTeamFinder(fetcher ports.PageFetcher, resolver websiteResolver, logger *slog.Logger) *TeamFinder {
	return &TeamFinder{fetcher: fetcher, resolver: resolver, logger: logger}
}

// FindTeamURLs returns candidate team page URLs in priority order. A team
// URL carried by the article itself short-circuits discovery entirely.
func (f *TeamFinder) FindTeamURLs(ctx context.Context, company domain.CompanyMention, article *domain.Article) []string {
	if company.TeamPageURL != "" {
		return []string{company.TeamPageURL}
	}

	website := company.Website
	if website == "" && f.resolver != nil && article != nil {
		extracted, err := f.resolver.ExtractWebsite(ctx, article, company.Name)
		if err != nil {
			f.logger.Debug("website extraction failed", "company", company.Name, "error", err)
		} else {
			website = extracted
		}
	}
	if website == "" {
		website = inferWebsite(company.Name)
	}
	if website == "" {
		f.logger.Debug("no website determined", "company", company.Name)
		return nil
	}

	candidates := candidateTeamURLs(website)
	candidates = append(candidates, f.scanHomepage(ctx, website)...)

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, u := range candidates {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	if len(unique) > maxTeamURLs {
		unique = unique[:maxTeamURLs]
	}

	f.logger.Debug("team url candidates", "company", company.Name, "count", len(unique))
	return unique
}

// scanHomepage fetches the website root and collects anchors whose href or
// text mentions a team-related keyword.
func (f *TeamFinder) scanHomepage(ctx context.Context, website string) []string {
	html, err := f.fetcher.FetchPage(ctx, website)
	if err != nil {
		f.logger.Debug("homepage scan failed", "website", website, "error", err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(website)
	if err != nil {
		return nil
	}

	var found []string
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		text := strings.ToLower(link.Text())
		lowerHref := strings.ToLower(href)

		for _, kw := range teamLinkKeywords {
			if strings.Contains(lowerHref, kw) || strings.Contains(text, kw) {
				if resolved := resolveRef(base, href); resolved != "" {
					found = append(found, resolved)
				}
				break
			}
		}
	})

	return found
}

// candidateTeamURLs joins the fixed path suffixes onto the website origin.
func candidateTeamURLs(website string) []string {
	parsed, err := url.Parse(website)
	if err != nil || parsed.Host == "" {
		return nil
	}

	origin := parsed.Scheme + "://" + parsed.Host
	urls := make([]string, 0, len(teamPagePaths))
	for _, path := range teamPagePaths {
		urls = append(urls, origin+path)
	}
	return urls
}

// inferWebsite guesses https://<name>.com from a short clean company name.
// Deliberately conservative: anything ambiguous returns empty.
func inferWebsite(companyName string) string {
	name := strings.ToLower(strings.TrimSpace(companyName))
	for _, suffix := range []string{" inc.", " inc", " llc", " ltd", " corp.", " corp", " corporation"} {
		name = strings.TrimSuffix(name, suffix)
	}
	name = strings.TrimSpace(name)

	domainName := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name)
	if domainName == "" || len(domainName) > 20 {
		return ""
	}
	for _, r := range domainName {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "https://" + domainName + ".com"
}

func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
