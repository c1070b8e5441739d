package domain

// CompanyMention is a company extracted from one article. Scoped to that
// article's processing; only its website and team-page URLs ever reach
// the ledger.
type CompanyMention struct {
	Name             string
	Description      string
	Website          string
	TeamPageURL      string
	MentionedContext string
	SourceArticleURL string
}
