package sync

import "strings"

// Config holds the operator settings for a reconciliation pass.
type Config struct {
	// AllowUpdates permits applying field diffs to already-linked records.
	AllowUpdates bool `mapstructure:"allow_updates" default:"false"`
	// AllowLinking permits stamping the linkage key on name-matched records.
	AllowLinking bool `mapstructure:"allow_linking" default:"false"`
	// DefaultSite is the site assigned to devices when neither a location
	// nor a keyword rule yields one. Created on demand.
	DefaultSite string `mapstructure:"default_site" default:"Default Site"`
	// SiteKeywords is the ordered keyword-to-site fallback table matched
	// against lower-cased company names, first hit wins.
	// Format: "keyword=Site Name;other keyword=Other Site".
	SiteKeywords string `mapstructure:"site_keywords" default:""`
}

// SiteKeyword is one fallback rule: a company-name substring mapped to the
// name of the site devices of that company default to.
type SiteKeyword struct {
	Keyword string
	Site    string
}

// KeywordTable parses the configured rules, preserving their order.
// Malformed entries are dropped.
func (c Config) KeywordTable() []SiteKeyword {
	var table []SiteKeyword
	for _, entry := range strings.Split(c.SiteKeywords, ";") {
		keyword, site, ok := strings.Cut(entry, "=")
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		site = strings.TrimSpace(site)
		if !ok || keyword == "" || site == "" {
			continue
		}
		table = append(table, SiteKeyword{Keyword: keyword, Site: site})
	}
	return table
}
