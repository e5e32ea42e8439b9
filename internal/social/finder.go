// Package social looks up the social media pages of a business through a
// site-restricted web search.
package social

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/normalize"
)

// MaxResults caps the number of search results requested per business.
const MaxResults = 5

const siteClause = "site:facebook.com OR site:instagram.com"

// Finder finds social links for a business. A Finder without a Searcher is
// unconfigured and always returns no links.
type Finder struct {
	searcher         Searcher
	restrictPlatform bool
	logger           *zap.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithPlatformFilter drops results not hosted on facebook.com or instagram.com.
func WithPlatformFilter(enabled bool) Option {
	return func(f *Finder) {
		f.restrictPlatform = enabled
	}
}

// WithLogger overrides the global zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFinder builds a Finder. searcher may be nil.
func NewFinder(searcher Searcher, opts ...Option) *Finder {
	f := &Finder{searcher: searcher, logger: zap.L()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Configured reports whether the finder can issue searches.
func (f *Finder) Configured() bool {
	return f != nil && f.searcher != nil
}

// BuildQuery returns the search query for a company in locality.
func BuildQuery(companyName, locality string) string {
	parts := []string{`"` + normalize.Name(companyName) + `"`}
	if locality = strings.TrimSpace(locality); locality != "" {
		parts = append(parts, locality)
	}
	parts = append(parts, siteClause)
	return strings.Join(parts, " ")
}

// FindLinks returns the URLs the search produced for companyName, in result
// order. Every failure yields an empty, non-nil slice.
func (f *Finder) FindLinks(ctx context.Context, companyName, locality string) []string {
	if !f.Configured() {
		return []string{}
	}

	query := BuildQuery(companyName, locality)
	links, err := f.searcher.Search(ctx, query, MaxResults)
	if err != nil {
		f.logger.Warn("social search failed",
			zap.String("company", companyName),
			zap.String("reason", "search_error"),
			zap.Error(err))
		return []string{}
	}
	if len(links) == 0 {
		f.logger.Debug("no social links found", zap.String("company", companyName))
		return []string{}
	}

	if f.restrictPlatform {
		kept := make([]string, 0, len(links))
		for _, link := range links {
			if _, ok := platformOf(link); ok {
				kept = append(kept, link)
			}
		}
		links = kept
	}

	f.logger.Debug("social links found",
		zap.String("company", companyName),
		zap.Int("count", len(links)))
	return links
}
