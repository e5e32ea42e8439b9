package collector

import (
	"context"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/places"
)

// DefaultSettleInterval is how long a next-page token needs before the
// provider accepts it.
const DefaultSettleInterval = 2 * time.Second

// Page is one page of text search results.
type Page struct {
	Number        int
	Results       []places.SearchResult
	NextPageToken string
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SearchPaginator walks the pages of a text search.
type SearchPaginator struct {
	client places.Client
	base   places.TextSearchRequest
	settle time.Duration
	sleep  Sleeper
	logger *zap.Logger
}

// PaginatorOption configures a SearchPaginator.
type PaginatorOption func(*SearchPaginator)

// WithSettleInterval sets the wait before each token request.
func WithSettleInterval(d time.Duration) PaginatorOption {
	return func(p *SearchPaginator) {
		if d >= 0 {
			p.settle = d
		}
	}
}

// WithSleeper replaces the real clock, mostly for tests.
func WithSleeper(s Sleeper) PaginatorOption {
	return func(p *SearchPaginator) {
		if s != nil {
			p.sleep = s
		}
	}
}

// WithPaginatorLogger overrides the global zap logger.
func WithPaginatorLogger(logger *zap.Logger) PaginatorOption {
	return func(p *SearchPaginator) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewSearchPaginator builds a paginator. base carries the location, radius and
// type sent with every request; its Query and PageToken are ignored.
func NewSearchPaginator(client places.Client, base places.TextSearchRequest, opts ...PaginatorOption) *SearchPaginator {
	p := &SearchPaginator{
		client: client,
		base:   base,
		settle: DefaultSettleInterval,
		sleep:  contextSleep,
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchPage requests a single page. An empty token requests the first page.
func (p *SearchPaginator) FetchPage(ctx context.Context, query, token string) (Page, error) {
	req := p.base
	req.Query = query
	req.PageToken = token

	resp, err := p.client.TextSearch(ctx, req)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Results:       resp.Results,
		NextPageToken: resp.NextPageToken,
	}, nil
}

// Pages returns a lazy sequence over every page of query.
func (p *SearchPaginator) Pages(ctx context.Context, query string) *PageSequence {
	return &PageSequence{ctx: ctx, p: p, query: query}
}

// PageSequence is a lazily fetched run of pages. Like bufio.Scanner, a
// failure ends the iteration and is reported by Err afterwards.
type PageSequence struct {
	ctx     context.Context
	p       *SearchPaginator
	query   string
	err     error
	fetched int
}

// All yields pages in provider order until a page carries no token, a fetch
// fails or the consumer stops. Each call starts a fresh traversal.
func (s *PageSequence) All() iter.Seq[Page] {
	return func(yield func(Page) bool) {
		s.err = nil
		s.fetched = 0
		token := ""
		for number := 1; ; number++ {
			if number > 1 {
				if err := s.p.sleep(s.ctx, s.p.settle); err != nil {
					s.err = err
					return
				}
			}

			page, err := s.p.FetchPage(s.ctx, s.query, token)
			if err != nil {
				s.err = err
				s.p.logger.Warn("search page failed",
					zap.Int("page", number),
					zap.String("reason", "page_error"),
					zap.Error(err))
				return
			}
			page.Number = number
			s.fetched++
			s.p.logger.Info("search page fetched",
				zap.Int("page", number),
				zap.Int("results", len(page.Results)),
				zap.Bool("has_next", page.NextPageToken != ""))

			if !yield(page) {
				return
			}
			if page.NextPageToken == "" {
				return
			}
			token = page.NextPageToken
		}
	}
}

// Err returns the error that ended the last traversal, if any.
func (s *PageSequence) Err() error {
	return s.err
}

// Fetched returns the number of pages fetched by the last traversal.
func (s *PageSequence) Fetched() int {
	return s.fetched
}

func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
