package social

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Searcher runs a web search and returns result URLs in ranking order.
type Searcher interface {
	Search(ctx context.Context, query string, num int64) ([]string, error)
}

// CSESearcher queries a Programmable Search Engine through the Custom Search
// JSON API.
type CSESearcher struct {
	svc      *customsearch.Service
	engineID string
}

// NewCSESearcher builds a searcher for engineID. Extra client options (for
// example option.WithEndpoint) are applied after the API key.
func NewCSESearcher(ctx context.Context, apiKey, engineID string, opts ...option.ClientOption) (*CSESearcher, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	return &CSESearcher{svc: svc, engineID: engineID}, nil
}

func (s *CSESearcher) Search(ctx context.Context, query string, num int64) ([]string, error) {
	resp, err := s.svc.Cse.List().Cx(s.engineID).Q(query).Num(num).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	links := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Link == "" {
			continue
		}
		links = append(links, item.Link)
	}
	return links, nil
}

var _ Searcher = (*CSESearcher)(nil)
