package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/octobees/leads-generator/collector/internal/places"
)

type stubPlacesClient struct {
	textSearch func(ctx context.Context, req places.TextSearchRequest) (*places.TextSearchResponse, error)
	details    func(ctx context.Context, placeID string, fields []string) (*places.DetailsResponse, error)

	searchRequests []places.TextSearchRequest
	detailRequests []string
}

func (s *stubPlacesClient) TextSearch(ctx context.Context, req places.TextSearchRequest) (*places.TextSearchResponse, error) {
	s.searchRequests = append(s.searchRequests, req)
	if s.textSearch == nil {
		return &places.TextSearchResponse{Status: places.StatusZeroResults}, nil
	}
	return s.textSearch(ctx, req)
}

func (s *stubPlacesClient) Details(ctx context.Context, placeID string, fields []string) (*places.DetailsResponse, error) {
	s.detailRequests = append(s.detailRequests, placeID)
	if s.details == nil {
		return nil, errors.New("details not stubbed")
	}
	return s.details(ctx, placeID, fields)
}

// pagedSearch serves pages in order, chaining them with tokens "tok-1",
// "tok-2", ... A non-nil entry in errs fails the page at that index.
func pagedSearch(pages [][]places.SearchResult, errs map[int]error) func(context.Context, places.TextSearchRequest) (*places.TextSearchResponse, error) {
	return func(_ context.Context, req places.TextSearchRequest) (*places.TextSearchResponse, error) {
		index := 0
		if req.PageToken != "" {
			if _, err := fmt.Sscanf(req.PageToken, "tok-%d", &index); err != nil {
				return nil, fmt.Errorf("unexpected token %q", req.PageToken)
			}
		}
		if err := errs[index]; err != nil {
			return nil, err
		}
		if index >= len(pages) {
			return nil, fmt.Errorf("no page %d", index)
		}
		resp := &places.TextSearchResponse{Status: places.StatusOK, Results: pages[index]}
		if index+1 < len(pages) {
			resp.NextPageToken = fmt.Sprintf("tok-%d", index+1)
		}
		return resp, nil
	}
}

// detailsByID answers details from a fixed table; unknown ids are NOT_FOUND.
func detailsByID(table map[string]places.PlaceDetails) func(context.Context, string, []string) (*places.DetailsResponse, error) {
	return func(_ context.Context, placeID string, _ []string) (*places.DetailsResponse, error) {
		d, ok := table[placeID]
		if !ok {
			return nil, places.ErrUnexpectedStatus
		}
		return &places.DetailsResponse{Status: places.StatusOK, Result: &d}, nil
	}
}

type recordingSleeper struct {
	calls []time.Duration
	err   error
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return r.err
}

type stubFinder struct {
	links map[string][]string
	calls []string
}

func (f *stubFinder) FindLinks(_ context.Context, companyName, _ string) []string {
	f.calls = append(f.calls, companyName)
	if links, ok := f.links[companyName]; ok {
		return links
	}
	return []string{}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
