// Package places is a minimal client for the legacy Google Places web service
// (text search and place details).
package places

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// maxResponseBytes caps how much of a response body is buffered.
const maxResponseBytes = 4 << 20

// API statuses that count as success.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

var (
	// ErrUnexpectedStatus is returned for a non-200 response or an API status
	// other than OK and ZERO_RESULTS.
	ErrUnexpectedStatus = eris.New("places: unexpected status")
	// ErrDecode is returned when the response body is not the expected JSON.
	ErrDecode = eris.New("places: undecodable response")
)

// Client performs Places API operations.
type Client interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error)
}

// TextSearchRequest describes one text search call. PageToken selects a
// follow-up page of an earlier search.
type TextSearchRequest struct {
	Query     string
	Lat       float64
	Lng       float64
	Radius    int
	Type      string
	PageToken string
}

// SearchResult is one listing returned by text search.
type SearchResult struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
}

// TextSearchResponse is the response from text search.
type TextSearchResponse struct {
	Results       []SearchResult `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
	ErrorMessage  string         `json:"error_message"`
}

// LatLng is a coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry wraps the place location.
type Geometry struct {
	Location *LatLng `json:"location"`
}

// PlaceDetails holds the detail fields the collector requests. Pointer fields
// are nil when the provider omitted them.
type PlaceDetails struct {
	Name                 string    `json:"name"`
	FormattedAddress     string    `json:"formatted_address"`
	Rating               *float64  `json:"rating"`
	FormattedPhoneNumber string    `json:"formatted_phone_number"`
	Types                []string  `json:"types"`
	Geometry             *Geometry `json:"geometry"`
	UserRatingsTotal     *int      `json:"user_ratings_total"`
}

// DetailsResponse is the response from place details.
type DetailsResponse struct {
	Result       *PlaceDetails `json:"result"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit throttles outgoing requests to n per interval.
func WithRateLimit(n int, interval time.Duration) Option {
	return func(c *httpClient) {
		if n <= 0 || interval <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval/time.Duration(n)), n)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	maxBody int64
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		maxBody: maxResponseBytes,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error) {
	params := url.Values{}
	params.Set("query", req.Query)
	if req.Lat != 0 || req.Lng != 0 {
		params.Set("location", formatCoord(req.Lat)+","+formatCoord(req.Lng))
	}
	if req.Radius > 0 {
		params.Set("radius", strconv.Itoa(req.Radius))
	}
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	}

	var result TextSearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &result); err != nil {
		return nil, err
	}
	if err := checkStatus(result.Status, result.ErrorMessage); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	var result DetailsResponse
	if err := c.get(ctx, "/details/json", params, &result); err != nil {
		return nil, err
	}
	if err := checkStatus(result.Status, result.ErrorMessage); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "places: rate limiter")
		}
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "places: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error embeds the full URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return eris.Wrapf(err, "places: send request %s", path)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Wrapf(ErrUnexpectedStatus, "%s returned HTTP %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return eris.Wrap(err, "places: read response")
	}
	if int64(len(body)) > c.maxBody {
		return eris.Wrapf(ErrDecode, "%s: response larger than %d bytes", path, c.maxBody)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrapf(ErrDecode, "%s: %v", path, err)
	}
	return nil
}

func checkStatus(status, message string) error {
	switch status {
	case StatusOK, StatusZeroResults:
		return nil
	}
	if message != "" {
		return eris.Wrapf(ErrUnexpectedStatus, "api status %s: %s", status, message)
	}
	return eris.Wrapf(ErrUnexpectedStatus, "api status %q", status)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
