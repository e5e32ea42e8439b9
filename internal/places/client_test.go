package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/textsearch/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "restaurantes em Santos SP", q.Get("query"))
		assert.Equal(t, "-23.9608,-46.3336", q.Get("location"))
		assert.Equal(t, "10000", q.Get("radius"))
		assert.Equal(t, "restaurant", q.Get("type"))
		assert.Empty(t, q.Get("pagetoken"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"next_page_token": "tok-2",
			"results": [
				{"place_id": "p1", "name": "Pizzaria Bella"},
				{"place_id": "p2", "name": "Bar do Zé"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.TextSearch(context.Background(), TextSearchRequest{
		Query:  "restaurantes em Santos SP",
		Lat:    -23.9608,
		Lng:    -46.3336,
		Radius: 10000,
		Type:   "restaurant",
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "p1", resp.Results[0].PlaceID)
	assert.Equal(t, "Bar do Zé", resp.Results[1].Name)
	assert.Equal(t, "tok-2", resp.NextPageToken)
}

func TestTextSearch_SendsPageToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-2", r.URL.Query().Get("pagetoken"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[]}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL+"/"))
	resp, err := client.TextSearch(context.Background(), TextSearchRequest{Query: "q", PageToken: "tok-2"})

	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.NextPageToken)
}

func TestTextSearch_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	resp, err := NewClient("k", WithBaseURL(srv.URL)).TextSearch(context.Background(), TextSearchRequest{Query: "q"})

	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestTextSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "denied"}`))
	}))
	defer srv.Close()

	resp, err := NewClient("secret-key", WithBaseURL(srv.URL)).TextSearch(context.Background(), TextSearchRequest{Query: "q"})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "403")
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestTextSearch_APIStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).TextSearch(context.Background(), TextSearchRequest{Query: "q"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestTextSearch_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).TextSearch(context.Background(), TextSearchRequest{Query: "q"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestTextSearch_OversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"place_id":"p1","name":"` + strings.Repeat("x", 512) + `"}]}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL)).(*httpClient)
	client.maxBody = 64

	_, err := client.TextSearch(context.Background(), TextSearchRequest{Query: "q"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestTextSearch_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewClient("secret-key", WithBaseURL(base)).TextSearch(context.Background(), TextSearchRequest{Query: "q"})

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestTextSearch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient("k", WithBaseURL(srv.URL)).TextSearch(ctx, TextSearchRequest{Query: "q"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestDetails_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "p1", r.URL.Query().Get("place_id"))
		assert.Equal(t, "name,rating,geometry/location", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"result": {
				"name": "Pizzaria Bella",
				"formatted_address": "Rua Doutor Mario Moura, 123 - Boqueirao, Santos - SP, 11060-000",
				"rating": 4.6,
				"formatted_phone_number": "(13) 3222-1234",
				"types": ["restaurant", "food"],
				"geometry": {"location": {"lat": -23.96, "lng": -46.33}},
				"user_ratings_total": 150
			}
		}`))
	}))
	defer srv.Close()

	resp, err := NewClient("k", WithBaseURL(srv.URL)).Details(context.Background(), "p1", []string{"name", "rating", "geometry/location"})

	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "Pizzaria Bella", resp.Result.Name)
	require.NotNil(t, resp.Result.Rating)
	assert.InDelta(t, 4.6, *resp.Result.Rating, 0.001)
	require.NotNil(t, resp.Result.UserRatingsTotal)
	assert.Equal(t, 150, *resp.Result.UserRatingsTotal)
	require.NotNil(t, resp.Result.Geometry)
	require.NotNil(t, resp.Result.Geometry.Location)
	assert.InDelta(t, -46.33, resp.Result.Geometry.Location.Lng, 0.001)
	assert.Equal(t, []string{"restaurant", "food"}, resp.Result.Types)
}

func TestDetails_MissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":{"name":"Bar"}}`))
	}))
	defer srv.Close()

	resp, err := NewClient("k", WithBaseURL(srv.URL)).Details(context.Background(), "p1", nil)

	require.NoError(t, err)
	assert.Nil(t, resp.Result.Rating)
	assert.Nil(t, resp.Result.UserRatingsTotal)
	assert.Nil(t, resp.Result.Geometry)
}

func TestDetails_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"NOT_FOUND"}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Details(context.Background(), "gone", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestWithRateLimit_Throttles(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"status":"OK","results":[]}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1, time.Hour))

	_, err := client.TextSearch(context.Background(), TextSearchRequest{Query: "q"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.TextSearch(ctx, TextSearchRequest{Query: "q"})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
