package collector

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/places"
)

// DetailFields is the field mask sent with every details request.
var DetailFields = []string{
	"name",
	"formatted_address",
	"rating",
	"formatted_phone_number",
	"types",
	"geometry/location",
	"user_ratings_total",
}

// DetailFetcher resolves a listing to its detail record.
type DetailFetcher struct {
	client places.Client
	logger *zap.Logger
}

// NewDetailFetcher builds a fetcher. A nil logger means zap.L().
func NewDetailFetcher(client places.Client, logger *zap.Logger) *DetailFetcher {
	if logger == nil {
		logger = zap.L()
	}
	return &DetailFetcher{client: client, logger: logger}
}

// FetchDetails performs one details request. The boolean is false when the
// id is empty, the request fails, or the response has no usable result.
func (f *DetailFetcher) FetchDetails(ctx context.Context, placeID string) (places.PlaceDetails, bool) {
	if strings.TrimSpace(placeID) == "" {
		return places.PlaceDetails{}, false
	}

	resp, err := f.client.Details(ctx, placeID, DetailFields)
	if err != nil {
		f.logger.Warn("details request failed",
			zap.String("place_id", placeID),
			zap.String("reason", "request_failed"),
			zap.Error(err))
		return places.PlaceDetails{}, false
	}
	if resp == nil || resp.Result == nil {
		f.logger.Info("details missing",
			zap.String("place_id", placeID),
			zap.String("reason", "missing_result"))
		return places.PlaceDetails{}, false
	}
	if strings.TrimSpace(resp.Result.Name) == "" {
		f.logger.Info("details missing",
			zap.String("place_id", placeID),
			zap.String("reason", "empty_name"))
		return places.PlaceDetails{}, false
	}
	return *resp.Result, true
}
