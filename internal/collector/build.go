package collector

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/address"
	"github.com/octobees/leads-generator/collector/internal/config"
	"github.com/octobees/leads-generator/collector/internal/places"
	"github.com/octobees/leads-generator/collector/internal/social"
)

// New builds a production pipeline from cfg. Social lookup is left
// unconfigured when no search engine id is set.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.GoogleAPIKey == "" {
		return nil, config.ErrMissingAPIKey
	}
	if logger == nil {
		logger = zap.L()
	}

	client := places.NewClient(cfg.GoogleAPIKey,
		places.WithBaseURL(cfg.PlacesBaseURL),
		places.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		places.WithRateLimit(cfg.PlacesRateLimit.Requests, cfg.PlacesRateLimit.Interval),
	)

	var searcher social.Searcher
	if cfg.SocialSearchEnabled() {
		cse, err := social.NewCSESearcher(ctx, cfg.GoogleAPIKey, cfg.SearchEngineID)
		if err != nil {
			return nil, err
		}
		searcher = cse
	} else {
		logger.Warn("CUSTOM_SEARCH_ENGINE_ID not set, social links disabled")
	}
	finder := social.NewFinder(searcher,
		social.WithPlatformFilter(cfg.RestrictSocialPlatforms),
		social.WithLogger(logger))

	paginator := NewSearchPaginator(client, places.TextSearchRequest{
		Lat:    cfg.Search.Lat,
		Lng:    cfg.Search.Lng,
		Radius: cfg.Search.Radius,
		Type:   cfg.Search.PlaceType,
	}, WithSettleInterval(cfg.SettleInterval), WithPaginatorLogger(logger))

	return NewPipeline(Settings{
		Query:          cfg.Search.Query,
		SocialLocality: cfg.Search.SocialLocality,
		PhoneRegion:    cfg.PhoneRegion,
		Parser:         address.NewSantosParser(),
	}, paginator, NewDetailFetcher(client, logger), finder, WithLogger(logger)), nil
}
