// Package collector runs the place collection pipeline: paginated discovery,
// detail lookup, social enrichment, size classification and record assembly.
package collector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/address"
	"github.com/octobees/leads-generator/collector/internal/entity"
	"github.com/octobees/leads-generator/collector/internal/places"
	"github.com/octobees/leads-generator/collector/internal/service/scoring"
)

// State is the position of a listing in the pipeline.
type State int

const (
	StateDiscovered State = iota
	StateDetailResolved
	StateEnriched
	StateClassified
	StateEmitted
	StateDropped
)

func (s State) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateDetailResolved:
		return "detail_resolved"
	case StateEnriched:
		return "enriched"
	case StateClassified:
		return "classified"
	case StateEmitted:
		return "emitted"
	case StateDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Outcome summarises how a run ended.
type Outcome string

const (
	OutcomeComplete    Outcome = "complete"
	OutcomeEmpty       Outcome = "empty"
	OutcomePartial     Outcome = "partial"
	OutcomeInterrupted Outcome = "interrupted"
)

// Drop reasons.
const (
	reasonMissingPlaceID = "missing_place_id"
	reasonDetailsAbsent  = "details_absent"
)

// DetailSource resolves a place id to its details.
type DetailSource interface {
	FetchDetails(ctx context.Context, placeID string) (places.PlaceDetails, bool)
}

// LinkFinder looks up social links for a business.
type LinkFinder interface {
	FindLinks(ctx context.Context, companyName, locality string) []string
}

// Settings are the per-run inputs of a Pipeline.
type Settings struct {
	Query          string
	SocialLocality string
	PhoneRegion    string
	Parser         *address.Parser
}

// Stats describes a finished run.
type Stats struct {
	RunID         uuid.UUID
	Outcome       Outcome
	Pages         int
	Discovered    int
	Emitted       int
	Dropped       int
	PaginationErr error
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Result is the ordered record collection of a run plus its stats.
type Result struct {
	Records []entity.CompanyRecord
	Stats   Stats
}

// Pipeline turns search pages into company records, one listing at a time.
type Pipeline struct {
	settings Settings
	pages    *SearchPaginator
	details  DetailSource
	links    LinkFinder
	logger   *zap.Logger
	now      func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger overrides the global zap logger.
func WithLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline wires a pipeline. A nil Settings.Parser selects the Santos parser.
func NewPipeline(settings Settings, pages *SearchPaginator, details DetailSource, links LinkFinder, opts ...PipelineOption) *Pipeline {
	if settings.Parser == nil {
		settings.Parser = address.NewSantosParser()
	}
	p := &Pipeline{
		settings: settings,
		pages:    pages,
		details:  details,
		links:    links,
		logger:   zap.L(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Query returns the search query the pipeline runs.
func (p *Pipeline) Query() string {
	return p.settings.Query
}

// WithQuery returns a copy of p that searches for query instead.
func (p *Pipeline) WithQuery(query string) *Pipeline {
	clone := *p
	clone.settings.Query = query
	return &clone
}

// Run collects records until the pages run out, pagination fails or ctx is
// cancelled. Records emitted before a failure or cancellation are returned.
func (p *Pipeline) Run(ctx context.Context) Result {
	return p.RunWithID(ctx, uuid.New())
}

// RunWithID is Run with a caller-chosen run id.
func (p *Pipeline) RunWithID(ctx context.Context, runID uuid.UUID) Result {
	stats := Stats{RunID: runID, StartedAt: p.now()}
	log := p.logger.With(zap.String("run_id", stats.RunID.String()))
	log.Info("collection started", zap.String("query", p.settings.Query))

	records := make([]entity.CompanyRecord, 0)
	seq := p.pages.Pages(ctx, p.settings.Query)

pages:
	for page := range seq.All() {
		stats.Pages++
		for _, raw := range page.Results {
			if ctx.Err() != nil {
				break pages
			}
			record, state := p.process(ctx, log, raw)
			switch state {
			case StateEmitted:
				stats.Discovered++
				stats.Emitted++
				records = append(records, record)
			case StateDropped:
				stats.Discovered++
				stats.Dropped++
			default:
				break pages
			}
		}
	}

	switch {
	case ctx.Err() != nil:
		stats.Outcome = OutcomeInterrupted
	case seq.Err() != nil:
		stats.Outcome = OutcomePartial
		stats.PaginationErr = seq.Err()
	case stats.Discovered == 0:
		stats.Outcome = OutcomeEmpty
	default:
		stats.Outcome = OutcomeComplete
	}
	stats.FinishedAt = p.now()

	fields := []zap.Field{
		zap.String("outcome", string(stats.Outcome)),
		zap.Int("pages", stats.Pages),
		zap.Int("discovered", stats.Discovered),
		zap.Int("emitted", stats.Emitted),
		zap.Int("dropped", stats.Dropped),
		zap.Duration("elapsed", stats.FinishedAt.Sub(stats.StartedAt)),
	}
	switch stats.Outcome {
	case OutcomeComplete:
		log.Info("collection finished", fields...)
	case OutcomeEmpty:
		log.Warn("collection found no listings", fields...)
	default:
		if stats.PaginationErr != nil {
			fields = append(fields, zap.Error(stats.PaginationErr))
		}
		log.Warn("collection stopped early", fields...)
	}

	return Result{Records: records, Stats: stats}
}

// process walks one listing to its final state. A listing whose detail
// lookup was cut short by cancellation stays StateDiscovered and is not counted.
func (p *Pipeline) process(ctx context.Context, log *zap.Logger, raw places.SearchResult) (entity.CompanyRecord, State) {
	log = log.With(zap.String("place_id", raw.PlaceID))
	transition(log, StateDiscovered)

	if raw.PlaceID == "" {
		drop(log, raw.Name, reasonMissingPlaceID)
		return entity.CompanyRecord{}, StateDropped
	}

	details, ok := p.details.FetchDetails(ctx, raw.PlaceID)
	if !ok {
		if ctx.Err() != nil {
			return entity.CompanyRecord{}, StateDiscovered
		}
		drop(log, raw.Name, reasonDetailsAbsent)
		return entity.CompanyRecord{}, StateDropped
	}
	transition(log, StateDetailResolved)

	links := p.links.FindLinks(ctx, details.Name, p.settings.SocialLocality)
	if links == nil {
		links = []string{}
	}
	transition(log, StateEnriched)

	count := 0
	if details.UserRatingsTotal != nil && *details.UserRatingsTotal > 0 {
		count = *details.UserRatingsTotal
	}
	tier := scoring.ClassifySize(&count)
	transition(log, StateClassified)

	record := p.buildRecord(details, links, count, tier)
	log.Info("company collected",
		zap.String("name", record.Name),
		zap.String("size_tier", string(record.SizeTier)),
		zap.Int("social_links", len(record.SocialLinks)))
	transition(log, StateEmitted)
	return record, StateEmitted
}

func (p *Pipeline) buildRecord(details places.PlaceDetails, links []string, count int, tier entity.SizeTier) entity.CompanyRecord {
	components, _ := p.settings.Parser.Parse(details.FormattedAddress)
	components = components.OrNA()

	rating := 0.0
	if details.Rating != nil && *details.Rating > 0 {
		rating = *details.Rating
	}

	phone := details.FormattedPhoneNumber
	if phone == "" {
		phone = entity.NotAvailable
	}

	tags := make([]string, len(details.Types))
	copy(tags, details.Types)

	var location entity.Location
	if details.Geometry != nil && details.Geometry.Location != nil {
		location = entity.NewLocation(details.Geometry.Location.Lat, details.Geometry.Location.Lng)
	}

	return entity.CompanyRecord{
		Name:         details.Name,
		Address:      details.FormattedAddress,
		Neighborhood: components.Neighborhood,
		Street:       components.Route,
		City:         components.Locality,
		Rating:       rating,
		RatingsCount: count,
		Phone:        phone,
		PhoneE164:    normalizePhone(details.FormattedPhoneNumber, p.settings.PhoneRegion),
		CategoryTags: tags,
		Location:     location,
		SocialLinks:  links,
		SizeTier:     tier,
	}
}

func transition(log *zap.Logger, s State) {
	log.Debug("listing state", zap.Stringer("state", s))
}

func drop(log *zap.Logger, name, reason string) {
	log.Info("listing dropped",
		zap.String("name", name),
		zap.Stringer("state", StateDropped),
		zap.String("reason", reason))
}
