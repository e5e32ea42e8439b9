package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/collector"
	"github.com/octobees/leads-generator/collector/internal/entity"
)

var (
	// ErrRunInProgress is returned when a run is requested while another is active.
	ErrRunInProgress = errors.New("a collection run is already in progress")
	// ErrRunNotFound is returned for an unknown run id.
	ErrRunNotFound = errors.New("collection run not found")
)

// RunStatus is the lifecycle state of a collection run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is a snapshot of one collection run.
type Run struct {
	ID         uuid.UUID
	Status     RunStatus
	Query      string
	StartedAt  time.Time
	FinishedAt *time.Time
	Stats      *collector.Stats
	Err        string
}

// RunFunc executes one collection run for query.
type RunFunc func(ctx context.Context, id uuid.UUID, query string) collector.Result

// PipelineRunner adapts a pipeline to RunFunc. An empty query keeps the
// pipeline's configured one.
func PipelineRunner(p *collector.Pipeline) RunFunc {
	return func(ctx context.Context, id uuid.UUID, query string) collector.Result {
		if query != "" && query != p.Query() {
			return p.WithQuery(query).RunWithID(ctx, id)
		}
		return p.RunWithID(ctx, id)
	}
}

// DatasetWriter persists a finished run's records.
type DatasetWriter interface {
	Replace(ctx context.Context, records []entity.CompanyRecord) error
}

// CollectService starts collection runs in the background, one at a time.
type CollectService struct {
	run          RunFunc
	store        DatasetWriter
	defaultQuery string
	logger       *zap.Logger

	baseCtx context.Context
	mu      sync.Mutex
	runs    map[uuid.UUID]*Run
	active  *uuid.UUID
	wg      sync.WaitGroup
}

// NewCollectService wires the service. Runs stop when baseCtx is cancelled.
func NewCollectService(baseCtx context.Context, run RunFunc, store DatasetWriter, defaultQuery string, logger *zap.Logger) *CollectService {
	if logger == nil {
		logger = zap.L()
	}
	return &CollectService{
		run:          run,
		store:        store,
		defaultQuery: defaultQuery,
		logger:       logger,
		baseCtx:      baseCtx,
		runs:         make(map[uuid.UUID]*Run),
	}
}

// Trigger starts a run unless one is already active.
func (s *CollectService) Trigger(_ context.Context, query string) (Run, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = s.defaultQuery
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return Run{}, ErrRunInProgress
	}

	id := uuid.New()
	run := &Run{ID: id, Status: RunRunning, Query: query, StartedAt: time.Now().UTC()}
	s.runs[id] = run
	s.active = &id

	s.wg.Add(1)
	go s.execute(id, query)

	return *run, nil
}

// Status returns a snapshot of run id.
func (s *CollectService) Status(_ context.Context, id uuid.UUID) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, ErrRunNotFound
	}
	return *run, nil
}

// Wait blocks until every started run has finished.
func (s *CollectService) Wait() {
	s.wg.Wait()
}

func (s *CollectService) execute(id uuid.UUID, query string) {
	defer s.wg.Done()
	log := s.logger.With(zap.String("run_id", id.String()))

	result := s.run(s.baseCtx, id, query)
	stats := result.Stats

	// A run that stopped before emitting anything keeps the served dataset.
	var runErr error
	switch {
	case stats.Outcome == collector.OutcomePartial && len(result.Records) == 0:
		runErr = fmt.Errorf("search failed before any listing was collected: %w", stats.PaginationErr)
	case stats.Outcome == collector.OutcomeInterrupted && len(result.Records) == 0:
		runErr = errors.New("run interrupted before any listing was collected")
	default:
		if err := s.store.Replace(context.WithoutCancel(s.baseCtx), result.Records); err != nil {
			runErr = fmt.Errorf("persist dataset: %w", err)
		}
	}

	finished := time.Now().UTC()
	s.mu.Lock()
	run := s.runs[id]
	run.FinishedAt = &finished
	run.Stats = &stats
	if runErr != nil {
		run.Status = RunFailed
		run.Err = runErr.Error()
	} else {
		run.Status = RunSucceeded
	}
	s.active = nil
	s.mu.Unlock()

	if runErr != nil {
		log.Error("collection run failed", zap.Error(runErr))
		return
	}
	log.Info("collection run stored",
		zap.String("outcome", string(stats.Outcome)),
		zap.Int("records", len(result.Records)))
}
