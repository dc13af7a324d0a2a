// Package app provides the core business service that implements the
// dependencies required by the HTTP API: audit intake, the async pipeline,
// user edits, and reads.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	jobqueue "github.com/nick0a/founderbleed/internal/adapters/mq/queue"
	workerpool "github.com/nick0a/founderbleed/internal/adapters/mq/worker"
	"github.com/nick0a/founderbleed/internal/adapters/repository"
	"github.com/nick0a/founderbleed/internal/domain/aggregate"
	"github.com/nick0a/founderbleed/internal/domain/classify"
	"github.com/nick0a/founderbleed/internal/domain/dedupe"
	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/scoring"
	"github.com/nick0a/founderbleed/internal/domain/types"
	"github.com/nick0a/founderbleed/pkg/logger"
	"github.com/nick0a/founderbleed/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize   = 1024
	defaultWorkerCount = 4
	defaultDedupeSize  = 50000
	defaultAllDayHours = 8.0
	hoursPerDay        = 24.0
)

// Service wires the audit pipeline together.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	deduper    dedupe.Deduper
	jobQueue   jobqueue.Queue
	pool       *workerpool.Pool
	classifier *classify.KeywordClassifier
	aggregator *aggregate.Aggregator
	calculator *scoring.Calculator

	workerCount  int
	queueSize    int
	dedupeSize   int
	allDayHours  float64
	defaultRates map[types.RateKey]float64

	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration, applying options.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  defaultWorkerCount,
		queueSize:    defaultQueueSize,
		dedupeSize:   defaultDedupeSize,
		allDayHours:  defaultAllDayHours,
		defaultRates: map[types.RateKey]float64{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	s.store = repository.NewMemStore()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.jobQueue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.classifier = classify.New()
	s.aggregator = aggregate.New(aggregate.WithAllDayHours(s.allDayHours))
	s.calculator = scoring.New()

	s.pool = workerpool.NewPool(s.workerCount, s.jobQueue, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "audit service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "audit service stopped")
}

// SubmitAudit registers a new audit and enqueues its pipeline run. Raw
// events repeated within the submission (calendar sync artifacts) are
// dropped before classification. Returns the new audit id.
func (s *Service) SubmitAudit(ctx context.Context, req model.AuditSubmission) (string, error) {
	if !s.isStarted() {
		return "", ErrNotStarted
	}

	window, err := normalizeWindow(req.Window)
	if err != nil {
		return "", err
	}

	auditID := uuid.NewString()
	events := make([]model.CalendarEventRecord, 0, len(req.Events))
	var seenKeys []string
	for _, ev := range req.Events {
		if ev.ID != "" {
			key := auditID + "/" + ev.ID
			if s.deduper.SeenAndRecord(ctx, key) {
				metrics.RecordEventDuplicate()
				continue
			}
			seenKeys = append(seenKeys, key)
		}
		events = append(events, ev)
	}

	audit := model.Audit{
		ID:            auditID,
		Window:        window,
		Profile:       req.Profile,
		SoloFounder:   req.SoloFounder,
		PlanningScore: req.PlanningScore,
	}
	if err := s.store.CreateAudit(ctx, audit); err != nil {
		return "", fmt.Errorf("create audit: %w", err)
	}

	job := model.AuditJob{
		AuditID:       auditID,
		Events:        events,
		Window:        window,
		Profile:       req.Profile,
		SoloFounder:   req.SoloFounder,
		PlanningScore: req.PlanningScore,
	}
	if !s.jobQueue.Enqueue(ctx, job) {
		for _, key := range seenKeys {
			s.deduper.Unrecord(ctx, key)
		}
		_ = s.store.MarkFailed(ctx, auditID)
		return "", ErrBackpressure
	}

	metrics.RecordAuditSubmitted()
	s.logger.Debug(ctx, "audit submitted",
		logger.String("auditID", auditID),
		logger.Int("events", len(events)),
	)
	return auditID, nil
}

// Audit returns the full audit aggregate.
func (s *Service) Audit(ctx context.Context, id string) (model.Audit, error) {
	return s.store.Audit(ctx, id)
}

// Metrics returns the latest snapshot for an audit.
func (s *Service) Metrics(ctx context.Context, id string) (model.AuditMetrics, error) {
	return s.store.Metrics(ctx, id)
}

// Roles returns the current role recommendation list for an audit.
func (s *Service) Roles(ctx context.Context, id string) ([]model.RoleRecommendation, error) {
	return s.store.Roles(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		total := s.store.Count(ctx)
		stats["queueLength"] = queueLen
		stats["totalAudits"] = total
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalAudits(total)
	}
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// effectiveRates overlays the profile's per-tier rates on the configured
// defaults, so a partially filled profile still prices what it can.
func (s *Service) effectiveRates(profile model.CompensationProfile) map[types.RateKey]float64 {
	rates := make(map[types.RateKey]float64, len(s.defaultRates)+len(profile.PerTierAnnualRate))
	for key, rate := range s.defaultRates {
		rates[key] = rate
	}
	for key, rate := range profile.PerTierAnnualRate {
		rates[key] = rate
	}
	return rates
}

// normalizeWindow derives DayCount from the dates when absent and rejects
// windows that would make the weekly projection meaningless.
func normalizeWindow(w model.AuditWindow) (model.AuditWindow, error) {
	if w.DayCount < 1 {
		if w.EndDate.IsZero() || !w.EndDate.After(w.StartDate) {
			return w, ErrInvalidWindow
		}
		w.DayCount = int(w.EndDate.Sub(w.StartDate).Hours()/hoursPerDay) + 1
	}
	if w.DayCount < 1 {
		return w, ErrInvalidWindow
	}
	return w, nil
}
