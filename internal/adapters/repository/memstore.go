package repository

import (
	"context"
	"sync"
	"time"

	"github.com/nick0a/founderbleed/internal/domain/model"
)

// defaultCapacity sizes the audit map for a typical single-tenant process.
const defaultCapacity = 256

// MemStore implements Store with a mutex-guarded map. One audit is only
// ever computed by one worker at a time; the lock exists for the read API
// running alongside the pipeline.
type MemStore struct {
	mu     sync.RWMutex
	audits map[string]*model.Audit
}

// NewMemStore creates an empty in-memory audit store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{audits: make(map[string]*model.Audit, defaultCapacity)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAudit registers a new audit in pending state.
func (s *MemStore) CreateAudit(_ context.Context, audit model.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.audits[audit.ID]; ok {
		return ErrExists
	}
	audit.Status = model.StatusPending
	now := time.Now().UTC()
	audit.CreatedAt = now
	audit.UpdatedAt = now
	s.audits[audit.ID] = &audit
	return nil
}

// Audit returns a copy of the full audit aggregate.
func (s *MemStore) Audit(_ context.Context, id string) (model.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	audit, ok := s.audits[id]
	if !ok {
		return model.Audit{}, ErrNotFound
	}
	return copyAudit(audit), nil
}

// SaveRun stores the output of one full pipeline run.
func (s *MemStore) SaveRun(_ context.Context, id string, events []model.ClassifiedEvent, metrics model.AuditMetrics, roles []model.RoleRecommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	audit, ok := s.audits[id]
	if !ok {
		return ErrNotFound
	}
	audit.Events = append([]model.ClassifiedEvent(nil), events...)
	audit.Metrics = &metrics
	audit.Roles = copyRoles(roles)
	audit.Status = model.StatusComplete
	audit.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed flags an audit whose pipeline run did not complete.
func (s *MemStore) MarkFailed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	audit, ok := s.audits[id]
	if !ok {
		return ErrNotFound
	}
	audit.Status = model.StatusFailed
	audit.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateEvent replaces one classified event, matched by event id.
func (s *MemStore) UpdateEvent(_ context.Context, id string, event model.ClassifiedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	audit, ok := s.audits[id]
	if !ok {
		return ErrNotFound
	}
	for i := range audit.Events {
		if audit.Events[i].ID == event.ID {
			audit.Events[i] = event
			audit.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrEventNotFound
}

// ReplaceRoles swaps the audit's role list wholesale.
func (s *MemStore) ReplaceRoles(_ context.Context, id string, roles []model.RoleRecommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	audit, ok := s.audits[id]
	if !ok {
		return ErrNotFound
	}
	audit.Roles = copyRoles(roles)
	audit.UpdatedAt = time.Now().UTC()
	return nil
}

// Metrics returns the latest snapshot, or ErrNotReady while pending.
func (s *MemStore) Metrics(_ context.Context, id string) (model.AuditMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	audit, ok := s.audits[id]
	if !ok {
		return model.AuditMetrics{}, ErrNotFound
	}
	if audit.Metrics == nil {
		return model.AuditMetrics{}, ErrNotReady
	}
	return *audit.Metrics, nil
}

// Roles returns a copy of the current role recommendation list.
func (s *MemStore) Roles(_ context.Context, id string) ([]model.RoleRecommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	audit, ok := s.audits[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRoles(audit.Roles), nil
}

// Count returns the number of audits tracked.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.audits)
}

func copyAudit(a *model.Audit) model.Audit {
	out := *a
	out.Events = append([]model.ClassifiedEvent(nil), a.Events...)
	out.Roles = copyRoles(a.Roles)
	if a.Metrics != nil {
		m := *a.Metrics
		out.Metrics = &m
	}
	return out
}

func copyRoles(roles []model.RoleRecommendation) []model.RoleRecommendation {
	out := make([]model.RoleRecommendation, len(roles))
	copy(out, roles)
	for i := range out {
		out[i].Tasks = append([]model.RoleTask(nil), roles[i].Tasks...)
	}
	return out
}
