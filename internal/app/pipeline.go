package app

import (
	"context"
	"fmt"
	"time"

	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/roles"
	"github.com/nick0a/founderbleed/pkg/logger"
	"github.com/nick0a/founderbleed/pkg/metrics"
)

// RunAudit executes the full pipeline for one queued job and persists the
// result. It is the worker.Runner implementation; the computation itself
// is a single synchronous pass with no suspension points.
func (s *Service) RunAudit(ctx context.Context, job model.AuditJob) error {
	start := time.Now()

	events := s.classifyAll(job.Events, job.SoloFounder)
	auditMetrics, recs := s.derive(events, job.Window, job.Profile, job.PlanningScore)

	if err := s.store.SaveRun(ctx, job.AuditID, events, auditMetrics, recs); err != nil {
		_ = s.store.MarkFailed(ctx, job.AuditID)
		return fmt.Errorf("save audit run: %w", err)
	}

	metrics.RecordPipelineLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordRolesGenerated(len(recs))
	return nil
}

// classifyAll runs leave detection then tier classification over raw
// events. A leave hit short-circuits tiering; everything else gets a
// suggestion, malformed records included.
func (s *Service) classifyAll(raw []model.CalendarEventRecord, soloFounder bool) []model.ClassifiedEvent {
	events := make([]model.ClassifiedEvent, 0, len(raw))
	for _, rec := range raw {
		ce := model.ClassifiedEvent{CalendarEventRecord: rec}

		if leave := s.classifier.DetectLeave(rec); leave.IsLeave {
			ce.IsLeave = true
			ce.LeaveConfidence = leave.Confidence
			ce.LeaveDetectionMethod = leave.Method
			metrics.RecordLeaveDetected()
		} else {
			sug := s.classifier.Classify(rec, soloFounder)
			ce.Tier = sug.Tier
			ce.Vertical = sug.Vertical
			ce.BusinessArea = sug.BusinessArea
			ce.Confidence = sug.Confidence
		}
		events = append(events, ce)
	}
	metrics.RecordEventsClassified(len(events))
	return events
}

// derive recomputes the full snapshot from classified events: aggregation,
// metrics, and a fresh role list capped to the overlap-adjusted delegable
// weekly total.
func (s *Service) derive(events []model.ClassifiedEvent, window model.AuditWindow, profile model.CompensationProfile, planningScore *int) (model.AuditMetrics, []model.RoleRecommendation) {
	rates := s.effectiveRates(profile)
	pricedProfile := profile
	pricedProfile.PerTierAnnualRate = rates

	totals := s.aggregator.Aggregate(events, window)
	auditMetrics := s.calculator.Compute(totals, pricedProfile, window, planningScore)

	engine := roles.NewEngine(roles.WithWeeklyHoursCap(auditMetrics.ReclaimableHoursPerWeek))
	recs := engine.Generate(events, window, rates)
	return auditMetrics, recs
}

// OverrideEvent applies a user edit to one classified event and recomputes
// the whole snapshot; metrics are never patched in place. Flipping IsLeave
// back to false clears the leave fields and the event re-enters
// classification. The regenerated role list replaces any session edits.
func (s *Service) OverrideEvent(ctx context.Context, auditID, eventID string, override model.EventOverride) (model.AuditMetrics, error) {
	audit, err := s.store.Audit(ctx, auditID)
	if err != nil {
		return model.AuditMetrics{}, err
	}

	idx := -1
	for i := range audit.Events {
		if audit.Events[i].ID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.AuditMetrics{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	ev := audit.Events[idx]
	applyOverride(&ev, override)
	if !ev.IsLeave && audit.Events[idx].IsLeave && override.Tier == nil {
		// Leave flag was lifted without an explicit tier: reclassify so
		// the event carries a suggestion again.
		sug := s.classifier.Classify(ev.CalendarEventRecord, audit.SoloFounder)
		ev.Tier = sug.Tier
		ev.Vertical = sug.Vertical
		ev.BusinessArea = sug.BusinessArea
		ev.Confidence = sug.Confidence
	}
	audit.Events[idx] = ev

	auditMetrics, recs := s.derive(audit.Events, audit.Window, audit.Profile, audit.PlanningScore)
	if err := s.store.SaveRun(ctx, auditID, audit.Events, auditMetrics, recs); err != nil {
		return model.AuditMetrics{}, fmt.Errorf("save recompute: %w", err)
	}

	metrics.RecordEventOverride()
	s.logger.Debug(ctx, "event override applied",
		logger.String("auditID", auditID),
		logger.String("eventID", eventID),
	)
	return auditMetrics, nil
}

func applyOverride(ev *model.ClassifiedEvent, override model.EventOverride) {
	if override.Tier != nil {
		ev.Tier = *override.Tier
		ev.Overridden = true
	}
	if override.Vertical != nil {
		ev.Vertical = *override.Vertical
		ev.Overridden = true
	}
	if override.IsLeave != nil && *override.IsLeave != ev.IsLeave {
		ev.IsLeave = *override.IsLeave
		ev.Overridden = true
		if !ev.IsLeave {
			ev.LeaveConfidence = 0
			ev.LeaveDetectionMethod = ""
		}
	}
	if override.Reconciled != nil {
		ev.Reconciled = *override.Reconciled
	}
}

// MoveRoleTask moves one task between roles atomically and persists the
// result. Unknown role ids or a bad index leave the list unchanged.
func (s *Service) MoveRoleTask(ctx context.Context, auditID, sourceID, targetID string, taskIndex int) ([]model.RoleRecommendation, error) {
	audit, err := s.store.Audit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	moved := roles.MoveTask(audit.Roles, sourceID, targetID, taskIndex, s.effectiveRates(audit.Profile))
	if err := s.store.ReplaceRoles(ctx, auditID, moved); err != nil {
		return nil, fmt.Errorf("replace roles: %w", err)
	}
	metrics.RecordRoleMutation("move_task")
	return moved, nil
}

// ReorderRoles moves a role to a new position with no recalculation.
// Out-of-range positions leave the list unchanged.
func (s *Service) ReorderRoles(ctx context.Context, auditID string, from, to int) ([]model.RoleRecommendation, error) {
	audit, err := s.store.Audit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	reordered := roles.Reorder(audit.Roles, from, to)
	if err := s.store.ReplaceRoles(ctx, auditID, reordered); err != nil {
		return nil, fmt.Errorf("replace roles: %w", err)
	}
	metrics.RecordRoleMutation("reorder")
	return reordered, nil
}
