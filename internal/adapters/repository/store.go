// Package repository defines the audit store interface and errors.
// Durable persistence is an external collaborator; this interface is the
// seam where a database-backed implementation would land.
package repository

import (
	"context"

	"github.com/nick0a/founderbleed/internal/domain/model"
)

// Store provides read/write access to per-audit state.
type Store interface {
	// CreateAudit registers a new audit in pending state.
	CreateAudit(ctx context.Context, audit model.Audit) error

	// Audit returns the full audit aggregate.
	// Returns ErrNotFound if the audit is unknown.
	Audit(ctx context.Context, id string) (model.Audit, error)

	// SaveRun stores the output of one full pipeline run: classified
	// events, the recomputed metrics snapshot, and the regenerated roles.
	SaveRun(ctx context.Context, id string, events []model.ClassifiedEvent, metrics model.AuditMetrics, roles []model.RoleRecommendation) error

	// MarkFailed flags an audit whose pipeline run did not complete.
	MarkFailed(ctx context.Context, id string) error

	// UpdateEvent replaces one classified event (matched by event id).
	// Returns ErrEventNotFound if the event is not part of the audit.
	UpdateEvent(ctx context.Context, id string, event model.ClassifiedEvent) error

	// ReplaceRoles swaps the audit's role list wholesale.
	ReplaceRoles(ctx context.Context, id string, roles []model.RoleRecommendation) error

	// Metrics returns the latest snapshot.
	// Returns ErrNotReady while the audit is still pending.
	Metrics(ctx context.Context, id string) (model.AuditMetrics, error)

	// Roles returns the current role recommendation list.
	Roles(ctx context.Context, id string) ([]model.RoleRecommendation, error)

	// Count returns the number of audits tracked.
	Count(ctx context.Context) int
}
