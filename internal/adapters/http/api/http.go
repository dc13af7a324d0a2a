// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nick0a/founderbleed/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitAudit registers a submission and enqueues its pipeline run.
	SubmitAudit(ctx context.Context, req model.AuditSubmission) (string, error)

	// Read operations expose audit state and derived outputs.
	Audit(ctx context.Context, id string) (model.Audit, error)
	Metrics(ctx context.Context, id string) (model.AuditMetrics, error)
	Roles(ctx context.Context, id string) ([]model.RoleRecommendation, error)

	// Mutations reclassify one event or rearrange role recommendations.
	OverrideEvent(ctx context.Context, auditID, eventID string, override model.EventOverride) (model.AuditMetrics, error)
	MoveRoleTask(ctx context.Context, auditID, sourceID, targetID string, taskIndex int) ([]model.RoleRecommendation, error)
	ReorderRoles(ctx context.Context, auditID string, from, to int) ([]model.RoleRecommendation, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	auditsHandler *AuditsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		auditsHandler: NewAuditsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/audits", MetricsMiddleware(s.auditsHandler.HandlePostAudit, "audits"))
	mux.HandleFunc("/audits/", MetricsMiddleware(s.auditsHandler.HandleAuditSubresource, "audit_detail"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
