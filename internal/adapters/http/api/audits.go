// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/nick0a/founderbleed/internal/adapters/repository"
	"github.com/nick0a/founderbleed/internal/app"
	"github.com/nick0a/founderbleed/internal/domain/types"
)

// AuditsHandler handles audit submissions and per-audit subresources.
type AuditsHandler struct {
	deps Dependencies
}

// NewAuditsHandler creates a new audits handler.
func NewAuditsHandler(deps Dependencies) *AuditsHandler {
	return &AuditsHandler{deps: deps}
}

// HandlePostAudit handles POST /audits requests.
func (h *AuditsHandler) HandlePostAudit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_audit"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submitAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	auditID, err := h.deps.SubmitAudit(r.Context(), req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, app.ErrBackpressure):
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		case errors.Is(err, app.ErrInvalidWindow):
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{AuditID: auditID, Status: "accepted"})
}

// HandleAuditSubresource routes /audits/{id} and its nested paths.
func (h *AuditsHandler) HandleAuditSubresource(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/audits/"), "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	auditID := parts[0]

	switch {
	case len(parts) == 1:
		h.handleGetAudit(w, r, auditID)
	case len(parts) == 2 && parts[1] == "metrics":
		h.handleGetMetrics(w, r, auditID)
	case len(parts) == 2 && parts[1] == "roles":
		h.handleGetRoles(w, r, auditID)
	case len(parts) == 2 && parts[1] == "overrides":
		h.handleOverride(w, r, auditID)
	case len(parts) == 3 && parts[1] == "roles" && parts[2] == "move":
		h.handleMoveTask(w, r, auditID)
	case len(parts) == 3 && parts[1] == "roles" && parts[2] == "reorder":
		h.handleReorder(w, r, auditID)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuditsHandler) handleGetAudit(w http.ResponseWriter, r *http.Request, auditID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	audit, err := h.deps.Audit(r.Context(), auditID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditResponse(audit))
}

func (h *AuditsHandler) handleGetMetrics(w http.ResponseWriter, r *http.Request, auditID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	m, err := h.deps.Metrics(r.Context(), auditID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMetricsResponse(m))
}

func (h *AuditsHandler) handleGetRoles(w http.ResponseWriter, r *http.Request, auditID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	roles, err := h.deps.Roles(r.Context(), auditID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoleResponses(roles))
}

func (h *AuditsHandler) handleOverride(w http.ResponseWriter, r *http.Request, auditID string) {
	const op = "api.post_override"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.EventID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	override, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	m, err := h.deps.OverrideEvent(r.Context(), auditID, req.EventID, override)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMetricsResponse(m))
}

func (h *AuditsHandler) handleMoveTask(w http.ResponseWriter, r *http.Request, auditID string) {
	const op = "api.move_task"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req moveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.SourceRoleID == "" || req.TargetRoleID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	roles, err := h.deps.MoveRoleTask(r.Context(), auditID, req.SourceRoleID, req.TargetRoleID, req.TaskIndex)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoleResponses(roles))
}

func (h *AuditsHandler) handleReorder(w http.ResponseWriter, r *http.Request, auditID string) {
	const op = "api.reorder_roles"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	roles, err := h.deps.ReorderRoles(r.Context(), auditID, req.From, req.To)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoleResponses(roles))
}

// writeUpstreamError translates service and repository sentinels to HTTP
// statuses.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, app.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrNotReady):
		writeError(w, http.StatusConflict, "not_ready", err)
	case errors.Is(err, types.ErrUnknownTier), errors.Is(err, types.ErrUnknownVertical):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
