package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nick0a/founderbleed/internal/adapters/http/api"
	"github.com/nick0a/founderbleed/internal/adapters/repository"
	"github.com/nick0a/founderbleed/internal/app"
	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeService implements api.Dependencies and api.StatsProvider with
// canned behavior for handler-level testing.
type fakeService struct {
	submitErr   error
	audits      map[string]model.Audit
	metricsErr  error
	lastRequest model.AuditSubmission
}

func newFakeService() *fakeService {
	return &fakeService{audits: make(map[string]model.Audit)}
}

func (f *fakeService) SubmitAudit(_ context.Context, req model.AuditSubmission) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.lastRequest = req
	return "audit-1", nil
}

func (f *fakeService) Audit(_ context.Context, id string) (model.Audit, error) {
	audit, ok := f.audits[id]
	if !ok {
		return model.Audit{}, repository.ErrNotFound
	}
	return audit, nil
}

func (f *fakeService) Metrics(_ context.Context, id string) (model.AuditMetrics, error) {
	if f.metricsErr != nil {
		return model.AuditMetrics{}, f.metricsErr
	}
	audit, ok := f.audits[id]
	if !ok {
		return model.AuditMetrics{}, repository.ErrNotFound
	}
	if audit.Metrics == nil {
		return model.AuditMetrics{}, repository.ErrNotReady
	}
	return *audit.Metrics, nil
}

func (f *fakeService) Roles(_ context.Context, id string) ([]model.RoleRecommendation, error) {
	audit, ok := f.audits[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return audit.Roles, nil
}

func (f *fakeService) OverrideEvent(_ context.Context, auditID, eventID string, _ model.EventOverride) (model.AuditMetrics, error) {
	audit, ok := f.audits[auditID]
	if !ok {
		return model.AuditMetrics{}, repository.ErrNotFound
	}
	for _, ev := range audit.Events {
		if ev.ID == eventID {
			return *audit.Metrics, nil
		}
	}
	return model.AuditMetrics{}, repository.ErrEventNotFound
}

func (f *fakeService) MoveRoleTask(_ context.Context, auditID, _, _ string, _ int) ([]model.RoleRecommendation, error) {
	audit, ok := f.audits[auditID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return audit.Roles, nil
}

func (f *fakeService) ReorderRoles(_ context.Context, auditID string, _, _ int) ([]model.RoleRecommendation, error) {
	audit, ok := f.audits[auditID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return audit.Roles, nil
}

func (f *fakeService) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestMux(f *fakeService) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(f, f).Register(context.Background(), mux)
	return mux
}

func completedAudit(id string) model.Audit {
	hours := 12.0
	return model.Audit{
		ID:     id,
		Status: model.StatusComplete,
		Window: model.AuditWindow{
			StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			DayCount:  7,
		},
		Events: []model.ClassifiedEvent{{
			CalendarEventRecord: model.CalendarEventRecord{ID: "ev-1", Title: "Standup"},
			Tier:                types.TierJunior,
			Vertical:            types.VerticalUniversal,
			Confidence:          0.7,
		}},
		Metrics: &model.AuditMetrics{
			TotalHours:              hours,
			HoursByTier:             map[types.Tier]float64{types.TierJunior: hours},
			EfficiencyScore:         0,
			ReclaimableHoursPerWeek: hours,
			ComputedAt:              time.Now().UTC(),
		},
		Roles: []model.RoleRecommendation{{
			ID:           "r1",
			RoleTitle:    "Junior Generalist",
			Tier:         types.TierJunior,
			Vertical:     types.VerticalUniversal,
			HoursPerWeek: hours,
			Tasks:        []model.RoleTask{{Label: "Standup", HoursPerWeek: hours}},
		}},
	}
}

func validSubmission() map[string]any {
	return map[string]any{
		"events": []map[string]any{{
			"id":               "ev-1",
			"title":            "Standup",
			"start":            "2026-03-02T09:00:00Z",
			"end":              "2026-03-02T09:30:00Z",
			"duration_minutes": 30,
		}},
		"window": map[string]any{
			"start_date": "2026-03-02",
			"end_date":   "2026-03-08",
		},
	}
}

func postJSON(mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestPostAudit(t *testing.T) {
	Convey("Given the API over a fake service", t, func() {
		f := newFakeService()
		mux := newTestMux(f)

		Convey("When a valid submission is posted", func() {
			rec := postJSON(mux, "/audits", validSubmission())

			Convey("Then it is accepted asynchronously", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)

				var ack map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["audit_id"], ShouldEqual, "audit-1")
				So(ack["status"], ShouldEqual, "accepted")
			})

			Convey("Then timestamps were parsed into the domain record", func() {
				So(len(f.lastRequest.Events), ShouldEqual, 1)
				So(f.lastRequest.Events[0].Start, ShouldNotBeNil)
			})
		})

		Convey("When the body is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/audits", bytes.NewReader([]byte("{nope")))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the submission has no events", func() {
			body := validSubmission()
			body["events"] = []map[string]any{}
			rec := postJSON(mux, "/audits", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an event timestamp is malformed", func() {
			body := validSubmission()
			body["events"].([]map[string]any)[0]["start"] = "tomorrow"
			rec := postJSON(mux, "/audits", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the window has neither end date nor day count", func() {
			body := validSubmission()
			body["window"] = map[string]any{"start_date": "2026-03-02"}
			rec := postJSON(mux, "/audits", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a rate key is unknown", func() {
			body := validSubmission()
			body["compensation_profile"] = map[string]any{
				"per_tier_annual_rate": map[string]float64{"principal_eng": 300000},
			}
			rec := postJSON(mux, "/audits", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue pushes back", func() {
			f.submitErr = app.ErrBackpressure
			rec := postJSON(mux, "/audits", validSubmission())
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("When the method is wrong", func() {
			rec := get(mux, "/audits")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetAuditResources(t *testing.T) {
	Convey("Given a completed audit behind the API", t, func() {
		f := newFakeService()
		f.audits["a1"] = completedAudit("a1")
		mux := newTestMux(f)

		Convey("When the audit is fetched", func() {
			rec := get(mux, "/audits/a1")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["id"], ShouldEqual, "a1")
			So(body["status"], ShouldEqual, "complete")

			Convey("Then the window serializes as dates", func() {
				window := body["window"].(map[string]any)
				So(window["start_date"], ShouldEqual, "2026-03-02")
				So(window["day_count"], ShouldEqual, 7)
			})
		})

		Convey("When its metrics are fetched", func() {
			rec := get(mux, "/audits/a1/metrics")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["total_hours"], ShouldEqual, 12)

			Convey("Then unknown money figures serialize as null, not zero", func() {
				raw := rec.Body.String()
				So(raw, ShouldContainSubstring, `"founder_cost_total":null`)
				So(raw, ShouldContainSubstring, `"arbitrage":null`)
			})
		})

		Convey("When its roles are fetched", func() {
			rec := get(mux, "/audits/a1/roles")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body []map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(len(body), ShouldEqual, 1)
			So(body[0]["role_title"], ShouldEqual, "Junior Generalist")
		})

		Convey("When the audit does not exist", func() {
			So(get(mux, "/audits/nope").Code, ShouldEqual, http.StatusNotFound)
			So(get(mux, "/audits/nope/metrics").Code, ShouldEqual, http.StatusNotFound)
			So(get(mux, "/audits/nope/roles").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When metrics are requested before completion", func() {
			f.metricsErr = repository.ErrNotReady
			rec := get(mux, "/audits/a1/metrics")
			So(rec.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("When the subresource path is unknown", func() {
			So(get(mux, "/audits/a1/unknown").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOverrideEndpoint(t *testing.T) {
	Convey("Given a completed audit behind the API", t, func() {
		f := newFakeService()
		f.audits["a1"] = completedAudit("a1")
		mux := newTestMux(f)

		Convey("When a valid override is posted", func() {
			rec := postJSON(mux, "/audits/a1/overrides", map[string]any{
				"event_id": "ev-1",
				"tier":     "SENIOR",
			})
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the tier is unknown", func() {
			rec := postJSON(mux, "/audits/a1/overrides", map[string]any{
				"event_id": "ev-1",
				"tier":     "INTERN",
			})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the event id is missing", func() {
			rec := postJSON(mux, "/audits/a1/overrides", map[string]any{"tier": "SENIOR"})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the event does not exist", func() {
			rec := postJSON(mux, "/audits/a1/overrides", map[string]any{
				"event_id": "ghost",
				"tier":     "SENIOR",
			})
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRoleMutationEndpoints(t *testing.T) {
	Convey("Given a completed audit behind the API", t, func() {
		f := newFakeService()
		f.audits["a1"] = completedAudit("a1")
		mux := newTestMux(f)

		Convey("When a task move is posted", func() {
			rec := postJSON(mux, "/audits/a1/roles/move", map[string]any{
				"source_role_id": "r1",
				"target_role_id": "r2",
				"task_index":     0,
			})
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body []map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(len(body), ShouldEqual, 1)
		})

		Convey("When the move omits a role id", func() {
			rec := postJSON(mux, "/audits/a1/roles/move", map[string]any{
				"source_role_id": "r1",
				"task_index":     0,
			})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a reorder is posted", func() {
			rec := postJSON(mux, "/audits/a1/roles/reorder", map[string]any{"from": 0, "to": 0})
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the audit does not exist", func() {
			rec := postJSON(mux, "/audits/nope/roles/reorder", map[string]any{"from": 0, "to": 1})
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the API over a fake service", t, func() {
		f := newFakeService()
		mux := newTestMux(f)

		Convey("When stats are fetched", func() {
			rec := get(mux, "/stats")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["started"], ShouldEqual, true)
		})

		Convey("When the health endpoint is scraped", func() {
			rec := get(mux, "/healthz")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
