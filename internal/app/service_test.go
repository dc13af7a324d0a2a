package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/nick0a/founderbleed/internal/app"
	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func startService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	base := []app.Option{
		app.WithWorkerCount(2),
		app.WithQueueSize(32),
		app.WithDefaultTierRates(map[string]float64{
			"senior_eng": 208_000,
			"senior_biz": 104_000,
			"junior_eng": 52_000,
			"junior_biz": 41_600,
			"ea":         41_600,
		}),
	}
	svc := app.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func weekSubmission(events ...model.CalendarEventRecord) model.AuditSubmission {
	return model.AuditSubmission{
		Events: events,
		Window: model.AuditWindow{
			StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			DayCount:  7,
		},
	}
}

func timedRecord(id, title string, start time.Time, minutes float64) model.CalendarEventRecord {
	end := start.Add(time.Duration(minutes * float64(time.Minute)))
	return model.CalendarEventRecord{
		ID:              id,
		Title:           title,
		Start:           &start,
		End:             &end,
		DurationMinutes: minutes,
	}
}

func waitComplete(t *testing.T, svc *app.Service, auditID string) model.Audit {
	t.Helper()
	ctx := context.Background()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		audit, err := svc.Audit(ctx, auditID)
		if err == nil && audit.Status != model.StatusPending {
			return audit
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("audit %s never left pending", auditID)
	return model.Audit{}
}

func TestSubmitAuditLifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t)
		ctx := context.Background()
		day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

		Convey("When a submission runs through the pipeline", func() {
			sub := weekSubmission(
				timedRecord("ev-1", "Fundraising strategy", day, 120),
				timedRecord("ev-2", "Book flights for offsite", day.Add(3*time.Hour), 60),
				timedRecord("ev-3", "Weekly status sync", day.Add(5*time.Hour), 30),
			)
			auditID, err := svc.SubmitAudit(ctx, sub)
			So(err, ShouldBeNil)
			So(auditID, ShouldNotBeEmpty)

			audit := waitComplete(t, svc, auditID)

			Convey("Then the audit completes with classified events", func() {
				So(audit.Status, ShouldEqual, model.StatusComplete)
				So(len(audit.Events), ShouldEqual, 3)
				for _, ev := range audit.Events {
					So(ev.Tier, ShouldNotBeEmpty)
				}
			})

			Convey("Then metrics are derived", func() {
				m, err := svc.Metrics(ctx, auditID)
				So(err, ShouldBeNil)
				So(m.TotalHours, ShouldAlmostEqual, 3.5)
				So(m.ReclaimableHoursPerWeek, ShouldBeGreaterThan, 0)
			})

			Convey("Then delegable roles exist", func() {
				recs, err := svc.Roles(ctx, auditID)
				So(err, ShouldBeNil)
				So(len(recs), ShouldBeGreaterThan, 0)
				for _, rec := range recs {
					So(rec.Tier.Delegable(), ShouldBeTrue)
				}
			})
		})

		Convey("When the submission repeats an event id", func() {
			sub := weekSubmission(
				timedRecord("ev-1", "Standup", day, 30),
				timedRecord("ev-1", "Standup", day, 30),
			)
			auditID, err := svc.SubmitAudit(ctx, sub)
			So(err, ShouldBeNil)

			audit := waitComplete(t, svc, auditID)

			Convey("Then the duplicate is dropped at intake", func() {
				So(len(audit.Events), ShouldEqual, 1)
			})
		})

		Convey("When the same event id appears in a second audit", func() {
			first := weekSubmission(timedRecord("ev-1", "Standup", day, 30))
			second := weekSubmission(timedRecord("ev-1", "Standup", day, 30))

			id1, err := svc.SubmitAudit(ctx, first)
			So(err, ShouldBeNil)
			id2, err := svc.SubmitAudit(ctx, second)
			So(err, ShouldBeNil)

			Convey("Then dedupe is scoped per audit", func() {
				So(len(waitComplete(t, svc, id1).Events), ShouldEqual, 1)
				So(len(waitComplete(t, svc, id2).Events), ShouldEqual, 1)
			})
		})

		Convey("When the window is degenerate", func() {
			sub := model.AuditSubmission{
				Events: []model.CalendarEventRecord{timedRecord("ev-1", "Standup", day, 30)},
				Window: model.AuditWindow{StartDate: day},
			}
			_, err := svc.SubmitAudit(ctx, sub)
			So(err, ShouldEqual, app.ErrInvalidWindow)
		})

		Convey("When the window has dates but no day count", func() {
			sub := model.AuditSubmission{
				Events: []model.CalendarEventRecord{timedRecord("ev-1", "Standup", day, 30)},
				Window: model.AuditWindow{
					StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
				},
			}
			auditID, err := svc.SubmitAudit(ctx, sub)
			So(err, ShouldBeNil)

			Convey("Then the day count is derived inclusively", func() {
				audit := waitComplete(t, svc, auditID)
				So(audit.Window.DayCount, ShouldEqual, 7)
			})
		})
	})
}

func TestSubmitAuditNotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := app.New()

		_, err := svc.SubmitAudit(context.Background(), weekSubmission())
		So(err, ShouldEqual, app.ErrNotStarted)
	})
}

func TestOverrideEvent(t *testing.T) {
	Convey("Given a completed audit", t, func() {
		svc := startService(t)
		ctx := context.Background()
		day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

		auditID, err := svc.SubmitAudit(ctx, weekSubmission(
			timedRecord("ev-1", "Fundraising strategy", day, 120),
			timedRecord("ev-2", "Inbox triage", day.Add(3*time.Hour), 60),
		))
		So(err, ShouldBeNil)
		before := waitComplete(t, svc, auditID)
		So(before.Status, ShouldEqual, model.StatusComplete)

		Convey("When an event's tier is overridden to EA", func() {
			tier := types.TierEA
			m, err := svc.OverrideEvent(ctx, auditID, "ev-1", model.EventOverride{Tier: &tier})
			So(err, ShouldBeNil)

			Convey("Then the whole snapshot is recomputed", func() {
				So(m.ReclaimableHoursPerWeek, ShouldBeGreaterThan, before.Metrics.ReclaimableHoursPerWeek)
				So(m.EfficiencyScore, ShouldBeLessThanOrEqualTo, before.Metrics.EfficiencyScore)
			})

			Convey("Then the event is flagged as overridden", func() {
				audit, err := svc.Audit(ctx, auditID)
				So(err, ShouldBeNil)
				So(audit.Events[0].Tier, ShouldEqual, types.TierEA)
				So(audit.Events[0].Overridden, ShouldBeTrue)
			})
		})

		Convey("When an event is marked as leave", func() {
			yes := true
			m, err := svc.OverrideEvent(ctx, auditID, "ev-2", model.EventOverride{IsLeave: &yes})
			So(err, ShouldBeNil)

			Convey("Then its hours leave the totals", func() {
				So(m.TotalHours, ShouldAlmostEqual, 2)
			})
		})

		Convey("When the event id is unknown", func() {
			tier := types.TierEA
			_, err := svc.OverrideEvent(ctx, auditID, "ghost", model.EventOverride{Tier: &tier})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRoleMutations(t *testing.T) {
	Convey("Given a completed audit with two roles", t, func() {
		svc := startService(t)
		ctx := context.Background()
		day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

		auditID, err := svc.SubmitAudit(ctx, weekSubmission(
			timedRecord("ev-1", "Sprint planning debug session", day, 180),
			timedRecord("ev-2", "Book travel and expenses", day.Add(4*time.Hour), 60),
		))
		So(err, ShouldBeNil)
		audit := waitComplete(t, svc, auditID)
		So(len(audit.Roles), ShouldEqual, 2)

		Convey("When a task is moved between roles", func() {
			out, err := svc.MoveRoleTask(ctx, auditID, audit.Roles[0].ID, audit.Roles[1].ID, 0)
			So(err, ShouldBeNil)

			Convey("Then the persisted list reflects the move", func() {
				stored, err := svc.Roles(ctx, auditID)
				So(err, ShouldBeNil)
				So(stored, ShouldResemble, out)
			})
		})

		Convey("When a move references an unknown role", func() {
			out, err := svc.MoveRoleTask(ctx, auditID, "ghost", audit.Roles[1].ID, 0)

			Convey("Then the list is returned unchanged", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, audit.Roles)
			})
		})

		Convey("When the roles are reordered", func() {
			out, err := svc.ReorderRoles(ctx, auditID, 0, 1)
			So(err, ShouldBeNil)
			So(out[0].ID, ShouldEqual, audit.Roles[1].ID)
			So(out[1].ID, ShouldEqual, audit.Roles[0].ID)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t)

		stats := svc.GetStats()

		Convey("Then the snapshot carries the wiring facts", func() {
			So(stats["started"], ShouldBeTrue)
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["queueSize"], ShouldEqual, 32)
			So(stats, ShouldContainKey, "queueLength")
			So(stats, ShouldContainKey, "totalAudits")
		})
	})
}
