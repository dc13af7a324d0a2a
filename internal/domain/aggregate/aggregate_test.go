package aggregate_test

import (
	"testing"
	"time"

	"github.com/nick0a/founderbleed/internal/domain/aggregate"
	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func day(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
}

func timed(id string, tier types.Tier, start time.Time, hours float64) model.ClassifiedEvent {
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	return model.ClassifiedEvent{
		CalendarEventRecord: model.CalendarEventRecord{
			ID:              id,
			Start:           &start,
			End:             &end,
			DurationMinutes: hours * 60,
		},
		Tier:     tier,
		Vertical: types.VerticalUniversal,
	}
}

func TestAggregate(t *testing.T) {
	Convey("Given an aggregator over a one-week window", t, func() {
		agg := aggregate.New()
		window := model.AuditWindow{StartDate: day(t), DayCount: 7}

		Convey("When there are no events", func() {
			totals := agg.Aggregate(nil, window)

			Convey("Then every tier reads zero", func() {
				So(totals.TotalHours, ShouldEqual, 0)
				for _, tier := range types.AllTiers {
					So(totals.HoursByTier[tier], ShouldEqual, 0)
				}
			})
		})

		Convey("When events do not overlap", func() {
			events := []model.ClassifiedEvent{
				timed("a", types.TierSenior, day(t).Add(9*time.Hour), 2),
				timed("b", types.TierJunior, day(t).Add(13*time.Hour), 1),
			}
			totals := agg.Aggregate(events, window)

			Convey("Then hours sum naively", func() {
				So(totals.TotalHours, ShouldAlmostEqual, 3)
				So(totals.HoursByTier[types.TierSenior], ShouldAlmostEqual, 2)
				So(totals.HoursByTier[types.TierJunior], ShouldAlmostEqual, 1)
			})
		})

		Convey("When a lower tier overlaps a higher one", func() {
			events := []model.ClassifiedEvent{
				timed("a", types.TierUnique, day(t).Add(10*time.Hour), 2),
				timed("b", types.TierJunior, day(t).Add(11*time.Hour), 1),
			}
			totals := agg.Aggregate(events, window)

			Convey("Then the contested hour goes to the higher tier only", func() {
				So(totals.TotalHours, ShouldAlmostEqual, 2)
				So(totals.HoursByTier[types.TierUnique], ShouldAlmostEqual, 2)
				So(totals.HoursByTier[types.TierJunior], ShouldAlmostEqual, 0)
			})
		})

		Convey("When a lower tier event extends past the higher one", func() {
			events := []model.ClassifiedEvent{
				timed("a", types.TierFounder, day(t).Add(10*time.Hour), 1),
				timed("b", types.TierEA, day(t).Add(10*time.Hour).Add(30*time.Minute), 2),
			}
			totals := agg.Aggregate(events, window)

			Convey("Then only the uncontested part credits the lower tier", func() {
				So(totals.HoursByTier[types.TierFounder], ShouldAlmostEqual, 1)
				So(totals.HoursByTier[types.TierEA], ShouldAlmostEqual, 1.5)
				So(totals.TotalHours, ShouldAlmostEqual, 2.5)
			})
		})

		Convey("When leave events are present", func() {
			leave := timed("l", types.TierSenior, day(t).Add(9*time.Hour), 8)
			leave.IsLeave = true
			events := []model.ClassifiedEvent{
				leave,
				timed("a", types.TierJunior, day(t).Add(9*time.Hour), 1),
			}
			totals := agg.Aggregate(events, window)

			Convey("Then leave contributes nothing, even where it overlaps", func() {
				So(totals.TotalHours, ShouldAlmostEqual, 1)
				So(totals.HoursByTier[types.TierSenior], ShouldEqual, 0)
				So(totals.HoursByTier[types.TierJunior], ShouldAlmostEqual, 1)
			})
		})

		Convey("When an event spills past the window end", func() {
			start := day(t).Add(6*24*time.Hour + 23*time.Hour)
			events := []model.ClassifiedEvent{
				timed("a", types.TierSenior, start, 5),
			}
			totals := agg.Aggregate(events, window)

			Convey("Then it is clipped to the window", func() {
				So(totals.TotalHours, ShouldAlmostEqual, 1)
			})
		})

		Convey("When an all-day event has no usable timestamps", func() {
			allDay := model.ClassifiedEvent{
				CalendarEventRecord: model.CalendarEventRecord{ID: "ad", IsAllDay: true, DurationMinutes: 1440},
				Tier:                types.TierJunior,
				Vertical:            types.VerticalBusiness,
			}
			totals := agg.Aggregate([]model.ClassifiedEvent{allDay}, window)

			Convey("Then it credits the workday equivalent, not 24 hours", func() {
				So(totals.HoursByTier[types.TierJunior], ShouldAlmostEqual, 8)
				So(totals.TotalHours, ShouldAlmostEqual, 8)
			})
		})

		Convey("When a malformed event has only a duration", func() {
			m := model.ClassifiedEvent{
				CalendarEventRecord: model.CalendarEventRecord{ID: "m", DurationMinutes: 90},
				Tier:                types.TierSenior,
				Vertical:            types.VerticalEngineering,
			}
			totals := agg.Aggregate([]model.ClassifiedEvent{m}, window)

			Convey("Then its reported duration is credited", func() {
				So(totals.HoursByTier[types.TierSenior], ShouldAlmostEqual, 1.5)
			})
		})

		Convey("When the vertical split is recorded", func() {
			ev := timed("v", types.TierSenior, day(t).Add(9*time.Hour), 2)
			ev.Vertical = types.VerticalEngineering
			totals := agg.Aggregate([]model.ClassifiedEvent{ev}, window)

			So(totals.HoursByTierVer[types.TierSenior][types.VerticalEngineering], ShouldAlmostEqual, 2)
		})
	})
}

func TestAggregateWindowBound(t *testing.T) {
	Convey("Given a single-day window flooded with events", t, func() {
		agg := aggregate.New()
		window := model.AuditWindow{StartDate: day(t), DayCount: 1}

		Convey("When many all-day events stack up", func() {
			var events []model.ClassifiedEvent
			for _, id := range []string{"a", "b", "c", "d", "e"} {
				events = append(events, model.ClassifiedEvent{
					CalendarEventRecord: model.CalendarEventRecord{ID: id, IsAllDay: true},
					Tier:                types.TierJunior,
					Vertical:            types.VerticalUniversal,
				})
			}
			totals := agg.Aggregate(events, window)

			Convey("Then the total never exceeds the unanchored budget", func() {
				So(totals.TotalHours, ShouldBeLessThanOrEqualTo, 8)
			})
		})

		Convey("When timed and all-day events together exceed the span", func() {
			events := []model.ClassifiedEvent{
				timed("t1", types.TierSenior, day(t), 20),
				{
					CalendarEventRecord: model.CalendarEventRecord{ID: "ad1", IsAllDay: true},
					Tier:                types.TierEA,
					Vertical:            types.VerticalUniversal,
				},
			}
			totals := agg.Aggregate(events, window)

			Convey("Then the total stays within the 24-hour span", func() {
				So(totals.TotalHours, ShouldBeLessThanOrEqualTo, 24)
				So(totals.HoursByTier[types.TierSenior], ShouldAlmostEqual, 20)
				So(totals.HoursByTier[types.TierEA], ShouldAlmostEqual, 4)
			})
		})

		Convey("When unanchored events compete for budget", func() {
			events := []model.ClassifiedEvent{
				{
					CalendarEventRecord: model.CalendarEventRecord{ID: "low", IsAllDay: true},
					Tier:                types.TierEA,
					Vertical:            types.VerticalUniversal,
				},
				{
					CalendarEventRecord: model.CalendarEventRecord{ID: "high", IsAllDay: true},
					Tier:                types.TierUnique,
					Vertical:            types.VerticalUniversal,
				},
			}
			totals := agg.Aggregate(events, window)

			Convey("Then the higher tier is credited first", func() {
				So(totals.HoursByTier[types.TierUnique], ShouldAlmostEqual, 8)
				So(totals.HoursByTier[types.TierEA], ShouldEqual, 0)
			})
		})
	})
}
