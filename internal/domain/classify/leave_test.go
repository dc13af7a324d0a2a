package classify_test

import (
	"testing"

	"github.com/nick0a/founderbleed/internal/domain/classify"
	"github.com/nick0a/founderbleed/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDetectLeave(t *testing.T) {
	Convey("Given a keyword classifier", t, func() {
		c := classify.New()

		Convey("When the provider marks the event out-of-office", func() {
			sig := c.DetectLeave(model.CalendarEventRecord{
				ID:        "lv-1",
				Title:     "Focus block",
				EventType: "outOfOffice",
			})

			Convey("Then it is leave at the highest confidence", func() {
				So(sig.IsLeave, ShouldBeTrue)
				So(sig.Confidence, ShouldEqual, 0.95)
				So(sig.Method, ShouldEqual, classify.LeaveMethodEventType)
			})
		})

		Convey("When an all-day event title contains a leave keyword", func() {
			sig := c.DetectLeave(model.CalendarEventRecord{
				ID:       "lv-2",
				Title:    "Vacation in Lisbon",
				IsAllDay: true,
			})

			So(sig.IsLeave, ShouldBeTrue)
			So(sig.Confidence, ShouldEqual, 0.9)
			So(sig.Method, ShouldEqual, classify.LeaveMethodAllDayMatch)
		})

		Convey("When a timed event title contains a leave keyword", func() {
			sig := c.DetectLeave(model.CalendarEventRecord{
				ID:    "lv-3",
				Title: "PTO - back Monday",
			})

			So(sig.IsLeave, ShouldBeTrue)
			So(sig.Confidence, ShouldEqual, 0.85)
			So(sig.Method, ShouldEqual, classify.LeaveMethodKeyword)
		})

		Convey("When only the description mentions leave", func() {
			sig := c.DetectLeave(model.CalendarEventRecord{
				ID:          "lv-4",
				Title:       "Blocked",
				Description: "Taking a day off for a family thing",
			})

			So(sig.IsLeave, ShouldBeTrue)
			So(sig.Confidence, ShouldEqual, 0.7)
			So(sig.Method, ShouldEqual, classify.LeaveMethodKeyword)
		})

		Convey("When nothing signals leave", func() {
			sig := c.DetectLeave(model.CalendarEventRecord{
				ID:    "lv-5",
				Title: "Board meeting prep",
			})

			So(sig.IsLeave, ShouldBeFalse)
			So(sig.Confidence, ShouldEqual, 0)
		})
	})
}
