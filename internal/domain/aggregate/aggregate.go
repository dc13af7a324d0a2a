// Package aggregate turns tier-labeled events into per-tier hour totals
// for the literal audit span. Leave events are excluded entirely, and
// overlapping events are never naively summed: the total can never exceed
// the wall-clock span of the audit window.
package aggregate

import (
	"sort"
	"time"

	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/types"
)

// Default aggregation constants.
const (
	// defaultAllDayHours is the workday-equivalent credited for an all-day
	// event instead of its literal (often 0 or 1440-minute) duration.
	defaultAllDayHours = 8.0
	minutesPerHour     = 60.0
	hoursPerDay        = 24.0
)

// Totals is the aggregator's output: hours per tier and their sum, plus
// a (tier, vertical) split used downstream to price delegated hours with
// the right compensation rate.
type Totals struct {
	HoursByTier    map[types.Tier]float64
	HoursByTierVer map[types.Tier]map[types.Vertical]float64
	TotalHours     float64
}

// add records hours against both the per-tier total and the vertical split.
func (t *Totals) add(tier types.Tier, vertical types.Vertical, hours float64) {
	t.HoursByTier[tier] += hours
	if t.HoursByTierVer[tier] == nil {
		t.HoursByTierVer[tier] = make(map[types.Vertical]float64)
	}
	t.HoursByTierVer[tier][vertical] += hours
}

// Aggregator computes overlap-safe hour totals.
type Aggregator struct {
	allDayHours float64
}

// New creates an aggregator with defaults, applying options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{allDayHours: defaultAllDayHours}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// interval is a clipped, tier-labeled span of wall-clock time.
type interval struct {
	start, end time.Time
	rank       int
	tier       types.Tier
	vertical   types.Vertical
}

// Aggregate computes per-tier hour totals for the audit window.
//
// Timed events are resolved by a boundary sweep: each elementary segment of
// wall-clock time is attributed once, to the highest-tier event covering
// it, since a person occupies only one activity at a time. Events without
// timestamps (all-day entries and malformed records) are credited from the
// window time left uncovered by timed events, highest tier first, so the
// total stays within the window span.
func (a *Aggregator) Aggregate(events []model.ClassifiedEvent, window model.AuditWindow) Totals {
	totals := Totals{
		HoursByTier:    zeroTierHours(),
		HoursByTierVer: make(map[types.Tier]map[types.Vertical]float64),
	}
	if len(events) == 0 {
		return totals
	}

	windowStart := window.StartDate
	windowEnd := window.StartDate.Add(time.Duration(window.DayCount) * 24 * time.Hour)
	spanHours := float64(window.DayCount) * hoursPerDay

	var timed []interval
	var unanchored []model.ClassifiedEvent
	for _, ev := range events {
		if ev.IsLeave {
			continue
		}
		if ev.IsAllDay || ev.Start == nil || ev.End == nil {
			unanchored = append(unanchored, ev)
			continue
		}
		start, end := clip(*ev.Start, *ev.End, windowStart, windowEnd)
		if !end.After(start) {
			continue
		}
		timed = append(timed, interval{start: start, end: end, rank: ev.Tier.Rank(), tier: ev.Tier, vertical: ev.Vertical})
	}

	timedTotal := sweep(timed, &totals)

	// Budget for events that cannot be placed on the clock: whatever part
	// of the window timed events did not already claim.
	budget := spanHours - timedTotal
	if budget < 0 {
		budget = 0
	}
	allDayBudget := a.allDayHours * float64(window.DayCount)
	if allDayBudget < budget {
		budget = allDayBudget
	}
	unanchoredTotal := a.creditUnanchored(unanchored, budget, &totals)

	totals.TotalHours = timedTotal + unanchoredTotal
	return totals
}

// sweep attributes each elementary segment between interval boundaries to
// the highest-ranked covering tier. Returns the hours attributed.
func sweep(intervals []interval, totals *Totals) float64 {
	if len(intervals) == 0 {
		return 0
	}

	boundaries := make([]time.Time, 0, len(intervals)*2)
	for _, iv := range intervals {
		boundaries = append(boundaries, iv.start, iv.end)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	total := 0.0
	for i := 0; i < len(boundaries)-1; i++ {
		segStart, segEnd := boundaries[i], boundaries[i+1]
		if !segEnd.After(segStart) {
			continue
		}
		var winner *interval
		for i := range intervals {
			iv := &intervals[i]
			if !iv.start.After(segStart) && !iv.end.Before(segEnd) && (winner == nil || iv.rank > winner.rank) {
				winner = iv
			}
		}
		if winner == nil {
			continue
		}
		hours := segEnd.Sub(segStart).Hours()
		totals.add(winner.tier, winner.vertical, hours)
		total += hours
	}
	return total
}

// creditUnanchored hands out hours to events with no usable timestamps,
// highest tier first (then by id for determinism), until the budget runs
// out. All-day events take the workday-equivalent; malformed timed events
// take their reported duration.
func (a *Aggregator) creditUnanchored(events []model.ClassifiedEvent, budget float64, totals *Totals) float64 {
	sort.Slice(events, func(i, j int) bool {
		ri, rj := events[i].Tier.Rank(), events[j].Tier.Rank()
		if ri != rj {
			return ri > rj
		}
		return events[i].ID < events[j].ID
	})

	total := 0.0
	for _, ev := range events {
		if budget <= 0 {
			break
		}
		hours := a.allDayHours
		if !ev.IsAllDay {
			hours = ev.DurationMinutes / minutesPerHour
			if hours <= 0 {
				continue
			}
		}
		if hours > budget {
			hours = budget
		}
		totals.add(ev.Tier, ev.Vertical, hours)
		budget -= hours
		total += hours
	}
	return total
}

func clip(start, end, windowStart, windowEnd time.Time) (time.Time, time.Time) {
	if start.Before(windowStart) {
		start = windowStart
	}
	if end.After(windowEnd) {
		end = windowEnd
	}
	return start, end
}

func zeroTierHours() map[types.Tier]float64 {
	m := make(map[types.Tier]float64, len(types.AllTiers))
	for _, t := range types.AllTiers {
		m[t] = 0
	}
	return m
}
