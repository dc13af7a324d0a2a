// Package roles synthesizes hiring recommendations from delegable events
// and keeps them consistent through user edits. The list is bounded to one
// role per (tier, vertical) combination present, never one per event.
package roles

import (
	"sort"

	"github.com/google/uuid"

	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/scoring"
	"github.com/nick0a/founderbleed/internal/domain/types"
)

// Pricing and presentation constants.
const (
	fullTimeWeekHours = 40.0
	monthsPerYear     = 12.0
	minutesPerHour    = 60.0
	untitledTaskLabel = "Untitled task"
)

// Engine generates role recommendations.
type Engine struct {
	// weeklyHoursCap bounds the sum of all roles' weekly hours to the
	// overlap-adjusted delegable total for the audit; 0 disables capping.
	weeklyHoursCap float64
	newID          func() string
}

// NewEngine creates a clustering engine with defaults, applying options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// groupKey clusters delegable events. EA work has no vertical split.
type groupKey struct {
	tier     types.Tier
	vertical types.Vertical
}

// Generate clusters delegable (SENIOR/JUNIOR/EA) events into priced,
// documented role recommendations ordered by descending weekly hours, the
// highest-impact hire first. Zero delegable events yields an empty list.
func (e *Engine) Generate(events []model.ClassifiedEvent, window model.AuditWindow, rates map[types.RateKey]float64) []model.RoleRecommendation {
	multiplier := window.WeeklyMultiplier()

	groups := make(map[groupKey]map[string]float64)
	for _, ev := range events {
		if ev.IsLeave || !ev.Tier.Delegable() {
			continue
		}
		key := groupKey{tier: ev.Tier, vertical: ev.Vertical}
		if ev.Tier == types.TierEA {
			key.vertical = types.VerticalUniversal
		}
		if groups[key] == nil {
			groups[key] = make(map[string]float64)
		}
		label := ev.Title
		if label == "" {
			label = untitledTaskLabel
		}
		groups[key][label] += (ev.DurationMinutes / minutesPerHour) * multiplier
	}
	if len(groups) == 0 {
		return []model.RoleRecommendation{}
	}

	recs := make([]model.RoleRecommendation, 0, len(groups))
	for key, taskHours := range groups {
		tasks := make([]model.RoleTask, 0, len(taskHours))
		for label, hours := range taskHours {
			tasks = append(tasks, model.RoleTask{Label: label, HoursPerWeek: hours})
		}
		sort.Slice(tasks, func(i, j int) bool {
			if tasks[i].HoursPerWeek != tasks[j].HoursPerWeek {
				return tasks[i].HoursPerWeek > tasks[j].HoursPerWeek
			}
			return tasks[i].Label < tasks[j].Label
		})
		recs = append(recs, model.RoleRecommendation{
			ID:        e.newID(),
			RoleTitle: roleTitle(key.tier, key.vertical),
			Tier:      key.tier,
			Vertical:  key.vertical,
			Tasks:     tasks,
		})
	}

	e.capWeeklyHours(recs)
	for i := range recs {
		Recalculate(&recs[i], rates)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].HoursPerWeek != recs[j].HoursPerWeek {
			return recs[i].HoursPerWeek > recs[j].HoursPerWeek
		}
		return recs[i].RoleTitle < recs[j].RoleTitle
	})
	return recs
}

// capWeeklyHours scales task hours down proportionally when the naive
// per-event sum exceeds the overlap-adjusted delegable total, so the role
// list never promises more hours than the audit actually contains.
func (e *Engine) capWeeklyHours(recs []model.RoleRecommendation) {
	if e.weeklyHoursCap <= 0 {
		return
	}
	sum := 0.0
	for i := range recs {
		for _, task := range recs[i].Tasks {
			sum += task.HoursPerWeek
		}
	}
	if sum <= e.weeklyHoursCap || sum == 0 {
		return
	}
	scale := e.weeklyHoursCap / sum
	for i := range recs {
		for j := range recs[i].Tasks {
			recs[i].Tasks[j].HoursPerWeek *= scale
		}
	}
}

// Recalculate recomputes a role's weekly hours and monthly cost from
// scratch from its current task list, and refreshes the JD text. Never
// incremental, so repeated edits cannot accumulate floating-point drift.
func Recalculate(role *model.RoleRecommendation, rates map[types.RateKey]float64) {
	hours := 0.0
	for _, task := range role.Tasks {
		hours += task.HoursPerWeek
	}
	role.HoursPerWeek = hours

	role.CostMonthly = 0
	if rate := scoring.ResolveRate(role.Tier, role.Vertical, rates); rate != nil {
		// Full-time-equivalent annual rate scaled by actual weekly load,
		// converted to a monthly figure.
		role.CostMonthly = *rate * (hours / fullTimeWeekHours) / monthsPerYear
	}

	role.JDText = buildJD(role)
}

func roleTitle(tier types.Tier, vertical types.Vertical) string {
	if tier == types.TierEA {
		return "Executive Assistant"
	}
	level := "Senior"
	if tier == types.TierJunior {
		level = "Junior"
	}
	switch vertical {
	case types.VerticalEngineering:
		return level + " Engineer"
	case types.VerticalBusiness:
		return level + " Business Operations"
	default:
		return level + " Generalist"
	}
}
