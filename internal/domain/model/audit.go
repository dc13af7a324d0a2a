// Package model contains domain records passed between layers. The engine
// owns no wire or file format; these are in-memory structures only.
package model

import (
	"time"

	"github.com/nick0a/founderbleed/internal/domain/types"
)

// CalendarEventRecord is one raw event as fetched from a calendar provider.
// Start/End are nil for all-day events, which carry only a date.
type CalendarEventRecord struct {
	ID              string
	Title           string
	Description     string
	Start           *time.Time
	End             *time.Time
	DurationMinutes float64
	IsAllDay        bool
	AttendeeCount   int
	EventType       string // provider-native type, e.g. "outOfOffice"
}

// ClassifiedEvent is a calendar event after the classification pass, plus
// any user edits applied during review.
type ClassifiedEvent struct {
	CalendarEventRecord

	Tier         types.Tier
	Vertical     types.Vertical
	BusinessArea string
	Confidence   float64

	IsLeave              bool
	LeaveConfidence      float64
	LeaveDetectionMethod string

	// Reconciled marks a suggestion the user confirmed; Overridden marks
	// one the user changed.
	Reconciled bool
	Overridden bool
}

// SalaryMode says how CompensationProfile.SalaryAmount is denominated.
type SalaryMode string

// Salary modes.
const (
	SalaryModeAnnual SalaryMode = "annual"
	SalaryModeHourly SalaryMode = "hourly"
)

// CompensationProfile carries the financial inputs for an audit. Money
// fields are pointers: nil means unknown, and downstream metrics that
// depend on an unknown input stay nil rather than coercing to zero.
type CompensationProfile struct {
	SalaryAmount       *float64
	SalaryMode         SalaryMode
	EquityPercentage   *float64 // 0-100
	CompanyValuation   *float64
	VestingPeriodYears *float64
	PerTierAnnualRate  map[types.RateKey]float64
}

// AuditWindow is the date span an audit covers. DayCount is guaranteed >=1
// by the intake boundary.
type AuditWindow struct {
	StartDate time.Time
	EndDate   time.Time
	DayCount  int
}

// WeeklyMultiplier normalizes the audit span to a weekly run-rate.
// Returns 0 for a degenerate window so callers never divide by zero.
func (w AuditWindow) WeeklyMultiplier() float64 {
	if w.DayCount < 1 {
		return 0
	}
	return 7.0 / float64(w.DayCount)
}

// AuditMetrics is the immutable derived snapshot for one audit run. It is
// recomputed whole whenever any event's classification changes, never
// patched.
type AuditMetrics struct {
	TotalHours              float64
	HoursByTier             map[types.Tier]float64
	EfficiencyScore         int // 0-100
	ReclaimableHoursPerWeek float64
	FounderCostTotal        *float64
	DelegatedCostTotal      *float64
	Arbitrage               *float64 // annualized, signed, unclamped
	PlanningScore           *int     // externally computed, opaque here
	ComputedAt              time.Time
}

// RoleTask is one delegable task inside a role recommendation.
type RoleTask struct {
	Label        string
	HoursPerWeek float64
}

// RoleRecommendation is a synthesized hire clustering same-tier/vertical
// delegable tasks. HoursPerWeek always equals the sum of the tasks'
// HoursPerWeek within float tolerance.
type RoleRecommendation struct {
	ID           string
	RoleTitle    string
	Tier         types.Tier
	Vertical     types.Vertical
	HoursPerWeek float64
	CostMonthly  float64
	Tasks        []RoleTask
	JDText       string
}

// AuditStatus tracks an audit through the async pipeline.
type AuditStatus string

// Audit statuses.
const (
	StatusPending  AuditStatus = "pending"
	StatusComplete AuditStatus = "complete"
	StatusFailed   AuditStatus = "failed"
)

// Audit is the per-audit aggregate held by the repository: inputs, the
// classified events, and the latest derived snapshot.
type Audit struct {
	ID            string
	Window        AuditWindow
	Profile       CompensationProfile
	SoloFounder   bool
	PlanningScore *int
	Status        AuditStatus
	Events        []ClassifiedEvent
	Metrics       *AuditMetrics
	Roles         []RoleRecommendation
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AuditSubmission is one audit request: raw events plus the financial and
// team-composition inputs, passed explicitly so the engine never reads
// ambient state.
type AuditSubmission struct {
	Events        []CalendarEventRecord
	Window        AuditWindow
	Profile       CompensationProfile
	SoloFounder   bool
	PlanningScore *int
}

// EventOverride is a user edit to one event's classification. Nil fields
// are left untouched.
type EventOverride struct {
	Tier       *types.Tier
	Vertical   *types.Vertical
	IsLeave    *bool
	Reconciled *bool
}

// AuditJob is the payload flowing through the processing queue.
type AuditJob struct {
	AuditID       string
	Events        []CalendarEventRecord
	Window        AuditWindow
	Profile       CompensationProfile
	SoloFounder   bool
	PlanningScore *int
}
