// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/types"
)

const dateLayout = "2006-01-02"

// submitAuditRequest mirrors the request schema for POST /audits.
type submitAuditRequest struct {
	Events        []eventPayload  `json:"events"`
	Window        windowPayload   `json:"window"`
	Profile       *profilePayload `json:"compensation_profile,omitempty"`
	SoloFounder   bool            `json:"solo_founder"`
	PlanningScore *int            `json:"planning_score,omitempty"`
}

type eventPayload struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	Start           string  `json:"start,omitempty"`
	End             string  `json:"end,omitempty"`
	DurationMinutes float64 `json:"duration_minutes"`
	IsAllDay        bool    `json:"is_all_day"`
	AttendeeCount   int     `json:"attendee_count"`
	EventType       string  `json:"event_type,omitempty"`
}

type windowPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	DayCount  int    `json:"day_count,omitempty"`
}

type profilePayload struct {
	SalaryAmount       *float64           `json:"salary_amount,omitempty"`
	SalaryMode         string             `json:"salary_mode,omitempty"`
	EquityPercentage   *float64           `json:"equity_percentage,omitempty"`
	CompanyValuation   *float64           `json:"company_valuation,omitempty"`
	VestingPeriodYears *float64           `json:"vesting_period_years,omitempty"`
	PerTierAnnualRate  map[string]float64 `json:"per_tier_annual_rate,omitempty"`
}

func (r submitAuditRequest) validate() error {
	if len(r.Events) == 0 {
		return errors.New("missing events")
	}
	for i, ev := range r.Events {
		if strings.TrimSpace(ev.ID) == "" {
			return fmt.Errorf("event %d: missing id", i)
		}
		if ev.Start != "" {
			if _, err := time.Parse(time.RFC3339, ev.Start); err != nil {
				return fmt.Errorf("event %q: invalid start; must be RFC3339", ev.ID)
			}
		}
		if ev.End != "" {
			if _, err := time.Parse(time.RFC3339, ev.End); err != nil {
				return fmt.Errorf("event %q: invalid end; must be RFC3339", ev.ID)
			}
		}
		if ev.DurationMinutes < 0 {
			return fmt.Errorf("event %q: negative duration", ev.ID)
		}
	}
	if strings.TrimSpace(r.Window.StartDate) == "" {
		return errors.New("missing window.start_date")
	}
	if _, err := time.Parse(dateLayout, r.Window.StartDate); err != nil {
		return errors.New("invalid window.start_date; must be YYYY-MM-DD")
	}
	if r.Window.EndDate != "" {
		if _, err := time.Parse(dateLayout, r.Window.EndDate); err != nil {
			return errors.New("invalid window.end_date; must be YYYY-MM-DD")
		}
	}
	if r.Window.EndDate == "" && r.Window.DayCount <= 0 {
		return errors.New("window requires end_date or a positive day_count")
	}
	if r.Profile != nil {
		if err := r.Profile.validate(); err != nil {
			return err
		}
	}
	if r.PlanningScore != nil && (*r.PlanningScore < 0 || *r.PlanningScore > 100) {
		return errors.New("planning_score must be in [0, 100]")
	}
	return nil
}

func (p profilePayload) validate() error {
	switch p.SalaryMode {
	case "", string(model.SalaryModeAnnual), string(model.SalaryModeHourly):
	default:
		return fmt.Errorf("invalid salary_mode %q", p.SalaryMode)
	}
	if p.SalaryAmount != nil && *p.SalaryAmount < 0 {
		return errors.New("salary_amount must not be negative")
	}
	for key := range p.PerTierAnnualRate {
		if _, err := types.ParseRateKey(key); err != nil {
			return fmt.Errorf("invalid per_tier_annual_rate key %q", key)
		}
	}
	return nil
}

// toModel converts the validated request into the domain submission.
func (r submitAuditRequest) toModel() model.AuditSubmission {
	events := make([]model.CalendarEventRecord, 0, len(r.Events))
	for _, ev := range r.Events {
		rec := model.CalendarEventRecord{
			ID:              ev.ID,
			Title:           ev.Title,
			Description:     ev.Description,
			DurationMinutes: ev.DurationMinutes,
			IsAllDay:        ev.IsAllDay,
			AttendeeCount:   ev.AttendeeCount,
			EventType:       ev.EventType,
		}
		if ev.Start != "" {
			t, _ := time.Parse(time.RFC3339, ev.Start)
			rec.Start = &t
		}
		if ev.End != "" {
			t, _ := time.Parse(time.RFC3339, ev.End)
			rec.End = &t
		}
		events = append(events, rec)
	}

	window := model.AuditWindow{DayCount: r.Window.DayCount}
	window.StartDate, _ = time.Parse(dateLayout, r.Window.StartDate)
	if r.Window.EndDate != "" {
		window.EndDate, _ = time.Parse(dateLayout, r.Window.EndDate)
	}

	var profile model.CompensationProfile
	if r.Profile != nil {
		profile = model.CompensationProfile{
			SalaryAmount:       r.Profile.SalaryAmount,
			SalaryMode:         model.SalaryModeAnnual,
			EquityPercentage:   r.Profile.EquityPercentage,
			CompanyValuation:   r.Profile.CompanyValuation,
			VestingPeriodYears: r.Profile.VestingPeriodYears,
		}
		if r.Profile.SalaryMode != "" {
			profile.SalaryMode = model.SalaryMode(r.Profile.SalaryMode)
		}
		if len(r.Profile.PerTierAnnualRate) > 0 {
			profile.PerTierAnnualRate = make(map[types.RateKey]float64, len(r.Profile.PerTierAnnualRate))
			for key, rate := range r.Profile.PerTierAnnualRate {
				rk, _ := types.ParseRateKey(key)
				profile.PerTierAnnualRate[rk] = rate
			}
		}
	}

	return model.AuditSubmission{
		Events:        events,
		Window:        window,
		Profile:       profile,
		SoloFounder:   r.SoloFounder,
		PlanningScore: r.PlanningScore,
	}
}

type ackResponse struct {
	AuditID string `json:"audit_id"`
	Status  string `json:"status"`
}

// overrideRequest mirrors the request schema for POST /audits/{id}/overrides.
type overrideRequest struct {
	EventID    string  `json:"event_id"`
	Tier       *string `json:"tier,omitempty"`
	Vertical   *string `json:"vertical,omitempty"`
	IsLeave    *bool   `json:"is_leave,omitempty"`
	Reconciled *bool   `json:"reconciled,omitempty"`
}

func (r overrideRequest) toModel() (model.EventOverride, error) {
	var out model.EventOverride
	if r.Tier != nil {
		tier, err := types.ParseTier(*r.Tier)
		if err != nil {
			return model.EventOverride{}, err
		}
		out.Tier = &tier
	}
	if r.Vertical != nil {
		vertical, err := types.ParseVertical(*r.Vertical)
		if err != nil {
			return model.EventOverride{}, err
		}
		out.Vertical = &vertical
	}
	out.IsLeave = r.IsLeave
	out.Reconciled = r.Reconciled
	return out, nil
}

// moveTaskRequest mirrors the request schema for POST /audits/{id}/roles/move.
type moveTaskRequest struct {
	SourceRoleID string `json:"source_role_id"`
	TargetRoleID string `json:"target_role_id"`
	TaskIndex    int    `json:"task_index"`
}

// reorderRequest mirrors the request schema for POST /audits/{id}/roles/reorder.
type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Response shapes. Domain structs stay free of transport tags; the API layer
// owns the wire representation.

type auditResponse struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	Window        windowResponse     `json:"window"`
	SoloFounder   bool               `json:"solo_founder"`
	PlanningScore *int               `json:"planning_score,omitempty"`
	Events        []eventResponse    `json:"events"`
	Metrics       *metricsResponse   `json:"metrics,omitempty"`
	Roles         []roleResponse     `json:"roles,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type windowResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	DayCount  int    `json:"day_count"`
}

type eventResponse struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Tier                 string  `json:"tier,omitempty"`
	Vertical             string  `json:"vertical,omitempty"`
	BusinessArea         string  `json:"business_area,omitempty"`
	Confidence           float64 `json:"confidence"`
	IsLeave              bool    `json:"is_leave"`
	LeaveConfidence      float64 `json:"leave_confidence,omitempty"`
	LeaveDetectionMethod string  `json:"leave_detection_method,omitempty"`
	Reconciled           bool    `json:"reconciled"`
	Overridden           bool    `json:"overridden"`
	DurationMinutes      float64 `json:"duration_minutes"`
	IsAllDay             bool    `json:"is_all_day"`
}

type metricsResponse struct {
	TotalHours              float64            `json:"total_hours"`
	HoursByTier             map[string]float64 `json:"hours_by_tier"`
	EfficiencyScore         int                `json:"efficiency_score"`
	ReclaimableHoursPerWeek float64            `json:"reclaimable_hours_per_week"`
	FounderCostTotal        *float64           `json:"founder_cost_total"`
	DelegatedCostTotal      *float64           `json:"delegated_cost_total"`
	Arbitrage               *float64           `json:"arbitrage"`
	PlanningScore           *int               `json:"planning_score,omitempty"`
	ComputedAt              time.Time          `json:"computed_at"`
}

type roleResponse struct {
	ID           string         `json:"id"`
	RoleTitle    string         `json:"role_title"`
	Tier         string         `json:"tier"`
	Vertical     string         `json:"vertical"`
	HoursPerWeek float64        `json:"hours_per_week"`
	CostMonthly  float64        `json:"cost_monthly"`
	Tasks        []taskResponse `json:"tasks"`
	JDText       string         `json:"jd_text"`
}

type taskResponse struct {
	Label        string  `json:"label"`
	HoursPerWeek float64 `json:"hours_per_week"`
}

func toAuditResponse(a model.Audit) auditResponse {
	out := auditResponse{
		ID:            a.ID,
		Status:        string(a.Status),
		SoloFounder:   a.SoloFounder,
		PlanningScore: a.PlanningScore,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	out.Window = windowResponse{
		StartDate: a.Window.StartDate.Format(dateLayout),
		DayCount:  a.Window.DayCount,
	}
	if !a.Window.EndDate.IsZero() {
		out.Window.EndDate = a.Window.EndDate.Format(dateLayout)
	}
	out.Events = make([]eventResponse, 0, len(a.Events))
	for _, ev := range a.Events {
		out.Events = append(out.Events, toEventResponse(ev))
	}
	if a.Metrics != nil {
		m := toMetricsResponse(*a.Metrics)
		out.Metrics = &m
	}
	if len(a.Roles) > 0 {
		out.Roles = toRoleResponses(a.Roles)
	}
	return out
}

func toEventResponse(ev model.ClassifiedEvent) eventResponse {
	return eventResponse{
		ID:                   ev.ID,
		Title:                ev.Title,
		Tier:                 string(ev.Tier),
		Vertical:             string(ev.Vertical),
		BusinessArea:         ev.BusinessArea,
		Confidence:           ev.Confidence,
		IsLeave:              ev.IsLeave,
		LeaveConfidence:      ev.LeaveConfidence,
		LeaveDetectionMethod: ev.LeaveDetectionMethod,
		Reconciled:           ev.Reconciled,
		Overridden:           ev.Overridden,
		DurationMinutes:      ev.DurationMinutes,
		IsAllDay:             ev.IsAllDay,
	}
}

func toMetricsResponse(m model.AuditMetrics) metricsResponse {
	hours := make(map[string]float64, len(m.HoursByTier))
	for tier, h := range m.HoursByTier {
		hours[string(tier)] = h
	}
	return metricsResponse{
		TotalHours:              m.TotalHours,
		HoursByTier:             hours,
		EfficiencyScore:         m.EfficiencyScore,
		ReclaimableHoursPerWeek: m.ReclaimableHoursPerWeek,
		FounderCostTotal:        m.FounderCostTotal,
		DelegatedCostTotal:      m.DelegatedCostTotal,
		Arbitrage:               m.Arbitrage,
		PlanningScore:           m.PlanningScore,
		ComputedAt:              m.ComputedAt,
	}
}

func toRoleResponses(roles []model.RoleRecommendation) []roleResponse {
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		rr := roleResponse{
			ID:           role.ID,
			RoleTitle:    role.RoleTitle,
			Tier:         string(role.Tier),
			Vertical:     string(role.Vertical),
			HoursPerWeek: role.HoursPerWeek,
			CostMonthly:  role.CostMonthly,
			JDText:       role.JDText,
			Tasks:        make([]taskResponse, 0, len(role.Tasks)),
		}
		for _, task := range role.Tasks {
			rr.Tasks = append(rr.Tasks, taskResponse{Label: task.Label, HoursPerWeek: task.HoursPerWeek})
		}
		out = append(out, rr)
	}
	return out
}
