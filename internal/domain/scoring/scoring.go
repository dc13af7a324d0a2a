// Package scoring derives the audit metrics snapshot from aggregated hour
// totals and a compensation profile. All money figures are nullable: a
// missing financial input nulls the specific affected figure, never the
// whole snapshot, and no division here can produce NaN or Infinity.
package scoring

import (
	"math"
	"time"

	"github.com/nick0a/founderbleed/internal/domain/aggregate"
	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/types"
)

// Conversion constants. 2080 is the 40h x 52wk standard work year used to
// turn annual salaries into hourly-equivalent rates.
const (
	hoursPerWorkYear = 2080.0
	weeksPerYear     = 52.0
	maxScore         = 100
	percentFull      = 100.0
)

// Calculator computes audit metrics. It is stateless; every call receives
// its full configuration so the engine stays trivially unit-testable.
type Calculator struct{}

// New creates a metrics calculator.
func New() *Calculator {
	return &Calculator{}
}

// Compute derives the immutable metrics snapshot for one audit run.
// planningScore is produced by an external collaborator and passes through
// opaque.
func (c *Calculator) Compute(totals aggregate.Totals, profile model.CompensationProfile, window model.AuditWindow, planningScore *int) model.AuditMetrics {
	m := model.AuditMetrics{
		TotalHours:    totals.TotalHours,
		HoursByTier:   copyTierHours(totals.HoursByTier),
		PlanningScore: planningScore,
		ComputedAt:    time.Now().UTC(),
	}

	highValue := totals.HoursByTier[types.TierUnique] + totals.HoursByTier[types.TierFounder]
	m.EfficiencyScore = efficiencyScore(highValue, totals.TotalHours)

	multiplier := window.WeeklyMultiplier()
	delegableWeekly := 0.0
	for _, tier := range types.DelegableTiers {
		delegableWeekly += totals.HoursByTier[tier] * multiplier
	}
	m.ReclaimableHoursPerWeek = delegableWeekly

	founderHourly := effectiveHourlyRate(profile)
	if founderHourly != nil {
		cost := delegableWeekly * weeksPerYear * *founderHourly
		m.FounderCostTotal = &cost
	}

	m.DelegatedCostTotal = delegatedCost(totals, profile.PerTierAnnualRate, multiplier)

	if m.FounderCostTotal != nil && m.DelegatedCostTotal != nil {
		arb := *m.FounderCostTotal - *m.DelegatedCostTotal
		m.Arbitrage = &arb
	}

	return m
}

// efficiencyScore is the rounded percentage of analyzed time spent on
// UNIQUE+FOUNDER work. Monotonic in the high-value share, scale-invariant,
// and 0 when there are no hours at all.
func efficiencyScore(highValueHours, totalHours float64) int {
	if totalHours <= 0 {
		return 0
	}
	score := int(math.Round(percentFull * highValueHours / totalHours))
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// effectiveHourlyRate converts the founder's compensation to an
// hourly-equivalent rate. Nil when the salary is unknown. Equity
// compensation is added on top of salary when the percentage, valuation
// and vesting period are all present.
func effectiveHourlyRate(profile model.CompensationProfile) *float64 {
	if profile.SalaryAmount == nil {
		return nil
	}

	annual := *profile.SalaryAmount
	if profile.SalaryMode == model.SalaryModeHourly {
		annual = *profile.SalaryAmount * hoursPerWorkYear
	}

	if profile.EquityPercentage != nil && profile.CompanyValuation != nil &&
		profile.VestingPeriodYears != nil && *profile.VestingPeriodYears > 0 {
		annual += (*profile.EquityPercentage / percentFull) * *profile.CompanyValuation / *profile.VestingPeriodYears
	}

	hourly := annual / hoursPerWorkYear
	return &hourly
}

// delegatedCost prices the delegable hours at the configured tier rates,
// annualized. Hours in a (tier, vertical) bucket use that vertical's rate;
// universal hours use a blend. If any bucket with hours has no resolvable
// rate, the whole figure is unknown (nil) rather than silently partial.
func delegatedCost(totals aggregate.Totals, rates map[types.RateKey]float64, weeklyMultiplier float64) *float64 {
	cost := 0.0
	for _, tier := range types.DelegableTiers {
		for vertical, hours := range totals.HoursByTierVer[tier] {
			if hours <= 0 {
				continue
			}
			rate := ResolveRate(tier, vertical, rates)
			if rate == nil {
				return nil
			}
			weekly := hours * weeklyMultiplier
			cost += weekly * weeksPerYear * (*rate / hoursPerWorkYear)
		}
	}
	return &cost
}

// ResolveRate returns the annual rate for a (tier, vertical) bucket, or
// nil when no rate is configured. Universal work blends the engineering
// and business rates when both exist, else uses whichever is present.
func ResolveRate(tier types.Tier, vertical types.Vertical, rates map[types.RateKey]float64) *float64 {
	if key, ok := types.RateKeyFor(tier, vertical); ok {
		if rate, present := rates[key]; present {
			return &rate
		}
		return nil
	}

	// Universal vertical: blend the tier's ENG and BIZ rates.
	engKey, _ := types.RateKeyFor(tier, types.VerticalEngineering)
	bizKey, _ := types.RateKeyFor(tier, types.VerticalBusiness)
	eng, hasEng := rates[engKey]
	biz, hasBiz := rates[bizKey]
	switch {
	case hasEng && hasBiz:
		blended := (eng + biz) / 2
		return &blended
	case hasEng:
		return &eng
	case hasBiz:
		return &biz
	default:
		return nil
	}
}

func copyTierHours(src map[types.Tier]float64) map[types.Tier]float64 {
	dst := make(map[types.Tier]float64, len(src))
	for tier, hours := range src {
		dst[tier] = hours
	}
	return dst
}
