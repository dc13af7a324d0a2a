// Package types contains the closed enums shared across the audit engine.
// Free-form tier/vertical strings from collaborators are normalized here,
// once, at the boundary.
package types

import (
	"fmt"
	"strings"
)

// Tier is the delegation level for a unit of work.
type Tier string

// Tiers, highest to lowest. UNIQUE and FOUNDER are founder-level work;
// SENIOR, JUNIOR and EA are delegable.
const (
	TierUnique  Tier = "UNIQUE"
	TierFounder Tier = "FOUNDER"
	TierSenior  Tier = "SENIOR"
	TierJunior  Tier = "JUNIOR"
	TierEA      Tier = "EA"
)

// AllTiers lists every tier in descending rank order.
var AllTiers = []Tier{TierUnique, TierFounder, TierSenior, TierJunior, TierEA}

// DelegableTiers lists the tiers that feed reclaimable hours and role
// recommendations.
var DelegableTiers = []Tier{TierSenior, TierJunior, TierEA}

// Rank returns the tier's precedence for overlap resolution: higher value
// wins contested wall-clock time. Unknown tiers rank below EA.
func (t Tier) Rank() int {
	switch t {
	case TierUnique:
		return 5
	case TierFounder:
		return 4
	case TierSenior:
		return 3
	case TierJunior:
		return 2
	case TierEA:
		return 1
	default:
		return 0
	}
}

// Delegable reports whether work at this tier belongs to a hire rather
// than the founder.
func (t Tier) Delegable() bool {
	switch t {
	case TierSenior, TierJunior, TierEA:
		return true
	default:
		return false
	}
}

// ParseTier normalizes a free-form tier string.
func ParseTier(s string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UNIQUE":
		return TierUnique, nil
	case "FOUNDER":
		return TierFounder, nil
	case "SENIOR":
		return TierSenior, nil
	case "JUNIOR":
		return TierJunior, nil
	case "EA", "ASSISTANT":
		return TierEA, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

// Vertical is the work category used to select a compensation rate.
type Vertical string

// Verticals. Universal work prices at a blended rate.
const (
	VerticalEngineering Vertical = "ENGINEERING"
	VerticalBusiness    Vertical = "BUSINESS"
	VerticalUniversal   Vertical = "UNIVERSAL"
)

// ParseVertical normalizes a free-form vertical string. An empty string is
// treated as universal.
func ParseVertical(s string) (Vertical, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ENGINEERING", "ENG":
		return VerticalEngineering, nil
	case "BUSINESS", "BIZ":
		return VerticalBusiness, nil
	case "UNIVERSAL", "":
		return VerticalUniversal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVertical, s)
	}
}

// RateKey identifies a configured annual compensation rate for a
// (tier, vertical) pairing. EA has no vertical split.
type RateKey string

// Rate keys matching the compensation profile schema.
const (
	RateSeniorEng RateKey = "SENIOR_ENG"
	RateSeniorBiz RateKey = "SENIOR_BIZ"
	RateJuniorEng RateKey = "JUNIOR_ENG"
	RateJuniorBiz RateKey = "JUNIOR_BIZ"
	RateEA        RateKey = "EA"
)

// RateKeyFor maps a delegable tier and vertical onto its rate key.
// Universal verticals have no single key; callers blend the ENG and BIZ
// rates instead. The second return is false when no direct key exists.
func RateKeyFor(t Tier, v Vertical) (RateKey, bool) {
	if t == TierEA {
		return RateEA, true
	}
	switch {
	case t == TierSenior && v == VerticalEngineering:
		return RateSeniorEng, true
	case t == TierSenior && v == VerticalBusiness:
		return RateSeniorBiz, true
	case t == TierJunior && v == VerticalEngineering:
		return RateJuniorEng, true
	case t == TierJunior && v == VerticalBusiness:
		return RateJuniorBiz, true
	default:
		return "", false
	}
}

// ParseRateKey normalizes a free-form rate key string.
func ParseRateKey(s string) (RateKey, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SENIOR_ENG":
		return RateSeniorEng, nil
	case "SENIOR_BIZ":
		return RateSeniorBiz, nil
	case "JUNIOR_ENG":
		return RateJuniorEng, nil
	case "JUNIOR_BIZ":
		return RateJuniorBiz, nil
	case "EA":
		return RateEA, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRateKey, s)
	}
}
