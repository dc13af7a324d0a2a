// Package classify assigns a delegation tier, vertical and business area
// to one raw calendar event. Classification is pure and deterministic:
// the same event and flags always produce the same suggestion.
package classify

import (
	"strings"

	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/types"
)

// Default classifier constants.
const (
	defaultBaseConfidence    = 0.5
	confidencePerHit         = 0.1
	maxConfidence            = 0.9
	fallbackConfidence       = 0.3
	soloAttendeeThreshold    = 1
	crowdAttendeeThreshold   = 6
	attendeeSignalWeight     = 2
	firstPersonSignalWeight  = 2
	crowdRoutineSignalWeight = 2
)

// Suggestion is the classifier's output for one event.
type Suggestion struct {
	Tier         types.Tier
	Vertical     types.Vertical
	BusinessArea string
	Confidence   float64
}

// KeywordClassifier suggests tiers from keyword and attendee signals.
// The term tables are data, not behavior: tuning them does not change the
// classification mechanics.
type KeywordClassifier struct {
	tierTerms     map[types.Tier][]string
	leaveKeywords []string
	firstPerson   []string
	engTerms      []string
	bizTerms      []string
	areaTerms     map[string][]string
}

// New creates a classifier with the default term tables, applying options.
func New(opts ...Option) *KeywordClassifier {
	c := &KeywordClassifier{
		tierTerms: map[types.Tier][]string{
			types.TierUnique: {
				"product vision", "deep work", "founder mode", "writing",
				"first principles", "company narrative",
			},
			types.TierFounder: {
				"strategy", "fundrais", "investor", "board", "vision",
				"roadmap", "pitch", "partnership", "all hands", "all-hands",
				"hiring plan",
			},
			types.TierSenior: {
				"review", "design", "architecture", "interview", "1:1",
				"one-on-one", "sprint planning", "debug", "migration",
				"incident", "negotiation", "onboarding",
			},
			types.TierJunior: {
				"standup", "stand-up", "status", "sync", "check-in",
				"checkin", "data entry", "triage", "follow up", "follow-up",
				"weekly update", "qa pass", "testing",
			},
			types.TierEA: {
				"schedule", "scheduling", "reschedul", "travel", "flight",
				"hotel", "expense", "invoice", "receipt", "inbox",
				"reservation", "errand", "book dinner", "book flight",
			},
		},
		leaveKeywords: []string{
			"vacation", "pto", "ooo", "out of office", "holiday", "sick",
			"annual leave", "day off", "parental leave", "offline",
		},
		firstPerson: []string{"i ", "my ", "me:", "plan ", "draft", "write", "think through"},
		engTerms: []string{
			"code", "deploy", "api", "bug", "infra", "sprint", "architecture",
			"release", "migration", "database", "incident", "debug", "pr review",
		},
		bizTerms: []string{
			"sales", "marketing", "invoice", "customer", "hiring", "finance",
			"investor", "partnership", "contract", "payroll", "expense",
		},
		areaTerms: map[string][]string{
			"Engineering": {"code", "deploy", "api", "bug", "infra", "release", "incident", "database"},
			"Product":     {"product", "roadmap", "design", "spec", "ux"},
			"Sales":       {"sales", "customer", "demo", "pipeline", "deal"},
			"Marketing":   {"marketing", "content", "launch", "campaign"},
			"Finance":     {"invoice", "expense", "payroll", "finance", "budget"},
			"People":      {"hiring", "interview", "onboarding", "1:1", "one-on-one"},
			"Operations":  {"schedule", "travel", "admin", "errand", "logistics"},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify suggests a tier, vertical and business area for one event.
// When soloFounder is true, FOUNDER is never suggested: a one-person
// company has no co-founder to delegate to, so that work collapses to
// UNIQUE. A malformed event (no usable text) falls back to a
// low-confidence SENIOR suggestion using whatever signals remain.
func (c *KeywordClassifier) Classify(event model.CalendarEventRecord, soloFounder bool) Suggestion {
	text := normalizeText(event.Title, event.Description)

	vertical := c.vertical(text)
	area := c.businessArea(text, vertical)

	if text == "" {
		return Suggestion{
			Tier:         types.TierSenior,
			Vertical:     vertical,
			BusinessArea: area,
			Confidence:   fallbackConfidence,
		}
	}

	scores := make(map[types.Tier]int, len(types.AllTiers))
	for tier, terms := range c.tierTerms {
		scores[tier] = countHits(text, terms)
	}

	// Attendee shape: solo or near-solo time with first-person planning
	// language reads as founder-level work; a crowd plus routine terms
	// reads as delegable.
	routine := scores[types.TierJunior] + scores[types.TierEA]
	if event.AttendeeCount <= soloAttendeeThreshold && countHits(text, c.firstPerson) > 0 {
		scores[types.TierUnique] += firstPersonSignalWeight
		scores[types.TierFounder] += attendeeSignalWeight
	}
	if event.AttendeeCount >= crowdAttendeeThreshold && routine > 0 {
		scores[types.TierJunior] += crowdRoutineSignalWeight
	}

	// Highest score wins; ties resolve to the higher tier so ambiguous
	// events stay with the founder rather than being claimed as delegable.
	best := types.Tier("")
	bestScore := 0
	for _, tier := range types.AllTiers {
		if scores[tier] > bestScore {
			best = tier
			bestScore = scores[tier]
		}
	}
	if bestScore == 0 {
		return Suggestion{
			Tier:         types.TierSenior,
			Vertical:     vertical,
			BusinessArea: area,
			Confidence:   fallbackConfidence,
		}
	}
	if soloFounder && best == types.TierFounder {
		best = types.TierUnique
	}

	confidence := defaultBaseConfidence + confidencePerHit*float64(bestScore)
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return Suggestion{
		Tier:         best,
		Vertical:     vertical,
		BusinessArea: area,
		Confidence:   confidence,
	}
}

// vertical picks a work category from keyword counts; a tie or no signal
// is UNIVERSAL.
func (c *KeywordClassifier) vertical(text string) types.Vertical {
	eng := countHits(text, c.engTerms)
	biz := countHits(text, c.bizTerms)
	switch {
	case eng > biz:
		return types.VerticalEngineering
	case biz > eng:
		return types.VerticalBusiness
	default:
		return types.VerticalUniversal
	}
}

// businessArea derives a free-text area label; iteration is ordered so the
// result is deterministic.
func (c *KeywordClassifier) businessArea(text string, vertical types.Vertical) string {
	areas := []string{"Engineering", "Product", "Sales", "Marketing", "Finance", "People", "Operations"}
	bestArea := ""
	bestHits := 0
	for _, area := range areas {
		if hits := countHits(text, c.areaTerms[area]); hits > bestHits {
			bestArea = area
			bestHits = hits
		}
	}
	if bestArea != "" {
		return bestArea
	}
	switch vertical {
	case types.VerticalEngineering:
		return "Engineering"
	case types.VerticalBusiness:
		return "Business"
	default:
		return "General"
	}
}

func normalizeText(title, description string) string {
	combined := strings.TrimSpace(title + " " + description)
	return strings.ToLower(combined)
}

func countHits(text string, terms []string) int {
	hits := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			hits++
		}
	}
	return hits
}
