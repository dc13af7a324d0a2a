package classify

import "github.com/nick0a/founderbleed/internal/domain/types"

// Option applies a configuration option to the KeywordClassifier.
type Option func(*KeywordClassifier)

// WithLeaveKeywords replaces the leave keyword list.
func WithLeaveKeywords(keywords []string) Option {
	return func(c *KeywordClassifier) {
		if len(keywords) > 0 {
			c.leaveKeywords = append([]string(nil), keywords...)
		}
	}
}

// WithTierTerms replaces the term table for a single tier.
func WithTierTerms(tier types.Tier, terms []string) Option {
	return func(c *KeywordClassifier) {
		if len(terms) > 0 {
			c.tierTerms[tier] = append([]string(nil), terms...)
		}
	}
}

// WithVerticalTerms replaces the engineering/business keyword lists used
// for vertical selection.
func WithVerticalTerms(engineering, business []string) Option {
	return func(c *KeywordClassifier) {
		if len(engineering) > 0 {
			c.engTerms = append([]string(nil), engineering...)
		}
		if len(business) > 0 {
			c.bizTerms = append([]string(nil), business...)
		}
	}
}
