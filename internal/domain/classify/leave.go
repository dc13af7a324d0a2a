package classify

import (
	"strings"

	"github.com/nick0a/founderbleed/internal/domain/model"
)

// Leave detection methods, recorded so a reviewer can see why an event was
// excluded from the hour totals.
const (
	LeaveMethodEventType   = "event_type"
	LeaveMethodKeyword     = "keyword"
	LeaveMethodAllDayMatch = "all_day_keyword"
)

// Leave confidence levels by detection method.
const (
	leaveConfidenceEventType = 0.95
	leaveConfidenceAllDay    = 0.9
	leaveConfidenceTitle     = 0.85
	leaveConfidenceBody      = 0.7
)

// outOfOfficeEventType is the provider-native marker for leave entries.
const outOfOfficeEventType = "outOfOffice"

// LeaveSignal is the result of the leave-detection pass.
type LeaveSignal struct {
	IsLeave    bool
	Confidence float64
	Method     string
}

// DetectLeave runs before tier classification: a leave event short-circuits
// tiering (a tier is meaningless for vacation) but the event is retained so
// the user can flip IsLeave back and re-enter classification. The provider
// event type is the strongest signal, then a title keyword, then one in the
// description; an all-day keyword match ranks between the two.
func (c *KeywordClassifier) DetectLeave(event model.CalendarEventRecord) LeaveSignal {
	if event.EventType == outOfOfficeEventType {
		return LeaveSignal{IsLeave: true, Confidence: leaveConfidenceEventType, Method: LeaveMethodEventType}
	}

	title := strings.ToLower(event.Title)
	body := strings.ToLower(event.Description)
	for _, kw := range c.leaveKeywords {
		if strings.Contains(title, kw) {
			if event.IsAllDay {
				return LeaveSignal{IsLeave: true, Confidence: leaveConfidenceAllDay, Method: LeaveMethodAllDayMatch}
			}
			return LeaveSignal{IsLeave: true, Confidence: leaveConfidenceTitle, Method: LeaveMethodKeyword}
		}
	}
	for _, kw := range c.leaveKeywords {
		if strings.Contains(body, kw) {
			return LeaveSignal{IsLeave: true, Confidence: leaveConfidenceBody, Method: LeaveMethodKeyword}
		}
	}
	return LeaveSignal{}
}
