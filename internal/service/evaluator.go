package service

import (
	"time"

	"github.com/yourname/bioclock/internal"
)

// Fixed messages for the rule catalog.
const (
	MsgLongFast         = "You've fasted >16h. Consider breaking fast to avoid low energy."
	MsgLateBreakfast    = "Late breakfast can shift your clock. Try eating before 9 AM."
	MsgLateDinner       = "Late dinner may disrupt sleep. Aim to finish 2h before bed."
	MsgLateMorningLight = "Get 10 min of bright light to kickstart your circadian rhythm."
	MsgLateEveningLight = "Evening light can delay sleep. Dim lights after 8 PM."
)

const (
	longFastDuration       = 16 * time.Hour
	lateBreakfastHour      = 10
	lateMorningLightHour   = 9
	lateEveningLightHour   = 20
	dinnerSleepGapMinutes  = 120
	RecentSleepStartsLimit = 7
)

// InsightDraft is a request to create an insight. The persistence boundary
// assigns id, user, the read flag, and creation time.
type InsightDraft struct {
	Type         internal.InsightType
	Message      string
	ScheduledFor time.Time
}

// EvaluateEvent runs the trend-detection rules against a newly logged event
// and returns the insights to create, in rule-catalog order. It is pure:
// the caller supplies the day's events, the recent sleep-start history
// (newest first), the current time, and the location used for every
// hour-of-day comparison. Repeated calls with the same inputs return the
// same drafts. Events the catalog has no rule for, and events with missing
// or unknown metadata, produce nothing.
//
// Note that the evaluator does not deduplicate against insights emitted
// earlier the same day; logging two qualifying events emits two insights.
func EvaluateEvent(newEvent *internal.CircadianEvent, todaysEvents, recentSleepStarts []internal.CircadianEvent, now time.Time, loc *time.Location) []InsightDraft {
	var drafts []InsightDraft

	switch newEvent.EventType {
	case internal.EventFastStart:
		drafts = append(drafts, InsightDraft{
			Type:         internal.InsightLongFast,
			Message:      MsgLongFast,
			ScheduledFor: newEvent.Timestamp.Add(longFastDuration),
		})

	case internal.EventMeal:
		switch newEvent.Metadata.MealType {
		case internal.MealBreakfast:
			if newEvent.Timestamp.In(loc).Hour() >= lateBreakfastHour {
				drafts = append(drafts, InsightDraft{
					Type:         internal.InsightLateBreakfast,
					Message:      MsgLateBreakfast,
					ScheduledFor: now,
				})
			}
		case internal.MealDinner:
			if len(recentSleepStarts) > 0 {
				sum := 0.0
				for _, e := range recentSleepStarts {
					sum += float64(internal.MinutesPastMidnight(e.Timestamp, loc))
				}
				avgSleepMinutes := sum / float64(len(recentSleepStarts))
				dinnerMinutes := float64(internal.MinutesPastMidnight(newEvent.Timestamp, loc))
				// Literal arithmetic mean of clock minutes; sleep times that
				// straddle midnight skew it (23:50 and 00:10 average to noon).
				if avgSleepMinutes-dinnerMinutes < dinnerSleepGapMinutes {
					drafts = append(drafts, InsightDraft{
						Type:         internal.InsightLateDinner,
						Message:      MsgLateDinner,
						ScheduledFor: now,
					})
				}
			}
		}

	case internal.EventLightExposure:
		switch newEvent.Metadata.LightPhase {
		case internal.LightMorning:
			if newEvent.Timestamp.In(loc).Hour() >= lateMorningLightHour {
				drafts = append(drafts, InsightDraft{
					Type:         internal.InsightLateMorningLight,
					Message:      MsgLateMorningLight,
					ScheduledFor: now,
				})
			}
		case internal.LightEvening:
			if newEvent.Timestamp.In(loc).Hour() >= lateEveningLightHour {
				drafts = append(drafts, InsightDraft{
					Type:         internal.InsightLateEveningLight,
					Message:      MsgLateEveningLight,
					ScheduledFor: now,
				})
			}
		}
	}

	// fast_end, sleep_start, sleep_end and activity have no rules. The
	// asymmetry is product scope, not an oversight.
	return drafts
}
