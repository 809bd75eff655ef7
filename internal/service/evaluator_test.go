package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/bioclock/internal"
)

var testLoc = time.UTC

func eventAt(eventType internal.EventType, ts time.Time, meta internal.EventMetadata) *internal.CircadianEvent {
	return &internal.CircadianEvent{
		ID:        "e1",
		UserID:    "u1",
		EventType: eventType,
		Timestamp: ts,
		Metadata:  meta,
		CreatedAt: ts,
	}
}

func sleepStartsAt(clockTimes ...string) []internal.CircadianEvent {
	events := make([]internal.CircadianEvent, 0, len(clockTimes))
	for i, ct := range clockTimes {
		ts, _ := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("2025-01-%02d %s", i+1, ct), testLoc)
		events = append(events, internal.CircadianEvent{
			ID:        "s" + ct,
			UserID:    "u1",
			EventType: internal.EventSleepStart,
			Timestamp: ts,
		})
	}
	return events
}

func TestEvaluateDeterministic(t *testing.T) {
	now := time.Date(2025, 1, 1, 21, 30, 0, 0, testLoc)
	ev := eventAt(internal.EventMeal, time.Date(2025, 1, 1, 21, 0, 0, 0, testLoc), internal.EventMetadata{MealType: internal.MealDinner})
	recents := sleepStartsAt("22:30", "22:40")

	first := EvaluateEvent(ev, nil, recents, now, testLoc)
	second := EvaluateEvent(ev, nil, recents, now, testLoc)
	assert.Equal(t, first, second)
	assert.Len(t, first, 1)
}

func TestFastStartAlwaysEmitsLongFast(t *testing.T) {
	ts := time.Date(2025, 1, 1, 20, 0, 0, 0, testLoc)
	ev := eventAt(internal.EventFastStart, ts, internal.EventMetadata{})
	todays := []internal.CircadianEvent{
		*eventAt(internal.EventMeal, ts.Add(-2*time.Hour), internal.EventMetadata{MealType: internal.MealDinner}),
		*eventAt(internal.EventActivity, ts.Add(-5*time.Hour), internal.EventMetadata{}),
	}

	drafts := EvaluateEvent(ev, todays, nil, ts, testLoc)
	assert.Len(t, drafts, 1)
	assert.Equal(t, internal.InsightLongFast, drafts[0].Type)
	assert.Equal(t, MsgLongFast, drafts[0].Message)
	// 2025-01-01T20:00 + 16h = 2025-01-02T12:00
	assert.Equal(t, time.Date(2025, 1, 2, 12, 0, 0, 0, testLoc), drafts[0].ScheduledFor)
}

func TestLateBreakfastBoundary(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, testLoc)
	meta := internal.EventMetadata{MealType: internal.MealBreakfast}

	early := eventAt(internal.EventMeal, time.Date(2025, 1, 1, 9, 59, 0, 0, testLoc), meta)
	assert.Empty(t, EvaluateEvent(early, nil, nil, now, testLoc))

	onBoundary := eventAt(internal.EventMeal, time.Date(2025, 1, 1, 10, 0, 0, 0, testLoc), meta)
	drafts := EvaluateEvent(onBoundary, nil, nil, now, testLoc)
	assert.Len(t, drafts, 1)
	assert.Equal(t, internal.InsightLateBreakfast, drafts[0].Type)
	assert.Equal(t, now, drafts[0].ScheduledFor)

	late := eventAt(internal.EventMeal, time.Date(2025, 1, 1, 10, 15, 0, 0, testLoc), meta)
	drafts = EvaluateEvent(late, nil, nil, now, testLoc)
	assert.Len(t, drafts, 1)
	assert.Equal(t, "Late breakfast can shift your clock. Try eating before 9 AM.", drafts[0].Message)
}

func TestLateDinnerNeedsSleepHistory(t *testing.T) {
	now := time.Date(2025, 1, 1, 23, 0, 0, 0, testLoc)
	dinner := eventAt(internal.EventMeal, time.Date(2025, 1, 1, 22, 30, 0, 0, testLoc), internal.EventMetadata{MealType: internal.MealDinner})
	assert.Empty(t, EvaluateEvent(dinner, nil, nil, now, testLoc))
	assert.Empty(t, EvaluateEvent(dinner, nil, []internal.CircadianEvent{}, now, testLoc))
}

func TestLateDinnerBoundary(t *testing.T) {
	now := time.Date(2025, 1, 5, 22, 0, 0, 0, testLoc)
	// Average sleep start 23:00 = minute 1380
	recents := sleepStartsAt("23:00", "23:00", "23:00")
	meta := internal.EventMetadata{MealType: internal.MealDinner}

	// Gap 119 minutes: fires
	dinner := eventAt(internal.EventMeal, time.Date(2025, 1, 5, 21, 1, 0, 0, testLoc), meta)
	drafts := EvaluateEvent(dinner, nil, recents, now, testLoc)
	assert.Len(t, drafts, 1)
	assert.Equal(t, internal.InsightLateDinner, drafts[0].Type)
	assert.Equal(t, MsgLateDinner, drafts[0].Message)

	// Gap exactly 120 minutes: does not fire
	dinner = eventAt(internal.EventMeal, time.Date(2025, 1, 5, 21, 0, 0, 0, testLoc), meta)
	assert.Empty(t, EvaluateEvent(dinner, nil, recents, now, testLoc))
}

func TestLateDinnerFractionalAverage(t *testing.T) {
	now := time.Date(2025, 1, 5, 21, 30, 0, 0, testLoc)
	// Mean of 23:00, 23:10, 22:48 is minute 1379.33 past midnight
	recents := sleepStartsAt("23:00", "23:10", "22:48")

	// Dinner at 21:00 = minute 1260; gap 119.33 < 120: fires
	dinner := eventAt(internal.EventMeal, time.Date(2025, 1, 5, 21, 0, 0, 0, testLoc), internal.EventMetadata{MealType: internal.MealDinner})
	drafts := EvaluateEvent(dinner, nil, recents, now, testLoc)
	assert.Len(t, drafts, 1)
	assert.Equal(t, internal.InsightLateDinner, drafts[0].Type)
}

func TestMorningLightBoundary(t *testing.T) {
	now := time.Date(2025, 1, 1, 11, 0, 0, 0, testLoc)
	meta := internal.EventMetadata{LightPhase: internal.LightMorning}

	for hour, fires := range map[int]bool{8: false, 9: true, 10: true} {
		ev := eventAt(internal.EventLightExposure, time.Date(2025, 1, 1, hour, 30, 0, 0, testLoc), meta)
		drafts := EvaluateEvent(ev, nil, nil, now, testLoc)
		if fires {
			assert.Len(t, drafts, 1, "hour %d should fire", hour)
			assert.Equal(t, internal.InsightLateMorningLight, drafts[0].Type)
			assert.Equal(t, MsgLateMorningLight, drafts[0].Message)
		} else {
			assert.Empty(t, drafts, "hour %d should not fire", hour)
		}
	}
}

func TestEveningLightBoundary(t *testing.T) {
	now := time.Date(2025, 1, 1, 21, 0, 0, 0, testLoc)
	meta := internal.EventMetadata{LightPhase: internal.LightEvening}

	ev := eventAt(internal.EventLightExposure, time.Date(2025, 1, 1, 19, 59, 0, 0, testLoc), meta)
	assert.Empty(t, EvaluateEvent(ev, nil, nil, now, testLoc))

	ev = eventAt(internal.EventLightExposure, time.Date(2025, 1, 1, 20, 0, 0, 0, testLoc), meta)
	drafts := EvaluateEvent(ev, nil, nil, now, testLoc)
	assert.Len(t, drafts, 1)
	assert.Equal(t, internal.InsightLateEveningLight, drafts[0].Type)
	assert.Equal(t, MsgLateEveningLight, drafts[0].Message)
}

func TestNoRuleEventTypes(t *testing.T) {
	now := time.Date(2025, 1, 1, 22, 0, 0, 0, testLoc)
	recents := sleepStartsAt("23:00", "23:10")
	for _, eventType := range []internal.EventType{
		internal.EventFastEnd,
		internal.EventSleepStart,
		internal.EventSleepEnd,
		internal.EventActivity,
	} {
		ev := eventAt(eventType, now, internal.EventMetadata{})
		assert.Empty(t, EvaluateEvent(ev, nil, recents, now, testLoc), "%s should never fire", eventType)
	}
}

func TestUnrecognizedMetadata(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, testLoc)

	// Meal without meal_type
	ev := eventAt(internal.EventMeal, now, internal.EventMetadata{})
	assert.Empty(t, EvaluateEvent(ev, nil, nil, now, testLoc))

	// Lunch and snack have no rules
	ev = eventAt(internal.EventMeal, now, internal.EventMetadata{MealType: internal.MealLunch})
	assert.Empty(t, EvaluateEvent(ev, nil, nil, now, testLoc))
	ev = eventAt(internal.EventMeal, now, internal.EventMetadata{MealType: internal.MealSnack})
	assert.Empty(t, EvaluateEvent(ev, nil, nil, now, testLoc))

	// Light exposure without phase
	ev = eventAt(internal.EventLightExposure, now, internal.EventMetadata{})
	assert.Empty(t, EvaluateEvent(ev, nil, nil, now, testLoc))

	// Unknown event type
	ev = eventAt(internal.EventType("hydration"), now, internal.EventMetadata{})
	assert.Empty(t, EvaluateEvent(ev, nil, nil, now, testLoc))
}
