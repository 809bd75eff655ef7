package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

type EventType string

const (
	EventFastStart     EventType = "fast_start"
	EventFastEnd       EventType = "fast_end"
	EventMeal          EventType = "meal"
	EventLightExposure EventType = "light_exposure"
	EventSleepStart    EventType = "sleep_start"
	EventSleepEnd      EventType = "sleep_end"
	EventActivity      EventType = "activity"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

const (
	LightMorning = "morning"
	LightEvening = "evening"
)

// EventMetadata holds the per-type fields: MealType for meal events,
// LightPhase for light_exposure events. Everything else stays empty.
type EventMetadata struct {
	MealType   string `json:"meal_type,omitempty"`
	LightPhase string `json:"phase,omitempty"`
}

type CircadianEvent struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	EventType EventType     `json:"event_type"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  EventMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type InsightType string

const (
	InsightLongFast         InsightType = "long_fast"
	InsightLateBreakfast    InsightType = "late_breakfast"
	InsightLateDinner       InsightType = "late_dinner"
	InsightLateMorningLight InsightType = "late_morning_light"
	InsightLateEveningLight InsightType = "late_evening_light"
)

type CircadianInsight struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	InsightType  InsightType `json:"insight_type"`
	Message      string      `json:"message"`
	ScheduledFor time.Time   `json:"scheduled_for"`
	IsRead       bool        `json:"is_read"`
	CreatedAt    time.Time   `json:"created_at"`
}
