package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourname/bioclock/internal"
	"github.com/yourname/bioclock/internal/storage"
)

var validate = validator.New()

type EventRequest struct {
	EventType string    `json:"event_type" validate:"required,oneof=fast_start fast_end meal light_exposure sleep_start sleep_end activity"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
	MealType  string    `json:"meal_type,omitempty" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Phase     string    `json:"phase,omitempty" validate:"omitempty,oneof=morning evening"`
}

func ValidateEventRequest(body *EventRequest) error {
	return validate.Struct(body)
}

// LogEvent persists the event, gathers the evaluator's inputs (the day's
// events and the recent sleep-start history), runs the rules, and persists
// whatever insights fire. Returns the stored event and the insights created.
func LogEvent(ctx context.Context, eventRepo storage.EventRepository, insightRepo storage.InsightRepository, user *internal.User, body *EventRequest, loc *time.Location) (*internal.CircadianEvent, []internal.CircadianInsight, error) {
	now := time.Now()
	event := &internal.CircadianEvent{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		EventType: internal.EventType(body.EventType),
		Timestamp: body.Timestamp,
		Metadata: internal.EventMetadata{
			MealType:   body.MealType,
			LightPhase: body.Phase,
		},
		CreatedAt: now,
	}
	if err := eventRepo.AppendEvent(ctx, event); err != nil {
		return nil, nil, err
	}

	dayStart, dayEnd := internal.DayRange(event.Timestamp, loc)
	todaysEvents, err := eventRepo.ListEventsForDay(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		return nil, nil, err
	}
	recentSleepStarts, err := eventRepo.ListRecentSleepStarts(ctx, user.ID, RecentSleepStartsLimit)
	if err != nil {
		return nil, nil, err
	}

	drafts := EvaluateEvent(event, todaysEvents, recentSleepStarts, now, loc)
	insights := make([]internal.CircadianInsight, 0, len(drafts))
	for _, d := range drafts {
		insight := internal.CircadianInsight{
			ID:           uuid.NewString(),
			UserID:       user.ID,
			InsightType:  d.Type,
			Message:      d.Message,
			ScheduledFor: d.ScheduledFor,
			IsRead:       false,
			CreatedAt:    now,
		}
		if err := insightRepo.AppendInsight(ctx, &insight); err != nil {
			return nil, nil, err
		}
		insights = append(insights, insight)
	}
	return event, insights, nil
}
