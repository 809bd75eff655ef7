package storage

import (
	"context"
	"time"

	"github.com/yourname/bioclock/internal"
)

type EventRepository interface {
	AppendEvent(ctx context.Context, event *internal.CircadianEvent) error
	ListEventsForDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) ([]internal.CircadianEvent, error)
	ListRecentSleepStarts(ctx context.Context, userID string, limit int) ([]internal.CircadianEvent, error)
}

type InsightRepository interface {
	AppendInsight(ctx context.Context, insight *internal.CircadianInsight) error
	ListInsights(ctx context.Context, userID string, unreadOnly bool) ([]internal.CircadianInsight, error)
	MarkInsightRead(ctx context.Context, insightID string) error
}

type UserRepository interface {
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
}
