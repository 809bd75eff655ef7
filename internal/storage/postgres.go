package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/bioclock/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- EventRepository ---
func (p *PostgresStorage) AppendEvent(ctx context.Context, event *internal.CircadianEvent) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO circadian_events (id, user_id, event_type, ts, meal_type, light_phase, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.UserID, string(event.EventType), event.Timestamp, event.Metadata.MealType, event.Metadata.LightPhase, event.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert circadian event: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListEventsForDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) ([]internal.CircadianEvent, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, event_type, ts, meal_type, light_phase, created_at FROM circadian_events WHERE user_id = $1 AND ts >= $2 AND ts < $3 ORDER BY ts DESC`,
		userID, dayStart, dayEnd)
	if err != nil {
		p.logger.Errorf("failed to query circadian events: %v", err)
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows, p.logger)
}

func (p *PostgresStorage) ListRecentSleepStarts(ctx context.Context, userID string, limit int) ([]internal.CircadianEvent, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, event_type, ts, meal_type, light_phase, created_at FROM circadian_events WHERE user_id = $1 AND event_type = $2 ORDER BY ts DESC LIMIT $3`,
		userID, string(internal.EventSleepStart), limit)
	if err != nil {
		p.logger.Errorf("failed to query sleep starts: %v", err)
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows, p.logger)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
}

func scanEvents(rows pgxRows, logger internal.Logger) ([]internal.CircadianEvent, error) {
	events := []internal.CircadianEvent{}
	for rows.Next() {
		var e internal.CircadianEvent
		var eventType string
		err := rows.Scan(&e.ID, &e.UserID, &eventType, &e.Timestamp, &e.Metadata.MealType, &e.Metadata.LightPhase, &e.CreatedAt)
		if err != nil {
			logger.Errorf("failed to scan circadian event: %v", err)
			return nil, err
		}
		e.EventType = internal.EventType(eventType)
		events = append(events, e)
	}
	return events, nil
}

// --- InsightRepository ---
func (p *PostgresStorage) AppendInsight(ctx context.Context, insight *internal.CircadianInsight) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO circadian_insights (id, user_id, insight_type, message, scheduled_for, is_read, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		insight.ID, insight.UserID, string(insight.InsightType), insight.Message, insight.ScheduledFor, insight.IsRead, insight.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert insight: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListInsights(ctx context.Context, userID string, unreadOnly bool) ([]internal.CircadianInsight, error) {
	query := `SELECT id, user_id, insight_type, message, scheduled_for, is_read, created_at FROM circadian_insights WHERE user_id = $1 ORDER BY created_at DESC`
	if unreadOnly {
		query = `SELECT id, user_id, insight_type, message, scheduled_for, is_read, created_at FROM circadian_insights WHERE user_id = $1 AND is_read = FALSE ORDER BY created_at DESC`
	}
	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		p.logger.Errorf("failed to query insights: %v", err)
		return nil, err
	}
	defer rows.Close()

	insights := []internal.CircadianInsight{}
	for rows.Next() {
		var in internal.CircadianInsight
		var insightType string
		err := rows.Scan(&in.ID, &in.UserID, &insightType, &in.Message, &in.ScheduledFor, &in.IsRead, &in.CreatedAt)
		if err != nil {
			p.logger.Errorf("failed to scan insight: %v", err)
			return nil, err
		}
		in.InsightType = internal.InsightType(insightType)
		insights = append(insights, in)
	}
	return insights, nil
}

// MarkInsightRead is idempotent; a missing id updates zero rows and is not an error.
func (p *PostgresStorage) MarkInsightRead(ctx context.Context, insightID string) error {
	_, err := p.pool.Exec(ctx, `UPDATE circadian_insights SET is_read = TRUE WHERE id = $1`, insightID)
	if err != nil {
		p.logger.Errorf("failed to mark insight read: %v", err)
		return err
	}
	return nil
}

// --- UserRepository ---
func (p *PostgresStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, token, name FROM users WHERE token = $1`, token)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.Name); err != nil {
		p.logger.Errorf("user not found: %v", err)
		return nil, err
	}
	return &u, nil
}

// --- Compile-time assertions ---
var _ EventRepository = (*PostgresStorage)(nil)
var _ InsightRepository = (*PostgresStorage)(nil)
var _ UserRepository = (*PostgresStorage)(nil)
