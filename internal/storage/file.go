package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/yourname/bioclock/internal"
)

type FileStorage struct {
	users             map[string]*internal.User               // token -> User
	events            map[string]*internal.CircadianEvent     // id -> event
	userEventIndex    map[string][]*internal.CircadianEvent   // userID -> events sorted descending by Timestamp
	insights          map[string]*internal.CircadianInsight   // id -> insight
	userInsightIndex  map[string][]*internal.CircadianInsight // userID -> insights sorted descending by CreatedAt
	mu                sync.RWMutex
	usersFile         string
	eventsFile        string
	insightsFile      string
	saveEventsChan    chan struct{}
	saveInsightsChan  chan struct{}
	shutdownChan      chan struct{}
	saveEventsDelay   time.Duration
	saveInsightsDelay time.Duration
	logger            internal.Logger
}

func NewFileStorage(usersFile, eventsFile, insightsFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		users:             make(map[string]*internal.User),
		events:            make(map[string]*internal.CircadianEvent),
		userEventIndex:    make(map[string][]*internal.CircadianEvent),
		insights:          make(map[string]*internal.CircadianInsight),
		userInsightIndex:  make(map[string][]*internal.CircadianInsight),
		usersFile:         usersFile,
		eventsFile:        eventsFile,
		insightsFile:      insightsFile,
		saveEventsChan:    make(chan struct{}, 1),
		saveInsightsChan:  make(chan struct{}, 1),
		shutdownChan:      make(chan struct{}),
		saveEventsDelay:   500 * time.Millisecond,
		saveInsightsDelay: 500 * time.Millisecond,
		logger:            logger,
	}

	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := s.loadEvents(); err != nil {
		logger.Errorf("storage: failed to load events: %v", err)
		return nil, err
	}
	if err := s.loadInsights(); err != nil {
		logger.Errorf("storage: failed to load insights: %v", err)
		return nil, err
	}

	go s.saveEventsWorker()
	go s.saveInsightsWorker()

	return s, nil
}

func (s *FileStorage) loadUsers() error {
	file, err := os.Open(s.usersFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var users []*internal.User
	if err := json.NewDecoder(file).Decode(&users); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.Token] = u
	}
	return nil
}

func (s *FileStorage) loadEvents() error {
	file, err := os.Open(s.eventsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var events []*internal.CircadianEvent
	if err := json.NewDecoder(file).Decode(&events); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		s.events[e.ID] = e
		s.userEventIndex[e.UserID] = append(s.userEventIndex[e.UserID], e)
	}

	// Sort each user's events descending by Timestamp
	for userID := range s.userEventIndex {
		sort.Slice(s.userEventIndex[userID], func(i, j int) bool {
			return s.userEventIndex[userID][i].Timestamp.After(s.userEventIndex[userID][j].Timestamp)
		})
	}

	return nil
}

func (s *FileStorage) loadInsights() error {
	file, err := os.Open(s.insightsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var insights []*internal.CircadianInsight
	if err := json.NewDecoder(file).Decode(&insights); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range insights {
		s.insights[in.ID] = in
		s.userInsightIndex[in.UserID] = append(s.userInsightIndex[in.UserID], in)
	}

	for userID := range s.userInsightIndex {
		sort.Slice(s.userInsightIndex[userID], func(i, j int) bool {
			return s.userInsightIndex[userID][i].CreatedAt.After(s.userInsightIndex[userID][j].CreatedAt)
		})
	}

	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveEvents() error {
	s.mu.RLock()
	events := make([]*internal.CircadianEvent, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.eventsFile, events)
}

func (s *FileStorage) saveInsights() error {
	s.mu.RLock()
	insights := make([]*internal.CircadianInsight, 0, len(s.insights))
	for _, in := range s.insights {
		insights = append(insights, in)
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.insightsFile, insights)
}

func (s *FileStorage) saveEventsWorker() {
	timer := time.NewTimer(s.saveEventsDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveEventsChan:
			timer.Reset(s.saveEventsDelay)
		case <-timer.C:
			if err := s.saveEvents(); err != nil {
				s.logger.Errorf("storage: error saving events: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) saveInsightsWorker() {
	timer := time.NewTimer(s.saveInsightsDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveInsightsChan:
			timer.Reset(s.saveInsightsDelay)
		case <-timer.C:
			if err := s.saveInsights(); err != nil {
				s.logger.Errorf("storage: error saving insights: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) Close() error {
	close(s.shutdownChan)

	// Save pending data synchronously on shutdown
	if err := s.saveEvents(); err != nil {
		return err
	}
	if err := s.saveInsights(); err != nil {
		return err
	}
	return nil
}

// --- EventRepository ---
func (s *FileStorage) AppendEvent(ctx context.Context, event *internal.CircadianEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[event.ID] = event
	events := s.userEventIndex[event.UserID]
	inserted := false
	for i, existing := range events {
		if existing.Timestamp.Before(event.Timestamp) {
			events = append(events[:i], append([]*internal.CircadianEvent{event}, events[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		events = append(events, event)
	}
	s.userEventIndex[event.UserID] = events
	select {
	case s.saveEventsChan <- struct{}{}:
	default:
	}
	return nil
}

func (s *FileStorage) ListEventsForDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) ([]internal.CircadianEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events []internal.CircadianEvent
	for _, e := range s.userEventIndex[userID] {
		if e.Timestamp.Before(dayStart) || !e.Timestamp.Before(dayEnd) {
			continue
		}
		events = append(events, *e)
	}
	if events == nil {
		events = []internal.CircadianEvent{}
	}
	return events, nil
}

func (s *FileStorage) ListRecentSleepStarts(ctx context.Context, userID string, limit int) ([]internal.CircadianEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events []internal.CircadianEvent
	for _, e := range s.userEventIndex[userID] {
		if e.EventType != internal.EventSleepStart {
			continue
		}
		events = append(events, *e)
		if len(events) == limit {
			break
		}
	}
	if events == nil {
		events = []internal.CircadianEvent{}
	}
	return events, nil
}

// --- InsightRepository ---
func (s *FileStorage) AppendInsight(ctx context.Context, insight *internal.CircadianInsight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insights[insight.ID] = insight
	s.userInsightIndex[insight.UserID] = append([]*internal.CircadianInsight{insight}, s.userInsightIndex[insight.UserID]...)
	select {
	case s.saveInsightsChan <- struct{}{}:
	default:
	}
	return nil
}

func (s *FileStorage) ListInsights(ctx context.Context, userID string, unreadOnly bool) ([]internal.CircadianInsight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var insights []internal.CircadianInsight
	for _, in := range s.userInsightIndex[userID] {
		if unreadOnly && in.IsRead {
			continue
		}
		insights = append(insights, *in)
	}
	if insights == nil {
		insights = []internal.CircadianInsight{}
	}
	return insights, nil
}

// MarkInsightRead flips is_read once; already-read and unknown ids are no-ops.
func (s *FileStorage) MarkInsightRead(ctx context.Context, insightID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.insights[insightID]
	if !ok || in.IsRead {
		return nil
	}
	in.IsRead = true
	select {
	case s.saveInsightsChan <- struct{}{}:
	default:
	}
	return nil
}

// --- UserRepository ---
func (s *FileStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[token]
	if !ok {
		return nil, errors.New("storage: user not found")
	}
	return u, nil
}

// --- Compile-time assertions ---
var _ EventRepository = (*FileStorage)(nil)
var _ InsightRepository = (*FileStorage)(nil)
var _ UserRepository = (*FileStorage)(nil)
