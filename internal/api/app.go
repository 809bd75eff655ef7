package api

import (
	"time"

	"github.com/yourname/bioclock/internal"
	"github.com/yourname/bioclock/internal/storage"
)

type App interface {
	Logger() internal.Logger
	EventRepo() storage.EventRepository
	InsightRepo() storage.InsightRepository
	Location() *time.Location
}

type app struct {
	logger      internal.Logger
	eventRepo   storage.EventRepository
	insightRepo storage.InsightRepository
	loc         *time.Location
}

func NewApp(logger internal.Logger, eventRepo storage.EventRepository, insightRepo storage.InsightRepository, loc *time.Location) App {
	return &app{logger: logger, eventRepo: eventRepo, insightRepo: insightRepo, loc: loc}
}

func (a *app) Logger() internal.Logger                { return a.logger }
func (a *app) EventRepo() storage.EventRepository     { return a.eventRepo }
func (a *app) InsightRepo() storage.InsightRepository { return a.insightRepo }
func (a *app) Location() *time.Location               { return a.loc }
