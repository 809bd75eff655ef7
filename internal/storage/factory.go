package storage

import "github.com/yourname/bioclock/internal"

type Repositories struct {
	Events   EventRepository
	Insights InsightRepository
	Users    UserRepository
	Closer   interface{ Close() error }
}

func NewFileRepositories(usersFile, eventsFile, insightsFile string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewFileStorage(usersFile, eventsFile, insightsFile, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Events: storage, Insights: storage, Users: storage, Closer: storage}, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Events: storage, Insights: storage, Users: storage, Closer: storage}, nil
}
