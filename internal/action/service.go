package action

import (
	"context"
	"sync"
	"time"
)

type Service interface {
	ListActions(ctx context.Context) ([]DocumentAction, error)
	Name(id uint64) string
}

// Same TTL-cached catalog shape as the agency service.
type DefaultService struct {
	repository Repository

	mu        sync.RWMutex
	byID      map[uint64]string
	fetchedAt time.Time
	ttl       time.Duration
}

func NewService(repository Repository) Service {
	return &DefaultService{
		repository: repository,
		byID:       make(map[uint64]string),
		ttl:        5 * time.Minute,
	}
}

func (s *DefaultService) ListActions(ctx context.Context) ([]DocumentAction, error) {
	actions, err := s.repository.List(ctx)
	if err == nil {
		s.refresh(actions)
	}
	return actions, err
}

func (s *DefaultService) Name(id uint64) string {
	s.mu.RLock()
	name, ok := s.byID[id]
	stale := time.Since(s.fetchedAt) > s.ttl
	s.mu.RUnlock()

	if ok && !stale {
		return name
	}

	actions, err := s.repository.List(context.Background())
	if err != nil {
		if ok {
			return name
		}
		return "None"
	}
	s.refresh(actions)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if name, ok := s.byID[id]; ok {
		return name
	}
	return "None"
}

func (s *DefaultService) refresh(actions []DocumentAction) {
	byID := make(map[uint64]string, len(actions))
	for _, a := range actions {
		byID[a.ID] = a.Name
	}

	s.mu.Lock()
	s.byID = byID
	s.fetchedAt = time.Now()
	s.mu.Unlock()
}
