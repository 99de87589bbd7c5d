package agency

import (
	"context"
	"sync"
	"time"
)

// Service serves the agency catalog with a small TTL cache; trail and
// notification rendering resolve ids through Name on every entry, so the
// hot path must not hit the database each time.
type Service interface {
	ListAgencies(ctx context.Context) ([]Agency, error)
	Name(id uint64) string
}

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

func (s *DefaultService) ListAgencies(ctx context.Context) ([]Agency, error) {
	agencies, err := s.repository.List(ctx)
	if err == nil {
		s.refresh(agencies)
	}
	return agencies, err
}

// Name resolves an agency id to its display name, "Unknown" when the id
// does not resolve.
func (s *DefaultService) Name(id uint64) string {
	s.mu.RLock()
	name, ok := s.byID[id]
	stale := time.Since(s.fetchedAt) > s.ttl
	s.mu.RUnlock()

	if ok && !stale {
		return name
	}

	agencies, err := s.repository.List(context.Background())
	if err != nil {
		if ok {
			return name
		}
		return "Unknown"
	}
	s.refresh(agencies)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if name, ok := s.byID[id]; ok {
		return name
	}
	return "Unknown"
}

func (s *DefaultService) refresh(agencies []Agency) {
	byID := make(map[uint64]string, len(agencies))
	for _, a := range agencies {
		byID[a.ID] = a.Name
	}

	s.mu.Lock()
	s.byID = byID
	s.fetchedAt = time.Now()
	s.mu.Unlock()
}
