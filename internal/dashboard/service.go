package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/tonzxz/ipophil-dms-sub000/internal/cache"
	"github.com/tonzxz/ipophil-dms-sub000/internal/document"
	"github.com/tonzxz/ipophil-dms-sub000/internal/errors"
)

// trendDays is the width of the rolling trend window, today included.
const trendDays = 5

// BucketStat is one dashboard card: the current month's count, the prior
// month's, and the percentage delta between them.
type BucketStat struct {
	Count         int64   `json:"count"`
	Prior         int64   `json:"prior"`
	PercentChange float64 `json:"percent_change"`
}

type TrendPoint struct {
	Date   string                        `json:"date"`
	Counts map[document.ViewStatus]int64 `json:"counts"`
}

type Stats struct {
	Buckets map[document.ViewStatus]BucketStat `json:"buckets"`
	Trend   []TrendPoint                       `json:"trend"`
}

type Service interface {
	Stats(ctx context.Context, actor document.Actor, now time.Time) (*Stats, error)
}

// DefaultService aggregates dashboard numbers solely through the view
// status projector, so cards, badges and charts can never disagree about
// what bucket a document is in.
type DefaultService struct {
	documents document.Repository
	cache     *cache.Cache
}

func NewService(documents document.Repository, c *cache.Cache) Service {
	return &DefaultService{documents: documents, cache: c}
}

func (s *DefaultService) Stats(ctx context.Context, actor document.Actor, now time.Time) (*Stats, error) {
	versionKey := fmt.Sprintf("agency:%d:docs:version", actor.AgencyID)
	v := s.cache.GetVersion(ctx, versionKey)

	day := now.UTC().Format("2006-01-02")
	cacheKey := fmt.Sprintf("dash:a:%d:v:%d:d:%s", actor.AgencyID, v, day)

	var cached Stats
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return &cached, nil
	}

	currentStart := monthStart(now)
	priorStart := monthStart(currentStart.AddDate(0, 0, -1))
	nextStart := currentStart.AddDate(0, 1, 0)

	current, err := s.bucketCounts(ctx, actor.AgencyID, currentStart, nextStart)
	if err != nil {
		return nil, err
	}
	prior, err := s.bucketCounts(ctx, actor.AgencyID, priorStart, currentStart)
	if err != nil {
		return nil, err
	}

	buckets := make(map[document.ViewStatus]BucketStat, len(allBuckets))
	for _, bucket := range allBuckets {
		buckets[bucket] = BucketStat{
			Count:         current[bucket],
			Prior:         prior[bucket],
			PercentChange: PercentChange(current[bucket], prior[bucket]),
		}
	}

	trend, err := s.trend(ctx, actor.AgencyID, now)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Buckets: buckets, Trend: trend}
	go s.cache.Set(context.Background(), cacheKey, stats, time.Hour)

	return stats, nil
}

var allBuckets = []document.ViewStatus{
	document.ViewStatusDispatch,
	document.ViewStatusIncoming,
	document.ViewStatusRecieved,
	document.ViewStatusOutgoing,
	document.ViewStatusCompleted,
}

func (s *DefaultService) bucketCounts(ctx context.Context, agencyID uint64, from, to time.Time) (map[document.ViewStatus]int64, error) {
	docs, err := s.documents.ListCreatedBetween(ctx, agencyID, from, to)
	if err != nil {
		return nil, errors.RemoteFailure("Document store request failed", err)
	}

	counts := make(map[document.ViewStatus]int64, len(allBuckets))
	for i := range docs {
		// A self-loop transit lands in both directions on purpose.
		for _, bucket := range document.ProjectViewStatus(&docs[i], agencyID) {
			counts[bucket]++
		}
	}
	return counts, nil
}

func (s *DefaultService) trend(ctx context.Context, agencyID uint64, now time.Time) ([]TrendPoint, error) {
	today := dayStart(now)
	windowStart := today.AddDate(0, 0, -(trendDays - 1))

	docs, err := s.documents.ListCreatedBetween(ctx, agencyID, windowStart, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, errors.RemoteFailure("Document store request failed", err)
	}

	byDay := make(map[string]map[document.ViewStatus]int64, trendDays)
	for i := range docs {
		day := dayStart(docs[i].CreatedAt).Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = make(map[document.ViewStatus]int64)
		}
		for _, bucket := range document.ProjectViewStatus(&docs[i], agencyID) {
			byDay[day][bucket]++
		}
	}

	points := make([]TrendPoint, 0, trendDays)
	for d := 0; d < trendDays; d++ {
		day := windowStart.AddDate(0, 0, d).Format("2006-01-02")
		counts := byDay[day]
		if counts == nil {
			counts = make(map[document.ViewStatus]int64)
		}
		points = append(points, TrendPoint{Date: day, Counts: counts})
	}
	return points, nil
}

// PercentChange is the dashboard delta rule: no movement when both periods
// are empty, a flat 100% when a prior empty period gains documents,
// otherwise the plain relative change.
func PercentChange(current, prior int64) float64 {
	if prior == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-prior) / float64(prior) * 100
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
