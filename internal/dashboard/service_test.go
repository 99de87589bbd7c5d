package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/tonzxz/ipophil-dms-sub000/internal/cache"
	"github.com/tonzxz/ipophil-dms-sub000/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		prior   int64
		want    float64
	}{
		{"both empty", 0, 0, 0},
		{"growth from empty", 7, 0, 100},
		{"doubled", 10, 5, 100},
		{"halved", 5, 10, -50},
		{"dropped to zero", 0, 4, -100},
		{"unchanged", 6, 6, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, PercentChange(tc.current, tc.prior), 0.001)
		})
	}
}

// docRepo serves a fixed slice of documents regardless of the window so the
// test controls exactly what the aggregator sees per call.
type docRepo struct {
	document.Repository
	byWindow func(from, to time.Time) []document.Document
}

func (r docRepo) ListCreatedBetween(ctx context.Context, officeID uint64, from, to time.Time) ([]document.Document, error) {
	return r.byWindow(from, to), nil
}

func agencyRef(id uint64) *uint64 { return &id }

func TestStatsBuckets(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	monthAgo := time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC)

	held := document.Document{
		Status:            document.StatusDispatch,
		ReceivingOfficeID: 1,
		CreatedAt:         now.AddDate(0, 0, -2),
	}
	outgoing := document.Document{
		Status:       document.StatusIntransit,
		FromAgencyID: agencyRef(1),
		ToAgencyID:   agencyRef(2),
		CreatedAt:    now.AddDate(0, 0, -1),
	}
	priorCompleted := document.Document{
		Status:            document.StatusCompleted,
		ReceivingOfficeID: 1,
		CreatedAt:         monthAgo,
	}

	repo := docRepo{byWindow: func(from, to time.Time) []document.Document {
		var out []document.Document
		for _, doc := range []document.Document{held, outgoing, priorCompleted} {
			if !doc.CreatedAt.Before(from) && doc.CreatedAt.Before(to) {
				out = append(out, doc)
			}
		}
		return out
	}}

	svc := NewService(repo, &cache.Cache{})
	stats, err := svc.Stats(context.Background(), document.Actor{UserID: 10, AgencyID: 1}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Buckets[document.ViewStatusDispatch].Count)
	assert.Equal(t, int64(1), stats.Buckets[document.ViewStatusOutgoing].Count)
	assert.Equal(t, int64(0), stats.Buckets[document.ViewStatusCompleted].Count)
	assert.Equal(t, int64(1), stats.Buckets[document.ViewStatusCompleted].Prior)
	assert.InDelta(t, -100, stats.Buckets[document.ViewStatusCompleted].PercentChange, 0.001)
	assert.InDelta(t, 100, stats.Buckets[document.ViewStatusDispatch].PercentChange, 0.001)
}

func TestStatsSelfLoopCountsBothDirections(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	loop := document.Document{
		Status:       document.StatusIntransit,
		FromAgencyID: agencyRef(1),
		ToAgencyID:   agencyRef(1),
		CreatedAt:    now.AddDate(0, 0, -1),
	}

	repo := docRepo{byWindow: func(from, to time.Time) []document.Document {
		if !loop.CreatedAt.Before(from) && loop.CreatedAt.Before(to) {
			return []document.Document{loop}
		}
		return nil
	}}

	svc := NewService(repo, &cache.Cache{})
	stats, err := svc.Stats(context.Background(), document.Actor{AgencyID: 1}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Buckets[document.ViewStatusIncoming].Count)
	assert.Equal(t, int64(1), stats.Buckets[document.ViewStatusOutgoing].Count)
}

func TestStatsTrendWindow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	recent := document.Document{
		Status:            document.StatusDispatch,
		ReceivingOfficeID: 1,
		CreatedAt:         time.Date(2024, time.March, 13, 8, 0, 0, 0, time.UTC),
	}

	repo := docRepo{byWindow: func(from, to time.Time) []document.Document {
		if !recent.CreatedAt.Before(from) && recent.CreatedAt.Before(to) {
			return []document.Document{recent}
		}
		return nil
	}}

	svc := NewService(repo, &cache.Cache{})
	stats, err := svc.Stats(context.Background(), document.Actor{AgencyID: 1}, now)
	require.NoError(t, err)

	require.Len(t, stats.Trend, 5)
	assert.Equal(t, "2024-03-11", stats.Trend[0].Date)
	assert.Equal(t, "2024-03-15", stats.Trend[4].Date)

	var total int64
	for _, point := range stats.Trend {
		total += point.Counts[document.ViewStatusDispatch]
		if point.Date == "2024-03-13" {
			assert.Equal(t, int64(1), point.Counts[document.ViewStatusDispatch])
		}
	}
	assert.Equal(t, int64(1), total)
}
