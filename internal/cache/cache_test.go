package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr())
}

func TestGetMissesOnUnknownKey(t *testing.T) {
	c := newTestCache(t)

	var dest map[string]string
	found, err := c.Get(context.Background(), "nope", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetThenGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type row struct {
		Code  string `json:"code"`
		Count int64  `json:"count"`
	}

	c.Set(ctx, "docs:a:1", row{Code: "DOC-AB12CD34", Count: 3}, time.Minute)

	var got row
	found, err := c.Get(ctx, "docs:a:1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "DOC-AB12CD34", got.Code)
	assert.Equal(t, int64(3), got.Count)
}

func TestVersionCounter(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), c.GetVersion(ctx, "agency:1:docs:version"))

	c.IncrementVersion(ctx, "agency:1:docs:version")
	c.IncrementVersion(ctx, "agency:1:docs:version")

	assert.Equal(t, int64(2), c.GetVersion(ctx, "agency:1:docs:version"))
	assert.Equal(t, int64(0), c.GetVersion(ctx, "agency:2:docs:version"))
}

func TestNilClientIsNoOp(t *testing.T) {
	c := &Cache{}
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Minute)
	c.IncrementVersion(ctx, "k:version")

	var dest string
	found, err := c.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int64(0), c.GetVersion(ctx, "k:version"))
}
