package clinic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RosterCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRosterCache(client, time.Minute), mr
}

func TestRosterCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	roster := []Doctor{{ID: 1, Name: "Dr. Smith", Specialty: strPtr("General Practice")}, {ID: 9, Name: "Dr. Who"}}
	require.NoError(t, cache.Set(ctx, roster))
	assert.Equal(t, time.Minute, mr.TTL(rosterKey))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, roster, got)

	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRosterCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []Doctor{{ID: 1, Name: "Dr. Smith"}}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNilRosterCacheIsNoop(t *testing.T) {
	var cache *RosterCache
	assert.Nil(t, NewRosterCache(nil, time.Minute))

	_, ok, err := cache.Get(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Set(context.Background(), nil))
	assert.NoError(t, cache.Invalidate(context.Background()))
}

type countingRepo struct {
	doctors     []Doctor
	doctorCalls int
	err         error
}

func (c *countingRepo) ListDoctors(context.Context) ([]Doctor, error) {
	c.doctorCalls++
	return c.doctors, c.err
}

func (c *countingRepo) ListPatients(context.Context) ([]Patient, error) {
	return []Patient{}, c.err
}

func TestDirectoryUsesCache(t *testing.T) {
	cache, _ := newTestCache(t)
	repo := &countingRepo{doctors: []Doctor{{ID: 1, Name: "Dr. Smith"}}}
	dir := NewDirectory(repo, cache, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		doctors, err := dir.ListDoctors(ctx)
		require.NoError(t, err)
		assert.Equal(t, repo.doctors, doctors)
	}
	assert.Equal(t, 1, repo.doctorCalls)
}

func TestDirectoryFallsBackWhenRedisDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()
	repo := &countingRepo{doctors: []Doctor{{ID: 1, Name: "Dr. Smith"}}}
	dir := NewDirectory(repo, cache, nil)

	doctors, err := dir.ListDoctors(context.Background())
	require.NoError(t, err)
	assert.Len(t, doctors, 1)
	assert.Equal(t, 1, repo.doctorCalls)
}

func TestDirectoryPropagatesRepoError(t *testing.T) {
	repo := &countingRepo{err: errors.New("boom")}
	dir := NewDirectory(repo, nil, nil)

	_, err := dir.ListDoctors(context.Background())
	assert.Error(t, err)
}
