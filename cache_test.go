package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

func newTestCache(t *testing.T) (*matchCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return newMatchCache(rdb, time.Minute), mr
}

func sampleOutcome() *match.Outcome {
	return &match.Outcome{
		Results: []match.MatchResult{
			{
				CandidateID: "cand-1",
				Score:       87,
				Rank:        1,
				Breakdown: map[match.Dimension]match.DimensionScore{
					match.DimBudget:  {Score: 80, Applicable: true},
					match.DimHobbies: {Applicable: false},
				},
			},
		},
		Excluded: []match.Exclusion{
			{CandidateID: "cand-2", Reason: match.ExcludedNoDateOverlap},
		},
	}
}

func TestMatchCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	got, err := cache.get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got, "empty cache is a miss")

	want := sampleOutcome()
	require.NoError(t, cache.set(ctx, "user-1", want))

	got, err = cache.get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, got)
}

func TestMatchCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.set(ctx, "user-1", sampleOutcome()))
	require.NoError(t, cache.invalidate(ctx, "user-1"))

	got, err := cache.get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMatchCacheTTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.set(ctx, "user-1", sampleOutcome()))
	mr.FastForward(2 * time.Minute)

	got, err := cache.get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got, "entry must expire after the TTL")
}

func TestMatchCacheIsolatedPerUser(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.set(ctx, "user-1", sampleOutcome()))
	got, err := cache.get(ctx, "user-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}
