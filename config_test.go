package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 10, cfg.Match.TopN)
	assert.Equal(t, time.Minute, cfg.Match.CacheTTL)
	assert.Empty(t, cfg.Redis.Addr, "cache is off by default")
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9090"
match:
  top_n: 5
  weights:
    budget: 30
    location: 15
    cleanliness: 15
    schedule: 10
    smoking: 10
    pets: 10
    diet: 5
    hobbies: 5
    desired_traits: 0
`), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.Match.TopN)

	w, err := cfg.matchWeights()
	require.NoError(t, err)
	assert.Equal(t, 30, w[match.DimBudget])
	assert.NoError(t, w.Validate())
}

func TestMatchWeightsRejectsBadTable(t *testing.T) {
	cfg := &Config{}
	cfg.Match.Weights = map[string]int{"budget": 95} // incomplete and wrong sum

	_, err := cfg.matchWeights()
	var cerr *match.ConfigurationError
	require.ErrorAs(t, err, &cerr)
}

func TestMatchWeightsEmptyMeansDefaults(t *testing.T) {
	cfg := &Config{}
	w, err := cfg.matchWeights()
	require.NoError(t, err)
	assert.Nil(t, w)
}
