// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/avisbase/internal/platform/config"
)

/*
TestLoad_Defaults verifies that a memory-backed configuration loads with defaults.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("COLLECTIONS_BACKEND", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 500, cfg.IndexPageSize)
	assert.Equal(t, time.Hour, cfg.IndexRebuildInterval)
	assert.True(t, cfg.IndexRequireReady)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_HTTPBackendRequiresURL checks the cross-field rule for the HTTP backend.
*/
func TestLoad_HTTPBackendRequiresURL(t *testing.T) {
	t.Setenv("COLLECTIONS_BACKEND", "http")
	t.Setenv("COLLECTIONS_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLLECTIONS_URL")
}

/*
TestLoad_UnknownBackend rejects a typo in the backend selector.
*/
func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("COLLECTIONS_BACKEND", "sqlite")

	_, err := config.Load()
	require.Error(t, err)
}

/*
TestLoad_Overrides verifies that durations and flags are parsed from the environment.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COLLECTIONS_BACKEND", "http")
	t.Setenv("COLLECTIONS_URL", "http://collections.local/api")
	t.Setenv("INDEX_REFRESH_INTERVAL", "250ms")
	t.Setenv("INDEX_REQUIRE_READY", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.IndexRefreshInterval)
	assert.False(t, cfg.IndexRequireReady)
	assert.Equal(t, "http://collections.local/api", cfg.CollectionsURL)
}

/*
TestLoad_ProductionRequiresDurableBackends rejects in-memory stores and id counters in production.
*/
func TestLoad_ProductionRequiresDurableBackends(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("COLLECTIONS_BACKEND", "memory")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLLECTIONS_BACKEND")

	t.Setenv("COLLECTIONS_BACKEND", "http")
	t.Setenv("COLLECTIONS_URL", "http://collections.local/api")
	t.Setenv("DATABASE_URL", "")
	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://avisbase@db.local/avisbase")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
