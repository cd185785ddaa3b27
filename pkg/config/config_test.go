package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, ReassignPolicyStrict, cfg.Scheduling.ReassignPolicy)
	assert.Equal(t, 5*time.Minute, cfg.Workload.CacheTTL)
	assert.Equal(t, "0 2 * * *", cfg.Reconciler.Schedule)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("REASSIGN_POLICY", "LENIENT")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.edu, ,https://b.example.edu")
	t.Setenv("WORKLOAD_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ReassignPolicyLenient, cfg.Scheduling.ReassignPolicy)
	assert.Equal(t, []string{"https://a.example.edu", "https://b.example.edu"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Workload.CacheTTL)
}

func TestNormalizePolicy(t *testing.T) {
	assert.Equal(t, ReassignPolicyStrict, normalizePolicy(""))
	assert.Equal(t, ReassignPolicyStrict, normalizePolicy("unknown"))
	assert.Equal(t, ReassignPolicyLenient, normalizePolicy(" lenient "))
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
