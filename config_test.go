package settingsflow_test

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/settingsflow"
	"github.com/viant/settingsflow/messaging"
)

//go:embed testdata/*
var embedFS embed.FS

func TestLoadConfig(t *testing.T) {
	t.Setenv("SETTINGSFLOW_TEST_TOKEN", "secret")

	cfg, err := settingsflow.LoadConfig(context.Background(), "embed:///testdata/config.yaml", &embedFS)
	require.NoError(t, err)

	assert.Equal(t, "https://courses.example.com", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.AuthToken)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "jdoe", cfg.User.Username)
	assert.Equal(t, []string{"enterprise_learner"}, cfg.User.Roles)
	assert.Equal(t, 250*time.Millisecond, cfg.Flow.CloseFormDelay)
	assert.Equal(t, messaging.VendorMemory, cfg.Queue.Vendor)
	assert.Equal(t, 10, cfg.Queue.Buffer)
	assert.Equal(t, "console", cfg.Log.Format)
	// untouched sections keep their defaults
	assert.Equal(t, int64(250), cfg.Cache.MaxCountries)
	assert.Equal(t, "en", cfg.User.Locale)
	assert.Equal(t, 50*time.Millisecond, cfg.Coordinator.PollInterval)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SETTINGSFLOW_USER_USERNAME", "asmith")
	t.Setenv("SETTINGSFLOW_USER_ROLES", "staff,enterprise_learner")
	t.Setenv("SETTINGSFLOW_FLOW_CLOSE_FORM_DELAY", "2s")
	t.Setenv("SETTINGSFLOW_QUEUE_BUFFER", "7")
	t.Setenv("SETTINGSFLOW_CACHE_MAX_COUNTRIES", "20")
	t.Setenv("SETTINGSFLOW_CACHE_TTL", "5m")
	t.Setenv("SETTINGSFLOW_TRACING_ENABLED", "true")
	t.Setenv("SETTINGSFLOW_TRACING_SERVICE_NAME", "settings-cli")
	t.Setenv("SETTINGSFLOW_COORDINATOR_FAIL_FAST", "true")
	t.Setenv("SETTINGSFLOW_COORDINATOR_POLL_INTERVAL", "10ms")

	cfg, err := settingsflow.LoadConfig(context.Background(), "embed:///testdata/config.yaml", &embedFS)
	require.NoError(t, err)
	assert.Equal(t, "asmith", cfg.User.Username)
	assert.Equal(t, []string{"staff", "enterprise_learner"}, cfg.User.Roles)
	assert.Equal(t, 2*time.Second, cfg.Flow.CloseFormDelay)
	assert.Equal(t, "https://courses.example.com", cfg.API.BaseURL)
	assert.Equal(t, 7, cfg.Queue.Buffer)
	assert.EqualValues(t, 20, cfg.Cache.MaxCountries)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "settings-cli", cfg.Tracing.ServiceName)
	assert.True(t, cfg.Coordinator.FailFast)
	assert.Equal(t, 10*time.Millisecond, cfg.Coordinator.PollInterval)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name         string
		URL          string
		expectSubstr []string
	}{
		{name: "missing", URL: "embed:///testdata/missing.yaml", expectSubstr: []string{"failed to load config"}},
		{name: "invalid", URL: "embed:///testdata/invalid.yaml", expectSubstr: []string{
			"api.baseURL is required",
			"user.username is required",
			`queue.vendor "kafka" is not supported`,
			`log.format "xml" is not supported`,
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := settingsflow.LoadConfig(context.Background(), tc.URL, &embedFS)
			require.Error(t, err)
			for _, substr := range tc.expectSubstr {
				assert.Contains(t, err.Error(), substr)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *settingsflow.Config)
		expectErr string
	}{
		{name: "valid", mutate: func(cfg *settingsflow.Config) {}},
		{name: "negative delay", mutate: func(cfg *settingsflow.Config) { cfg.Flow.CloseFormDelay = -time.Second }, expectErr: "flow.closeFormDelay"},
		{name: "fs without base url", mutate: func(cfg *settingsflow.Config) { cfg.Queue.Vendor = messaging.VendorFs }, expectErr: "queue.baseURL"},
		{name: "zero buffer", mutate: func(cfg *settingsflow.Config) { cfg.Queue.Buffer = 0 }, expectErr: "queue.buffer"},
		{name: "zero poll interval", mutate: func(cfg *settingsflow.Config) { cfg.Coordinator.PollInterval = 0 }, expectErr: "coordinator.pollInterval"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := settingsflow.DefaultConfig()
			cfg.API.BaseURL = "http://localhost"
			cfg.User.Username = "jdoe"
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}
