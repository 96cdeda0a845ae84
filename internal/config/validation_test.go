package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"Empty Scope Entry", func(c *Config) { c.Query.DefaultScopes = []string{"home", " "} }, "default_scopes"},
		{"Negative Default Max Results", func(c *Config) { c.Query.DefaultMaxResults = -1 }, "default_max_results"},
		{"Empty Mdfind Path", func(c *Config) { c.Engine.MdfindPath = "" }, "mdfind_path"},
		{"Empty Mdls Path", func(c *Config) { c.Engine.MdlsPath = "" }, "mdls_path"},
		{"Zero Max Results", func(c *Config) { c.Engine.MaxResults = 0 }, "engine.max_results"},
		{"Zero Batch Size", func(c *Config) { c.Engine.AttributeBatchSize = 0 }, "attribute_batch_size"},
		{"Zero Workers", func(c *Config) { c.Engine.AttributeWorkers = 0 }, "attribute_workers"},
		{"Zero Output Size", func(c *Config) { c.Engine.MaxCommandOutputSize = 0 }, "max_command_output_size"},
		{"Zero Graceful Shutdown", func(c *Config) { c.Engine.GracefulShutdownMs = 0 }, "graceful_shutdown_ms"},
		{"Unknown Log Level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"Unknown Log Format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"Zero Visible Items", func(c *Config) { c.UI.MaxVisibleItems = 0 }, "max_visible_items"},
		{"Zero Events", func(c *Config) { c.UI.MaxEvents = 0 }, "max_events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestValidate_DefaultExceedsMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.MaxResults = 100
	cfg.Query.DefaultMaxResults = 101

	err := cfg.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "default_max_results must be <= engine.max_results")
}

func TestValidate_LogLevelCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "DEBUG"
	cfg.Log.Format = "JSON"

	assert.NoError(t, cfg.Validate())
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.AttributeWorkers = 0
	cfg.UI.MaxEvents = 0

	err := cfg.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "attribute_workers")
	assert.Contains(t, err.Error(), "max_events")
}
