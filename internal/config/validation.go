package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validLogFormats = map[string]bool{"text": true, "json": true}

// Validate checks config values for life correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Query validation
	for _, scope := range c.Query.DefaultScopes {
		if strings.TrimSpace(scope) == "" {
			errs = append(errs, "query.default_scopes must not contain empty entries")
			break
		}
	}
	if c.Query.DefaultMaxResults < 0 {
		errs = append(errs, "query.default_max_results must be >= 0")
	}

	// Engine validation
	if c.Engine.MdfindPath == "" {
		errs = append(errs, "engine.mdfind_path must not be empty")
	}
	if c.Engine.MdlsPath == "" {
		errs = append(errs, "engine.mdls_path must not be empty")
	}
	if c.Engine.MaxResults < 1 {
		errs = append(errs, "engine.max_results must be >= 1")
	}
	if c.Engine.AttributeBatchSize < 1 {
		errs = append(errs, "engine.attribute_batch_size must be >= 1")
	}
	if c.Engine.AttributeWorkers < 1 {
		errs = append(errs, "engine.attribute_workers must be >= 1")
	}
	if c.Engine.MaxCommandOutputSize < 1 {
		errs = append(errs, "engine.max_command_output_size must be >= 1")
	}
	if c.Engine.GracefulShutdownMs < 1 {
		errs = append(errs, "engine.graceful_shutdown_ms must be >= 1")
	}

	// Semantic validation: Default <= Max constraints
	if c.Query.DefaultMaxResults > c.Engine.MaxResults {
		errs = append(errs, "query.default_max_results must be <= engine.max_results")
	}

	// Log validation
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, "log.level must be one of debug, info, warn, error")
	}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, "log.format must be text or json")
	}

	// UI validation
	if c.UI.MaxVisibleItems < 1 {
		errs = append(errs, "ui.max_visible_items must be >= 1")
	}
	if c.UI.MaxEvents < 1 {
		errs = append(errs, "ui.max_events must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
