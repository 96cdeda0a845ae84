package config

import "github.com/Cyclone1070/mdq/internal/mdquery"

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Query  QueryConfig  `json:"query"`
	Engine EngineConfig `json:"engine"`
	Log    LogConfig    `json:"log"`
	UI     UIConfig     `json:"ui"`
}

type QueryConfig struct {
	DefaultScopes     []string `json:"default_scopes"`      // Default: ["home"]
	DefaultMaxResults int      `json:"default_max_results"` // Default: 0 (no limit)
	ExcludePatterns   []string `json:"exclude_patterns"`    // gitignore syntax, matched against result paths
}

type EngineConfig struct {
	MdfindPath string `json:"mdfind_path"` // Default: "mdfind"
	MdlsPath   string `json:"mdls_path"`   // Default: "mdls"

	// Hard cap on results read from mdfind when the query itself is unbounded
	MaxResults int `json:"max_results"` // Default: 50000

	// Attribute resolution
	AttributeBatchSize int `json:"attribute_batch_size"` // Default: 64
	AttributeWorkers   int `json:"attribute_workers"`    // Default: 4

	// Command Execution
	MaxCommandOutputSize int64 `json:"max_command_output_size"` // Default: 10 * 1024 * 1024 (10MB)
	GracefulShutdownMs   int   `json:"graceful_shutdown_ms"`    // Default: 2000
}

type LogConfig struct {
	Level  string `json:"level"`  // Default: "warn"
	Format string `json:"format"` // Default: "text"
}

type UIConfig struct {
	MaxVisibleItems int    `json:"max_visible_items"` // Default: 20
	MaxEvents       int    `json:"max_events"`        // Default: 8
	ColorPrimary    string `json:"color_primary"`     // Default: "63"
	ColorAdd        string `json:"color_add"`         // Default: "42"
	ColorChange     string `json:"color_change"`      // Default: "214"
	ColorRemove     string `json:"color_remove"`      // Default: "196"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Query: QueryConfig{
			DefaultScopes:     []string{"home"},
			DefaultMaxResults: mdquery.ResultCountNoLimit,
			ExcludePatterns:   []string{},
		},
		Engine: EngineConfig{
			MdfindPath:           "mdfind",
			MdlsPath:             "mdls",
			MaxResults:           50000,
			AttributeBatchSize:   64,
			AttributeWorkers:     4,
			MaxCommandOutputSize: 10 * 1024 * 1024,
			GracefulShutdownMs:   2000,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		UI: UIConfig{
			MaxVisibleItems: 20,
			MaxEvents:       8,
			ColorPrimary:    "63",
			ColorAdd:        "42",
			ColorChange:     "214",
			ColorRemove:     "196",
		},
	}
}
