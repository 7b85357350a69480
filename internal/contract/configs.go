package contract

import (
	"fmt"
	"strings"

	"github.com/bugtrail/bugtrail/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 2
	DefaultCacheEntries = 1024
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	CodebasePath string // JSON codebase snapshot to build the graph from
	Repository   string // Repository scope for pattern operations

	MaxK      int // Clamp for adaptive expansion depth
	MaxTokens int // Default context token budget
	TopK      int // Similar patterns returned

	ConfidenceThreshold float64 // Minimum similarity kept
	DecayFactor         float64 // Recency decay base per 30 days
	MinPatternFrequency int     // Batch-mining promotion threshold
	MinedSuccessRate    float64 // Assumed success rate for mined patterns
	CacheEntries        int     // LRU capacity for path/similarity caches

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// Clone returns a copy of the config for per-request overrides.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigRawInput holds the raw, unvalidated configuration from all sources
// (file, env, flags). Viper unmarshals into this struct.
type ConfigRawInput struct {
	CodebasePath string `mapstructure:"codebase"`
	Repository   string `mapstructure:"repository"`

	MaxK      int `mapstructure:"max-k"`
	MaxTokens int `mapstructure:"max-tokens"`
	TopK      int `mapstructure:"top-k"`

	ConfidenceThreshold float64 `mapstructure:"confidence-threshold"`
	DecayFactor         float64 `mapstructure:"decay-factor"`
	MinPatternFrequency int     `mapstructure:"min-pattern-frequency"`
	MinedSuccessRate    float64 `mapstructure:"mined-success-rate"`
	CacheEntries        int     `mapstructure:"cache-entries"`

	OutputStr  string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`

	StoreBackendStr string `mapstructure:"store-backend"`
	StoreDBConnect  string `mapstructure:"store-db-connect"`

	Emojis string `mapstructure:"emojis"`
	Color  string `mapstructure:"color"`
}

// ProcessAndValidate validates the raw input and populates the final config.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.CodebasePath = input.CodebasePath
	cfg.Repository = input.Repository

	cfg.MaxK = input.MaxK
	if cfg.MaxK <= 0 {
		cfg.MaxK = schema.DefaultMaxK
	}
	if cfg.MaxK > 10 {
		return fmt.Errorf("max-k cannot exceed 10 hops (got %d)", cfg.MaxK)
	}

	cfg.MaxTokens = input.MaxTokens
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = schema.DefaultMaxTokens
	}

	cfg.TopK = input.TopK
	if cfg.TopK <= 0 {
		cfg.TopK = schema.DefaultTopK
	}

	cfg.ConfidenceThreshold = input.ConfidenceThreshold
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = schema.DefaultConfidenceThreshold
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence-threshold must be within [0,1] (got %g)", cfg.ConfidenceThreshold)
	}

	cfg.DecayFactor = input.DecayFactor
	if cfg.DecayFactor == 0 {
		cfg.DecayFactor = schema.DefaultDecayFactor
	}
	if cfg.DecayFactor <= 0 || cfg.DecayFactor > 1 {
		return fmt.Errorf("decay-factor must be within (0,1] (got %g)", cfg.DecayFactor)
	}

	cfg.MinPatternFrequency = input.MinPatternFrequency
	if cfg.MinPatternFrequency <= 0 {
		cfg.MinPatternFrequency = schema.DefaultMinPatternFrequency
	}

	cfg.MinedSuccessRate = input.MinedSuccessRate
	if cfg.MinedSuccessRate == 0 {
		cfg.MinedSuccessRate = schema.DefaultMinedSuccessRate
	}
	if cfg.MinedSuccessRate < 0 || cfg.MinedSuccessRate > 1 {
		return fmt.Errorf("mined-success-rate must be within [0,1] (got %g)", cfg.MinedSuccessRate)
	}

	cfg.CacheEntries = input.CacheEntries
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = DefaultCacheEntries
	}

	output := schema.OutputMode(strings.ToLower(input.OutputStr))
	if output == "" {
		output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode %q. Must be text, json, csv, or parquet", input.OutputStr)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	cfg.Precision = input.Precision
	if cfg.Precision < 1 {
		cfg.Precision = DefaultPrecision
	}
	if cfg.Precision > 4 {
		cfg.Precision = 4
	}
	cfg.Width = input.Width

	backend := schema.DatabaseBackend(strings.ToLower(input.StoreBackendStr))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend %q. Must be sqlite, mysql, postgresql, or none", input.StoreBackendStr)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(backend, cfg.StoreDBConnect); err != nil {
		return err
	}

	cfg.UseEmojis = parseYesNo(input.Emojis, true)
	cfg.UseColors = parseYesNo(input.Color, true)

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "://") && !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must be a postgres:// URL or contain 'host=' parameter")
		}
	}
	return nil
}

// parseYesNo interprets yes/no style flags with a default for empty input.
func parseYesNo(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "on":
		return true
	case "no", "n", "false", "0", "off":
		return false
	default:
		return def
	}
}
