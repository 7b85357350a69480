package contract

import (
	"testing"

	"github.com/bugtrail/bugtrail/schema"
	"github.com/stretchr/testify/assert"
)

// TestProcessAndValidateDefaults checks that empty input yields the stock tunables.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(cfg, &ConfigRawInput{})
	assert.NoError(t, err)

	assert.Equal(t, schema.DefaultMaxK, cfg.MaxK)
	assert.Equal(t, schema.DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, schema.DefaultTopK, cfg.TopK)
	assert.Equal(t, schema.DefaultConfidenceThreshold, cfg.ConfidenceThreshold)
	assert.Equal(t, schema.DefaultDecayFactor, cfg.DecayFactor)
	assert.Equal(t, schema.DefaultMinPatternFrequency, cfg.MinPatternFrequency)
	assert.Equal(t, schema.DefaultMinedSuccessRate, cfg.MinedSuccessRate)
	assert.Equal(t, DefaultCacheEntries, cfg.CacheEntries)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.True(t, cfg.UseEmojis)
	assert.True(t, cfg.UseColors)
}

// TestProcessAndValidateRejections covers invalid input handling.
func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name  string
		input ConfigRawInput
	}{
		{name: "max-k too deep", input: ConfigRawInput{MaxK: 11}},
		{name: "bad output mode", input: ConfigRawInput{OutputStr: "xml"}},
		{name: "bad backend", input: ConfigRawInput{StoreBackendStr: "oracle"}},
		{name: "threshold above one", input: ConfigRawInput{ConfidenceThreshold: 1.5}},
		{name: "negative decay", input: ConfigRawInput{DecayFactor: -0.5}},
		{name: "mined rate above one", input: ConfigRawInput{MinedSuccessRate: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProcessAndValidate(&Config{}, &tt.input)
			assert.Error(t, err)
		})
	}
}

// TestProcessAndValidateOverrides checks explicit values pass through.
func TestProcessAndValidateOverrides(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(cfg, &ConfigRawInput{
		MaxK:            7,
		TopK:            3,
		OutputStr:       "JSON",
		StoreBackendStr: "postgresql",
		StoreDBConnect:  "postgres://localhost/bugtrail",
		Color:           "no",
	})
	assert.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxK)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.PostgreSQLBackend, cfg.StoreBackend)
	assert.False(t, cfg.UseColors)
}

// TestGetPlainLabel validates similarity label thresholds.
func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, StrongValue, GetPlainLabel(0.95))
	assert.Equal(t, GoodValue, GetPlainLabel(0.85))
	assert.Equal(t, FairValue, GetPlainLabel(0.76))
	assert.Equal(t, MarginalValue, GetPlainLabel(0.71))
}

// TestTruncatePath validates ellipsis truncation behavior.
func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.go", TruncatePath("short.go", 20))
	assert.Equal(t, "...ler/request.go", TruncatePath("internal/api/handler/request.go", 17))
	// Width too small to truncate safely: passthrough.
	assert.Equal(t, "internal/api.go", TruncatePath("internal/api.go", 3))
}
