package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "empty store path",
			modify:    func(c *Config) { c.Store.Path = "  " },
			wantField: "store.path",
		},
		{
			name:      "unknown language",
			modify:    func(c *Config) { c.Runner.Language = "ruby" },
			wantField: "runner.language",
		},
		{
			name:      "negative timeout",
			modify:    func(c *Config) { c.Runner.TimeoutSeconds = -1 },
			wantField: "runner.timeout_seconds",
		},
		{
			name:      "negative alloc limit",
			modify:    func(c *Config) { c.Runner.MaxAllocs = -1 },
			wantField: "runner.max_allocs",
		},
		{
			name:      "negative output limit",
			modify:    func(c *Config) { c.Runner.MaxOutputChars = -5 },
			wantField: "runner.max_output_chars",
		},
		{
			name:      "bad log level",
			modify:    func(c *Config) { c.Logging.Level = "chatty" },
			wantField: "logging.level",
		},
		{
			name:      "zero log size",
			modify:    func(c *Config) { c.Logging.MaxSizeMB = 0 },
			wantField: "logging.max_size_mb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if assert.Len(t, errs, 1) {
				assert.Equal(t, tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidate_LoggingDisabledSkipsChecks(t *testing.T) {
	cfg := Default()
	cfg.Logging.Enabled = false
	cfg.Logging.Level = "nonsense"

	assert.Empty(t, cfg.Validate())
}

func TestValidate_LanguageCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.Runner.Language = "JavaScript"

	assert.Empty(t, cfg.Validate())
}

func TestValidate_LanguageAliases(t *testing.T) {
	for _, lang := range []string{"js", "python", "py", "star", "tengo"} {
		cfg := Default()
		cfg.Runner.Language = lang
		assert.Empty(t, cfg.Validate(), lang)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	single := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
	assert.Equal(t, "a: bad (got: 1)", single.Error())

	multi := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}
	msg := multi.Error()
	assert.True(t, strings.HasPrefix(msg, "2 validation errors:"))
	assert.Contains(t, msg, "2. b: worse (got: 2)")

	assert.Empty(t, ValidationErrors{}.Error())
}
