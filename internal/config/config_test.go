package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// Parsing
// =============================================================================

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig(nil): %v", err)
	}
	if cfg.Store.MaxNodeSize != 2048 || cfg.Store.MaxDomainNodes != 1000 {
		t.Errorf("expected default limits, got %+v", cfg.Store)
	}
	if cfg.Shell.Prompt != "xs> " {
		t.Errorf("expected default prompt, got %q", cfg.Shell.Prompt)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	data := []byte(`
store:
  maxNodeSize: 4096
  maxDomainNodes: 50
logging:
  level: debug
  format: json
shell:
  domain: 7
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Store.MaxNodeSize != 4096 {
		t.Errorf("MaxNodeSize = %d, want 4096", cfg.Store.MaxNodeSize)
	}
	if cfg.Store.MaxDomainNodes != 50 {
		t.Errorf("MaxDomainNodes = %d, want 50", cfg.Store.MaxDomainNodes)
	}
	if cfg.Store.MaxAbsPath != 3072 {
		t.Errorf("MaxAbsPath should keep its default, got %d", cfg.Store.MaxAbsPath)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Shell.Domain != 7 {
		t.Errorf("Domain = %d, want 7", cfg.Shell.Domain)
	}

	limits := cfg.Store.Limits()
	if limits.MaxNodeSize != 4096 || limits.MaxDomainNodes != 50 {
		t.Errorf("Limits() = %+v", limits)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "store:\n  maxNodes: 5\n"},
		{"wrong type", "store:\n  maxNodeSize: lots\n"},
		{"broken yaml", "store: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, ErrInvalidYAML) {
				t.Errorf("expected ErrInvalidYAML, got %v", err)
			}
		})
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("XS_TEST_LEVEL", "warn")
	t.Setenv("XS_TEST_EMPTY", "")

	tests := []struct {
		input    string
		expected string
	}{
		{"level: ${XS_TEST_LEVEL}", "level: warn"},
		{"level: ${XS_TEST_UNSET:-error}", "level: error"},
		{"level: ${XS_TEST_EMPTY:-info}", "level: info"},
		{"level: ${XS_TEST_LEVEL:-info}", "level: warn"},
		{"level: ${XS_TEST_UNSET}", "level: "},
		{"no variables", "no variables"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := string(substituteEnvVars([]byte(tt.input)))
			if got != tt.expected {
				t.Errorf("substituteEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XS_TEST_FORMAT", "json")
	path := filepath.Join(t.TempDir(), "xenstore.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  format: ${XS_TEST_FORMAT}\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "maxDomainNodes: 1000") {
		t.Errorf("expected camelCase keys in output, got:\n%s", data)
	}
	if _, err := ParseConfig(data); err != nil {
		t.Errorf("marshalled defaults do not parse: %v", err)
	}
}

// =============================================================================
// Validation
// =============================================================================

func TestValidateDefaultConfig(t *testing.T) {
	if errs := ValidateConfig(DefaultConfig()); len(errs) != 0 {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero abs path", func(c *Config) { c.Store.MaxAbsPath = 0 }, "store.maxAbsPath"},
		{"rel above abs", func(c *Config) { c.Store.MaxRelPath = 4096 }, "store.maxRelPath"},
		{"zero node size", func(c *Config) { c.Store.MaxNodeSize = 0 }, "store.maxNodeSize"},
		{"zero node cap", func(c *Config) { c.Store.MaxDomainNodes = 0 }, "store.maxDomainNodes"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad compression", func(c *Config) { c.Shell.Compression = "gzip" }, "shell.compression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			errs := ValidateConfig(cfg)
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			var verr ValidationError
			if !errors.As(errs[0], &verr) {
				t.Fatalf("expected ValidationError, got %T", errs[0])
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}
