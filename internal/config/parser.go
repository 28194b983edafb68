package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser errors.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalidYAML  = errors.New("invalid YAML configuration")
)

// envPattern matches ${VAR} and ${VAR:-default}.
var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadConfig reads, substitutes and parses the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data on top of DefaultConfig.
// Environment references are substituted first; unknown keys are errors.
func ParseConfig(data []byte) (*Config, error) {
	data = substituteEnvVars(data)

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// substituteEnvVars replaces ${VAR} with the variable's value and
// ${VAR:-default} with the value, or default when the variable is unset or
// empty.
func substituteEnvVars(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		content := string(match[2 : len(match)-1])
		if name, fallback, ok := strings.Cut(content, ":-"); ok {
			if val := os.Getenv(name); val != "" {
				return []byte(val)
			}
			return []byte(fallback)
		}
		return []byte(os.Getenv(content))
	})
}
