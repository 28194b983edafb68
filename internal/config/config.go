package config

import "github.com/KilimcininKorOglu/xenstore/internal/store"

// Config holds the complete daemon configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LogConfig     `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Shell   ShellConfig   `yaml:"shell"`
}

// StoreConfig holds the store limits.
type StoreConfig struct {
	MaxAbsPath     int  `yaml:"maxAbsPath"`
	MaxRelPath     int  `yaml:"maxRelPath"`
	MaxNodeSize    int  `yaml:"maxNodeSize"`
	MaxDomainNodes uint `yaml:"maxDomainNodes"`
	// Seed is a dump file imported into the store at startup.
	Seed string `yaml:"seed"`
}

// Limits converts the store section to store.Limits.
func (c StoreConfig) Limits() store.Limits {
	return store.Limits{
		MaxAbsPath:     c.MaxAbsPath,
		MaxRelPath:     c.MaxRelPath,
		MaxNodeSize:    c.MaxNodeSize,
		MaxDomainNodes: c.MaxDomainNodes,
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// ShellConfig holds defaults for the request shell.
type ShellConfig struct {
	// Domain is the caller domain requests run as until changed.
	Domain uint32 `yaml:"domain"`
	// Prompt is printed before each request on an interactive terminal.
	Prompt string `yaml:"prompt"`
	// Compression is the default for export: none, lz4 or zstd.
	Compression string `yaml:"compression"`
}
