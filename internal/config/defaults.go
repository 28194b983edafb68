package config

import "github.com/KilimcininKorOglu/xenstore/internal/store"

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			MaxAbsPath:     store.DefaultMaxAbsPath,
			MaxRelPath:     store.DefaultMaxRelPath,
			MaxNodeSize:    store.DefaultMaxNodeSize,
			MaxDomainNodes: store.DefaultMaxDomainNodes,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "xenstore",
		},
		Shell: ShellConfig{
			Domain:      0,
			Prompt:      "xs> ",
			Compression: "zstd",
		},
	}
}
