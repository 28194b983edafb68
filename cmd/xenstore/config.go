package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/KilimcininKorOglu/xenstore/internal/config"
)

// configCmd handles the config command.
func configCmd(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stdout)
		return 0
	}

	// Check for help flags
	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "validate":
		return configValidateCmd(args[1:])
	case "init":
		return configInitCmd(args[1:], os.Stdout)
	case "show":
		return configShowCmd(args[1:], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'xenstore config help' for usage.")
		return 1
	}
}

// configValidateCmd handles the config validate subcommand.
func configValidateCmd(args []string) int {
	fs := pflag.NewFlagSet("config validate", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {}

	configFile := fs.StringP("config", "c", "", "Path to configuration file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Println("Validate configuration file")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  xenstore config validate [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  -c, --config string")
			fmt.Println("        Path to configuration file (required)")
			return 0
		}
		return 1
	}

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --config is required")
		return 1
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	errs := config.ValidateConfig(cfg)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Configuration errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return 1
	}

	fmt.Println("Configuration is valid")
	return 0
}

// configInitCmd handles the config init subcommand.
func configInitCmd(args []string, out io.Writer) int {
	fs := pflag.NewFlagSet("config init", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Println("Generate default configuration")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  xenstore config init")
			fmt.Println()
			fmt.Println("Outputs default configuration to stdout in YAML format.")
			return 0
		}
		return 1
	}

	data, err := config.Marshal(config.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal config: %v\n", err)
		return 1
	}
	fmt.Fprint(out, "# xenstore configuration\n# Generated by: xenstore config init\n\n")
	out.Write(data)
	return 0
}

// configShowCmd handles the config show subcommand.
func configShowCmd(args []string, out io.Writer) int {
	fs := pflag.NewFlagSet("config show", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {}

	configFile := fs.StringP("config", "c", "", "Path to configuration file")
	format := fs.String("format", "yaml", "Output format (yaml, json)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Println("Show effective configuration")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  xenstore config show [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  -c, --config string")
			fmt.Println("        Path to configuration file")
			fmt.Println("      --format string")
			fmt.Println("        Output format: yaml, json (default \"yaml\")")
			return 0
		}
		return 1
	}

	cfg, err := loadEffectiveConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	switch strings.ToLower(*format) {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal config: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal config: %v\n", err)
			return 1
		}
		out.Write(data)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		return 1
	}

	return 0
}

// loadEffectiveConfig loads path, or the defaults when path is empty, and
// applies environment overrides.
func loadEffectiveConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern XENSTORE_<SECTION>_<KEY>.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("XENSTORE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("XENSTORE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("XENSTORE_LOGGING_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
	if v := os.Getenv("XENSTORE_STORE_SEED"); v != "" {
		cfg.Store.Seed = v
	}
}
