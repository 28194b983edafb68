package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/KilimcininKorOglu/xenstore/internal/config"
	"github.com/KilimcininKorOglu/xenstore/internal/dump"
	"github.com/KilimcininKorOglu/xenstore/internal/logging"
	"github.com/KilimcininKorOglu/xenstore/internal/metrics"
	"github.com/KilimcininKorOglu/xenstore/internal/shell"
	"github.com/KilimcininKorOglu/xenstore/internal/store"
)

// shellCmd handles the shell command.
func shellCmd(args []string) int {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	return runShell(args, os.Stdin, os.Stdout, interactive)
}

// runShell parses the shell flags, builds the store and serves requests
// from in. With interactive set and no script, a prompt is written before
// each request and failed requests do not affect the exit code.
func runShell(args []string, in io.Reader, out io.Writer, interactive bool) int {
	fs := pflag.NewFlagSet("shell", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {}

	configFile := fs.StringP("config", "c", "", "Path to configuration file")
	domain := fs.Uint32("domain", 0, "Caller domain")
	seed := fs.String("seed", "", "Dump file to import at startup")
	script := fs.String("script", "", "Read requests from this file")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printShellUsage(os.Stdout)
			return 0
		}
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected argument: %s\n", fs.Arg(0))
		return 1
	}

	cfg, err := loadEffectiveConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if fs.Changed("domain") {
		cfg.Shell.Domain = *domain
	}
	if *seed != "" {
		cfg.Store.Seed = *seed
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Configuration errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return 1
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	st, m, err := buildStore(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		return 1
	}

	compression, _ := dump.ParseCompressionTag(cfg.Shell.Compression)
	sh := shell.New(st, shell.Options{
		Domain:      cfg.Shell.Domain,
		Compression: compression,
		Logger:      logger,
		Metrics:     m,
	})

	prompt := ""
	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open script: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
		interactive = false
	} else if interactive {
		prompt = cfg.Shell.Prompt
	}

	stats := st.Stats()
	logger.Info("store ready", "nodes", stats.Nodes, "domain", cfg.Shell.Domain, "seed", cfg.Store.Seed)

	failed, err := sh.Run(in, out, prompt)
	if err != nil {
		logger.Error("request input failed", "error", err)
		return 1
	}
	if failed > 0 && !interactive {
		return 1
	}
	return 0
}

// buildStore creates the store described by cfg and imports its seed dump.
// The metrics are nil when disabled.
func buildStore(cfg *config.Config, logger logging.Logger) (*store.Store, *metrics.Metrics, error) {
	opts := store.Options{
		Limits: cfg.Store.Limits(),
		Logger: logger,
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
		opts.Recorder = m
	}

	st := store.New(opts)
	if cfg.Store.Seed == "" {
		return st, m, nil
	}

	img, err := dump.ReadFile(cfg.Store.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("read seed %s: %w", cfg.Store.Seed, err)
	}
	if err := img.Verify(); err != nil {
		return nil, nil, fmt.Errorf("verify seed %s: %w", cfg.Store.Seed, err)
	}
	if img.Path != "/" {
		return nil, nil, fmt.Errorf("seed %s holds the subtree %s, not a whole tree", cfg.Store.Seed, img.Path)
	}
	if err := st.Import(0, img.Root); err != nil {
		return nil, nil, fmt.Errorf("import seed %s: %w", cfg.Store.Seed, err)
	}
	return st, m, nil
}
