package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage information to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `xenstore - copy-on-write XenStore node store

Usage:
  xenstore <command> [options]

Commands:
  shell       Run requests against an in-memory store
  inspect     Show the header and digest of a dump file
  config      Configuration management
  version     Show version information

Use "xenstore <command> -h" for more information about a command.
`)
}

// printShellUsage prints the shell command usage.
func printShellUsage(w io.Writer) {
	fmt.Fprint(w, `Run requests against an in-memory store

Requests are read one per line from standard input, or from --script.
A prompt is shown when standard input is a terminal.

Usage:
  xenstore shell [options]

Options:
  -c, --config string
        Path to configuration file
      --domain uint32
        Caller domain (overrides config)
      --seed string
        Dump file to import at startup (overrides config)
      --script string
        Read requests from this file instead of standard input
      --log-level string
        Log level: debug, info, warn, error (overrides config)
  -h, --help
        Show this help message

Requests:
  read PATH, write PATH VALUE, mkdir PATH, rm PATH, ls PATH,
  generation PATH, tree PATH, digest PATH, stat, stats, domain ID,
  export FILE [none|lz4|zstd [PATH]], import FILE

Environment Variables:
  XENSTORE_LOGGING_LEVEL    Override log level
  XENSTORE_LOGGING_FORMAT   Override log format
  XENSTORE_LOGGING_OUTPUT   Override log output
  XENSTORE_STORE_SEED       Override seed dump file
`)
}

// printInspectUsage prints the inspect command usage.
func printInspectUsage(w io.Writer) {
	fmt.Fprint(w, `Show the header and digest of a dump file

Usage:
  xenstore inspect [options] FILE

Options:
  -h, --help
        Show this help message
`)
}

// printConfigUsage prints the config command usage.
func printConfigUsage(w io.Writer) {
	fmt.Fprint(w, `Configuration management

Usage:
  xenstore config <subcommand> [options]

Subcommands:
  validate    Validate configuration file
  init        Generate default configuration
  show        Show effective configuration

Use "xenstore config <subcommand> -h" for more information.
`)
}

// printVersionUsage prints the version command usage.
func printVersionUsage(w io.Writer) {
	fmt.Fprint(w, `Show version information

Usage:
  xenstore version [options]

Options:
      --short
        Show only version number
  -h, --help
        Show this help message
`)
}
