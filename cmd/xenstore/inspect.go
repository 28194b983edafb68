package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/KilimcininKorOglu/xenstore/internal/dump"
)

// inspectCmd handles the inspect command.
func inspectCmd(args []string) int {
	return runInspect(args, os.Stdout)
}

func runInspect(args []string, out io.Writer) int {
	fs := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printInspectUsage(os.Stdout)
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one dump file is required")
		return 1
	}

	img, err := dump.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read dump: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "Path:   %s\n", img.Path)
	fmt.Fprintf(out, "Nodes:  %d\n", img.Nodes)
	fmt.Fprintf(out, "Digest: %s\n", img.Root.Digest())

	if err := img.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		return 1
	}
	return 0
}
