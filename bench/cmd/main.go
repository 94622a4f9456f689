// Package main provides the bench CLI that measures the
// hasher engine against other SHA-256 implementations and
// writes a JSON report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/byte4ever/fastcrypt/bench"
)

// sliceFlag implements flag.Value for multi-value
// string flags (repeated --flag=val usage).
type sliceFlag []string

// String returns the flag value as a comma-separated
// string representation.
func (s *sliceFlag) String() string {
	if s == nil {
		return ""
	}

	return strings.Join(*s, ",")
}

// Set appends a value to the slice.
func (s *sliceFlag) Set(val string) error {
	*s = append(*s, val)

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	const errCtx = "running bench"

	var candidates sliceFlag

	message := flag.String(
		"message", bench.DefaultMessage,
		"Message hashed by every candidate",
	)
	iterations := flag.Int(
		"iterations", bench.DefaultIterations,
		"Hashes per candidate",
	)
	parallelism := flag.Int(
		"parallelism", 1,
		"Concurrent workers per candidate",
	)
	output := flag.String(
		"output", "",
		"Report file path (default: stdout)",
	)

	flag.Var(
		&candidates, "candidate",
		"Candidate to run (repeatable, default: all)",
	)

	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt,
	)
	defer stop()

	rep, err := bench.Run(ctx, bench.Config{
		Message:     *message,
		Iterations:  *iterations,
		Parallelism: *parallelism,
		Candidates:  candidates,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out := os.Stdout

	if *output != "" {
		fo, err := os.Create(*output) //nolint:gosec // path from CLI flag
		if err != nil {
			return fmt.Errorf(
				"%s: creating output: %w", errCtx, err,
			)
		}

		defer fo.Close() //nolint:errcheck // best-effort close

		out = fo
	}

	if err := rep.WriteJSON(out); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
