// Package main provides the vectors CLI that checks the
// hasher engine against SHA-256 known-answer vectors, the
// built-in set or one read from a YAML file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/fastcrypt/vectors"
)

var errFailed = errors.New("known-answer vectors failed")

func run() error {
	const errCtx = "vectors"

	var file string

	flag.StringVar(
		&file, "file", "",
		"YAML vector file (default: built-in set)",
	)

	flag.Parse()

	var (
		vs  []vectors.Vector
		err error
	)

	if file != "" {
		vs, err = vectors.LoadFile(file)
	} else {
		vs, err = vectors.Default()
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	rs := vectors.Check(vs)

	for _, r := range rs {
		status := "ok"
		if !r.OK {
			status = "FAIL want " + r.Want
		}

		if _, err := fmt.Fprintf(
			os.Stdout, "%-16s %s %s\n", r.Name, r.Got, status,
		); err != nil {
			return fmt.Errorf(
				"%s: writing to stdout: %w", errCtx, err,
			)
		}
	}

	if !vectors.Passed(rs) {
		return fmt.Errorf("%s: %w", errCtx, errFailed)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
