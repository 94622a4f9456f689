// Package main provides the fastsum CLI that prints
// SHA-256 digests of strings, files or stdin computed by
// the hasher engine, and saves or verifies .digest sidecar
// files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/byte4ever/fastcrypt/digester"
	"github.com/byte4ever/fastcrypt/hasher"
	"github.com/byte4ever/fastcrypt/render"
)

var errVerify = errors.New("digest verification failed")

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func run() error {
	const errCtx = "fastsum"

	var strs arrayFlags

	var (
		format string
		save   bool
		verify bool
	)

	flag.Var(
		&strs, "s",
		"string to digest (repeatable)",
	)

	flag.StringVar(
		&format, "format", render.DefaultFormat,
		"output line format: {digest} {hex} {name} {size} {algorithm}",
	)

	flag.BoolVar(
		&save, "save", false,
		"write a .digest sidecar next to each file",
	)

	flag.BoolVar(
		&verify, "verify", false,
		"check each file against its .digest sidecar",
	)

	flag.Parse()

	if save && verify {
		return fmt.Errorf(
			"%s: only one of --save or --verify may be specified",
			errCtx,
		)
	}

	files := flag.Args()

	if verify {
		return verifyFiles(files)
	}

	if save {
		return saveFiles(files)
	}

	en := render.Engine{}

	for _, st := range strs {
		err := en.Write(os.Stdout, format, render.Fields{
			Sum:  hasher.Sum256([]byte(st)),
			Name: strconv.Quote(st),
			Size: int64(len(st)),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	if len(files) == 0 && len(strs) == 0 {
		files = []string{"-"}
	}

	for _, pa := range files {
		fi, err := digestFile(pa)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := en.Write(os.Stdout, format, fi); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return nil
}

// digestFile hashes the file at pa, or stdin for "-".
func digestFile(pa string) (render.Fields, error) {
	const errCtx = "digesting file"

	in := os.Stdin

	if pa != "-" {
		fi, err := os.Open(pa) //nolint:gosec // path from CLI args
		if err != nil {
			return render.Fields{}, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		defer fi.Close() //nolint:errcheck // read-only file

		in = fi
	}

	sum, n, err := digester.SumReader(in)
	if err != nil {
		return render.Fields{}, fmt.Errorf(
			"%s: %s: %w", errCtx, pa, err,
		)
	}

	return render.Fields{Sum: sum, Name: pa, Size: n}, nil
}

func saveFiles(files []string) error {
	const errCtx = "saving digests"

	for _, pa := range files {
		if err := digester.SaveDigest(pa); err != nil {
			return fmt.Errorf("%s: %s: %w", errCtx, pa, err)
		}

		slog.Info("saved digest", "file", pa+digester.Suffix)
	}

	return nil
}

func verifyFiles(files []string) error {
	const errCtx = "verifying digests"

	failed := 0

	for _, pa := range files {
		ok, err := digester.VerifyDigest(pa)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", errCtx, pa, err)
		}

		status := "OK"
		if !ok {
			status = "FAILED"
			failed++
		}

		if _, err := fmt.Fprintf(
			os.Stdout, "%s: %s\n", pa, status,
		); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf(
			"%s: %d of %d: %w",
			errCtx, failed, len(files), errVerify,
		)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
