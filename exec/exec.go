// Package exec runs external commands for report metadata.
package exec

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Ex executes the named command in the given directory and
// returns its trimmed combined stdout+stderr output. Pass empty
// dir to use the current working directory.
func Ex(
	ctx context.Context,
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
	)

	cmd := exec.CommandContext(ctx, name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	by, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(by))

	if err != nil {
		return out, fmt.Errorf(
			"%s: %s %s: %w",
			errCtx, name, strings.Join(arg, " "), err,
		)
	}

	return out, nil
}

// Revision returns the short commit hash of the git checkout
// containing dir, or "" when it cannot be determined.
func Revision(ctx context.Context, dir string) string {
	out, err := Ex(ctx, dir, "git", "rev-parse", "--short", "HEAD")
	if err != nil {
		slog.Debug("no git revision", "error", err)

		return ""
	}

	return out
}
