// Package pager pipes rendered output through an external pager process.
package pager

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
)

// Run streams every line into the pager command and waits for it to exit.
// A pager that quits before consuming everything is normal termination,
// not an error. When the pager cannot start at all, the lines go straight
// to fallback instead.
func Run(ctx context.Context, command string, args []string, fallback io.Writer, lines iter.Seq[string]) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return writeAll(fallback, lines)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("pager unavailable, writing directly", "pager", command, "error", err)
		return writeAll(fallback, lines)
	}

	werr := writeAll(stdin, lines)
	stdin.Close()
	if err := cmd.Wait(); err != nil {
		// a pager dismissed mid-stream reports a status; not our problem
		slog.Debug("pager exited", "pager", command, "error", err)
	}
	return werr
}

// writeAll drains the line sequence into w, stopping at the first write
// error. A broken pipe ends the stream benignly.
func writeAll(w io.Writer, lines iter.Seq[string]) error {
	for line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			if IsBrokenPipe(err) {
				return nil
			}
			return err
		}
	}
	return nil
}

// IsBrokenPipe reports whether err means the downstream consumer closed
// early.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
