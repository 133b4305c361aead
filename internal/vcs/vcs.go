// Package vcs detects the revision control system of a workspace and
// captures its pending changes as a unified diff.
package vcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// System describes one supported revision control tool. Probe succeeds only
// inside a workspace of that tool, Diff prints the pending changes.
type System struct {
	Name  string
	Probe []string
	Diff  []string
}

// Systems lists the supported tools in probe order.
var Systems = []System{
	{Name: "git", Probe: []string{"git", "rev-parse"}, Diff: []string{"git", "diff"}},
	{Name: "svn", Probe: []string{"svn", "info"}, Diff: []string{"svn", "diff"}},
	{Name: "hg", Probe: []string{"hg", "summary"}, Diff: []string{"hg", "diff"}},
}

// Names returns the supported tool names in probe order.
func Names() []string {
	names := make([]string, len(Systems))
	for i, s := range Systems {
		names[i] = s.Name
	}
	return names
}

// Detect probes dir for each supported tool and returns the first match.
// Probe output is discarded, only the exit status matters.
func Detect(ctx context.Context, dir string) (System, bool) {
	for _, s := range Systems {
		cmd := exec.CommandContext(ctx, s.Probe[0], s.Probe[1:]...)
		cmd.Dir = dir
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		if err := cmd.Run(); err == nil {
			return s, true
		}
	}
	return System{}, false
}

// WorkspaceDiff runs the tool's diff command in dir and returns its output.
// The tool's own diagnostics still reach the user on stderr.
func (s System) WorkspaceDiff(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, s.Diff[0], s.Diff[1:]...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.Join(s.Diff, " "), err)
	}
	return string(out), nil
}

// Compare reads two files and produces a unified diff between them.
func Compare(oldPath, newPath string) (string, error) {
	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		return "", err
	}
	newData, err := os.ReadFile(newPath)
	if err != nil {
		return "", err
	}
	return udiff.Unified(oldPath, newPath, string(oldData), string(newData)), nil
}
