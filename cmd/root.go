package cmd

import (
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zerosync-co/tintdiff/internal/config"
	"github.com/zerosync-co/tintdiff/internal/diff"
	"github.com/zerosync-co/tintdiff/internal/logging"
	"github.com/zerosync-co/tintdiff/internal/pager"
	"github.com/zerosync-co/tintdiff/internal/term"
	"github.com/zerosync-co/tintdiff/internal/vcs"
	"github.com/zerosync-co/tintdiff/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tintdiff [patch | file1 file2]",
	Short: "A colorized unified diff viewer with side-by-side layout",
	Long: `Tintdiff colorizes unified diff output for the terminal, highlighting
changed words within changed lines and optionally laying old and new text out
side by side. It reads a patch from a file or from standard input. With two
file arguments it diffs the files directly, and with no input at all it
collects the pending changes of the enclosing git, svn or hg workspace. When
standard output is a terminal the colored result is piped through a pager.`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If the help flag is set, show the help message
		if cmd.Flag("help").Changed {
			cmd.Help()
			return nil
		}
		if cmd.Flag("version").Changed {
			fmt.Println(version.Version)
			return nil
		}

		cwd, _ := cmd.Flags().GetString("cwd")
		if cwd != "" {
			err := os.Chdir(cwd)
			if err != nil {
				return fmt.Errorf("failed to change directory: %v", err)
			}
		}
		if cwd == "" {
			c, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %v", err)
			}
			cwd = c
		}

		cfg, err := config.Load(cwd)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, cfg)

		if err := logging.Setup(cfg.LogLevel); err != nil {
			return err
		}

		source, err := acquireSource(cmd, args, cwd)
		if err != nil {
			return err
		}
		// Nothing to show is not an error, git diff behaves the same way.
		if source == "" {
			return nil
		}

		if !term.ShouldColor(term.ColorMode(cfg.Color), os.Stdout) {
			return passThrough(os.Stdout, source)
		}

		files, err := diff.Parse(diff.SplitLines(source))
		if err != nil {
			return err
		}

		lines := diff.Markup(files,
			diff.WithSideBySide(cfg.SideBySide),
			diff.WithWidth(cfg.Width),
		)

		if term.IsTerminal(os.Stdout) {
			return pager.Run(cmd.Context(), cfg.Pager, cfg.PagerArgs, os.Stdout, lines)
		}
		return writeLines(os.Stdout, lines)
	},
}

// applyFlagOverrides lets command line flags win over config file and
// environment settings, but only when the user actually passed them.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("side-by-side") {
		cfg.SideBySide, _ = cmd.Flags().GetBool("side-by-side")
	}
	if cmd.Flags().Changed("width") {
		cfg.Width, _ = cmd.Flags().GetInt("width")
	}
	if cmd.Flags().Changed("color") {
		cfg.Color, _ = cmd.Flags().GetString("color")
	}
	if cmd.Flags().Changed("pager") {
		cfg.Pager, _ = cmd.Flags().GetString("pager")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	config.Validate()
}

// acquireSource resolves the diff text to colorize. Two arguments name files
// to compare, one names a patch to read. With no arguments the patch comes
// from stdin, or from the enclosing workspace when stdin is a terminal.
func acquireSource(cmd *cobra.Command, args []string, cwd string) (string, error) {
	switch len(args) {
	case 2:
		return vcs.Compare(args[0], args[1])
	case 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if term.IsTerminal(os.Stdin) {
		sys, ok := vcs.Detect(cmd.Context(), cwd)
		if !ok {
			return "", fmt.Errorf("not in a supported workspace, supported are: %s",
				strings.Join(vcs.Names(), ", "))
		}
		slog.Debug("collecting workspace changes", "vcs", sys.Name)
		return sys.WorkspaceDiff(cmd.Context(), cwd)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// passThrough copies the input to w byte for byte, leaving the stream
// untouched for whatever consumes it next.
func passThrough(w io.Writer, source string) error {
	_, err := io.WriteString(w, source)
	if pager.IsBrokenPipe(err) {
		return nil
	}
	return err
}

func writeLines(w io.Writer, lines iter.Seq[string]) error {
	for line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			if pager.IsBrokenPipe(err) {
				return nil
			}
			return err
		}
	}
	return nil
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("version", "v", false, "Version")
	rootCmd.Flags().BoolP("side-by-side", "s", false, "Show diff in side-by-side layout")
	rootCmd.Flags().IntP("width", "w", 80, "Column width of the side-by-side layout")
	rootCmd.Flags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.Flags().String("color", "auto", "Colorize the output (auto, always, never)")
	rootCmd.Flags().String("pager", "", "Pager command for terminal output")
	rootCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
}
