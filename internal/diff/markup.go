package diff

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/zerosync-co/tintdiff/internal/term"
)

// MarkupConfig controls how a parsed diff is rendered.
type MarkupConfig struct {
	SideBySide bool
	Width      int
}

// MarkupOption modifies a MarkupConfig.
type MarkupOption func(*MarkupConfig)

// NewMarkupConfig creates a MarkupConfig with default values.
func NewMarkupConfig(opts ...MarkupOption) MarkupConfig {
	config := MarkupConfig{
		Width: 80, // default column width for side-by-side view
	}

	for _, opt := range opts {
		opt(&config)
	}

	return config
}

// WithSideBySide switches rendering to the two-column layout.
func WithSideBySide(sideBySide bool) MarkupOption {
	return func(c *MarkupConfig) {
		c.SideBySide = sideBySide
	}
}

// WithWidth sets the per-column width for the side-by-side layout.
func WithWidth(width int) MarkupOption {
	return func(c *MarkupConfig) {
		if width > 0 {
			c.Width = width
		}
	}
}

// Markup renders every file diff in input order into one flat sequence of
// colorized output lines. Files render independently of each other, so the
// sequence is a plain concatenation.
func Markup(files []*FileDiff, opts ...MarkupOption) iter.Seq[string] {
	config := NewMarkupConfig(opts...)
	return func(yield func(string) bool) {
		for _, f := range files {
			var lines iter.Seq[string]
			if config.SideBySide {
				lines = f.SideBySide(config.Width)
			} else {
				lines = f.Traditional()
			}
			for line := range lines {
				if !yield(line) {
					return
				}
			}
		}
	}
}

// Traditional renders the file diff in the classic one-column layout:
// metadata, the path pair, then each hunk with its aligned rows.
func (f *FileDiff) Traditional() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, h := range f.Headers {
			if !yield(term.Colorize(h, term.Cyan)) {
				return
			}
		}
		if !yield(term.Colorize(f.OldPath, term.Yellow)) {
			return
		}
		if !yield(term.Colorize(f.NewPath, term.Yellow)) {
			return
		}

		for _, h := range f.Hunks {
			if !yield(term.Colorize(h.Header, term.LightBlue)) {
				return
			}
			for row := range h.Align() {
				for _, line := range renderTraditionalRow(row) {
					if !yield(line) {
						return
					}
				}
			}
		}
	}
}

// renderTraditionalRow produces the output lines for one aligned row: one
// line for context, insertions and deletions, two for a replacement.
func renderTraditionalRow(row Row) []string {
	if !row.Changed {
		return []string{term.Colorize(" "+row.Old.Text, term.Reset)}
	}
	switch {
	case row.Old.Num == 0:
		return []string{term.Colorize("+"+row.New.Text, term.LightGreen)}
	case row.New.Num == 0:
		return []string{term.Colorize("-"+row.Old.Text, term.LightRed)}
	default:
		return []string{
			term.Colorize("-", term.LightRed) + markupMix(row.Old.Text, term.Red),
			term.Colorize("+", term.LightGreen) + markupMix(row.New.Text, term.Green),
		}
	}
}

// SideBySide renders the file diff as two width-fitted columns with line
// numbers. Widths of zero or below fall back to the default of 80.
func (f *FileDiff) SideBySide(width int) iter.Seq[string] {
	if width <= 0 {
		width = 80
	}
	return func(yield func(string) bool) {
		numWidth := f.lineNumWidth()

		for _, h := range f.Headers {
			if !yield(term.Colorize(h, term.Cyan)) {
				return
			}
		}
		if !yield(term.Colorize(f.OldPath, term.Yellow)) {
			return
		}
		if !yield(term.Colorize(f.NewPath, term.Yellow)) {
			return
		}

		for _, h := range f.Hunks {
			if !yield(term.Colorize(h.Header, term.LightBlue)) {
				return
			}
			for row := range h.Align() {
				if !yield(renderSideBySideRow(h, row, width, numWidth)) {
					return
				}
			}
		}
	}
}

// lineNumWidth derives the number-column width from the last hunk, whose
// address ranges reach the highest line numbers in the file.
func (f *FileDiff) lineNumWidth() int {
	last := f.Hunks[len(f.Hunks)-1]
	maxOld := last.OldStart + last.OldLen - 1
	maxNew := last.NewStart + last.NewLen - 1
	return max(len(strconv.Itoa(maxOld)), len(strconv.Itoa(maxNew)))
}

// renderSideBySideRow lays out one aligned row as
// "<old num> <old text> <new num> <new text>". The left cell pads to the
// exact width so the columns line up; the right cell is only truncated.
func renderSideBySideRow(h *Hunk, row Row, width, numWidth int) string {
	leftNum, rightNum := " ", " "
	if row.Old.Num > 0 {
		leftNum = strconv.Itoa(h.OldStart + row.Old.Num - 1)
	}
	if row.New.Num > 0 {
		rightNum = strconv.Itoa(h.NewStart + row.New.Num - 1)
	}

	left := normalizeCell(row.Old.Text)
	right := normalizeCell(row.New.Text)

	switch {
	case !row.Changed:
		left = fitWidth(term.Colorize(left, term.Reset), width, true)
		right = fitWidth(term.Colorize(right, term.Reset), width, false)
	case row.Old.Num == 0:
		left = strings.Repeat(" ", width)
		right = fitWidth(term.Colorize(right, term.LightGreen), width, false)
	case row.New.Num == 0:
		left = fitWidth(term.Colorize(left, term.LightRed), width, false)
		right = ""
	default:
		left = fitWidth(markupMix(left, term.Red), width, true)
		right = fitWidth(markupMix(right, term.Green), width, false)
	}

	return term.Colorize(fmt.Sprintf("%*s", numWidth, leftNum), term.Yellow) +
		" " + left + " " + term.Reset +
		term.Colorize(fmt.Sprintf("%*s", numWidth, rightNum), term.Yellow) +
		" " + right + "\n"
}

// normalizeCell expands tabs and strips line terminators ahead of width
// fitting.
func normalizeCell(text string) string {
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", 8))
	text = strings.ReplaceAll(text, "\n", "")
	return strings.ReplaceAll(text, "\r", "")
}

// markupMix substitutes the intraline markers of a replaced line with
// emphasis sequences over a base color, then wraps the whole line in that
// color. Deleted and inserted spans render reversed, replaced spans render
// underlined, and a span end restores the plain base color.
func markupMix(line, baseColor string) string {
	strong := term.Reverse + baseColor
	emphasis := term.Underline + baseColor
	restore := term.Reset + baseColor
	r := strings.NewReplacer(
		markDelete, strong,
		markInsert, strong,
		markReplace, emphasis,
		markEnd, restore,
	)
	return term.Colorize(r.Replace(line), baseColor)
}
