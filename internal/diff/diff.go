// Package diff parses unified-diff text into per-file structures and renders
// them as colorized terminal output, either in the traditional one-column
// layout or as a width-aligned side-by-side comparison.
package diff

import "strings"

// LineKind classifies one raw input line of a unified diff.
type LineKind int

const (
	LineHeader     LineKind = iota // commit or index metadata ahead of a path pair
	LineOldPath                    // "--- " marker
	LineNewPath                    // "+++ " marker
	LineHunkHeader                 // "@@ -a,b +c,d @@" marker
	LineRemoved                    // "-" body line
	LineAdded                      // "+" body line
	LineContext                    // " " body line
	LineNoNewline                  // "\ No newline at end of file"
	LineUnknown                    // no valid interpretation
)

// String returns a short name for the line kind.
func (k LineKind) String() string {
	switch k {
	case LineHeader:
		return "header"
	case LineOldPath:
		return "old-path"
	case LineNewPath:
		return "new-path"
	case LineHunkHeader:
		return "hunk-header"
	case LineRemoved:
		return "removed"
	case LineAdded:
		return "added"
	case LineContext:
		return "context"
	case LineNoNewline:
		return "no-newline"
	default:
		return "unknown"
	}
}

// Record is one body line of a hunk. Text is the line content without its
// polarity prefix, line terminator preserved.
type Record struct {
	Kind LineKind // LineRemoved, LineAdded or LineContext
	Text string
}

// Hunk is one "@@" block: the verbatim header line, the address ranges it
// declares and the ordered body records. A hunk is built by the parser and
// not mutated afterwards.
type Hunk struct {
	Header   string // verbatim header line, terminator preserved
	OldStart int
	OldLen   int
	NewStart int
	NewLen   int
	Records  []Record

	// set when the header spelled the length out instead of omitting it
	oldLenDeclared bool
	newLenDeclared bool
}

// oldLines returns the old-side body text: removed plus context lines.
func (h *Hunk) oldLines() []string {
	var out []string
	for _, r := range h.Records {
		if r.Kind != LineAdded {
			out = append(out, r.Text)
		}
	}
	return out
}

// newLines returns the new-side body text: added plus context lines.
func (h *Hunk) newLines() []string {
	var out []string
	for _, r := range h.Records {
		if r.Kind != LineRemoved {
			out = append(out, r.Text)
		}
	}
	return out
}

// bodyCounts reports how many body lines the hunk holds on each side.
func (h *Hunk) bodyCounts() (oldN, newN int) {
	for _, r := range h.Records {
		switch r.Kind {
		case LineRemoved:
			oldN++
		case LineAdded:
			newN++
		default:
			oldN++
			newN++
		}
	}
	return oldN, newN
}

// FileDiff is one file's complete diff: leading metadata, the path marker
// pair and the hunks, in input order.
type FileDiff struct {
	Headers []string
	OldPath string
	NewPath string
	Hunks   []*Hunk
}

// SplitLines splits text into lines with terminators preserved. The final
// line is kept even without a terminator; no empty trailing element is
// produced.
func SplitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
