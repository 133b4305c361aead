package diff

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrUnknownFormat reports input with no unified-diff marker inside the
	// detection window.
	ErrUnknownFormat = errors.New("unknown diff format")

	// ErrInvalidPatch reports a line for which the parser state machine has
	// no valid transition.
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrIncompletePatch reports input that ended with dangling content: a
	// path pair that never completed, or metadata that never attached to
	// one.
	ErrIncompletePatch = errors.New("incomplete patch")
)

// detectWindow is how many leading lines format detection may examine.
const detectWindow = 20

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@`)

// Parse consumes decoded input lines, terminators preserved, and returns
// the file diffs found in input order. The whole input must parse cleanly;
// there is no partial output.
func Parse(lines []string) ([]*FileDiff, error) {
	if err := detectFormat(lines); err != nil {
		return nil, err
	}
	p := parser{lines: lines}
	return p.run()
}

// detectFormat accepts input with at least one unified-diff marker among
// the leading lines.
func detectFormat(lines []string) error {
	window := lines
	if len(window) > detectWindow {
		window = window[:detectWindow]
	}
	for _, line := range window {
		if strings.HasPrefix(line, "--- ") ||
			strings.HasPrefix(line, "+++ ") ||
			strings.HasPrefix(line, "@@ ") {
			return nil
		}
	}
	return ErrUnknownFormat
}

// parser is a single forward scan over the input. The entity state resets
// every time a completed file diff is appended.
type parser struct {
	lines []string
	pos   int

	headers []string
	oldPath string
	newPath string
	hunks   []*Hunk
	hunk    *Hunk

	files []*FileDiff
}

func (p *parser) run() ([]*FileDiff, error) {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		kind := classifyLine(line)

		// plain lines ahead of any path pair are commit metadata, seen
		// with `git log -p` and `git show`
		if kind == LineContext && p.oldPath == "" {
			kind = LineHeader
		}

		switch kind {
		case LineHeader:
			if p.oldPath != "" {
				// metadata for the next file ends this one
				if err := p.finishFile(); err != nil {
					return nil, err
				}
				continue
			}
			p.headers = append(p.headers, line)

		case LineOldPath:
			if p.oldPath != "" {
				if err := p.finishFile(); err != nil {
					return nil, err
				}
				continue
			}
			p.oldPath = line

		case LineNewPath:
			if p.oldPath == "" || p.newPath != "" {
				return nil, invalidLine(line)
			}
			p.newPath = line

		case LineHunkHeader:
			if p.oldPath == "" || p.newPath == "" {
				return nil, invalidLine(line)
			}
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			p.closeHunk()
			p.hunk = h

		case LineRemoved, LineAdded, LineContext:
			if p.hunk == nil {
				return nil, invalidLine(line)
			}
			p.hunk.Records = append(p.hunk.Records, Record{Kind: kind, Text: line[1:]})

		case LineNoNewline:
			// dropped; the preceding body line already carries its text

		default:
			return nil, invalidLine(line)
		}
		p.pos++
	}

	p.closeHunk()
	switch {
	case p.oldPath != "":
		if p.newPath == "" {
			return nil, fmt.Errorf("%w: no new path after %q", ErrIncompletePatch, trimEOL(p.oldPath))
		}
		if err := p.appendFile(); err != nil {
			return nil, err
		}
	case len(p.headers) > 0:
		return nil, fmt.Errorf("%w: %q", ErrIncompletePatch, trimEOL(strings.Join(p.headers, "")))
	}
	return p.files, nil
}

// finishFile completes the in-flight entity when a following file begins
// mid-stream.
func (p *parser) finishFile() error {
	p.closeHunk()
	if p.newPath == "" {
		return fmt.Errorf("%w: no new path after %q", ErrInvalidPatch, trimEOL(p.oldPath))
	}
	return p.appendFile()
}

// appendFile validates and stores the current entity, then resets the
// entity state.
func (p *parser) appendFile() error {
	if len(p.hunks) == 0 {
		return fmt.Errorf("%w: no hunks after %q", ErrInvalidPatch, trimEOL(p.oldPath))
	}
	p.files = append(p.files, &FileDiff{
		Headers: p.headers,
		OldPath: p.oldPath,
		NewPath: p.newPath,
		Hunks:   p.hunks,
	})
	p.headers = nil
	p.oldPath = ""
	p.newPath = ""
	p.hunks = nil
	p.hunk = nil
	return nil
}

// closeHunk seals the open hunk, warning when its body disagrees with the
// lengths the header declared. The mismatch is tolerated so that sloppy
// patches still render, but it would misalign a side-by-side view, which is
// worth a diagnostic.
func (p *parser) closeHunk() {
	if p.hunk == nil {
		return
	}
	h := p.hunk
	oldN, newN := h.bodyCounts()
	if h.oldLenDeclared && oldN != h.OldLen {
		slog.Warn("hunk body disagrees with declared old range",
			"header", trimEOL(h.Header), "declared", h.OldLen, "actual", oldN)
	}
	if h.newLenDeclared && newN != h.NewLen {
		slog.Warn("hunk body disagrees with declared new range",
			"header", trimEOL(h.Header), "declared", h.NewLen, "actual", newN)
	}
	p.hunks = append(p.hunks, h)
	p.hunk = nil
}

// parseHunkHeader reads the two address ranges out of an "@@" line. An
// omitted length defaults to zero.
func parseHunkHeader(line string) (*Hunk, error) {
	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return nil, invalidLine(line)
	}
	h := &Hunk{Header: line}
	h.OldStart, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		h.OldLen, _ = strconv.Atoi(m[2])
		h.oldLenDeclared = true
	}
	h.NewStart, _ = strconv.Atoi(m[3])
	if m[4] != "" {
		h.NewLen, _ = strconv.Atoi(m[4])
		h.newLenDeclared = true
	}
	return h, nil
}

func invalidLine(line string) error {
	return fmt.Errorf("%w: %q", ErrInvalidPatch, trimEOL(line))
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}
