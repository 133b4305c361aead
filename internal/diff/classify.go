package diff

import "strings"

// classifyLine assigns a LineKind to one raw input line. The result is
// context-free; the parser decides what each kind means in its current
// state. Path markers win over plain removed/added lines, so the checks are
// ordered most-specific first.
func classifyLine(line string) LineKind {
	switch {
	case strings.HasPrefix(line, "--- "):
		return LineOldPath
	case strings.HasPrefix(line, "+++ "):
		return LineNewPath
	case strings.HasPrefix(line, "@@ -"):
		return LineHunkHeader
	case strings.HasPrefix(line, "-"):
		return LineRemoved
	case strings.HasPrefix(line, "+"):
		return LineAdded
	case strings.HasPrefix(line, " "):
		return LineContext
	case strings.HasPrefix(line, `\`):
		return LineNoNewline
	}
	if line == "" || line[0] == '@' {
		return LineUnknown
	}
	return LineHeader
}
