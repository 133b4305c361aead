package diff

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zerosync-co/tintdiff/internal/term"
)

// Escape sequences of the shapes the palette emits. Width fitting copies
// them through without spending any width budget.
var (
	ansiLeadRe = regexp.MustCompile(`^\x1b\[(?:1;)?\d{1,2}m`)
	ansiAnyRe  = regexp.MustCompile(`\x1b\[(?:1;)?\d{1,2}m`)
)

// truncMark takes over the last visible column of a line that did not fit,
// signalling that more content follows.
var truncMark = term.Reset + term.Colorize(">", term.LightMagenta)

// fitWidth trims markup down to, or pads it up to, an exact visible width.
// Escape sequences pass through unharmed. When the content overflows, the
// final visible cell becomes the continuation marker and the remainder is
// dropped. Padding appends plain spaces after any trailing escapes.
func fitWidth(markup string, width int, pad bool) string {
	if width <= 0 {
		return ""
	}

	var out []string
	count := 0
	for markup != "" && count < width {
		if esc := ansiLeadRe.FindString(markup); esc != "" {
			out = append(out, esc)
			markup = markup[len(esc):]
			continue
		}
		_, size := utf8.DecodeRuneInString(markup)
		out = append(out, markup[:size])
		markup = markup[size:]
		count++
	}

	switch {
	case count == width && visibleWidth(markup) > 0:
		out[len(out)-1] = truncMark
	case count == width:
		// only escape sequences remain; keep them so an exact-width
		// input round-trips unchanged
		out = append(out, markup)
	case pad:
		out = append(out, strings.Repeat(" ", width-count))
	}
	return strings.Join(out, "")
}

// visibleWidth counts the columns markup occupies once escape sequences
// are stripped.
func visibleWidth(markup string) int {
	return utf8.RuneCountInString(ansiAnyRe.ReplaceAllString(markup, ""))
}
