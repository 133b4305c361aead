// Package term holds the terminal-facing concerns of rendering: the color
// palette, the color enablement policy, and tty probing.
package term

// Escape sequences understood by every terminal this tool targets. The
// emitted bytes are fixed; they do not vary with the terminal profile.
const (
	Reset     = "\x1b[0m"
	Underline = "\x1b[4m"
	Reverse   = "\x1b[7m"

	Red     = "\x1b[31m"
	Green   = "\x1b[32m"
	Yellow  = "\x1b[33m"
	Blue    = "\x1b[34m"
	Magenta = "\x1b[35m"
	Cyan    = "\x1b[36m"

	LightRed     = "\x1b[1;31m"
	LightGreen   = "\x1b[1;32m"
	LightYellow  = "\x1b[1;33m"
	LightBlue    = "\x1b[1;34m"
	LightMagenta = "\x1b[1;35m"
	LightCyan    = "\x1b[1;36m"
)

// codes maps symbolic color names to escape sequences. Built once, never
// mutated.
var codes = map[string]string{
	"reset":        Reset,
	"underline":    Underline,
	"reverse":      Reverse,
	"red":          Red,
	"green":        Green,
	"yellow":       Yellow,
	"blue":         Blue,
	"magenta":      Magenta,
	"cyan":         Cyan,
	"lightred":     LightRed,
	"lightgreen":   LightGreen,
	"lightyellow":  LightYellow,
	"lightblue":    LightBlue,
	"lightmagenta": LightMagenta,
	"lightcyan":    LightCyan,
}

// Code returns the escape sequence for a symbolic color name, or the empty
// string for an unknown name.
func Code(name string) string {
	return codes[name]
}

// Colorize wraps text in the given color followed by a reset.
func Colorize(text, color string) string {
	return color + text + Reset
}
