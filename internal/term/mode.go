package term

// ColorMode controls when output is colorized.
type ColorMode string

const (
	// ColorAuto colorizes only when stdout is an interactive terminal that
	// has not opted out of color.
	ColorAuto ColorMode = "auto"

	// ColorAlways colorizes unconditionally, even into a pipe.
	ColorAlways ColorMode = "always"

	// ColorNever passes the input through untouched.
	ColorNever ColorMode = "never"
)

// IsValid checks if the color mode is valid
func (m ColorMode) IsValid() bool {
	return m == ColorAuto || m == ColorAlways || m == ColorNever
}

// String returns the string representation of the color mode
func (m ColorMode) String() string {
	return string(m)
}
