// Package telnet serves the text console over Telnet and provides the ANSI
// styling used by console output.
package telnet

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Magenta = "\033[35m"

	BrightRed    = "\033[91m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return Colorize(color, fmt.Sprintf(format, args...))
}

// StripANSI removes all \033[...m sequences from s.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, "\033[")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.IndexByte(s[i:], 'm')
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i+end+1:]
	}
}

// Styler applies colors when enabled and passes text through otherwise.
type Styler bool

// Paint colors text when s is enabled.
func (s Styler) Paint(color, text string) string {
	if !s {
		return text
	}
	return Colorize(color, text)
}

// Paintf formats and colors when s is enabled.
func (s Styler) Paintf(color, format string, args ...any) string {
	return s.Paint(color, fmt.Sprintf(format, args...))
}
