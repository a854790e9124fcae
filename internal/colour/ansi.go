package colour

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 4
)

// Swatch returns a solid block of the given colour as a 24-bit ANSI sequence.
func Swatch(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bg + strings.Repeat(" ", width) + ansiReset
}

// FormatPalette renders a palette as hex codes, each preceded by a swatch when
// preview is true.
func FormatPalette(p Palette, preview bool) string {
	parts := make([]string, len(p))
	for i, c := range p {
		if preview {
			parts[i] = Swatch(c, defaultWidth) + " " + c.Hex()
		} else {
			parts[i] = c.Hex()
		}
	}
	return strings.Join(parts, "  ")
}

// IsTerminal reports whether w is a terminal, in which case previews are
// shown by default.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
