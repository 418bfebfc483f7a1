package display

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

const DefaultLoreWidth = 40

// WrapLore colorizes and word-wraps item lore lines to width. Continuation lines re-apply
// the styles active at the end of the previous line.
func WrapLore(lines []string, width int) []string {
	if width <= 0 {
		width = DefaultLoreWidth
	}

	var out []string
	for _, line := range lines {
		wrapped := strings.Split(wordwrap.String(Colorize(line), width), "\n")
		carry := ""
		for _, w := range wrapped {
			out = append(out, carry+w)
			carry = LastStyles(carry + w)
		}
	}
	return out
}
