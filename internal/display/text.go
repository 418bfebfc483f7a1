package display

import "strings"

const (
	// StyleChar introduces a style code in rendered text.
	StyleChar = '§'
	// AltStyleChar is the config-friendly spelling translated by Colorize.
	AltStyleChar = '&'

	// MaxPartWidth is the widest prefix or suffix a panel line part can hold.
	MaxPartWidth = 64
)

const styleCodes = "0123456789AaBbCcDdEeFfKkLlMmNnOoRrXx"

// Colorize translates &-prefixed style codes into rendered style codes.
func Colorize(text string) string {
	rs := []rune(text)
	for i := 0; i < len(rs)-1; i++ {
		if rs[i] == AltStyleChar && strings.ContainsRune(styleCodes, rs[i+1]) {
			rs[i] = StyleChar
			rs[i+1] = toLower(rs[i+1])
		}
	}
	return string(rs)
}

// StripStyles removes every style code from text.
func StripStyles(text string) string {
	var b strings.Builder
	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		if rs[i] == StyleChar && i+1 < len(rs) {
			i++
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

// LastStyles returns the style codes in effect at the end of text: the last colour (or
// reset) followed by any formats applied after it.
func LastStyles(text string) string {
	rs := []rune(text)
	var codes []rune
	for i := len(rs) - 2; i >= 0; i-- {
		if rs[i] != StyleChar {
			continue
		}
		c := toLower(rs[i+1])
		if isFormat(c) {
			codes = append([]rune{StyleChar, c}, codes...)
			continue
		}
		if isColor(c) || c == 'r' {
			codes = append([]rune{StyleChar, c}, codes...)
			break
		}
	}
	return string(codes)
}

// SplitLine divides a rendered line into a prefix and suffix of at most MaxPartWidth
// runes each. The suffix starts with the styles active at the split point so styling
// carries across. A dangling style character is never left at the end of either part.
func SplitLine(text string) (prefix, suffix string) {
	rs := []rune(text)
	if len(rs) <= MaxPartWidth {
		return text, ""
	}

	head := rs[:MaxPartWidth]
	if head[len(head)-1] == StyleChar {
		head = head[:len(head)-1]
	}
	prefix = string(head)

	rest := string(rs[len(head):])
	sr := []rune(LastStyles(prefix) + rest)
	if len(sr) > MaxPartWidth {
		sr = sr[:MaxPartWidth]
	}
	if len(sr) > 0 && sr[len(sr)-1] == StyleChar {
		sr = sr[:len(sr)-1]
	}
	return prefix, string(sr)
}

func isColor(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

func isFormat(c rune) bool {
	return c >= 'k' && c <= 'o'
}

func toLower(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
