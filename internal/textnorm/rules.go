package textnorm

import (
	"unicode"
	"unicode/utf8"
)

// AddSpaceAfter reports whether a chunk following r should be separated by a space.
func AddSpaceAfter(r rune) bool {
	switch r {
	case '"', '*', ' ', '\n', '\t':
		return false
	default:
		return true
	}
}

// CapitalizeAfter scans text backwards for the nearest sentence terminator or
// word character. ok is false when neither is found.
func CapitalizeAfter(text string) (capitalize bool, ok bool) {
	runes := []rune(text)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false, true
		}
		if isSentenceTerminator(r) {
			return true, true
		}
	}
	return false, false
}

func isSentenceTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	default:
		return false
	}
}

// capitalizeFirst upper-cases the leading rune of text.
func capitalizeFirst(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || r == utf8.RuneError {
		return text
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return text
	}
	return string(upper) + text[size:]
}
