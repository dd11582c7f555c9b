package textnorm

import (
	"strings"
	"unicode"
)

// logographic covers the CJK ideograph blocks plus CJK compatibility forms.
// Ranges are sorted so unicode.Is can binary search them.
var logographic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3400, Hi: 0x4dbf, Stride: 1}, // Extension A
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1}, // Unified Ideographs
		{Lo: 0xf900, Hi: 0xfaff, Stride: 1}, // Compatibility Ideographs
		{Lo: 0xfe30, Hi: 0xfe4f, Stride: 1}, // Compatibility Forms
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2a6df, Stride: 1}, // Extension B
		{Lo: 0x2a700, Hi: 0x2b73f, Stride: 1}, // Extension C
		{Lo: 0x2b740, Hi: 0x2b81f, Stride: 1}, // Extension D
		{Lo: 0x2b820, Hi: 0x2ceaf, Stride: 1}, // Extension E
	},
}

// IsLogographic reports whether text contains at least one CJK ideograph.
func IsLogographic(text string) bool {
	return strings.IndexFunc(text, isLogographicRune) >= 0
}

func isLogographicRune(r rune) bool {
	return unicode.Is(logographic, r)
}

// stripSpaces removes ASCII spaces, which logographic scripts do not use as separators.
func stripSpaces(text string) string {
	return strings.ReplaceAll(text, " ", "")
}
