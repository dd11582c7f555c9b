package config

import (
	"fmt"
	"strings"
)

// normalizeJSONC blanks out comments and drops trailing commas so the result
// decodes as plain JSON. Comment bytes become spaces (newlines are kept) so
// decoder offsets still map to the original line and column.
func normalizeJSONC(content string) (string, error) {
	var out strings.Builder
	out.Grow(len(content))

	for i := 0; i < len(content); i++ {
		ch := content[i]

		switch {
		case ch == '"':
			end := skipString(content, i)
			out.WriteString(content[i:end])
			i = end - 1
		case ch == '/' && i+1 < len(content) && (content[i+1] == '/' || content[i+1] == '*'):
			end, err := skipComment(content, i)
			if err != nil {
				return "", err
			}
			blank(&out, content[i:end])
			i = end - 1
		case ch == ',':
			next := nextSignificant(content, i+1)
			if next < len(content) && (content[next] == '}' || content[next] == ']') {
				out.WriteByte(' ')
				continue
			}
			out.WriteByte(ch)
		default:
			out.WriteByte(ch)
		}
	}

	return out.String(), nil
}

// skipString returns the index just past the string literal starting at start.
func skipString(content string, start int) int {
	escape := false
	for i := start + 1; i < len(content); i++ {
		switch {
		case escape:
			escape = false
		case content[i] == '\\':
			escape = true
		case content[i] == '"':
			return i + 1
		}
	}
	return len(content)
}

// skipComment returns the index just past the comment starting at start.
func skipComment(content string, start int) (int, error) {
	if content[start+1] == '/' {
		end := strings.IndexAny(content[start:], "\r\n")
		if end < 0 {
			return len(content), nil
		}
		return start + end, nil
	}

	end := strings.Index(content[start+2:], "*/")
	if end < 0 {
		return 0, fmt.Errorf("unterminated block comment in JSONC")
	}
	return start + 2 + end + 2, nil
}

// nextSignificant returns the index of the next byte that is neither JSON
// whitespace nor part of a comment.
func nextSignificant(content string, from int) int {
	i := from
	for i < len(content) {
		switch {
		case isJSONWhitespace(content[i]):
			i++
		case content[i] == '/' && i+1 < len(content) && (content[i+1] == '/' || content[i+1] == '*'):
			end, err := skipComment(content, i)
			if err != nil {
				return len(content)
			}
			i = end
		default:
			return i
		}
	}
	return i
}

func blank(out *strings.Builder, comment string) {
	for i := 0; i < len(comment); i++ {
		switch comment[i] {
		case '\n', '\r', '\t':
			out.WriteByte(comment[i])
		default:
			out.WriteByte(' ')
		}
	}
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}
