package embeddings

import "unicode"

// TruncateAtWhitespace cuts text down to at most maxRunes runes, breaking
// at the last whitespace boundary at or before the limit so tokens are
// never split mid-word. When no whitespace exists before the limit the
// text is cut at the limit itself (rune-safe, relevant for CJK input
// with no spaces).
func TruncateAtWhitespace(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	cut := maxRunes
	for i := maxRunes; i > 0; i-- {
		if unicode.IsSpace(runes[i-1]) {
			cut = i - 1
			break
		}
	}

	if cut == 0 {
		cut = maxRunes
	}

	return string(runes[:cut])
}
