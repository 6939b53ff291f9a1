package attempt

import (
	"strings"
	"unicode"
)

// answerLabels are leading markers that uploaded answers sometimes carry
// ("정답: 서울"); they are not part of the answer itself.
var answerLabels = []string{"정답:", "답:", "answer:"}

// Normalize folds a raw answer string into its canonical comparison form:
// bracketed annotations are dropped, a leading answer label is dropped,
// all whitespace and punctuation are removed, and the result is
// lower-cased. Normalize is idempotent, so it is safe to apply to values
// that were already normalized at load time. Empty or annotation-only
// input yields the empty string.
func Normalize(raw string) string {
	s := stripBracketed(raw)
	s = strings.TrimSpace(s)

	lower := strings.ToLower(s)
	for _, label := range answerLabels {
		if strings.HasPrefix(lower, label) {
			s = s[len(label):]
			break
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// stripBracketed removes [...] and (...) segments, including the
// brackets. An unterminated opener swallows the rest of the string.
func stripBracketed(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '[' || r == '(':
			depth++
		case (r == ']' || r == ')') && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
