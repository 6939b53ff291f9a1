package attempt

import (
	"strings"

	"quiz-attempt-service/internal/domain"
)

// Grade evaluates a raw submission against a question. The submission may
// carry several comma-separated tokens; each distinct token that hits an
// accepted answer contributes one match. Success requires at least the
// question's required match count. A submission with no usable tokens
// grades as (false, 0).
func Grade(q domain.Question, rawSubmission string) (success bool, matchCount int) {
	accepted := make([]string, 0, len(q.AcceptedAnswers))
	for _, a := range q.AcceptedAnswers {
		if n := Normalize(a); n != "" {
			accepted = append(accepted, n)
		}
	}

	for _, token := range submissionTokens(rawSubmission) {
		if hitsAny(token, accepted, q.StrictMatch) {
			matchCount++
		}
	}

	required := q.RequiredMatches
	if required < 1 {
		required = 1
	}
	return matchCount >= required, matchCount
}

// submissionTokens splits a submission on commas, normalizes each piece,
// and drops empties and duplicates. Normalization already folds case and
// formatting, so duplicate detection is plain equality.
func submissionTokens(raw string) []string {
	pieces := strings.Split(raw, ",")
	tokens := make([]string, 0, len(pieces))
	seen := make(map[string]struct{}, len(pieces))
	for _, p := range pieces {
		token := Normalize(strings.TrimSpace(p))
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

// hitsAny reports whether a normalized token matches any accepted answer.
// Strict matching demands exact equality; fuzzy matching also accepts
// substring containment in either direction.
func hitsAny(token string, accepted []string, strict bool) bool {
	for _, a := range accepted {
		if token == a {
			return true
		}
		if !strict && (strings.Contains(a, token) || strings.Contains(token, a)) {
			return true
		}
	}
	return false
}
