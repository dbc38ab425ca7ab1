package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// maxKeyAttempts bounds the deterministic suffix retries before falling
// back to the caller-supplied guaranteed-unique transformation.
const maxKeyAttempts = 10

// Slugify turns an arbitrary title into a URL-safe key candidate.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ResolveUniqueKey attempts the candidate key, retrying with a numeric
// suffix up to a fixed bound, then falls back to the guaranteed-unique
// transformation. taken reports whether a key is already in use.
func ResolveUniqueKey(candidate string, taken func(string) bool, fallback func(string) string) string {
	if candidate == "" {
		candidate = "entry"
	}

	if !taken(candidate) {
		return candidate
	}

	for i := 2; i <= maxKeyAttempts; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		if !taken(next) {
			return next
		}
	}

	return fallback(candidate)
}
