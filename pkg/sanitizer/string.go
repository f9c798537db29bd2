package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans room names, usernames, and nicknames before storage.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeLabel cleans free-text fields such as equipment and location.
func NormalizeLabel(label string) string {
	return TrimAndNormalize(label)
}

var reControl = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// SearchTerm prepares a user-supplied substring for use inside a Mongo
// $regex. Regex metacharacters are escaped so a term like "(a+)+b" matches
// literally instead of becoming a backtracking bomb.
func SearchTerm(input string) string {
	cleaned := reControl.ReplaceAllString(TrimAndNormalize(input), "")
	return regexp.QuoteMeta(cleaned)
}
