package lang

import (
	"strings"
	"unicode/utf8"
)

// fuzzyThreshold is the minimum Jaro-Winkler score needed for a language
// name to count as a match for a free-form query.
const fuzzyThreshold = 0.84

// Resolve maps a user-supplied language query to a translation code.
// Stages run in order and the first hit wins: exact flag emoji,
// two-letter queries contained in a flag code, exact flag code, longer
// queries contained in a flag's language name, exact country name,
// ISO-639 table key, then a fuzzy scan of language names. Returns ""
// when nothing matches.
func Resolve(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	if f, ok := FlagByEmoji(query); ok {
		return f.Code
	}

	lower := strings.ToLower(query)
	if utf8.RuneCountInString(query) == 2 {
		for _, f := range flagTable {
			if strings.Contains(f.Code, lower) {
				return f.Code
			}
		}
	}
	for _, f := range flagTable {
		if strings.EqualFold(f.Code, query) {
			return f.Code
		}
	}
	if utf8.RuneCountInString(query) > 2 {
		for _, f := range flagTable {
			if strings.Contains(strings.ToLower(f.Name), lower) {
				return f.Code
			}
		}
	}
	for _, f := range flagTable {
		if strings.EqualFold(f.Country, query) {
			return f.Code
		}
	}
	if Known(lower) {
		return lower
	}
	return fuzzyLanguage(lower)
}

// fuzzyLanguage scans the ISO-639 names for the closest match at or
// above fuzzyThreshold. Candidates are visited in sorted order so ties
// resolve the same way on every call.
func fuzzyLanguage(query string) string {
	best := ""
	bestScore := 0.0
	for _, opt := range Options() {
		score := jaroWinkler(query, strings.ToLower(opt.Name))
		if score > bestScore {
			best = opt.Code
			bestScore = score
		}
	}
	if bestScore < fuzzyThreshold {
		return ""
	}
	return best
}
