package lang

import "strings"

// regional tags the translation API treats as distinct languages; these
// survive NormalizeCode instead of collapsing to the primary subtag.
var keptRegionalTags = map[string]struct{}{
	"zh-cn": {},
	"zh-tw": {},
}

// NormalizeTag normalizes a language tag to lowercase and "-" separators.
// Returns an empty string when the value is blank or contains invalid
// characters.
func NormalizeTag(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	parts := strings.Split(trimmed, "-")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !isAlphaLower(part) {
			return ""
		}
		normalized = append(normalized, part)
	}

	if len(normalized) == 0 {
		return ""
	}
	return strings.Join(normalized, "-")
}

// NormalizeCode collapses a tag to the code the translation API expects:
// the primary subtag ("en" from "en-US"), except for regional variants
// the API distinguishes ("zh-CN", "zh-TW").
func NormalizeCode(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}
	if _, ok := keptRegionalTags[tag]; ok {
		return tag
	}
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		return tag[:dash]
	}
	return tag
}

// StripLatn drops the romanization suffix the detect endpoint sometimes
// returns ("ru-Latn") and the translate endpoint refuses to accept.
func StripLatn(code string) string {
	return strings.ReplaceAll(code, "-Latn", "")
}

// Primary reduces a tag to its primary subtag for same-language
// comparisons, so "zh-CN" and a locally detected "zh" compare equal.
func Primary(raw string) string {
	tag := NormalizeTag(raw)
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		return tag[:dash]
	}
	return tag
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
