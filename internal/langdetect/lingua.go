package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// minSampleLetters guards against guessing a language from a couple of
// characters; short chat messages skip local detection entirely.
const minSampleLetters = 6

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Guess returns the ISO-639-1 code lingua assigns to text, or "" when
// the sample is too short or no language stands out clearly. It runs
// in-process, so callers can use it to skip a remote detection round
// trip when the answer would not change anything.
func Guess(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}
	if countLetters(sample) < minSampleLetters {
		return ""
	}

	language, exists := sharedDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func sharedDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithMinimumRelativeDistance(0.25).
			Build()
	})
	return detector
}
