package lang

// jaroSimilarity scores two strings in [0, 1] using the Jaro distance:
// shared characters within half the longer length count as matches, and
// matched characters appearing in a different order count as
// transpositions.
func jaroSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	window := max(len(ra), len(rb))/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, len(ra))
	matchedB := make([]bool, len(rb))
	matches := 0
	for i := range ra {
		lo := max(0, i-window)
		hi := min(len(rb)-1, i+window)
		for j := lo; j <= hi; j++ {
			if matchedB[j] || ra[i] != rb[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	j := 0
	for i := range ra {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-float64(transpositions)/2)/m) / 3.0
}

// jaroWinkler boosts the Jaro score for strings sharing a common prefix,
// up to four runes at 0.1 per rune.
func jaroWinkler(a, b string) float64 {
	score := jaroSimilarity(a, b)

	ra := []rune(a)
	rb := []rune(b)
	prefix := 0
	for i := 0; i < min(len(ra), len(rb)) && i < 4; i++ {
		if ra[i] != rb[i] {
			break
		}
		prefix++
	}
	return score + float64(prefix)*0.1*(1.0-score)
}
