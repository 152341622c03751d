// Package content analyzes the visible paragraph text of a page: word
// statistics, sentiment and language.
package content

import "strings"

// WordStats splits text on whitespace and returns the token count with the
// density of every distinct lower-cased token, as a percentage of the total.
// The density map is empty, never nil, when text has no tokens.
func WordStats(text string) (count int, density map[string]float64) {
	words := strings.Fields(text)
	density = make(map[string]float64)
	if len(words) == 0 {
		return 0, density
	}

	occurrences := make(map[string]int)
	for _, w := range words {
		occurrences[strings.ToLower(w)]++
	}
	total := float64(len(words))
	for w, n := range occurrences {
		density[w] = float64(n) / total * 100
	}
	return len(words), density
}
