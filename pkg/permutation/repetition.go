package permutation

import (
	"unicode"

	"certmatch/helper"
)

// Repetition returns a list of strings with one doubled letter
func Repetition(label string) []string {
	runes := []rune(label)
	results := []string{}
	for i, c := range runes {
		if unicode.IsLetter(c) {
			results = append(results, string(runes[:i+1])+string(runes[i:]))
		}
	}
	return helper.RemoveDuplicate(results)
}
