package permutation

import "certmatch/helper"

// Transposition returns a list of strings with two adjacent characters
// swapped
func Transposition(label string) []string {
	runes := []rune(label)
	results := []string{}
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] == runes[i+1] {
			continue
		}
		swapped := append([]rune{}, runes...)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
		results = append(results, string(swapped))
	}
	return helper.RemoveDuplicate(results)
}
