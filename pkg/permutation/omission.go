package permutation

import "certmatch/helper"

// Omission returns a list of strings with one missing letter
func Omission(label string) []string {
	runes := []rune(label)
	if len(runes) < 2 {
		return []string{}
	}
	results := []string{}
	for i := range runes {
		results = append(results, string(runes[:i])+string(runes[i+1:]))
	}
	return helper.RemoveDuplicate(results)
}
