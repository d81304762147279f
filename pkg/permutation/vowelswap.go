package permutation

import "certmatch/helper"

var vowels = []rune{'a', 'e', 'i', 'o', 'u', 'y'}

func isVowel(r rune) bool {
	for _, v := range vowels {
		if r == v {
			return true
		}
	}
	return false
}

// VowelSwap returns a list of strings with one vowel replaced by another
func VowelSwap(label string) []string {
	runes := []rune(label)
	results := []string{}
	for i := range runes {
		if !isVowel(runes[i]) {
			continue
		}
		for _, v := range vowels {
			if runes[i] == v {
				continue
			}
			results = append(results, string(runes[:i])+string(v)+string(runes[i+1:]))
		}
	}
	return helper.RemoveDuplicate(results)
}
