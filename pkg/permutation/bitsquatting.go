package permutation

import "certmatch/helper"

var masks = []rune{1, 2, 4, 8, 16, 32, 64, 128}

// Bitsquatting returns a list of strings where one character differs by a
// single bit flip, keeping only characters valid in a hostname
func Bitsquatting(label string) []string {
	runes := []rune(label)
	results := []string{}
	for i, c := range runes {
		for _, m := range masks {
			b := c ^ m
			if (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || b == '-' {
				results = append(results, string(runes[:i])+string(b)+string(runes[i+1:]))
			}
		}
	}
	return helper.RemoveDuplicate(results)
}
