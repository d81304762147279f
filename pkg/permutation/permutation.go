// Package permutation generates typosquatting variants of a domain label.
package permutation

import "certmatch/helper"

// Generator produces variants of a label
type Generator func(label string) []string

// Generators lists every technique by name
var Generators = map[string]Generator{
	"omission":      Omission,
	"repetition":    Repetition,
	"transposition": Transposition,
	"vowelswap":     VowelSwap,
	"bitsquatting":  Bitsquatting,
}

// order keeps All deterministic
var order = []string{"omission", "repetition", "transposition", "vowelswap", "bitsquatting"}

// All returns the variants of every technique, without duplicates and
// without the label itself
func All(label string) []string {
	results := []string{}
	for _, name := range order {
		for _, v := range Generators[name](label) {
			if v != label {
				results = append(results, v)
			}
		}
	}
	return helper.RemoveDuplicate(results)
}
