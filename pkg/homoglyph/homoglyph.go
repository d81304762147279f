package homoglyph

import (
	"strings"

	"certmatch/helper"

	"github.com/picatz/homoglyphr"
)

// MaxAlternatives bounds the number of ASCII alternatives produced for a
// single domain
const MaxAlternatives = 1024

// Map associates a look-alike character with the latin letters it can be
// read as, in alphabetical order
type Map map[string][]string

// GetHomoglyphMap builds the map of look-alike characters for a..z. ASCII
// characters are left out, they always read as themselves.
func GetHomoglyphMap() Map {
	alphabet := "abcdefghijklmnopqrstuvwxyz"
	m := Map{}
	for _, letter := range alphabet {
		l := string(letter)
		for glyph := range homoglyphr.StreamAllRelatedCharacters(l) {
			if isASCII(glyph) || helper.Contains(m[glyph], l) {
				continue
			}
			m[glyph] = append(m[glyph], l)
		}
	}
	return m
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// ReplaceHomoglyph replaces every look-alike character by its first latin
// reading
func ReplaceHomoglyph(s string, m Map) string {
	a := NewAlternatives(s, m)
	first, _ := a.Next()
	return first
}

// Alternatives lazily enumerates the ASCII readings of a string. It walks
// the choices of every character like an odometer, leftmost character
// varying slowest, and stops after MaxAlternatives readings.
type Alternatives struct {
	choices [][]string
	digits  []int
	emitted int
	done    bool
}

// NewAlternatives prepares the enumeration of the readings of s
func NewAlternatives(s string, m Map) *Alternatives {
	a := &Alternatives{}
	for _, r := range s {
		c := string(r)
		if latin, ok := m[c]; ok && len(latin) > 0 {
			a.choices = append(a.choices, latin)
			continue
		}
		a.choices = append(a.choices, []string{c})
	}
	a.Reset()
	return a
}

// Reset restarts the enumeration from the first reading
func (a *Alternatives) Reset() {
	a.digits = make([]int, len(a.choices))
	a.emitted = 0
	a.done = false
}

// Next returns the next reading, false once exhausted
func (a *Alternatives) Next() (string, bool) {
	if a.done || a.emitted >= MaxAlternatives {
		return "", false
	}
	var b strings.Builder
	for i, d := range a.digits {
		b.WriteString(a.choices[i][d])
	}
	a.emitted++

	i := len(a.digits) - 1
	for ; i >= 0; i-- {
		a.digits[i]++
		if a.digits[i] < len(a.choices[i]) {
			break
		}
		a.digits[i] = 0
	}
	if i < 0 {
		a.done = true
	}
	return b.String(), true
}
