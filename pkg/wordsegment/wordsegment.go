// Package wordsegment splits concatenated words, such as the labels of a
// domain name, using a unigram language model.
//
// The search is a Viterbi pass over the label: every prefix keeps its most
// probable split and each candidate word is scored by its relative
// frequency. Words missing from the model get a penalty growing with their
// length, so long unknown chunks are kept whole rather than cut into noise.
package wordsegment

import (
	"bufio"
	_ "embed"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/pkg/errors"
)

// Total is the size of the corpus the frequencies are relative to
const Total = 1024908267229.0

// maxWordLength bounds the length of a candidate word
const maxWordLength = 24

//go:embed unigrams.txt
var unigrams string

// Stopwords are generic tokens carrying no signal in a domain name
var Stopwords = map[string]bool{
	"app":   true,
	"apps":  true,
	"inc":   true,
	"llc":   true,
	"ltd":   true,
	"box":   true,
	"home":  true,
	"space": true,
}

// Model is a read-only unigram model, safe for concurrent use
type Model struct {
	scores map[string]float64
	total  float64
}

var (
	defaultModel *Model
	loadOnce     sync.Once
)

// Default returns the model built from the embedded word list
func Default() *Model {
	loadOnce.Do(func() {
		m, err := Load(strings.NewReader(unigrams), Total)
		if err != nil {
			panic(err)
		}
		defaultModel = m
	})
	return defaultModel
}

// Load reads "word<TAB>count" lines
func Load(r io.Reader, total float64) (*Model, error) {
	m := &Model{scores: make(map[string]float64), total: total}
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, errors.Errorf("line %d: expected word and count", line)
		}
		count, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || count <= 0 {
			return nil, errors.Errorf("line %d: bad count %q", line, fields[1])
		}
		m.scores[strings.ToLower(fields[0])] = math.Log10(count / total)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "can't read word list")
	}
	return m, nil
}

// Known tells whether a word is part of the model
func (m *Model) Known(word string) bool {
	_, ok := m.scores[word]
	return ok
}

// Score returns the log10 probability of a word
func (m *Model) Score(word string) float64 {
	if s, ok := m.scores[word]; ok {
		return s
	}
	return math.Log10(10/m.total) - float64(len(word))
}

// Segment splits text into its most probable sequence of words. Only ASCII
// letters and digits are considered; text without any yields nil.
func (m *Model) Segment(text string) []string {
	clean := Clean(text)
	n := len(clean)
	if n == 0 {
		return nil
	}

	best := make([]float64, n+1)
	from := make([]int, n+1)
	for i := 1; i <= n; i++ {
		best[i] = math.Inf(-1)
		start := i - maxWordLength
		if start < 0 {
			start = 0
		}
		for j := start; j < i; j++ {
			s := best[j] + m.Score(clean[j:i])
			if s > best[i] {
				best[i] = s
				from[i] = j
			}
		}
	}

	words := []string{}
	for i := n; i > 0; i = from[i] {
		words = append(words, clean[from[i]:i])
	}
	for l, r := 0, len(words)-1; l < r; l, r = l+1, r-1 {
		words[l], words[r] = words[r], words[l]
	}
	return words
}

// Clean lowercases text and drops everything but ASCII letters and digits
func Clean(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize splits a hostname on everything that is not a letter or a digit,
// e.g. login-appleid.apple.com gives [login appleid apple com]
func Tokenize(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// SegmentAll segments every token and concatenates the words, keeping a
// token whole when it can't be segmented
func (m *Model) SegmentAll(tokens []string) []string {
	words := []string{}
	for _, token := range tokens {
		segmented := m.Segment(token)
		if len(segmented) == 0 {
			words = append(words, token)
			continue
		}
		words = append(words, segmented...)
	}
	return words
}

// RemoveStopwords drops the stopwords from words, keeping order
func RemoveStopwords(words []string) []string {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if !Stopwords[w] {
			kept = append(kept, w)
		}
	}
	return kept
}
