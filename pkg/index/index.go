package index

import (
	"sort"
	"unicode/utf8"

	"certmatch/pkg/domain"
	"certmatch/pkg/permutation"

	ac "github.com/anknown/ahocorasick"
	"github.com/pkg/errors"
)

// MinMatchingLength is the shortest label worth reporting. Below it, labels
// such as g.co or t.co match almost every domain.
const MinMatchingLength = 3

// excluded core labels are never indexed, too common and too short
var excluded = map[string]bool{
	"www": true,
	"web": true,
}

// Match is a reference label found inside a candidate string
type Match struct {
	// Label is the core label, e.g. google
	Label string
	// Domain is the reference domain the label came from, e.g. google.com
	Domain string
	// End is the rune offset right after the match in the candidate
	End int
}

// Index answers which reference labels occur inside a string. It is
// immutable once built and safe for concurrent use.
type Index struct {
	machine      *ac.Machine
	// domains maps every pattern, label or variant, to its canonical domain
	domains      map[string]string
	minLength    int
	permutations bool
}

// Option configures an Index
type Option func(*Index)

// WithMinLength sets the minimum length of a reported match
func WithMinLength(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.minLength = n
		}
	}
}

// WithPermutations also indexes typosquatting variants of every label
func WithPermutations() Option {
	return func(i *Index) {
		i.permutations = true
	}
}

// New builds the index over a list of reference domains. The first domain
// reducing to a given core label becomes its canonical domain.
func New(domains []string, opts ...Option) (*Index, error) {
	idx := &Index{
		domains:   map[string]string{},
		minLength: MinMatchingLength,
	}
	for _, o := range opts {
		o(idx)
	}

	labels := []string{}
	for _, d := range domains {
		label := domain.Extract(d).Domain
		if label == "" || excluded[label] {
			continue
		}
		if _, ok := idx.domains[label]; ok {
			continue
		}
		idx.domains[label] = d
		labels = append(labels, label)
	}

	if idx.permutations {
		for _, label := range labels {
			for _, variant := range permutation.All(label) {
				if _, ok := idx.domains[variant]; ok || excluded[variant] {
					continue
				}
				idx.domains[variant] = idx.domains[label]
			}
		}
	}

	if len(idx.domains) == 0 {
		return idx, nil
	}
	patterns := make([]string, 0, len(idx.domains))
	for p := range idx.domains {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	keywords := make([][]rune, 0, len(patterns))
	for _, p := range patterns {
		keywords = append(keywords, []rune(p))
	}
	m := new(ac.Machine)
	if err := m.Build(keywords); err != nil {
		return nil, errors.Wrap(err, "can't build the Aho-Corasick machine")
	}
	idx.machine = m
	return idx, nil
}

// Len returns the number of indexed patterns
func (idx *Index) Len() int {
	return len(idx.domains)
}

// FindMatches returns every reference label occurring in candidate, at
// least minLength characters long, sorted by length with the longest last.
// Matches of equal length keep their order of occurrence.
func (idx *Index) FindMatches(candidate string) []Match {
	matches := []Match{}
	if idx.machine == nil || candidate == "" {
		return matches
	}
	for _, t := range idx.machine.MultiPatternSearch([]rune(candidate), false) {
		if len(t.Word) < idx.minLength {
			continue
		}
		label := string(t.Word)
		matches = append(matches, Match{Label: label, Domain: idx.domains[label], End: t.Pos + len(t.Word)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return utf8.RuneCountInString(matches[i].Label) < utf8.RuneCountInString(matches[j].Label)
	})
	return matches
}

// Best returns the canonical domains of the longest matches, without
// duplicates, in order of occurrence
func Best(matches []Match) []string {
	if len(matches) == 0 {
		return nil
	}
	longest := utf8.RuneCountInString(matches[len(matches)-1].Label)
	seen := map[string]bool{}
	best := []string{}
	for _, m := range matches {
		if utf8.RuneCountInString(m.Label) != longest || seen[m.Domain] {
			continue
		}
		seen[m.Domain] = true
		best = append(best, m.Domain)
	}
	return best
}
