package analyser

import (
	"regexp"

	"certmatch/pkg/domain"
	"certmatch/pkg/index"
	"certmatch/pkg/model"
)

// ignoredParts are leading labels producing too many false positives
var ignoredParts = regexp.MustCompile(`^(autodiscover\.|cpanel\.)`)

// SubstringMatch looks for reference domains inside the SAN domains of a
// certificate. Only the first matching SAN is reported.
type SubstringMatch struct {
	index *index.Index
}

// NewSubstringMatch returns the stage over a built index
func NewSubstringMatch(idx *index.Index) *SubstringMatch {
	return &SubstringMatch{index: idx}
}

// Name implements Analyser
func (a *SubstringMatch) Name() string {
	return SubstringMatchName
}

// Run implements Analyser
func (a *SubstringMatch) Run(record *model.Record) error {
	for _, san := range record.AllDomains {
		name := domain.StripWildcard(san)
		candidate := domain.Extract(ignoredParts.ReplaceAllString(name, "")).TwoLevel()
		if candidate == "" {
			continue
		}
		best := index.Best(a.index.FindMatches(candidate))
		if len(best) == 0 {
			continue
		}
		record.Append(a.Name(), model.Matches{name: best})
		return nil
	}
	return nil
}
