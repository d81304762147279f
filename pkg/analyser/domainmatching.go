package analyser

import (
	"strings"

	"certmatch/pkg/domain"
	"certmatch/pkg/model"
	"certmatch/pkg/wordsegment"

	"github.com/pkg/errors"
)

// MatchingMode controls how strictly the words of a reference domain must
// appear in a matched domain
type MatchingMode int

const (
	// OrderMatch requires the reference words to appear next to each other
	// and in the same order, e.g. apple com in login apple id apple com
	OrderMatch MatchingMode = iota
	// SubsetMatch only requires every reference word to appear somewhere,
	// e.g. applefake.it matches apple.com without the TLD
	SubsetMatch
)

var matchingModes = map[string]MatchingMode{
	"order":  OrderMatch,
	"subset": SubsetMatch,
}

// ParseMatchingMode reads a matching mode, empty means OrderMatch
func ParseMatchingMode(s string) (MatchingMode, error) {
	if s == "" {
		return OrderMatch, nil
	}
	mode, ok := matchingModes[strings.ToLower(s)]
	if !ok {
		return OrderMatch, errors.Errorf("matching option %q is not supported, valid options are: order, subset", s)
	}
	return mode, nil
}

func (m MatchingMode) String() string {
	if m == SubsetMatch {
		return "subset"
	}
	return "order"
}

// DomainMatching combines SubstringMatch and WordSegmentation to tell a
// brand embedded in an unrelated domain from a legitimate subdomain of the
// brand. It must run after both of them.
type DomainMatching struct {
	model      *wordsegment.Model
	includeTLD bool
	mode       MatchingMode
}

// NewDomainMatching returns the stage
func NewDomainMatching(m *wordsegment.Model, includeTLD bool, mode MatchingMode) *DomainMatching {
	return &DomainMatching{model: m, includeTLD: includeTLD, mode: mode}
}

// Name implements Analyser
func (a *DomainMatching) Name() string {
	return DomainMatchingName
}

// Run implements Analyser. Records lacking one of the inputs, or marked as
// bulk, are left untouched.
func (a *DomainMatching) Run(record *model.Record) error {
	if out, ok := record.Lookup(BulkDomainMarkerName); ok {
		if bulk, ok := out.(model.Bulk); ok && bool(bulk) {
			return nil
		}
	}

	out, ok := record.Lookup(SubstringMatchName)
	if !ok {
		return nil
	}
	matches, ok := out.(model.Matches)
	if !ok || len(matches) == 0 {
		return nil
	}
	out, ok = record.Lookup(WordSegmentationName)
	if !ok {
		return nil
	}
	segments, ok := out.(model.Segments)
	if !ok || len(segments) == 0 {
		return nil
	}

	if verdicts := a.match(record.AllDomains, matches, segments); len(verdicts) > 0 {
		record.Append(a.Name(), verdicts)
	}
	return nil
}

// match walks the matched domains in SAN order so the output is stable
func (a *DomainMatching) match(sans []string, matches model.Matches, segments model.Segments) model.Verdicts {
	verdicts := model.Verdicts{}
	for _, name := range orderedKeys(sans, matches) {
		tokens, ok := segments[name]
		if !ok {
			continue
		}
		parts := domain.Extract(name)
		for _, ref := range matches[name] {
			refParts := domain.Extract(ref)
			// e.g. agrosupport.zendesk.com is zendesk.com itself
			if parts.SameRegistered(refParts) {
				continue
			}
			legit := segmentDomain(a.model, strings.Join(refParts.Labels(a.includeTLD), "."))
			if len(legit) == 0 {
				continue
			}
			if a.contains(tokens, legit) {
				verdicts[name] = append(verdicts[name], ref)
			}
		}
	}
	return verdicts
}

// contains anchors order mode on token boundaries at both ends, so neither
// pineapple com nor apple commerce contains apple com
func (a *DomainMatching) contains(tokens, legit []string) bool {
	if a.mode == SubsetMatch {
		set := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			set[t] = true
		}
		for _, l := range legit {
			if !set[l] {
				return false
			}
		}
		return true
	}
	return strings.Contains("."+strings.Join(tokens, ".")+".", "."+strings.Join(legit, ".")+".")
}

// orderedKeys returns the keys of matches following the SAN list, then any
// key not found there
func orderedKeys(sans []string, matches model.Matches) []string {
	keys := make([]string, 0, len(matches))
	seen := map[string]bool{}
	for _, san := range sans {
		name := domain.StripWildcard(san)
		if _, ok := matches[name]; ok && !seen[name] {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	for name := range matches {
		if !seen[name] {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	return keys
}
