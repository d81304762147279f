package analyser

import (
	"strings"
	"unicode/utf8"

	"certmatch/pkg/domain"
	"certmatch/pkg/model"
	"certmatch/pkg/wordsegment"
)

// nonsenseLength is the shortest token considered when measuring randomness
const nonsenseLength = 6

// FeaturesGenerator turns every segmented domain into a feature vector for
// downstream outlier detection:
//   - number of labels
//   - length of the domain
//   - length of the longest label
//   - length of the TLD
//   - share of long tokens unknown to the word model
type FeaturesGenerator struct {
	model *wordsegment.Model
}

// NewFeaturesGenerator returns the stage, it needs WordSegmentation first
func NewFeaturesGenerator(m *wordsegment.Model) *FeaturesGenerator {
	return &FeaturesGenerator{model: m}
}

// Name implements Analyser
func (a *FeaturesGenerator) Name() string {
	return FeaturesName
}

// Run implements Analyser
func (a *FeaturesGenerator) Run(record *model.Record) error {
	out, ok := record.Lookup(WordSegmentationName)
	if !ok {
		return nil
	}
	segments, ok := out.(model.Segments)
	if !ok {
		return nil
	}
	features := model.Features{}
	for name, tokens := range segments {
		features[name] = a.Vector(name, tokens)
	}
	record.Append(a.Name(), features)
	return nil
}

// Vector computes the features of one domain
func (a *FeaturesGenerator) Vector(name string, tokens []string) []float64 {
	name = domain.StripWildcard(name)
	labels := strings.Split(name, ".")
	longest := 0
	for _, l := range labels {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	randomness := 0.0
	if len(tokens) > 0 {
		nonsense := 0
		for _, t := range tokens {
			if utf8.RuneCountInString(t) >= nonsenseLength && !a.model.Known(t) {
				nonsense++
			}
		}
		randomness = float64(nonsense) / float64(len(tokens))
	}
	return []float64{
		float64(len(labels)),
		float64(utf8.RuneCountInString(name)),
		float64(longest),
		float64(utf8.RuneCountInString(labels[len(labels)-1])),
		randomness,
	}
}
