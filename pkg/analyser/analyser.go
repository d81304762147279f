// Package analyser holds the stages of the analysis pipeline. Every stage
// reads a record, may look at what earlier stages appended to its ledger,
// and appends its own output.
package analyser

import (
	"sort"
	"strings"
	"sync"

	"certmatch/pkg/index"
	"certmatch/pkg/model"
	"certmatch/pkg/wordsegment"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Stage identifiers, as found in the ledger
const (
	SubstringMatchName   = "SubstringMatch"
	WordSegmentationName = "WordSegmentation"
	BulkDomainMarkerName = "BulkDomainMarker"
	DomainMatchingName   = "DomainMatching"
	IDNADecoderName      = "IDNADecoder"
	HomoglyphsName       = "HomoglyphsDecoder"
	FeaturesName         = "FeaturesGenerator"
	DebuggerName         = "Debugger"
	WhoisName            = "WhoisLookup"
)

// Analyser is a stage of the pipeline
type Analyser interface {
	// Name is the identifier of the stage in the ledger
	Name() string
	// Run analyses the record and appends its output to the ledger
	Run(record *model.Record) error
}

// Settings gathers what the stages need to be built
type Settings struct {
	Domains           []string
	MinMatchingLength int
	Permutations      bool
	BulkThreshold     int
	IncludeTLD        bool
	MatchingOption    string
}

type factory func(s Settings, shared *sharedState) (Analyser, error)

// sharedState lets several stages reuse one index
type sharedState struct {
	once  sync.Once
	index *index.Index
	err   error
}

func (s *sharedState) getIndex(settings Settings) (*index.Index, error) {
	s.once.Do(func() {
		opts := []index.Option{index.WithMinLength(settings.MinMatchingLength)}
		if settings.Permutations {
			opts = append(opts, index.WithPermutations())
		}
		s.index, s.err = index.New(settings.Domains, opts...)
		if s.err == nil {
			log.Infof("Indexed %v patterns from %v domains", s.index.Len(), len(settings.Domains))
		}
	})
	return s.index, s.err
}

var registry = map[string]factory{
	"idna": func(Settings, *sharedState) (Analyser, error) {
		return NewIDNADecoder(), nil
	},
	"homoglyph": func(Settings, *sharedState) (Analyser, error) {
		return NewHomoglyphsDecoder(), nil
	},
	"ahocorasick": func(s Settings, shared *sharedState) (Analyser, error) {
		if len(s.Domains) == 0 {
			return nil, errors.New("ahocorasick needs a non empty list of domains")
		}
		idx, err := shared.getIndex(s)
		if err != nil {
			return nil, err
		}
		return NewSubstringMatch(idx), nil
	},
	"wordsegmentation": func(Settings, *sharedState) (Analyser, error) {
		return NewWordSegmentation(wordsegment.Default()), nil
	},
	"bulk": func(s Settings, _ *sharedState) (Analyser, error) {
		return NewBulkDomainMarker(s.BulkThreshold), nil
	},
	"domainmatching": func(s Settings, _ *sharedState) (Analyser, error) {
		mode, err := ParseMatchingMode(s.MatchingOption)
		if err != nil {
			return nil, err
		}
		return NewDomainMatching(wordsegment.Default(), s.IncludeTLD, mode), nil
	},
	"features": func(Settings, *sharedState) (Analyser, error) {
		return NewFeaturesGenerator(wordsegment.Default()), nil
	},
	"whois": func(Settings, *sharedState) (Analyser, error) {
		return NewWhoisLookup(), nil
	},
	"debugger": func(Settings, *sharedState) (Analyser, error) {
		return NewDebugger(), nil
	},
}

// Supported returns the accepted analyser selectors
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the stages in the given order
func Build(selectors []string, s Settings) ([]Analyser, error) {
	shared := &sharedState{}
	analysers := make([]Analyser, 0, len(selectors))
	for _, name := range selectors {
		f, ok := registry[strings.ToLower(name)]
		if !ok {
			return nil, errors.Errorf("analyser %q is not supported, valid analysers are: %s", name, strings.Join(Supported(), ", "))
		}
		a, err := f(s, shared)
		if err != nil {
			return nil, errors.Wrapf(err, "can't create analyser %q", name)
		}
		analysers = append(analysers, a)
	}
	return analysers, nil
}
