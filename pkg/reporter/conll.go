package reporter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"certmatch/pkg/analyser"
	"certmatch/pkg/domain"
	"certmatch/pkg/model"

	"github.com/kljensen/snowball/english"
	"github.com/pkg/errors"
)

// DefaultCoNLLPath is where the CoNLL reporter writes when no path is set
const DefaultCoNLLPath = "segments.conllu"

// CoNLL dumps the word segmentation of every domain in CoNLL-U format, one
// sentence per domain, for annotation
type CoNLL struct {
	mu sync.Mutex
	f  *os.File
}

// NewCoNLL opens path for appending, creating it if needed
func NewCoNLL(path string) (*CoNLL, error) {
	if path == "" {
		path = DefaultCoNLLPath
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s", path)
	}
	return &CoNLL{f: f}, nil
}

// Name implements Reporter
func (*CoNLL) Name() string { return "conll" }

// Publish implements Reporter. Domains come in SAN order, lemmas are the
// english stems of the words.
func (r *CoNLL) Publish(_ context.Context, record *model.Record) error {
	if record == nil {
		return nil
	}
	out, ok := record.Lookup(analyser.WordSegmentationName)
	if !ok {
		return nil
	}
	segments, ok := out.(model.Segments)
	if !ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	w := bufio.NewWriter(r.f)
	seen := map[string]bool{}
	for _, san := range record.AllDomains {
		name := domain.StripWildcard(san)
		words, ok := segments[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		fmt.Fprintf(w, "# text = %s\n", name)
		for i, word := range words {
			fmt.Fprintf(w, "%d\t%s\t%s\t_\n", i+1, word, english.Stem(word, true))
		}
		fmt.Fprintln(w)
	}
	return errors.Wrap(w.Flush(), "can't write segments")
}

// Close implements Reporter
func (r *CoNLL) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Close()
}
