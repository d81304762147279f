package analyser

import (
	"certmatch/pkg/domain"
	"certmatch/pkg/model"
	"certmatch/pkg/wordsegment"
)

// WordSegmentation splits every SAN domain into words, e.g.
// apple-verifyupdate.serveftp.com gives apple verify update serve ftp com
// while arch.mappleonline.com gives arch m apple online com, which makes the
// former easier to tell apart as a phishing domain.
type WordSegmentation struct {
	model *wordsegment.Model
}

// NewWordSegmentation returns the stage over a word model
func NewWordSegmentation(m *wordsegment.Model) *WordSegmentation {
	return &WordSegmentation{model: m}
}

// Name implements Analyser
func (a *WordSegmentation) Name() string {
	return WordSegmentationName
}

// Run implements Analyser
func (a *WordSegmentation) Run(record *model.Record) error {
	results := model.Segments{}
	for _, san := range record.AllDomains {
		name := domain.StripWildcard(san)
		results[name] = a.Segment(name)
	}
	if len(results) > 0 {
		record.Append(a.Name(), results)
	}
	return nil
}

// Segment returns the words of a domain, label by label, without stopwords
func (a *WordSegmentation) Segment(name string) []string {
	return segmentDomain(a.model, name)
}

// segmentDomain is shared with DomainMatching so that observed and reference
// domains are split the same way
func segmentDomain(m *wordsegment.Model, name string) []string {
	return wordsegment.RemoveStopwords(m.SegmentAll(wordsegment.Tokenize(name)))
}
