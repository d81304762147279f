package analyser

import "certmatch/pkg/model"

// BulkDomainThreshold is the default number of SAN domains from which a
// certificate is considered a bulk registration
const BulkDomainThreshold = 15

// BulkDomainMarker marks certificates carrying a large number of SAN
// domains. They are mostly unrelated names from some bulk registration,
// benign or not, and are likely spam.
type BulkDomainMarker struct {
	threshold int
}

// NewBulkDomainMarker returns the stage, a threshold below 1 means the
// default one
func NewBulkDomainMarker(threshold int) *BulkDomainMarker {
	if threshold < 1 {
		threshold = BulkDomainThreshold
	}
	return &BulkDomainMarker{threshold: threshold}
}

// Name implements Analyser
func (a *BulkDomainMarker) Name() string {
	return BulkDomainMarkerName
}

// Run implements Analyser. An entry is always appended, false included.
func (a *BulkDomainMarker) Run(record *model.Record) error {
	record.Append(a.Name(), model.Bulk(len(record.AllDomains) >= a.threshold))
	return nil
}
