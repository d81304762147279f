package reporter

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"certmatch/pkg/model"

	"github.com/pkg/errors"
)

// DefaultPath is where the file reporter writes when no path is set
const DefaultPath = "report.jsonl"

// File writes one JSON document per analysed record
type File struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewFile opens path for appending, creating it if needed
func NewFile(path string) (*File, error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s", path)
	}
	return &File{f: f, enc: json.NewEncoder(f)}, nil
}

// Name implements Reporter
func (*File) Name() string { return "file" }

// Publish implements Reporter, records without any analysis are skipped
func (r *File) Publish(_ context.Context, record *model.Record) error {
	if record == nil || len(record.Analysers) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Wrap(r.enc.Encode(record), "can't write report")
}

// Close implements Reporter
func (r *File) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Close()
}
