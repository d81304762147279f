package storage

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"certmatch/pkg/model"

	"github.com/pkg/errors"
)

// DefaultPath is where the file storage writes when no path is set
const DefaultPath = "certificates.jsonl"

// File appends one JSON document per record
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

// Name implements Storage
func (*File) Name() string { return "file" }

// Save implements Storage
func (s *File) Save(_ context.Context, record *model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Wrap(s.enc.Encode(record), "can't write record")
}

// Close implements Storage
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
