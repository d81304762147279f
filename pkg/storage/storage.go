// Package storage keeps a copy of every certificate entering the pipeline,
// before any analysis.
package storage

import (
	"context"
	"sort"
	"strings"

	"certmatch/pkg/model"

	"github.com/pkg/errors"
)

// Storage persists records
type Storage interface {
	Name() string
	Save(ctx context.Context, record *model.Record) error
	Close() error
}

// Settings gathers what the storages need to be built
type Settings struct {
	Path        string
	PostgresURL string
}

type factory func(ctx context.Context, s Settings) (Storage, error)

var registry = map[string]factory{
	"file": func(_ context.Context, s Settings) (Storage, error) {
		return NewFile(s.Path)
	},
	"postgres": func(ctx context.Context, s Settings) (Storage, error) {
		return NewPostgres(ctx, s.PostgresURL)
	},
}

// Supported returns the accepted storage selectors
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the storages in the given order. Already opened storages are
// closed when one fails.
func Build(ctx context.Context, selectors []string, s Settings) ([]Storage, error) {
	storages := make([]Storage, 0, len(selectors))
	for _, name := range selectors {
		f, ok := registry[strings.ToLower(name)]
		if !ok {
			closeAll(storages)
			return nil, errors.Errorf("storage %q is not supported, valid storages are: %s", name, strings.Join(Supported(), ", "))
		}
		st, err := f(ctx, s)
		if err != nil {
			closeAll(storages)
			return nil, errors.Wrapf(err, "can't create storage %q", name)
		}
		storages = append(storages, st)
	}
	return storages, nil
}

func closeAll(storages []Storage) {
	for _, s := range storages {
		s.Close()
	}
}
