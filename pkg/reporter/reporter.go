// Package reporter publishes analysed records.
package reporter

import (
	"context"
	"sort"
	"strings"

	"certmatch/pkg/model"

	"github.com/pkg/errors"
)

// Reporter publishes a record once every stage ran
type Reporter interface {
	Name() string
	Publish(ctx context.Context, record *model.Record) error
	Close() error
}

// Settings gathers what the reporters need to be built
type Settings struct {
	Path      string
	CoNLLPath string
	Slack     SlackConfig
}

type factory func(s Settings) (Reporter, error)

var registry = map[string]factory{
	"file": func(s Settings) (Reporter, error) {
		return NewFile(s.Path)
	},
	"conll": func(s Settings) (Reporter, error) {
		return NewCoNLL(s.CoNLLPath)
	},
	"slack": func(s Settings) (Reporter, error) {
		return NewSlack(s.Slack)
	},
}

// Supported returns the accepted reporter selectors
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the reporters in the given order
func Build(selectors []string, s Settings) ([]Reporter, error) {
	reporters := make([]Reporter, 0, len(selectors))
	for _, name := range selectors {
		f, ok := registry[strings.ToLower(name)]
		if !ok {
			closeAll(reporters)
			return nil, errors.Errorf("reporter %q is not supported, valid reporters are: %s", name, strings.Join(Supported(), ", "))
		}
		r, err := f(s)
		if err != nil {
			closeAll(reporters)
			return nil, errors.Wrapf(err, "can't create reporter %q", name)
		}
		reporters = append(reporters, r)
	}
	return reporters, nil
}

func closeAll(reporters []Reporter) {
	for _, r := range reporters {
		r.Close()
	}
}
