// Package pipeline drives certificates from a feed through the storages,
// the analysis stages and the reporters.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"certmatch/pkg/analyser"
	"certmatch/pkg/cache"
	"certmatch/pkg/model"
	"certmatch/pkg/reporter"
	"certmatch/pkg/storage"
	"certmatch/pkg/transformer"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyRunning = errors.New("pipeline already running")
	ErrNotRunning     = errors.New("pipeline not running")
)

// DefaultWorkers is the number of records processed concurrently
const DefaultWorkers = 20

// Source feeds raw messages until ctx is done
type Source interface {
	Run(ctx context.Context, out chan<- []byte) error
}

// Stats are the counters of an Engine
type Stats struct {
	Received    int64 `json:"received"`
	Dropped     int64 `json:"dropped"`
	Duplicates  int64 `json:"duplicates"`
	Processed   int64 `json:"processed"`
	Flagged     int64 `json:"flagged"`
	StageErrors int64 `json:"stage_errors"`
	SinkErrors  int64 `json:"sink_errors"`
	Running     bool  `json:"running"`
}

type counters struct {
	received, dropped, duplicates, processed, flagged, stageErrors, sinkErrors atomic.Int64
}

// Engine runs the pipeline. Stages must be safe for concurrent use, records
// never are shared between workers.
type Engine struct {
	transformer transformer.Transformer
	storages    []storage.Storage
	analysers   []analyser.Analyser
	reporters   []reporter.Reporter
	dedup       *cache.Cache
	workers     int
	log         *log.Entry
	stats       counters

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns an engine with no stage and no sink
func New(t transformer.Transformer) *Engine {
	return &Engine{
		transformer: t,
		workers:     DefaultWorkers,
		log:         log.WithField("component", "pipeline"),
	}
}

// WithStorages sets where incoming records are saved
func (e *Engine) WithStorages(s ...storage.Storage) *Engine {
	e.storages = s
	return e
}

// WithAnalysers sets the stages, run in the given order
func (e *Engine) WithAnalysers(a ...analyser.Analyser) *Engine {
	e.analysers = a
	return e
}

// WithReporters sets where analysed records are published
func (e *Engine) WithReporters(r ...reporter.Reporter) *Engine {
	e.reporters = r
	return e
}

// WithDedup drops certificates seen among the last size ones
func (e *Engine) WithDedup(size int) *Engine {
	if size > 0 {
		e.dedup = cache.New(size)
	}
	return e
}

// WithWorkers sets the number of concurrent workers
func (e *Engine) WithWorkers(n int) *Engine {
	if n > 0 {
		e.workers = n
	}
	return e
}

// Process runs one raw message through the pipeline. It returns the
// analysed record, nil when the message was dropped. A failing stage or sink
// is logged and counted, it never stops the record.
func (e *Engine) Process(ctx context.Context, raw []byte) (*model.Record, error) {
	e.stats.received.Add(1)
	record, err := e.transformer.Apply(raw)
	if err != nil {
		e.stats.dropped.Add(1)
		return nil, err
	}
	if record == nil {
		e.stats.dropped.Add(1)
		return nil, nil
	}
	if e.dedup != nil && !e.dedup.Store(dedupKey(record)) {
		e.stats.duplicates.Add(1)
		return nil, nil
	}

	for _, s := range e.storages {
		if err := s.Save(ctx, record); err != nil {
			e.stats.sinkErrors.Add(1)
			e.log.Warnf("Storage %s failed on certificate %d: %v", s.Name(), record.CertIndex, err)
		}
	}

	for _, a := range e.analysers {
		if err := e.run(a, record); err != nil {
			e.stats.stageErrors.Add(1)
			e.log.Warnf("Analyser %s failed on certificate %d: %v", a.Name(), record.CertIndex, err)
		}
	}
	if _, ok := record.Lookup(analyser.DomainMatchingName); ok {
		e.stats.flagged.Add(1)
	}

	for _, r := range e.reporters {
		if err := r.Publish(ctx, record); err != nil {
			e.stats.sinkErrors.Add(1)
			e.log.Warnf("Reporter %s failed on certificate %d: %v", r.Name(), record.CertIndex, err)
		}
	}
	e.stats.processed.Add(1)
	return record, nil
}

// run calls a stage, turning a panic into an error
func (e *Engine) run(a analyser.Analyser, record *model.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Debugf("Analyser %s panicked: %s", a.Name(), debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Run(record)
}

func dedupKey(r *model.Record) string {
	if r.Fingerprint != "" {
		return r.Fingerprint
	}
	return strings.Join(r.AllDomains, ",")
}

// Start reads source and processes its messages in the background until
// ctx is done or Stop is called
func (e *Engine) Start(ctx context.Context, source Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})

	// records already read are finished even once the feed is cancelled
	procCtx := context.WithoutCancel(ctx)
	messages := make(chan []byte, e.workers)
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range messages {
				if _, err := e.Process(procCtx, msg); err != nil {
					e.log.Warnf("Error parsing message: %v", err)
				}
			}
		}()
	}

	go func(done chan struct{}) {
		defer close(done)
		if err := source.Run(runCtx, messages); err != nil {
			e.log.Errorf("Feed stopped: %v", err)
		}
		close(messages)
		wg.Wait()

		e.mu.Lock()
		if e.done == done {
			e.cancel = nil
		}
		e.mu.Unlock()
		cancel()
		e.log.Info("Pipeline stopped")
	}(e.done)

	e.log.Infof("Pipeline started with %d workers", e.workers)
	return nil
}

// Stop halts the feed and waits for the queued and in-flight records to be
// stored and reported
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.cancel == nil {
		e.mu.Unlock()
		return ErrNotRunning
	}
	e.cancel()
	e.cancel = nil
	done := e.done
	e.mu.Unlock()

	<-done
	return nil
}

// Done is closed once the pipeline stopped, nil if it never started
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// IsRunning tells whether Start was called without a matching Stop
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancel != nil
}

// Stats returns a snapshot of the counters
func (e *Engine) Stats() Stats {
	return Stats{
		Received:    e.stats.received.Load(),
		Dropped:     e.stats.dropped.Load(),
		Duplicates:  e.stats.duplicates.Load(),
		Processed:   e.stats.processed.Load(),
		Flagged:     e.stats.flagged.Load(),
		StageErrors: e.stats.stageErrors.Load(),
		SinkErrors:  e.stats.sinkErrors.Load(),
		Running:     e.IsRunning(),
	}
}

// Close releases the storages and reporters
func (e *Engine) Close() error {
	var errs []string
	for _, s := range e.storages {
		if err := s.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	for _, r := range e.reporters {
		if err := r.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("can't close sinks: %s", strings.Join(errs, "; "))
	}
	return nil
}
