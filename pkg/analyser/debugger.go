package analyser

import (
	"encoding/json"
	"sync/atomic"

	"certmatch/pkg/model"

	log "github.com/sirupsen/logrus"
)

// Debugger logs every record it sees and counts them
type Debugger struct {
	count int64
}

// NewDebugger returns the stage
func NewDebugger() *Debugger {
	return &Debugger{}
}

// Name implements Analyser
func (a *Debugger) Name() string {
	return DebuggerName
}

// Run implements Analyser
func (a *Debugger) Run(record *model.Record) error {
	j, _ := json.Marshal(record)
	log.Infof("Record: %s", j)
	record.Append(a.Name(), model.Count(atomic.AddInt64(&a.count, 1)))
	return nil
}

// Count returns the number of records seen so far
func (a *Debugger) Count() int64 {
	return atomic.LoadInt64(&a.count)
}
