// Package progress is the single status channel shared by merges, reconcilers
// and chunked writers
package progress

import (
	"sync"

	"missionsync/internal/platform/logger"
)

// Listener receives milestones as (message, current, max)
// max == 0 means the total is not known
type Listener interface {
	Progress(msg string, current, max int)
}

// Func adapts a plain callback to a Listener
type Func func(msg string, current, max int)

// Progress implements Listener
func (f Func) Progress(msg string, current, max int) {
	if f != nil {
		f(msg, current, max)
	}
}

// Reporter fans milestones out to listeners in registration order
// the zero value is ready to use and reports to nobody
type Reporter struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewReporter builds a reporter with the given listeners already registered
func NewReporter(ls ...Listener) *Reporter {
	r := &Reporter{}
	for _, l := range ls {
		r.Register(l)
	}
	return r
}

// Register appends a listener, nil is ignored
func (r *Reporter) Register(l Listener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// Len returns the number of registered listeners
func (r *Reporter) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// Progress implements Listener so reporters can be nested
func (r *Reporter) Progress(msg string, current, max int) {
	if r == nil {
		return
	}
	r.mu.RLock()
	ls := append([]Listener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, l := range ls {
		l.Progress(msg, current, max)
	}
}

// Report is shorthand for an indeterminate status line
func (r *Reporter) Report(msg string) { r.Progress(msg, 0, 0) }

// Nop discards everything
var Nop Listener = Func(func(string, int, int) {})

// Or returns l, or Nop when l is nil
func Or(l Listener) Listener {
	if l == nil {
		return Nop
	}
	return l
}

// Logged writes each milestone through log at debug level
// indeterminate milestones omit the counters
func Logged(log *logger.Logger) Listener {
	if log == nil {
		return Nop
	}
	return Func(func(msg string, current, max int) {
		evt := log.Debug()
		if max > 0 {
			evt = evt.Int("current", current).Int("max", max)
		}
		evt.Msg(msg)
	})
}

// Recorder keeps every milestone in memory, mostly for tests and API replies
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

// Event is one recorded milestone
type Event struct {
	Message string `json:"message"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
}

// Progress implements Listener
func (r *Recorder) Progress(msg string, current, max int) {
	r.mu.Lock()
	r.Events = append(r.Events, Event{Message: msg, Current: current, Max: max})
	r.mu.Unlock()
}

// Snapshot returns a copy of the recorded events
func (r *Recorder) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.Events...)
}
