package errors

import "sync"

// Log collects errors that must not abort the operation that produced them.
// A nil *Log discards everything, so components can record unconditionally.
type Log struct {
	mu      sync.Mutex
	entries []error
}

// NewLog creates an empty error log
func NewLog() *Log {
	return &Log{}
}

// Record appends err to the log. Nil errors are ignored.
func (l *Log) Record(err error) {
	if l == nil || err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, err)
}

// Errors returns a copy of the recorded errors in recording order
func (l *Log) Errors() []error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]error, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded errors
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear drops all recorded errors
func (l *Log) Clear() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
