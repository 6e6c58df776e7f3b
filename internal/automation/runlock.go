package automation

import "sync"

// runLocks prevents two concurrent batch runs against the same sheet from
// racing on the output directory and cell writes.
type runLocks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newRunLocks() *runLocks {
	return &runLocks{
		active: make(map[string]struct{}),
	}
}

// TryAcquire reports whether a run for the sheet may start.
func (l *runLocks) TryAcquire(sheetID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, running := l.active[sheetID]; running {
		return false
	}
	l.active[sheetID] = struct{}{}
	return true
}

func (l *runLocks) Release(sheetID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.active, sheetID)
}
