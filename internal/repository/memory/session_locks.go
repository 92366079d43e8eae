package memory

import (
	"sync"

	"github.com/google/uuid"
)

// SessionLocks serializes message handling per chat session. Risk counts are
// derived from stored history, so two concurrent turns on the same session
// must not interleave their read-assess-write cycles.
type SessionLocks struct {
	mu sync.Map // uuid.UUID -> *sync.Mutex
}

func NewSessionLocks() *SessionLocks {
	return &SessionLocks{}
}

// Lock acquires the mutex for the given session and returns its unlock func.
func (l *SessionLocks) Lock(sessionId uuid.UUID) func() {
	actual, _ := l.mu.LoadOrStore(sessionId, &sync.Mutex{})
	m := actual.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
