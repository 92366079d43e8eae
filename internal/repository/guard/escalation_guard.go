package guard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EscalationGuard rate-limits crisis escalation emails per session. TryAcquire
// reports whether this caller won the cooldown slot; a false return means an
// escalation for the session was already dispatched within the cooldown.
//
// Guards fail open: if the backing store is unreachable we would rather send
// a duplicate alert than drop one.
type EscalationGuard interface {
	TryAcquire(ctx context.Context, sessionId uuid.UUID, cooldown time.Duration) bool
}
