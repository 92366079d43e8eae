package crisis

// Level classifies accumulated risk signal within a session.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// EscalationThreshold is the positive-message count at which an automatic
// escalation fires. Counts below it are recorded for analytics only.
const EscalationThreshold = 3

// DefaultWindow is how many recent user-authored messages are re-scanned per
// assessment. A fixed count, not a time window.
const DefaultWindow = 10

// Decision maps a rolling risk count to an escalation level. Transient,
// derived per request; the count is always recomputable from the message log.
type Decision struct {
	Count int
	Level Level
}

// ShouldEscalate reports whether the decision crosses the critical threshold.
func (d Decision) ShouldEscalate() bool {
	return d.Count >= EscalationThreshold
}

// LevelForCount maps a risk-positive count to a level.
func LevelForCount(count int) Level {
	switch {
	case count >= 3:
		return LevelCritical
	case count >= 2:
		return LevelHigh
	case count >= 1:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Tracker computes session risk by re-running detection over a recency
// window of prior user messages plus the current one. It re-derives state on
// every call instead of trusting stored flags; repeated computation is the
// price for keeping the message log the single source of truth.
type Tracker struct {
	detector *Detector
	window   int
}

// NewTracker builds a tracker over the given detector. A window of 10 recent
// user messages is the production setting.
func NewTracker(detector *Detector, window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		detector: detector,
		window:   window,
	}
}

// Window returns the recency window size; callers use it as the fetch limit
// when loading history.
func (t *Tracker) Window() int {
	return t.window
}

// Detector exposes the underlying phrase matcher for callers that need the
// matched phrases themselves, not just the count.
func (t *Tracker) Detector() *Detector {
	return t.detector
}

// Assess counts risk-positive messages among history plus current and maps
// the count to a level. History beyond the window is ignored even if the
// caller over-fetched.
func (t *Tracker) Assess(history []string, current string) Decision {
	if len(history) > t.window {
		history = history[:t.window]
	}

	count := 0
	for _, msg := range history {
		if t.detector.Detect(msg).Found {
			count++
		}
	}
	if t.detector.Detect(current).Found {
		count++
	}

	return Decision{
		Count: count,
		Level: LevelForCount(count),
	}
}
