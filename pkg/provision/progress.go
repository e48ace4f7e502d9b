package provision

import "time"

// ProgressEvent represents a provisioning progress update.
type ProgressEvent struct {
	StepID    string    // ID of the step emitting the event
	Message   string    // Human-readable message
	Command   string    // Command being executed, when applicable
	Percent   int       // 0-100 across the whole run, -1 for indeterminate
	IsError   bool      // True if this is an error message
	IsWarning bool      // True if this is a warning message
	Timestamp time.Time // When this event occurred
}

// ProgressCallback is called with progress updates during provisioning.
type ProgressCallback func(ProgressEvent)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ ProgressEvent) {}

// ProgressTracker collects progress events for later review.
type ProgressTracker struct {
	events []ProgressEvent
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{events: make([]ProgressEvent, 0)}
}

// Callback returns a ProgressCallback that records events.
func (t *ProgressTracker) Callback() ProgressCallback {
	return func(e ProgressEvent) {
		t.events = append(t.events, e)
	}
}

// Events returns all recorded events.
func (t *ProgressTracker) Events() []ProgressEvent {
	return t.events
}

// HasErrors returns true if any error events were recorded.
func (t *ProgressTracker) HasErrors() bool {
	for _, e := range t.events {
		if e.IsError {
			return true
		}
	}
	return false
}
