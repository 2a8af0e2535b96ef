package userforms

import "sync"

// Phase is the lifecycle position of a form.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return "idle"
}

// Status is the single source for what a form shows. Message is only set for
// Succeeded and Failed, so a success and an error can never render together.
type Status struct {
	Phase   Phase
	Message string
	Err     error
}

func (s Status) Loading() bool { return s.Phase == PhaseSubmitting }

func (s Status) Failed() bool { return s.Phase == PhaseFailed }

type statusTracker struct {
	mu     sync.Mutex
	status Status
}

// begin moves to Submitting, or reports ErrSubmitInFlight.
func (t *statusTracker) begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Phase == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	t.status = Status{Phase: PhaseSubmitting}
	return nil
}

func (t *statusTracker) finish(s Status) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
	return s
}

func (t *statusTracker) get() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
