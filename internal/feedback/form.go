package feedback

import (
	"context"
	"errors"
	"sync"
)

// State is the submission lifecycle: idle -> in-flight -> succeeded | failed.
type State int

const (
	StateIdle State = iota
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in-flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrInFlight is returned when Submit is called while a previous submission is pending.
var ErrInFlight = errors.New("a feedback submission is already in flight")

// Form owns the state of one feedback view. It allows at most one in-flight submission;
// a finished form can be submitted again.
type Form struct {
	submitter Submitter

	mu       sync.Mutex
	state    State
	response *Response
	err      error
}

func NewForm(s Submitter) *Form {
	return &Form{submitter: s}
}

// Submit runs one submission and records its outcome.
func (f *Form) Submit(ctx context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	if f.state == StateInFlight {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	f.state = StateInFlight
	f.response = nil
	f.err = nil
	f.mu.Unlock()

	resp, err := f.submitter.Submit(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.err = err
		return nil, err
	}
	f.state = StateSucceeded
	f.response = resp
	return resp, nil
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result returns the last response or error. Both are nil unless the form has finished.
func (f *Form) Result() (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.response, f.err
}
