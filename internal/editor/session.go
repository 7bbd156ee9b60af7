package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alnah/go-markvis"
)

// Improver rewrites markdown following an instruction.
type Improver interface {
	Improve(ctx context.Context, markdown, instruction string) (string, error)
}

// Session guards one editor State. All methods are safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	state State
}

// NewSession creates a session starting from s.
func NewSession(s State) *Session {
	return &Session{state: s}
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply reduces a into the session state. The state is unchanged on error.
func (s *Session) Apply(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, a)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// Enhance runs one improvement of the current source. A call made while
// another is in flight fails with ErrBusy without reaching imp. The lock
// is not held during the model call, so the session stays readable.
//
// On failure the source is left as it was and the error is returned
// alongside a state carrying a notice.
func (s *Session) Enhance(ctx context.Context, imp Improver, instruction string) (State, markvis.Changes, error) {
	s.mu.Lock()
	next, err := BeginEnhance(s.state)
	if err != nil {
		st := s.state
		s.mu.Unlock()
		return st, markvis.Changes{}, err
	}
	s.state = next
	before := next.Source
	s.mu.Unlock()

	improved, err := improveSafely(ctx, imp, before, instruction)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = FinishEnhance(s.state, improved, err, errors.Is(err, markvis.ErrMissingCredential))
	if err != nil {
		return s.state, markvis.Changes{}, err
	}
	return s.state, markvis.Summarize(before, improved), nil
}

// improveSafely turns a panic inside imp into an enhancement error so the
// session always leaves the busy state.
func improveSafely(ctx context.Context, imp Improver, markdown, instruction string) (improved string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			improved, err = "", fmt.Errorf("%w: improver panicked: %v", markvis.ErrEnhancement, rec)
		}
	}()
	return imp.Improve(ctx, markdown, instruction)
}
