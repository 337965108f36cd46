package bot

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// The submission wizard is an explicit state machine. Each user walks
// creator selection, app selection and the details form in order; every
// transition checks the current state, so a stray component interaction
// can never skip a step or submit twice.

type WizardState int

const (
	StateSelectingCreator WizardState = iota
	StateSelectingApp
	StateEnteringDetails
	StateSubmitted
)

func (s WizardState) String() string {
	switch s {
	case StateSelectingCreator:
		return "selecting_creator"
	case StateSelectingApp:
		return "selecting_app"
	case StateEnteringDetails:
		return "entering_details"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

var ErrWrongState = errors.New("wizard is not in the expected state")

// WizardSession is one user's progress through the submission flow.
type WizardSession struct {
	State WizardState
	// Creator is empty while NewCreator is true; the name then comes from
	// the details form.
	Creator    string
	NewCreator bool
	App        string
	StartedAt  time.Time
}

// SelectCreator records the chosen creator and advances to app selection.
// newCreator marks that the name will be typed into the details form
// instead.
func (s *WizardSession) SelectCreator(name string, newCreator bool) error {
	if s.State != StateSelectingCreator {
		return fmt.Errorf("%w: select creator in %s", ErrWrongState, s.State)
	}
	if !newCreator && name == "" {
		return errors.New("empty creator selection")
	}
	s.Creator = name
	s.NewCreator = newCreator
	s.State = StateSelectingApp
	return nil
}

// SelectApp records the chosen app and advances to the details form.
func (s *WizardSession) SelectApp(name string) error {
	if s.State != StateSelectingApp {
		return fmt.Errorf("%w: select app in %s", ErrWrongState, s.State)
	}
	if name == "" {
		return errors.New("empty app selection")
	}
	s.App = name
	s.State = StateEnteringDetails
	return nil
}

// Complete marks the wizard finished after a successful submission.
func (s *WizardSession) Complete() error {
	if s.State != StateEnteringDetails {
		return fmt.Errorf("%w: complete in %s", ErrWrongState, s.State)
	}
	s.State = StateSubmitted
	return nil
}

// wizardTTL bounds how long an abandoned flow lingers.
const wizardTTL = 15 * time.Minute

// WizardStore tracks in-flight wizard sessions per user.
type WizardStore struct {
	mu       sync.Mutex
	sessions map[string]*WizardSession
}

func NewWizardStore() *WizardStore {
	return &WizardStore{sessions: make(map[string]*WizardSession)}
}

// Begin starts a fresh session for the user, replacing any abandoned one.
func (w *WizardStore) Begin(userID string) *WizardSession {
	w.mu.Lock()
	defer w.mu.Unlock()

	session := &WizardSession{
		State:     StateSelectingCreator,
		StartedAt: time.Now(),
	}
	w.sessions[userID] = session
	return session
}

// Get returns the user's in-flight session, if any.
func (w *WizardStore) Get(userID string) (*WizardSession, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	session, ok := w.sessions[userID]
	if !ok {
		return nil, false
	}
	if time.Since(session.StartedAt) > wizardTTL {
		delete(w.sessions, userID)
		return nil, false
	}
	return session, true
}

// End discards the user's session.
func (w *WizardStore) End(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.sessions, userID)
}
