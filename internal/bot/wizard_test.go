package bot

import (
	"errors"
	"testing"
	"time"
)

func TestWizardHappyPath(t *testing.T) {
	s := &WizardSession{State: StateSelectingCreator, StartedAt: time.Now()}

	if err := s.SelectCreator("Jane Doe", false); err != nil {
		t.Fatalf("SelectCreator: %v", err)
	}
	if s.State != StateSelectingApp {
		t.Fatalf("state after creator = %v, want %v", s.State, StateSelectingApp)
	}
	if err := s.SelectApp("Astra"); err != nil {
		t.Fatalf("SelectApp: %v", err)
	}
	if s.State != StateEnteringDetails {
		t.Fatalf("state after app = %v, want %v", s.State, StateEnteringDetails)
	}
	if err := s.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if s.State != StateSubmitted {
		t.Fatalf("state after complete = %v, want %v", s.State, StateSubmitted)
	}
}

func TestWizardNewCreatorDefersName(t *testing.T) {
	s := &WizardSession{State: StateSelectingCreator, StartedAt: time.Now()}

	if err := s.SelectCreator("", true); err != nil {
		t.Fatalf("SelectCreator(new): %v", err)
	}
	if !s.NewCreator {
		t.Fatal("NewCreator not set")
	}
	if s.Creator != "" {
		t.Fatalf("Creator = %q, want empty until the details form", s.Creator)
	}
}

func TestWizardRejectsOutOfOrderTransitions(t *testing.T) {
	tests := []struct {
		name string
		s    WizardSession
		call func(*WizardSession) error
	}{
		{
			name: "app before creator",
			s:    WizardSession{State: StateSelectingCreator},
			call: func(s *WizardSession) error { return s.SelectApp("Astra") },
		},
		{
			name: "complete before details",
			s:    WizardSession{State: StateSelectingApp},
			call: func(s *WizardSession) error { return s.Complete() },
		},
		{
			name: "creator selected twice",
			s:    WizardSession{State: StateSelectingApp},
			call: func(s *WizardSession) error { return s.SelectCreator("Jane", false) },
		},
		{
			name: "complete twice",
			s:    WizardSession{State: StateSubmitted},
			call: func(s *WizardSession) error { return s.Complete() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(&tt.s); !errors.Is(err, ErrWrongState) {
				t.Fatalf("err = %v, want ErrWrongState", err)
			}
		})
	}
}

func TestWizardRejectsEmptySelections(t *testing.T) {
	s := &WizardSession{State: StateSelectingCreator}
	if err := s.SelectCreator("", false); err == nil {
		t.Fatal("expected error for empty creator selection")
	}

	s = &WizardSession{State: StateSelectingApp}
	if err := s.SelectApp(""); err == nil {
		t.Fatal("expected error for empty app selection")
	}
}

func TestWizardStoreLifecycle(t *testing.T) {
	store := NewWizardStore()

	if _, ok := store.Get("u1"); ok {
		t.Fatal("unexpected session before Begin")
	}

	session := store.Begin("u1")
	if session.State != StateSelectingCreator {
		t.Fatalf("initial state = %v, want %v", session.State, StateSelectingCreator)
	}

	got, ok := store.Get("u1")
	if !ok || got != session {
		t.Fatal("Get did not return the started session")
	}

	// Begin replaces an in-flight session.
	replacement := store.Begin("u1")
	got, _ = store.Get("u1")
	if got != replacement {
		t.Fatal("Begin did not replace the existing session")
	}

	store.End("u1")
	if _, ok := store.Get("u1"); ok {
		t.Fatal("session survived End")
	}
}

func TestWizardStoreExpiresStaleSessions(t *testing.T) {
	store := NewWizardStore()
	session := store.Begin("u1")
	session.StartedAt = time.Now().Add(-wizardTTL - time.Minute)

	if _, ok := store.Get("u1"); ok {
		t.Fatal("stale session not expired")
	}
}
