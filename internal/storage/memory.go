package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"paybot/internal/core"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store for tests and local development. It
// honors the same contracts as the SQLite store, including case-sensitive
// registry uniqueness.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	payments []core.PaymentRecord
	creators map[string]struct{}
	apps     map[string]struct{}
	mirrored map[int64]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		creators: make(map[string]struct{}),
		apps:     make(map[string]struct{}),
		mirrored: make(map[int64]bool),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) AppendPayment(_ context.Context, rec core.PaymentRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.creators[rec.CreatorName]; !ok {
		return 0, fmt.Errorf("creator %q not registered", rec.CreatorName)
	}
	if _, ok := s.apps[rec.AppName]; !ok {
		return 0, fmt.Errorf("app %q: %w", rec.AppName, core.ErrUnknownApp)
	}

	rec.ID = s.nextID
	s.nextID++
	s.payments = append(s.payments, rec)
	return rec.ID, nil
}

func (s *MemoryStore) GetPayment(_ context.Context, id int64) (core.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.payments {
		if rec.ID == id {
			return rec, nil
		}
	}
	return core.PaymentRecord{}, fmt.Errorf("payment %d: %w", id, core.ErrNotFound)
}

func (s *MemoryStore) QueryPayments(_ context.Context, start, end core.Date, userFilter, appFilter string) ([]core.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userFilter = asciiLower(userFilter)
	appFilter = asciiLower(appFilter)

	var out []core.PaymentRecord
	for _, rec := range s.payments {
		if rec.Date.Before(start.Time) || !rec.Date.Before(end.Time) {
			continue
		}
		if userFilter != "" && !strings.Contains(asciiLower(rec.Submitter), userFilter) {
			continue
		}
		if appFilter != "" && !strings.Contains(asciiLower(rec.AppName), appFilter) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// asciiLower folds ASCII letters only, matching SQLite's lower(). Both
// backends therefore treat non-ASCII filter text identically: exact bytes
// match, differently-cased non-ASCII does not.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func (s *MemoryStore) EnsureCreator(_ context.Context, name string) (bool, error) {
	return s.ensure(s.creators, name)
}

func (s *MemoryStore) EnsureApp(_ context.Context, name string) (bool, error) {
	return s.ensure(s.apps, name)
}

func (s *MemoryStore) ensure(set map[string]struct{}, name string) (bool, error) {
	if name == "" {
		return false, core.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := set[name]; exists {
		return false, nil
	}
	set[name] = struct{}{}
	return true, nil
}

func (s *MemoryStore) ListCreators(_ context.Context) ([]string, error) {
	return s.list(s.creators), nil
}

func (s *MemoryStore) ListApps(_ context.Context) ([]string, error) {
	return s.list(s.apps), nil
}

func (s *MemoryStore) list(set map[string]struct{}) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *MemoryStore) ListUnmirrored(_ context.Context, limit int) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for _, rec := range s.payments {
		if len(ids) >= limit {
			break
		}
		if !s.mirrored[rec.ID] {
			ids = append(ids, rec.ID)
		}
	}
	return ids, nil
}

func (s *MemoryStore) MarkMirrored(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirrored[id] = true
	return nil
}
