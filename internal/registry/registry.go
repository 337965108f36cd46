// Package registry maintains the deduplicated, sorted lists of known
// creator and application names.
//
// The legacy design kept these as process-global slices refreshed on write.
// Here the cache is an explicit object with an injected store; the lists are
// re-read after every successful ensure, so staleness is bounded by one
// write turnaround. The cache is advisory (autocomplete, select menus);
// authoritative uniqueness lives in the store's UNIQUE constraints.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"paybot/internal/core"
)

// Source is the slice of the store the registry needs.
type Source interface {
	EnsureCreator(ctx context.Context, name string) (bool, error)
	EnsureApp(ctx context.Context, name string) (bool, error)
	ListCreators(ctx context.Context) ([]string, error)
	ListApps(ctx context.Context) ([]string, error)
}

type Registry struct {
	store Source

	mu       sync.RWMutex
	creators []string
	apps     []string
}

func New(store Source) *Registry {
	return &Registry{store: store}
}

// Refresh re-reads both name lists from the store.
func (r *Registry) Refresh(ctx context.Context) error {
	creators, err := r.store.ListCreators(ctx)
	if err != nil {
		return fmt.Errorf("list creators: %w", err)
	}
	apps, err := r.store.ListApps(ctx)
	if err != nil {
		return fmt.Errorf("list apps: %w", err)
	}

	r.mu.Lock()
	r.creators = creators
	r.apps = apps
	r.mu.Unlock()
	return nil
}

// EnsureCreator registers a creator name if new. Returns whether a new
// entry was created, so callers can report "added" vs "already exists".
// Duplicate detection is case-sensitive exact match.
func (r *Registry) EnsureCreator(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, core.ErrEmptyCreator
	}
	created, err := r.store.EnsureCreator(ctx, name)
	if err != nil {
		return false, fmt.Errorf("ensure creator: %w", err)
	}
	if err := r.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// EnsureApp registers an app name if new.
func (r *Registry) EnsureApp(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, core.ErrEmptyApp
	}
	created, err := r.store.EnsureApp(ctx, name)
	if err != nil {
		return false, fmt.Errorf("ensure app: %w", err)
	}
	if err := r.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Creators returns the cached creator names, sorted ascending.
func (r *Registry) Creators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.creators...)
}

// Apps returns the cached app names, sorted ascending.
func (r *Registry) Apps() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.apps...)
}

// HasApp reports whether the exact app name is registered.
func (r *Registry) HasApp(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, app := range r.apps {
		if app == name {
			return true
		}
	}
	return false
}

// SearchApps returns registered app names containing the query
// case-insensitively, preserving sorted order. An empty query returns all.
func (r *Registry) SearchApps(query string) []string {
	return search(r.Apps(), query)
}

// SearchCreators is SearchApps for creator names.
func (r *Registry) SearchCreators(query string) []string {
	return search(r.Creators(), query)
}

func search(names []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return names
	}
	var out []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), query) {
			out = append(out, name)
		}
	}
	return out
}
