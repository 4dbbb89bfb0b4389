package core

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// RosterLoader fetches the current list of athlete ids.
type RosterLoader func(ctx context.Context) ([]string, error)

// Registry caches the athlete roster. It starts empty, loads on first use and
// stays loaded until Invalidate is called.
type Registry struct {
	mu        sync.Mutex
	load      RosterLoader
	ids       []string
	known     map[string]struct{}
	populated bool
}

// NewRegistry creates an empty registry that fills itself with load.
func NewRegistry(load RosterLoader) *Registry {
	return &Registry{load: load}
}

// EnsurePopulated loads the roster when the registry is empty. A loaded
// registry is left as is.
func (r *Registry) EnsurePopulated(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureLocked(ctx)
}

func (r *Registry) ensureLocked(ctx context.Context) error {
	if r.populated {
		return nil
	}
	ids, err := r.load(ctx)
	if err != nil {
		return err
	}
	r.ids = ids
	r.known = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		r.known[id] = struct{}{}
	}
	r.populated = true
	return nil
}

// Validate fails with an *InvalidAthleteError when id is not in the roster.
func (r *Registry) Validate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLocked(ctx); err != nil {
		return err
	}
	if _, ok := r.known[id]; ok {
		return nil
	}
	known := slices.Clone(r.ids)
	slices.Sort(known)
	return &InvalidAthleteError{Athlete: id, Known: known}
}

// Athletes returns the roster in load order.
func (r *Registry) Athletes(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLocked(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(r.ids), nil
}

// Populated reports whether the roster is loaded.
func (r *Registry) Populated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.populated
}

// Invalidate empties the registry so the next use reloads the roster.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = nil
	r.known = nil
	r.populated = false
}

// ParseRoster extracts athlete ids from the roster CSV. The first line is the
// header and the last line is the trailing remainder after the final newline;
// both are dropped. Each remaining line contributes its first comma field.
func ParseRoster(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return nil
	}
	var ids []string
	for _, line := range lines[1 : len(lines)-1] {
		id, _, _ := strings.Cut(strings.TrimSuffix(line, "\r"), ",")
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
