package preset

import (
	"errors"
	"fmt"
)

// #region errors
var (
	// ErrDuplicate is returned when adding a preset whose id already exists.
	ErrDuplicate = errors.New("duplicate preset id")
	// ErrNotFound is returned when looking up an unknown preset id.
	ErrNotFound = errors.New("preset not found")
)

// #endregion errors

// #region registry
// Registry is an in-memory keyed collection of preset banks.
// It is read-only after population and safe to share across readers;
// population happens once at startup.
type Registry struct {
	byID  map[string]Bank
	order []string // insertion order, the deterministic scoring tie-break
}

// NewRegistry creates an empty registry and adds the given banks in order.
func NewRegistry(banks ...Bank) (*Registry, error) {
	r := &Registry{byID: make(map[string]Bank)}
	for _, b := range banks {
		if err := r.Add(b); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a bank. Fails with ErrDuplicate if the id is taken.
func (r *Registry) Add(b Bank) error {
	if _, ok := r.byID[b.PresetID]; ok {
		return fmt.Errorf("add %q: %w", b.PresetID, ErrDuplicate)
	}
	r.byID[b.PresetID] = b
	r.order = append(r.order, b.PresetID)
	return nil
}

// Get returns the bank for an id. Fails with ErrNotFound if absent.
func (r *Registry) Get(presetID string) (Bank, error) {
	b, ok := r.byID[presetID]
	if !ok {
		return Bank{}, fmt.Errorf("get %q: %w", presetID, ErrNotFound)
	}
	return b, nil
}

// All returns every bank in insertion order.
func (r *Registry) All() []Bank {
	out := make([]Bank, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered banks.
func (r *Registry) Len() int {
	return len(r.order)
}

// Export returns an introspection snapshot of all banks, keyed by id.
func (r *Registry) Export() map[string]Bank {
	out := make(map[string]Bank, len(r.byID))
	for id, b := range r.byID {
		out[id] = b
	}
	return out
}

// #endregion registry
