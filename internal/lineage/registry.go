// Package lineage resolves ancestor references inside a breeder's registry and
// arranges them into the fixed-shape pedigree tree used by printed documents.
//
// Everything here is pure, in-memory computation over a snapshot of the
// registry: nothing blocks, nothing is written back, and "ancestor missing"
// is a data state rather than an error.
package lineage

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// State classifies what a parent reference resolved to.
type State int

const (
	// StateNotRecorded means no reference was stored.
	StateNotRecorded State = iota
	// StateExternal means a reference exists but the bird is not in the registry,
	// for instance because it was deleted or belongs to another breeder.
	StateExternal
	// StateKnown means the bird was found.
	StateKnown
	// StateCircular means the bird already appears below this slot in its own line.
	StateCircular
)

var stateNames = map[State]string{
	StateNotRecorded: "NOT_RECORDED",
	StateExternal:    "EXTERNAL",
	StateKnown:       "KNOWN",
	StateCircular:    "CIRCULAR",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if strings.EqualFold(name, string(text)) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown lineage state %q", text)
}

// Ancestor is the outcome of resolving one parent reference.
type Ancestor struct {
	State State
	ID    string
	Bird  models.Bird
}

// Registry is a read-only snapshot of one breeder's birds, indexed by id.
type Registry struct {
	birds []models.Bird
	index map[string]int
}

// NewRegistry snapshots birds. The slice is copied, so later changes by the
// caller do not leak in and the registry never writes to it.
func NewRegistry(birds []models.Bird) (*Registry, error) {
	reg := &Registry{
		birds: slices.Clone(birds),
		index: make(map[string]int, len(birds)),
	}
	for i, b := range reg.birds {
		if strings.TrimSpace(b.ID) == "" {
			return nil, fmt.Errorf("registry entry %d has no id: %w", i, models.ErrMalformedInput)
		}
		if _, dup := reg.index[b.ID]; dup {
			return nil, fmt.Errorf("registry id %q appears twice: %w", b.ID, models.ErrMalformedInput)
		}
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("registry id %q has no name: %w", b.ID, models.ErrMalformedInput)
		}
		reg.index[b.ID] = i
	}
	return reg, nil
}

// Len returns the number of birds in the snapshot.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.birds)
}

// Birds returns a copy of the snapshot in its original order.
func (r *Registry) Birds() []models.Bird {
	if r == nil {
		return nil
	}
	return slices.Clone(r.birds)
}

// Lookup finds a bird by id.
func (r *Registry) Lookup(id string) (models.Bird, bool) {
	if r == nil || id == "" {
		return models.Bird{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return models.Bird{}, false
	}
	return r.birds[i], true
}

// Resolve classifies a parent reference. An empty id is never looked up.
func (r *Registry) Resolve(id string) Ancestor {
	if id == "" {
		return Ancestor{State: StateNotRecorded}
	}
	b, ok := r.Lookup(id)
	if !ok {
		return Ancestor{State: StateExternal, ID: id}
	}
	return Ancestor{State: StateKnown, ID: id, Bird: b}
}
