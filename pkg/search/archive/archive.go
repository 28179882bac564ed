// Package archive keeps the best known encoding for every covered objective.
package archive

import (
	"errors"
	"fmt"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// ErrInconsistentEntry is returned when an encoding is archived for an
// objective it does not cover.
var ErrInconsistentEntry = errors.New("archived encoding does not cover objective")

// Archive maps objective ids to a single encoding. Entries are kept in
// insertion order so that iteration is deterministic.
type Archive struct {
	order      []string
	objectives map[string]framework.ObjectiveFunction
	encodings  map[string]framework.Encoding
}

var _ framework.ArchiveView = &Archive{}

// New creates an empty archive.
func New() *Archive {
	return &Archive{
		objectives: make(map[string]framework.ObjectiveFunction),
		encodings:  make(map[string]framework.Encoding),
	}
}

func (a *Archive) Size() int {
	return len(a.order)
}

func (a *Archive) Has(objective framework.ObjectiveFunction) bool {
	_, ok := a.encodings[objective.ID()]
	return ok
}

func (a *Archive) Get(objective framework.ObjectiveFunction) (framework.Encoding, bool) {
	e, ok := a.encodings[objective.ID()]
	return e, ok
}

// Update stores encoding as the entry of objective. The encoding must have a
// recorded distance of zero for the objective. Storing the entry that is
// already there is a no-op. Whether a challenger should replace an existing
// entry is decided by the caller.
func (a *Archive) Update(objective framework.ObjectiveFunction, encoding framework.Encoding) error {
	id := objective.ID()
	if d, ok := encoding.Distance(id); !ok || d != 0 {
		return fmt.Errorf("%w: objective %s, encoding %s", ErrInconsistentEntry, id, encoding.ID())
	}

	current, exists := a.encodings[id]
	if exists && current.ID() == encoding.ID() {
		return nil
	}
	if !exists {
		a.order = append(a.order, id)
		a.objectives[id] = objective
	}
	a.encodings[id] = encoding
	return nil
}

// Remove drops the entry of objective and reports whether it existed.
func (a *Archive) Remove(objective framework.ObjectiveFunction) bool {
	id := objective.ID()
	if _, ok := a.encodings[id]; !ok {
		return false
	}
	delete(a.encodings, id)
	delete(a.objectives, id)
	for i, o := range a.order {
		if o == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// Objectives returns the archived objectives in insertion order.
func (a *Archive) Objectives() []framework.ObjectiveFunction {
	out := make([]framework.ObjectiveFunction, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.objectives[id])
	}
	return out
}

// Encodings returns the distinct archived encodings in insertion order of
// the first objective they were archived for.
func (a *Archive) Encodings() []framework.Encoding {
	seen := make(map[string]bool, len(a.order))
	out := make([]framework.Encoding, 0, len(a.order))
	for _, id := range a.order {
		e := a.encodings[id]
		if seen[e.ID()] {
			continue
		}
		seen[e.ID()] = true
		out = append(out, e)
	}
	return out
}

// Merge copies the entries of other for objectives this archive lacks.
func (a *Archive) Merge(other framework.ArchiveView) error {
	for _, o := range other.Objectives() {
		if a.Has(o) {
			continue
		}
		e, ok := other.Get(o)
		if !ok {
			continue
		}
		if err := a.Update(o, e); err != nil {
			return err
		}
	}
	return nil
}
