package shader

import (
	graphics "github.com/richinsley/shaderstudio/graphics"
)

// Pair is a vertex/fragment source pair. Promotion is always whole-pair;
// there is no state where one stage is new and the other stale.
type Pair struct {
	Vertex   string
	Fragment string
}

// Controller owns the last-known-good shader pair. Submit validates a draft
// and promotes it only on success; a failed submit leaves the active pair
// and version untouched, so the scene keeps rendering whatever was last
// promoted. All methods must be called from the render thread.
type Controller struct {
	compiler graphics.Compiler
	active   Pair
	version  uint64
}

// NewController validates and promotes the initial pair. It fails if the
// initial pair does not compile, since there would be nothing safe to fall
// back to.
func NewController(c graphics.Compiler, initial Pair) (*Controller, error) {
	sc := &Controller{compiler: c}
	if err := sc.Submit(initial.Vertex, initial.Fragment); err != nil {
		return nil, err
	}
	return sc, nil
}

// Submit validates the draft pair and promotes it on success. Resubmitting
// the currently active pair verbatim is a success that neither revalidates
// nor bumps the version, so downstream program rebuilds are skipped.
func (sc *Controller) Submit(vertex, fragment string) error {
	next := Pair{Vertex: vertex, Fragment: fragment}
	if sc.version > 0 && next == sc.active {
		return nil
	}
	if err := Validate(sc.compiler, vertex, fragment); err != nil {
		return err
	}
	sc.active = next
	sc.version++
	return nil
}

// Active returns the last promoted pair.
func (sc *Controller) Active() Pair {
	return sc.active
}

// Version increases by one on every promotion. Callers compare it against
// the version they last built a render program from to decide whether a
// rebuild is due.
func (sc *Controller) Version() uint64 {
	return sc.version
}
