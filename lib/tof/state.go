package tof

import (
	"fmt"
	"log"
	"os"

	"github.com/phil-mansfield/toftable/lib/particles"
	"github.com/phil-mansfield/toftable/lib/table"
)

// Recorder is a named checkpoint along the beamline. Distance is measured
// from the source.
type Recorder struct {
	Name     string
	Distance float64
}

// State is the run-scoped registry of recorders together with the resolved
// slots of the sample-buffer fields.
type State struct {
	recorders []Recorder

	finalized bool
	names     [3]string
	slots     [3]int
}

const (
	timeField = iota
	weightField
	lengthField
)

var fieldKinds = [3]particles.Kind{
	particles.Float64sKind, particles.Float64sKind, particles.IntKind,
}

// FieldResolver finds the storage slot of a named field in the host's
// particle record. ok must be false if the field does not exist or does not
// hold the given kind.
type FieldResolver interface {
	ResolveField(name string, kind particles.Kind) (slot int, ok bool)
}

// Manager owns the State for one simulation run. It is the explicit context
// shared by the run loop and its workers. Setup methods (Allocate,
// AddRecorder, Finalize, Free) must not run concurrently with anything
// else; once Finalize has returned the particle methods may be called from
// any number of goroutines.
type Manager struct {
	state *State
	log   *log.Logger
	obs   Observer
}

// NewManager creates a Manager with no allocated state that logs to stderr.
func NewManager() *Manager {
	return &Manager{
		log: log.New(os.Stderr, "toftable: ", log.LstdFlags),
		obs: nopObserver{},
	}
}

// SetLogger replaces the logger used for diagnostics.
func (m *Manager) SetLogger(l *log.Logger) { m.log = l }

// SetObserver installs an Observer that is told about every transfer. A nil
// Observer removes the current one.
func (m *Manager) SetObserver(obs Observer) {
	if obs == nil {
		obs = nopObserver{}
	}
	m.obs = obs
}

// Allocate creates the state if none exists. If state already exists it is
// left untouched and the problem is logged.
func (m *Manager) Allocate() {
	if m.state != nil {
		m.log.Printf("ERROR: %s.", ErrAlreadyAllocated)
		return
	}
	m.state = &State{slots: [3]int{-1, -1, -1}}
}

// Exists returns true if state is currently allocated.
func (m *Manager) Exists() bool { return m.state != nil }

// Free releases the state. It is safe to call when no state exists.
func (m *Manager) Free() { m.state = nil }

// AddRecorder appends a recorder to the registry and returns its index.
// Indices start at zero and increase by one with every call. If no state is
// allocated it returns -1 and ErrNoState.
func (m *Manager) AddRecorder(name string, distance float64) (int, error) {
	if m.state == nil {
		return -1, fmt.Errorf("could not add recorder '%s': %w", name, ErrNoState)
	}
	m.state.recorders = append(m.state.recorders, Recorder{name, distance})
	return len(m.state.recorders) - 1, nil
}

// NRecorders returns the number of registered recorders, or zero if no state
// is allocated.
func (m *Manager) NRecorders() int {
	if m.state == nil { return 0 }
	return len(m.state.recorders)
}

// Recorders returns a copy of the registry in registration order.
func (m *Manager) Recorders() []Recorder {
	if m.state == nil { return nil }
	out := make([]Recorder, len(m.state.recorders))
	copy(out, m.state.recorders)
	return out
}

// Finalized returns true if Finalize has succeeded on the current state.
func (m *Manager) Finalized() bool {
	return m.state != nil && m.state.finalized
}

// FieldName returns the name of a per-particle buffer field: the base name
// followed by "_<index>".
func FieldName(base string, index int) string {
	return fmt.Sprintf("%s_%d", base, index)
}

// Finalize resolves the three per-particle buffer fields, named
// FieldName(tBase, index), FieldName(pBase, index) and FieldName(nBase,
// index), through res. The time and weight fields must be []float64 and the
// length field must be an int. Each name is resolved exactly once. On
// failure the state is left unfinalized.
//
// Finalize must be called once per allocated state; free and reallocate the
// state between runs.
func (m *Manager) Finalize(
	index int, tBase, pBase, nBase string, res FieldResolver,
) error {
	if m.state == nil {
		return fmt.Errorf("could not finalize: %w", ErrNoState)
	}

	names := [3]string{
		FieldName(tBase, index), FieldName(pBase, index), FieldName(nBase, index),
	}
	slots := [3]int{}
	for i := range names {
		slot, ok := res.ResolveField(names[i], fieldKinds[i])
		if !ok || slot < 0 {
			return fmt.Errorf("could not finalize: field '%s' (%s): %w",
				names[i], fieldKinds[i], ErrResolve)
		}
		slots[i] = slot
	}

	m.state.names = names
	m.state.slots = slots
	m.state.finalized = true
	return nil
}

// NewTable creates a table with one row per registered recorder.
func (m *Manager) NewTable(bins int, tMin, tMax float64) (*table.Table, error) {
	if m.state == nil {
		return nil, fmt.Errorf("could not create table: %w", ErrNoState)
	}
	return table.New(len(m.state.recorders), bins, tMin, tMax)
}
