package tof

import (
	"fmt"
)

// Particle is the view of a host particle record needed to record it. The
// slot accessors return nil for slots that do not exist or hold the wrong
// type; *particles.Particle implements this interface.
type Particle interface {
	Time() float64
	Weight() float64
	Float64sAt(slot int) *[]float64
	IntAt(slot int) *int
}

// TimeArray returns the storage of p's per-recorder time array.
func (m *Manager) TimeArray(p Particle) (*[]float64, error) {
	if err := m.checkFinalized("time array"); err != nil { return nil, err }
	if x := p.Float64sAt(m.state.slots[timeField]); x != nil { return x, nil }
	return nil, fmt.Errorf("particle has no field '%s': %w",
		m.state.names[timeField], ErrResolve)
}

// WeightArray returns the storage of p's per-recorder weight array.
func (m *Manager) WeightArray(p Particle) (*[]float64, error) {
	if err := m.checkFinalized("weight array"); err != nil { return nil, err }
	if x := p.Float64sAt(m.state.slots[weightField]); x != nil { return x, nil }
	return nil, fmt.Errorf("particle has no field '%s': %w",
		m.state.names[weightField], ErrResolve)
}

// Length returns the storage of p's sample buffer length.
func (m *Manager) Length(p Particle) (*int, error) {
	if err := m.checkFinalized("buffer length"); err != nil { return nil, err }
	if x := p.IntAt(m.state.slots[lengthField]); x != nil { return x, nil }
	return nil, fmt.Errorf("particle has no field '%s': %w",
		m.state.names[lengthField], ErrResolve)
}

func (m *Manager) checkFinalized(what string) error {
	if m.state == nil {
		return fmt.Errorf("could not access %s: %w", what, ErrNoState)
	} else if !m.state.finalized {
		return fmt.Errorf("could not access %s: %w", what, ErrNotFinalized)
	}
	return nil
}

// buffer resolves all three fields of p's sample buffer.
func (m *Manager) buffer(p Particle) (ts, ws *[]float64, n *int, err error) {
	if ts, err = m.TimeArray(p); err != nil { return nil, nil, nil, err }
	if ws, err = m.WeightArray(p); err != nil { return nil, nil, nil, err }
	if n, err = m.Length(p); err != nil { return nil, nil, nil, err }
	return ts, ws, n, nil
}

// ParticleAlloc gives p an empty sample buffer with one slot per registered
// recorder. Every time is set to tZero and every weight to zero. With no
// recorders both arrays are left nil and the length is zero. If the buffer
// fields cannot be resolved p is not modified.
func (m *Manager) ParticleAlloc(p Particle, tZero float64) error {
	ts, ws, n, err := m.buffer(p)
	if err != nil {
		return fmt.Errorf("could not allocate particle buffer: %w", err)
	}

	*ts, *ws, *n = nil, nil, 0

	nRec := len(m.state.recorders)
	if nRec <= 0 { return nil }

	t, w := make([]float64, nRec), make([]float64, nRec)
	for i := range t { t[i] = tZero }
	*ts, *ws, *n = t, w, nRec
	return nil
}

// ParticleRecord stamps p's current time and weight into the buffer slot of
// the given recorder.
func (m *Manager) ParticleRecord(p Particle, recorder int) error {
	ts, ws, n, err := m.buffer(p)
	if err != nil {
		return fmt.Errorf("could not record particle: %w", err)
	}
	if recorder < 0 || recorder >= *n || recorder >= len(*ts) ||
		recorder >= len(*ws) {
		return fmt.Errorf("could not record particle at recorder %d of %d: %w",
			recorder, *n, ErrIndexRange)
	}

	(*ts)[recorder] = p.Time()
	(*ws)[recorder] = p.Weight()
	return nil
}

// ParticleFree releases p's sample buffer. It is safe to call on a buffer
// that was never allocated, as long as the state still exists.
func (m *Manager) ParticleFree(p Particle) error {
	ts, ws, n, err := m.buffer(p)
	if err != nil {
		return fmt.Errorf("could not free particle buffer: %w", err)
	}
	*ts, *ws, *n = nil, nil, 0
	return nil
}
