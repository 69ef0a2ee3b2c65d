package tof

import (
	"errors"
	"testing"

	"github.com/phil-mansfield/toftable/lib/eq"
	"github.com/phil-mansfield/toftable/lib/particles"
)

func TestAccessorsNeedFinalizedState(t *testing.T) {
	l := testLayout(t)
	p := l.New()

	m, _ := quietManager()
	if _, err := m.TimeArray(p); !errors.Is(err, ErrNoState) {
		t.Errorf("Expected TimeArray() without state to fail with ErrNoState, got %v.", err)
	}

	m.Allocate()
	m.AddRecorder("rec0", 1.0)
	if _, err := m.WeightArray(p); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("Expected WeightArray() before Finalize() to fail with "+
			"ErrNotFinalized, got %v.", err)
	}
	if err := m.ParticleAlloc(p, 0); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("Expected ParticleAlloc() before Finalize() to fail, got %v.", err)
	}

	m.Finalize(testIndex, tBase, pBase, nBase, l)
	ts, err1 := m.TimeArray(p)
	ws, err2 := m.WeightArray(p)
	n, err3 := m.Length(p)
	if ts == nil || ws == nil || n == nil ||
		err1 != nil || err2 != nil || err3 != nil {
		t.Errorf("Expected accessors to succeed after Finalize(), got "+
			"errors %v, %v, %v.", err1, err2, err3)
	}

	// A particle from a layout without the fields cannot be accessed.
	other := particles.NewLayout()
	other.Add("unrelated", particles.Float64Kind)
	if _, err := m.Length(other.New()); !errors.Is(err, ErrResolve) {
		t.Errorf("Expected a foreign particle to fail with ErrResolve, got %v.", err)
	}
}

func TestParticleAlloc(t *testing.T) {
	tests := []struct{
		recorders []string
		tZero float64
		ts, ws []float64
	} {
		{[]string{}, 0.0, nil, nil},
		{[]string{"rec0"}, 0.0, []float64{0}, []float64{0}},
		{[]string{"rec0"}, 0.42, []float64{0.42}, []float64{0}},
		{[]string{"rec0", "rec1", "rec2"}, -1,
			[]float64{-1, -1, -1}, []float64{0, 0, 0}},
	}

	for i := range tests {
		m, l := setupManager(t, tests[i].recorders...)
		p := l.New()
		if err := m.ParticleAlloc(p, tests[i].tZero); err != nil {
			t.Errorf("%d) Expected ParticleAlloc() to succeed, got '%s'.",
				i, err.Error())
			continue
		}

		ts, _ := m.TimeArray(p)
		ws, _ := m.WeightArray(p)
		n, _ := m.Length(p)
		if *n != len(tests[i].recorders) {
			t.Errorf("%d) Expected length %d, got %d.",
				i, len(tests[i].recorders), *n)
		}
		if tests[i].ts == nil {
			if *ts != nil || *ws != nil {
				t.Errorf("%d) Expected nil arrays, got %v and %v.", i, *ts, *ws)
			}
			continue
		}
		if !eq.Float64s(*ts, tests[i].ts) || !eq.Float64s(*ws, tests[i].ws) {
			t.Errorf("%d) Expected t = %v, p = %v, got t = %v, p = %v.",
				i, tests[i].ts, tests[i].ws, *ts, *ws)
		}
	}
}

func TestParticleRecord(t *testing.T) {
	m, l := setupManager(t, "rec0", "rec1")
	p := l.New()
	m.ParticleAlloc(p, 0.0)
	p.T, p.P = 0.123, 0.987

	if err := m.ParticleRecord(p, 1); err != nil {
		t.Fatalf("Expected ParticleRecord(1) to succeed, got '%s'.", err.Error())
	}
	ts, _ := m.TimeArray(p)
	ws, _ := m.WeightArray(p)
	if !eq.Float64s(*ts, []float64{0, 0.123}) ||
		!eq.Float64s(*ws, []float64{0, 0.987}) {
		t.Errorf("Expected t = [0 0.123], p = [0 0.987], got t = %v, p = %v.",
			*ts, *ws)
	}

	p.T, p.P = 5, 5
	for _, idx := range []int{-1, 2, 99} {
		if err := m.ParticleRecord(p, idx); !errors.Is(err, ErrIndexRange) {
			t.Errorf("Expected ParticleRecord(%d) to fail with ErrIndexRange, "+
				"got %v.", idx, err)
		}
	}
	if !eq.Float64s(*ts, []float64{0, 0.123}) ||
		!eq.Float64s(*ws, []float64{0, 0.987}) {
		t.Errorf("Expected failed records to leave the buffer unchanged, got "+
			"t = %v, p = %v.", *ts, *ws)
	}
}

func TestParticleFree(t *testing.T) {
	for _, recorders := range [][]string{{}, {"rec0"}, {"rec0", "rec1"}} {
		m, l := setupManager(t, recorders...)
		p := l.New()
		m.ParticleAlloc(p, 0.0)

		for k := 0; k < 2; k++ {
			if err := m.ParticleFree(p); err != nil {
				t.Errorf("%d recorders) Expected ParticleFree() to succeed, "+
					"got '%s'.", len(recorders), err.Error())
			}
			ts, _ := m.TimeArray(p)
			ws, _ := m.WeightArray(p)
			n, _ := m.Length(p)
			if *ts != nil || *ws != nil || *n != 0 {
				t.Errorf("%d recorders) Expected an empty buffer after "+
					"ParticleFree(), got %v, %v, %d.", len(recorders), *ts, *ws, *n)
			}
		}

		m.Free()
		if err := m.ParticleFree(p); !errors.Is(err, ErrNoState) {
			t.Errorf("Expected ParticleFree() after Free() to fail, got %v.", err)
		}
	}
}
