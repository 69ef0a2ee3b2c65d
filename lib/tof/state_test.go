package tof

import (
	"errors"
	"strings"
	"testing"

	"github.com/phil-mansfield/toftable/lib/particles"
)

func TestStateLifecycle(t *testing.T) {
	m, logBuf := quietManager()

	if m.Exists() {
		t.Errorf("Expected no state before Allocate().")
	}
	m.Free()
	if m.Exists() {
		t.Errorf("Expected Free() without state to leave no state.")
	}

	m.Allocate()
	if !m.Exists() {
		t.Errorf("Expected state after Allocate().")
	}
	m.AddRecorder("rec0", 1.0)

	m.Allocate()
	if !m.Exists() || m.NRecorders() != 1 {
		t.Errorf("Expected double Allocate() to keep the original state, "+
			"got Exists() = %v, NRecorders() = %d.", m.Exists(), m.NRecorders())
	}
	if !strings.Contains(logBuf.String(), "already allocated") {
		t.Errorf("Expected double Allocate() to be logged, got '%s'.",
			logBuf.String())
	}

	m.Free()
	m.Free()
	if m.Exists() || m.NRecorders() != 0 || m.Recorders() != nil {
		t.Errorf("Expected double Free() to leave no state.")
	}
}

func TestAddRecorder(t *testing.T) {
	m, _ := quietManager()

	idx, err := m.AddRecorder("rec0", 1.0)
	if idx != -1 || !errors.Is(err, ErrNoState) {
		t.Errorf("Expected AddRecorder() without state = (-1, ErrNoState), "+
			"got (%d, %v).", idx, err)
	}

	m.Allocate()
	names := []string{"rec0", "rec1", "rec2"}
	for i, name := range names {
		idx, err := m.AddRecorder(name, float64(i)+0.5)
		if err != nil || idx != i {
			t.Errorf("%d) Expected AddRecorder('%s') = (%d, nil), got (%d, %v).",
				i, name, i, idx, err)
		}
	}

	recs := m.Recorders()
	if len(recs) != len(names) || m.NRecorders() != len(names) {
		t.Fatalf("Expected %d recorders, got %d.", len(names), len(recs))
	}
	for i := range recs {
		if recs[i].Name != names[i] || recs[i].Distance != float64(i)+0.5 {
			t.Errorf("%d) Expected recorder {%s %g}, got %v.",
				i, names[i], float64(i)+0.5, recs[i])
		}
	}

	// Recorders() is a copy.
	recs[0].Name = "changed"
	if m.Recorders()[0].Name != "rec0" {
		t.Errorf("Expected Recorders() to return a copy.")
	}
}

func TestFinalize(t *testing.T) {
	l := testLayout(t)

	m, _ := quietManager()
	if err := m.Finalize(testIndex, tBase, pBase, nBase, l); !errors.Is(err, ErrNoState) {
		t.Errorf("Expected Finalize() without state to fail with ErrNoState, got %v.", err)
	}

	tests := []struct{
		index int
		t, p, n string
		valid bool
	} {
		{testIndex, tBase, pBase, nBase, true},
		{8, tBase, pBase, nBase, false},
		{testIndex, "other_t", pBase, nBase, false},
		{testIndex, tBase, pBase, "other_n", false},
		// Length is an int field, not an array.
		{testIndex, tBase, nBase, pBase, false},
	}

	for i := range tests {
		m, _ := quietManager()
		m.Allocate()
		m.AddRecorder("rec0", 1.0)
		err := m.Finalize(tests[i].index, tests[i].t, tests[i].p, tests[i].n, l)

		if tests[i].valid && (err != nil || !m.Finalized()) {
			t.Errorf("%d) Expected Finalize() to succeed, got %v.", i, err)
		} else if !tests[i].valid {
			if !errors.Is(err, ErrResolve) {
				t.Errorf("%d) Expected ErrResolve, got %v.", i, err)
			}
			if m.Finalized() {
				t.Errorf("%d) Expected a failed Finalize() to leave the state "+
					"unfinalized.", i)
			}
		}
	}
}

// countingResolver counts how often each name is resolved.
type countingResolver struct {
	l *particles.Layout
	calls map[string]int
}

func (r *countingResolver) ResolveField(
	name string, kind particles.Kind,
) (int, bool) {
	r.calls[name]++
	return r.l.ResolveField(name, kind)
}

func TestFinalizeResolvesOnce(t *testing.T) {
	res := &countingResolver{testLayout(t), map[string]int{}}
	m, _ := quietManager()
	m.Allocate()
	m.AddRecorder("rec0", 1.0)
	if err := m.Finalize(testIndex, tBase, pBase, nBase, res); err != nil {
		t.Fatalf("Could not finalize: %s", err.Error())
	}

	p := res.l.New()
	for k := 0; k < 10; k++ {
		m.ParticleAlloc(p, 0)
		m.ParticleRecord(p, 0)
		m.ParticleFree(p)
	}

	for _, name := range []string{"table_manager_t_9", "table_manager_p_9",
		"table_manager_n_9"} {
		if res.calls[name] != 1 {
			t.Errorf("Expected '%s' to be resolved once, got %d calls.",
				name, res.calls[name])
		}
	}
}

func TestNewTable(t *testing.T) {
	m, _ := quietManager()
	if _, err := m.NewTable(10, 0, 1); !errors.Is(err, ErrNoState) {
		t.Errorf("Expected NewTable() without state to fail, got %v.", err)
	}

	m.Allocate()
	m.AddRecorder("a", 1)
	m.AddRecorder("b", 2)
	tab, err := m.NewTable(10, 0, 1)
	if err != nil {
		t.Fatalf("Expected NewTable() to succeed, got '%s'.", err.Error())
	}
	if tab.Recorders() != 2 || tab.Bins() != 10 {
		t.Errorf("Expected a 2 x 10 table, got %d x %d.",
			tab.Recorders(), tab.Bins())
	}
}
