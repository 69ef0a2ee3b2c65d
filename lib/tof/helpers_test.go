package tof

import (
	"bytes"
	"log"
	"testing"

	"github.com/phil-mansfield/toftable/lib/particles"
)

const (
	testIndex = 9
	tBase = "table_manager_t"
	pBase = "table_manager_p"
	nBase = "table_manager_n"
)

// testLayout mirrors the particle record used by the instrument tests: two
// float arrays and a length, all suffixed with the manager index.
func testLayout(t *testing.T) *particles.Layout {
	l := particles.NewLayout()
	for _, f := range []struct{
		name string
		kind particles.Kind
	} {
		{FieldName(tBase, testIndex), particles.Float64sKind},
		{FieldName(pBase, testIndex), particles.Float64sKind},
		{FieldName(nBase, testIndex), particles.IntKind},
	} {
		if _, err := l.Add(f.name, f.kind); err != nil {
			t.Fatalf("Could not build test layout: %s", err.Error())
		}
	}
	return l
}

// quietManager returns a Manager whose diagnostics go to buf.
func quietManager() (*Manager, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	m := NewManager()
	m.SetLogger(log.New(buf, "", 0))
	return m, buf
}

// setupManager allocates a finalized Manager with the given recorders.
func setupManager(t *testing.T, recorders ...string) (*Manager, *particles.Layout) {
	m, _ := quietManager()
	l := testLayout(t)
	m.Allocate()
	for i, name := range recorders {
		m.AddRecorder(name, float64(i+1))
	}
	if err := m.Finalize(testIndex, tBase, pBase, nBase, l); err != nil {
		t.Fatalf("Could not finalize: %s", err.Error())
	}
	return m, l
}
