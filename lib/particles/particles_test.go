package particles

import (
	"testing"

	"github.com/phil-mansfield/toftable/lib/eq"
)

func TestLayoutAdd(t *testing.T) {
	tests := []struct{
		names []string
		kinds []Kind
		valid bool
	} {
		{[]string{}, []Kind{}, true},
		{[]string{"t_9"}, []Kind{Float64sKind}, true},
		{[]string{"t_9", "p_9", "n_9"},
			[]Kind{Float64sKind, Float64sKind, IntKind}, true},
		{[]string{"t_9", "t_9"}, []Kind{Float64sKind, IntKind}, false},
		{[]string{""}, []Kind{Float64Kind}, false},
		{[]string{"x"}, []Kind{Kind(17)}, false},
	}

	for i := range tests {
		l := NewLayout()
		var err error
		for j := range tests[i].names {
			var slot int
			slot, err = l.Add(tests[i].names[j], tests[i].kinds[j])
			if err != nil { break }
			if slot != j {
				t.Errorf("%d) Expected field '%s' to get slot %d, got %d.",
					i, tests[i].names[j], j, slot)
			}
		}

		if tests[i].valid && err != nil {
			t.Errorf("%d) Expected names %v to be accepted, got error '%s'.",
				i, tests[i].names, err.Error())
		} else if !tests[i].valid && err == nil {
			t.Errorf("%d) Expected names %v to be rejected, but got no error.",
				i, tests[i].names)
		} else if tests[i].valid && !eq.Strings(l.Names(), tests[i].names) {
			t.Errorf("%d) Expected Names() = %v, got %v.",
				i, tests[i].names, l.Names())
		}
	}
}

func TestResolveField(t *testing.T) {
	l := NewLayout()
	l.Add("table_manager_t_9", Float64sKind)
	l.Add("table_manager_p_9", Float64sKind)
	l.Add("table_manager_n_9", IntKind)

	tests := []struct{
		name string
		kind Kind
		slot int
		ok bool
	} {
		{"table_manager_t_9", Float64sKind, 0, true},
		{"table_manager_p_9", Float64sKind, 1, true},
		{"table_manager_n_9", IntKind, 2, true},
		{"table_manager_n_9", Float64sKind, -1, false},
		{"table_manager_t_8", Float64sKind, -1, false},
	}

	for i := range tests {
		slot, ok := l.ResolveField(tests[i].name, tests[i].kind)
		if slot != tests[i].slot || ok != tests[i].ok {
			t.Errorf("%d) Expected ResolveField('%s', %s) = (%d, %v), got (%d, %v).",
				i, tests[i].name, tests[i].kind, tests[i].slot, tests[i].ok,
				slot, ok)
		}
	}
}

func TestParticleSlots(t *testing.T) {
	l := NewLayout()
	ts, _ := l.Add("t", Float64sKind)
	ns, _ := l.Add("n", IntKind)
	xs, _ := l.Add("x", Float64Kind)

	p := l.New()
	if arr := p.Float64sAt(ts); arr == nil || *arr != nil {
		t.Fatalf("Expected a fresh particle to have an absent 't' array.")
	}
	*p.Float64sAt(ts) = []float64{1, 2, 3}
	*p.IntAt(ns) = 3
	*p.Float64At(xs) = 0.5

	if !eq.Float64s(*p.Float64sAt(ts), []float64{1, 2, 3}) {
		t.Errorf("Expected 't' = [1 2 3], got %v.", *p.Float64sAt(ts))
	}
	if f, ok := p.Field("n"); !ok || f.Data().(int) != 3 {
		t.Errorf("Expected Field('n') to hold 3, got %v.", f)
	}

	// Wrong types and out-of-range slots are nil, not panics.
	if p.IntAt(ts) != nil || p.Float64sAt(ns) != nil || p.Float64At(ns) != nil {
		t.Errorf("Expected mismatched slot types to return nil.")
	}
	if p.Float64sAt(-1) != nil || p.IntAt(3) != nil || p.Float64At(99) != nil {
		t.Errorf("Expected out-of-range slots to return nil.")
	}
}

func TestClone(t *testing.T) {
	l := NewLayout()
	ts, _ := l.Add("t", Float64sKind)
	ns, _ := l.Add("n", IntKind)

	p := l.New()
	p.T, p.P = 1.5, 0.25
	*p.Float64sAt(ts) = []float64{4, 8}
	*p.IntAt(ns) = 2

	c := p.Clone()
	(*c.Float64sAt(ts))[0] = 15
	*c.IntAt(ns) = 16

	if c.Time() != 1.5 || c.Weight() != 0.25 {
		t.Errorf("Expected clone to have (t, p) = (1.5, 0.25), got (%g, %g).",
			c.Time(), c.Weight())
	}
	if !eq.Float64s(*p.Float64sAt(ts), []float64{4, 8}) || *p.IntAt(ns) != 2 {
		t.Errorf("Modifying a clone changed the original: t = %v, n = %d.",
			*p.Float64sAt(ts), *p.IntAt(ns))
	}
}
