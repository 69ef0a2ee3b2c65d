package particles

import (
	"fmt"
)

// Layout describes the user fields carried by every particle in a
// simulation. Fields are appended during setup and are never removed; the
// index a field receives is its slot in every Particle created afterwards.
type Layout struct {
	names []string
	kinds []Kind
	index map[string]int
}

// NewLayout creates a Layout with no user fields.
func NewLayout() *Layout {
	return &Layout{index: map[string]int{}}
}

// Add registers a new field and returns its slot. Names may only be used
// once.
func (l *Layout) Add(name string, kind Kind) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("Field names cannot be empty.")
	} else if _, ok := l.index[name]; ok {
		return -1, fmt.Errorf("The field name '%s' is used more than once.", name)
	} else if kind < Float64Kind || kind > Float64sKind {
		return -1, fmt.Errorf("Field '%s' has unknown kind %d.", name, int(kind))
	}

	l.names = append(l.names, name)
	l.kinds = append(l.kinds, kind)
	l.index[name] = len(l.names) - 1
	return len(l.names) - 1, nil
}

// Len returns the number of registered fields.
func (l *Layout) Len() int { return len(l.names) }

// Names returns the registered field names in slot order.
func (l *Layout) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// ResolveField returns the slot of the field with the given name and kind.
// ok is false if no such field exists or if it has a different kind. This is
// a map lookup and is meant to be done once per name, not per particle.
func (l *Layout) ResolveField(name string, kind Kind) (slot int, ok bool) {
	i, ok := l.index[name]
	if !ok || l.kinds[i] != kind {
		return -1, false
	}
	return i, true
}

// New creates a particle with every field set to its zero value.
func (l *Layout) New() *Particle {
	p := &Particle{layout: l, fields: make([]Field, len(l.names))}
	for i := range l.names {
		p.fields[i] = newField(l.names[i], l.kinds[i])
	}
	return p
}
