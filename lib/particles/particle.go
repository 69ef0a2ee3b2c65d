package particles

// Particle is a single simulated particle. T and P are its current time and
// statistical weight; everything else lives in the slots described by the
// Layout it was created from.
type Particle struct {
	T, P   float64
	layout *Layout
	fields []Field
}

func (p *Particle) Time() float64   { return p.T }
func (p *Particle) Weight() float64 { return p.P }

// Layout returns the Layout that p was created from.
func (p *Particle) Layout() *Layout { return p.layout }

// Field returns the field with a given name. This is the slow path and
// should not be used once a slot is known.
func (p *Particle) Field(name string) (Field, bool) {
	i, ok := p.layout.index[name]
	if !ok {
		return nil, false
	}
	return p.fields[i], true
}

// Float64At returns the storage of a float64 slot, or nil if the slot does
// not exist or holds a different type.
func (p *Particle) Float64At(slot int) *float64 {
	if slot < 0 || slot >= len(p.fields) {
		return nil
	}
	x, ok := p.fields[slot].(*Float64)
	if !ok {
		return nil
	}
	return &x.data
}

// IntAt returns the storage of an int slot, or nil if the slot does not
// exist or holds a different type.
func (p *Particle) IntAt(slot int) *int {
	if slot < 0 || slot >= len(p.fields) {
		return nil
	}
	x, ok := p.fields[slot].(*Int)
	if !ok {
		return nil
	}
	return &x.data
}

// Float64sAt returns the storage of a []float64 slot, or nil if the slot
// does not exist or holds a different type.
func (p *Particle) Float64sAt(slot int) *[]float64 {
	if slot < 0 || slot >= len(p.fields) {
		return nil
	}
	x, ok := p.fields[slot].(*Float64s)
	if !ok {
		return nil
	}
	return &x.data
}

// Clone creates an independent copy of p, as needed when the host splits a
// particle into several weighted copies.
func (p *Particle) Clone() *Particle {
	out := &Particle{T: p.T, P: p.P, layout: p.layout,
		fields: make([]Field, len(p.fields))}
	for i := range p.fields {
		out.fields[i] = p.fields[i].Clone()
	}
	return out
}
