/*package particles contains the host-side particle record used by toftable.
A Layout names every per-particle field once, and each Particle built from it
stores those fields in numbered slots, so that code which has resolved a name
to a slot never needs to repeat the lookup.*/
package particles

/* This file contains functions for managing particles and their fields. */

import (
	"fmt"
)

// Kind identifies the type stored in a Field.
type Kind int

const (
	Float64Kind Kind = iota
	IntKind
	Float64sKind
)

func (k Kind) String() string {
	switch k {
	case Float64Kind:
		return "f64"
	case IntKind:
		return "int"
	case Float64sKind:
		return "[]f64"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is a generic interface around a single named per-particle value.
type Field interface {
	// Name returns the name the field was registered under.
	Name() string
	// Kind returns the type of the underlying value.
	Kind() Kind
	// Data returns the underlying value as an interface{}.
	Data() interface{}
	// Clone returns a deep copy of the field. Slices are not shared.
	Clone() Field
}

// Type assertions
var (
	_ Field = &Float64{}
	_ Field = &Int{}
	_ Field = &Float64s{}
)

// Float64 implements the Field interface for a float64 value. See the Field
// interface for documentation of this struct's methods.
type Float64 struct {
	name string
	data float64
}

// NewFloat64 creates a field with a given name associated with a given value.
func NewFloat64(name string, x float64) *Float64 { return &Float64{name, x} }

func (x *Float64) Name() string      { return x.name }
func (x *Float64) Kind() Kind        { return Float64Kind }
func (x *Float64) Data() interface{} { return x.data }
func (x *Float64) Clone() Field      { return NewFloat64(x.name, x.data) }

// Int implements the Field interface for an int value. See the Field
// interface for documentation of this struct's methods.
type Int struct {
	name string
	data int
}

// NewInt creates a field with a given name associated with a given value.
func NewInt(name string, x int) *Int { return &Int{name, x} }

func (x *Int) Name() string      { return x.name }
func (x *Int) Kind() Kind        { return IntKind }
func (x *Int) Data() interface{} { return x.data }
func (x *Int) Clone() Field      { return NewInt(x.name, x.data) }

// Float64s implements the Field interface for []float64 data. A nil slice is
// a valid, absent value. See the Field interface for documentation of this
// struct's methods.
type Float64s struct {
	name string
	data []float64
}

// NewFloat64s creates a field with a given name associated with a given
// array.
func NewFloat64s(name string, x []float64) *Float64s { return &Float64s{name, x} }

func (x *Float64s) Name() string      { return x.name }
func (x *Float64s) Kind() Kind        { return Float64sKind }
func (x *Float64s) Data() interface{} { return x.data }

func (x *Float64s) Clone() Field {
	if x.data == nil {
		return NewFloat64s(x.name, nil)
	}
	out := make([]float64, len(x.data))
	copy(out, x.data)
	return NewFloat64s(x.name, out)
}

func newField(name string, kind Kind) Field {
	switch kind {
	case Float64Kind:
		return NewFloat64(name, 0)
	case IntKind:
		return NewInt(name, 0)
	case Float64sKind:
		return NewFloat64s(name, nil)
	}
	panic(fmt.Sprintf("Internal error: unknown field kind %d.", int(kind)))
}
