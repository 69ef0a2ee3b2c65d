/*package tofio writes and reads time-of-flight tables.

Two layouts are supported. LegacyLayout is the compact document

  {
    "dims": {"time": <bins>, "recorders": <recorders>},
    "coords": {
      "recorders": [ { "name": <string>, "distance": <number> }, ... ],
      "time": { "min": <number>, "max": <number>, "bins": <int> }
    },
    "tp": [ [ ... ], ... ],
    "p1": [ [ ... ], ... ],
    "p2": [ [ ... ], ... ],
    "n": [ [ ... ], ... ]
  }

and ScippLayout is the scipp.Dataset dictionary format, with bin-edge time
coordinates and units. Matrices are recorders x bins with one row per line.
Both are valid JSON. Files whose names end in ".zst" are zstd-compressed.
*/
package tofio

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
)

const (
	// DefaultPrecision is the number of significant digits written for
	// floating point values.
	DefaultPrecision = 15
	indentUnit = "  "
)

// Encoder writes the JSON building blocks used by both layouts. The first
// write error is kept and every later call becomes a no-op that returns it,
// so a failed document stops at the first failed write.
type Encoder struct {
	w    io.Writer
	err  error
	prec int
	buf  []byte
}

// NewEncoder creates an Encoder that writes floats with DefaultPrecision
// significant digits.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, prec: DefaultPrecision}
}

// SetPrecision sets the number of significant digits used for floats. A
// negative precision writes the shortest representation that reads back to
// the same float64.
func (e *Encoder) SetPrecision(prec int) { e.prec = prec }

// Err returns the first write error, if any.
func (e *Encoder) Err() error { return e.err }

func (e *Encoder) flush() error {
	if e.err != nil { return e.err }
	if len(e.buf) > 0 {
		_, e.err = e.w.Write(e.buf)
		e.buf = e.buf[:0]
	}
	return e.err
}

func (e *Encoder) str(s string) error {
	if e.err != nil { return e.err }
	e.buf = append(e.buf, s...)
	return e.flush()
}

func (e *Encoder) appendFloat(x float64) {
	// JSON has no spelling for NaN or infinities.
	if math.IsNaN(x) || math.IsInf(x, 0) {
		e.buf = append(e.buf, "null"...)
		return
	}
	e.buf = strconv.AppendFloat(e.buf, x, 'g', e.prec, 64)
}

func (e *Encoder) appendString(s string) {
	b, _ := json.Marshal(s)
	e.buf = append(e.buf, b...)
}

// Indent writes two spaces per level.
func (e *Encoder) Indent(level int) error {
	if e.err != nil { return e.err }
	for i := 0; i < level; i++ {
		e.buf = append(e.buf, indentUnit...)
	}
	return e.flush()
}

// Float64 writes a single number.
func (e *Encoder) Float64(x float64) error {
	if e.err != nil { return e.err }
	e.appendFloat(x)
	return e.flush()
}

// Int writes a single integer.
func (e *Encoder) Int(x int64) error {
	if e.err != nil { return e.err }
	e.buf = strconv.AppendInt(e.buf, x, 10)
	return e.flush()
}

// String writes a single quoted string.
func (e *Encoder) String(s string) error {
	if e.err != nil { return e.err }
	e.appendString(s)
	return e.flush()
}

// Float64s writes a flat array, e.g. [1, 2.5].
func (e *Encoder) Float64s(x []float64) error {
	if e.err != nil { return e.err }
	e.buf = append(e.buf, '[')
	for i := range x {
		if i > 0 { e.buf = append(e.buf, ", "...) }
		e.appendFloat(x[i])
	}
	e.buf = append(e.buf, ']')
	return e.flush()
}

// Ints writes a flat array of integers, e.g. [1, 2, 3].
func (e *Encoder) Ints(x []int64) error {
	if e.err != nil { return e.err }
	e.buf = append(e.buf, '[')
	for i := range x {
		if i > 0 { e.buf = append(e.buf, ", "...) }
		e.buf = strconv.AppendInt(e.buf, x[i], 10)
	}
	e.buf = append(e.buf, ']')
	return e.flush()
}

// Strings writes a flat array of quoted strings.
func (e *Encoder) Strings(x []string) error {
	if e.err != nil { return e.err }
	e.buf = append(e.buf, '[')
	for i := range x {
		if i > 0 { e.buf = append(e.buf, ", "...) }
		e.appendString(x[i])
	}
	e.buf = append(e.buf, ']')
	return e.flush()
}

// Float64Matrix writes the row-major m x n matrix x as an array of rows,
// one row per line at indent+1, with the closing bracket at indent.
func (e *Encoder) Float64Matrix(x []float64, m, n, indent int) error {
	return e.matrix(m, indent, func(i int) error {
		return e.Float64s(x[i*n : (i+1)*n])
	})
}

// IntMatrix is Float64Matrix for integers.
func (e *Encoder) IntMatrix(x []int64, m, n, indent int) error {
	return e.matrix(m, indent, func(i int) error {
		return e.Ints(x[i*n : (i+1)*n])
	})
}

func (e *Encoder) matrix(m, indent int, row func(i int) error) error {
	e.str("[\n")
	for i := 0; i < m; i++ {
		e.Indent(indent + 1)
		row(i)
		if i < m-1 {
			e.str(",\n")
		} else {
			e.str("\n")
		}
	}
	e.Indent(indent)
	return e.str("]")
}
