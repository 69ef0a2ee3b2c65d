package tofio

import (
	"fmt"
	"io"

	"github.com/phil-mansfield/toftable/lib/table"
	"github.com/phil-mansfield/toftable/lib/tof"
)

// Layout selects the structure of the output document.
type Layout int

const (
	LegacyLayout Layout = iota
	ScippLayout
)

func (l Layout) String() string {
	switch l {
	case LegacyLayout:
		return "legacy"
	case ScippLayout:
		return "scipp"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout converts a layout name ("legacy" or "scipp") to a Layout.
func ParseLayout(name string) (Layout, error) {
	switch name {
	case "", "legacy":
		return LegacyLayout, nil
	case "scipp":
		return ScippLayout, nil
	}
	return LegacyLayout, fmt.Errorf("'%s' is not a valid layout. Only "+
		"'legacy' and 'scipp' are valid.", name)
}

// Options control how a table is written.
type Options struct {
	Layout Layout
	// Precision is the number of significant digits for floats. Zero means
	// DefaultPrecision and a negative value means exact round-tripping.
	Precision int
	// Compress forces zstd compression in WriteFile even if the file name
	// does not end in ".zst".
	Compress bool
	// Level is the zstd compression level. Zero means DefaultLevel.
	Level int
}

// Write writes recs and tab to w. recs must have one entry per table row.
// Writing stops at the first failed write.
func Write(w io.Writer, recs []tof.Recorder, tab *table.Table, opt Options) error {
	if len(recs) != tab.Recorders() {
		return fmt.Errorf("%d recorders were given for a table with %d "+
			"recorders.", len(recs), tab.Recorders())
	}

	e := NewEncoder(w)
	if opt.Precision != 0 { e.SetPrecision(opt.Precision) }

	switch opt.Layout {
	case LegacyLayout:
		return writeLegacy(e, recs, tab)
	case ScippLayout:
		return writeScipp(e, recs, tab)
	}
	return fmt.Errorf("Unknown layout %d.", int(opt.Layout))
}

func writeLegacy(e *Encoder, recs []tof.Recorder, tab *table.Table) error {
	R, B := tab.Recorders(), tab.Bins()

	e.str("{\n")
	e.Indent(1)
	e.str(`"dims": {"time": `)
	e.Int(int64(B))
	e.str(`, "recorders": `)
	e.Int(int64(R))
	e.str("},\n")

	e.Indent(1)
	e.str("\"coords\": {\n")
	writeRecorderInfo(e, recs, 2)
	e.str(",\n")
	e.Indent(2)
	e.str(`"time": { "min": `)
	e.Float64(tab.TMin())
	e.str(`, "max": `)
	e.Float64(tab.TMax())
	e.str(`, "bins": `)
	e.Int(int64(B))
	e.str(" }\n")
	e.Indent(1)
	e.str("},\n")

	for _, m := range []table.Moment{table.TP, table.P1, table.P2} {
		e.Indent(1)
		e.str(fmt.Sprintf("%q: ", m.String()))
		e.Float64Matrix(tab.Float64s(m), R, B, 1)
		e.str(",\n")
	}
	e.Indent(1)
	e.str(`"n": `)
	e.IntMatrix(tab.Counts(), R, B, 1)
	return e.str("\n}\n")
}

func writeRecorderInfo(e *Encoder, recs []tof.Recorder, indent int) error {
	e.Indent(indent)
	e.str("\"recorders\": [\n")
	for i := range recs {
		e.Indent(indent + 1)
		e.str(`{ "name": `)
		e.String(recs[i].Name)
		e.str(`, "distance": `)
		e.Float64(recs[i].Distance)
		e.str(" }")
		if i < len(recs)-1 {
			e.str(",\n")
		} else {
			e.str("\n")
		}
	}
	e.Indent(indent)
	return e.str("]")
}

// scippVariable writes the opening of a variable dictionary, up to and
// including `"values": `.
func scippVariable(e *Encoder, indent int, name, unit, dtype string, dims ...string) error {
	e.Indent(indent)
	e.String(name)
	e.str(`: {"unit": `)
	if unit == "" {
		e.str("null")
	} else {
		e.String(unit)
	}
	e.str(`, "dtype": `)
	e.String(dtype)
	e.str(`, "dims": `)
	e.Strings(dims)
	return e.str(`, "values": `)
}

func writeScipp(e *Encoder, recs []tof.Recorder, tab *table.Table) error {
	R, B := tab.Recorders(), tab.Bins()
	names := make([]string, len(recs))
	distances := make([]float64, len(recs))
	for i := range recs {
		names[i], distances[i] = recs[i].Name, recs[i].Distance
	}

	e.str("{\n")
	e.Indent(1)
	e.str("\"type\": \"scipp.Dataset\",\n")

	e.Indent(1)
	e.str("\"coords\": {\n")
	scippVariable(e, 2, "time", "s", "float64", "time")
	e.Float64s(tab.BinEdges())
	e.str("},\n")
	scippVariable(e, 2, "distance", "m", "float64", "recorder")
	e.Float64s(distances)
	e.str("},\n")
	scippVariable(e, 2, "recorder", "", "string", "recorder")
	e.Strings(names)
	e.str("}\n")
	e.Indent(1)
	e.str("},\n")

	e.Indent(1)
	e.str("\"data\": {\n")
	units := map[table.Moment]string{
		table.TP: "s", table.P1: "dimensionless", table.P2: "dimensionless",
	}
	for _, m := range []table.Moment{table.TP, table.P1, table.P2} {
		scippVariable(e, 2, m.String(), units[m], "float64", "recorder", "time")
		e.Float64Matrix(tab.Float64s(m), R, B, 2)
		e.str("},\n")
	}
	scippVariable(e, 2, "n", "dimensionless", "int64", "recorder", "time")
	e.IntMatrix(tab.Counts(), R, B, 2)
	e.str("}\n")
	e.Indent(1)
	e.str("}\n")
	return e.str("}\n")
}
