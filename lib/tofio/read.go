package tofio

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/phil-mansfield/toftable/lib/table"
	"github.com/phil-mansfield/toftable/lib/tof"
)

// Dataset is a table read back from a document together with its recorders.
type Dataset struct {
	Layout    Layout
	Recorders []tof.Recorder
	Table     *table.Table
}

// nullFloat reads JSON null as NaN.
type nullFloat float64

func (x *nullFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*x = nullFloat(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil { return err }
	*x = nullFloat(f)
	return nil
}

type legacyDoc struct {
	Dims struct {
		Time      int `json:"time"`
		Recorders int `json:"recorders"`
	} `json:"dims"`
	Coords struct {
		Recorders []struct {
			Name     string    `json:"name"`
			Distance nullFloat `json:"distance"`
		} `json:"recorders"`
		Time struct {
			Min  nullFloat `json:"min"`
			Max  nullFloat `json:"max"`
			Bins int       `json:"bins"`
		} `json:"time"`
	} `json:"coords"`
	TP [][]nullFloat `json:"tp"`
	P1 [][]nullFloat `json:"p1"`
	P2 [][]nullFloat `json:"p2"`
	N  [][]int64     `json:"n"`
}

type scippFloats struct {
	Values []nullFloat `json:"values"`
}

type scippStrings struct {
	Values []string `json:"values"`
}

type scippFloatMatrix struct {
	Values [][]nullFloat `json:"values"`
}

type scippIntMatrix struct {
	Values [][]int64 `json:"values"`
}

type scippDoc struct {
	Type   string `json:"type"`
	Coords struct {
		Time     scippFloats  `json:"time"`
		Distance scippFloats  `json:"distance"`
		Recorder scippStrings `json:"recorder"`
	} `json:"coords"`
	Data struct {
		TP scippFloatMatrix `json:"tp"`
		P1 scippFloatMatrix `json:"p1"`
		P2 scippFloatMatrix `json:"p2"`
		N  scippIntMatrix   `json:"n"`
	} `json:"data"`
}

// Read parses a document in either layout. Documents with a "type" key are
// read as ScippLayout.
func Read(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil { return nil, err }

	probe := struct {
		Type *string `json:"type"`
	}{}
	if err := json.Unmarshal(raw, &probe); err != nil { return nil, err }

	if probe.Type == nil { return readLegacy(raw) }
	if *probe.Type != "scipp.Dataset" {
		return nil, fmt.Errorf("Unrecognized document type '%s'.", *probe.Type)
	}
	return readScipp(raw)
}

func readLegacy(raw []byte) (*Dataset, error) {
	doc := &legacyDoc{}
	if err := json.Unmarshal(raw, doc); err != nil { return nil, err }

	R, B := doc.Dims.Recorders, doc.Dims.Time
	if len(doc.Coords.Recorders) != R {
		return nil, fmt.Errorf("dims lists %d recorders, but %d are "+
			"described in coords.", R, len(doc.Coords.Recorders))
	} else if doc.Coords.Time.Bins != B {
		return nil, fmt.Errorf("dims lists %d time bins, but coords lists %d.",
			B, doc.Coords.Time.Bins)
	}

	recs := make([]tof.Recorder, R)
	for i, rec := range doc.Coords.Recorders {
		recs[i] = tof.Recorder{Name: rec.Name, Distance: float64(rec.Distance)}
	}

	tab, err := buildTable(R, B,
		float64(doc.Coords.Time.Min), float64(doc.Coords.Time.Max),
		doc.TP, doc.P1, doc.P2, doc.N)
	if err != nil { return nil, err }
	return &Dataset{Layout: LegacyLayout, Recorders: recs, Table: tab}, nil
}

func readScipp(raw []byte) (*Dataset, error) {
	doc := &scippDoc{}
	if err := json.Unmarshal(raw, doc); err != nil { return nil, err }

	edges := doc.Coords.Time.Values
	if len(edges) < 2 {
		return nil, fmt.Errorf("The time coordinate needs at least two bin "+
			"edges, but has %d.", len(edges))
	}
	names, dists := doc.Coords.Recorder.Values, doc.Coords.Distance.Values
	if len(names) != len(dists) {
		return nil, fmt.Errorf("%d recorder names were given, but %d "+
			"distances.", len(names), len(dists))
	}

	R, B := len(names), len(edges)-1
	recs := make([]tof.Recorder, R)
	for i := range recs {
		recs[i] = tof.Recorder{Name: names[i], Distance: float64(dists[i])}
	}

	tab, err := buildTable(R, B, float64(edges[0]), float64(edges[B]),
		doc.Data.TP.Values, doc.Data.P1.Values, doc.Data.P2.Values,
		doc.Data.N.Values)
	if err != nil { return nil, err }
	return &Dataset{Layout: ScippLayout, Recorders: recs, Table: tab}, nil
}

func buildTable(
	R, B int, tMin, tMax float64, tp, p1, p2 [][]nullFloat, n [][]int64,
) (*table.Table, error) {
	ftp, err := flattenFloats("tp", tp, R, B)
	if err != nil { return nil, err }
	fp1, err := flattenFloats("p1", p1, R, B)
	if err != nil { return nil, err }
	fp2, err := flattenFloats("p2", p2, R, B)
	if err != nil { return nil, err }
	fn, err := flattenInts("n", n, R, B)
	if err != nil { return nil, err }

	return table.FromArrays(R, B, tMin, tMax, ftp, fp1, fp2, fn)
}

func checkShape(name string, rows, R, B int, rowLen func(i int) int) error {
	if rows != R {
		return fmt.Errorf("'%s' has %d rows, but there are %d recorders.",
			name, rows, R)
	}
	for i := 0; i < rows; i++ {
		if rowLen(i) != B {
			return fmt.Errorf("Row %d of '%s' has %d values, but there are "+
				"%d time bins.", i, name, rowLen(i), B)
		}
	}
	return nil
}

func flattenFloats(name string, x [][]nullFloat, R, B int) ([]float64, error) {
	err := checkShape(name, len(x), R, B, func(i int) int { return len(x[i]) })
	if err != nil { return nil, err }
	out := make([]float64, 0, R*B)
	for i := range x {
		for j := range x[i] {
			out = append(out, float64(x[i][j]))
		}
	}
	return out, nil
}

func flattenInts(name string, x [][]int64, R, B int) ([]int64, error) {
	err := checkShape(name, len(x), R, B, func(i int) int { return len(x[i]) })
	if err != nil { return nil, err }
	out := make([]int64, 0, R*B)
	for i := range x {
		out = append(out, x[i]...)
	}
	return out, nil
}
