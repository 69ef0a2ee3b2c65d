/*package table contains the histogram that time-of-flight samples are
accumulated into. A Table has one row per recorder and one column per time
bin, and each cell holds three weighted moments and a raw count:

  TP - sum of t*w
  P1 - sum of w
  P2 - sum of w*w
  N  - number of samples

Keeping moments instead of means makes every update a pure addition, so
cells can be filled from many goroutines and tables from different workers
can be merged exactly.
*/
package table

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Moment names one of the four accumulators stored in each cell.
type Moment int

const (
	TP Moment = iota
	P1
	P2
	N
	numMoments
)

// Moments lists every Moment in output order.
var Moments = []Moment{TP, P1, P2, N}

func (m Moment) String() string {
	switch m {
	case TP:
		return "tp"
	case P1:
		return "p1"
	case P2:
		return "p2"
	case N:
		return "n"
	}
	return fmt.Sprintf("Moment(%d)", int(m))
}

// Cell is a copy of the accumulators of a single (recorder, bin) cell.
type Cell struct {
	TP, P1, P2 float64
	N          int64
}

// Table is a dense recorders x bins histogram over the time range
// [TMin, TMax). Each row is guarded by its own mutex: updates to one cell
// are atomic with respect to each other and updates to different rows never
// contend.
type Table struct {
	recorders, bins int
	tMin, tMax      float64

	tp, p1, p2 []float64
	n          []int64

	rows []sync.Mutex
}

// New creates a zeroed table with the given shape and time range. recorders
// may be zero, but bins must be positive and tMax must be larger than tMin.
func New(recorders, bins int, tMin, tMax float64) (*Table, error) {
	if recorders < 0 {
		return nil, fmt.Errorf("A table cannot have %d recorders.", recorders)
	} else if bins < 1 {
		return nil, fmt.Errorf("A table needs at least one time bin, but "+
			"%d were requested.", bins)
	} else if math.IsNaN(tMin) || math.IsInf(tMin, 0) ||
		math.IsNaN(tMax) || math.IsInf(tMax, 0) {
		return nil, fmt.Errorf("Time bounds [%g, %g) are not finite.",
			tMin, tMax)
	} else if tMax <= tMin {
		return nil, fmt.Errorf("TMax, %g, must be larger than TMin, %g.",
			tMax, tMin)
	}

	size := recorders * bins
	return &Table{
		recorders: recorders, bins: bins, tMin: tMin, tMax: tMax,
		tp: make([]float64, size), p1: make([]float64, size),
		p2: make([]float64, size), n: make([]int64, size),
		rows: make([]sync.Mutex, recorders),
	}, nil
}

// FromArrays creates a table from existing row-major accumulator arrays, as
// read back from an output file. The arrays are copied.
func FromArrays(
	recorders, bins int, tMin, tMax float64,
	tp, p1, p2 []float64, n []int64,
) (*Table, error) {
	tab, err := New(recorders, bins, tMin, tMax)
	if err != nil { return nil, err }

	size := recorders * bins
	if len(tp) != size || len(p1) != size || len(p2) != size || len(n) != size {
		return nil, fmt.Errorf("A %d x %d table needs arrays of length %d, "+
			"but got tp: %d, p1: %d, p2: %d, n: %d.", recorders, bins, size,
			len(tp), len(p1), len(p2), len(n))
	}
	copy(tab.tp, tp)
	copy(tab.p1, p1)
	copy(tab.p2, p2)
	copy(tab.n, n)
	return tab, nil
}

func (tab *Table) Recorders() int { return tab.recorders }
func (tab *Table) Bins() int      { return tab.bins }
func (tab *Table) TMin() float64  { return tab.tMin }
func (tab *Table) TMax() float64  { return tab.tMax }

// Size returns the number of cells, Recorders() * Bins().
func (tab *Table) Size() int { return tab.recorders * tab.bins }

// Bin returns the time bin that t falls into. ok is false if t is outside
// [TMin, TMax) or is NaN.
func (tab *Table) Bin(t float64) (j int, ok bool) {
	x := (t - tab.tMin) / (tab.tMax - tab.tMin) * float64(tab.bins)
	if !(x >= 0) || x >= float64(tab.bins) {
		return -1, false
	}
	return int(math.Floor(x)), true
}

// BinEdges returns the Bins()+1 edges of the time bins.
func (tab *Table) BinEdges() []float64 {
	edges := make([]float64, tab.bins+1)
	dt := (tab.tMax - tab.tMin) / float64(tab.bins)
	for j := range edges {
		edges[j] = tab.tMin + float64(j)*dt
	}
	edges[tab.bins] = tab.tMax
	return edges
}

// BinCenters returns the midpoints of the time bins.
func (tab *Table) BinCenters() []float64 {
	centers := make([]float64, tab.bins)
	dt := (tab.tMax - tab.tMin) / float64(tab.bins)
	for j := range centers {
		centers[j] = tab.tMin + (float64(j)+0.5)*dt
	}
	return centers
}

// Add folds a single sample of weight w taken at time t by recorder i into
// the table. It returns false without modifying anything if t falls outside
// the time range. i must be in [0, Recorders()).
func (tab *Table) Add(i int, t, w float64) bool {
	j, ok := tab.Bin(t)
	if !ok { return false }

	k := i*tab.bins + j
	tab.rows[i].Lock()
	tab.p1[k] += w
	tab.p2[k] += w * w
	tab.tp[k] += t * w
	tab.n[k]++
	tab.rows[i].Unlock()
	return true
}

// AddSamples folds one sample per recorder into the table: recorder i took
// the sample (ts[i], ws[i]). Samples outside the time range are skipped. It
// returns the number of samples that landed in a bin.
func (tab *Table) AddSamples(ts, ws []float64) (binned int, err error) {
	if len(ts) != tab.recorders || len(ws) != tab.recorders {
		return 0, fmt.Errorf("Table has %d recorders, but was given %d "+
			"times and %d weights.", tab.recorders, len(ts), len(ws))
	}
	for i := range ts {
		if tab.Add(i, ts[i], ws[i]) { binned++ }
	}
	return binned, nil
}

// Cell returns a consistent copy of cell (i, j).
func (tab *Table) Cell(i, j int) Cell {
	k := i*tab.bins + j
	tab.rows[i].Lock()
	defer tab.rows[i].Unlock()
	return Cell{TP: tab.tp[k], P1: tab.p1[k], P2: tab.p2[k], N: tab.n[k]}
}

// Float64s returns a row-major copy of the accumulator for a floating point
// moment (TP, P1, or P2).
func (tab *Table) Float64s(m Moment) []float64 {
	var src []float64
	switch m {
	case TP:
		src = tab.tp
	case P1:
		src = tab.p1
	case P2:
		src = tab.p2
	case N:
		counts := tab.Counts()
		out := make([]float64, len(counts))
		for k := range counts { out[k] = float64(counts[k]) }
		return out
	default:
		panic(fmt.Sprintf("Internal error: unknown moment %d.", int(m)))
	}

	out := make([]float64, len(src))
	for i := 0; i < tab.recorders; i++ {
		lo, hi := i*tab.bins, (i+1)*tab.bins
		tab.rows[i].Lock()
		copy(out[lo:hi], src[lo:hi])
		tab.rows[i].Unlock()
	}
	return out
}

// Counts returns a row-major copy of the raw counts.
func (tab *Table) Counts() []int64 {
	out := make([]int64, len(tab.n))
	for i := 0; i < tab.recorders; i++ {
		lo, hi := i*tab.bins, (i+1)*tab.bins
		tab.rows[i].Lock()
		copy(out[lo:hi], tab.n[lo:hi])
		tab.rows[i].Unlock()
	}
	return out
}

// Matrix returns a copy of one moment as a Recorders() x Bins() matrix. It
// returns nil for a table with no recorders, since gonum does not allow
// empty matrices.
func (tab *Table) Matrix(m Moment) *mat.Dense {
	if tab.recorders == 0 { return nil }
	return mat.NewDense(tab.recorders, tab.bins, tab.Float64s(m))
}

// Reset zeroes every accumulator.
func (tab *Table) Reset() {
	for i := 0; i < tab.recorders; i++ {
		lo, hi := i*tab.bins, (i+1)*tab.bins
		tab.rows[i].Lock()
		for k := lo; k < hi; k++ {
			tab.tp[k], tab.p1[k], tab.p2[k], tab.n[k] = 0, 0, 0, 0
		}
		tab.rows[i].Unlock()
	}
}

// Merge adds every cell of other into tab. Both tables must have the same
// shape and time range. other should not be modified concurrently.
func (tab *Table) Merge(other *Table) error {
	if tab == other {
		return fmt.Errorf("A table cannot be merged into itself.")
	} else if other.recorders != tab.recorders || other.bins != tab.bins {
		return fmt.Errorf("Cannot merge a %d x %d table into a %d x %d table.",
			other.recorders, other.bins, tab.recorders, tab.bins)
	} else if other.tMin != tab.tMin || other.tMax != tab.tMax {
		return fmt.Errorf("Cannot merge a table over [%g, %g) into a table "+
			"over [%g, %g).", other.tMin, other.tMax, tab.tMin, tab.tMax)
	}

	for i := 0; i < tab.recorders; i++ {
		lo, hi := i*tab.bins, (i+1)*tab.bins
		other.rows[i].Lock()
		tab.rows[i].Lock()
		for k := lo; k < hi; k++ {
			tab.tp[k] += other.tp[k]
			tab.p1[k] += other.p1[k]
			tab.p2[k] += other.p2[k]
			tab.n[k] += other.n[k]
		}
		tab.rows[i].Unlock()
		other.rows[i].Unlock()
	}
	return nil
}
