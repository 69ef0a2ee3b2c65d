/*package stats derives summary statistics from the moments stored in a
time-of-flight table.
*/
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/toftable/lib/table"
)

// Cells returns two recorders x bins matrices: the mean arrival time of each
// cell, tp/p1, and its effective sample count, p1^2/p2. Cells with no weight
// are NaN in both. Both are nil if the table has no recorders.
func Cells(tab *table.Table) (meanTime, effCount *mat.Dense) {
	if tab.Recorders() == 0 { return nil, nil }

	tp, p1, p2 := tab.Matrix(table.TP), tab.Matrix(table.P1),
		tab.Matrix(table.P2)

	meanTime = &mat.Dense{}
	meanTime.DivElem(tp, p1)

	effCount = &mat.Dense{}
	effCount.MulElem(p1, p1)
	effCount.DivElem(effCount, p2)

	R, B := tab.Recorders(), tab.Bins()
	for i := 0; i < R; i++ {
		for j := 0; j < B; j++ {
			if p1.At(i, j) == 0 {
				meanTime.Set(i, j, math.NaN())
				effCount.Set(i, j, math.NaN())
			}
		}
	}

	return meanTime, effCount
}

// Recorder summarizes a single table row.
type Recorder struct {
	// Weight is the total weight, sum(p1), and Count is sum(n).
	Weight float64
	Count  int64
	// MeanTime and StdTime are the mean and population standard deviation
	// of the bin centres, weighted by p1. Both are NaN for an empty row.
	MeanTime, StdTime float64
}

// Recorders summarizes every row of the table.
func Recorders(tab *table.Table) []Recorder {
	R, B := tab.Recorders(), tab.Bins()
	p1, n := tab.Float64s(table.P1), tab.Counts()
	centers := tab.BinCenters()

	out := make([]Recorder, R)
	dev := make([]float64, B)
	for i := range out {
		w := p1[i*B : (i+1)*B]
		rec := &out[i]
		rec.Weight = floats.Sum(w)
		for _, c := range n[i*B : (i+1)*B] {
			rec.Count += c
		}

		if rec.Weight == 0 {
			rec.MeanTime, rec.StdTime = math.NaN(), math.NaN()
			continue
		}

		rec.MeanTime = stat.Mean(centers, w)
		for j := range dev {
			dx := centers[j] - rec.MeanTime
			dev[j] = dx*dx
		}
		rec.StdTime = math.Sqrt(stat.Mean(dev, w))
	}

	return out
}
