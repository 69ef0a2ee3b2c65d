package eq

import (
	"testing"
)

func TestGeneric(t *testing.T) {
	tests := []struct{
		x, y interface{}
		res bool
	} {
		{[]int{}, []int{}, true},
		{[]int{1, 2}, []int{1, 2}, true},
		{[]int{1, 2}, []int{2, 1}, false},
		{[]int{1, 2}, []int64{1, 2}, false},
		{[]int64{1, 2}, []int64{1, 2}, true},
		{[]string{"a"}, []string{"a"}, true},
		{[]string{"a"}, []string{"a", "b"}, false},
		{[]float64{0.25}, []float64{0.25}, true},
		{[]float64{0.25}, []float64{0.5}, false},
		{[]byte{1}, []byte{1}, false},
	}

	for i := range tests {
		if res := Generic(tests[i].x, tests[i].y); res != tests[i].res {
			t.Errorf("%d) Expected Generic(%v, %v) = %v, got %v.",
				i, tests[i].x, tests[i].y, tests[i].res, res)
		}
	}
}

func TestFloat64sEps(t *testing.T) {
	tests := []struct{
		x, y []float64
		eps float64
		res bool
	} {
		{[]float64{}, []float64{}, 0, true},
		{[]float64{1, 2}, []float64{1.05, 1.95}, 0.1, true},
		{[]float64{1, 2}, []float64{1.05, 1.85}, 0.1, false},
		{[]float64{1}, []float64{1, 1}, 1, false},
	}

	for i := range tests {
		res := Float64sEps(tests[i].x, tests[i].y, tests[i].eps)
		if res != tests[i].res {
			t.Errorf("%d) Expected Float64sEps(%v, %v, %g) = %v, got %v.",
				i, tests[i].x, tests[i].y, tests[i].eps, tests[i].res, res)
		}
	}
}
