package data

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/simonthor/zfit/core/space"
)

func TestFromSlice(t *testing.T) {
	d, err := FromSlice("obs1", []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if d.NumEvents() != 3 || d.NumObs() != 1 {
		t.Errorf("dims = (%d, %d), want (3, 1)", d.NumEvents(), d.NumObs())
	}
	if d.Weighted() {
		t.Error("Weighted() = true without weights")
	}
	if d.SumWeights() != 3 {
		t.Errorf("SumWeights() = %v, want 3 for uniform weights", d.SumWeights())
	}
	if d.WeightAt(1) != 1 {
		t.Errorf("WeightAt(1) = %v, want 1", d.WeightAt(1))
	}
}

func TestFromMatrixValidation(t *testing.T) {
	values := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	if _, err := FromMatrix([]string{"x"}, values); err == nil {
		t.Error("observable count mismatch should fail")
	}
	if _, err := FromMatrix([]string{"x", "y"}, values, WithWeights([]float64{1})); err == nil {
		t.Error("weight length mismatch should fail")
	}
	if _, err := FromMatrix([]string{"x", "y"}, values); err != nil {
		t.Errorf("valid construction failed: %v", err)
	}
}

func TestWeights(t *testing.T) {
	d, err := FromSlice("obs1", []float64{1, 2, 3}, WithWeights([]float64{0.5, 1.5, 2.0}))
	if err != nil {
		t.Fatal(err)
	}
	if !d.Weighted() {
		t.Error("Weighted() = false with weights")
	}
	if d.SumWeights() != 4.0 {
		t.Errorf("SumWeights() = %v, want 4.0", d.SumWeights())
	}
	if d.WeightAt(2) != 2.0 {
		t.Errorf("WeightAt(2) = %v, want 2.0", d.WeightAt(2))
	}

	// Weights() returns a copy; mutating it must not touch the dataset.
	w := d.Weights()
	w[0] = 99
	if d.WeightAt(0) != 0.5 {
		t.Error("Weights() exposed internal state")
	}
}

func TestProject(t *testing.T) {
	values := mat.NewDense(2, 3, []float64{
		1, 10, 100,
		2, 20, 200,
	})
	d, err := FromMatrix([]string{"x", "y", "z"}, values)
	if err != nil {
		t.Fatal(err)
	}

	proj, err := d.Project([]string{"z", "x"})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{100, 1, 200, 2}
	for i, w := range want {
		if got := proj.RawMatrix().Data[i]; got != w {
			t.Errorf("projected[%d] = %v, want %v", i, got, w)
		}
	}

	if _, err := d.Project([]string{"missing"}); err == nil {
		t.Error("projecting a missing observable should fail")
	}
}

func TestInside(t *testing.T) {
	d, err := FromSlice("obs1", []float64{-3, -1, 0, 2, 5}, WithWeights([]float64{1, 2, 3, 4, 5}))
	if err != nil {
		t.Fatal(err)
	}

	filtered, err := d.Inside(space.MustInterval("obs1", -1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if filtered.NumEvents() != 3 {
		t.Fatalf("NumEvents() = %d, want 3 (boundaries inclusive, outside excluded)", filtered.NumEvents())
	}
	if got := filtered.Weights(); got[0] != 2 || got[1] != 3 || got[2] != 4 {
		t.Errorf("weights not carried through filter: %v", got)
	}

	// Unbounded range keeps the dataset untouched.
	same, err := d.Inside(space.Unbounded("obs1"))
	if err != nil {
		t.Fatal(err)
	}
	if same.NumEvents() != d.NumEvents() {
		t.Error("unbounded range should keep every event")
	}

	if _, err := d.Inside(space.MustInterval("obs1", 100, 200)); err == nil {
		t.Error("range excluding every event should fail")
	}
}

func TestSlice(t *testing.T) {
	d, err := FromSlice("obs1", []float64{0, 1, 2, 3, 4}, WithWeights([]float64{5, 6, 7, 8, 9}))
	if err != nil {
		t.Fatal(err)
	}
	chunk := d.Slice(1, 4)
	if chunk.NumEvents() != 3 {
		t.Fatalf("chunk NumEvents() = %d, want 3", chunk.NumEvents())
	}
	if chunk.Values().At(0, 0) != 1 || chunk.Values().At(2, 0) != 3 {
		t.Error("chunk values misaligned")
	}
	if chunk.WeightAt(0) != 6 {
		t.Errorf("chunk WeightAt(0) = %v, want 6", chunk.WeightAt(0))
	}
}
