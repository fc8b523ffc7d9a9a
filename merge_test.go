package rastlib

import "testing"

func mergePair(t *testing.T) []Raster {
	t.Helper()
	a := mustRaster(t, []float64{1, 2, 3, 4}, 2, 2,
		WithTransform([6]float64{0, 1, 0, 2, 0, -1}), WithNoData(-9999))
	b := mustRaster(t, []float64{10, 20, 30, 40}, 2, 2,
		WithTransform([6]float64{1, 1, 0, 1, 0, -1}), WithNoData(-9999))
	return []Raster{a, b}
}

func TestMergeFirstLast(t *testing.T) {
	out, err := Merge(mergePair(t), MergeFirst)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 3 || out.Height() != 3 {
		t.Fatal(out.Shape())
	}
	if got := out.Transform(); got != ([6]float64{0, 1, 0, 2, 0, -1}) {
		t.Fatal(got)
	}
	want := []float64{
		1, 2, -9999,
		3, 4, 20,
		-9999, 30, 40,
	}
	for i, v := range out.Data() {
		if v != want[i] {
			t.Fatal(i, v, want[i])
		}
	}

	out, err = Merge(mergePair(t), MergeLast)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(1, 1) != 10 {
		t.Fatal(out.At(1, 1))
	}
}

func TestMergeMinMaxSum(t *testing.T) {
	out, err := Merge(mergePair(t), MergeMin)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(1, 1) != 4 {
		t.Fatal(out.At(1, 1))
	}
	out, err = Merge(mergePair(t), MergeMax)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(1, 1) != 10 {
		t.Fatal(out.At(1, 1))
	}
	out, err = Merge(mergePair(t), MergeSum)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(1, 1) != 14 || out.At(0, 0) != 1 {
		t.Fatal(out.At(1, 1), out.At(0, 0))
	}
}

func TestMergeCount(t *testing.T) {
	out, err := Merge(mergePair(t), MergeCount)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(1, 1) != 2 || out.At(0, 0) != 1 || out.At(0, 2) != 0 {
		t.Fatal(out.Data())
	}
}

func TestMergeErrors(t *testing.T) {
	if _, err := Merge(nil, MergeFirst); err != ErrNoRasters {
		t.Fatal(err)
	}
	if _, err := Merge(mergePair(t), MergeMethod("median")); err != ErrUnknownMerge {
		t.Fatal(err)
	}
	noNd := mustRaster(t, []float64{1, 2, 3, 4}, 2, 2)
	if _, err := Merge([]Raster{noNd}, MergeFirst); err != ErrVoidNoData {
		t.Fatal(err)
	}
	pair := mergePair(t)
	pair[1] = pair[1].ClearNoData()
	if _, err := Merge(pair, MergeFirst); err != ErrMergeMismatch {
		t.Fatal(err)
	}
	pair = mergePair(t)
	coarse := mustRaster(t, []float64{1}, 1, 1,
		WithTransform([6]float64{0, 2, 0, 2, 0, -2}), WithNoData(-9999))
	if _, err := Merge([]Raster{pair[0], coarse}, MergeFirst); err != ErrMergeMismatch {
		t.Fatal(err)
	}
}
