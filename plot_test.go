package rastlib

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSavePlot(t *testing.T) {
	r := mustRaster(t, []float64{1, 2, -9999, 4, 5, 6}, 3, 2,
		WithTransform([6]float64{0, 1, 0, 2, 0, -1}), WithNoData(-9999))
	path := filepath.Join(t.TempDir(), "heat.png")
	if err := r.SavePlot(path, PlotTitle("demo")); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Fatal("empty plot file")
	}
}

func TestHeatGridOrientation(t *testing.T) {
	r := mustRaster(t, []float64{1, 2, 3, 4, 5, 6}, 3, 2,
		WithTransform([6]float64{0, 1, 0, 2, 0, -1}))
	h := heatGrid{r}
	c, rows := h.Dims()
	if c != 3 || rows != 2 {
		t.Fatal(c, rows)
	}
	// y须随索引递增：索引0对应底行
	if h.Y(0) >= h.Y(1) {
		t.Fatal(h.Y(0), h.Y(1))
	}
	if h.Z(0, 0) != 4 || h.Z(0, 1) != 1 {
		t.Fatal(h.Z(0, 0), h.Z(0, 1))
	}
}
