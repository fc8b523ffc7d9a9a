package rastlib

import (
	"testing"

	"github.com/paulmach/orb"
)

func rect(xmin, ymin, xmax, ymax float64) orb.Polygon {
	return orb.Polygon{{
		{xmin, ymin}, {xmax, ymin}, {xmax, ymax}, {xmin, ymax}, {xmin, ymin},
	}}
}

func TestGeometryWindow(t *testing.T) {
	r := mustRaster(t, make([]float64, 100), 10, 10, WithTransform([6]float64{0, 1, 0, 10, 0, -1}))
	win, err := r.geometryWindow([]orb.Geometry{rect(2, 3, 5, 6)}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if win != (window{col: 2, row: 4, width: 3, height: 3}) {
		t.Fatal(win)
	}
	gt := r.windowTransform(win)
	if gt[0] != 2 || gt[3] != 6 || gt[1] != 1 || gt[5] != -1 {
		t.Fatal(gt)
	}
}

func TestGeometryWindowPad(t *testing.T) {
	r := mustRaster(t, make([]float64, 100), 10, 10, WithTransform([6]float64{0, 1, 0, 10, 0, -1}))
	win, err := r.geometryWindow([]orb.Geometry{rect(2, 3, 5, 6)}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if win != (window{col: 1, row: 3, width: 5, height: 5}) {
		t.Fatal(win)
	}
}

func TestGeometryWindowClamp(t *testing.T) {
	r := mustRaster(t, make([]float64, 100), 10, 10, WithTransform([6]float64{0, 1, 0, 10, 0, -1}))
	// 矢量范围超出栅格时窗口收缩到栅格内
	win, err := r.geometryWindow([]orb.Geometry{rect(-5, 8, 3, 15)}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if win != (window{col: 0, row: 0, width: 3, height: 2}) {
		t.Fatal(win)
	}
	if _, err = r.geometryWindow([]orb.Geometry{rect(20, 20, 25, 25)}, 0, 0); err != ErrWindowOutside {
		t.Fatal(err)
	}
}

func TestMaskOptionErrors(t *testing.T) {
	r := mustRaster(t, make([]float64, 100), 10, 10, WithTransform([6]float64{0, 1, 0, 10, 0, -1}))
	if _, err := r.Mask(nil); err != ErrEmptyGeometry {
		t.Fatal(err)
	}
	gs := []orb.Geometry{rect(2, 3, 5, 6)}
	if _, err := r.Mask(gs, MaskOptions{Crop: true, Invert: true}); err != ErrCropInvert {
		t.Fatal(err)
	}
	if _, _, err := r.MaskArray(gs, MaskOptions{Crop: true, Invert: true}); err != ErrCropInvert {
		t.Fatal(err)
	}
}
