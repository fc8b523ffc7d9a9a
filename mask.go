package rastlib

import (
	"math"

	"github.com/wgdzlh/rastlib/log"

	gdal "github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// 像元窗口
type window struct {
	col    int
	row    int
	width  int
	height int
}

func (w window) empty() bool {
	return w.width <= 0 || w.height <= 0
}

// 矢量范围对应的像元窗口：矢量包络角点经仿射逆变换入像元空间，
// 外扩pad后向外取整，再与栅格自身窗口求交
func (r Raster) geometryWindow(gs []orb.Geometry, padX, padY float64) (win window, err error) {
	inv, err := invertGT(r.gt)
	if err != nil {
		return
	}
	minCol, minRow := math.Inf(1), math.Inf(1)
	maxCol, maxRow := math.Inf(-1), math.Inf(-1)
	for _, g := range gs {
		b := g.Bound()
		for _, pt := range []orb.Point{
			{b.Min[0], b.Min[1]}, {b.Min[0], b.Max[1]},
			{b.Max[0], b.Min[1]}, {b.Max[0], b.Max[1]},
		} {
			c, rr := applyGT(inv, pt[0], pt[1])
			minCol = math.Min(minCol, c-padX)
			maxCol = math.Max(maxCol, c+padX)
			minRow = math.Min(minRow, rr-padY)
			maxRow = math.Max(maxRow, rr+padY)
		}
	}
	colStart := int(math.Floor(minCol))
	colStop := int(math.Ceil(maxCol))
	rowStart := int(math.Floor(minRow))
	rowStop := int(math.Ceil(maxRow))
	// 与栅格窗口求交
	colStart = max(colStart, 0)
	rowStart = max(rowStart, 0)
	colStop = min(colStop, r.width)
	rowStop = min(rowStop, r.height)
	win = window{
		col:    colStart,
		row:    rowStart,
		width:  colStop - colStart,
		height: rowStop - rowStart,
	}
	if win.empty() {
		err = ErrWindowOutside
	}
	return
}

// 窗口对应的仿射变换：原点平移到窗口左上角
func (r Raster) windowTransform(win window) [6]float64 {
	x, y := applyGT(r.gt, float64(win.col), float64(win.row))
	gt := r.gt
	gt[0] = x
	gt[3] = y
	return gt
}

// 在窗口内烧录矢量掩膜。返回掩膜中true为应被遮蔽的像元
func (r Raster) rasterizeMask(gs []orb.Geometry, win window, allTouched, invert bool) (mask []bool, err error) {
	registerDrivers()
	ds, err := gdal.Create(gdal.Memory, "", 1, gdal.Byte, win.width, win.height)
	if err != nil {
		log.Error(logTag+"create mask dataset failed", zap.Error(err))
		err = ErrGdalDriverCreate
		return
	}
	defer ds.Close()
	if err = ds.SetGeoTransform(r.windowTransform(win)); err != nil {
		return
	}
	var ref *gdal.SpatialRef
	if r.srs != "" {
		if ref, err = gdal.NewSpatialRefFromWKT(r.srs); err != nil {
			return
		}
		defer ref.Close()
		if err = ds.SetSpatialRef(ref); err != nil {
			return
		}
	}
	fill, burn := 1.0, 0.0
	if invert {
		fill, burn = 0.0, 1.0
	}
	if err = ds.Bands()[0].Fill(fill, 0); err != nil {
		return
	}
	opts := []gdal.RasterizeGeometryOption{gdal.Values(burn)}
	if allTouched {
		opts = append(opts, gdal.AllTouched())
	}
	var geo *gdal.Geometry
	for _, g := range gs {
		if geo, err = orbToGdal(g, ref); err != nil {
			return
		}
		err = ds.RasterizeGeometry(geo, opts...)
		geo.Close()
		if err != nil {
			log.Error(logTag+"rasterize geometry failed", zap.Error(err))
			return
		}
	}
	buf := make([]byte, win.width*win.height)
	if err = ds.Bands()[0].Read(0, 0, buf, win.width, win.height); err != nil {
		return
	}
	mask = make([]bool, len(buf))
	for i, v := range buf {
		mask[i] = v == 1
	}
	return
}

// Mask 以矢量面遮蔽栅格：默认保留面内像元，面外填充nodata哨兵值。
// Invert反转取舍；Crop同时将输出窗口收缩到矢量范围；Crop与Invert互斥
func (r Raster) Mask(gs []orb.Geometry, opts ...MaskOptions) (out Raster, err error) {
	if len(gs) == 0 {
		err = ErrEmptyGeometry
		return
	}
	var o MaskOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Crop && o.Invert {
		err = ErrCropInvert
		return
	}
	win := window{width: r.width, height: r.height}
	if o.Crop {
		if win, err = r.geometryWindow(gs, o.PadX, o.PadY); err != nil {
			return
		}
	}
	mask, err := r.rasterizeMask(gs, win, o.AllTouched, o.Invert)
	if err != nil {
		return
	}
	nd := float64(DEFAULT_NODATA)
	if r.nodata != nil {
		nd = *r.nodata
	}
	data := make([]float64, win.width*win.height)
	for row := 0; row < win.height; row++ {
		for col := 0; col < win.width; col++ {
			i := row*win.width + col
			if mask[i] {
				data[i] = nd
			} else {
				data[i] = r.At(win.row+row, win.col+col)
			}
		}
	}
	log.Info(logTag+"masked raster", zap.Int("geoms", len(gs)), zap.Bool("crop", o.Crop), zap.Bool("invert", o.Invert))
	out = Raster{
		data:   data,
		width:  win.width,
		height: win.height,
		gt:     r.windowTransform(win),
		srs:    r.srs,
		nodata: &nd,
		dtype:  r.dtype,
	}
	return
}

// MaskArray 仅计算矢量掩膜及其窗口变换，不改写像元
func (r Raster) MaskArray(gs []orb.Geometry, opts ...MaskOptions) (mask []bool, gt [6]float64, err error) {
	if len(gs) == 0 {
		err = ErrEmptyGeometry
		return
	}
	var o MaskOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Crop && o.Invert {
		err = ErrCropInvert
		return
	}
	win := window{width: r.width, height: r.height}
	if o.Crop {
		if win, err = r.geometryWindow(gs, o.PadX, o.PadY); err != nil {
			return
		}
	}
	gt = r.windowTransform(win)
	mask, err = r.rasterizeMask(gs, win, o.AllTouched, o.Invert)
	return
}
