package rastlib

import (
	"path/filepath"
	"testing"

	gdal "github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqRaster(t *testing.T, w, h int, opts ...RasterOption) Raster {
	t.Helper()
	data := make([]float64, w*h)
	for i := range data {
		data[i] = float64(i)
	}
	return mustRaster(t, data, w, h, opts...)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := seqRaster(t, 4, 3,
		WithTransform([6]float64{100, 0.5, 0, 40, 0, -0.5}),
		WithSRID(4326), WithNoData(-9999))
	path := filepath.Join(t.TempDir(), "r.tif")
	require.NoError(t, r.Save(path))

	out, err := LoadRaster(path)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Width())
	assert.Equal(t, 3, out.Height())
	assert.Equal(t, r.Transform(), out.Transform())
	assert.Equal(t, r.Data(), out.Data())
	nd, ok := out.NoData()
	assert.True(t, ok)
	assert.Equal(t, -9999.0, nd)
	srid, err := out.EPSG()
	require.NoError(t, err)
	assert.Equal(t, 4326, srid)

	meta, err := RasterMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, 4, meta.Width)
	assert.Equal(t, 3, meta.Height)
	assert.Equal(t, 1, meta.Bands)
	assert.Equal(t, "Float64", meta.DataType)
	require.NotNil(t, meta.NoData)
	assert.Equal(t, -9999.0, *meta.NoData)

	_, err = LoadRaster(path, Band(2))
	assert.ErrorIs(t, err, ErrWrongBand)
	_, err = LoadRaster(filepath.Join(t.TempDir(), "void.tif"))
	assert.ErrorIs(t, err, ErrInvalidTif)
}

func TestSaveAsType(t *testing.T) {
	r := seqRaster(t, 4, 4, WithTransform([6]float64{0, 1, 0, 4, 0, -1}), WithSRID(4326))
	path := filepath.Join(t.TempDir(), "byte.tif")
	require.NoError(t, r.AsType(gdal.Byte).Save(path))
	out, err := LoadRaster(path)
	require.NoError(t, err)
	assert.Equal(t, gdal.Byte, out.DType())
	assert.Equal(t, r.Data(), out.Data())
}

func TestToCRS(t *testing.T) {
	r := seqRaster(t, 4, 4,
		WithTransform([6]float64{100, 0.5, 0, 40, 0, -0.5}),
		WithSRID(4326), WithNoData(-9999))
	out, err := r.ToCRS(3857)
	require.NoError(t, err)
	srid, err := out.EPSG()
	require.NoError(t, err)
	assert.Equal(t, 3857, srid)
	b := out.Bounds()
	// 经度100°在Web墨卡托下约为1.11e7米
	assert.InDelta(t, 1.1131949e7, b[0], 1e3)

	same, err := r.ToCRS(4326)
	require.NoError(t, err)
	assert.Equal(t, r.Data(), same.Data())
	assert.Equal(t, r.Transform(), same.Transform())

	noSrs := seqRaster(t, 2, 2)
	_, err = noSrs.ToCRS(3857)
	assert.ErrorIs(t, err, ErrVoidSRS)
	_, err = r.ToCRS(3857, ResampleMethod("fancy"))
	assert.ErrorIs(t, err, ErrUnknownResample)
}

func TestResample(t *testing.T) {
	r := seqRaster(t, 4, 4, WithTransform([6]float64{0, 1, 0, 4, 0, -1}), WithSRID(4326))
	out, err := r.Resample(&ResampleOptions{Method: ResampleNearest, ScaleFactor: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Width())
	assert.Equal(t, 2, out.Height())
	xres, yres := out.Resolution()
	assert.Equal(t, 2.0, xres)
	assert.Equal(t, 2.0, yres)

	out, err = r.Resample(&ResampleOptions{Method: ResampleNearest, TargetWidth: 8, TargetHeight: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, out.Width())

	out, err = r.Resample(&ResampleOptions{Method: ResampleAverage, TargetResX: 2, TargetResY: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Width())

	_, err = r.Resample(&ResampleOptions{Method: ResampleNearest})
	assert.ErrorIs(t, err, ErrVoidResampleSpec)
}

func TestClipBounds(t *testing.T) {
	r := seqRaster(t, 10, 10, WithTransform([6]float64{0, 1, 0, 10, 0, -1}), WithSRID(4326))
	out, err := r.ClipBounds(Bounds{2, 3, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Width())
	assert.Equal(t, 3, out.Height())
	gt := out.Transform()
	assert.Equal(t, 2.0, gt[0])
	assert.Equal(t, 6.0, gt[3])
	// 左上角像元应为原栅格(4,2)处的值
	assert.Equal(t, r.At(4, 2), out.At(0, 0))

	_, err = r.ClipBounds(Bounds{5, 5, 2, 2})
	assert.ErrorIs(t, err, ErrWindowOutside)
}

func TestClipGeometry(t *testing.T) {
	r := seqRaster(t, 10, 10, WithTransform([6]float64{0, 1, 0, 10, 0, -1}), WithSRID(4326))
	out, err := r.ClipGeometry(rect(2, 3, 5, 6))
	require.NoError(t, err)
	assert.Equal(t, 3, out.Width())
	assert.Equal(t, 3, out.Height())
	nd, ok := out.NoData()
	assert.True(t, ok)
	assert.Equal(t, float64(DEFAULT_NODATA), nd)
	assert.Equal(t, 9, out.ValidCount())

	_, err = r.ClipGeometry()
	assert.ErrorIs(t, err, ErrEmptyGeometry)
}

func TestMaskRasterize(t *testing.T) {
	r := seqRaster(t, 10, 10, WithTransform([6]float64{0, 1, 0, 10, 0, -1}),
		WithSRID(4326), WithNoData(-9999))
	gs := []orb.Geometry{rect(2, 3, 5, 6)}

	out, err := r.Mask(gs)
	require.NoError(t, err)
	assert.Equal(t, 10, out.Width())
	assert.Equal(t, 9, out.ValidCount())
	assert.Equal(t, r.At(4, 2), out.At(4, 2))
	assert.Equal(t, -9999.0, out.At(0, 0))

	inv, err := r.Mask(gs, MaskOptions{Invert: true})
	require.NoError(t, err)
	assert.Equal(t, 91, inv.ValidCount())
	assert.Equal(t, -9999.0, inv.At(4, 2))

	crop, err := r.Mask(gs, MaskOptions{Crop: true})
	require.NoError(t, err)
	assert.Equal(t, 3, crop.Width())
	assert.Equal(t, 3, crop.Height())
	assert.Equal(t, 9, crop.ValidCount())
	gt := crop.Transform()
	assert.Equal(t, 2.0, gt[0])
	assert.Equal(t, 6.0, gt[3])

	mask, mgt, err := r.MaskArray(gs, MaskOptions{Crop: true})
	require.NoError(t, err)
	assert.Len(t, mask, 9)
	assert.Equal(t, crop.Transform(), mgt)
	for _, m := range mask {
		assert.False(t, m)
	}
}

func TestPolygonize(t *testing.T) {
	data := []float64{
		1, 1, 2, 2,
		1, 1, 2, 2,
		1, 1, 2, 2,
		1, 1, 2, 2,
	}
	r := mustRaster(t, data, 4, 4, WithTransform([6]float64{0, 1, 0, 4, 0, -1}), WithSRID(4326))
	fc, err := r.Polygonize()
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	vals := map[float64]bool{}
	for _, f := range fc.Features {
		v, ok := f.Properties[SHP_FIELD_VALUE].(float64)
		require.True(t, ok)
		vals[v] = true
	}
	assert.True(t, vals[1] && vals[2])
	assert.Len(t, Geometries(fc), 2)

	fc8, err := r.Polygonize(EightConnected())
	require.NoError(t, err)
	assert.Len(t, fc8.Features, 2)
}

func TestLoadMultiRaster(t *testing.T) {
	dir := t.TempDir()
	left := mustRaster(t, []float64{1, 2, 3, 4}, 2, 2,
		WithTransform([6]float64{0, 1, 0, 2, 0, -1}), WithSRID(4326), WithNoData(-9999))
	right := mustRaster(t, []float64{5, 6, 7, 8}, 2, 2,
		WithTransform([6]float64{2, 1, 0, 2, 0, -1}), WithSRID(4326), WithNoData(-9999))
	lp := filepath.Join(dir, "left.tif")
	rp := filepath.Join(dir, "right.tif")
	require.NoError(t, left.Save(lp))
	require.NoError(t, right.Save(rp))

	out, err := LoadMultiRaster(lp, rp)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Width())
	assert.Equal(t, 2, out.Height())
	assert.Equal(t, 1.0, out.At(0, 0))
	assert.Equal(t, 5.0, out.At(0, 2))

	_, err = LoadMultiRaster()
	assert.ErrorIs(t, err, ErrNoRasters)
}

func TestShapefileRoundTrip(t *testing.T) {
	shp := filepath.Join(t.TempDir(), "zone.shp")
	require.NoError(t, WritePolygonsToShapefile(shp, 4326, rect(2, 3, 5, 6)))

	srid, err := GetSridOfShapefile(shp)
	require.NoError(t, err)
	assert.Equal(t, 4326, srid)

	gs, srid, err := LoadGeometriesFromShapefile(shp)
	require.NoError(t, err)
	assert.Equal(t, 4326, srid)
	require.Len(t, gs, 1)
	b := gs[0].Bound()
	assert.Equal(t, orb.Point{2, 3}, b.Min)
	assert.Equal(t, orb.Point{5, 6}, b.Max)
}
