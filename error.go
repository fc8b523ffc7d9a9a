package rastlib

import "errors"

var (
	ErrGdalDriverCreate = errors.New("gdal driver create err")
	ErrGdalDriverOpen   = errors.New("gdal driver open err")
	ErrGdalEmptyShp     = errors.New("gdal shp is empty")
	ErrVoidSrid         = errors.New("gdal shp with void srid")
	ErrInvalidTif       = errors.New("invalid tif")
	ErrEmptyTif         = errors.New("empty tif")
	ErrTifReadFailed    = errors.New("tif read failed")
	ErrTifWriteFailed   = errors.New("tif write failed")

	ErrDimsMismatch     = errors.New("raster dims mismatch with data length")
	ErrGridMismatch     = errors.New("raster grids not aligned")
	ErrVoidSRS          = errors.New("raster srs not set")
	ErrSRSAlreadySet    = errors.New("raster srs already set, use ToCRS to reproject")
	ErrVoidNoData       = errors.New("raster nodata not set")
	ErrEmptyGeometry    = errors.New("empty geometry")
	ErrCropInvert       = errors.New("crop and invert cannot both be set")
	ErrWindowOutside    = errors.New("geometry window outside raster")
	ErrUnknownResample  = errors.New("unknown resample method")
	ErrVoidResampleSpec = errors.New("no target resolution, size or scale given")
	ErrNoRasters        = errors.New("no rasters to merge")
	ErrMergeMismatch    = errors.New("rasters to merge must share crs, dtype, nodata and resolution")
	ErrUnknownMerge     = errors.New("unknown merge method")
	ErrWrongBand        = errors.New("band index out of range")
	ErrShpFieldMissing  = errors.New("field missing in shp")
	ErrWrongMaskSize    = errors.New("mask size mismatch with raster")
)
