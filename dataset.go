package rastlib

import (
	"sync"

	"github.com/wgdzlh/rastlib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

var registerOnce sync.Once

func registerDrivers() {
	registerOnce.Do(gdal.RegisterAll)
}

// 将栅格写入godal数据集。name为空时创建纯内存数据集，否则按driver落盘
func (r Raster) toDataset(name string, driver gdal.DriverName, dt gdal.DataType, copts ...string) (ds *gdal.Dataset, err error) {
	registerDrivers()
	ds, err = gdal.Create(driver, name, 1, dt, r.width, r.height, gdal.CreationOption(copts...))
	if err != nil {
		log.Error(logTag+"create dataset failed", zap.String("driver", string(driver)), zap.Error(err))
		err = ErrGdalDriverCreate
		return
	}
	closeOnErr := func() {
		ds.Close()
		ds = nil
	}
	if err = ds.SetGeoTransform(r.gt); err != nil {
		closeOnErr()
		return
	}
	if r.srs != "" {
		var ref *gdal.SpatialRef
		if ref, err = gdal.NewSpatialRefFromWKT(r.srs); err != nil {
			closeOnErr()
			return
		}
		err = ds.SetSpatialRef(ref)
		ref.Close()
		if err != nil {
			closeOnErr()
			return
		}
	}
	if r.nodata != nil {
		if err = ds.SetNoData(*r.nodata); err != nil {
			closeOnErr()
			return
		}
	}
	if err = ds.Bands()[0].Write(0, 0, r.data, r.width, r.height); err != nil {
		log.Error(logTag+"write band failed", zap.Error(err))
		closeOnErr()
		err = ErrTifWriteFailed
	}
	return
}

// 内存中转数据集，像元保持float64精度
func (r Raster) toMemDataset() (*gdal.Dataset, error) {
	return r.toDataset("", gdal.Memory, gdal.Float64)
}

// 从godal数据集读出单波段栅格。band从1起算
func fromDataset(ds *gdal.Dataset, band int) (r Raster, err error) {
	bands := ds.Bands()
	if len(bands) == 0 {
		err = ErrEmptyTif
		return
	}
	if band < 1 || band > len(bands) {
		err = ErrWrongBand
		return
	}
	b := bands[band-1]
	st := b.Structure()
	buf := make([]float64, st.SizeX*st.SizeY)
	if err = b.Read(0, 0, buf, st.SizeX, st.SizeY); err != nil {
		log.Error(logTag+"read band failed", zap.Int("band", band), zap.Error(err))
		err = ErrTifReadFailed
		return
	}
	r = Raster{
		data:   buf,
		width:  st.SizeX,
		height: st.SizeY,
		gt:     [6]float64{0, 1, 0, 0, 0, 1},
		dtype:  st.DataType,
	}
	if gt, e := ds.GeoTransform(); e == nil {
		r.gt = gt
	}
	r.srs = ds.Projection()
	if nd, ok := b.NoData(); ok {
		r.nodata = &nd
	}
	return
}
