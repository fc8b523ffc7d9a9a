package rastlib

import (
	"fmt"
	"strings"

	"github.com/wgdzlh/rastlib/log"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type loadOpts struct {
	band int
}

type LoadOption func(*loadOpts)

// 选择读取的波段（从1起算，默认1）
func Band(n int) LoadOption {
	return func(o *loadOpts) {
		o.band = n
	}
}

// 读取栅格文件的单个波段
func LoadRaster(path string, opts ...LoadOption) (r Raster, err error) {
	registerDrivers()
	lo := loadOpts{band: 1}
	for _, opt := range opts {
		opt(&lo)
	}
	sds, err := gdal.Open(path, gdal.RasterOnly())
	if err != nil {
		log.Error(logTag+"open tif failed", zap.String("path", path), zap.Error(err))
		err = fmt.Errorf("%w: %s", ErrInvalidTif, path)
		return
	}
	defer sds.Close()
	r, err = fromDataset(sds, lo.band)
	if err == nil {
		log.Info(logTag+"loaded raster", zap.String("path", path),
			zap.Int("width", r.width), zap.Int("height", r.height), zap.String("dtype", r.dtype.String()))
	}
	return
}

// 读取栅格文件元数据，不载入像元
func RasterMetadata(path string) (meta RasterMeta, err error) {
	registerDrivers()
	sds, err := gdal.Open(path, gdal.RasterOnly())
	if err != nil {
		log.Error(logTag+"open tif failed", zap.String("path", path), zap.Error(err))
		err = fmt.Errorf("%w: %s", ErrInvalidTif, path)
		return
	}
	defer sds.Close()
	bands := sds.Bands()
	if len(bands) == 0 {
		err = ErrEmptyTif
		return
	}
	st := sds.Structure()
	meta = RasterMeta{
		Path:     path,
		Width:    st.SizeX,
		Height:   st.SizeY,
		Bands:    st.NBands,
		DataType: st.DataType.String(),
		SRSWkt:   sds.Projection(),
	}
	if gt, e := sds.GeoTransform(); e == nil {
		meta.Transform = gt
	}
	if nd, ok := bands[0].NoData(); ok {
		meta.NoData = &nd
	}
	return
}

// 将多个栅格文件镶嵌为一个栅格（最高分辨率对齐，排序靠后的文件优先显示）
func LoadMultiRaster(paths ...string) (r Raster, err error) {
	if len(paths) == 0 {
		err = ErrNoRasters
		return
	}
	if len(paths) == 1 {
		return LoadRaster(paths[0])
	}
	registerDrivers()
	tmpVrt := fmt.Sprintf(TMP_MEM_VRT, uuid.NewString())
	log.Info(logTag+"mosaic rasters", zap.Int("cnt", len(paths)), zap.Strings("paths", paths))
	vds, err := gdal.BuildVRT(tmpVrt, paths, []string{"-resolution", "highest", "-overwrite"})
	if err != nil {
		log.Error(logTag+"failed to build vrt", zap.Error(err))
		return
	}
	defer func() {
		vds.Close()
		_ = gdal.VSIUnlink(tmpVrt)
	}()
	return fromDataset(vds, 1)
}

type saveOpts struct {
	driver gdal.DriverName
	copts  []string
}

type SaveOption func(*saveOpts)

// 指定输出驱动（默认GTiff）
func Driver(name string) SaveOption {
	return func(o *saveOpts) {
		o.driver = gdal.DriverName(name)
	}
}

// 指定压缩算法（如LZW、DEFLATE、ZSTD）
func Compress(alg string) SaveOption {
	return func(o *saveOpts) {
		o.copts = append(o.copts, "COMPRESS="+alg)
	}
}

// 分块输出
func Tiled() SaveOption {
	return func(o *saveOpts) {
		o.copts = append(o.copts, "TILED=YES")
	}
}

// 任意创建参数透传（KEY=VALUE）
func CreationOptions(kv ...string) SaveOption {
	return func(o *saveOpts) {
		o.copts = append(o.copts, kv...)
	}
}

func hasPrefixOpt(opts []string, prefix string) bool {
	for _, o := range opts {
		if strings.HasPrefix(o, prefix) {
			return true
		}
	}
	return false
}

// 将栅格写入文件，像元由GDAL转换为dtype存储类型
func (r Raster) Save(path string, opts ...SaveOption) (err error) {
	so := saveOpts{driver: gdal.GTiff}
	for _, opt := range opts {
		opt(&so)
	}
	if so.driver == gdal.GTiff && !hasPrefixOpt(so.copts, "COMPRESS=") {
		so.copts = append(so.copts, "COMPRESS=LZW")
	}
	ds, err := r.toDataset(path, so.driver, r.dtype, so.copts...)
	if err != nil {
		return
	}
	if err = ds.Close(); err != nil {
		log.Error(logTag+"flush tif failed", zap.String("path", path), zap.Error(err))
		err = ErrTifWriteFailed
		return
	}
	log.Info(logTag+"saved raster", zap.String("path", path), zap.String("driver", string(so.driver)))
	return
}
