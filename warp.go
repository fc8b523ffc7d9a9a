package rastlib

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wgdzlh/rastlib/log"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// 通过godal.Warp执行栅格变换，结果读回新栅格
func (r Raster) warp(switches []string) (out Raster, err error) {
	src, err := r.toMemDataset()
	if err != nil {
		return
	}
	defer src.Close()
	if r.nodata != nil {
		switches = append(switches, "-srcnodata", ftoa(*r.nodata), "-dstnodata", ftoa(*r.nodata))
	}
	switches = append(switches, "-of", GTIFF_DRIVER)
	tmpTif := fmt.Sprintf(TMP_MEM_TIF, uuid.NewString())
	ods, err := gdal.Warp(tmpTif, []*gdal.Dataset{src}, switches)
	if err != nil {
		log.Error(logTag+"warp failed", zap.Strings("switches", switches), zap.Error(err))
		return
	}
	defer func() {
		ods.Close()
		_ = gdal.VSIUnlink(tmpTif)
	}()
	out, err = fromDataset(ods, 1)
	out.dtype = r.dtype
	return
}

// ToCRS 将栅格重投影到srid指定的坐标系，可选指定重采样方法（默认最邻近）
func (r Raster) ToCRS(srid int, method ...ResampleMethod) (out Raster, err error) {
	if r.srs == "" {
		err = ErrVoidSRS
		return
	}
	m := ResampleNearest
	if len(method) > 0 {
		m = method[0]
	}
	if _, ok := resampleMethods[m]; !ok {
		err = ErrUnknownResample
		return
	}
	wkt, err := sridToWkt(srid)
	if err != nil {
		return
	}
	if sameSRS(r.srs, wkt) {
		out = r.clone()
		return
	}
	log.Info(logTag+"reproject raster", zap.Int("srid", srid), zap.String("method", string(m)))
	return r.warp([]string{"-t_srs", fmt.Sprintf("epsg:%d", srid), "-r", string(m)})
}

// Resample 按目标尺寸、目标分辨率或缩放因子重采样
func (r Raster) Resample(o *ResampleOptions) (out Raster, err error) {
	if o == nil {
		o = DefaultResampleOptions()
	}
	m := o.Method
	if m == "" {
		m = ResampleBilinear
	}
	if _, ok := resampleMethods[m]; !ok {
		err = ErrUnknownResample
		return
	}
	var switches []string
	switch {
	case o.TargetWidth > 0 && o.TargetHeight > 0:
		switches = []string{"-ts", strconv.Itoa(o.TargetWidth), strconv.Itoa(o.TargetHeight)}
	case o.TargetResX > 0 && o.TargetResY > 0:
		switches = []string{"-tr", ftoa(o.TargetResX), ftoa(o.TargetResY)}
	case o.ScaleFactor > 0 && o.ScaleFactor != 1:
		w := int(math.Round(float64(r.width) * o.ScaleFactor))
		h := int(math.Round(float64(r.height) * o.ScaleFactor))
		if w < 1 || h < 1 {
			err = ErrVoidResampleSpec
			return
		}
		switches = []string{"-ts", strconv.Itoa(w), strconv.Itoa(h)}
	default:
		err = ErrVoidResampleSpec
		return
	}
	log.Info(logTag+"resample raster", zap.Strings("target", switches), zap.String("method", string(m)))
	return r.warp(append(switches, "-r", string(m)))
}

// ClipBounds 按世界坐标范围裁剪
func (r Raster) ClipBounds(b Bounds) (out Raster, err error) {
	if b[0] >= b[2] || b[1] >= b[3] {
		err = ErrWindowOutside
		return
	}
	return r.warp([]string{"-te", ftoa(b[0]), ftoa(b[1]), ftoa(b[2]), ftoa(b[3])})
}

// ClipGeometry 按矢量面裁剪并收缩输出窗口到矢量范围。
// 面外像元填充nodata哨兵值（未设定时启用默认哨兵值）
func (r Raster) ClipGeometry(gs ...orb.Geometry) (out Raster, err error) {
	if len(gs) == 0 {
		err = ErrEmptyGeometry
		return
	}
	srid, _ := r.EPSG() // 识别不出时cutline按GeoJSON默认的4326处理
	cutline, err := cutlineJSON(gs, srid)
	if err != nil {
		return
	}
	tmpJson := filepath.Join(os.TempDir(), fmt.Sprintf(TMP_CUTLINE, uuid.NewString()))
	if err = os.WriteFile(tmpJson, cutline, os.ModePerm); err != nil {
		return
	}
	defer os.Remove(tmpJson)
	rr := r
	if rr.nodata == nil {
		nd := float64(DEFAULT_NODATA)
		rr = r.clone()
		rr.nodata = &nd
	}
	log.Info(logTag+"clip raster by cutline", zap.Int("geoms", len(gs)))
	return rr.warp([]string{"-cutline", tmpJson, "-crop_to_cutline", "-overwrite"})
}
