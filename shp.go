package rastlib

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/wgdzlh/rastlib/log"
	"github.com/wgdzlh/rastlib/utils"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"go.uber.org/zap"
)

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

var (
	ogrRefLock sync.Mutex
	ogrRefMap  = map[int]gdal.SpatialReference{}
)

// 获取srid对应的OGR坐标系（可复用，故无需回收）。
// 数据轴次序设为固定的(经度,纬度)传统GIS坐标序，避免转换时次序倒置
func getOgrSridRef(srid int) (ref gdal.SpatialReference, err error) {
	ogrRefLock.Lock()
	defer ogrRefLock.Unlock()
	ref, ok := ogrRefMap[srid]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil {
		log.Error(logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		ref.Destroy()
		return
	}
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	ogrRefMap[srid] = ref
	return
}

func getOgrSrid(sp gdal.SpatialReference) (srid int, err error) {
	wkt, _ := sp.ToWKT()
	rawId, ok := sp.AttrValue("AUTHORITY", 1)
	if !ok {
		if strings.Contains(wkt, "CGCS_2000") {
			rawId = "4490"
		} else {
			err = ErrVoidSrid
			return
		}
	}
	srid, err = strconv.Atoi(rawId)
	return
}

// 获取shp的srid
func GetSridOfShapefile(shp string) (srid int, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	return getOgrSrid(layer.SpatialReference())
}

// 读取shp中的全部矢量，供Mask/ClipGeometry使用
func LoadGeometriesFromShapefile(shp string) (gs []orb.Geometry, srid int, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	srid, _ = getOgrSrid(layer.SpatialReference())
	var (
		raw []byte
		g   orb.Geometry
		gc  []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for {
		feature := layer.NextFeature()
		if feature == nil {
			break
		}
		gc = append(gc, *feature)
		if raw, err = feature.Geometry().ToWKB(); err != nil {
			return
		}
		if g, err = wkb.Unmarshal(raw); err != nil {
			return
		}
		gs = append(gs, g)
	}
	if len(gs) == 0 {
		err = ErrGdalEmptyShp
	}
	log.Info(logTag+"loaded geometries from shp", zap.String("shp", shp),
		zap.Int("cnt", len(gs)), zap.Int("srid", srid))
	return
}

// 读取shp指定字段的属性值。cpg标注非UTF-8（或缺失）时按GBK转码
func ShapefileFieldValues(shp, field string) (values []string, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	fieldIdx := layer.Definition().FieldIndex(field)
	if fieldIdx < 0 {
		err = ErrShpFieldMissing
		return
	}
	needTrans := true
	if enc, e := os.ReadFile(strings.TrimSuffix(shp, FILE_EXT_SHP) + FILE_EXT_CPG); e == nil {
		encStr := strings.ToUpper(strings.TrimSpace(string(enc)))
		needTrans = encStr != SHAPE_ENCODING && encStr != UTF8_ENC
	}
	var gc []destroyable
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for {
		feature := layer.NextFeature()
		if feature == nil {
			break
		}
		gc = append(gc, *feature)
		v := feature.FieldAsString(fieldIdx)
		if needTrans {
			if t, e := utils.GbkStrToUtf8(v); e == nil {
				v = t
			}
		}
		values = append(values, v)
	}
	return
}

func getShpDriver(shp string, srid int) (ds gdal.DataSource, ref gdal.SpatialReference, layer gdal.Layer, err error) {
	log.Info(logTag+"output shp files", zap.String("shp", shp), zap.Int("srid", srid))
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Create(shp, nil)
	if !ok {
		err = ErrGdalDriverCreate
		return
	}
	if ref, err = getOgrSridRef(srid); err != nil {
		return
	}
	layer = ds.CreateLayer("", ref, gdal.GT_Unknown, []string{ENCODING_OPTION})
	return
}

// 将矢量面写入shp（如Polygonize结果落盘）
func WritePolygonsToShapefile(shp string, srid int, gs ...orb.Geometry) (err error) {
	ref, err := getOgrSridRef(srid)
	if err != nil {
		return
	}
	ds, _, layer, err := getShpDriver(shp, srid)
	if err != nil {
		return
	}
	defer ds.Destroy() // 生成shp文件 + 释放资源
	var (
		def     = layer.Definition()
		feature gdal.Feature
		geo     gdal.Geometry
		raw     []byte
		valid   int
		e       error
		gc      = make([]destroyable, 0, len(gs))
	)
	for i, g := range gs {
		feature = def.Create()
		gc = append(gc, feature)
		if e = feature.SetFID(int64(i)); e != nil {
			log.Error(logTag+"err in set feature fid", zap.Error(e))
			continue
		}
		if raw, e = wkb.Marshal(g); e != nil {
			continue
		}
		if geo, e = gdal.CreateFromWKB(raw, ref, len(raw)); e != nil {
			log.Error(logTag+"parse wkb failed", zap.Error(e))
			continue
		}
		if e = feature.SetGeometryDirectly(geo); e != nil {
			log.Error(logTag+"err in set geom of feature", zap.Error(e))
			continue
		}
		if e = layer.Create(feature); e != nil {
			log.Error(logTag+"err in create feature of layer", zap.Error(e))
			continue
		}
		valid++
	}
	for _, v := range gc {
		v.Destroy()
	}
	log.Info(logTag+"output polygons to shapefile done", zap.String("shp", shp),
		zap.Int("total", len(gs)), zap.Int("valid", valid))
	return
}
