package rastlib

import (
	"encoding/json"
	"fmt"

	"github.com/wgdzlh/rastlib/log"

	gdal "github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// orb矢量转GDAL内存对象（经WKB中转），用毕需Close
func orbToGdal(g orb.Geometry, ref *gdal.SpatialRef) (geo *gdal.Geometry, err error) {
	raw, err := wkb.Marshal(g)
	if err != nil {
		return
	}
	geo, err = gdal.NewGeometryFromWKB(raw, ref)
	if err != nil {
		log.Error(logTag+"parse wkb failed", zap.Error(err))
	}
	return
}

func gdalToOrb(geo *gdal.Geometry) (g orb.Geometry, err error) {
	raw, err := geo.WKB()
	if err != nil {
		return
	}
	return wkb.Unmarshal(raw)
}

type cutlineCRS struct {
	Type       string `json:"type"`
	Properties struct {
		Name string `json:"name"`
	} `json:"properties"`
}

type cutlineFC struct {
	Type     string             `json:"type"`
	CRS      *cutlineCRS        `json:"crs,omitempty"`
	Features []*geojson.Feature `json:"features"`
}

// 矢量面集合转裁剪线GeoJSON，srid>0时写入crs成员供GDAL识别坐标系
func cutlineJSON(gs []orb.Geometry, srid int) (ret AnyJson, err error) {
	fc := cutlineFC{Type: "FeatureCollection"}
	if srid > 0 {
		crs := &cutlineCRS{Type: "name"}
		crs.Properties.Name = fmt.Sprintf("EPSG:%d", srid)
		fc.CRS = crs
	}
	for _, g := range gs {
		fc.Features = append(fc.Features, geojson.NewFeature(g))
	}
	ret, err = json.Marshal(fc)
	return
}

// Geometries 抽取要素集中的矢量，便于回流Mask/ClipGeometry
func Geometries(fc *geojson.FeatureCollection) (gs []orb.Geometry) {
	if fc == nil {
		return
	}
	for _, f := range fc.Features {
		if f != nil && f.Geometry != nil {
			gs = append(gs, f.Geometry)
		}
	}
	return
}

type polygonizeOpts struct {
	eightConnected bool
}

type PolygonizeOption func(*polygonizeOpts)

// 像元连通性由4邻域改为8邻域
func EightConnected() PolygonizeOption {
	return func(o *polygonizeOpts) {
		o.eightConnected = true
	}
}

// Polygonize 将等值像元连通区转为矢量面要素集，像元值写入value属性。
// nodata像元经掩膜波段自动排除
func (r Raster) Polygonize(opts ...PolygonizeOption) (fc *geojson.FeatureCollection, err error) {
	po := polygonizeOpts{}
	for _, opt := range opts {
		opt(&po)
	}
	src, err := r.toMemDataset()
	if err != nil {
		return
	}
	defer src.Close()
	vds, err := gdal.CreateVector(gdal.Memory, "")
	if err != nil {
		log.Error(logTag+"create vector dataset failed", zap.Error(err))
		err = ErrGdalDriverCreate
		return
	}
	defer vds.Close()
	var ref *gdal.SpatialRef
	if r.srs != "" {
		if ref, err = gdal.NewSpatialRefFromWKT(r.srs); err != nil {
			return
		}
		defer ref.Close()
	}
	layer, err := vds.CreateLayer("polygons", ref, gdal.GTPolygon,
		gdal.NewFieldDefinition(SHP_FIELD_VALUE, gdal.FTReal))
	if err != nil {
		return
	}
	gopts := []gdal.PolygonizeOption{gdal.PixelValueFieldIndex(0)}
	if po.eightConnected {
		gopts = append(gopts, gdal.EightConnected())
	}
	if err = src.Bands()[0].Polygonize(layer, gopts...); err != nil {
		log.Error(logTag+"polygonize failed", zap.Error(err))
		return
	}
	fc = geojson.NewFeatureCollection()
	layer.ResetReading()
	var g orb.Geometry
	for f := layer.NextFeature(); f != nil; f = layer.NextFeature() {
		g, err = gdalToOrb(f.Geometry())
		if err != nil {
			f.Close()
			return
		}
		feat := geojson.NewFeature(g)
		if fld, ok := f.Fields()[SHP_FIELD_VALUE]; ok {
			feat.Properties[SHP_FIELD_VALUE] = fld.Float()
		}
		fc.Append(feat)
		f.Close()
	}
	log.Info(logTag+"polygonized raster", zap.Int("features", len(fc.Features)))
	return
}
