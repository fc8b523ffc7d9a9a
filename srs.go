package rastlib

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/wgdzlh/rastlib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

const logTag = "rastlib:"

var (
	refLock sync.Mutex
	refMap  = map[int]*gdal.SpatialRef{}
)

// 获取srid对应的坐标系（可复用，故无需回收）。
// godal创建的坐标系数据轴次序固定为传统GIS的(经度,纬度)序，避免转换时次序倒置
func getSridRef(srid int) (ref *gdal.SpatialRef, err error) {
	refLock.Lock()
	defer refLock.Unlock()
	ref, ok := refMap[srid]
	if ok {
		return
	}
	ref, err = gdal.NewSpatialRefFromEPSG(srid)
	if err != nil {
		log.Error(logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		return
	}
	refMap[srid] = ref
	return
}

func sridToWkt(srid int) (wkt string, err error) {
	ref, err := getSridRef(srid)
	if err != nil {
		return
	}
	return ref.WKT()
}

// 识别WKT坐标系的EPSG代码
func epsgOfWkt(wkt string) (srid int, err error) {
	ref, err := gdal.NewSpatialRefFromWKT(wkt)
	if err != nil {
		return
	}
	defer ref.Close()
	if e := ref.AutoIdentifyEPSG(); e != nil {
		err = ErrVoidSrid
		return
	}
	code := ref.AuthorityCode("")
	if code == "" {
		err = ErrVoidSrid
		return
	}
	srid, err = strconv.Atoi(code)
	return
}

// 判断两个WKT描述的是否为同一坐标系
func sameSRS(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	ra, err := gdal.NewSpatialRefFromWKT(a)
	if err != nil {
		return false
	}
	defer ra.Close()
	rb, err := gdal.NewSpatialRefFromWKT(b)
	if err != nil {
		return false
	}
	defer rb.Close()
	return ra.IsSame(rb)
}

// 坐标系显示名：可识别EPSG时为EPSG:xxxx，否则截取WKT头部
func crsLabel(wkt string) string {
	if wkt == "" {
		return "not set"
	}
	if srid, err := epsgOfWkt(wkt); err == nil {
		return fmt.Sprintf("EPSG:%d", srid)
	}
	if len(wkt) > 32 {
		return wkt[:32] + "..."
	}
	return wkt
}
