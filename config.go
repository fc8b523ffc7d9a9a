package rastlib

const (
	FILE_EXT_SHP    = ".shp"
	FILE_EXT_CPG    = ".cpg"
	FILE_EXT_JSON   = ".json"
	SHAPE_ENCODING  = "UTF-8"
	UTF8_ENC        = "UTF8"
	SHP_DRIVER_NAME = "ESRI Shapefile"
	GTIFF_DRIVER    = "GTiff"
	ENCODING_OPTION = "ENCODING=" + SHAPE_ENCODING

	// 被遮蔽像元的默认填充值（栅格未设定nodata时启用）
	DEFAULT_NODATA = -9999

	SHP_FIELD_VALUE = "value"

	TMP_CUTLINE = "cutline_%s" + FILE_EXT_JSON
	TMP_MEM_TIF = "/vsimem/rast_%s.tif"
	TMP_MEM_VRT = "/vsimem/rast_%s.vrt"

	// 浮点地理参数的判等容差
	GT_EPSILON = 1e-9
)

// gdalwarp -r 所接受的重采样方法
type ResampleMethod string

const (
	ResampleNearest     ResampleMethod = "near"
	ResampleBilinear    ResampleMethod = "bilinear"
	ResampleCubic       ResampleMethod = "cubic"
	ResampleCubicSpline ResampleMethod = "cubicspline"
	ResampleLanczos     ResampleMethod = "lanczos"
	ResampleAverage     ResampleMethod = "average"
	ResampleRMS         ResampleMethod = "rms"
	ResampleMode        ResampleMethod = "mode"
	ResampleMin         ResampleMethod = "min"
	ResampleMax         ResampleMethod = "max"
	ResampleMedian      ResampleMethod = "med"
	ResampleQ1          ResampleMethod = "q1"
	ResampleQ3          ResampleMethod = "q3"
	ResampleSum         ResampleMethod = "sum"
)

var resampleMethods = map[ResampleMethod]struct{}{
	ResampleNearest:     {},
	ResampleBilinear:    {},
	ResampleCubic:       {},
	ResampleCubicSpline: {},
	ResampleLanczos:     {},
	ResampleAverage:     {},
	ResampleRMS:         {},
	ResampleMode:        {},
	ResampleMin:         {},
	ResampleMax:         {},
	ResampleMedian:      {},
	ResampleQ1:          {},
	ResampleQ3:          {},
	ResampleSum:         {},
}

// 镶嵌时像元取值策略
type MergeMethod string

const (
	MergeFirst MergeMethod = "first"
	MergeLast  MergeMethod = "last"
	MergeMin   MergeMethod = "min"
	MergeMax   MergeMethod = "max"
	MergeSum   MergeMethod = "sum"
	MergeCount MergeMethod = "count"
)
