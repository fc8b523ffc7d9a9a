package rastlib

import (
	"fmt"
	"math"
	"strings"

	gdal "github.com/airbusgeo/godal"
)

// Raster 单波段栅格：像元网格 + 仿射地理变换 + 坐标系 + nodata哨兵值。
// 值语义：所有变换操作返回新Raster，原对象不被修改，以保证链式调用安全。
// 像元在内存中统一为float64，dtype记录落盘时的存储类型。
type Raster struct {
	data   []float64
	width  int
	height int
	gt     [6]float64 // GDAL次序：originX, resX, rotX, originY, rotY, resY(北朝上为负)
	srs    string     // WKT，空串表示未设定
	nodata *float64
	dtype  gdal.DataType
}

type RasterOption func(*Raster) error

// 设定仿射地理变换（GDAL六参数次序）
func WithTransform(gt [6]float64) RasterOption {
	return func(r *Raster) error {
		r.gt = gt
		return nil
	}
}

// 按EPSG代码设定坐标系
func WithSRID(srid int) RasterOption {
	return func(r *Raster) (err error) {
		r.srs, err = sridToWkt(srid)
		return
	}
}

// 按WKT设定坐标系
func WithSRSWkt(wkt string) RasterOption {
	return func(r *Raster) error {
		r.srs = wkt
		return nil
	}
}

func WithNoData(v float64) RasterOption {
	return func(r *Raster) error {
		r.nodata = &v
		return nil
	}
}

// 设定落盘存储类型（默认Float64）
func WithDType(dt gdal.DataType) RasterOption {
	return func(r *Raster) error {
		r.dtype = dt
		return nil
	}
}

// 构造栅格。data为行主序像元，长度须等于width*height
func New(data []float64, width, height int, opts ...RasterOption) (r Raster, err error) {
	if width <= 0 || height <= 0 || len(data) != width*height {
		err = ErrDimsMismatch
		return
	}
	r = Raster{
		data:   data,
		width:  width,
		height: height,
		gt:     [6]float64{0, 1, 0, 0, 0, 1},
		dtype:  gdal.Float64,
	}
	for _, opt := range opts {
		if err = opt(&r); err != nil {
			return
		}
	}
	return
}

func (r Raster) Width() int {
	return r.width
}

func (r Raster) Height() int {
	return r.height
}

// Shape 返回 (行数, 列数)
func (r Raster) Shape() (rows, cols int) {
	return r.height, r.width
}

func (r Raster) DType() gdal.DataType {
	return r.dtype
}

func (r Raster) Transform() [6]float64 {
	return r.gt
}

// SRS 返回坐标系WKT，未设定时为空串
func (r Raster) SRS() string {
	return r.srs
}

// EPSG 识别坐标系对应的EPSG代码
func (r Raster) EPSG() (srid int, err error) {
	if r.srs == "" {
		err = ErrVoidSRS
		return
	}
	return epsgOfWkt(r.srs)
}

// NoData 返回nodata哨兵值
func (r Raster) NoData() (v float64, ok bool) {
	if r.nodata != nil {
		v, ok = *r.nodata, true
	}
	return
}

// Data 返回像元网格副本（行主序）
func (r Raster) Data() []float64 {
	out := make([]float64, len(r.data))
	copy(out, r.data)
	return out
}

func (r Raster) At(row, col int) float64 {
	return r.data[row*r.width+col]
}

// Origin 返回栅格原点（左上角）世界坐标
func (r Raster) Origin() (x, y float64) {
	return r.gt[0], r.gt[3]
}

// Resolution 返回像元尺寸绝对值 (xres, yres)
func (r Raster) Resolution() (xres, yres float64) {
	return math.Abs(r.gt[1]), math.Abs(r.gt[5])
}

// Bounds 返回栅格范围 (xmin, ymin, xmax, ymax)
func (r Raster) Bounds() Bounds {
	x0, y0 := applyGT(r.gt, 0, 0)
	x1, y1 := applyGT(r.gt, float64(r.width), float64(r.height))
	return Bounds{
		math.Min(x0, x1), math.Min(y0, y1),
		math.Max(x0, x1), math.Max(y0, y1),
	}
}

// XY 返回像元中心的世界坐标
func (r Raster) XY(row, col int) (x, y float64) {
	return applyGT(r.gt, float64(col)+0.5, float64(row)+0.5)
}

// Index 返回世界坐标落入的像元行列号，出界时ok为false
func (r Raster) Index(x, y float64) (row, col int, ok bool) {
	inv, err := invertGT(r.gt)
	if err != nil {
		return
	}
	fc, fr := applyGT(inv, x, y)
	row, col = int(math.Floor(fr)), int(math.Floor(fc))
	ok = row >= 0 && row < r.height && col >= 0 && col < r.width
	return
}

// ValueAt 返回世界坐标处的像元值，出界时ok为false
func (r Raster) ValueAt(x, y float64) (v float64, ok bool) {
	row, col, ok := r.Index(x, y)
	if ok {
		v = r.At(row, col)
	}
	return
}

func (r Raster) isNoData(v float64) bool {
	if r.nodata == nil {
		return false
	}
	if math.IsNaN(*r.nodata) {
		return math.IsNaN(v)
	}
	return v == *r.nodata
}

// NoDataMask 返回无效像元掩膜（true为无效）
func (r Raster) NoDataMask() []bool {
	mask := make([]bool, len(r.data))
	if r.nodata == nil {
		return mask
	}
	for i, v := range r.data {
		mask[i] = r.isNoData(v)
	}
	return mask
}

// ValidCount 返回有效像元数
func (r Raster) ValidCount() (n int) {
	for _, v := range r.data {
		if !r.isNoData(v) {
			n++
		}
	}
	return
}

// SetNoData 改设nodata哨兵值：原哨兵值像元被改写为新值
func (r Raster) SetNoData(v float64) Raster {
	out := r.clone()
	if out.nodata != nil {
		for i, d := range out.data {
			if out.isNoData(d) {
				out.data[i] = v
			}
		}
	}
	out.nodata = &v
	return out
}

// ClearNoData 取消nodata哨兵值（像元不变）
func (r Raster) ClearNoData() Raster {
	out := r.clone()
	out.nodata = nil
	return out
}

// SetSRS 为未设定坐标系的栅格指定EPSG坐标系；已设定时报错，重投影应使用ToCRS
func (r Raster) SetSRS(srid int) (out Raster, err error) {
	if r.srs != "" {
		err = ErrSRSAlreadySet
		return
	}
	wkt, err := sridToWkt(srid)
	if err != nil {
		return
	}
	out = r.clone()
	out.srs = wkt
	return
}

// AsType 改设落盘存储类型（内存中像元不变，写文件时由GDAL转换）
func (r Raster) AsType(dt gdal.DataType) Raster {
	out := r.clone()
	out.dtype = dt
	return out
}

// Where 将掩膜为true的像元改写为v
func (r Raster) Where(mask []bool, v float64) (out Raster, err error) {
	if len(mask) != len(r.data) {
		err = ErrWrongMaskSize
		return
	}
	out = r.clone()
	for i, m := range mask {
		if m {
			out.data[i] = v
		}
	}
	return
}

func (r Raster) clone() Raster {
	out := r
	out.data = make([]float64, len(r.data))
	copy(out.data, r.data)
	if r.nodata != nil {
		nd := *r.nodata
		out.nodata = &nd
	}
	return out
}

func (r Raster) String() string {
	b := strings.Builder{}
	bounds := r.Bounds()
	nodata := "none"
	if r.nodata != nil {
		nodata = fmt.Sprintf("%g", *r.nodata)
	}
	b.WriteString("Raster\n")
	b.WriteString("======\n")
	fmt.Fprintf(&b, "dimensions : %d, %d (x, y)\n", r.width, r.height)
	fmt.Fprintf(&b, "resolution : %g, %g (x, y)\n", r.gt[1], r.gt[5])
	fmt.Fprintf(&b, "extent     : %g, %g, %g, %g (xmin, ymin, xmax, ymax)\n",
		bounds[0], bounds[1], bounds[2], bounds[3])
	fmt.Fprintf(&b, "crs        : %s\n", crsLabel(r.srs))
	fmt.Fprintf(&b, "nodata     : %s\n", nodata)
	fmt.Fprintf(&b, "dtype      : %s\n", r.dtype.String())
	return b.String()
}

// 仿射正变换：像元坐标(col,row)到世界坐标
func applyGT(gt [6]float64, col, row float64) (x, y float64) {
	x = gt[0] + gt[1]*col + gt[2]*row
	y = gt[3] + gt[4]*col + gt[5]*row
	return
}

// 仿射逆变换系数
func invertGT(gt [6]float64) (inv [6]float64, err error) {
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if math.Abs(det) < GT_EPSILON {
		err = ErrGridMismatch
		return
	}
	inv[1] = gt[5] / det
	inv[2] = -gt[2] / det
	inv[4] = -gt[4] / det
	inv[5] = gt[1] / det
	inv[0] = -(inv[1]*gt[0] + inv[2]*gt[3])
	inv[3] = -(inv[4]*gt[0] + inv[5]*gt[3])
	return
}

func sameGT(a, b [6]float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > GT_EPSILON {
			return false
		}
	}
	return true
}
