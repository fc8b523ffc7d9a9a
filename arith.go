package rastlib

import "math"

// 选取双目运算结果的nodata哨兵值：左操作数优先
func pickNoData(a, b Raster) *float64 {
	if a.nodata != nil {
		nd := *a.nodata
		return &nd
	}
	if b.nodata != nil {
		nd := *b.nodata
		return &nd
	}
	return nil
}

// 双目逐像元运算。两栅格须网格对齐；任一侧无效的像元结果为无效
func (r Raster) zipWith(o Raster, f func(a, b float64) (float64, bool)) (out Raster, err error) {
	if r.width != o.width || r.height != o.height || !sameGT(r.gt, o.gt) || !sameSRS(r.srs, o.srs) {
		err = ErrGridMismatch
		return
	}
	nodata := pickNoData(r, o)
	nd := math.NaN()
	if nodata != nil {
		nd = *nodata
	}
	data := make([]float64, len(r.data))
	for i, a := range r.data {
		b := o.data[i]
		if r.isNoData(a) || o.isNoData(b) {
			data[i] = nd
			continue
		}
		v, ok := f(a, b)
		if !ok {
			data[i] = nd
			continue
		}
		data[i] = v
	}
	if nodata == nil {
		// 无哨兵值的操作数运算中产生了无效像元（如除零），以NaN为哨兵
		for i := range data {
			if math.IsNaN(data[i]) {
				nodata = &nd
				break
			}
		}
	}
	out = Raster{
		data:   data,
		width:  r.width,
		height: r.height,
		gt:     r.gt,
		srs:    r.srs,
		nodata: nodata,
		dtype:  r.dtype,
	}
	return
}

// 单目逐像元运算，无效像元保持哨兵值
func (r Raster) mapWith(f func(v float64) float64) Raster {
	out := r.clone()
	for i, v := range out.data {
		if !out.isNoData(v) {
			out.data[i] = f(v)
		}
	}
	return out
}

func (r Raster) AddRaster(o Raster) (Raster, error) {
	return r.zipWith(o, func(a, b float64) (float64, bool) { return a + b, true })
}

func (r Raster) SubRaster(o Raster) (Raster, error) {
	return r.zipWith(o, func(a, b float64) (float64, bool) { return a - b, true })
}

func (r Raster) MulRaster(o Raster) (Raster, error) {
	return r.zipWith(o, func(a, b float64) (float64, bool) { return a * b, true })
}

// DivRaster 逐像元相除，除零结果为无效像元
func (r Raster) DivRaster(o Raster) (Raster, error) {
	return r.zipWith(o, func(a, b float64) (float64, bool) {
		if b == 0 {
			return 0, false
		}
		return a / b, true
	})
}

func (r Raster) Add(v float64) Raster {
	return r.mapWith(func(a float64) float64 { return a + v })
}

func (r Raster) Sub(v float64) Raster {
	return r.mapWith(func(a float64) float64 { return a - v })
}

func (r Raster) Mul(v float64) Raster {
	return r.mapWith(func(a float64) float64 { return a * v })
}

// Div 像元除以标量，v为零时全部像元变为无效
func (r Raster) Div(v float64) Raster {
	if v == 0 {
		out := r.clone()
		nd := math.NaN()
		if out.nodata == nil {
			out.nodata = &nd
		} else {
			nd = *out.nodata
		}
		for i := range out.data {
			out.data[i] = nd
		}
		return out
	}
	return r.mapWith(func(a float64) float64 { return a / v })
}

func (r Raster) Pow(p float64) Raster {
	return r.mapWith(func(a float64) float64 { return math.Pow(a, p) })
}

func (r Raster) Abs() Raster {
	return r.mapWith(math.Abs)
}

func (r Raster) Neg() Raster {
	return r.mapWith(func(a float64) float64 { return -a })
}

// 比较掩膜：无效像元恒为false
func (r Raster) cmpWith(f func(v float64) bool) []bool {
	mask := make([]bool, len(r.data))
	for i, v := range r.data {
		if !r.isNoData(v) {
			mask[i] = f(v)
		}
	}
	return mask
}

func (r Raster) Gt(v float64) []bool {
	return r.cmpWith(func(a float64) bool { return a > v })
}

func (r Raster) Lt(v float64) []bool {
	return r.cmpWith(func(a float64) bool { return a < v })
}

func (r Raster) Eq(v float64) []bool {
	return r.cmpWith(func(a float64) bool { return a == v })
}
