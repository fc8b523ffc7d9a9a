package rastlib

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// 有效像元统计量
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	Std    float64
	Median float64
	Valid  int
}

func (r Raster) validData() []float64 {
	out := make([]float64, 0, len(r.data))
	for _, v := range r.data {
		if !r.isNoData(v) {
			out = append(out, v)
		}
	}
	return out
}

// Summary 计算有效像元的统计量，nodata像元不参与
func (r Raster) Summary() (s Stats, err error) {
	valid := r.validData()
	if len(valid) == 0 {
		err = ErrEmptyTif
		return
	}
	sort.Float64s(valid)
	s = Stats{
		Min:    valid[0],
		Max:    valid[len(valid)-1],
		Mean:   stat.Mean(valid, nil),
		Std:    stat.StdDev(valid, nil),
		Median: stat.Quantile(0.5, stat.Empirical, valid, nil),
		Valid:  len(valid),
	}
	return
}

// Histogram 统计有效像元的等宽直方图，返回各桶计数及桶边界（len(dividers)=nbins+1）
func (r Raster) Histogram(nbins int) (counts []float64, dividers []float64, err error) {
	if nbins < 1 {
		err = ErrDimsMismatch
		return
	}
	valid := r.validData()
	if len(valid) == 0 {
		err = ErrEmptyTif
		return
	}
	sort.Float64s(valid)
	lo, hi := valid[0], valid[len(valid)-1]
	if lo == hi {
		// 单值栅格：避免零宽桶
		hi = lo + 1
	}
	dividers = make([]float64, nbins+1)
	floats.Span(dividers, lo, hi)
	// 各桶左闭右开，上移末边界以容纳最大值
	dividers[nbins] = math.Nextafter(hi, math.Inf(1))
	counts = stat.Histogram(nil, dividers, valid, nil)
	return
}
