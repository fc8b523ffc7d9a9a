package rastlib

import (
	"math"

	"github.com/wgdzlh/rastlib/log"

	"go.uber.org/zap"
)

func sameNoData(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	if math.IsNaN(*a) {
		return math.IsNaN(*b)
	}
	return *a == *b
}

// Merge 将若干网格对齐的栅格镶嵌为一个：要求坐标系、存储类型、nodata与
// 分辨率一致，输出范围为各输入范围的并集。method决定重叠像元的取值。
// 网格不一致的镶嵌应走LoadMultiRaster
func Merge(rasters []Raster, method MergeMethod) (out Raster, err error) {
	if len(rasters) == 0 {
		err = ErrNoRasters
		return
	}
	switch method {
	case MergeFirst, MergeLast, MergeMin, MergeMax, MergeSum, MergeCount:
	default:
		err = ErrUnknownMerge
		return
	}
	ref := rasters[0]
	if ref.nodata == nil {
		err = ErrVoidNoData
		return
	}
	xres, yres := ref.Resolution()
	for _, r := range rasters[1:] {
		xr, yr := r.Resolution()
		if !sameSRS(ref.srs, r.srs) || ref.dtype != r.dtype || !sameNoData(ref.nodata, r.nodata) ||
			math.Abs(xr-xres) > GT_EPSILON || math.Abs(yr-yres) > GT_EPSILON {
			err = ErrMergeMismatch
			return
		}
	}

	dst := rasters[0].Bounds()
	for _, r := range rasters[1:] {
		b := r.Bounds()
		dst[0] = math.Min(dst[0], b[0])
		dst[1] = math.Min(dst[1], b[1])
		dst[2] = math.Max(dst[2], b[2])
		dst[3] = math.Max(dst[3], b[3])
	}
	outW := int(math.Round((dst[2] - dst[0]) / xres))
	outH := int(math.Round((dst[3] - dst[1]) / yres))
	nd := *ref.nodata

	data := make([]float64, outW*outH)
	counting := method == MergeCount
	init := nd
	if counting {
		init = 0
	}
	for i := range data {
		data[i] = init
	}

	for _, r := range rasters {
		b := r.Bounds()
		rowOff := int(math.Round((dst[3] - b[3]) / yres))
		colOff := int(math.Round((b[0] - dst[0]) / xres))
		for row := 0; row < r.height; row++ {
			dRow := rowOff + row
			if dRow < 0 || dRow >= outH {
				continue
			}
			for col := 0; col < r.width; col++ {
				dCol := colOff + col
				if dCol < 0 || dCol >= outW {
					continue
				}
				src := r.At(row, col)
				srcValid := !r.isNoData(src)
				i := dRow*outW + dCol
				if counting {
					if srcValid {
						data[i]++
					}
					continue
				}
				if !srcValid {
					continue
				}
				dstHole := data[i] == nd || (math.IsNaN(nd) && math.IsNaN(data[i]))
				switch method {
				case MergeFirst:
					if dstHole {
						data[i] = src
					}
				case MergeLast:
					data[i] = src
				case MergeMin:
					if dstHole || src < data[i] {
						data[i] = src
					}
				case MergeMax:
					if dstHole || src > data[i] {
						data[i] = src
					}
				case MergeSum:
					if dstHole {
						data[i] = src
					} else {
						data[i] += src
					}
				}
			}
		}
	}
	log.Info(logTag+"merged rasters", zap.Int("cnt", len(rasters)), zap.String("method", string(method)),
		zap.Int("width", outW), zap.Int("height", outH))
	outNd := nd
	out = Raster{
		data:   data,
		width:  outW,
		height: outH,
		gt:     [6]float64{dst[0], xres, 0, dst[3], 0, -yres},
		srs:    ref.srs,
		nodata: &outNd,
		dtype:  ref.dtype,
	}
	return
}
