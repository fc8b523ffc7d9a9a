package rastlib

import (
	"math"

	"github.com/wgdzlh/rastlib/log"
	"github.com/wgdzlh/rastlib/utils"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// heatGrid以plotter.GridXYZ暴露栅格：坐标须沿轴递增，
// 北朝上栅格（resY为负）的行序在此翻转
type heatGrid struct {
	r Raster
}

func (h heatGrid) Dims() (c, r int) {
	return h.r.width, h.r.height
}

func (h heatGrid) X(c int) float64 {
	x, _ := h.r.XY(0, c)
	return x
}

func (h heatGrid) Y(rr int) float64 {
	row := rr
	if h.r.gt[5] < 0 {
		row = h.r.height - 1 - rr
	}
	_, y := h.r.XY(row, 0)
	return y
}

func (h heatGrid) Z(c, rr int) float64 {
	row := rr
	if h.r.gt[5] < 0 {
		row = h.r.height - 1 - rr
	}
	v := h.r.At(row, c)
	if h.r.isNoData(v) {
		return math.NaN() // NaN像元不着色
	}
	return v
}

type plotOpts struct {
	title  string
	colors int
}

type PlotOption func(*plotOpts)

func PlotTitle(title string) PlotOption {
	return func(o *plotOpts) {
		o.title = title
	}
}

// 色带级数（默认12）
func PlotColors(n int) PlotOption {
	return func(o *plotOpts) {
		o.colors = n
	}
}

// SavePlot 将栅格渲染为热力图并按扩展名保存（png/svg/pdf等）
func (r Raster) SavePlot(path string, opts ...PlotOption) (err error) {
	po := plotOpts{title: utils.GetFilenameWithoutExt(path), colors: 12}
	for _, opt := range opts {
		opt(&po)
	}
	p := plot.New()
	p.Title.Text = po.title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	h := plotter.NewHeatMap(heatGrid{r}, palette.Heat(po.colors, 1))
	p.Add(h)

	// 画幅按栅格纵横比缩放
	w := 8 * vg.Inch
	ht := w
	if r.width > 0 {
		ht = vg.Length(float64(w) * float64(r.height) / float64(r.width))
	}
	if err = p.Save(w, ht, path); err != nil {
		log.Error(logTag+"save plot failed", zap.String("path", path), zap.Error(err))
		return
	}
	log.Info(logTag+"saved plot", zap.String("path", path))
	return
}
