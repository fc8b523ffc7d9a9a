package rastlib

import "encoding/json"

type AnyJson = json.RawMessage

// 栅格范围 (xmin, ymin, xmax, ymax)，世界坐标
type Bounds = [4]float64

// 重采样参数。TargetWidth/Height、TargetResX/Y、ScaleFactor三组互斥，
// 按此优先级取第一组有效值
type ResampleOptions struct {
	Method       ResampleMethod
	TargetResX   float64
	TargetResY   float64
	ScaleFactor  float64
	TargetWidth  int
	TargetHeight int
}

func DefaultResampleOptions() *ResampleOptions {
	return &ResampleOptions{
		Method:      ResampleBilinear,
		ScaleFactor: 1.0,
	}
}

// 矢量遮蔽参数
type MaskOptions struct {
	AllTouched bool    // 遮蔽所有接触像元，而非仅中心点在面内的
	Invert     bool    // 反转：保留面外，遮蔽面内
	Crop       bool    // 裁剪输出窗口到矢量范围
	PadX       float64 // 窗口横向扩展（像元）
	PadY       float64 // 窗口纵向扩展（像元）
}

// 栅格文件元数据
type RasterMeta struct {
	Path      string
	Width     int
	Height    int
	Bands     int
	DataType  string
	Transform [6]float64
	SRSWkt    string
	NoData    *float64
}
