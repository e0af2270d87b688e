package layerspec

import (
	"math"

	"github.com/pkg/errors"

	"duchm1606/fpga-dse/internal/dsperror"
)

// capture handle names recognized while walking the raw layer list.
const (
	handleConv2d3     = "Conv2d_3"
	handleConv2d7     = "Conv2d_7"
	handleConv2d11    = "Conv2d_11"
	handleConv2d3Pool = "Conv2d_3_pool"
	handleS1L1        = "MConv_Stage1_L1_5"
	handleS1L2        = "MConv_Stage1_L2_5"
	handleS2L1        = "MConv_Stage2_L1_5"
	handleS2L2        = "MConv_Stage2_L2_5"
)

// Result is the outcome of expanding a raw layer list under a topology:
// the flat per-instance layer list, the resolved skip/concat handles,
// and the maximum channel count seen anywhere in the network (used
// downstream to bound IN_NUM_T).
type Result struct {
	Layers            []Spec
	Skips             SkipTable
	NetworkChannelMax int
}

// Expand parses a raw layer list under the VGG/Stage1/Stage2 topology
// and produces a flat, fully-resolved instance list.
//
// raw must contain exactly
// VGG_LAYERS + 2*STAGE1_LAYERS*STAGE1_ITER + 2*STAGE2_LAYERS lines.
// Stage1 and Stage2 are asymmetric about replay: Stage1 has no repeating
// source window at all, every one of its STAGE1_ITER repeats is backed
// by its own distinct lines in the source text, while Stage2's lines are
// read once and replayed STAGE2_ITER times.
func Expand(raw []RawLayer, topo Topology, inNum, inH, inW int) (Result, error) {
	expectedLines := topo.VGGLayers + 2*topo.Stage1Layers*topo.Stage1Iter + 2*topo.Stage2Layers
	if len(raw) != expectedLines {
		return Result{}, errors.Wrapf(dsperror.ErrTopologyMismatch,
			"expected %d source lines (VGG=%d + 2*Stage1*Stage1Iter=%d + 2*Stage2=%d), got %d",
			expectedLines, topo.VGGLayers, 2*topo.Stage1Layers*topo.Stage1Iter, 2*topo.Stage2Layers, len(raw))
	}

	w := &expanderState{
		skips:             make(SkipTable),
		networkChannelMax: inNum,
		outNum:            inNum,
		outH:              inH,
		outW:              inW,
	}

	for i := 0; i < topo.VGGLayers; i++ {
		w.step(raw[i], nil)
	}
	stage1Base := topo.VGGLayers
	for iter := 0; iter < topo.Stage1Iter; iter++ {
		iterBase := stage1Base + iter*2*topo.Stage1Layers
		for branch := 0; branch < 2; branch++ {
			for li := 0; li < topo.Stage1Layers; li++ {
				raw := raw[iterBase+topo.Stage1Layers*branch+li]
				w.step(raw, stage1Override(li == 0))
			}
		}
	}
	stage2Base := stage1Base + 2*topo.Stage1Layers*topo.Stage1Iter
	for iter := 0; iter < topo.Stage2Iter; iter++ {
		for branch := 0; branch < 2; branch++ {
			for li := 0; li < topo.Stage2Layers; li++ {
				raw := raw[stage2Base+topo.Stage2Layers*branch+li]
				w.step(raw, stage2Override(li == 0))
			}
		}
	}

	want := topo.ExpandedLayerCount()
	if len(w.layers) != want {
		return Result{}, errors.Wrapf(dsperror.ErrTopologyMismatch,
			"expanded %d layer instances, topology expects %d", len(w.layers), want)
	}

	return Result{
		Layers:            w.layers,
		Skips:             w.skips,
		NetworkChannelMax: w.networkChannelMax,
	}, nil
}

type override func(w *expanderState) (inNum, inH, inW int, ok bool)

func stage1Override(isFirstOfBranch bool) override {
	return func(w *expanderState) (int, int, int, bool) {
		if !isFirstOfBranch {
			return 0, 0, 0, false
		}
		pool := w.skips[handleConv2d3Pool]
		c7 := w.skips[handleConv2d7]
		c11 := w.skips[handleConv2d11]
		return pool.OutNum + c7.OutNum + c11.OutNum, pool.OutH, pool.OutW, true
	}
}

func stage2Override(isFirstOfBranch bool) override {
	return func(w *expanderState) (int, int, int, bool) {
		if !isFirstOfBranch {
			return 0, 0, 0, false
		}
		pool := w.skips[handleConv2d3Pool]
		c7 := w.skips[handleConv2d7]
		c11 := w.skips[handleConv2d11]
		l1 := w.skips[handleS1L1]
		l2 := w.skips[handleS1L2]
		return l1.OutNum + l2.OutNum + pool.OutNum + c7.OutNum + c11.OutNum, pool.OutH, pool.OutW, true
	}
}

type expanderState struct {
	layers            []Spec
	skips             SkipTable
	networkChannelMax int

	// running output shape of the previously processed layer; becomes
	// the next layer's input shape unless an override fires.
	outNum, outH, outW int
}

// step processes one raw layer line, applying the phase-specific
// input override (if any) and recording named capture handles.
func (w *expanderState) step(raw RawLayer, ov override) {
	if raw.OutNum > w.networkChannelMax {
		w.networkChannelMax = raw.OutNum
	}

	inNum, inH, inW := w.outNum, w.outH, w.outW
	if raw.Name == handleConv2d3Pool {
		if h, ok := w.skips[handleConv2d3]; ok {
			inNum, inH, inW = h.OutNum, h.OutH, h.OutW
		}
	}
	if ov != nil {
		if on, oh, ow, ok := ov(w); ok {
			inNum, inH, inW = on, oh, ow
		}
	}

	outNum := raw.OutNum
	var outH, outW int
	if raw.Stride == 2 {
		outH = int(math.Ceil(float64(inH) / 2))
		outW = int(math.Ceil(float64(inW) / 2))
	} else {
		outH, outW = inH, inW
	}

	var filterS1, filterS2 int
	var depthEn, pointEn bool
	switch raw.Type {
	case "separable_conv":
		filterS1, filterS2 = raw.FilterS, 1
		depthEn, pointEn = true, true
	case "convb":
		filterS1, filterS2 = 1, raw.FilterS
		depthEn, pointEn = false, true
	case "max_pool":
		filterS1, filterS2 = 1, 1
		depthEn, pointEn = false, false
	}

	spec := Spec{
		Name:          raw.Name,
		LayerInNum:    inNum,
		LayerOutNum:   outNum,
		LayerInH:      inH,
		LayerInW:      inW,
		LayerFilterS1: filterS1,
		LayerFilterS2: filterS2,
		LayerStride:   raw.Stride,
		DepthConvEn:   depthEn,
		PointConvEn:   pointEn,
		BiasEn:        raw.BiasEn,
		MaxPoolEn:     raw.Type == "max_pool",
	}
	w.layers = append(w.layers, spec)

	switch raw.Name {
	case handleConv2d3, handleConv2d7, handleConv2d11, handleConv2d3Pool,
		handleS1L1, handleS1L2, handleS2L1, handleS2L2:
		w.skips[raw.Name] = Handle{OutNum: outNum, OutH: outH, OutW: outW}
	}

	w.outNum, w.outH, w.outW = outNum, outH, outW
}
