// Package latency composes the nine cost kernels in internal/costmodel
// into the total latency of one layer trial: a pipelined dataflow whose
// steady-state cycle cost is the slowest stage, repeated over the
// tiling iteration count, bracketed by a prologue (first load) and
// epilogue (final write).
package latency

import (
	"math"

	"duchm1606/fpga-dse/internal/costmodel"
	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/layerspec"
)

// Layer computes the total latency, in cycles, of running one
// LayerSpec with the given hardware params and chosen per-layer tile
// sizes (choice).
//
// ReLU is costed unconditionally regardless of whether the source
// model line requested it: the reference model invokes relu_est on
// every layer, and this is preserved here (spec.md §9).
func Layer(p hw.Params, spec layerspec.Spec, choice hw.LayerChoice) float64 {
	fh := math.Max(float64(spec.LayerFilterS1), float64(spec.LayerFilterS2))
	fw := fh

	inNumT := float64(choice.InNumT)
	outNumT := float64(choice.OutNumT)
	inHT := float64(choice.InHT)
	inWT := float64(choice.InWT)
	outHT := inHT
	outWT := inWT

	lane := float64(p.SIMDLane)
	dw0 := float64(p.DataW0)
	dw1 := float64(p.DataW1)
	dw2 := float64(p.DataW2)
	busW := float64(p.BusW)
	fre := float64(p.FRE)

	cinLoad := costmodel.CinLoad(inNumT, inHT, inWT, fh, fw, lane, dw0, busW, fre)
	weightLoad := costmodel.WeightLoad(inNumT, outNumT,
		float64(spec.LayerFilterS1), float64(spec.LayerFilterS1),
		float64(spec.LayerFilterS2), float64(spec.LayerFilterS2),
		lane, dw0, dw1, dw2, busW, fre,
		spec.DepthConvEn, spec.PointConvEn, spec.BiasEn)
	interLoad := costmodel.InterLoad(inNumT, inHT, inWT, fh, fw, lane)

	var depthConv, pointConv, pool float64
	if spec.DepthConvEn {
		depthConv = costmodel.DepthConv(inNumT, inHT, inWT, float64(spec.LayerFilterS1), float64(spec.LayerFilterS1), lane)
	}
	if spec.PointConvEn {
		pointConv = costmodel.PointConv(float64(spec.LayerInNum), inNumT, outNumT, outHT, outWT,
			float64(spec.LayerFilterS1), float64(spec.LayerFilterS1),
			float64(spec.LayerFilterS2), float64(spec.LayerFilterS2),
			lane, float64(p.SARows), float64(p.SACols), float64(p.SASIMDLane))
	}
	relu := costmodel.ReLU(float64(spec.LayerInNum), inNumT, outNumT, outHT, outWT, lane)
	if spec.MaxPoolEn {
		pool = costmodel.Pool(float64(spec.LayerInNum), inNumT, outNumT, outHT, outWT, lane)
	}
	interWrite := costmodel.InterWrite(float64(spec.LayerInNum), inNumT, outNumT, outHT, outWT, lane)
	coutWrite := costmodel.CoutWrite(float64(spec.LayerInNum), inNumT, outNumT, outHT, outWT,
		float64(spec.LayerStride), lane, dw0, busW, fre)

	stageLatency := maxOf(cinLoad, weightLoad, interLoad, depthConv, pointConv, relu, pool, interWrite, coutWrite)

	totalIter := math.Ceil(float64(spec.LayerInNum)/inNumT) *
		math.Ceil(float64(spec.LayerOutNum)/outNumT) *
		math.Ceil(float64(spec.LayerInH)/inHT) *
		math.Ceil(float64(spec.LayerInW)/inWT)

	extraLatency := math.Max(cinLoad, weightLoad) + coutWrite

	return extraLatency + stageLatency*totalIter
}

func maxOf(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
