// Package costmodel implements the nine analytic cost kernels shared by
// every pipeline stage of the accelerator's dataflow: DRAM loads,
// weight loads, the depthwise and pointwise convolution engines,
// activation, pooling, and the two write-back stages. Every function
// here is pure and returns a cycle count as a float64; callers must not
// algebraically simplify the formulas, since bit-for-bit reproduction
// against the reference model is part of the contract.
package costmodel

import "math"

// dramLatency is the fixed DRAM round-trip latency, in cycles, assumed
// by every burst-based load/store estimate below.
const dramLatency = 120

// EffectiveDRAM returns the effective DRAM bandwidth (GB/s) and the
// effective port width (bits) for a burst of burstLen beats over a bus
// portWidth bits wide, clocked at freMHz. Only the effective port width
// is consumed by the kernels below.
func EffectiveDRAM(portWidth, burstLen, freMHz float64) (effBW, effPortWidth float64) {
	effBW = portWidth * burstLen / 8 / ((dramLatency + burstLen) / (freMHz * 1e6)) / 1e9
	effPortWidth = effBW * 1e9 * 8 / (freMHz * 1e6)
	return effBW, effPortWidth
}

// CinLoad estimates the cycles to stream one input feature-map tile in
// from DRAM: the max of the DRAM-bound load phase and the on-chip
// write phase.
func CinLoad(inNumT, inHT, inWT, fh, fw, lane, dw, portWidth, freMHz float64) float64 {
	burstLen := (inWT + fw - 1) * inNumT / (portWidth / dw)
	_, effPortWidth := EffectiveDRAM(portWidth, burstLen, freMHz)
	loadPhase := inNumT * (fh - 1 + inHT) * (fw - 1 + inWT) / (effPortWidth / dw)
	writePhase := inNumT * (fh - 1 + inHT) * (fw - 1 + inWT) / lane
	return max2(loadPhase, writePhase)
}

// WeightLoad estimates the cycles to stream a layer's weights (and
// bias, if enabled) in from DRAM. The load phase sums the enabled
// terms, since DRAM access is serial; the write phase takes the max of
// the enabled terms, since on-chip buffer writes happen in parallel.
func WeightLoad(inNumT, outNumT, fh1, fw1, fh2, fw2, lane, dw0, dw1, dw2, portWidth, freMHz float64, depthEn, pointEn, biasEn bool) float64 {
	burstLen1 := inNumT * fh1 * fw1 / (portWidth / dw0)
	_, effPortWidth1 := EffectiveDRAM(portWidth, burstLen1, freMHz)
	burstLen2 := inNumT * outNumT * fh2 * fw2 / (portWidth / dw1)
	_, effPortWidth2 := EffectiveDRAM(portWidth, burstLen2, freMHz)
	burstLen3 := outNumT / (portWidth / dw2)
	_, effPortWidth3 := EffectiveDRAM(portWidth, burstLen3, freMHz)

	var loadPhase, writePhase float64
	if depthEn {
		loadPhase += inNumT * fh1 * fw1 / (effPortWidth1 / dw0)
	}
	if pointEn {
		loadPhase += inNumT * outNumT * fh2 * fw2 / (effPortWidth2 / dw1)
	}
	if biasEn {
		loadPhase += outNumT / (effPortWidth3 / dw2)
	}

	if depthEn {
		writePhase = max2(writePhase, inNumT*fh1*fw1/lane)
	}
	if pointEn {
		writePhase = max2(writePhase, inNumT*outNumT*fh2*fw2/lane)
	}
	if biasEn {
		writePhase = max2(writePhase, outNumT/lane)
	}

	return loadPhase + writePhase
}

// InterLoad estimates the cycles to stage an intermediate tile with
// halo for the next stage's receptive field.
func InterLoad(inNumT, inHT, inWT, fh, fw, lane float64) float64 {
	return inNumT * (fh - 1 + inHT) * (fw - 1 + inWT) / lane
}

// DepthConv estimates the depthwise-convolution compute cycles.
func DepthConv(inNumT, inHT, inWT, fh, fw, lane float64) float64 {
	return inNumT * (fh - 1 + inHT) * (fw - 1 + inWT) / lane
}

// PointConv estimates the cycles for one pointwise-convolution tile on
// the systolic array: load, compute, drain and write phases, taking
// the pipeline's bottleneck (max) across all four.
func PointConv(inNum, inNumT, outNumT, outHT, outWT, fh1, fw1, fh2, fw2, lane, saRows, saCols, saLane float64) float64 {
	cinLoad := inNumT * (fh1 - 1 + outHT) * (fw1 - 1 + outWT) / lane
	weightLoad := inNumT * outNumT * fh2 * fw2 / lane
	loadPhase := max2(cinLoad, weightLoad)

	computePhase := inNumT * outNumT * outHT * outWT * fh2 * fw2 / saRows / saCols / saLane

	iters := ceilDiv(inNum, inNumT)
	drainPhase := outNumT * outWT / saCols * outHT / iters
	coutWrite := outNumT * outHT * outWT / iters / lane
	writePhase := coutWrite

	return max4(loadPhase, computePhase, drainPhase, writePhase)
}

// ReLU estimates the activation cycles: output volume over lane width,
// amortized over input-channel iterations.
func ReLU(inNum, inNumT, outNumT, outHT, outWT, lane float64) float64 {
	return outNumT * outHT * outWT / lane / ceilDiv(inNum, inNumT)
}

// Pool estimates the pooling cycles: same shape as ReLU.
func Pool(inNum, inNumT, outNumT, outHT, outWT, lane float64) float64 {
	return outNumT * outHT * outWT / lane / ceilDiv(inNum, inNumT)
}

// InterWrite estimates the cycles to write an intermediate tile
// back on-chip: same shape as ReLU/Pool.
func InterWrite(inNum, inNumT, outNumT, outHT, outWT, lane float64) float64 {
	return outNumT * outHT * outWT / lane / ceilDiv(inNum, inNumT)
}

// CoutWrite estimates the cycles to drain a layer's output tile back
// to DRAM, applying the layer's stride to the DRAM-bound write phase.
func CoutWrite(inNum, inNumT, outNumT, outHT, outWT, stride, lane, dw, portWidth, freMHz float64) float64 {
	iters := ceilDiv(inNum, inNumT)
	loadPhase := outNumT * outHT * outWT / lane / iters
	burstLen := outWT / stride * outNumT / (portWidth / dw)
	_, effPortWidth := EffectiveDRAM(portWidth, burstLen, freMHz)
	writePhase := outNumT * outHT / stride * outWT / stride / iters / (effPortWidth / dw)
	return max2(loadPhase, writePhase)
}

func ceilDiv(a, b float64) float64 {
	return math.Ceil(a / b)
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func max4(a, b, c, d float64) float64 {
	return max2(max2(a, b), max2(c, d))
}
