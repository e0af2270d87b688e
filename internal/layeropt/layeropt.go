// Package layeropt implements the greedy per-layer tile-size search:
// for each expanded layer instance, in order, it enumerates candidate
// tile tuples under the dynamic-tiling-level policy and keeps the
// argmin against the latency model.
package layeropt

import (
	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/latency"
	"duchm1606/fpga-dse/internal/layerspec"
)

// DynamicTilingLevel selects how aggressively per-layer tiles may
// diverge from the outer hardware params:
//
//	0: fixed to the outer IN_NUM_T/OUT_NUM_T/IN_H_T/IN_W_T
//	1: channel tiles adaptive, spatial tiles fixed
//	2: channel and spatial tiles both adaptive
type DynamicTilingLevel int

const (
	TilingFixed           DynamicTilingLevel = 0
	TilingChannelAdaptive DynamicTilingLevel = 1
	TilingFullyAdaptive   DynamicTilingLevel = 2
)

// These global layer indices are structural properties of the VGG
// feature extractor this accelerator was designed around (the
// "openpose-thin" topology): layer 0 is the network's first
// convolution, layer 7 is the layer whose output channel tiling fixes
// concat_num_t for every later concat site, and layers 11/12 are the
// two VGG layers feeding the first Stage1 concat, so their OUT_NUM_T
// is pinned to concat_num_t rather than swept. The last layer of every
// Stage1/Stage2 branch is pinned the same way, since its output also
// feeds a concat. These are positional constants of that specific
// topology, not derived values, and are reproduced here exactly as in
// the reference model.
const (
	vggConcatPinOutputIdx1 = 11
	vggConcatPinOutputIdx2 = 12
	vggConcatPinInputIdx   = 12
	vggConcatSourceIdx     = 7
)

// Result is the outcome of optimizing one network: the total latency
// (sum of each layer's argmin) and the four per-layer choice lists.
type Result struct {
	Latency float64
	Choices []hw.LayerChoice
}

// Run walks layers in order, choosing the latency-minimizing tile
// tuple for each under the given dynamic tiling level, and accumulates
// the network's total latency. layers must be the flat output of
// layerspec.Expand for the same topology used to build topo.
func Run(p hw.Params, topo layerspec.Topology, layers []layerspec.Spec, level DynamicTilingLevel) Result {
	res := Result{Choices: make([]hw.LayerChoice, len(layers))}

	var concatNumT int
	var prevOutNumT int

	for idx, spec := range layers {
		role := roleOf(topo, idx)

		inCandidates := inNumTCandidates(level, p, idx, role, concatNumT, prevOutNumT)
		outCandidates := outNumTCandidates(level, p, idx, role, concatNumT)
		hCandidates, wCandidates := spatialCandidates(level, p)

		best := hw.LayerChoice{}
		bestLatency := -1.0
		for _, inNumT := range inCandidates {
			for _, outNumT := range outCandidates {
				for _, inHT := range hCandidates {
					for _, inWT := range wCandidates {
						choice := hw.LayerChoice{InNumT: inNumT, OutNumT: outNumT, InHT: inHT, InWT: inWT}
						l := latency.Layer(p, spec, choice)
						if bestLatency < 0 || l < bestLatency {
							bestLatency = l
							best = choice
						}
					}
				}
			}
		}

		res.Choices[idx] = best
		res.Latency += bestLatency
		prevOutNumT = best.OutNumT

		if idx == vggConcatSourceIdx {
			concatNumT = best.OutNumT
		}
	}

	return res
}

// layerRole captures the structural position of an expanded layer
// instance within the VGG/Stage1/Stage2 topology, re-derived the same
// way the reference model's optimizer walks the layer list a second
// time (independent of the expansion pass in internal/layerspec).
type layerRole struct {
	inVGG                bool
	isFirstOfStageBranch bool
	isLastOfStageBranch  bool
}

func roleOf(topo layerspec.Topology, globalIdx int) layerRole {
	if globalIdx < topo.VGGLayers {
		return layerRole{inVGG: true}
	}
	idx := globalIdx - topo.VGGLayers
	stage1Total := 2 * topo.Stage1Layers * topo.Stage1Iter
	if idx < stage1Total {
		within := idx % topo.Stage1Layers
		return layerRole{isFirstOfStageBranch: within == 0, isLastOfStageBranch: within == topo.Stage1Layers-1}
	}
	idx -= stage1Total
	within := idx % topo.Stage2Layers
	return layerRole{isFirstOfStageBranch: within == 0, isLastOfStageBranch: within == topo.Stage2Layers-1}
}

func multiplesOf8(upTo int) []int {
	var out []int
	for v := 1; v <= upTo; v++ {
		if v%8 == 0 {
			out = append(out, v)
		}
	}
	return out
}

func inNumTCandidates(level DynamicTilingLevel, p hw.Params, globalIdx int, role layerRole, concatNumT, prevOutNumT int) []int {
	if level == TilingFixed {
		return []int{p.InNumT}
	}
	switch {
	case role.inVGG && globalIdx == 0:
		return multiplesOf8(p.InNumT)
	case role.inVGG && globalIdx == vggConcatPinInputIdx:
		return []int{concatNumT}
	case role.inVGG:
		return []int{prevOutNumT}
	case role.isFirstOfStageBranch:
		return []int{concatNumT}
	default:
		return []int{prevOutNumT}
	}
}

func outNumTCandidates(level DynamicTilingLevel, p hw.Params, globalIdx int, role layerRole, concatNumT int) []int {
	if level == TilingFixed {
		return []int{p.OutNumT}
	}
	if role.inVGG && (globalIdx == vggConcatPinOutputIdx1 || globalIdx == vggConcatPinOutputIdx2) {
		return []int{concatNumT}
	}
	if !role.inVGG && role.isLastOfStageBranch {
		return []int{concatNumT}
	}
	return multiplesOf8(p.OutNumT)
}

func spatialCandidates(level DynamicTilingLevel, p hw.Params) (hCandidates, wCandidates []int) {
	if level != TilingFullyAdaptive {
		return []int{p.InHT}, []int{p.InWT}
	}
	for v := 1; v <= p.InHT; v++ {
		if v%2 == 0 {
			hCandidates = append(hCandidates, v)
		}
	}
	for v := 1; v <= p.InWT; v++ {
		if v%p.SACols == 0 {
			wCandidates = append(wCandidates, v)
		}
	}
	return hCandidates, wCandidates
}
