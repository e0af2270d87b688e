package search

import (
	"fmt"

	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/layeropt"
	"duchm1606/fpga-dse/internal/layerspec"
	"duchm1606/fpga-dse/internal/resource"
	"duchm1606/fpga-dse/internal/searchlog"
)

// sweepWorker runs the inner SA_ROWS/SA_COLS/SA_SIMD_LANE generator over
// every outer candidate in this worker's chunk, prunes infeasible
// points, back-annotates the clock frequency, invokes the per-layer
// optimizer, and tracks the hysteresis-gated local optimum.
//
// Points pruned by resource checks are not simply discarded: the
// lowest-overage one seen is kept as a diagnostic, so that if every
// candidate in the whole space turns out infeasible the error can
// report how close the search came.
//
// The update rule is deliberately not "replace if latency is lower":
// the reference compares fps (proportional to 1/latency) and only
// replaces the incumbent when curFPS - optFPS >= 0.5, to damp
// floating-point jitter near ties. That hysteresis is local to this
// worker; it must not be reapplied during the cross-worker reduction.
func sweepWorker(workerID int, chunk []hw.Params, topo layerspec.Topology, layers []layerspec.Spec, board Board, level layeropt.DynamicTilingLevel) workerResult {
	var (
		opt         *Candidate
		optFPS      float64
		closestUtil *Infeasible
	)

	for _, outer := range chunk {
		for _, saRows := range divisors(outer.InNumT) {
			for _, saCols := range divisors(outer.InWT) {
				for _, saLane := range divisors(outer.SIMDLane) {
					p := outer.Clone()
					p.SARows = saRows
					p.SACols = saCols
					p.SASIMDLane = saLane

					dsp, err := resource.DSP(p)
					if err != nil {
						continue
					}
					choice := hw.LayerChoice{InNumT: p.InNumT, OutNumT: p.OutNumT, InHT: p.InHT, InWT: p.InWT}
					bram := resource.BRAM18K(p, choice)

					dspUtil := dsp / board.DSP
					bramUtil := bram / board.BRAM18K
					if dsp > board.DSPThres*board.DSP || bram > board.BRAM18KThres*board.BRAM18K {
						if closestUtil == nil || dspUtil+bramUtil < utilScore(*closestUtil) {
							closestUtil = &Infeasible{DSPUtil: dspUtil, BRAM18KUtil: bramUtil}
						}
						continue
					}

					if dspUtil > 0.6 || bram/board.BRAM18K > 0.5 {
						p.FRE = 180
					} else {
						p.FRE = 250
					}

					result := layeropt.Run(p, topo, layers, level)
					fps := 250e6 / result.Latency

					if opt == nil || fps-optFPS >= 0.5 {
						c := Candidate{
							Params:  p,
							Choices: result.Choices,
							Latency: result.Latency,
							DSP:     dsp,
							BRAM18K: bram,
						}
						opt = &c
						optFPS = fps
					}
				}
			}
		}
	}

	searchlog.Debugf("worker %d done: feasible=%v", workerID, opt != nil)
	return workerResult{best: opt, infeasible: feasibleOrNil(opt, closestUtil)}
}

func feasibleOrNil(opt *Candidate, worst *Infeasible) *Infeasible {
	if opt != nil {
		return nil
	}
	return worst
}

// divisors returns the positive divisors of n in ascending order.
func divisors(n int) []int {
	var out []int
	for v := 1; v <= n; v++ {
		if n%v == 0 {
			out = append(out, v)
		}
	}
	return out
}

func formatInfeasible(i Infeasible) string {
	return fmt.Sprintf("best infeasible candidate: DSP %.1f%%, BRAM18K %.1f%% of budget", i.DSPUtil*100, i.BRAM18KUtil*100)
}
