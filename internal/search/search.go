// Package search implements GlobalSearch: the outer enumerative sweep
// over hardware design points, resource pruning, frequency
// back-annotation, and the parallel worker pool that drives
// internal/layeropt per candidate.
package search

import (
	"runtime"
	"sync"

	"duchm1606/fpga-dse/internal/dsperror"
	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/layeropt"
	"duchm1606/fpga-dse/internal/layerspec"
	"duchm1606/fpga-dse/internal/searchlog"
)

// Board carries the target device's resource budget and the pruning
// thresholds applied against it.
type Board struct {
	DSP          float64
	BRAM18K      float64
	DSPThres     float64
	BRAM18KThres float64
}

// NetworkShape carries the input tensor dimensions and the expander's
// network_channel_max, both needed to bound the outer tile generator.
type NetworkShape struct {
	InH, InW   int
	ChannelMax int
}

// Candidate is one fully-evaluated, feasible hardware design point: the
// outer HWParams, its per-layer tile choices, and the three metrics the
// cross-worker reduction ranks on.
type Candidate struct {
	Params  hw.Params
	Choices []hw.LayerChoice
	Latency float64
	DSP     float64
	BRAM18K float64
}

// Infeasible records the closest-to-feasible (lowest-utilization)
// candidate seen by a worker that never passed resource pruning,
// surfaced only when no worker finds any feasible candidate at all.
type Infeasible struct {
	DSPUtil     float64
	BRAM18KUtil float64
}

// Options configures one GlobalSearch run.
type Options struct {
	NumWorkers  int
	TilingLevel layeropt.DynamicTilingLevel
}

// DefaultWorkers returns floor(0.75 * cpu_count), the reference
// implementation's default worker count when parallelism is enabled,
// floored at 1.
func DefaultWorkers() int {
	n := int(0.75 * float64(runtime.NumCPU()))
	if n < 1 {
		return 1
	}
	return n
}

// Run sweeps the full IN_H_T x IN_W_T x IN_NUM_T x SIMD_LANE outer space,
// partitions it across Options.NumWorkers workers, and reduces each
// worker's local optimum lexicographically on (latency, DSP, BRAM18K).
// It returns dsperror.ErrInfeasibleSearchSpace, wrapped with the best
// infeasible candidate's utilization, if no worker ever finds a feasible
// point. The final reduction never applies the fps hysteresis guard:
// that guard is local to each worker's sweep (spec.md §9).
func Run(base hw.Params, topo layerspec.Topology, layers []layerspec.Spec, network NetworkShape, board Board, opts Options) (Candidate, error) {
	numWorkers := opts.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	outer := outerCandidates(base, network)
	searchlog.Infof("global search: %d outer candidates across %d workers", len(outer), numWorkers)

	chunks := partition(outer, numWorkers)

	results := make(chan workerResult, len(chunks))
	var wg sync.WaitGroup

	for id, chunk := range chunks {
		wg.Add(1)
		go func(workerID int, assigned []hw.Params) {
			defer wg.Done()
			results <- sweepWorker(workerID, assigned, topo, layers, board, opts.TilingLevel)
		}(id, chunk)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		best           *Candidate
		bestInfeasible *Infeasible
	)
	for wr := range results {
		if wr.best != nil && (best == nil || lessCandidate(*wr.best, *best)) {
			best = wr.best
		}
		if wr.infeasible != nil && (bestInfeasible == nil || utilScore(*wr.infeasible) < utilScore(*bestInfeasible)) {
			bestInfeasible = wr.infeasible
		}
	}

	if best == nil {
		if bestInfeasible != nil {
			return Candidate{}, dsperror.InfeasibleSearchSpace(formatInfeasible(*bestInfeasible))
		}
		return Candidate{}, dsperror.ErrInfeasibleSearchSpace
	}
	return *best, nil
}

type workerResult struct {
	best       *Candidate
	infeasible *Infeasible
}

func utilScore(i Infeasible) float64 {
	return i.DSPUtil + i.BRAM18KUtil
}

func lessCandidate(a, b Candidate) bool {
	if a.Latency != b.Latency {
		return a.Latency < b.Latency
	}
	if a.DSP != b.DSP {
		return a.DSP < b.DSP
	}
	return a.BRAM18K < b.BRAM18K
}
