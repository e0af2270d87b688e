package search

import (
	"testing"

	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/layeropt"
	"duchm1606/fpga-dse/internal/resource"
)

// TestSweepWorkerInfeasibleDiagnosticPicksLowestOverage checks that when
// every SA_ROWS/SA_COLS/SA_SIMD_LANE combination for an outer candidate
// fails resource pruning, the worker keeps the combination closest to
// feasible (lowest DSP utilization), not the one furthest over budget.
// BRAM18K is constant across the SA sweep for a fixed outer candidate
// (it depends only on the tile sizes, not SA_ROWS/SA_COLS/SA_SIMD_LANE),
// so DSP alone drives which combination is closest.
func TestSweepWorkerInfeasibleDiagnosticPicksLowestOverage(t *testing.T) {
	topo, layers, _ := tinyNetwork(t)

	outer := hw.DefaultPrecision()
	outer.InHT, outer.InWT = 4, 8
	outer.InNumT, outer.OutNumT = 4, 4
	outer.SIMDLane = 2

	board := Board{DSP: 1, BRAM18K: 1e9, DSPThres: 0, BRAM18KThres: 1}

	wr := sweepWorker(0, []hw.Params{outer}, topo, layers, board, layeropt.TilingFixed)
	if wr.best != nil {
		t.Fatalf("expected no feasible candidate, got %+v", wr.best)
	}
	if wr.infeasible == nil {
		t.Fatal("expected an infeasible diagnostic, got nil")
	}

	lowest := outer.Clone()
	lowest.SARows, lowest.SACols, lowest.SASIMDLane = 1, 1, 1
	lowestDSP, err := resource.DSP(lowest)
	if err != nil {
		t.Fatalf("resource.DSP(lowest): %v", err)
	}

	highest := outer.Clone()
	highest.SARows, highest.SACols, highest.SASIMDLane = 4, 8, 2
	highestDSP, err := resource.DSP(highest)
	if err != nil {
		t.Fatalf("resource.DSP(highest): %v", err)
	}
	if highestDSP <= lowestDSP {
		t.Fatalf("fixture invalid: highest DSP %v should exceed lowest DSP %v", highestDSP, lowestDSP)
	}

	wantUtil := lowestDSP / board.DSP
	if got := wr.infeasible.DSPUtil; got != wantUtil {
		t.Errorf("infeasible diagnostic DSPUtil = %v, want %v (the lowest-overage combination, not the highest)", got, wantUtil)
	}
}
