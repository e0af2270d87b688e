package search

import (
	"errors"
	"testing"

	"duchm1606/fpga-dse/internal/dsperror"
	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/layeropt"
	"duchm1606/fpga-dse/internal/layerspec"
)

func tinyNetwork(t *testing.T) (layerspec.Topology, []layerspec.Spec, int) {
	t.Helper()
	raw := []layerspec.RawLayer{
		{Name: "Conv2d_1", Type: "separable_conv", OutNum: 16, FilterS: 3, Stride: 1},
		{Name: "Conv2d_2", Type: "separable_conv", OutNum: 16, FilterS: 3, Stride: 1},
	}
	topo := layerspec.Topology{VGGLayers: 2}
	expanded, err := layerspec.Expand(raw, topo, 16, 32, 32)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return topo, expanded.Layers, expanded.NetworkChannelMax
}

func TestRunFindsFeasibleCandidate(t *testing.T) {
	topo, layers, channelMax := tinyNetwork(t)
	network := NetworkShape{InH: 32, InW: 32, ChannelMax: channelMax}
	board := Board{DSP: 900, BRAM18K: 1000, DSPThres: 1, BRAM18KThres: 1}

	got, err := Run(hw.DefaultPrecision(), topo, layers, network, board, Options{NumWorkers: 1, TilingLevel: layeropt.TilingFixed})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.Latency <= 0 {
		t.Errorf("latency = %v, want > 0", got.Latency)
	}
	if got.DSP > board.DSP || got.BRAM18K > board.BRAM18K {
		t.Errorf("winning candidate exceeds board budget: DSP=%v/%v BRAM18K=%v/%v", got.DSP, board.DSP, got.BRAM18K, board.BRAM18K)
	}
}

func TestRunReturnsInfeasibleWhenThresholdsAreUnreachable(t *testing.T) {
	topo, layers, channelMax := tinyNetwork(t)
	network := NetworkShape{InH: 32, InW: 32, ChannelMax: channelMax}
	board := Board{DSP: 900, BRAM18K: 1000, DSPThres: 0.001, BRAM18KThres: 0.001}

	_, err := Run(hw.DefaultPrecision(), topo, layers, network, board, Options{NumWorkers: 1, TilingLevel: layeropt.TilingFixed})
	if !errors.Is(err, dsperror.ErrInfeasibleSearchSpace) {
		t.Errorf("expected ErrInfeasibleSearchSpace, got %v", err)
	}
}

func TestWorkerCountDoesNotChangeTheWinningCandidate(t *testing.T) {
	topo, layers, channelMax := tinyNetwork(t)
	network := NetworkShape{InH: 32, InW: 32, ChannelMax: channelMax}
	board := Board{DSP: 900, BRAM18K: 1000, DSPThres: 1, BRAM18KThres: 1}

	single, err := Run(hw.DefaultPrecision(), topo, layers, network, board, Options{NumWorkers: 1, TilingLevel: layeropt.TilingFixed})
	if err != nil {
		t.Fatalf("Run(1 worker): %v", err)
	}
	multi, err := Run(hw.DefaultPrecision(), topo, layers, network, board, Options{NumWorkers: 8, TilingLevel: layeropt.TilingFixed})
	if err != nil {
		t.Fatalf("Run(8 workers): %v", err)
	}

	if single.Latency != multi.Latency || single.DSP != multi.DSP || single.BRAM18K != multi.BRAM18K {
		t.Errorf("worker count changed the reduced optimum: 1 worker=%+v, 8 workers=%+v", single, multi)
	}
}

func TestDefaultWorkersAtLeastOne(t *testing.T) {
	if DefaultWorkers() < 1 {
		t.Errorf("DefaultWorkers() = %d, want >= 1", DefaultWorkers())
	}
}
