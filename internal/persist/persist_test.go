package persist

import (
	"os"
	"path/filepath"
	"testing"

	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/search"
)

func sampleCandidate() search.Candidate {
	p := hw.DefaultPrecision()
	p.InHT, p.InWT = 4, 4
	p.InNumT, p.OutNumT = 16, 16
	p.SIMDLane = 2
	p.SARows, p.SACols, p.SASIMDLane = 2, 2, 1
	p.FRE = 250

	return search.Candidate{
		Params: p,
		Choices: []hw.LayerChoice{
			{InNumT: 16, OutNumT: 16, InHT: 4, InWT: 4},
			{InNumT: 16, OutNumT: 16, InHT: 4, InWT: 4},
		},
		Latency: 12345.0,
		DSP:     200,
		BRAM18K: 300,
	}
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opt_params.json")

	record := FromCandidate(sampleCandidate())
	if err := Write(path, record); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.OptLatency != record.OptLatency || got.FRE != record.FRE || len(got.LayerInNumTList) != 2 {
		t.Errorf("round-tripped record = %+v, want %+v", got, record)
	}
}

func TestChoicesRejectsMismatchedListLengths(t *testing.T) {
	r := Record{
		LayerInNumTList:  []int{16, 16},
		LayerOutNumTList: []int{16},
	}
	if _, err := r.Choices(); err == nil {
		t.Errorf("expected an error for mismatched per-layer list lengths")
	}
}

func TestParamsAppliesPersistedFieldsOverPrecisionDefaults(t *testing.T) {
	record := FromCandidate(sampleCandidate())
	p := record.Params(hw.DefaultPrecision())

	if p.InNumT != 16 || p.FRE != 250 || p.DataW0 != 32 {
		t.Errorf("reconstructed params = %+v, want InNumT=16 FRE=250 DataW0=32 (from precision defaults)", p)
	}
}

func TestWriteFailsOnUnwritablePath(t *testing.T) {
	if err := Write(filepath.Join(string(os.PathSeparator), "no-such-dir", "opt_params.json"), Record{}); err == nil {
		t.Errorf("expected an error writing to an unwritable path")
	}
}
