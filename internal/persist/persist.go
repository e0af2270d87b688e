// Package persist reads and writes the opt_params.json record: the
// chosen HWParams plus the four per-layer tile lists, in the schema
// spec.md §6 requires for round-tripping a search result.
package persist

import (
	"encoding/json"
	"fmt"
	"os"

	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/search"
)

// Record is the on-disk schema: every HWParams field that varies
// across candidates, plus the four flattened per-layer lists.
type Record struct {
	LayerInHT  int `json:"LAYER_IN_H_T"`
	LayerInWT  int `json:"LAYER_IN_W_T"`
	LayerOutHT int `json:"LAYER_OUT_H_T"`
	LayerOutWT int `json:"LAYER_OUT_W_T"`

	LayerInNumT  int `json:"LAYER_IN_NUM_T"`
	LayerOutNumT int `json:"LAYER_OUT_NUM_T"`

	SIMDLane   int `json:"SIMD_LANE"`
	SARows     int `json:"SA_ROWS"`
	SACols     int `json:"SA_COLS"`
	SASIMDLane int `json:"SA_SIMD_LANE"`
	FRE        int `json:"FRE"`

	LayerInNumTList  []int `json:"LAYER_IN_NUM_T_LIST"`
	LayerOutNumTList []int `json:"LAYER_OUT_NUM_T_LIST"`
	LayerInHTList    []int `json:"LAYER_IN_H_T_LIST"`
	LayerInWTList    []int `json:"LAYER_IN_W_T_LIST"`

	OptLatency float64 `json:"opt_latency"`
	OptDSP     float64 `json:"opt_DSP"`
	OptBRAM18K float64 `json:"opt_BRAM18K"`
}

// FromCandidate flattens a search.Candidate into the persisted record
// shape.
func FromCandidate(c search.Candidate) Record {
	r := Record{
		LayerInHT:    c.Params.InHT,
		LayerInWT:    c.Params.InWT,
		LayerOutHT:   c.Params.InHT,
		LayerOutWT:   c.Params.InWT,
		LayerInNumT:  c.Params.InNumT,
		LayerOutNumT: c.Params.OutNumT,
		SIMDLane:     c.Params.SIMDLane,
		SARows:       c.Params.SARows,
		SACols:       c.Params.SACols,
		SASIMDLane:   c.Params.SASIMDLane,
		FRE:          c.Params.FRE,
		OptLatency:   c.Latency,
		OptDSP:       c.DSP,
		OptBRAM18K:   c.BRAM18K,
	}
	for _, choice := range c.Choices {
		r.LayerInNumTList = append(r.LayerInNumTList, choice.InNumT)
		r.LayerOutNumTList = append(r.LayerOutNumTList, choice.OutNumT)
		r.LayerInHTList = append(r.LayerInHTList, choice.InHT)
		r.LayerInWTList = append(r.LayerInWTList, choice.InWT)
	}
	return r
}

// Params reconstructs the HWParams portion of the record (precision
// fields are not persisted and must be supplied by the caller, since
// they are fixed ambient defaults rather than search outputs).
func (r Record) Params(precision hw.Params) hw.Params {
	p := precision.Clone()
	p.InHT = r.LayerInHT
	p.InWT = r.LayerInWT
	p.InNumT = r.LayerInNumT
	p.OutNumT = r.LayerOutNumT
	p.SIMDLane = r.SIMDLane
	p.SARows = r.SARows
	p.SACols = r.SACols
	p.SASIMDLane = r.SASIMDLane
	p.FRE = r.FRE
	return p
}

// Choices reconstructs the per-layer choice list from the four
// flattened lists.
func (r Record) Choices() ([]hw.LayerChoice, error) {
	n := len(r.LayerInNumTList)
	if len(r.LayerOutNumTList) != n || len(r.LayerInHTList) != n || len(r.LayerInWTList) != n {
		return nil, fmt.Errorf("persist: per-layer list length mismatch")
	}
	choices := make([]hw.LayerChoice, n)
	for i := range choices {
		choices[i] = hw.LayerChoice{
			InNumT:  r.LayerInNumTList[i],
			OutNumT: r.LayerOutNumTList[i],
			InHT:    r.LayerInHTList[i],
			InWT:    r.LayerInWTList[i],
		}
	}
	return choices, nil
}

// Write serializes a Record as indented JSON to path.
func Write(path string, r Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persist: writing %s: %w", path, err)
	}
	return nil
}

// Read loads and parses a Record from path.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("persist: reading %s: %w", path, err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("persist: parsing %s: %w", path, err)
	}
	return r, nil
}
