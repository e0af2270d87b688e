// Package resource estimates the DSP and BRAM18K cost of one hardware
// design point's per-layer tile sizes: the depthwise engine, the
// systolic-array pointwise engine, and the on-chip buffers feeding
// both.
package resource

import (
	"fmt"
	"math"

	"duchm1606/fpga-dse/internal/hw"
)

// DSP returns the DSP-block count for the depthwise engine (a 3x3 plus
// a 1x1 MAC per SIMD lane) and the systolic pointwise engine
// (SA_ROWS x SA_COLS x SA_SIMD_LANE MACs), scaled by the DSPs a single
// MAC costs at the chosen data type.
func DSP(p hw.Params) (float64, error) {
	dspPerMAC, err := p.DataT0.DSPPerMAC()
	if err != nil {
		return 0, fmt.Errorf("resource: %w", err)
	}
	lane := float64(p.SIMDLane)
	depthConvDSP := (3*3*lane + 1*1*lane) * dspPerMAC
	pointConvDSP := float64(p.SARows) * float64(p.SACols) * float64(p.SASIMDLane) * dspPerMAC
	return depthConvDSP + pointConvDSP, nil
}

// bramPerBuffer estimates the number of 18Kb BRAM blocks needed for one
// buffer of datapath width dw bits holding s total bits.
func bramPerBuffer(dw, s float64) float64 {
	if dw > 18 {
		alpha := math.Ceil(dw / 36)
		return alpha * math.Ceil(s/dw/512)
	}
	alpha := math.Ceil(dw / 18)
	return alpha * math.Ceil(s/dw/1024)
}

// BRAM18K returns the total BRAM18K usage for a layer's chosen tile
// sizes under hardware params p: the double-buffered input-tile load,
// the three weight/bias sub-buffers, the five pointwise-engine
// sub-buffers (some fanned out by SA_ROWS/SA_COLS, some by SIMD_LANE),
// and the double-buffered output write.
func BRAM18K(p hw.Params, choice hw.LayerChoice) float64 {
	inHT := float64(choice.InHT)
	inWT := float64(choice.InWT)
	outHT := inHT
	outWT := inWT
	inNumT := float64(choice.InNumT)
	outNumT := float64(choice.OutNumT)
	kt := float64(p.KT)

	dw0 := float64(p.DataW0)
	dw1 := float64(p.DataW1)
	dw2 := float64(p.DataW2)
	busW := float64(p.BusW)
	lane := float64(p.SIMDLane)
	saRows := float64(p.SARows)
	saCols := float64(p.SACols)

	cinLoadBRAM := bramPerBuffer(busW, dw0*inNumT*(inHT+kt-1)*(inWT+kt-1)) * 2

	weightLoadBRAM := bramPerBuffer(busW, dw1*inNumT*kt*kt) +
		bramPerBuffer(busW, dw1*inNumT*outNumT*kt*kt) +
		bramPerBuffer(busW, dw2*outNumT)

	rowILFactor := outNumT / saRows
	colILFactor := outWT / saCols
	localRegNum := outHT * rowILFactor * colILFactor

	pointConvBRAM := bramPerBuffer(dw0*lane, inNumT*(inHT+kt-1)*(inWT+kt-1)*dw0) +
		bramPerBuffer(dw0*lane, inNumT*(inHT+kt-1)*(colILFactor+kt-1)*dw0)*2*saCols +
		bramPerBuffer(dw1*lane, inNumT*rowILFactor*kt*kt*dw1)*2*saRows +
		bramPerBuffer(dw0, outNumT*outHT*colILFactor*dw0/lane)*lane*2*saCols +
		bramPerBuffer(dw0, localRegNum*dw0)*3*saRows*saCols

	coutWriteBRAM := bramPerBuffer(busW, dw0*outHT*outWT*outNumT) * 2

	return cinLoadBRAM + weightLoadBRAM + pointConvBRAM + coutWriteBRAM
}
