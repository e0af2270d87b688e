package search

import "duchm1606/fpga-dse/internal/hw"

// outerCandidates builds the flat Cartesian product of IN_H_T, IN_W_T,
// IN_NUM_T, SIMD_LANE in that nesting order (outermost first), matching
// the reference generator's enumeration order exactly since it governs
// the worker chunk boundaries.
func outerCandidates(base hw.Params, network NetworkShape) []hw.Params {
	var out []hw.Params
	for _, inHT := range tileDivisors(network.InH) {
		for _, inWT := range tileDivisors(network.InW) {
			for _, inNumT := range channelTileCandidates(network.ChannelMax) {
				simdMax := inNumT
				if simdMax > 8 {
					simdMax = 8
				}
				for simdLane := 2; simdLane <= simdMax; simdLane += 2 {
					if inNumT%simdLane != 0 {
						continue
					}
					p := base.Clone()
					p.InHT = inHT
					p.InWT = inWT
					p.InNumT = inNumT
					p.OutNumT = inNumT
					p.SIMDLane = simdLane
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// tileDivisors returns the even divisors of dim that are <= dim/8, the
// spatial tile candidates for IN_H_T/IN_W_T.
func tileDivisors(dim int) []int {
	bound := dim / 8
	var out []int
	for v := 2; v <= bound; v += 2 {
		if dim%v == 0 {
			out = append(out, v)
		}
	}
	return out
}

// channelTileCandidates returns the multiples of 16, up to 128, that
// divide channelMax.
func channelTileCandidates(channelMax int) []int {
	var out []int
	for v := 16; v <= 128; v += 16 {
		if channelMax%v == 0 {
			out = append(out, v)
		}
	}
	return out
}

// partition splits candidates into ceil(len/numWorkers)-sized chunks, in
// order, matching the reference's list_split.
func partition(candidates []hw.Params, numWorkers int) [][]hw.Params {
	if len(candidates) == 0 {
		return nil
	}
	chunkSize := (len(candidates) + numWorkers - 1) / numWorkers
	var chunks [][]hw.Params
	for i := 0; i < len(candidates); i += chunkSize {
		end := i + chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		chunks = append(chunks, candidates[i:end])
	}
	return chunks
}
