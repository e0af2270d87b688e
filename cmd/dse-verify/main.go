// Command dse-verify replays the latency model over a persisted
// opt_params.json against the same model/model_config/input_config
// descriptors used to produce it, and reports whether the recomputed
// latency reproduces the persisted opt_latency to within 1 ULP. This
// implements the round-trip testable property.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"duchm1606/fpga-dse/internal/descriptor"
	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/layerspec"
	"duchm1606/fpga-dse/internal/latency"
	"duchm1606/fpga-dse/internal/persist"
)

var (
	modelPath       = flag.String("m", "", "Path to the model layer-list file (required)")
	modelConfigPath = flag.String("mc", "", "Path to the model_config JSON file (required)")
	inputConfigPath = flag.String("i", "", "Path to the input_config JSON file (required)")
	paramsPath      = flag.String("p", "opt_params.json", "Path to the persisted opt_params.json")
)

func main() {
	flag.Parse()
	if *modelPath == "" || *modelConfigPath == "" || *inputConfigPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -m, -mc and -i are all required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dse-verify failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rawLayers, err := descriptor.LoadModel(*modelPath)
	if err != nil {
		return err
	}
	modelCfg, err := descriptor.LoadModelConfig(*modelConfigPath)
	if err != nil {
		return err
	}
	inputCfg, err := descriptor.LoadInputConfig(*inputConfigPath)
	if err != nil {
		return err
	}

	expanded, err := layerspec.Expand(rawLayers, modelCfg.Topology(), inputCfg.InNum, inputCfg.InH, inputCfg.InW)
	if err != nil {
		return err
	}

	record, err := persist.Read(*paramsPath)
	if err != nil {
		return err
	}
	params := record.Params(hw.DefaultPrecision())
	choices, err := record.Choices()
	if err != nil {
		return err
	}
	if len(choices) != len(expanded.Layers) {
		return fmt.Errorf("dse-verify: persisted %d per-layer choices, expanded model has %d layers", len(choices), len(expanded.Layers))
	}

	var recomputed float64
	for i, spec := range expanded.Layers {
		recomputed += latency.Layer(params, spec, choices[i])
	}

	diff := math.Abs(recomputed - record.OptLatency)
	ulp := math.Nextafter(record.OptLatency, math.Inf(1)) - record.OptLatency

	fmt.Printf("Persisted latency:  %v\n", record.OptLatency)
	fmt.Printf("Recomputed latency: %v\n", recomputed)
	fmt.Printf("Difference:         %v (1 ULP = %v)\n", diff, ulp)

	if diff > ulp {
		return fmt.Errorf("recomputed latency does not match persisted value within 1 ULP")
	}
	fmt.Println("Round-trip OK")
	return nil
}
