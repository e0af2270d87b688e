// Command dse-search explores the hardware design space for mapping a
// fixed CNN onto the depthwise/systolic-array accelerator, given a
// model description, a topology descriptor, an input shape, and a
// target board's resource budget.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"duchm1606/fpga-dse/internal/appconfig"
	"duchm1606/fpga-dse/internal/descriptor"
	"duchm1606/fpga-dse/internal/hw"
	"duchm1606/fpga-dse/internal/layeropt"
	"duchm1606/fpga-dse/internal/layerspec"
	"duchm1606/fpga-dse/internal/persist"
	"duchm1606/fpga-dse/internal/search"
)

const (
	appName    = "dse-search"
	appVersion = "1.0.0"
)

var (
	modelPath       = flag.String("m", "", "Path to the model layer-list file (required)")
	modelConfigPath = flag.String("mc", "", "Path to the model_config JSON file (required)")
	inputConfigPath = flag.String("i", "", "Path to the input_config JSON file (required)")
	boardPath       = flag.String("b", "", "Path to the board JSON file (required)")
	parallel        = flag.Bool("parallel", false, "Enable multi-worker search")
	dynamicTiling   = flag.Int("dt", 1, "Dynamic tiling level (0, 1, or 2)")
	outPath         = flag.String("o", "opt_params.json", "Path to write the persisted search result")
	configPath      = flag.String("config", "", "Path to an optional appconfig YAML file")
)

func main() {
	flag.Parse()

	if err := validateArgs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", appName, err)
		os.Exit(1)
	}
}

func validateArgs() error {
	if *modelPath == "" || *modelConfigPath == "" || *inputConfigPath == "" || *boardPath == "" {
		return fmt.Errorf("-m, -mc, -i and -b are all required")
	}
	if *dynamicTiling < 0 || *dynamicTiling > 2 {
		return fmt.Errorf("-dt must be 0, 1, or 2, got %d", *dynamicTiling)
	}
	return nil
}

func run() error {
	start := time.Now()

	cfg, err := appconfig.Load(*configPath)
	if err != nil {
		return err
	}
	if err := appconfig.Validate(cfg); err != nil {
		return err
	}

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
	boardCfg, err := descriptor.LoadBoardConfig(*boardPath)
	if err != nil {
		return err
	}

	topo := modelCfg.Topology()

	expanded, err := layerspec.Expand(rawLayers, topo, inputCfg.InNum, inputCfg.InH, inputCfg.InW)
	if err != nil {
		return err
	}

	numWorkers := 1
	if *parallel {
		numWorkers = search.DefaultWorkers()
	}

	fmt.Printf("%s v%s\n", appName, appVersion)
	fmt.Printf("Parallelism: %d worker(s)\n", numWorkers)

	base := hw.DefaultPrecision()
	network := search.NetworkShape{
		InH:        inputCfg.InH,
		InW:        inputCfg.InW,
		ChannelMax: expanded.NetworkChannelMax,
	}

	result, err := search.Run(base, topo, expanded.Layers, network, boardCfg.Board(), search.Options{
		NumWorkers:  numWorkers,
		TilingLevel: layeropt.DynamicTilingLevel(*dynamicTiling),
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	dspPct := 100 * result.DSP / boardCfg.DSP
	bramPct := 100 * result.BRAM18K / boardCfg.BRAM18K

	latencySeconds := result.Latency / (float64(result.Params.FRE) * 1e6)
	fps := 1 / latencySeconds
	fmt.Printf("Optimal latency:   %.*e s (FRE=%d MHz)\n", cfg.Precision, latencySeconds, result.Params.FRE)
	fmt.Printf("FPS:               %.*f\n", cfg.Precision, fps)
	fmt.Printf("DSP:               %.0f (%.2f%%)\n", result.DSP, dspPct)
	fmt.Printf("BRAM18K:           %.0f (%.2f%%)\n", result.BRAM18K, bramPct)
	if cfg.ShowTiming {
		fmt.Printf("Elapsed wall time: %v\n", elapsed)
	}

	record := persist.FromCandidate(result)
	if err := persist.Write(*outPath, record); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", *outPath)
	return nil
}
