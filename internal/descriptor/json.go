package descriptor

import (
	"encoding/json"
	"fmt"
	"os"

	"duchm1606/fpga-dse/internal/layerspec"
	"duchm1606/fpga-dse/internal/search"
)

// ModelConfig mirrors the model_config keyed-record file.
type ModelConfig struct {
	VGGLayers    int `json:"VGG_LAYERS"`
	Stage1Layers int `json:"STAGE1_LAYERS"`
	Stage1Iter   int `json:"STAGE1_ITER"`
	Stage2Layers int `json:"STAGE2_LAYERS"`
	Stage2Iter   int `json:"STAGE2_ITER"`
}

// Topology converts the parsed config into the layerspec.Topology the
// expander consumes.
func (c ModelConfig) Topology() layerspec.Topology {
	return layerspec.Topology{
		VGGLayers:    c.VGGLayers,
		Stage1Layers: c.Stage1Layers,
		Stage1Iter:   c.Stage1Iter,
		Stage2Layers: c.Stage2Layers,
		Stage2Iter:   c.Stage2Iter,
	}
}

// InputConfig mirrors the input_config keyed-record file.
type InputConfig struct {
	InNum int `json:"IN_NUM"`
	InH   int `json:"IN_H"`
	InW   int `json:"IN_W"`
}

// BoardConfig mirrors the board keyed-record file.
type BoardConfig struct {
	DSP          float64 `json:"DSP"`
	BRAM18K      float64 `json:"BRAM18K"`
	DSPThres     float64 `json:"DSP_THRES"`
	BRAM18KThres float64 `json:"BRAM18K_THRES"`
}

// Board converts the parsed config into the search.Board the global
// search consumes.
func (b BoardConfig) Board() search.Board {
	return search.Board{
		DSP:          b.DSP,
		BRAM18K:      b.BRAM18K,
		DSPThres:     b.DSPThres,
		BRAM18KThres: b.BRAM18KThres,
	}
}

func LoadModelConfig(path string) (ModelConfig, error) {
	var c ModelConfig
	if err := loadJSON(path, &c); err != nil {
		return ModelConfig{}, err
	}
	return c, nil
}

func LoadInputConfig(path string) (InputConfig, error) {
	var c InputConfig
	if err := loadJSON(path, &c); err != nil {
		return InputConfig{}, err
	}
	return c, nil
}

func LoadBoardConfig(path string) (BoardConfig, error) {
	var c BoardConfig
	if err := loadJSON(path, &c); err != nil {
		return BoardConfig{}, err
	}
	return c, nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("descriptor: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("descriptor: parsing %s: %w", path, err)
	}
	return nil
}
