// Package descriptor parses the four DSE input files: the textual
// layer list ("model") and the three JSON keyed-record descriptors
// (model_config, input_config, board).
package descriptor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"duchm1606/fpga-dse/internal/dsperror"
	"duchm1606/fpga-dse/internal/layerspec"
)

const modelFieldCount = 7

// LoadModel reads the layer list: one header line, then one layer per
// line as "name,type,out_num,filter_s,stride,relu_en,bias_en".
func LoadModel(path string) ([]layerspec.RawLayer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("descriptor: opening model file %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return nil, dsperror.MalformedInput(path, 1, "model file is empty, expected a header line")
	}

	var layers []layerspec.RawLayer
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != modelFieldCount {
			return nil, dsperror.MalformedInput(path, lineNum,
				fmt.Sprintf("expected %d fields, got %d", modelFieldCount, len(fields)))
		}

		outNum, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, dsperror.MalformedInput(path, lineNum, "out_num is not an integer")
		}
		filterS, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return nil, dsperror.MalformedInput(path, lineNum, "filter_s is not an integer")
		}
		stride, err := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err != nil {
			return nil, dsperror.MalformedInput(path, lineNum, "stride is not an integer")
		}
		reluEn, err := strconv.ParseBool(strings.TrimSpace(fields[5]))
		if err != nil {
			return nil, dsperror.MalformedInput(path, lineNum, "relu_en is not a boolean")
		}
		biasEn, err := strconv.ParseBool(strings.TrimSpace(fields[6]))
		if err != nil {
			return nil, dsperror.MalformedInput(path, lineNum, "bias_en is not a boolean")
		}

		layers = append(layers, layerspec.RawLayer{
			Name:    strings.TrimSpace(fields[0]),
			Type:    strings.TrimSpace(fields[1]),
			OutNum:  outNum,
			FilterS: filterS,
			Stride:  stride,
			ReLUEn:  reluEn,
			BiasEn:  biasEn,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("descriptor: reading model file %s: %w", path, err)
	}
	return layers, nil
}
