package descriptor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"duchm1606/fpga-dse/internal/dsperror"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadModelParsesLayerLines(t *testing.T) {
	path := writeTempFile(t, "model.txt", "name,type,out_num,filter_s,stride,relu_en,bias_en\n"+
		"Conv2d_1,separable_conv,16,3,1,true,true\n"+
		"Conv2d_2,max_pool,16,2,2,false,false\n")

	layers, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(layers))
	}
	if layers[0].Name != "Conv2d_1" || layers[0].OutNum != 16 || !layers[0].ReLUEn {
		t.Errorf("layer 0 = %+v, unexpected fields", layers[0])
	}
	if layers[1].Type != "max_pool" || layers[1].Stride != 2 {
		t.Errorf("layer 1 = %+v, unexpected fields", layers[1])
	}
}

func TestLoadModelRejectsShortLines(t *testing.T) {
	path := writeTempFile(t, "model.txt", "name,type,out_num,filter_s,stride,relu_en,bias_en\n"+
		"Conv2d_1,separable_conv,16,3,1\n")

	_, err := LoadModel(path)
	if !errors.Is(err, dsperror.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestLoadModelSkipsBlankLines(t *testing.T) {
	path := writeTempFile(t, "model.txt", "header\n\nConv2d_1,separable_conv,16,3,1,true,true\n\n")

	layers, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if len(layers) != 1 {
		t.Errorf("got %d layers, want 1", len(layers))
	}
}
