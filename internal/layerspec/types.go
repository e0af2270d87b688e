// Package layerspec expands a textual layer list, under a model's
// stage-repetition topology, into a flat, fully-resolved list of layer
// instances ready for cost modeling.
package layerspec

// Topology groups the raw layer list into a feature-extractor ("VGG")
// stage followed by two two-branch refinement stages, each repeated a
// fixed number of times.
type Topology struct {
	VGGLayers    int
	Stage1Layers int
	Stage1Iter   int
	Stage2Layers int
	Stage2Iter   int
}

// ExpandedLayerCount returns VGG_LAYERS + 2*STAGE1_LAYERS*STAGE1_ITER +
// 2*STAGE2_LAYERS*STAGE2_ITER, the factor of 2 encoding the two-branch
// refinement pattern of each stage.
func (t Topology) ExpandedLayerCount() int {
	return t.VGGLayers + 2*t.Stage1Layers*t.Stage1Iter + 2*t.Stage2Layers*t.Stage2Iter
}

// RawLayer is one line of the textual model description:
// name,type,out_num,filter_s,stride,relu_en,bias_en.
type RawLayer struct {
	Name     string
	Type     string // separable_conv | convb | max_pool
	OutNum   int
	FilterS  int
	Stride   int
	ReLUEn   bool
	BiasEn   bool
}

// Spec is one expanded layer instance with fully resolved shapes and
// capability flags.
type Spec struct {
	Name string

	LayerInNum    int
	LayerOutNum   int
	LayerInH      int
	LayerInW      int
	LayerFilterS1 int
	LayerFilterS2 int
	LayerStride   int

	DepthConvEn bool
	PointConvEn bool
	BiasEn      bool
	MaxPoolEn   bool
}

// Handle is a captured layer output: channel count and spatial
// dimensions, keyed by layer name, used to resolve later concat/skip
// input sites.
type Handle struct {
	OutNum int
	OutH   int
	OutW   int
}

// SkipTable maps captured layer names to their output handle.
type SkipTable map[string]Handle
