package scorer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/crimson-sun/langdetect/internal/model"
)

const (
	// ModelFile and TokensFile are the files LoadONNX expects in the model directory.
	ModelFile  = "model.onnx"
	TokensFile = "tokens.txt"

	defaultLibName = "libonnxruntime.so"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

type onnxOptions struct {
	libPath   string
	maxSeqLen int
	intraOp   int
	interOp   int
}

// ONNXOption configures LoadONNX.
type ONNXOption func(*onnxOptions)

// WithSharedLibrary sets the ONNX Runtime shared library path. Default:
// libonnxruntime.so inside the model directory.
func WithSharedLibrary(path string) ONNXOption {
	return func(o *onnxOptions) { o.libPath = path }
}

// WithMaxSeqLen caps the input length for models with a dynamic sequence axis.
func WithMaxSeqLen(n int) ONNXOption {
	return func(o *onnxOptions) { o.maxSeqLen = n }
}

// WithThreads sets intra-op and inter-op thread counts.
func WithThreads(intra, inter int) ONNXOption {
	return func(o *onnxOptions) {
		o.intraOp = intra
		o.interOp = inter
	}
}

// ONNX scores batches with a character-level classifier exported to ONNX.
// The model takes int64 token ids [batch, seq] and emits float32 scores
// [batch, labels].
type ONNX struct {
	session    *ort.DynamicAdvancedSession
	tokens     *tokenVocab
	inputName  string
	outputName string
	fixedLen   int
	maxSeqLen  int
	outDim     int64
}

// LoadONNX loads model.onnx and tokens.txt from dir. A missing directory,
// missing files, or a model whose shapes do not fit are reported as
// model.ConfigurationError.
func LoadONNX(dir string, opts ...ONNXOption) (*ONNX, error) {
	const op = "load model"

	o := onnxOptions{maxSeqLen: defaultMaxSeqLen, intraOp: 4, interOp: 1}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: err}
	}
	if !info.IsDir() {
		return nil, model.Configf(op, "%s is not a directory", dir)
	}

	modelPath := filepath.Join(dir, ModelFile)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: err}
	}
	tokens, err := loadTokens(filepath.Join(dir, TokensFile))
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: err}
	}

	libPath := o.libPath
	if libPath == "" {
		libPath = filepath.Join(dir, defaultLibName)
	}
	if err := initORT(libPath); err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: fmt.Errorf("onnx: failed to initialize runtime: %w", err)}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: fmt.Errorf("onnx: failed to read model info: %w", err)}
	}
	in, err := selectInput(inputs)
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: err}
	}
	out, err := selectOutput(outputs)
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: err}
	}

	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: fmt.Errorf("onnx: failed to create session options: %w", err)}
	}
	defer sessOpts.Destroy()
	sessOpts.SetIntraOpNumThreads(o.intraOp)
	sessOpts.SetInterOpNumThreads(o.interOp)

	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{in.Name}, []string{out.Name}, sessOpts)
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: fmt.Errorf("onnx: failed to create session: %w", err)}
	}

	fixedLen := 0
	if in.Dimensions[1] > 0 {
		fixedLen = int(in.Dimensions[1])
	}
	return &ONNX{
		session:    session,
		tokens:     tokens,
		inputName:  in.Name,
		outputName: out.Name,
		fixedLen:   fixedLen,
		maxSeqLen:  o.maxSeqLen,
		outDim:     out.Dimensions[1],
	}, nil
}

// selectInput expects a single 2D input [batch, seq] whose batch axis is
// dynamic, since a whole batch goes through one Run call.
func selectInput(inputs []ort.InputOutputInfo) (ort.InputOutputInfo, error) {
	if len(inputs) != 1 {
		return ort.InputOutputInfo{}, fmt.Errorf("onnx: expected 1 model input, got %d", len(inputs))
	}
	in := inputs[0]
	if len(in.Dimensions) != 2 {
		return ort.InputOutputInfo{}, fmt.Errorf("onnx: expected 2D input tensor, got %v", in.Dimensions)
	}
	if in.Dimensions[0] > 0 {
		return ort.InputOutputInfo{}, fmt.Errorf("onnx: input %q has a fixed batch dimension of %d", in.Name, in.Dimensions[0])
	}
	return in, nil
}

// selectOutput prefers an output named "logits", else the only output. The
// label axis must be static since it is checked against the vocabulary.
func selectOutput(outputs []ort.InputOutputInfo) (ort.InputOutputInfo, error) {
	var out *ort.InputOutputInfo
	for i := range outputs {
		if strings.EqualFold(outputs[i].Name, "logits") {
			out = &outputs[i]
			break
		}
	}
	if out == nil {
		if len(outputs) != 1 {
			return ort.InputOutputInfo{}, fmt.Errorf("onnx: expected 1 output or one named logits, got %d", len(outputs))
		}
		out = &outputs[0]
	}
	if len(out.Dimensions) != 2 {
		return ort.InputOutputInfo{}, fmt.Errorf("onnx: expected 2D output tensor, got %v", out.Dimensions)
	}
	if out.Dimensions[0] > 0 {
		return ort.InputOutputInfo{}, fmt.Errorf("onnx: output %q has a fixed batch dimension of %d", out.Name, out.Dimensions[0])
	}
	if out.Dimensions[1] <= 0 {
		return ort.InputOutputInfo{}, fmt.Errorf("onnx: output %q has a dynamic label dimension", out.Name)
	}
	return *out, nil
}

// OutputDim returns the number of labels the model scores.
func (s *ONNX) OutputDim() int {
	return int(s.outDim)
}

// Score runs a single inference over the whole batch.
func (s *ONNX) Score(_ context.Context, batch []string) ([][]float64, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	enc := s.tokens.encode(batch, s.fixedLen, s.maxSeqLen)

	tIDs, err := ort.NewTensor(ort.NewShape(enc.batchSize, enc.seqLen), enc.ids)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create %s tensor: %w", s.inputName, err)
	}
	defer tIDs.Destroy()

	tOut, err := ort.NewEmptyTensor[float32](ort.NewShape(enc.batchSize, s.outDim))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := s.session.Run([]ort.Value{tIDs}, []ort.Value{tOut}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	return unflatten(tOut.GetData(), int(enc.batchSize), int(s.outDim)), nil
}

// unflatten copies a flat [rows * dim] float32 output into float64 rows.
func unflatten(data []float32, rows, dim int) [][]float64 {
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := make([]float64, dim)
		for d := 0; d < dim; d++ {
			row[d] = float64(data[r*dim+d])
		}
		out[r] = row
	}
	return out
}

// Close releases the ONNX session resources.
func (s *ONNX) Close() error {
	return s.session.Destroy()
}
