package learn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

type LogisticConfig struct {
	C         float64 // inverse L2 strength
	MaxIter   int
	Tolerance float64 // gradient norm at which LBFGS stops
}

func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{
		C:         1.0,
		MaxIter:   500,
		Tolerance: 1e-6,
	}
}

// LogisticRegression is a multinomial (softmax) logistic model on
// standardised inputs, fitted with gonum's LBFGS.
type LogisticRegression struct {
	cfg     LogisticConfig
	classes []string
	mean    []float64
	scale   []float64
	weights [][]float64 // per class: bias followed by one weight per feature
}

func NewLogisticRegression(cfg LogisticConfig) *LogisticRegression {
	defaults := DefaultLogisticConfig()
	if cfg.C <= 0 {
		cfg.C = defaults.C
	}
	if cfg.MaxIter < 1 {
		cfg.MaxIter = defaults.MaxIter
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaults.Tolerance
	}
	return &LogisticRegression{cfg: cfg}
}

func (m *LogisticRegression) Fit(X [][]float64, y []string) error {
	width, err := validateTrainingSet(X, y)
	if err != nil {
		return err
	}

	m.classes = uniqueClasses(y)
	labels := encodeLabels(y, m.classes)
	k := len(m.classes)

	m.mean = make([]float64, width)
	m.scale = make([]float64, width)
	column := make([]float64, len(X))
	for j := 0; j < width; j++ {
		for i := range X {
			column[i] = X[i][j]
		}
		mean, variance := stat.PopMeanVariance(column, nil)
		m.mean[j] = mean
		m.scale[j] = 1
		if variance > 1e-12 {
			m.scale[j] = math.Sqrt(variance)
		}
	}

	rows := make([][]float64, len(X))
	for i, row := range X {
		rows[i] = m.standardize(row)
	}

	obj := softmaxObjective{rows: rows, labels: labels, k: k, stride: width + 1, c: m.cfg.C}
	problem := optimize.Problem{Func: obj.loss, Grad: obj.grad}
	settings := &optimize.Settings{
		GradientThreshold: m.cfg.Tolerance,
		MajorIterations:   m.cfg.MaxIter,
	}

	result, err := optimize.Minimize(problem, make([]float64, k*obj.stride), settings, &optimize.LBFGS{})
	if result == nil {
		return fmt.Errorf("minimise softmax loss: %w", err)
	}
	// A line search that stalls near the optimum still leaves the best
	// location found in result.X.
	if !floats.HasNaN(result.X) {
		m.setWeights(result.X, k, obj.stride)
		return nil
	}
	if err == nil {
		err = fmt.Errorf("status %v", result.Status)
	}
	return fmt.Errorf("minimise softmax loss: %w", err)
}

func (m *LogisticRegression) setWeights(params []float64, k, stride int) {
	m.weights = make([][]float64, k)
	for c := range m.weights {
		m.weights[c] = append([]float64(nil), params[c*stride:(c+1)*stride]...)
	}
}

func (m *LogisticRegression) PredictProba(x []float64) []float64 {
	out := make([]float64, len(m.classes))
	if len(m.weights) == 0 {
		normalize(out)
		return out
	}
	softmax(m.weights, m.standardize(x), out)
	return out
}

func (m *LogisticRegression) Classes() []string {
	return m.classes
}

func (m *LogisticRegression) standardize(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, value := range row {
		out[j] = (value - m.mean[j]) / m.scale[j]
	}
	return out
}

func softmax(weights [][]float64, row []float64, out []float64) {
	for c, w := range weights {
		out[c] = w[0] + floats.Dot(w[1:], row)
	}
	norm := floats.LogSumExp(out)
	for c := range out {
		out[c] = math.Exp(out[c] - norm)
	}
}

// softmaxObjective is the mean cross-entropy plus an L2 penalty on the
// non-bias weights, over a flat parameter vector of k blocks of stride.
type softmaxObjective struct {
	rows   [][]float64
	labels []int
	k      int
	stride int
	c      float64
}

func (o softmaxObjective) blocks(params []float64) [][]float64 {
	out := make([][]float64, o.k)
	for c := range out {
		out[c] = params[c*o.stride : (c+1)*o.stride]
	}
	return out
}

func (o softmaxObjective) loss(params []float64) float64 {
	weights := o.blocks(params)
	n := float64(len(o.rows))
	logits := make([]float64, o.k)

	var total float64
	for i, row := range o.rows {
		for c, w := range weights {
			logits[c] = w[0] + floats.Dot(w[1:], row)
		}
		total += floats.LogSumExp(logits) - logits[o.labels[i]]
	}

	var penalty float64
	for _, w := range weights {
		penalty += floats.Dot(w[1:], w[1:])
	}
	return total/n + penalty/(2*o.c*n)
}

func (o softmaxObjective) grad(grad, params []float64) {
	weights := o.blocks(params)
	grads := o.blocks(grad)
	n := float64(len(o.rows))
	proba := make([]float64, o.k)

	for i := range grad {
		grad[i] = 0
	}
	for i, row := range o.rows {
		softmax(weights, row, proba)
		for c := 0; c < o.k; c++ {
			residual := proba[c]
			if o.labels[i] == c {
				residual--
			}
			grads[c][0] += residual
			floats.AddScaled(grads[c][1:], residual, row)
		}
	}
	for c := range grads {
		floats.Scale(1/n, grads[c])
		floats.AddScaled(grads[c][1:], 1/(o.c*n), weights[c][1:])
	}
}
