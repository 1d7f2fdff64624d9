package learn

import (
	"fmt"
	"math"

	"github.com/sajari/regression"
	"gonum.org/v1/gonum/stat"
)

// LinearOVR fits one least-squares model per class on a 0/1 target and
// reads the clipped, renormalised scores as probabilities.
type LinearOVR struct {
	classes []string
	active  []int
	models  []*regression.Regression
	priors  []float64
}

func NewLinearOVR() *LinearOVR {
	return &LinearOVR{}
}

func (m *LinearOVR) Fit(X [][]float64, y []string) error {
	width, err := validateTrainingSet(X, y)
	if err != nil {
		return err
	}

	m.classes = uniqueClasses(y)
	labels := encodeLabels(y, m.classes)
	m.priors = classPriors(labels, len(m.classes))
	m.active = nonConstantColumns(X, width)
	m.models = make([]*regression.Regression, len(m.classes))

	// A least-squares system needs more rows than unknowns.
	if len(m.active) == 0 || len(X) <= len(m.active)+1 {
		return nil
	}

	for c, class := range m.classes {
		r := new(regression.Regression)
		r.SetObserved(class)
		for i, column := range m.active {
			r.SetVar(i, fmt.Sprintf("x%d", column))
		}
		for i, row := range X {
			target := 0.0
			if labels[i] == c {
				target = 1
			}
			r.Train(regression.DataPoint(target, m.project(row)))
		}
		if err := r.Run(); err != nil {
			// Singular system: this class falls back to its prior.
			continue
		}
		m.models[c] = r
	}

	return nil
}

func (m *LinearOVR) PredictProba(x []float64) []float64 {
	out := make([]float64, len(m.classes))
	projected := m.project(x)
	for c, r := range m.models {
		if r == nil {
			out[c] = m.priors[c]
			continue
		}
		score, err := r.Predict(projected)
		if err != nil || math.IsNaN(score) {
			out[c] = m.priors[c]
			continue
		}
		out[c] = math.Min(1, math.Max(0, score))
	}

	normalize(out)
	return out
}

func (m *LinearOVR) Classes() []string {
	return m.classes
}

func (m *LinearOVR) project(row []float64) []float64 {
	out := make([]float64, len(m.active))
	for i, column := range m.active {
		out[i] = row[column]
	}
	return out
}

func nonConstantColumns(X [][]float64, width int) []int {
	out := make([]int, 0, width)
	column := make([]float64, len(X))
	for j := 0; j < width; j++ {
		for i := range X {
			column[i] = X[i][j]
		}
		if stat.PopVariance(column, nil) > 1e-12 {
			out = append(out, j)
		}
	}
	return out
}
