package learn

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GaussianNB models every feature as an independent normal per class.
type GaussianNB struct {
	// VarSmoothing is added to every variance as a share of the largest one.
	VarSmoothing float64

	classes   []string
	logPriors []float64
	means     [][]float64
	variances [][]float64
}

func NewGaussianNB() *GaussianNB {
	return &GaussianNB{VarSmoothing: 1e-9}
}

func (m *GaussianNB) Fit(X [][]float64, y []string) error {
	width, err := validateTrainingSet(X, y)
	if err != nil {
		return err
	}

	m.classes = uniqueClasses(y)
	labels := encodeLabels(y, m.classes)
	k := len(m.classes)

	priors := classPriors(labels, k)
	m.logPriors = make([]float64, k)
	for i, p := range priors {
		m.logPriors[i] = math.Log(p)
	}

	var largest float64
	for j := 0; j < width; j++ {
		column := make([]float64, len(X))
		for i := range X {
			column[i] = X[i][j]
		}
		largest = math.Max(largest, stat.PopVariance(column, nil))
	}
	epsilon := m.VarSmoothing * largest
	if epsilon <= 0 {
		epsilon = 1e-9
	}

	m.means = make([][]float64, k)
	m.variances = make([][]float64, k)
	for c := 0; c < k; c++ {
		m.means[c] = make([]float64, width)
		m.variances[c] = make([]float64, width)
		for j := 0; j < width; j++ {
			column := make([]float64, 0, len(X))
			for i := range X {
				if labels[i] == c {
					column = append(column, X[i][j])
				}
			}
			mean, variance := stat.PopMeanVariance(column, nil)
			m.means[c][j] = mean
			m.variances[c][j] = variance + epsilon
		}
	}

	return nil
}

func (m *GaussianNB) PredictProba(x []float64) []float64 {
	k := len(m.classes)
	logJoint := make([]float64, k)
	for c := 0; c < k; c++ {
		ll := m.logPriors[c]
		for j, value := range x {
			variance := m.variances[c][j]
			diff := value - m.means[c][j]
			ll += -0.5*math.Log(2*math.Pi*variance) - diff*diff/(2*variance)
		}
		logJoint[c] = ll
	}

	norm := floats.LogSumExp(logJoint)
	out := make([]float64, k)
	for c, ll := range logJoint {
		out[c] = math.Exp(ll - norm)
	}
	normalize(out)
	return out
}

func (m *GaussianNB) Classes() []string {
	return m.classes
}
