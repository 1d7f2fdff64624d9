// Package learn provides the probabilistic classifiers behind outcome prediction.
package learn

import (
	"math"
	"sort"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrEmptyTrainingSet = crerr.New("empty training set")
	ErrShapeMismatch    = crerr.New("feature rows and labels differ in shape")
	ErrNotFitted        = crerr.New("classifier is not fitted")
)

// Classifier produces class probabilities for a feature row.
// PredictProba returns one probability per entry of Classes, summing to 1.
type Classifier interface {
	Fit(X [][]float64, y []string) error
	PredictProba(x []float64) []float64
	Classes() []string
}

// Factory returns a fresh, unfitted classifier.
type Factory func() Classifier

// Predict returns the most probable class and its probability.
// Ties resolve to the earlier class.
func Predict(c Classifier, x []float64) (string, float64) {
	classes := c.Classes()
	if len(classes) == 0 {
		return "", 0
	}
	proba := c.PredictProba(x)
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return classes[best], proba[best]
}

func validateTrainingSet(X [][]float64, y []string) (int, error) {
	if len(X) == 0 || len(y) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return 0, crerr.Wrapf(ErrShapeMismatch, "rows=%d labels=%d", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return 0, crerr.Wrapf(ErrShapeMismatch, "row %d has %d columns, want %d", i, len(row), width)
		}
	}
	return width, nil
}

// uniqueClasses returns the distinct labels sorted lexicographically.
func uniqueClasses(y []string) []string {
	seen := make(map[string]struct{}, 4)
	out := make([]string, 0, 4)
	for _, label := range y {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

func encodeLabels(y []string, classes []string) []int {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	out := make([]int, len(y))
	for i, label := range y {
		out[i] = index[label]
	}
	return out
}

func classPriors(labels []int, k int) []float64 {
	out := make([]float64, k)
	for _, l := range labels {
		out[l]++
	}
	normalize(out)
	return out
}

// normalize rescales p in place to sum to 1, or to uniform when it cannot.
func normalize(p []float64) {
	var sum float64
	for _, v := range p {
		if v > 0 && !math.IsInf(v, 0) {
			sum += v
		}
	}
	if sum <= 0 || math.IsNaN(sum) {
		for i := range p {
			p[i] = 1 / float64(len(p))
		}
		return
	}
	for i, v := range p {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			p[i] = 0
			continue
		}
		p[i] = v / sum
	}
}

// alignProba maps c's probabilities onto classes; classes c never saw get 0.
func alignProba(c Classifier, x []float64, classes []string) []float64 {
	out := make([]float64, len(classes))
	local := c.Classes()
	proba := c.PredictProba(x)
	for i, name := range local {
		for j, target := range classes {
			if target == name {
				out[j] = proba[i]
				break
			}
		}
	}
	return out
}

// constant always predicts a single class with certainty.
type constant struct {
	class string
}

func (c *constant) Fit(_ [][]float64, y []string) error {
	if len(y) == 0 {
		return ErrEmptyTrainingSet
	}
	c.class = y[0]
	return nil
}

func (c *constant) PredictProba(_ []float64) []float64 {
	return []float64{1}
}

func (c *constant) Classes() []string {
	return []string{c.class}
}
