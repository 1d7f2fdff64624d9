package learn

import (
	"math"

	randomforest "github.com/malaschitz/randomForest"
)

type ForestConfig struct {
	Trees          int
	MaxDepth       int // 0 keeps the library default of 10
	MinSamplesLeaf int
	MaxFeatures    int // 0 uses sqrt(features)
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:          100,
		MinSamplesLeaf: 1,
	}
}

// RandomForest adapts a malaschitz/randomForest Gini forest to the
// string-labelled Classifier interface. Bootstrap draws come from the
// library's shared math/rand source, so two fits may differ slightly.
type RandomForest struct {
	cfg     ForestConfig
	classes []string
	forest  *randomforest.Forest
}

func NewRandomForest(cfg ForestConfig) *RandomForest {
	defaults := DefaultForestConfig()
	if cfg.Trees < 1 {
		cfg.Trees = defaults.Trees
	}
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = defaults.MinSamplesLeaf
	}
	return &RandomForest{cfg: cfg}
}

func (f *RandomForest) Fit(X [][]float64, y []string) error {
	width, err := validateTrainingSet(X, y)
	if err != nil {
		return err
	}

	f.classes = uniqueClasses(y)
	maxFeatures := f.cfg.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > width {
		maxFeatures = max(1, int(math.Sqrt(float64(width))))
	}

	rows := make([][]float64, len(X))
	for i, row := range X {
		rows[i] = append([]float64(nil), row...)
	}

	forest := &randomforest.Forest{
		Data: randomforest.ForestData{
			X:     rows,
			Class: encodeLabels(y, f.classes),
		},
		LeafSize:  f.cfg.MinSamplesLeaf,
		MFeatures: maxFeatures,
		MaxDepth:  f.cfg.MaxDepth,
	}
	forest.Train(f.cfg.Trees)
	f.forest = forest

	return nil
}

// PredictProba averages leaf class frequencies across trees. Empty leaves
// vote nothing, so the sum is renormalised.
func (f *RandomForest) PredictProba(x []float64) []float64 {
	out := make([]float64, len(f.classes))
	if f.forest == nil {
		normalize(out)
		return out
	}
	copy(out, f.forest.Vote(x))
	normalize(out)
	return out
}

func (f *RandomForest) Classes() []string {
	return f.classes
}
