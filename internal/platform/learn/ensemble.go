package learn

// EnsembleConfig sizes the default stacked ensemble.
type EnsembleConfig struct {
	Seed    uint64 // fold assignment

	Trees   int
	Folds   int
	Workers int
}

// NewEnsemble stacks a random forest, a Gaussian naive Bayes and a linear
// one-vs-rest model under a logistic meta learner.
func NewEnsemble(cfg EnsembleConfig) *Stacking {
	forest := ForestConfig{
		Trees:          cfg.Trees,
		MinSamplesLeaf: 1,
	}

	estimators := []Estimator{
		{Name: "rf", New: func() Classifier { return NewRandomForest(forest) }},
		{Name: "gnb", New: func() Classifier { return NewGaussianNB() }},
		{Name: "linear", New: func() Classifier { return NewLinearOVR() }},
	}
	final := func() Classifier {
		return NewLogisticRegression(DefaultLogisticConfig())
	}

	return NewStacking(estimators, final, StackingConfig{
		Folds:   cfg.Folds,
		Workers: cfg.Workers,
		Seed:    cfg.Seed,
	})
}
