package learn

import (
	"math/rand/v2"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/iter"
)

// Estimator is a named base learner of a stacked ensemble.
type Estimator struct {
	Name string
	New  Factory
}

type StackingConfig struct {
	Folds   int
	Workers int
	Seed    uint64
}

// Stacking trains Final on out-of-fold probabilities of the base estimators,
// then refits every base estimator on the full training set.
type Stacking struct {
	estimators []Estimator
	final      Factory
	cfg        StackingConfig

	classes   []string
	fitted    []Classifier
	finalFit  Classifier
	usedFolds int
}

func NewStacking(estimators []Estimator, final Factory, cfg StackingConfig) *Stacking {
	if cfg.Folds < 2 {
		cfg.Folds = 5
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Stacking{
		estimators: estimators,
		final:      final,
		cfg:        cfg,
	}
}

func (s *Stacking) Fit(X [][]float64, y []string) error {
	if _, err := validateTrainingSet(X, y); err != nil {
		return err
	}
	if len(s.estimators) == 0 || s.final == nil {
		return crerr.New("stacking needs base estimators and a final estimator")
	}

	s.classes = uniqueClasses(y)
	if len(s.classes) == 1 {
		only := &constant{}
		_ = only.Fit(X, y)
		s.fitted = nil
		s.finalFit = only
		s.usedFolds = 0
		return nil
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return crerr.Wrap(err, "create stacking worker pool")
	}
	defer pool.Release()

	meta, folds, err := s.outOfFold(pool, X, y)
	if err != nil {
		return err
	}

	fitted := make([]Classifier, len(s.estimators))
	err = runTasks(pool, len(s.estimators), func(e int) error {
		model := s.estimators[e].New()
		if err := model.Fit(X, y); err != nil {
			return crerr.Wrapf(err, "fit estimator %s", s.estimators[e].Name)
		}
		fitted[e] = model
		return nil
	})
	if err != nil {
		return err
	}
	s.fitted = fitted

	// Without folds the meta rows come from the refitted estimators.
	if folds < 2 {
		meta = iter.Map(X, func(row *[]float64) []float64 {
			return s.metaRow(*row)
		})
	}

	final := s.final()
	if err := final.Fit(meta, y); err != nil {
		return crerr.Wrap(err, "fit final estimator")
	}
	s.finalFit = final
	s.usedFolds = folds

	return nil
}

func (s *Stacking) PredictProba(x []float64) []float64 {
	if s.finalFit == nil {
		out := make([]float64, len(s.classes))
		normalize(out)
		return out
	}
	if len(s.fitted) == 0 {
		return alignProba(s.finalFit, x, s.classes)
	}
	return alignProba(s.finalFit, s.metaRow(x), s.classes)
}

func (s *Stacking) Classes() []string {
	return s.classes
}

// Folds reports how many cross-validation folds produced the meta features.
// Zero means the meta learner saw in-sample predictions or a single class.
func (s *Stacking) Folds() int {
	return s.usedFolds
}

func (s *Stacking) metaRow(x []float64) []float64 {
	k := len(s.classes)
	out := make([]float64, 0, k*len(s.fitted))
	for _, model := range s.fitted {
		out = append(out, alignProba(model, x, s.classes)...)
	}
	return out
}

func (s *Stacking) outOfFold(pool *ants.Pool, X [][]float64, y []string) ([][]float64, int, error) {
	k := len(s.classes)
	meta := make([][]float64, len(X))
	for i := range meta {
		meta[i] = make([]float64, k*len(s.estimators))
	}

	folds := min(s.cfg.Folds, smallestClass(y))
	if folds < 2 {
		return meta, 0, nil
	}
	assignment := stratifiedFolds(y, folds, s.cfg.Seed)

	tasks := folds * len(s.estimators)
	err := runTasks(pool, tasks, func(task int) error {
		fold := task / len(s.estimators)
		e := task % len(s.estimators)

		trainX := make([][]float64, 0, len(X))
		trainY := make([]string, 0, len(X))
		for i := range X {
			if assignment[i] != fold {
				trainX = append(trainX, X[i])
				trainY = append(trainY, y[i])
			}
		}

		model := s.estimators[e].New()
		if err := model.Fit(trainX, trainY); err != nil {
			return crerr.Wrapf(err, "fit estimator %s on fold %d", s.estimators[e].Name, fold)
		}
		for i := range X {
			if assignment[i] != fold {
				continue
			}
			copy(meta[i][e*k:(e+1)*k], alignProba(model, X[i], s.classes))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return meta, folds, nil
}

// stratifiedFolds deals each class's shuffled rows round-robin across folds.
func stratifiedFolds(y []string, folds int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, uint64(folds)))
	byClass := make(map[string][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	out := make([]int, len(y))
	next := 0
	for _, class := range uniqueClasses(y) {
		rows := byClass[class]
		rng.Shuffle(len(rows), func(i, j int) {
			rows[i], rows[j] = rows[j], rows[i]
		})
		for _, row := range rows {
			out[row] = next % folds
			next++
		}
	}
	return out
}

func smallestClass(y []string) int {
	counts := make(map[string]int)
	for _, label := range y {
		counts[label]++
	}
	smallest := len(y)
	for _, c := range counts {
		smallest = min(smallest, c)
	}
	return smallest
}

// runTasks executes fn(0..n-1) on the pool and returns the first error.
func runTasks(pool *ants.Pool, n int, fn func(int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := fn(i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return crerr.Wrap(err, "submit task to worker pool")
		}
	}

	wg.Wait()
	return firstErr
}
