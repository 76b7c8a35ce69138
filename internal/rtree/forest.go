package rtree

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForestOptions configure a bagged ensemble of regression trees.
type ForestOptions struct {
	// Trees is the ensemble size.
	Trees int

	// MinLeaf is the minimum number of samples per leaf.
	MinLeaf int

	// MaxFeatures is the number of features tried per split;
	// 0 means ceil(p/3), the regression-forest convention.
	MaxFeatures int

	// MaxDepth caps each tree's depth; 0 means unlimited.
	MaxDepth int

	// Seed derives every tree's private source as Seed+treeIndex, so fits
	// reproduce regardless of goroutine scheduling.
	Seed uint64

	// Parallelism bounds concurrent tree fits; 0 means GOMAXPROCS.
	Parallelism int
}

// Forest is a bagged ensemble of regression trees predicting by averaging.
type Forest struct {
	trees []*Tree
}

// FitForest grows an ensemble on x (n rows of p features) and y. Each tree
// sees a bootstrap sample of the rows and a random feature subset per split.
func FitForest(x [][]float64, y []float64, optFns ...func(o *ForestOptions)) (*Forest, error) {
	opts := ForestOptions{
		Trees:   100,
		MinLeaf: 5,
		Seed:    1,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	n := len(x)
	if n == 0 {
		return nil, errors.New("rtree: empty training data")
	}
	if len(y) != n {
		return nil, fmt.Errorf("rtree: %d rows, %d responses", n, len(y))
	}
	if opts.Trees <= 0 {
		return nil, fmt.Errorf("rtree: tree count must be positive, got %d", opts.Trees)
	}

	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Ceil(float64(len(x[0])) / 3))
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	f := &Forest{trees: make([]*Tree, opts.Trees)}

	var g errgroup.Group
	g.SetLimit(parallelism)

	for i := range opts.Trees {
		g.Go(func() error {
			seed := opts.Seed + uint64(i)
			rng := rand.New(rand.NewPCG(seed, seed))

			idx := make([]int, n)
			for j := range idx {
				idx[j] = rng.IntN(n)
			}

			f.trees[i] = Fit(x, y, idx, rng, func(o *Options) {
				o.MinLeaf = opts.MinLeaf
				o.MaxFeatures = maxFeatures
				o.MaxDepth = opts.MaxDepth
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return f, nil
}

// Predict returns the ensemble mean for one feature vector.
func (f *Forest) Predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.trees))
}

// Trees returns the ensemble size.
func (f *Forest) Trees() int {
	return len(f.trees)
}
