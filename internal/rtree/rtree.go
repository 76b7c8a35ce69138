// Package rtree implements the bagged regression trees behind the
// random-forest imputation strategy.
//
// Trees are CART-style: binary numeric splits chosen to minimize the summed
// squared error of the two children, leaves predicting the mean response of
// their samples.
package rtree

import (
	"math/rand/v2"
	"sort"
)

// Options configure a single regression tree.
type Options struct {
	// MinLeaf is the minimum number of samples in each leaf.
	MinLeaf int

	// MaxFeatures is the number of features tried per split; 0 means all.
	MaxFeatures int

	// MaxDepth caps the tree depth; 0 means unlimited.
	MaxDepth int
}

type node struct {
	feature   int
	threshold float64 // x[feature] <= threshold goes left
	left      *node
	right     *node

	leaf  bool
	value float64
}

// Tree is a single regression tree.
type Tree struct {
	opts Options
	root *node
}

// Fit grows a tree on the observations selected by idx (indices into x and
// y, repeats allowed for bootstrap samples). rng drives the per-split
// feature subsampling.
func Fit(x [][]float64, y []float64, idx []int, rng *rand.Rand, optFns ...func(o *Options)) *Tree {
	opts := Options{
		MinLeaf: 1,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MinLeaf < 1 {
		opts.MinLeaf = 1
	}

	t := &Tree{opts: opts}
	t.root = t.build(x, y, idx, 0, rng)
	return t
}

// Predict returns the tree's prediction for one feature vector.
func (t *Tree) Predict(x []float64) float64 {
	n := t.root
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func (t *Tree) build(x [][]float64, y []float64, idx []int, depth int, rng *rand.Rand) *node {
	mean, sse := meanSSE(y, idx)

	if sse == 0 || len(idx) < 2*t.opts.MinLeaf {
		return &node{leaf: true, value: mean}
	}
	if t.opts.MaxDepth > 0 && depth >= t.opts.MaxDepth {
		return &node{leaf: true, value: mean}
	}

	p := len(x[0])
	features := t.sampleFeatures(p, rng)

	best := split{gain: 0, feature: -1}
	for _, f := range features {
		if s := t.bestSplitForFeature(x, y, idx, f, sse); s.gain > best.gain {
			best = s
		}
	}

	if best.feature < 0 {
		return &node{leaf: true, value: mean}
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if x[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      t.build(x, y, left, depth+1, rng),
		right:     t.build(x, y, right, depth+1, rng),
	}
}

// sampleFeatures returns the feature indices to try at one split: all of
// them, or a random subset of MaxFeatures via partial Fisher-Yates.
func (t *Tree) sampleFeatures(p int, rng *rand.Rand) []int {
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}

	if t.opts.MaxFeatures <= 0 || t.opts.MaxFeatures >= p {
		return features
	}

	for i := 0; i < t.opts.MaxFeatures; i++ {
		j := i + rng.IntN(p-i)
		features[i], features[j] = features[j], features[i]
	}
	return features[:t.opts.MaxFeatures]
}

type split struct {
	gain      float64
	feature   int
	threshold float64
}

// bestSplitForFeature scans the sorted values of one feature and returns the
// threshold with the largest SSE reduction, honoring MinLeaf on both sides.
func (t *Tree) bestSplitForFeature(x [][]float64, y []float64, idx []int, f int, parentSSE float64) split {
	pairs := make([]valueTarget, len(idx))
	for k, i := range idx {
		pairs[k] = valueTarget{v: x[i][f], y: y[i]}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

	var totalSum, totalSumSq float64
	for _, p := range pairs {
		totalSum += p.y
		totalSumSq += p.y * p.y
	}

	best := split{gain: 0, feature: -1}

	var leftSum, leftSumSq float64
	n := len(pairs)
	for s := 1; s < n; s++ {
		leftSum += pairs[s-1].y
		leftSumSq += pairs[s-1].y * pairs[s-1].y

		if pairs[s].v == pairs[s-1].v {
			continue
		}
		if s < t.opts.MinLeaf || n-s < t.opts.MinLeaf {
			continue
		}

		leftN := float64(s)
		rightN := float64(n - s)
		leftSSE := leftSumSq - leftSum*leftSum/leftN
		rightSum := totalSum - leftSum
		rightSSE := (totalSumSq - leftSumSq) - rightSum*rightSum/rightN

		if gain := parentSSE - leftSSE - rightSSE; gain > best.gain {
			best = split{
				gain:      gain,
				feature:   f,
				threshold: (pairs[s-1].v + pairs[s].v) / 2,
			}
		}
	}

	return best
}

type valueTarget struct {
	v float64
	y float64
}

func meanSSE(y []float64, idx []int) (mean, sse float64) {
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	mean = sum / n
	sse = sumSq - sum*sum/n
	if sse < 0 {
		sse = 0 // rounding
	}
	return mean, sse
}
