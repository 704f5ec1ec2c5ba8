package forest

import (
	"math/rand"
	"sort"
)

// regTree is a CART-style regression tree. Splits minimize the summed
// squared error of the target; leaves predict the mean target value.
type regTree struct {
	maxDepth            int // 0 => no limit
	minSamplesSplit     int
	minSamplesLeaf      int
	maxFeatures         int // 0 => all features
	minImpurityDecrease float64
	seed                int64

	root *node

	// importance accumulates per-feature impurity decrease during Fit.
	importance []float64
}

// node holds one tree node.
type node struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *node
	right     *node

	n     int
	value float64 // mean target of the samples reaching this leaf
}

// valuePair carries one sample's feature value and its row index.
type valuePair struct {
	v float64
	i int
}

// fit trains the tree on the rows of X selected by idx.
func (t *regTree) fit(X [][]float64, y []float64, idx []int) {
	p := len(X[0])
	t.importance = make([]float64, p)
	rnd := rand.New(rand.NewSource(t.seed)) //nolint:gosec // deterministic tree seeding
	t.root = t.buildNode(X, y, idx, 0, p, rnd)
}

func (t *regTree) buildNode(X [][]float64, y []float64, idx []int, depth, p int, rnd *rand.Rand) *node {
	nd := &node{n: len(idx), value: meanAt(y, idx)}

	if len(idx) < t.minSamplesSplit || (t.maxDepth > 0 && depth >= t.maxDepth) {
		nd.isLeaf = true
		return nd
	}

	parentSSE := sseAt(y, idx, nd.value)
	if parentSSE == 0 {
		// Constant target, nothing to split on.
		nd.isLeaf = true
		return nd
	}

	featIndices := make([]int, p)
	for j := 0; j < p; j++ {
		featIndices[j] = j
	}
	if t.maxFeatures > 0 && t.maxFeatures < p {
		rnd.Shuffle(p, func(a, b int) {
			featIndices[a], featIndices[b] = featIndices[b], featIndices[a]
		})
		featIndices = featIndices[:t.maxFeatures]
	}

	best := splitResult{feature: -1}
	for _, f := range featIndices {
		if r := t.bestSplitForFeature(X, y, idx, f, parentSSE); r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}

	if best.feature < 0 || best.gain <= t.minImpurityDecrease {
		nd.isLeaf = true
		return nd
	}

	t.importance[best.feature] += best.gain

	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.left = t.buildNode(X, y, best.leftIdx, depth+1, p, rnd)
	nd.right = t.buildNode(X, y, best.rightIdx, depth+1, p, rnd)
	return nd
}

// splitResult holds the best split found for one feature.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

// bestSplitForFeature scans thresholds between distinct sorted values and
// keeps the split with the largest SSE reduction.
func (t *regTree) bestSplitForFeature(X [][]float64, y []float64, idx []int, f int, parentSSE float64) splitResult {
	result := splitResult{feature: -1}

	pairs := make([]valuePair, 0, len(idx))
	for _, ii := range idx {
		pairs = append(pairs, valuePair{X[ii][f], ii})
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

	// Prefix sums over the sorted order let each candidate split be scored
	// in O(1).
	n := len(pairs)
	prefixSum := make([]float64, n+1)
	prefixSumSq := make([]float64, n+1)
	for i, pr := range pairs {
		v := y[pr.i]
		prefixSum[i+1] = prefixSum[i] + v
		prefixSumSq[i+1] = prefixSumSq[i] + v*v
	}
	sseRange := func(lo, hi int) float64 { // [lo, hi)
		cnt := float64(hi - lo)
		if cnt == 0 {
			return 0
		}
		sum := prefixSum[hi] - prefixSum[lo]
		sumSq := prefixSumSq[hi] - prefixSumSq[lo]
		return sumSq - sum*sum/cnt
	}

	for s := 1; s < n; s++ {
		if pairs[s].v == pairs[s-1].v {
			continue
		}
		if s < t.minSamplesLeaf || n-s < t.minSamplesLeaf {
			continue
		}
		gain := parentSSE - sseRange(0, s) - sseRange(s, n)
		if gain > result.gain {
			result = splitResult{
				gain:      gain,
				feature:   f,
				threshold: (pairs[s-1].v + pairs[s].v) / 2,
			}
			result.leftIdx = indicesOf(pairs[:s])
			result.rightIdx = indicesOf(pairs[s:])
		}
	}
	return result
}

// predict walks the tree for a single row.
func (t *regTree) predict(x []float64) float64 {
	nd := t.root
	for !nd.isLeaf {
		if x[nd.feature] <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd.value
}

func indicesOf(pairs []valuePair) []int {
	out := make([]int, len(pairs))
	for i, pr := range pairs {
		out[i] = pr.i
	}
	return out
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sseAt(y []float64, idx []int, mean float64) float64 {
	sse := 0.0
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return sse
}
