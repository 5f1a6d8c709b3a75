// Package model_selection splits labeled data into train and test sets.
package model_selection

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// Split holds the two partitions of a TrainTestSplit together with the row
// indices they were drawn from.
type Split struct {
	XTrain       *mat.Dense
	XTest        *mat.Dense
	YTrain       *mat.VecDense
	YTest        *mat.VecDense
	TrainIndices []int
	TestIndices  []int
}

// TrainTestSplit partitions X and y into train and test sets that preserve
// the class proportions of y.
//
// The test set has ceil(testSize·n) rows. Each class receives its
// proportional share, with leftover rows going to the classes with the
// largest fractional shares. The rows of each class are shuffled with a PCG
// generator seeded by randomState, so equal inputs and seeds give equal
// splits.
//
// A DataError is returned when a class has fewer than two members, when the
// train or test set would be smaller than the number of classes, or when a
// class would end up with no train or no test rows.
func TrainTestSplit(X mat.Matrix, y mat.Vector, testSize float64, randomState int64) (*Split, error) {
	if !(testSize > 0 && testSize < 1) {
		return nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", testSize)
	}

	n, nFeatures := X.Dims()
	if y.Len() != n {
		return nil, errors.NewDimensionError("TrainTestSplit", n, y.Len(), 0)
	}
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "TrainTestSplit")
	}

	labels, members := groupByClass(y)
	for k, label := range labels {
		if len(members[k]) < 2 {
			return nil, errors.NewDataError("target", fmt.Sprintf(
				"class %v has %d member(s); stratified splitting needs at least 2", label, len(members[k])))
		}
	}

	nClasses := len(labels)
	// the epsilon keeps exact products such as 0.1·30 from rounding up
	nTest := int(math.Ceil(testSize*float64(n) - 1e-9))
	nTrain := n - nTest
	if nTest < nClasses || nTrain < nClasses {
		return nil, errors.NewDataError("test_size", fmt.Sprintf(
			"test_size=%v gives %d test and %d train rows for %d classes; each set needs at least one row per class",
			testSize, nTest, nTrain, nClasses))
	}

	counts := make([]int, nClasses)
	for k := range members {
		counts[k] = len(members[k])
	}
	alloc := allocate(counts, nTest)
	for k, a := range alloc {
		if a == 0 || a == counts[k] {
			return nil, errors.NewDataError("target", fmt.Sprintf(
				"class %v with %d member(s) would get %d test and %d train rows",
				labels[k], counts[k], a, counts[k]-a))
		}
	}

	rng := rand.New(rand.NewPCG(uint64(randomState), uint64(randomState)))
	testIdx := make([]int, 0, nTest)
	trainIdx := make([]int, 0, nTrain)
	for k, idx := range members {
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		testIdx = append(testIdx, idx[:alloc[k]]...)
		trainIdx = append(trainIdx, idx[alloc[k]:]...)
	}
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })

	XTrain, YTrain := extractSubset(X, y, trainIdx, nFeatures)
	XTest, YTest := extractSubset(X, y, testIdx, nFeatures)

	return &Split{
		XTrain:       XTrain,
		XTest:        XTest,
		YTrain:       YTrain,
		YTest:        YTest,
		TrainIndices: trainIdx,
		TestIndices:  testIdx,
	}, nil
}

// groupByClass returns the sorted distinct labels of y and the row indices
// of each label.
func groupByClass(y mat.Vector) ([]float64, [][]int) {
	byLabel := make(map[float64][]int)
	for i := 0; i < y.Len(); i++ {
		label := y.AtVec(i)
		byLabel[label] = append(byLabel[label], i)
	}

	labels := make([]float64, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	members := make([][]int, len(labels))
	for k, label := range labels {
		members[k] = byLabel[label]
	}
	return labels, members
}

// allocate distributes total rows over classes proportionally to counts
// using the largest remainder method. Ties go to the larger class, then to
// the earlier one.
func allocate(counts []int, total int) []int {
	n := 0
	for _, c := range counts {
		n += c
	}

	alloc := make([]int, len(counts))
	remainders := make([]float64, len(counts))
	assigned := 0
	for k, c := range counts {
		quota := float64(total) * float64(c) / float64(n)
		alloc[k] = int(math.Floor(quota))
		remainders[k] = quota - float64(alloc[k])
		assigned += alloc[k]
	}

	order := make([]int, len(counts))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := order[a], order[b]
		if remainders[ka] != remainders[kb] {
			return remainders[ka] > remainders[kb]
		}
		return counts[ka] > counts[kb]
	})

	for i := 0; assigned < total; i++ {
		alloc[order[i%len(order)]]++
		assigned++
	}
	return alloc
}

// extractSubset copies the given rows of X and y.
func extractSubset(X mat.Matrix, y mat.Vector, indices []int, nFeatures int) (*mat.Dense, *mat.VecDense) {
	xSubset := mat.NewDense(len(indices), nFeatures, nil)
	ySubset := mat.NewVecDense(len(indices), nil)

	row := make([]float64, nFeatures)
	for i, idx := range indices {
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(idx, j)
		}
		xSubset.SetRow(i, row)
		ySubset.SetVec(i, y.AtVec(idx))
	}

	return xSubset, ySubset
}
