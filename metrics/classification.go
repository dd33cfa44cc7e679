// Package metrics provides evaluation metrics for probabilistic
// classifiers. All functions take gonum vectors so predictions exported
// from a frame column can be scored directly.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

// epsClip bounds probabilities away from 0 and 1 before taking logs.
const epsClip = 1e-15

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, ftrlErrors.NewValueError(op, "input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, ftrlErrors.NewModelError(op, "input vectors cannot be empty", ftrlErrors.ErrEmptyData)
	}
	if n != yPred.Len() {
		return 0, ftrlErrors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// LogLoss computes the binary cross entropy between true labels (0 or 1)
// and predicted probabilities. Probabilities are clipped to
// [epsClip, 1-epsClip] so a confident miss stays finite.
func LogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("LogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, ftrlErrors.NewValueError("LogLoss",
				"true labels must be 0 or 1")
		}
		p := math.Min(math.Max(yPred.AtVec(i), epsClip), 1-epsClip)
		if y == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}

// Accuracy computes the fraction of correct predictions after
// thresholding probabilities at 0.5.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var correct int
	for i := 0; i < n; i++ {
		pred := 0.0
		if yPred.AtVec(i) >= 0.5 {
			pred = 1
		}
		if yTrue.AtVec(i) == pred {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AUC computes the area under the ROC curve for binary labels and
// predicted scores. Tied scores contribute half a rank, so the result
// matches the Mann-Whitney statistic.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	type pair struct {
		score float64
		label float64
	}
	pairs := make([]pair, n)
	var pos, neg int
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, ftrlErrors.NewValueError("AUC", "true labels must be 0 or 1")
		}
		pairs[i] = pair{score: yPred.AtVec(i), label: y}
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, ftrlErrors.NewValueError("AUC",
			"both classes must be present to compute AUC")
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })

	// rank sum of positives with midranks for ties
	var rankSum float64
	i := 0
	for i < n {
		j := i
		for j < n && pairs[j].score == pairs[i].score {
			j++
		}
		midrank := float64(i+j+1) / 2 // average of 1-based ranks i+1 .. j
		for k := i; k < j; k++ {
			if pairs[k].label == 1 {
				rankSum += midrank
			}
		}
		i = j
	}

	p := float64(pos)
	return (rankSum - p*(p+1)/2) / (p * float64(neg)), nil
}
