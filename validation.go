package gpcgo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NRMSD returns, per column, the root-mean-square deviation between
// reference and predicted normalised by the range of the reference column:
//
//	sqrt(mean((predicted - reference)²)) / (max(reference) - min(reference))
//
// A constant reference column yields 0 for a perfect match and +Inf
// otherwise.
func NRMSD(reference, predicted mat.Matrix) ([]float64, error) {
	r, c := reference.Dims()
	pr, pc := predicted.Dims()
	if r != pr {
		return nil, shapeErr("predicted", 0, r, pr)
	}
	if c != pc {
		return nil, shapeErr("predicted", 1, c, pc)
	}
	if r == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrShapeMismatch)
	}

	ref := make([]float64, r)
	pred := make([]float64, r)
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		mat.Col(ref, j, reference)
		mat.Col(pred, j, predicted)

		rmsd := floats.Distance(pred, ref, 2) / math.Sqrt(float64(r))
		span := floats.Max(ref) - floats.Min(ref)
		switch {
		case span > 0:
			out[j] = rmsd / span
		case rmsd == 0:
			out[j] = 0
		default:
			out[j] = math.Inf(1)
		}
	}
	return out, nil
}
