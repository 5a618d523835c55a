package eigenfaces

import (
	"fmt"
)

// PowerEigen extracts all n eigenpairs of the n×n covariance matrix C
// with power iteration and deflation. The candidate vector starts as
// all-ones: randomness cannot be drawn inside the encrypted domain
// without another oracle call, and determinism keeps the depth cost
// computable in advance. The iteration count per eigenpair is fixed
// and small, since every iteration costs a matrix-vector product, a
// norm and a division, each with reencryptions.
//
// After the fixed iterations, the ratio of the final iterate's first
// entry to the snapshot taken one iteration earlier corrects the sign
// and scale flips the truncation can introduce; both the eigenvalue
// and eigenvector are scaled by it. This is a workaround for very low
// iteration counts, not a general eigensolver guarantee: with few
// iterations or an ill-conditioned matrix the pairs are approximate,
// and the iteration count should be raised through the setting when
// accuracy matters more than depth cost.
//
// Eigenpairs are returned in extraction order, which is approximately
// descending magnitude. Eigenvectors are the rows of the returned
// matrix.
func PowerEigen(C Matrix, setting Setting) (Vector, Matrix, error) {
	if C.rows == 0 {
		return nil, Matrix{}, fmt.Errorf("eigen-decomposition: %w", ErrEmptyInput)
	}
	if C.rows != C.cols {
		return nil, Matrix{}, shapeError("eigen-decomposition", C.rows, C.cols)
	}
	if setting.power_iterations < 1 {
		return nil, Matrix{}, fmt.Errorf("eigen-decomposition: iteration count %d < 1", setting.power_iterations)
	}
	n := C.rows
	lambdas := make(Vector, 0, n)
	W := NewMatrix(n, n, nil)
	for e := 0; e < n; e += 1 {
		var w_old Value = float64(1)
		x := make(Vector, n)
		for i := range x {
			x[i] = float64(1)
		}
		nrm, err := VecNorm(x, setting)
		if err != nil {
			return nil, Matrix{}, err
		}
		w, err := VecDiv(x, nrm, setting)
		if err != nil {
			return nil, Matrix{}, err
		}
		var lambda Value
		for j := 0; j < setting.power_iterations; j += 1 {
			x, err = MatVecMul(C, w, setting)
			if err != nil {
				return nil, Matrix{}, err
			}
			lambda, err = VecNorm(x, setting)
			if err != nil {
				return nil, Matrix{}, err
			}
			w, err = VecDiv(x, lambda, setting)
			if err != nil {
				return nil, Matrix{}, err
			}
			if j+2 == setting.power_iterations {
				w_old = w[0]
			}
		}
		dividend, err := Divide(w[0], w_old, setting)
		if err != nil {
			return nil, Matrix{}, err
		}
		lambda, err = setting.cs.Multiply(dividend, lambda)
		if err != nil {
			return nil, Matrix{}, err
		}
		w, err = VecScale(w, dividend, setting)
		if err != nil {
			return nil, Matrix{}, err
		}
		lambdas = append(lambdas, lambda)
		for j := range w {
			W.Set(e, j, w[j])
		}
		// deflate: C += -lambda * w wᵀ
		neg_lambda, err := setting.cs.Negate(lambda)
		if err != nil {
			return nil, Matrix{}, err
		}
		scaled, err := VecScale(w, neg_lambda, setting)
		if err != nil {
			return nil, Matrix{}, err
		}
		outer, err := OuterProduct(scaled, w, setting)
		if err != nil {
			return nil, Matrix{}, err
		}
		C, err = MatAdd(C, outer, setting)
		if err != nil {
			return nil, Matrix{}, err
		}
	}
	return lambdas, W, nil
}
