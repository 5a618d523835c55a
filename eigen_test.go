package eigenfaces

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// symmetric positive-definite matrix with eigenvalues 6, 3, 1, built
// as H·diag(6,3,1)·H with the Householder reflection H = I - (2/3)·J
func spdTestMatrix() (Matrix, []float64) {
	eigenvalues := []float64{6, 3, 1}
	n := 3
	h := make([][]float64, n)
	for i := range h {
		h[i] = make([]float64, n)
		for j := range h[i] {
			h[i][j] = -2.0 / 3.0
		}
		h[i][i] += 1
	}
	c := make([]Value, n*n)
	for i := 0; i < n; i += 1 {
		for j := 0; j < n; j += 1 {
			sum := 0.0
			for k := 0; k < n; k += 1 {
				sum += h[i][k] * eigenvalues[k] * h[k][j]
			}
			c[i*n+j] = sum
		}
	}
	return NewMatrix(n, n, c), eigenvalues
}

func TestPowerEigen(t *testing.T) {
	setting := plainSetting().WithIterations(1, 30, 60)
	C, expected := spdTestMatrix()
	trace := C.At(0, 0).(float64) + C.At(1, 1).(float64) + C.At(2, 2).(float64)

	lambdas, W, err := PowerEigen(C, setting)
	require.NoError(t, err)
	require.Len(t, lambdas, 3)
	require.Equal(t, 3, W.Rows())

	t.Run("eigenvalues in descending order", func(t *testing.T) {
		sum := 0.0
		for i, l := range lambdas {
			require.InDelta(t, expected[i], l.(float64), 1e-6)
			if i > 0 {
				require.Less(t, l.(float64), lambdas[i-1].(float64))
			}
			sum += l.(float64)
		}
		require.InDelta(t, trace, sum, 1e-6)
	})

	t.Run("dominant eigenvector", func(t *testing.T) {
		w := W.Row(0)
		cw, err := MatVecMul(C, w, setting)
		require.NoError(t, err)
		for i := range w {
			require.InDelta(t, lambdas[0].(float64)*w[i].(float64), cw[i].(float64), 1e-5)
		}
	})
}

func TestPowerEigenValidation(t *testing.T) {
	setting := plainSetting()
	t.Run("empty", func(t *testing.T) {
		_, _, err := PowerEigen(Matrix{}, setting)
		require.ErrorIs(t, err, ErrEmptyInput)
	})
	t.Run("not square", func(t *testing.T) {
		_, _, err := PowerEigen(NewMatrix(2, 3, nil), setting)
		require.ErrorContains(t, err, "dimension mismatch")
	})
	t.Run("no iterations", func(t *testing.T) {
		_, _, err := PowerEigen(NewMatrix(2, 2, nil), setting.WithIterations(1, 30, 0))
		require.Error(t, err)
	})
}
