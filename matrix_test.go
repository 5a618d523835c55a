package eigenfaces

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func plainValues(data []float64) []Value {
	values := make([]Value, len(data))
	for i, f := range data {
		values[i] = f
	}
	return values
}

func plainVector(data []float64) Vector {
	return Vector(plainValues(data))
}

func TestNewMatrix(t *testing.T) {
	m := NewMatrix(2, 3, nil)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Equal(t, float64(0), m.At(1, 2))
	require.Panics(t, func() { NewMatrix(2, 2, plainValues([]float64{1, 2, 3})) })
	require.Panics(t, func() { m.At(2, 0) })
}

func TestTranspose(t *testing.T) {
	m := NewMatrix(2, 3, plainValues([]float64{1, 2, 3, 4, 5, 6}))
	mt := Transpose(m)
	require.Equal(t, 3, mt.Rows())
	require.Equal(t, 2, mt.Cols())
	require.Equal(t, float64(2), mt.At(1, 0))
	require.Equal(t, float64(6), mt.At(2, 1))
}

func TestMatMul(t *testing.T) {
	setting := plainSetting()
	a := NewMatrix(2, 3, plainValues([]float64{1, 2, 3, 4, 5, 6}))
	b := NewMatrix(3, 2, plainValues([]float64{7, 8, 9, 10, 11, 12}))
	c, err := MatMul(a, b, setting)
	require.NoError(t, err)
	expected := [][]float64{{58, 64}, {139, 154}}
	for i := 0; i < 2; i += 1 {
		for j := 0; j < 2; j += 1 {
			require.InDelta(t, expected[i][j], c.At(i, j).(float64), 1e-9)
		}
	}
	t.Run("incompatible", func(t *testing.T) {
		_, err := MatMul(a, a, setting)
		require.ErrorContains(t, err, "dimension mismatch")
	})
	t.Run("zero width", func(t *testing.T) {
		_, err := MatMul(NewMatrix(2, 0, nil), NewMatrix(0, 3, nil), setting)
		require.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestMatVecMul(t *testing.T) {
	setting := plainSetting()
	m := NewMatrix(2, 2, plainValues([]float64{1, 2, 3, 4}))
	v := plainVector([]float64{5, 6})
	res, err := MatVecMul(m, v, setting)
	require.NoError(t, err)
	require.InDelta(t, 17, res[0].(float64), 1e-9)
	require.InDelta(t, 39, res[1].(float64), 1e-9)
	t.Run("incompatible", func(t *testing.T) {
		_, err := MatVecMul(m, plainVector([]float64{1}), setting)
		require.ErrorContains(t, err, "dimension mismatch")
	})
	t.Run("zero width", func(t *testing.T) {
		_, err := MatVecMul(NewMatrix(2, 0, nil), Vector{}, setting)
		require.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestOuterProduct(t *testing.T) {
	setting := plainSetting()
	u := plainVector([]float64{1, 2})
	v := plainVector([]float64{3, 4, 5})
	m, err := OuterProduct(u, v, setting)
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.InDelta(t, 10, m.At(1, 2).(float64), 1e-9)
}

func TestVecNorm(t *testing.T) {
	setting := plainSetting()
	n, err := VecNorm(plainVector([]float64{3, 4}), setting)
	require.NoError(t, err)
	require.InDelta(t, 5, n.(float64), 1e-6)

	t.Run("zero vector", func(t *testing.T) {
		n, err := VecNorm(plainVector([]float64{0, 0, 0}), setting)
		require.NoError(t, err)
		require.Equal(t, float64(0), n.(float64))
	})
	t.Run("empty", func(t *testing.T) {
		_, err := VecNorm(Vector{}, setting)
		require.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestVectorMean(t *testing.T) {
	setting := plainSetting()
	m := NewMatrix(3, 2, plainValues([]float64{1, 10, 2, 20, 3, 30}))
	mean, err := VectorMean(m, setting)
	require.NoError(t, err)
	require.InDelta(t, 2, mean[0].(float64), 1e-6)
	require.InDelta(t, 20, mean[1].(float64), 1e-6)

	t.Run("empty", func(t *testing.T) {
		_, err := VectorMean(Matrix{}, setting)
		require.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestEuclideanDistance(t *testing.T) {
	setting := plainSetting()
	d, err := EuclideanDistance(plainVector([]float64{0, 0}), plainVector([]float64{3, 4}), setting)
	require.NoError(t, err)
	require.InDelta(t, 5, d.(float64), 1e-6)

	t.Run("mismatched", func(t *testing.T) {
		_, err := EuclideanDistance(plainVector([]float64{1}), plainVector([]float64{1, 2}), setting)
		require.ErrorContains(t, err, "dimension mismatch")
	})
}

func TestPlainEvaluationSpace(t *testing.T) {
	cs, _ := SetupPlain()
	space := cs.EvaluationSpace()
	require.True(t, space.Scalarspace())
	sum, err := space.Add(2.0, 3.0)
	require.NoError(t, err)
	require.Equal(t, 5.0, sum)
	diff, err := space.Subtract(2.0, 3.0)
	require.NoError(t, err)
	require.Equal(t, -1.0, diff)
	prod, err := space.Multiply(2.0, 3.0)
	require.NoError(t, err)
	require.Equal(t, 6.0, prod)
	scaled, err := space.Scale(2.0, 4.0)
	require.NoError(t, err)
	require.Equal(t, 8.0, scaled)
}
