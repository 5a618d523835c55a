package eigenfaces

import (
	"errors"
	"fmt"
)

// A Vector is an ordered sequence of values: a flattened image, an
// eigenvector or a projection, depending on context.
type Vector []Value

// A Matrix stores its values row-major: images as rows for training
// sets, eigenvectors as rows for the component basis.
type Matrix struct {
	values     []Value
	rows, cols int
}

// Create a new 0-indexed Matrix with the given size and data. A nil
// data slice gives an all-zero matrix. Panics if size and data
// mismatch.
func NewMatrix(rows, cols int, data []Value) Matrix {
	if data == nil {
		data = make([]Value, rows*cols)
		for i := range data {
			data[i] = float64(0)
		}
	} else if rows*cols != len(data) {
		panic(errors.New("data structure not matching matrix size"))
	}
	var m Matrix
	m.values = data
	m.rows = rows
	m.cols = cols
	return m
}

func (m Matrix) Rows() int {
	return m.rows
}

func (m Matrix) Cols() int {
	return m.cols
}

// get value of Matrix m at (row, col)
func (m Matrix) At(row, col int) Value {
	if row >= m.rows || col >= m.cols || row < 0 || col < 0 {
		panic(fmt.Errorf("index out of bounds: (%d, %d)", row, col))
	}
	return m.values[m.cols*row+col]
}

// set value of Matrix m at (row, col)
func (m Matrix) Set(row, col int, value Value) {
	if row >= m.rows || col >= m.cols || row < 0 || col < 0 {
		panic(fmt.Errorf("index out of bounds: (%d, %d)", row, col))
	}
	m.values[m.cols*row+col] = value
}

// Row returns a copy of row i.
func (m Matrix) Row(i int) Vector {
	row := make(Vector, m.cols)
	copy(row, m.values[m.cols*i:m.cols*(i+1)])
	return row
}

func Transpose(m Matrix) Matrix {
	t := NewMatrix(m.cols, m.rows, nil)
	for i := 0; i < m.rows; i += 1 {
		for j := 0; j < m.cols; j += 1 {
			t.Set(j, i, m.At(i, j))
		}
	}
	return t
}

// element-wise matrix addition
func MatAdd(a, b Matrix, setting Setting) (Matrix, error) {
	if a.rows != b.rows {
		return Matrix{}, shapeError("matrix addition rows", a.rows, b.rows)
	}
	if a.cols != b.cols {
		return Matrix{}, shapeError("matrix addition columns", a.cols, b.cols)
	}
	values := make([]Value, len(a.values))
	for i := range values {
		sum, err := setting.cs.Add(a.values[i], b.values[i])
		if err != nil {
			return Matrix{}, err
		}
		values[i] = sum
	}
	return NewMatrix(a.rows, a.cols, values), nil
}

// MatMul multiplies a and b. Every scalar product costs one depth unit;
// the result is reencrypted once before being handed back, so the
// accumulated depth is capped regardless of dimension.
func MatMul(a, b Matrix, setting Setting) (Matrix, error) {
	if a.rows == 0 || a.cols == 0 || b.cols == 0 {
		return Matrix{}, fmt.Errorf("matrix multiplication: %w", ErrEmptyInput)
	}
	if a.cols != b.rows {
		return Matrix{}, shapeError("matrix multiplication", a.cols, b.rows)
	}
	values := make([]Value, a.rows*b.cols)
	for i := 0; i < a.rows; i += 1 {
		for j := 0; j < b.cols; j += 1 {
			sum, err := setting.cs.Multiply(a.At(i, 0), b.At(0, j))
			if err != nil {
				return Matrix{}, err
			}
			for k := 1; k < a.cols; k += 1 {
				prod, err := setting.cs.Multiply(a.At(i, k), b.At(k, j))
				if err != nil {
					return Matrix{}, err
				}
				sum, err = setting.cs.Add(sum, prod)
				if err != nil {
					return Matrix{}, err
				}
			}
			values[i*b.cols+j] = sum
		}
	}
	return setting.oracle.ReencryptMatrix(NewMatrix(a.rows, b.cols, values))
}

// MatVecMul multiplies matrix m with vector v; the result is
// reencrypted once.
func MatVecMul(m Matrix, v Vector, setting Setting) (Vector, error) {
	if m.rows == 0 || m.cols == 0 {
		return nil, fmt.Errorf("matrix-vector multiplication: %w", ErrEmptyInput)
	}
	if m.cols != len(v) {
		return nil, shapeError("matrix-vector multiplication", m.cols, len(v))
	}
	res := make(Vector, m.rows)
	for i := 0; i < m.rows; i += 1 {
		sum, err := setting.cs.Multiply(m.At(i, 0), v[0])
		if err != nil {
			return nil, err
		}
		for j := 1; j < m.cols; j += 1 {
			prod, err := setting.cs.Multiply(m.At(i, j), v[j])
			if err != nil {
				return nil, err
			}
			sum, err = setting.cs.Add(sum, prod)
			if err != nil {
				return nil, err
			}
		}
		res[i] = sum
	}
	return setting.oracle.ReencryptVector(res)
}

// element-wise vector addition
func VecAdd(u, v Vector, setting Setting) (Vector, error) {
	if len(u) != len(v) {
		return nil, shapeError("vector addition", len(u), len(v))
	}
	res := make(Vector, len(u))
	for i := range u {
		sum, err := setting.cs.Add(u[i], v[i])
		if err != nil {
			return nil, err
		}
		res[i] = sum
	}
	return res, nil
}

// VecScale multiplies every entry of v with x; the result is
// reencrypted once.
func VecScale(v Vector, x Value, setting Setting) (Vector, error) {
	res := make(Vector, len(v))
	for i := range v {
		prod, err := setting.cs.Multiply(v[i], x)
		if err != nil {
			return nil, err
		}
		res[i] = prod
	}
	return setting.oracle.ReencryptVector(res)
}

// VecNeg negates every entry of v. Negation is exact and costs no
// depth, so no reencryption is needed.
func VecNeg(v Vector, setting Setting) (Vector, error) {
	res := make(Vector, len(v))
	for i := range v {
		neg, err := setting.cs.Negate(v[i])
		if err != nil {
			return nil, err
		}
		res[i] = neg
	}
	return res, nil
}

// OuterProduct computes u vᵀ, used for deflating the covariance
// matrix; the result is reencrypted once.
func OuterProduct(u, v Vector, setting Setting) (Matrix, error) {
	if len(u) == 0 || len(v) == 0 {
		return Matrix{}, fmt.Errorf("outer product: %w", ErrEmptyInput)
	}
	values := make([]Value, len(u)*len(v))
	for i := range u {
		for j := range v {
			prod, err := setting.cs.Multiply(u[i], v[j])
			if err != nil {
				return Matrix{}, err
			}
			values[i*len(v)+j] = prod
		}
	}
	return setting.oracle.ReencryptMatrix(NewMatrix(len(u), len(v), values))
}

// VecNorm computes the length of v as the square root of the sum of
// squared entries.
func VecNorm(v Vector, setting Setting) (Value, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("norm: %w", ErrEmptyInput)
	}
	sum, err := setting.cs.Multiply(v[0], v[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(v); i += 1 {
		sq, err := setting.cs.Multiply(v[i], v[i])
		if err != nil {
			return nil, err
		}
		sum, err = setting.cs.Add(sum, sq)
		if err != nil {
			return nil, err
		}
	}
	return Sqrt(sum, setting)
}

// VecDiv divides every entry of v with the value d.
func VecDiv(v Vector, d Value, setting Setting) (Vector, error) {
	res := make(Vector, len(v))
	for i := range v {
		q, err := Divide(v[i], d, setting)
		if err != nil {
			return nil, err
		}
		res[i] = q
	}
	return res, nil
}

// VectorMean sums the rows of m element-wise and divides by the row
// count. The count is plaintext, so the reciprocal never needs an
// encrypted seed and each entry costs a single scalar multiplication.
func VectorMean(m Matrix, setting Setting) (Vector, error) {
	if m.rows == 0 || m.cols == 0 {
		return nil, fmt.Errorf("vector mean: %w", ErrEmptyInput)
	}
	sum := m.Row(0)
	var err error
	for i := 1; i < m.rows; i += 1 {
		sum, err = VecAdd(sum, m.Row(i), setting)
		if err != nil {
			return nil, err
		}
	}
	dividend, err := Divide(float64(1), float64(m.rows), setting)
	if err != nil {
		return nil, err
	}
	mean := make(Vector, m.cols)
	for i := range sum {
		mean[i], err = setting.cs.Multiply(sum[i], dividend)
		if err != nil {
			return nil, err
		}
	}
	return setting.oracle.ReencryptVector(mean)
}

// EuclideanDistance computes the distance between points p and q from
// add/multiply primitives and the square-root engine.
func EuclideanDistance(p, q Vector, setting Setting) (Value, error) {
	if len(p) != len(q) {
		return nil, shapeError("euclidean distance", len(p), len(q))
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("euclidean distance: %w", ErrEmptyInput)
	}
	var sum Value
	for i := range p {
		neg, err := setting.cs.Negate(q[i])
		if err != nil {
			return nil, err
		}
		diff, err := setting.cs.Add(p[i], neg)
		if err != nil {
			return nil, err
		}
		sq, err := setting.cs.Multiply(diff, diff)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = sq
		} else {
			sum, err = setting.cs.Add(sum, sq)
			if err != nil {
				return nil, err
			}
		}
	}
	return Sqrt(sum, setting)
}
