package eigenfaces

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// DefaultVarianceThreshold is the share of eigenvalue mass the
// selected components must capture.
const DefaultVarianceThreshold = 0.99

// The KeyHolder owns the secret key and is the only party that can
// decrypt. It implements the Oracle interface for the computation
// engine (reciprocal seeding, argmin, component count, reencryption)
// and performs bulk encryption and decryption of input matrices. With
// the plaintext cryptosystem every oracle call degenerates to plain
// arithmetic and Reencrypt to the identity.
type KeyHolder struct {
	cs                 Cryptosystem
	sk                 Secret_key
	variance_threshold float64
}

func NewKeyHolder(cs Cryptosystem, sk Secret_key) *KeyHolder {
	return &KeyHolder{cs: cs, sk: sk, variance_threshold: DefaultVarianceThreshold}
}

func (kh *KeyHolder) SetVarianceThreshold(threshold float64) {
	kh.variance_threshold = threshold
}

// GoldschmidtInit returns the reciprocal of b: exact for plaintext b,
// decrypt-invert-reencrypt for encrypted b. A zero denominator seeds
// zero (the pseudo-inverse), which keeps the square root of zero at
// zero instead of propagating infinities.
func (kh *KeyHolder) GoldschmidtInit(b Value) (Value, error) {
	if f, ok := b.(float64); ok {
		if f == 0 {
			return float64(0), nil
		}
		return 1 / f, nil
	}
	f, err := kh.sk.Decrypt(b)
	if err != nil {
		return nil, err
	}
	if f == 0 {
		return kh.cs.Encrypt(0)
	}
	return kh.cs.Encrypt(1 / f)
}

// MinimumIndex decrypts the distance list and returns the position of
// the minimum.
func (kh *KeyHolder) MinimumIndex(distances []Value) (int, error) {
	if len(distances) == 0 {
		return 0, fmt.Errorf("minimum index: %w", ErrEmptyInput)
	}
	index := 0
	min, err := kh.sk.Decrypt(distances[0])
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(distances); i += 1 {
		d, err := kh.sk.Decrypt(distances[i])
		if err != nil {
			return 0, err
		}
		if d < min {
			min = d
			index = i
		}
	}
	return index, nil
}

// ComponentCount decrypts the eigenvalues and returns the smallest
// number of leading components whose cumulative normalized sum exceeds
// the variance threshold, or all of them if the threshold is never
// crossed.
func (kh *KeyHolder) ComponentCount(eigenvalues []Value) (int, error) {
	if len(eigenvalues) == 0 {
		return 0, fmt.Errorf("component count: %w", ErrEmptyInput)
	}
	lambdas := make([]float64, len(eigenvalues))
	var err error
	for i, l := range eigenvalues {
		lambdas[i], err = kh.sk.Decrypt(l)
		if err != nil {
			return 0, err
		}
	}
	total, err := stats.Sum(lambdas)
	if err != nil {
		return 0, err
	}
	cumulative, err := stats.CumulativeSum(lambdas)
	if err != nil {
		return 0, err
	}
	for i, c := range cumulative {
		if c/total > kh.variance_threshold {
			return i + 1, nil
		}
	}
	return len(lambdas), nil
}

// Reencrypt decrypts and re-encrypts v, restoring its full
// multiplicative depth. Plaintext values pass through unchanged.
func (kh *KeyHolder) Reencrypt(v Value) (Value, error) {
	if f, ok := v.(float64); ok {
		return f, nil
	}
	f, err := kh.sk.Decrypt(v)
	if err != nil {
		return nil, err
	}
	return kh.cs.Encrypt(f)
}

func (kh *KeyHolder) ReencryptVector(v Vector) (Vector, error) {
	res := make(Vector, len(v))
	var err error
	for i := range v {
		res[i], err = kh.Reencrypt(v[i])
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (kh *KeyHolder) ReencryptMatrix(m Matrix) (Matrix, error) {
	values := make([]Value, len(m.values))
	var err error
	for i := range m.values {
		values[i], err = kh.Reencrypt(m.values[i])
		if err != nil {
			return Matrix{}, err
		}
	}
	return NewMatrix(m.rows, m.cols, values), nil
}

// EncryptVector encrypts every entry of a plaintext vector.
func (kh *KeyHolder) EncryptVector(v []float64) (Vector, error) {
	res := make(Vector, len(v))
	var err error
	for i, f := range v {
		res[i], err = kh.cs.Encrypt(f)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// EncryptMatrix encrypts a plaintext matrix row-wise. All rows must
// have equal length.
func (kh *KeyHolder) EncryptMatrix(m [][]float64) (Matrix, error) {
	if len(m) == 0 {
		return Matrix{}, fmt.Errorf("encrypt matrix: %w", ErrEmptyInput)
	}
	cols := len(m[0])
	values := make([]Value, 0, len(m)*cols)
	for _, row := range m {
		if len(row) != cols {
			return Matrix{}, shapeError("encrypt matrix", cols, len(row))
		}
		enc, err := kh.EncryptVector(row)
		if err != nil {
			return Matrix{}, err
		}
		values = append(values, enc...)
	}
	return NewMatrix(len(m), cols, values), nil
}

// DecryptVector decrypts every entry of a vector.
func (kh *KeyHolder) DecryptVector(v Vector) ([]float64, error) {
	res := make([]float64, len(v))
	var err error
	for i := range v {
		res[i], err = kh.sk.Decrypt(v[i])
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// DecryptMatrix decrypts a matrix row-wise.
func (kh *KeyHolder) DecryptMatrix(m Matrix) ([][]float64, error) {
	res := make([][]float64, m.rows)
	var err error
	for i := 0; i < m.rows; i += 1 {
		res[i], err = kh.DecryptVector(m.Row(i))
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
