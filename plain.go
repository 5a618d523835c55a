package eigenfaces

import (
	"fmt"

	gm "github.com/ontanj/generic-matrix"
)

// Plaintext cryptosystem: values are bare float64. It exists so the
// same engine code runs in the clear, for reference results and tests.

type Plain_encryption struct{}

func (pk Plain_encryption) Encrypt(plaintext float64) (Value, error) {
	return plaintext, nil
}

func (pk Plain_encryption) Add(a, b Value) (Value, error) {
	af, err := asFloat(a)
	if err != nil {
		return nil, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return nil, err
	}
	return af + bf, nil
}

func (pk Plain_encryption) AddConst(a Value, constant float64) (Value, error) {
	af, err := asFloat(a)
	if err != nil {
		return nil, err
	}
	return af + constant, nil
}

func (pk Plain_encryption) Multiply(a, b Value) (Value, error) {
	af, err := asFloat(a)
	if err != nil {
		return nil, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return nil, err
	}
	return af * bf, nil
}

func (pk Plain_encryption) Scale(a Value, factor float64) (Value, error) {
	return pk.Multiply(a, factor)
}

func (pk Plain_encryption) Negate(a Value) (Value, error) {
	return pk.Scale(a, -1)
}

func (pk Plain_encryption) EvaluationSpace() gm.Space {
	return Plain_eval_space{pk}
}

func asFloat(v Value) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("plaintext cryptosystem given %T value", v)
	}
	return f, nil
}

// secret key

type Plain_secret_key struct{}

func (sk Plain_secret_key) Decrypt(ciphertext Value) (float64, error) {
	return asFloat(ciphertext)
}

// evaluation space

type Plain_eval_space struct {
	Plain_encryption
}

func (pk Plain_eval_space) Add(a, b interface{}) (interface{}, error) {
	return pk.Plain_encryption.Add(a, b)
}

func (pk Plain_eval_space) Subtract(a, b interface{}) (diff interface{}, err error) {
	neg, err := pk.Plain_encryption.Negate(b)
	if err != nil {
		return nil, err
	}
	return pk.Add(a, neg)
}

func (pk Plain_eval_space) Multiply(a, b interface{}) (product interface{}, err error) {
	return pk.Plain_encryption.Multiply(a, b)
}

func (pk Plain_eval_space) Scale(a interface{}, factor interface{}) (product interface{}, err error) {
	f, err := asFloat(factor)
	if err != nil {
		return nil, err
	}
	return pk.Plain_encryption.Scale(a, f)
}

func (pk Plain_eval_space) Scalarspace() bool {
	return true
}

// SetupPlain returns the plaintext cryptosystem and its trivial secret
// key, mirroring the encrypted setup so drivers can switch modes.
func SetupPlain() (Plain_encryption, Plain_secret_key) {
	return Plain_encryption{}, Plain_secret_key{}
}
