package eigenfaces

import (
	gm "github.com/ontanj/generic-matrix"
)

// A Value is a scalar handled by a Cryptosystem: either a plaintext
// float64 or a backend-specific ciphertext handle. Plaintext constants
// (counts, 2, 0.5, -1) stay float64 even when the surrounding
// computation is encrypted.
type Value interface{}

// A Cryptosystem provides the arithmetic the computation engine may
// perform on its own: addition and multiplication, with no division,
// comparison or square root. Operands may mix ciphertext and
// plaintext; two plaintexts give a plaintext result.
type Cryptosystem interface {
	Encrypt(plaintext float64) (Value, error)
	Add(a, b Value) (Value, error)
	AddConst(a Value, constant float64) (Value, error)
	Multiply(a, b Value) (Value, error)
	Scale(a Value, factor float64) (Value, error)
	Negate(a Value) (Value, error)
	EvaluationSpace() gm.Space
}

// A Secret_key decrypts values of the matching Cryptosystem. Only the
// key holder has one; the computation engine works against
// Cryptosystem and Oracle alone.
type Secret_key interface {
	Decrypt(ciphertext Value) (float64, error)
}
