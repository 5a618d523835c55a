package eigenfaces

import (
	"fmt"

	gm "github.com/ontanj/generic-matrix"
	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/he/hefloat"
)

// CKKS cryptosystem over lattigo. One ciphertext per scalar, value in
// slot 0. Every ciphertext-ciphertext multiplication is relinearized
// and rescaled, so the remaining multiplicative depth of a value is the
// level of its ciphertext; the key holder's reencryption restores it to
// the top of the modulus chain. A multiplication attempted below level
// 1 fails inside lattigo, which is treated as fatal: the engines are
// expected to reencrypt before that point is ever reached.

// DefaultCKKSParams: ring degree 2^15, coefficient chain 60/40/40/40
// with a 60-bit auxiliary prime and scale 2^40, giving multiplicative
// depth 3 between reencryptions.
var DefaultCKKSParams = hefloat.ParametersLiteral{
	LogN:            15,
	LogQ:            []int{60, 40, 40, 40},
	LogP:            []int{60},
	LogDefaultScale: 40,
}

type CKKS_encryption struct {
	params    hefloat.Parameters
	encoder   *hefloat.Encoder
	encryptor *rlwe.Encryptor
	evaluator *hefloat.Evaluator
}

type CKKS_ciphertext struct {
	msg *rlwe.Ciphertext
}

// Depth reports the number of multiplications the ciphertext can still
// absorb before it must be reencrypted.
func (c CKKS_ciphertext) Depth() int {
	return c.msg.Level()
}

// SetupCKKS generates the encryption context: parameters, key pair and
// relinearization key. The returned CKKS_encryption carries no secret
// material and is handed to the computation engine; the secret key
// stays with the key holder.
func SetupCKKS(paramsLit hefloat.ParametersLiteral) (CKKS_encryption, CKKS_secret_key, error) {
	params, err := hefloat.NewParametersFromLiteral(paramsLit)
	if err != nil {
		return CKKS_encryption{}, CKKS_secret_key{}, err
	}
	kgen := hefloat.NewKeyGenerator(params)
	sk, pk := kgen.GenKeyPairNew()
	rlk := kgen.GenRelinearizationKeyNew(sk)
	evk := rlwe.NewMemEvaluationKeySet(rlk)
	encoder := hefloat.NewEncoder(params)
	pub := CKKS_encryption{
		params:    params,
		encoder:   encoder,
		encryptor: hefloat.NewEncryptor(params, pk),
		evaluator: hefloat.NewEvaluator(params, evk),
	}
	sec := CKKS_secret_key{
		params:    params,
		encoder:   encoder,
		decryptor: hefloat.NewDecryptor(params, sk),
	}
	return pub, sec, nil
}

func (pk CKKS_encryption) Encrypt(plaintext float64) (Value, error) {
	pt := hefloat.NewPlaintext(pk.params, pk.params.MaxLevel())
	if err := pk.encoder.Encode([]float64{plaintext}, pt); err != nil {
		return nil, err
	}
	ct, err := pk.encryptor.EncryptNew(pt)
	if err != nil {
		return nil, err
	}
	return CKKS_ciphertext{msg: ct}, nil
}

func (pk CKKS_encryption) Add(a, b Value) (Value, error) {
	ac, aok := a.(CKKS_ciphertext)
	bc, bok := b.(CKKS_ciphertext)
	switch {
	case aok && bok:
		sum, err := pk.evaluator.AddNew(ac.msg, bc.msg)
		return CKKS_ciphertext{msg: sum}, err
	case aok:
		bf, err := asFloat(b)
		if err != nil {
			return nil, err
		}
		sum, err := pk.evaluator.AddNew(ac.msg, bf)
		return CKKS_ciphertext{msg: sum}, err
	case bok:
		af, err := asFloat(a)
		if err != nil {
			return nil, err
		}
		sum, err := pk.evaluator.AddNew(bc.msg, af)
		return CKKS_ciphertext{msg: sum}, err
	default:
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
}

func (pk CKKS_encryption) AddConst(a Value, constant float64) (Value, error) {
	return pk.Add(a, constant)
}

func (pk CKKS_encryption) Multiply(a, b Value) (Value, error) {
	ac, aok := a.(CKKS_ciphertext)
	bc, bok := b.(CKKS_ciphertext)
	switch {
	case aok && bok:
		prod, err := pk.evaluator.MulRelinNew(ac.msg, bc.msg)
		if err != nil {
			return nil, err
		}
		if err := pk.evaluator.Rescale(prod, prod); err != nil {
			return nil, fmt.Errorf("multiplicative depth exhausted: %w", err)
		}
		return CKKS_ciphertext{msg: prod}, nil
	case aok:
		bf, err := asFloat(b)
		if err != nil {
			return nil, err
		}
		return pk.Scale(ac, bf)
	case bok:
		af, err := asFloat(a)
		if err != nil {
			return nil, err
		}
		return pk.Scale(bc, af)
	default:
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
}

func (pk CKKS_encryption) Scale(a Value, factor float64) (Value, error) {
	ac, ok := a.(CKKS_ciphertext)
	if !ok {
		af, err := asFloat(a)
		if err != nil {
			return nil, err
		}
		return af * factor, nil
	}
	prod, err := pk.evaluator.MulNew(ac.msg, factor)
	if err != nil {
		return nil, err
	}
	if err := pk.evaluator.Rescale(prod, prod); err != nil {
		return nil, fmt.Errorf("multiplicative depth exhausted: %w", err)
	}
	return CKKS_ciphertext{msg: prod}, nil
}

func (pk CKKS_encryption) Negate(a Value) (Value, error) {
	ac, ok := a.(CKKS_ciphertext)
	if !ok {
		af, err := asFloat(a)
		if err != nil {
			return nil, err
		}
		return -af, nil
	}
	// integer scalar, multiplied exactly: costs no depth
	neg, err := pk.evaluator.MulNew(ac.msg, -1)
	return CKKS_ciphertext{msg: neg}, err
}

func (pk CKKS_encryption) EvaluationSpace() gm.Space {
	return CKKS_eval_space{pk}
}

// secret key

type CKKS_secret_key struct {
	params    hefloat.Parameters
	encoder   *hefloat.Encoder
	decryptor *rlwe.Decryptor
}

func (sk CKKS_secret_key) Decrypt(ciphertext Value) (float64, error) {
	ct, ok := ciphertext.(CKKS_ciphertext)
	if !ok {
		return asFloat(ciphertext)
	}
	pt := sk.decryptor.DecryptNew(ct.msg)
	have := make([]float64, 1)
	if err := sk.encoder.Decode(pt, have); err != nil {
		return 0, err
	}
	return have[0], nil
}

// evaluation space

type CKKS_eval_space struct {
	CKKS_encryption
}

func (pk CKKS_eval_space) Add(a, b interface{}) (interface{}, error) {
	return pk.CKKS_encryption.Add(a, b)
}

func (pk CKKS_eval_space) Subtract(a, b interface{}) (diff interface{}, err error) {
	neg, err := pk.CKKS_encryption.Negate(b)
	if err != nil {
		return nil, err
	}
	return pk.Add(a, neg)
}

func (pk CKKS_eval_space) Multiply(a, b interface{}) (product interface{}, err error) {
	return pk.CKKS_encryption.Multiply(a, b)
}

func (pk CKKS_eval_space) Scale(a interface{}, factor interface{}) (product interface{}, err error) {
	f, err := asFloat(factor)
	if err != nil {
		return nil, err
	}
	return pk.CKKS_encryption.Scale(a, f)
}

func (pk CKKS_eval_space) Scalarspace() bool {
	return false
}
