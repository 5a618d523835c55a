package eigenfaces

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v5/he/hefloat"
)

// same modulus chain as DefaultCKKSParams but a smaller ring, to keep
// key generation and evaluation affordable in tests
var testCKKSParams = hefloat.ParametersLiteral{
	LogN:            13,
	LogQ:            []int{60, 40, 40, 40},
	LogP:            []int{60},
	LogDefaultScale: 40,
}

var (
	ckksSetupOnce sync.Once
	ckksTestCS    CKKS_encryption
	ckksTestSK    CKKS_secret_key
	ckksSetupErr  error
)

func ckksParties(t *testing.T) (Setting, *KeyHolder) {
	ckksSetupOnce.Do(func() {
		ckksTestCS, ckksTestSK, ckksSetupErr = SetupCKKS(testCKKSParams)
	})
	require.NoError(t, ckksSetupErr)
	kh := NewKeyHolder(ckksTestCS, ckksTestSK)
	return NewSetting(ckksTestCS, kh), kh
}

func encryptValue(t *testing.T, cs Cryptosystem, f float64) Value {
	v, err := cs.Encrypt(f)
	require.NoError(t, err)
	return v
}

func TestCKKSRoundTrip(t *testing.T) {
	_, kh := ckksParties(t)
	for _, f := range []float64{0, 1, -3.5, 127.25, 255} {
		ct := encryptValue(t, kh.cs, f)
		dec, err := kh.sk.Decrypt(ct)
		require.NoError(t, err)
		require.InDelta(t, f, dec, 1e-4)
	}
}

func TestCKKSArithmetic(t *testing.T) {
	_, kh := ckksParties(t)
	cs := kh.cs
	a := encryptValue(t, cs, 6)
	b := encryptValue(t, cs, 2.5)

	check := func(t *testing.T, expected float64, v Value, err error) {
		require.NoError(t, err)
		dec, err := kh.sk.Decrypt(v)
		require.NoError(t, err)
		require.InDelta(t, expected, dec, 1e-3)
	}

	t.Run("add", func(t *testing.T) {
		sum, err := cs.Add(a, b)
		check(t, 8.5, sum, err)
	})
	t.Run("add constant", func(t *testing.T) {
		sum, err := cs.AddConst(a, -4)
		check(t, 2, sum, err)
	})
	t.Run("multiply", func(t *testing.T) {
		prod, err := cs.Multiply(a, b)
		check(t, 15, prod, err)
	})
	t.Run("multiply mixed", func(t *testing.T) {
		prod, err := cs.Multiply(a, 0.5)
		check(t, 3, prod, err)
	})
	t.Run("scale", func(t *testing.T) {
		prod, err := cs.Scale(b, 4)
		check(t, 10, prod, err)
	})
	t.Run("negate", func(t *testing.T) {
		neg, err := cs.Negate(a)
		check(t, -6, neg, err)
	})
	t.Run("plain fallthrough", func(t *testing.T) {
		prod, err := cs.Multiply(2.0, 3.0)
		require.NoError(t, err)
		require.Equal(t, 6.0, prod)
	})
}

func TestCKKSDepth(t *testing.T) {
	_, kh := ckksParties(t)
	cs := kh.cs
	a := encryptValue(t, cs, 3)
	b := encryptValue(t, cs, 4)
	require.Equal(t, 3, a.(CKKS_ciphertext).Depth())

	prod, err := cs.Multiply(a, b)
	require.NoError(t, err)
	require.Equal(t, 2, prod.(CKKS_ciphertext).Depth())

	prod, err = cs.Scale(prod, 0.5)
	require.NoError(t, err)
	require.Equal(t, 1, prod.(CKKS_ciphertext).Depth())

	t.Run("negation is free", func(t *testing.T) {
		neg, err := cs.Negate(prod)
		require.NoError(t, err)
		require.Equal(t, 1, neg.(CKKS_ciphertext).Depth())
	})

	t.Run("reencryption restores depth", func(t *testing.T) {
		fresh, err := kh.Reencrypt(prod)
		require.NoError(t, err)
		require.Equal(t, 3, fresh.(CKKS_ciphertext).Depth())
		dec, err := kh.sk.Decrypt(fresh)
		require.NoError(t, err)
		require.InDelta(t, 6, dec, 1e-3)
	})
}

func TestCKKSDivideAndSqrt(t *testing.T) {
	setting, kh := ckksParties(t)
	a := encryptValue(t, kh.cs, 3)
	b := encryptValue(t, kh.cs, 2)

	q, err := Divide(a, b, setting)
	require.NoError(t, err)
	dec, err := kh.sk.Decrypt(q)
	require.NoError(t, err)
	require.InDelta(t, 1.5, dec, 1e-3)

	s, err := Sqrt(b, setting)
	require.NoError(t, err)
	dec, err = kh.sk.Decrypt(s)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt2, dec, 1e-2)
}

func TestCKKSEvaluationSpace(t *testing.T) {
	_, kh := ckksParties(t)
	space := kh.cs.EvaluationSpace()
	require.False(t, space.Scalarspace())

	a := encryptValue(t, kh.cs, 7)
	b := encryptValue(t, kh.cs, 3)
	diff, err := space.Subtract(a, b)
	require.NoError(t, err)
	dec, err := kh.sk.Decrypt(diff)
	require.NoError(t, err)
	require.InDelta(t, 4, dec, 1e-3)
}

func TestCKKSClassification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping encrypted training in short mode")
	}
	setting, kh := ckksParties(t)
	server := NewEigenfacesServer(setting)

	pixels := [][][]float64{
		{{255, 200}, {230, 245}},
		{{240, 210}, {225, 250}},
		{{10, 60}, {35, 5}},
		{{20, 45}, {30, 15}},
	}
	labels := []string{"bright", "bright", "dark", "dark"}

	images := encryptPixels(t, kh, pixels)
	vectorized, err := kh.EncryptMatrix(VectorizeImages(pixels))
	require.NoError(t, err)
	require.NoError(t, server.Train(images, vectorized))

	queries := encryptPixels(t, kh, [][][]float64{
		{{245, 205}, {235, 240}},
		{{15, 50}, {25, 10}},
	})
	predicted, err := server.Classify(queries, labels)
	require.NoError(t, err)
	require.Equal(t, []string{"bright", "dark"}, predicted)
}
