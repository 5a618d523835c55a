package eigenfaces

// The Oracle is the capability boundary between the computation engine
// and the key holder: the few operations that need plaintext
// visibility. The engine holds a reference to this interface, never to
// key material.
type Oracle interface {
	// GoldschmidtInit returns an initial reciprocal estimate for b:
	// exact for plaintext b, decrypt-invert-reencrypt for encrypted b.
	GoldschmidtInit(b Value) (Value, error)

	// MinimumIndex returns the position of the smallest distance.
	MinimumIndex(distances []Value) (int, error)

	// ComponentCount returns the number of leading eigenvalues needed
	// to exceed the key holder's variance threshold.
	ComponentCount(eigenvalues []Value) (int, error)

	// Reencrypt resets the multiplicative depth of an encrypted value.
	// Semantically a no-op; identity for plaintext values.
	Reencrypt(v Value) (Value, error)

	ReencryptVector(v Vector) (Vector, error)

	ReencryptMatrix(m Matrix) (Matrix, error)
}

// default iteration counts, tuned for normalized pixel distances; fixed
// counts rather than convergence checks, since convergence cannot be
// tested on encrypted values without decrypting
const (
	DefaultDivisionIterations = 1
	DefaultSqrtIterations     = 30
	DefaultPowerIterations    = 2
)

// A Setting carries the cryptosystem, the oracle and the iteration
// counts through every engine function.
type Setting struct {
	cs                  Cryptosystem
	oracle              Oracle
	division_iterations int
	sqrt_iterations     int
	power_iterations    int
}

func NewSetting(cs Cryptosystem, oracle Oracle) Setting {
	return Setting{
		cs:                  cs,
		oracle:              oracle,
		division_iterations: DefaultDivisionIterations,
		sqrt_iterations:     DefaultSqrtIterations,
		power_iterations:    DefaultPowerIterations,
	}
}

// WithIterations returns a copy of the setting with the given iteration
// counts. Raising them trades depth cost and reencryptions for
// accuracy.
func (s Setting) WithIterations(division, sqrt, power int) Setting {
	s.division_iterations = division
	s.sqrt_iterations = sqrt
	s.power_iterations = power
	return s
}
