package eigenfaces

// Divide computes a/b with Goldschmidt's method. The initial
// reciprocal estimate comes from the key holder, since the scheme
// cannot compute a reciprocal homomorphically. With the default single
// iteration the quotient is just the seed times a; higher iteration
// counts run Newton refinement
// r ← r·(2 − b·r) first, each pass costing two multiplications and a
// reencryption. Encrypted results are reencrypted before being handed
// back; this is the depth-reset rule, not an optimization.
//
// Divide-by-zero is not handled here; callers must not feed zero
// denominators (mean of an empty set, zero-norm vectors).
func Divide(a, b Value, setting Setting) (Value, error) {
	r, err := setting.oracle.GoldschmidtInit(b)
	if err != nil {
		return nil, err
	}
	for i := 1; i < setting.division_iterations; i += 1 {
		br, err := setting.cs.Multiply(b, r)
		if err != nil {
			return nil, err
		}
		neg, err := setting.cs.Negate(br)
		if err != nil {
			return nil, err
		}
		corr, err := setting.cs.AddConst(neg, 2)
		if err != nil {
			return nil, err
		}
		r, err = setting.cs.Multiply(r, corr)
		if err != nil {
			return nil, err
		}
		r, err = setting.oracle.Reencrypt(r)
		if err != nil {
			return nil, err
		}
	}
	quotient, err := setting.cs.Multiply(r, a)
	if err != nil {
		return nil, err
	}
	return setting.oracle.Reencrypt(quotient)
}

// Sqrt approximates the square root of x with Newton-Raphson, starting
// from x itself. The iteration count is fixed and data-independent:
// convergence cannot be tested on encrypted values without decrypting,
// so the loop runs a depth- and latency-bounded number of steps
// regardless of input magnitude. The averaging costs one level per
// pass, so the running estimate is reencrypted every step on top of the
// refresh Divide already performs.
func Sqrt(x Value, setting Setting) (Value, error) {
	xn := x
	for i := 0; i < setting.sqrt_iterations; i += 1 {
		quotient, err := Divide(x, xn, setting)
		if err != nil {
			return nil, err
		}
		sum, err := setting.cs.Add(xn, quotient)
		if err != nil {
			return nil, err
		}
		xn, err = setting.cs.Scale(sum, 0.5)
		if err != nil {
			return nil, err
		}
		xn, err = setting.oracle.Reencrypt(xn)
		if err != nil {
			return nil, err
		}
	}
	return xn, nil
}
