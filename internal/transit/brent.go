package transit

import "math"

const (
	brentMaxIter = 100
	brentXTol    = 1e-10
)

// brent finds a root of f inside [a, b] by Brent's method. The endpoints must
// straddle the root. It stops once |f(b)| ≤ ftol or the bracket is narrower
// than brentXTol, and gives up after maxIter refinements.
func brent(op string, f func(float64) (float64, error), a, b, ftol float64, maxIter int) (float64, error) {
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	if fa*fb > 0 {
		return 0, &SearchError{Code: ErrCodeNoBracket, Op: op, JD: b, Diff: math.Abs(fb)}
	}
	if math.Abs(fa) < math.Abs(fb) {
		a, b, fa, fb = b, a, fb, fa
	}

	c, fc := a, fa
	d := c
	bisected := true
	for range maxIter {
		if math.Abs(fb) <= ftol || math.Abs(b-a) < brentXTol {
			return b, nil
		}

		var s float64
		if fa != fc && fb != fc {
			// inverse quadratic interpolation
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// secant
			s = b - fb*(b-a)/(fb-fa)
		}

		lo, hi := (3*a+b)/4, b
		if lo > hi {
			lo, hi = hi, lo
		}
		if s < lo || s > hi ||
			(bisected && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!bisected && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(bisected && math.Abs(b-c) < brentXTol) ||
			(!bisected && math.Abs(c-d) < brentXTol) {
			s = (a + b) / 2
			bisected = true
		} else {
			bisected = false
		}

		fs, err := f(s)
		if err != nil {
			return 0, err
		}
		d, c, fc = c, b, fb
		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b, fa, fb = b, a, fb, fa
		}
	}
	return 0, &SearchError{
		Code:       ErrCodeNotConverged,
		Op:         op,
		Iterations: maxIter,
		JD:         b,
		Diff:       math.Abs(fb),
	}
}
