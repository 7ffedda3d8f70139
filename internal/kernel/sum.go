package kernel

import "math"

var dot2Impl = dot2Generic

func useVariant(v Variant) {
	switch v {
	case FMA:
		dot2Impl = dot2FMA
	default:
		dot2Impl = dot2Generic
	}
}

// Dot2 returns the compensated dot product of x and the strided vector
// y[0], y[stride], ..., y[(len(x)-1)*stride]. The result is as accurate as
// if computed in twice the working precision and then rounded.
//
// A product or partial sum that leaves the finite range turns the error terms
// into NaN, so a non-finite result is recomputed as the plain IEEE sum. Inf
// and NaN then propagate exactly as in an uncompensated dot product.
//
// SAFETY: y must hold at least (len(x)-1)*stride+1 elements.
func Dot2(x, y []float64, stride int) float64 {
	r := dot2Impl(x, y, stride)
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return dot(x, y, stride)
	}
	return r
}

func dot(x, y []float64, stride int) float64 {
	var s float64
	j := 0
	for _, xi := range x {
		s += xi * y[j]
		j += stride
	}
	return s
}

func dot2FMA(x, y []float64, stride int) float64 {
	var s, c float64
	j := 0
	for _, xi := range x {
		yi := y[j]
		j += stride

		p := float64(xi * yi)
		ep := math.FMA(xi, yi, -p)

		t := s + p
		z := t - s
		es := (s - (t - z)) + (p - z)
		s = t

		c += ep + es
	}
	return s + c
}

func dot2Generic(x, y []float64, stride int) float64 {
	var s, c float64
	j := 0
	for _, xi := range x {
		yi := y[j]
		j += stride

		p, ep := twoProduct(xi, yi)
		s, c = twoSumAcc(s, p, c, ep)
	}
	return s + c
}

// twoSumAcc adds p to the running sum s and folds both rounding errors into
// the compensation c.
func twoSumAcc(s, p, c, ep float64) (float64, float64) {
	t := s + p
	z := t - s
	es := (s - (t - z)) + (p - z)
	return t, c + (ep + es)
}

// splitter is 2^27+1, Veltkamp's constant for float64.
const splitter = 134217729.0

// splitLimit is the magnitude above which splitter*a overflows.
const splitLimit = 0x1p995

// split returns hi, lo with a = hi + lo and hi holding the upper 26 bits.
// Explicit conversions keep the compiler from fusing the multiply.
func split(a float64) (float64, float64) {
	if math.Abs(a) > splitLimit && !math.IsInf(a, 0) {
		hi, lo := split(a * 0x1p-28)
		return hi * 0x1p28, lo * 0x1p28
	}
	c := float64(splitter * a)
	hi := c - (c - a)
	return hi, a - hi
}

// twoProduct returns p = fl(a*b) and the exact error e = a*b - p.
func twoProduct(a, b float64) (float64, float64) {
	p := float64(a * b)
	ah, al := split(a)
	bh, bl := split(b)
	e := float64(ah*bh) - p
	e += float64(ah * bl)
	e += float64(al * bh)
	e += float64(al * bl)
	return p, e
}
