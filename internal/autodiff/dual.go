package autodiff

import (
	"math"

	"gonum.org/v1/gonum/num/dual"
)

// Number is a forward-mode dual number.
type Number = dual.Number

// Const lifts a constant into a dual number with zero derivative.
func Const(v float64) Number { return Number{Real: v} }

// Add returns x+y.
func Add(x, y Number) Number { return dual.Add(x, y) }

// Sub returns x-y.
func Sub(x, y Number) Number { return dual.Sub(x, y) }

// Mul returns x*y.
func Mul(x, y Number) Number { return dual.Mul(x, y) }

// Div returns x/y.
func Div(x, y Number) Number { return dual.Mul(x, dual.Inv(y)) }

// Scale returns f*x.
func Scale(f float64, x Number) Number { return dual.Scale(f, x) }

// Neg returns -x.
func Neg(x Number) Number { return dual.Scale(-1, x) }

// Square returns x*x.
func Square(x Number) Number { return dual.Mul(x, x) }

// Abs returns |x|. The derivative at zero is taken from the right.
func Abs(x Number) Number {
	if x.Real < 0 {
		return Neg(x)
	}
	return x
}

// Sign returns the sign of the real part as +1 or -1.
func Sign(x Number) float64 { return math.Copysign(1, x.Real) }

// Sqrt returns the square root of x. At zero the derivative is zero when x
// carries no perturbation, and +Inf otherwise.
func Sqrt(x Number) Number {
	if x.Real == 0 {
		if x.Emag == 0 {
			return Number{}
		}
		return Number{Emag: math.Inf(1)}
	}
	return dual.Sqrt(x)
}

// Hypot returns sqrt(x0² + x1² + ...).
func Hypot(xs ...Number) Number {
	var s Number
	for _, x := range xs {
		s = Add(s, Square(x))
	}
	return Sqrt(s)
}

// Sin returns sin(x).
func Sin(x Number) Number { return dual.Sin(x) }

// Cos returns cos(x).
func Cos(x Number) Number { return dual.Cos(x) }

// Acos returns acos(x), clamping round-off just outside [-1, 1].
func Acos(x Number) Number {
	if x.Real >= 1 || x.Real <= -1 {
		c := math.Max(-1, math.Min(1, x.Real))
		if x.Emag == 0 {
			return Number{Real: math.Acos(c)}
		}
		return Number{Real: math.Acos(c), Emag: math.Copysign(math.Inf(1), -x.Emag)}
	}
	return dual.Acos(x)
}

// Atan2 returns the angle of the point (x, y), like math.Atan2(y, x).
func Atan2(y, x Number) Number {
	d := x.Real*x.Real + y.Real*y.Real
	if d == 0 {
		return Number{Real: math.Atan2(y.Real, x.Real)}
	}
	return Number{
		Real: math.Atan2(y.Real, x.Real),
		Emag: (x.Real*y.Emag - y.Real*x.Emag) / d,
	}
}

// SafeDiv returns x/y, or zero when y is exactly zero.
func SafeDiv(x, y Number) Number {
	if y.Real == 0 {
		return Number{}
	}
	return Div(x, y)
}
