package convert

import (
	"fmt"
	"math"

	"github.com/GalacticDynamics/vector/internal/autodiff"
	"github.com/GalacticDynamics/vector/internal/vector"
)

type num = autodiff.Number

// pure lifts a context-free slot map into a MapFunc.
func pure(f func(in []num) []num) MapFunc {
	return func(in []num, _ *Env) ([]num, error) { return f(in), nil }
}

func direct(from, to *vector.Type, m MapFunc) *Rule {
	return &Rule{From: from.ID(), To: to.ID(), Map: m}
}

// compose chains two maps through an intermediate chart.
func compose(first, second MapFunc) MapFunc {
	return func(in []num, env *Env) ([]num, error) {
		mid, err := first(in, env)
		if err != nil {
			return nil, err
		}
		return second(mid, env)
	}
}

var halfPi = autodiff.Const(math.Pi / 2)

// clampSqrt is Sqrt with round-off below zero snapped to zero.
func clampSqrt(x num) num {
	if x.Real < 0 {
		return autodiff.Const(0)
	}
	return autodiff.Sqrt(x)
}

// Cartesian (x, y, z) to the spherical family. The polar angle is measured
// from +z and the azimuth from +x.

func cartToCyl(in []num) []num {
	x, y, z := in[0], in[1], in[2]
	return []num{autodiff.Hypot(x, y), autodiff.Atan2(y, x), z}
}

func cartToSph(in []num) []num {
	x, y, z := in[0], in[1], in[2]
	r := autodiff.Hypot(x, y, z)
	return []num{r, autodiff.Acos(autodiff.SafeDiv(z, r)), autodiff.Atan2(y, x)}
}

func cartToMathSph(in []num) []num {
	s := cartToSph(in)
	return []num{s[0], s[2], s[1]}
}

func cartToLonLat(in []num) []num {
	s := cartToSph(in)
	return sphToLonLat(s)
}

func cylToCart(in []num) []num {
	rho, phi, z := in[0], in[1], in[2]
	return []num{autodiff.Mul(rho, autodiff.Cos(phi)), autodiff.Mul(rho, autodiff.Sin(phi)), z}
}

func cylToSph(in []num) []num {
	rho, phi, z := in[0], in[1], in[2]
	r := autodiff.Hypot(rho, z)
	return []num{r, autodiff.Acos(autodiff.SafeDiv(z, r)), phi}
}

func cylToMathSph(in []num) []num {
	s := cylToSph(in)
	return []num{s[0], s[2], s[1]}
}

func sphToCart(in []num) []num {
	r, theta, phi := in[0], in[1], in[2]
	rs := autodiff.Mul(r, autodiff.Sin(theta))
	return []num{
		autodiff.Mul(rs, autodiff.Cos(phi)),
		autodiff.Mul(rs, autodiff.Sin(phi)),
		autodiff.Mul(r, autodiff.Cos(theta)),
	}
}

func sphToCyl(in []num) []num {
	r, theta, phi := in[0], in[1], in[2]
	return []num{autodiff.Mul(r, autodiff.Sin(theta)), phi, autodiff.Mul(r, autodiff.Cos(theta))}
}

// swapAngles converts between physics (r, polar, azimuth) and mathematics
// (r, azimuth, polar) spherical conventions; it is its own inverse.
func swapAngles(in []num) []num { return []num{in[0], in[2], in[1]} }

func mathSphToCart(in []num) []num { return sphToCart(swapAngles(in)) }

func mathSphToCyl(in []num) []num { return sphToCyl(swapAngles(in)) }

func lonLatToSph(in []num) []num {
	lon, lat, d := in[0], in[1], in[2]
	return []num{d, autodiff.Sub(halfPi, lat), lon}
}

func sphToLonLat(in []num) []num {
	r, theta, phi := in[0], in[1], in[2]
	return []num{phi, autodiff.Sub(halfPi, theta), r}
}

func lonLatToCart(in []num) []num { return sphToCart(lonLatToSph(in)) }

// Prolate spheroidal (mu, nu, phi) with focal length Delta:
//
//	rho = sqrt((mu - Delta^2)(Delta^2 - |nu|)) / Delta
//	z   = sign(nu) sqrt(mu |nu|) / Delta
func prolateToCyl(in []num, env *Env) ([]num, error) {
	d := env.FromDelta
	if d <= 0 {
		return nil, fmt.Errorf("prolate source needs a positive focal length, got %g", d)
	}
	mu, nu, phi := in[0], in[1], in[2]
	d2 := autodiff.Const(d * d)
	absNu := autodiff.Abs(nu)

	rho := autodiff.Scale(1/d, clampSqrt(autodiff.Mul(autodiff.Sub(mu, d2), autodiff.Sub(d2, absNu))))
	z := autodiff.Scale(autodiff.Sign(nu)/d, autodiff.Sqrt(autodiff.Mul(mu, absNu)))
	return []num{rho, phi, z}, nil
}

// cylToProlate inverts prolateToCyl: mu and |nu| are the roots of
// t^2 - (rho^2 + z^2 + Delta^2) t + z^2 Delta^2.
func cylToProlate(in []num, env *Env) ([]num, error) {
	d := env.ToDelta
	if d <= 0 {
		return nil, fmt.Errorf("prolate target needs a positive focal length, got %g", d)
	}
	rho, phi, z := in[0], in[1], in[2]
	d2 := autodiff.Const(d * d)
	z2 := autodiff.Square(z)

	s := autodiff.Add(autodiff.Add(autodiff.Square(rho), z2), d2)
	z2d2 := autodiff.Mul(z2, d2)
	disc := clampSqrt(autodiff.Sub(autodiff.Square(s), autodiff.Scale(4, z2d2)))
	sum := autodiff.Add(s, disc)

	mu := autodiff.Scale(0.5, sum)
	nu := autodiff.Scale(autodiff.Sign(z), autodiff.SafeDiv(autodiff.Scale(2, z2d2), sum))
	return []num{mu, nu, phi}, nil
}

func register3D(r *Registry) {
	var (
		cart = vector.CartesianPos3D
		cyl  = vector.CylindricalPos
		sph  = vector.SphericalPos
		msph = vector.MathSphericalPos
		ll   = vector.LonLatSphericalPos
		pro  = vector.ProlateSpheroidalPos
	)

	r.MustRegister(
		direct(cart, cyl, pure(cartToCyl)),
		direct(cart, sph, pure(cartToSph)),
		direct(cart, msph, pure(cartToMathSph)),
		direct(cyl, cart, pure(cylToCart)),
		direct(cyl, sph, pure(cylToSph)),
		direct(cyl, msph, pure(cylToMathSph)),
		direct(sph, cart, pure(sphToCart)),
		direct(sph, cyl, pure(sphToCyl)),
		direct(sph, msph, pure(swapAngles)),
		direct(msph, cart, pure(mathSphToCart)),
		direct(msph, cyl, pure(mathSphToCyl)),
		direct(msph, sph, pure(swapAngles)),

		direct(ll, sph, pure(lonLatToSph)),
		direct(sph, ll, pure(sphToLonLat)),
		direct(ll, cart, pure(lonLatToCart)),
		direct(cart, ll, pure(cartToLonLat)),

		direct(pro, cyl, prolateToCyl),
		direct(cyl, pro, cylToProlate),
		direct(pro, cart, compose(prolateToCyl, pure(cylToCart))),
		direct(cart, pro, compose(pure(cartToCyl), cylToProlate)),
	)
}
