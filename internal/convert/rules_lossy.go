package convert

import (
	"github.com/GalacticDynamics/vector/internal/autodiff"
	"github.com/GalacticDynamics/vector/internal/vector"
)

func lossy(from, to *vector.Type, dropped []string, m func(in []num) []num) *Rule {
	return &Rule{From: from.ID(), To: to.ID(), Lossy: true, Dropped: dropped, Map: pure(m)}
}

func take(idx ...int) func(in []num) []num {
	return func(in []num) []num {
		out := make([]num, len(idx))
		for i, j := range idx {
			out[i] = in[j]
		}
		return out
	}
}

func magnitude(in []num) []num { return []num{autodiff.Hypot(in...)} }

// then applies g to the output of f.
func then(f, g func([]num) []num) func([]num) []num {
	return func(in []num) []num { return g(f(in)) }
}

// registerLossy adds the dimension-reducing rules. Each one drops
// components and is reported through the lossy policy.
func registerLossy(r *Registry) {
	var (
		c1 = vector.CartesianPos1D
		rd = vector.RadialPos
		c2 = vector.CartesianPos2D
		pl = vector.PolarPos
	)

	// Cartesian 3D projects onto the xy plane and the x axis.
	c3 := vector.CartesianPos3D
	r.MustRegister(
		lossy(c3, c1, []string{"y", "z"}, take(0)),
		lossy(c3, rd, []string{"direction"}, magnitude),
		lossy(c3, c2, []string{"z"}, take(0, 1)),
		lossy(c3, pl, []string{"z"}, then(take(0, 1), cart2ToPolar)),
	)

	// Cylindrical keeps rho as the radius.
	cyl := vector.CylindricalPos
	r.MustRegister(
		lossy(cyl, c1, []string{"phi", "z"}, then(cylToCart, take(0))),
		lossy(cyl, rd, []string{"phi", "z"}, take(0)),
		lossy(cyl, c2, []string{"z"}, then(cylToCart, take(0, 1))),
		lossy(cyl, pl, []string{"z"}, take(0, 1)),
	)

	// Spherical charts project onto the xy plane; the radius is kept.
	sph := vector.SphericalPos
	sphPolar := func(in []num) []num {
		return []num{autodiff.Mul(in[0], autodiff.Sin(in[1])), in[2]}
	}
	r.MustRegister(
		lossy(sph, c1, []string{"y", "z"}, then(sphToCart, take(0))),
		lossy(sph, rd, []string{"theta", "phi"}, take(0)),
		lossy(sph, c2, []string{"z"}, then(sphToCart, take(0, 1))),
		lossy(sph, pl, []string{"z"}, sphPolar),
	)

	msph := vector.MathSphericalPos
	r.MustRegister(
		lossy(msph, c1, []string{"y", "z"}, then(mathSphToCart, take(0))),
		lossy(msph, rd, []string{"theta", "phi"}, take(0)),
		lossy(msph, c2, []string{"z"}, then(mathSphToCart, take(0, 1))),
		lossy(msph, pl, []string{"z"}, then(swapAngles, sphPolar)),
	)

	r.MustRegister(
		lossy(c2, c1, []string{"y"}, take(0)),
		lossy(c2, rd, []string{"direction"}, magnitude),
		lossy(pl, rd, []string{"phi"}, take(0)),
	)
}
