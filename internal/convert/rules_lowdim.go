package convert

import (
	"fmt"

	"github.com/GalacticDynamics/vector/internal/autodiff"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

func cart2ToPolar(in []num) []num {
	x, y := in[0], in[1]
	return []num{autodiff.Hypot(x, y), autodiff.Atan2(y, x)}
}

func polarToCart2(in []num) []num {
	r, phi := in[0], in[1]
	return []num{autodiff.Mul(r, autodiff.Cos(phi)), autodiff.Mul(r, autodiff.Sin(phi))}
}

func identity(in []num) []num { return append([]num(nil), in...) }

// extend appends context components after the existing slots.
func extend(names ...string) MapFunc {
	return func(in []num, env *Env) ([]num, error) {
		out := append([]num(nil), in...)
		for _, name := range names {
			v, ok := env.Extra[name]
			if !ok {
				return nil, fmt.Errorf("missing context component %q", name)
			}
			out = append(out, autodiff.Const(v))
		}
		return out, nil
	}
}

func increasing(from, to *vector.Type, names ...string) *Rule {
	return &Rule{From: from.ID(), To: to.ID(), Requires: names, Map: extend(names...)}
}

func registerLowDim(r *Registry) {
	r.MustRegister(
		direct(vector.CartesianPos2D, vector.PolarPos, pure(cart2ToPolar)),
		direct(vector.PolarPos, vector.CartesianPos2D, pure(polarToCart2)),
		direct(vector.CartesianPos1D, vector.RadialPos, pure(identity)),
		direct(vector.RadialPos, vector.CartesianPos1D, pure(identity)),

		increasing(vector.CartesianPos1D, vector.CartesianPos2D, "y"),
		increasing(vector.CartesianPos1D, vector.CartesianPos3D, "y", "z"),
		increasing(vector.CartesianPos2D, vector.CartesianPos3D, "z"),
	)
}

// fixedWidth guards maps out of the N-dimensional type.
func fixedWidth(n int) MapFunc {
	return func(in []num, _ *Env) ([]num, error) {
		if len(in) != n {
			return nil, &vecerr.ShapeError{
				Reason: fmt.Sprintf("%d features cannot fill a %dD Cartesian vector", len(in), n),
				Shapes: [][]int{{len(in)}, {n}},
			}
		}
		return identity(in), nil
	}
}

func registerND(r *Registry) {
	nd := vector.CartesianPosND
	for n, t := range map[int]*vector.Type{
		1: vector.CartesianPos1D,
		2: vector.CartesianPos2D,
		3: vector.CartesianPos3D,
	} {
		r.MustRegister(
			direct(t, nd, pure(identity)),
			direct(nd, t, fixedWidth(n)),
		)
	}
}
