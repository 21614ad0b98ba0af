package autodiff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Func is a pure map from R^n to R^m written over dual numbers.
type Func func(x []Number) ([]Number, error)

// Eval evaluates f at x without derivatives.
func Eval(f Func, x []float64) ([]float64, error) {
	in := make([]Number, len(x))
	for i, v := range x {
		in[i] = Const(v)
	}
	out, err := f(in)
	if err != nil {
		return nil, err
	}
	return Reals(out), nil
}

// Reals extracts the real parts.
func Reals(xs []Number) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x.Real
	}
	return out
}

// Jacobian returns the m×n matrix of partial derivatives of f at x together
// with f(x). It runs one forward pass per input dimension.
func Jacobian(f Func, x []float64) (*mat.Dense, []float64, error) {
	n := len(x)
	if n == 0 {
		return nil, nil, fmt.Errorf("jacobian: empty input")
	}
	in := make([]Number, n)
	var (
		jac   *mat.Dense
		value []float64
	)
	for j := 0; j < n; j++ {
		for i, v := range x {
			in[i] = Const(v)
		}
		in[j].Emag = 1

		out, err := f(in)
		if err != nil {
			return nil, nil, err
		}
		if jac == nil {
			if len(out) == 0 {
				return nil, nil, fmt.Errorf("jacobian: empty output")
			}
			jac = mat.NewDense(len(out), n, nil)
			value = Reals(out)
		}
		if len(out) != len(value) {
			return nil, nil, fmt.Errorf("jacobian: output length changed from %d to %d", len(value), len(out))
		}
		for i, o := range out {
			jac.Set(i, j, o.Emag)
		}
	}
	return jac, value, nil
}
