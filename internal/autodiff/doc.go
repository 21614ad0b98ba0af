// Package autodiff is the numeric backend of the conversion engine.
//
// It exposes two primitives:
//   - Jacobian: forward-mode differentiation of a pure R^n -> R^m function
//     written over gonum dual numbers, returned as a *mat.Dense.
//   - Vectorize: independent per-element evaluation across a batch, fanned
//     out with errgroup once the batch is large enough.
//
// The dual helpers fill the gaps of gonum.org/v1/gonum/num/dual (atan2,
// hypot) and pin down the derivative at coordinate singularities so that
// exact zeros do not turn into NaN.
package autodiff
