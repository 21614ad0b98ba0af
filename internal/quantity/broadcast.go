package quantity

import (
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// BroadcastShapes returns the numpy broadcast of the given shapes.
func BroadcastShapes(shapes ...[]int) ([]int, error) {
	rank := 0
	for _, s := range shapes {
		if len(s) > rank {
			rank = len(s)
		}
	}
	out := make([]int, rank)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		offset := rank - len(s)
		for i, n := range s {
			switch cur := out[offset+i]; {
			case n == cur || n == 1:
			case cur == 1:
				out[offset+i] = n
			default:
				return nil, &vecerr.ShapeError{Shapes: copyShapes(shapes)}
			}
		}
	}
	return out, nil
}

// BroadcastTo materialises q at the given shape.
func (q Quantity) BroadcastTo(shape []int) (Quantity, error) {
	if equalShape(q.shape, shape) {
		return q, nil
	}
	if len(shape) < len(q.shape) {
		return Quantity{}, &vecerr.ShapeError{Shapes: [][]int{q.Shape(), shape}}
	}
	offset := len(shape) - len(q.shape)
	for i, n := range q.shape {
		if n != 1 && n != shape[offset+i] {
			return Quantity{}, &vecerr.ShapeError{Shapes: [][]int{q.Shape(), shape}}
		}
	}

	strides := make([]int, len(q.shape))
	stride := 1
	for i := len(q.shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= q.shape[i]
	}

	n := size(shape)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		src, rem := 0, i
		for d := len(shape) - 1; d >= 0; d-- {
			idx := rem % shape[d]
			rem /= shape[d]
			if k := d - offset; k >= 0 && q.shape[k] != 1 {
				src += idx * strides[k]
			}
		}
		out[i] = q.values[src]
	}
	return Quantity{values: out, shape: append([]int{}, shape...), unit: q.unit}, nil
}

// Size returns the number of elements of a shape.
func Size(shape []int) int { return size(shape) }

func size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EqualShape reports whether two shapes are identical.
func EqualShape(a, b []int) bool { return equalShape(a, b) }

func copyShapes(shapes [][]int) [][]int {
	out := make([][]int, len(shapes))
	for i, s := range shapes {
		out[i] = append([]int{}, s...)
	}
	return out
}
