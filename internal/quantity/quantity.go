package quantity

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// Quantity is an immutable dense array of values tagged with a unit. Values
// are stored row-major; a zero-length shape is a scalar.
type Quantity struct {
	values []float64
	shape  []int
	unit   Unit
}

// New builds a quantity from row-major values. The values are copied.
func New(values []float64, shape []int, u Unit) (Quantity, error) {
	if size(shape) != len(values) {
		return Quantity{}, &vecerr.ShapeError{
			Reason: fmt.Sprintf("%d values do not fill shape", len(values)),
			Shapes: [][]int{shape},
		}
	}
	for _, n := range shape {
		if n < 0 {
			return Quantity{}, &vecerr.ShapeError{Reason: "negative dimension", Shapes: [][]int{shape}}
		}
	}
	return Quantity{
		values: append([]float64(nil), values...),
		shape:  append([]int{}, shape...),
		unit:   u,
	}, nil
}

// Scalar returns a zero-dimensional quantity.
func Scalar(v float64, u Unit) Quantity {
	return Quantity{values: []float64{v}, shape: []int{}, unit: u}
}

// Array returns a one-dimensional quantity.
func Array(values []float64, u Unit) Quantity {
	return Quantity{values: append([]float64(nil), values...), shape: []int{len(values)}, unit: u}
}

// Of is Scalar with a parsed unit; it panics on a bad unit string.
func Of(v float64, u string) Quantity { return Scalar(v, MustParse(u)) }

// Vec is Array with a parsed unit; it panics on a bad unit string.
func Vec(u string, values ...float64) Quantity { return Array(values, MustParse(u)) }

// Unit returns the unit of q.
func (q Quantity) Unit() Unit { return q.unit }

// Shape returns a copy of the shape of q.
func (q Quantity) Shape() []int { return append([]int{}, q.shape...) }

// Size is the number of stored values.
func (q Quantity) Size() int { return len(q.values) }

// IsScalar reports whether q has no axes.
func (q Quantity) IsScalar() bool { return len(q.shape) == 0 }

// At returns the i-th value in row-major order.
func (q Quantity) At(i int) float64 { return q.values[i] }

// Values returns a copy of the raw values in q's own unit.
func (q Quantity) Values() []float64 { return append([]float64(nil), q.values...) }

// IsConvertible reports whether q can be expressed in u.
func (q Quantity) IsConvertible(u Unit) bool { return q.unit.IsConvertible(u) }

// Value returns the values of q expressed in u.
func (q Quantity) Value(u Unit) ([]float64, error) {
	f, err := q.unit.Factor(u)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(q.values))
	floats.ScaleTo(out, f, q.values)
	return out, nil
}

// To converts q to u.
func (q Quantity) To(u Unit) (Quantity, error) {
	if q.unit.Equal(u) {
		return q, nil
	}
	vals, err := q.Value(u)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{values: vals, shape: q.Shape(), unit: u}, nil
}

// Apply maps f over the values and tags the result with u.
func (q Quantity) Apply(f func(float64) float64, u Unit) Quantity {
	out := make([]float64, len(q.values))
	for i, v := range q.values {
		out[i] = f(v)
	}
	return Quantity{values: out, shape: q.Shape(), unit: u}
}

// Neg returns -q.
func (q Quantity) Neg() Quantity { return q.Scale(-1) }

// Abs returns |q|.
func (q Quantity) Abs() Quantity { return q.Apply(math.Abs, q.unit) }

// Scale multiplies every value by f.
func (q Quantity) Scale(f float64) Quantity {
	out := make([]float64, len(q.values))
	floats.ScaleTo(out, f, q.values)
	return Quantity{values: out, shape: q.Shape(), unit: q.unit}
}

// Add returns q+o in q's unit, broadcasting shapes.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	o, err := o.To(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return q.binary(o, q.unit, func(a, b float64) float64 { return a + b })
}

// Sub returns q-o in q's unit, broadcasting shapes.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	o, err := o.To(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return q.binary(o, q.unit, func(a, b float64) float64 { return a - b })
}

// Mul returns q*o with the product unit.
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	return q.binary(o, q.unit.Mul(o.unit), func(a, b float64) float64 { return a * b })
}

// Div returns q/o with the quotient unit.
func (q Quantity) Div(o Quantity) (Quantity, error) {
	return q.binary(o, q.unit.Div(o.unit), func(a, b float64) float64 { return a / b })
}

// Sqrt returns the square root; the unit must have even powers.
func (q Quantity) Sqrt() (Quantity, error) {
	u, err := q.unit.Sqrt()
	if err != nil {
		return Quantity{}, err
	}
	return q.Apply(math.Sqrt, u), nil
}

func (q Quantity) binary(o Quantity, u Unit, f func(a, b float64) float64) (Quantity, error) {
	shape, err := BroadcastShapes(q.shape, o.shape)
	if err != nil {
		return Quantity{}, err
	}
	a, err := q.BroadcastTo(shape)
	if err != nil {
		return Quantity{}, err
	}
	b, err := o.BroadcastTo(shape)
	if err != nil {
		return Quantity{}, err
	}
	out := make([]float64, len(a.values))
	for i := range out {
		out[i] = f(a.values[i], b.values[i])
	}
	return Quantity{values: out, shape: shape, unit: u}, nil
}

// Hypot returns the Euclidean norm of the given components elementwise,
// expressed in the unit of the first one.
func Hypot(components ...Quantity) (Quantity, error) {
	if len(components) == 0 {
		return Quantity{}, fmt.Errorf("hypot of no components")
	}
	stacked, err := Stack(components...)
	if err != nil {
		return Quantity{}, err
	}
	return stacked.NormLast(), nil
}

// NormLast returns the Euclidean norm over the last axis.
func (q Quantity) NormLast() Quantity {
	if len(q.shape) == 0 {
		return q.Abs()
	}
	f := q.shape[len(q.shape)-1]
	out := make([]float64, size(q.shape[:len(q.shape)-1]))
	for i := range out {
		if f == 0 {
			continue
		}
		out[i] = floats.Norm(q.values[i*f:(i+1)*f], 2)
	}
	return Quantity{values: out, shape: append([]int{}, q.shape[:len(q.shape)-1]...), unit: q.unit}
}

// Stack broadcasts the quantities to a common shape, converts them to the
// unit of the first and stacks them along a new last axis.
func Stack(qs ...Quantity) (Quantity, error) {
	if len(qs) == 0 {
		return Quantity{}, fmt.Errorf("stack of no quantities")
	}
	shapes := make([][]int, len(qs))
	for i, q := range qs {
		shapes[i] = q.shape
	}
	shape, err := BroadcastShapes(shapes...)
	if err != nil {
		return Quantity{}, err
	}
	u := qs[0].unit
	n := size(shape)
	k := len(qs)
	out := make([]float64, n*k)
	for j, q := range qs {
		c, err := q.To(u)
		if err != nil {
			return Quantity{}, err
		}
		c, err = c.BroadcastTo(shape)
		if err != nil {
			return Quantity{}, err
		}
		for i := 0; i < n; i++ {
			out[i*k+j] = c.values[i]
		}
	}
	return Quantity{values: out, shape: append(append([]int{}, shape...), k), unit: u}, nil
}

// Index selects position k along the last axis, dropping that axis.
func (q Quantity) Index(k int) (Quantity, error) {
	if len(q.shape) == 0 {
		return Quantity{}, &vecerr.ShapeError{Reason: "cannot index a scalar", Shapes: [][]int{q.shape}}
	}
	f := q.shape[len(q.shape)-1]
	if k < 0 || k >= f {
		return Quantity{}, &vecerr.ShapeError{
			Reason: fmt.Sprintf("index %d out of range for last axis", k),
			Shapes: [][]int{q.shape},
		}
	}
	n := len(q.values) / f
	out := make([]float64, n)
	for i := range out {
		out[i] = q.values[i*f+k]
	}
	return Quantity{values: out, shape: append([]int{}, q.shape[:len(q.shape)-1]...), unit: q.unit}, nil
}

// Reshape returns q with a new shape of the same size.
func (q Quantity) Reshape(shape []int) (Quantity, error) {
	if size(shape) != len(q.values) {
		return Quantity{}, &vecerr.ShapeError{Reason: "cannot reshape", Shapes: [][]int{q.shape, shape}}
	}
	return Quantity{values: q.values, shape: append([]int{}, shape...), unit: q.unit}, nil
}

func (q Quantity) String() string {
	var sb strings.Builder
	if q.IsScalar() {
		fmt.Fprintf(&sb, "%g", q.values[0])
	} else {
		formatNested(&sb, q.values, q.shape)
	}
	if us := q.unit.String(); us != "" {
		sb.WriteString(" ")
		sb.WriteString(us)
	}
	return sb.String()
}

func formatNested(sb *strings.Builder, values []float64, shape []int) {
	sb.WriteByte('[')
	if len(shape) == 1 {
		for i, v := range values {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "%g", v)
		}
	} else if shape[0] > 0 {
		step := len(values) / shape[0]
		for i := 0; i < shape[0]; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			formatNested(sb, values[i*step:(i+1)*step], shape[1:])
		}
	}
	sb.WriteByte(']')
}
