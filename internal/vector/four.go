package vector

import (
	"fmt"
	"math/cmplx"
	"strings"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// SpeedOfLight is the default c of a FourVector.
var SpeedOfLight = quantity.Of(299792.458, "km / s")

// FourVector is a spacetime point: a time and a 3D spatial position.
type FourVector struct {
	t quantity.Quantity
	q *Vector
	c quantity.Quantity
}

// FourOption configures NewFourVector.
type FourOption func(*FourVector)

// WithSpeedOfLight overrides c.
func WithSpeedOfLight(c quantity.Quantity) FourOption {
	return func(w *FourVector) { w.c = c }
}

// NewFourVector pairs a time with a 3D position. The time must broadcast to
// the batch shape of q.
func NewFourVector(t quantity.Quantity, q *Vector, opts ...FourOption) (*FourVector, error) {
	if q == nil || q.Kind() != Position || q.typ.dim != 3 {
		return nil, fmt.Errorf("four-vector needs a 3D position, got %v", q)
	}
	w := &FourVector{t: t, q: q, c: SpeedOfLight}
	for _, opt := range opts {
		opt(w)
	}
	if !t.Unit().Is(quantity.Time) {
		return nil, &vecerr.UnitError{Field: "t", Want: quantity.Time.String(), Got: t.Unit().String()}
	}
	if !w.c.Unit().Is(quantity.Speed) || !w.c.IsScalar() {
		return nil, &vecerr.UnitError{Field: "c", Want: "scalar " + quantity.Speed.String(), Got: w.c.Unit().String()}
	}
	shape, err := quantity.BroadcastShapes(t.Shape(), q.Shape())
	if err != nil || !quantity.EqualShape(shape, q.Shape()) {
		return nil, &vecerr.ShapeError{Reason: "t and q must broadcast to the shape of q", Shapes: [][]int{t.Shape(), q.Shape()}}
	}
	if w.t, err = t.BroadcastTo(shape); err != nil {
		return nil, err
	}
	return w, nil
}

// FourVectorFromArray reads [ct, x, y, z] along the last axis. The time is
// recovered as ct/c.
func FourVectorFromArray(arr quantity.Quantity, opts ...FourOption) (*FourVector, error) {
	s := arr.Shape()
	if len(s) == 0 || s[len(s)-1] != 4 {
		return nil, &vecerr.ShapeError{Reason: "four-vector array needs a trailing axis of 4", Shapes: [][]int{s}}
	}
	probe := &FourVector{c: SpeedOfLight}
	for _, opt := range opts {
		opt(probe)
	}

	ct, err := arr.Index(0)
	if err != nil {
		return nil, err
	}
	t, err := ct.Div(probe.c)
	if err != nil {
		return nil, err
	}
	u, factor := t.Unit().Simplify()
	if t, err = quantity.New(t.Scale(factor).Values(), t.Shape(), u); err != nil {
		return nil, err
	}

	cols := make([]quantity.Quantity, 3)
	for i := range cols {
		if cols[i], err = arr.Index(i + 1); err != nil {
			return nil, err
		}
	}
	q, err := New(CartesianPos3D, Components{"x": cols[0], "y": cols[1], "z": cols[2]})
	if err != nil {
		return nil, err
	}
	return NewFourVector(t, q, opts...)
}

// T returns the time component.
func (w *FourVector) T() quantity.Quantity { return w.t }

// Q returns the spatial position.
func (w *FourVector) Q() *Vector { return w.q }

// C returns the speed of light used by w.
func (w *FourVector) C() quantity.Quantity { return w.c }

// Shape returns the batch shape.
func (w *FourVector) Shape() []int { return w.q.Shape() }

// With returns a copy of w with a new time and position.
func (w *FourVector) With(t quantity.Quantity, q *Vector) (*FourVector, error) {
	return NewFourVector(t, q, WithSpeedOfLight(w.c))
}

// Norm2 returns (ct)^2 - |q|^2 in the square of the spatial norm's unit.
func (w *FourVector) Norm2() (quantity.Quantity, error) {
	r, err := w.q.Norm()
	if err != nil {
		return quantity.Quantity{}, err
	}
	ct, err := w.c.Mul(w.t)
	if err != nil {
		return quantity.Quantity{}, err
	}
	if ct, err = ct.To(r.Unit()); err != nil {
		return quantity.Quantity{}, err
	}
	ct2, err := ct.Mul(ct)
	if err != nil {
		return quantity.Quantity{}, err
	}
	r2, err := r.Mul(r)
	if err != nil {
		return quantity.Quantity{}, err
	}
	return ct2.Sub(r2)
}

// Norm returns the complex square root of Norm2; spacelike separations have
// a purely imaginary norm.
func (w *FourVector) Norm() ([]complex128, quantity.Unit, error) {
	n2, err := w.Norm2()
	if err != nil {
		return nil, quantity.Unit{}, err
	}
	u, err := n2.Unit().Sqrt()
	if err != nil {
		return nil, quantity.Unit{}, err
	}
	out := make([]complex128, n2.Size())
	for i := range out {
		out[i] = cmplx.Sqrt(complex(n2.At(i), 0))
	}
	return out, u, nil
}

// Neg negates both time and a Cartesian spatial part. Curvilinear spatial
// parts go through the converter.
func (w *FourVector) Neg() (*FourVector, error) {
	q, err := w.q.Neg()
	if err != nil {
		return nil, err
	}
	return w.With(w.t.Neg(), q)
}

func (w *FourVector) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<FourVector (t[%s], q=(", w.t.Unit())
	for i, f := range w.q.typ.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s[%s]", f.Name, w.q.comps[i].Unit())
	}
	sb.WriteString("))")
	for i := 0; i < w.q.Size(); i++ {
		fmt.Fprintf(&sb, "\n    [%g", w.t.At(i))
		for _, c := range w.q.comps {
			fmt.Fprintf(&sb, " %g", c.At(i))
		}
		sb.WriteString("]")
	}
	sb.WriteString(">")
	return sb.String()
}
