package vector

import (
	"math"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// angleTol absorbs the rounding of deg<->rad round trips at the bounds.
const angleTol = 1e-12

// wrapAzimuths folds every azimuthal component into [0, 2π), keeping the
// component's own unit.
func (v *Vector) wrapAzimuths() {
	for i, f := range v.typ.fields {
		if !f.IsAzimuth() {
			continue
		}
		q := v.comps[i]
		factor, err := quantity.Radian.Factor(q.Unit())
		if err != nil {
			continue
		}
		period := 2 * math.Pi * factor
		if p := math.Round(period); math.Abs(period-p) < 1e-9*period {
			period = p
		}
		v.comps[i] = q.Apply(func(x float64) float64 {
			x = math.Mod(x, period)
			if x < 0 {
				x += period
			}
			if x >= period {
				x = 0
			}
			return x
		}, q.Unit())
	}
}

func (v *Vector) check() error {
	for i, f := range v.typ.fields {
		if err := checkField(v.typ, f, v.comps[i]); err != nil {
			return err
		}
	}
	if v.typ.validate != nil {
		return v.typ.validate(v)
	}
	return nil
}

func checkField(t *Type, f Field, q quantity.Quantity) error {
	fail := func(constraint string) error {
		return &vecerr.DomainError{Type: t.String(), Field: f.Name, Constraint: constraint}
	}

	switch f.check {
	case checkNonNegative:
		for _, x := range q.Values() {
			if x < 0 {
				if f.Type.String() == quantity.Length.String() {
					return fail("radial distance must be non-negative")
				}
				return fail("must be non-negative")
			}
		}
	case checkPolar:
		rad, err := q.Value(quantity.Radian)
		if err != nil {
			return err
		}
		for _, x := range rad {
			if x < -angleTol || x > math.Pi+angleTol {
				return fail("inclination angle must be in the range [0, pi]")
			}
		}
	case checkLatitude:
		deg, err := q.Value(quantity.Degree)
		if err != nil {
			return err
		}
		for _, x := range deg {
			if x < -90-angleTol || x > 90+angleTol {
				return fail("latitude must be in the range [-90, 90] deg")
			}
		}
	}
	return nil
}

// validateProlate enforces Delta > 0, mu >= Delta^2 and |nu| <= Delta^2.
func validateProlate(v *Vector) error {
	delta := v.attrs["Delta"]
	fail := func(field, constraint string) error {
		return &vecerr.DomainError{Type: v.typ.String(), Field: field, Constraint: constraint}
	}

	d := delta.At(0)
	if d <= 0 {
		return fail("Delta", "focal length must be positive")
	}
	area := delta.Unit().Pow(2)
	d2 := d * d

	mu, err := v.comps[0].Value(area)
	if err != nil {
		return err
	}
	nu, err := v.comps[1].Value(area)
	if err != nil {
		return err
	}
	tol := d2 * 1e-12
	for _, x := range mu {
		if x < d2-tol {
			return fail("mu", "mu must be >= Delta^2")
		}
	}
	for _, x := range nu {
		if math.Abs(x) > d2+tol {
			return fail("nu", "|nu| must be <= Delta^2")
		}
	}
	return nil
}
