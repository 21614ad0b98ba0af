package vector

import (
	"github.com/GalacticDynamics/vector/internal/quantity"
)

func euclideanNorm(v *Vector) (quantity.Quantity, error) {
	return quantity.Hypot(v.comps...)
}

func ndNorm(v *Vector) (quantity.Quantity, error) {
	return v.comps[0].NormLast(), nil
}

// firstComponentNorm serves charts whose first component is already the
// distance from the origin.
func firstComponentNorm(v *Vector) (quantity.Quantity, error) {
	return v.comps[0], nil
}

func absNorm(v *Vector) (quantity.Quantity, error) {
	return v.comps[0].Abs(), nil
}

func cylindricalNorm(v *Vector) (quantity.Quantity, error) {
	return quantity.Hypot(v.comps[0], v.comps[2])
}

func distanceNorm(v *Vector) (quantity.Quantity, error) {
	return v.comps[2], nil
}

// prolateNorm is sqrt(mu + |nu| - Delta^2).
func prolateNorm(v *Vector) (quantity.Quantity, error) {
	delta := v.attrs["Delta"]
	d2, err := delta.Mul(delta)
	if err != nil {
		return quantity.Quantity{}, err
	}
	s, err := v.comps[0].Add(v.comps[1].Abs())
	if err != nil {
		return quantity.Quantity{}, err
	}
	if s, err = s.Sub(d2); err != nil {
		return quantity.Quantity{}, err
	}
	// rounding can leave tiny negatives at the focal segment
	s = s.Apply(func(x float64) float64 {
		if x < 0 {
			return 0
		}
		return x
	}, s.Unit())
	return s.Sqrt()
}
