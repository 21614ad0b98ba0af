package vector

import (
	"fmt"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// NewCartesianPos1D builds a CartesianPos1D.
func NewCartesianPos1D(x quantity.Quantity) (*Vector, error) {
	return New(CartesianPos1D, Components{"x": x})
}

// NewRadialPos builds a RadialPos. r must be non-negative.
func NewRadialPos(r quantity.Quantity) (*Vector, error) {
	return New(RadialPos, Components{"r": r})
}

// NewCartesianPos2D builds a CartesianPos2D.
func NewCartesianPos2D(x, y quantity.Quantity) (*Vector, error) {
	return New(CartesianPos2D, Components{"x": x, "y": y})
}

// NewPolarPos builds a PolarPos.
func NewPolarPos(r, phi quantity.Quantity) (*Vector, error) {
	return New(PolarPos, Components{"r": r, "phi": phi})
}

// NewCartesianPos3D builds a CartesianPos3D.
func NewCartesianPos3D(x, y, z quantity.Quantity) (*Vector, error) {
	return New(CartesianPos3D, Components{"x": x, "y": y, "z": z})
}

// NewCylindricalPos builds a CylindricalPos.
func NewCylindricalPos(rho, phi, z quantity.Quantity) (*Vector, error) {
	return New(CylindricalPos, Components{"rho": rho, "phi": phi, "z": z})
}

// NewSphericalPos builds a SphericalPos with theta the polar angle.
func NewSphericalPos(r, theta, phi quantity.Quantity) (*Vector, error) {
	return New(SphericalPos, Components{"r": r, "theta": theta, "phi": phi})
}

// NewMathSphericalPos builds a MathSphericalPos with theta the azimuth and
// phi the polar angle.
func NewMathSphericalPos(r, theta, phi quantity.Quantity) (*Vector, error) {
	return New(MathSphericalPos, Components{"r": r, "theta": theta, "phi": phi})
}

// NewLonLatSphericalPos builds a LonLatSphericalPos.
func NewLonLatSphericalPos(lon, lat, distance quantity.Quantity) (*Vector, error) {
	return New(LonLatSphericalPos, Components{"lon": lon, "lat": lat, "distance": distance})
}

// NewProlateSpheroidalPos builds a ProlateSpheroidalPos with focal length
// delta.
func NewProlateSpheroidalPos(mu, nu, phi, delta quantity.Quantity) (*Vector, error) {
	return New(ProlateSpheroidalPos, Components{"mu": mu, "nu": nu, "phi": phi, "Delta": delta})
}

// NewCartesianPosND builds a CartesianPosND from a (*batch, F) quantity.
func NewCartesianPosND(q quantity.Quantity) (*Vector, error) {
	return New(CartesianPosND, Components{"q": q})
}

// NewCartesianVel3D builds a CartesianVel3D.
func NewCartesianVel3D(dx, dy, dz quantity.Quantity) (*Vector, error) {
	return New(CartesianVel3D, Components{"d_x": dx, "d_y": dy, "d_z": dz})
}

// NewCartesianAcc3D builds a CartesianAcc3D.
func NewCartesianAcc3D(ddx, ddy, ddz quantity.Quantity) (*Vector, error) {
	return New(CartesianAcc3D, Components{"d2_x": ddx, "d2_y": ddy, "d2_z": ddz})
}

// WithAttr returns a copy of v with an attribute such as "Delta" replaced.
func (v *Vector) WithAttr(name string, q quantity.Quantity) (*Vector, error) {
	if _, ok := v.typ.attr(name); !ok {
		return nil, fmt.Errorf("%s: unknown attribute %q: %w", v.typ, name, vecerr.ErrInvalidComponent)
	}
	return v.With(name, q)
}
