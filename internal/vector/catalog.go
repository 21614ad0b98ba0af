package vector

import (
	"github.com/GalacticDynamics/vector/internal/quantity"
)

// chartSpec declares one chart; triad expands it into its three types.
type chartSpec struct {
	prefix    string
	suffix    string
	chart     string
	dim       int
	cartesian TypeID
	fields    []Field
	attrs     []Field
	validate  func(*Vector) error
	norm      func(*Vector) (quantity.Quantity, error)
}

func length(name string) Field { return Field{Name: name, Type: quantity.Length} }
func radial(name string) Field {
	return Field{Name: name, Type: quantity.Length, check: checkNonNegative}
}
func azimuth(name string) Field { return Field{Name: name, Type: quantity.Angle, check: checkAzimuth} }
func polar(name string) Field   { return Field{Name: name, Type: quantity.Angle, check: checkPolar} }

func id(prefix, kind, suffix string) TypeID { return TypeID(prefix + kind + suffix) }

func triad(s chartSpec) (pos, vel, acc *Type) {
	pid := id(s.prefix, "Pos", s.suffix)
	vid := id(s.prefix, "Vel", s.suffix)
	aid := id(s.prefix, "Acc", s.suffix)
	cart := s.cartesian
	if cart == "" {
		cart = pid
	}

	pos = &Type{
		id: pid, kind: Position, dim: s.dim, chart: s.chart,
		fields: s.fields, attrs: s.attrs,
		differential: vid, cartesian: cart,
		validate: s.validate, norm: s.norm,
	}
	vel = &Type{
		id: vid, kind: Velocity, dim: s.dim, chart: s.chart,
		fields:       derivativeFields(s.fields, 1),
		differential: aid, integral: pid,
	}
	acc = &Type{
		id: aid, kind: Acceleration, dim: s.dim, chart: s.chart,
		fields:   derivativeFields(s.fields, 2),
		integral: vid,
	}
	if s.cartesian == "" {
		vel.norm = euclideanNorm
		acc.norm = euclideanNorm
	}
	for _, t := range []*Type{pos, vel, acc} {
		catalog[t.id] = t
	}
	return pos, vel, acc
}

func derivativeFields(fields []Field, order int) []Field {
	prefix := "d_"
	if order == 2 {
		prefix = "d2_"
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Name: prefix + f.Name, Type: f.Type.Per(order)}
	}
	return out
}

// The catalog. Every position type names its canonical Cartesian position,
// which is the pivot for conversions without a direct rule.
var (
	CartesianPos1D, CartesianVel1D, CartesianAcc1D = triad(chartSpec{
		prefix: "Cartesian", suffix: "1D", chart: "cartesian1d", dim: 1,
		fields: []Field{length("x")},
		norm:   euclideanNorm,
	})
	RadialPos, RadialVel, RadialAcc = triad(chartSpec{
		prefix: "Radial", chart: "radial", dim: 1, cartesian: "CartesianPos1D",
		fields: []Field{radial("r")},
		norm:   firstComponentNorm,
	})

	CartesianPos2D, CartesianVel2D, CartesianAcc2D = triad(chartSpec{
		prefix: "Cartesian", suffix: "2D", chart: "cartesian2d", dim: 2,
		fields: []Field{length("x"), length("y")},
		norm:   euclideanNorm,
	})
	PolarPos, PolarVel, PolarAcc = triad(chartSpec{
		prefix: "Polar", chart: "polar", dim: 2, cartesian: "CartesianPos2D",
		fields: []Field{radial("r"), azimuth("phi")},
		norm:   firstComponentNorm,
	})

	CartesianPos3D, CartesianVel3D, CartesianAcc3D = triad(chartSpec{
		prefix: "Cartesian", suffix: "3D", chart: "cartesian3d", dim: 3,
		fields: []Field{length("x"), length("y"), length("z")},
		norm:   euclideanNorm,
	})
	CylindricalPos, CylindricalVel, CylindricalAcc = triad(chartSpec{
		prefix: "Cylindrical", chart: "cylindrical", dim: 3, cartesian: "CartesianPos3D",
		fields: []Field{radial("rho"), azimuth("phi"), length("z")},
		norm:   cylindricalNorm,
	})
	SphericalPos, SphericalVel, SphericalAcc = triad(chartSpec{
		prefix: "Spherical", chart: "spherical", dim: 3, cartesian: "CartesianPos3D",
		fields: []Field{radial("r"), polar("theta"), azimuth("phi")},
		norm:   firstComponentNorm,
	})
	MathSphericalPos, MathSphericalVel, MathSphericalAcc = triad(chartSpec{
		prefix: "MathSpherical", chart: "mathspherical", dim: 3, cartesian: "CartesianPos3D",
		fields: []Field{radial("r"), azimuth("theta"), polar("phi")},
		norm:   firstComponentNorm,
	})
	LonLatSphericalPos, LonLatSphericalVel, LonLatSphericalAcc = triad(chartSpec{
		prefix: "LonLatSpherical", chart: "lonlatspherical", dim: 3, cartesian: "CartesianPos3D",
		fields: []Field{
			azimuth("lon"),
			{Name: "lat", Type: quantity.Angle, check: checkLatitude},
			radial("distance"),
		},
		norm: distanceNorm,
	})
	ProlateSpheroidalPos, ProlateSpheroidalVel, ProlateSpheroidalAcc = triad(chartSpec{
		prefix: "ProlateSpheroidal", chart: "prolatespheroidal", dim: 3, cartesian: "CartesianPos3D",
		fields: []Field{
			{Name: "mu", Type: quantity.Area, check: checkNonNegative},
			{Name: "nu", Type: quantity.Area},
			azimuth("phi"),
		},
		attrs:    []Field{{Name: "Delta", Type: quantity.Length}},
		validate: validateProlate,
		norm:     prolateNorm,
	})

	CartesianPosND, CartesianVelND, CartesianAccND = triad(chartSpec{
		prefix: "Cartesian", suffix: "ND", chart: "cartesiannd", dim: 0,
		fields: []Field{length("q")},
		norm:   ndNorm,
	})

	// PoincarePolarVector bundles a cylindrical-like position with its
	// velocity. It has no Cartesian counterpart and no derivative types.
	PoincarePolarVector = register(&Type{
		id: "PoincarePolarVector", kind: Position, dim: 3, chart: "poincare",
		fields: []Field{
			radial("rho"),
			{Name: "pp_phi", Type: quantity.Any},
			length("z"),
			{Name: "d_rho", Type: quantity.Speed},
			{Name: "d_pp_phi", Type: quantity.Any},
			{Name: "d_z", Type: quantity.Speed},
		},
	})
)

func register(t *Type) *Type {
	catalog[t.id] = t
	return t
}

func init() {
	CartesianVelND.norm = ndNorm
	CartesianAccND.norm = ndNorm
	RadialVel.norm = absNorm
	RadialAcc.norm = absNorm
}
