package vector

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

func TestCatalogLinks(t *testing.T) {
	tests := []struct {
		typ          *Type
		differential *Type
		integral     *Type
		cartesian    *Type
	}{
		{SphericalPos, SphericalVel, nil, CartesianPos3D},
		{SphericalVel, SphericalAcc, SphericalPos, CartesianVel3D},
		{SphericalAcc, nil, SphericalVel, CartesianAcc3D},
		{PolarVel, PolarAcc, PolarPos, CartesianVel2D},
		{RadialPos, RadialVel, nil, CartesianPos1D},
		{CartesianAccND, nil, CartesianVelND, CartesianAccND},
		{ProlateSpheroidalPos, ProlateSpheroidalVel, nil, CartesianPos3D},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.differential, tt.typ.Differential())
			assert.Equal(t, tt.integral, tt.typ.Integral())
			assert.Equal(t, tt.cartesian, tt.typ.Cartesian())
		})
	}

	assert.Nil(t, PoincarePolarVector.Cartesian())
	assert.Equal(t, []string{"d_r", "d_theta", "d_phi"}, SphericalVel.FieldNames())
	assert.Equal(t, []string{"d2_mu", "d2_nu", "d2_phi"}, ProlateSpheroidalAcc.FieldNames())

	f, _, ok := SphericalVel.Field("d_theta")
	require.True(t, ok)
	assert.Equal(t, quantity.AngularSpeed.String(), f.Type.String())
}

func TestLookup(t *testing.T) {
	typ, ok := Lookup("CylindricalVel")
	require.True(t, ok)
	assert.Same(t, CylindricalVel, typ)

	_, ok = Lookup("Nope")
	assert.False(t, ok)
	assert.Panics(t, func() { MustLookup("Nope") })

	types := Types()
	assert.Len(t, types, 34)
	assert.Equal(t, 0, types[0].Dim())
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		typ   *Type
		comps Components
		want  error
	}{
		{
			name:  "negative radius",
			typ:   RadialPos,
			comps: Components{"r": quantity.Of(-1, "km")},
			want:  vecerr.ErrDomain,
		},
		{
			name:  "zero radius",
			typ:   RadialPos,
			comps: Components{"r": quantity.Of(0, "km")},
		},
		{
			name: "polar angle above pi",
			typ:  SphericalPos,
			comps: Components{
				"r": quantity.Of(1, "km"), "theta": quantity.Of(181, "deg"), "phi": quantity.Of(0, "deg"),
			},
			want: vecerr.ErrDomain,
		},
		{
			name: "polar angle at pi",
			typ:  SphericalPos,
			comps: Components{
				"r": quantity.Of(1, "km"), "theta": quantity.Of(180, "deg"), "phi": quantity.Of(0, "deg"),
			},
		},
		{
			name: "latitude out of range",
			typ:  LonLatSphericalPos,
			comps: Components{
				"lon": quantity.Of(0, "deg"), "lat": quantity.Of(91, "deg"), "distance": quantity.Of(1, "kpc"),
			},
			want: vecerr.ErrDomain,
		},
		{
			name: "prolate mu below focal area",
			typ:  ProlateSpheroidalPos,
			comps: Components{
				"mu": quantity.Of(0.5, "kpc2"), "nu": quantity.Of(0.5, "kpc2"),
				"phi": quantity.Of(0, "rad"), "Delta": quantity.Of(1.5, "kpc"),
			},
			want: vecerr.ErrDomain,
		},
		{
			name: "prolate nu above focal area",
			typ:  ProlateSpheroidalPos,
			comps: Components{
				"mu": quantity.Of(3, "kpc2"), "nu": quantity.Of(-2.5, "kpc2"),
				"phi": quantity.Of(0, "rad"), "Delta": quantity.Of(1.5, "kpc"),
			},
			want: vecerr.ErrDomain,
		},
		{
			name: "prolate zero focal length",
			typ:  ProlateSpheroidalPos,
			comps: Components{
				"mu": quantity.Of(3, "kpc2"), "nu": quantity.Of(1, "kpc2"),
				"phi": quantity.Of(0, "rad"), "Delta": quantity.Of(0, "kpc"),
			},
			want: vecerr.ErrDomain,
		},
		{
			name: "prolate missing focal length",
			typ:  ProlateSpheroidalPos,
			comps: Components{
				"mu": quantity.Of(3, "kpc2"), "nu": quantity.Of(1, "kpc2"), "phi": quantity.Of(0, "rad"),
			},
			want: vecerr.ErrMissingComponent,
		},
		{
			name:  "wrong unit",
			typ:   CartesianPos1D,
			comps: Components{"x": quantity.Of(1, "s")},
			want:  vecerr.ErrUnit,
		},
		{
			name:  "missing component",
			typ:   CartesianPos2D,
			comps: Components{"x": quantity.Of(1, "m")},
			want:  vecerr.ErrMissingComponent,
		},
		{
			name:  "unknown component",
			typ:   CartesianPos1D,
			comps: Components{"x": quantity.Of(1, "m"), "w": quantity.Of(1, "m")},
			want:  vecerr.ErrInvalidComponent,
		},
		{
			name:  "incompatible shapes",
			typ:   CartesianPos2D,
			comps: Components{"x": quantity.Vec("m", 1, 2), "y": quantity.Vec("m", 1, 2, 3)},
			want:  vecerr.ErrShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(tt.typ, tt.comps)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, v)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.typ, v.Type())
		})
	}
}

func TestDomainErrorNamesField(t *testing.T) {
	_, err := New(RadialPos, Components{"r": quantity.Of(-1, "km")})
	var de *vecerr.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "r", de.Field)
	assert.Equal(t, "radial distance must be non-negative", de.Constraint)
}

func TestAzimuthWrap(t *testing.T) {
	v, err := New(PolarPos, Components{
		"r":   quantity.Of(1, "m"),
		"phi": quantity.Vec("deg", -90, 360, 725),
	})
	require.NoError(t, err)

	phi := v.MustComponent("phi")
	assert.Equal(t, "deg", phi.Unit().String())
	assert.InDeltaSlice(t, []float64{270, 0, 5}, phi.Values(), 1e-9)
	assert.Equal(t, []int{3}, v.Shape())

	// derivatives are not wrapped
	dv, err := New(PolarVel, Components{
		"d_r":   quantity.Of(1, "m / s"),
		"d_phi": quantity.Of(-1, "rad / s"),
	})
	require.NoError(t, err)
	assert.Equal(t, -1.0, dv.MustComponent("d_phi").At(0))
}

func TestBroadcastAtConstruction(t *testing.T) {
	v, err := New(CartesianPos3D, Components{
		"x": quantity.Vec("km", 1, 2),
		"y": quantity.Of(0, "km"),
		"z": quantity.Of(5, "km"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, v.Shape())
	assert.Equal(t, 2, v.Size())
	assert.Equal(t, []float64{5, 5}, v.MustComponent("z").Values())
	assert.Equal(t, 3, v.Features())
}

func TestNDPromotesScalar(t *testing.T) {
	v, err := New(CartesianPosND, Components{"q": quantity.Of(2, "m")})
	require.NoError(t, err)
	assert.Equal(t, []int{}, v.Shape())
	assert.Equal(t, 1, v.Features())

	v, err = New(CartesianPosND, Components{"q": quantity.Vec("m", 3, 4, 0, 0, 0)})
	require.NoError(t, err)
	n, err := v.Norm()
	require.NoError(t, err)
	assert.InDelta(t, 5, n.At(0), 1e-12)
}

func TestNorms(t *testing.T) {
	tests := []struct {
		name string
		v    *Vector
		want float64
	}{
		{"cartesian", MustNew(CartesianPos3D, Components{
			"x": quantity.Of(1, "km"), "y": quantity.Of(2, "km"), "z": quantity.Of(2, "km"),
		}), 3},
		{"cylindrical", MustNew(CylindricalPos, Components{
			"rho": quantity.Of(3, "km"), "phi": quantity.Of(1, "rad"), "z": quantity.Of(4, "km"),
		}), 5},
		{"spherical", MustNew(SphericalPos, Components{
			"r": quantity.Of(7, "km"), "theta": quantity.Of(1, "rad"), "phi": quantity.Of(1, "rad"),
		}), 7},
		{"lonlat", MustNew(LonLatSphericalPos, Components{
			"lon": quantity.Of(10, "deg"), "lat": quantity.Of(-10, "deg"), "distance": quantity.Of(2, "km"),
		}), 2},
		{"radial velocity", MustNew(RadialVel, Components{"d_r": quantity.Of(-4, "km / s")}), 4},
		{"prolate", MustNew(ProlateSpheroidalPos, Components{
			"mu": quantity.Of(5, "km2"), "nu": quantity.Of(-0.5, "km2"),
			"phi": quantity.Of(0, "rad"), "Delta": quantity.Of(1, "km"),
		}), math.Sqrt(4.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.v.Norm()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, n.At(0), 1e-12)
		})
	}

	_, err := MustNew(SphericalVel, Components{
		"d_r": quantity.Of(1, "km / s"), "d_theta": quantity.Of(0, "rad / s"), "d_phi": quantity.Of(0, "rad / s"),
	}).Norm()
	assert.ErrorIs(t, err, vecerr.ErrUnsupportedConversion)
}

func TestNegAndScale(t *testing.T) {
	v := MustNew(CartesianPos2D, Components{"x": quantity.Of(1, "m"), "y": quantity.Of(-2, "m")})
	n, err := v.Neg()
	require.NoError(t, err)
	assert.Equal(t, -1.0, n.MustComponent("x").At(0))
	assert.Equal(t, 2.0, n.MustComponent("y").At(0))

	p := MustNew(PolarPos, Components{"r": quantity.Of(1, "m"), "phi": quantity.Of(0, "rad")})
	_, err = p.Neg()
	assert.ErrorIs(t, err, vecerr.ErrUnsupportedConversion)

	d := MustNew(PolarVel, Components{"d_r": quantity.Of(1, "m / s"), "d_phi": quantity.Of(2, "rad / s")})
	s, err := d.Scale(3)
	require.NoError(t, err)
	assert.Equal(t, 6.0, s.MustComponent("d_phi").At(0))
}

func TestWith(t *testing.T) {
	v := MustNew(SphericalPos, Components{
		"r": quantity.Of(1, "km"), "theta": quantity.Of(1, "rad"), "phi": quantity.Of(1, "rad"),
	})
	w, err := v.With("r", quantity.Of(2, "km"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, w.MustComponent("r").At(0))
	assert.Equal(t, 1.0, v.MustComponent("r").At(0))

	_, err = v.With("r", quantity.Of(-2, "km"))
	assert.ErrorIs(t, err, vecerr.ErrDomain)
}

func TestColumnsRoundTrip(t *testing.T) {
	v := MustNew(CylindricalPos, Components{
		"rho": quantity.Vec("km", 1, 2), "phi": quantity.Vec("deg", 90, 180), "z": quantity.Of(3, "m"),
	})
	units := []quantity.Unit{quantity.Kilometer, quantity.Radian, quantity.Kilometer}
	cols, err := v.Columns(units)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{math.Pi / 2, math.Pi}, cols[1], 1e-12)
	assert.InDeltaSlice(t, []float64{0.003, 0.003}, cols[2], 1e-15)

	back, err := FromColumns(CylindricalPos, cols, units, v.Shape(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, back.Shape())
	assert.Equal(t, "rad", back.MustComponent("phi").Unit().String())
}

func TestFromArray(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		shape  []int
		kind   Kind
		want   *Type
	}{
		{"3d position", []float64{1, 2, 3}, []int{3}, Position, CartesianPos3D},
		{"2d batch", []float64{1, 2, 3, 4}, []int{2, 2}, Position, CartesianPos2D},
		{"5d", []float64{1, 2, 3, 4, 5}, []int{5}, Position, CartesianPosND},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := quantity.New(tt.values, tt.shape, quantity.Kilometer)
			require.NoError(t, err)
			v, err := Raw(q).AsKind(tt.kind)
			require.NoError(t, err)
			assert.Same(t, tt.want, v.Type())
		})
	}

	q, err := quantity.New([]float64{1, 2, 3}, []int{3}, quantity.MustParse("km / s"))
	require.NoError(t, err)
	v, err := FromArray(Velocity, q)
	require.NoError(t, err)
	assert.Same(t, CartesianVel3D, v.Type())

	_, err = FromArray(Position, q)
	assert.ErrorIs(t, err, vecerr.ErrUnit)
}

func TestAsKindMismatch(t *testing.T) {
	v := MustNew(CartesianPos1D, Components{"x": quantity.Of(1, "m")})
	_, err := v.AsKind(Velocity)
	assert.Error(t, err)

	same, err := v.AsKind(Position)
	require.NoError(t, err)
	assert.Same(t, v, same)
}

func TestString(t *testing.T) {
	v := MustNew(CartesianPos3D, Components{
		"x": quantity.Of(1, "m"), "y": quantity.Of(2, "m"), "z": quantity.Of(3, "m"),
	})
	assert.Equal(t, "<CartesianPos3D (x[m], y[m], z[m])\n    [1 2 3]>", v.String())
}

func TestFourVector(t *testing.T) {
	q := MustNew(CartesianPos3D, Components{
		"x": quantity.Of(1, "m"), "y": quantity.Of(2, "m"), "z": quantity.Of(3, "m"),
	})
	w, err := NewFourVector(quantity.Of(1, "s"), q)
	require.NoError(t, err)

	n2, err := w.Norm2()
	require.NoError(t, err)
	assert.Equal(t, "m2", n2.Unit().String())
	assert.InDelta(t, 8.987551787368176e16, n2.At(0), 1e3)

	norm, u, err := w.Norm()
	require.NoError(t, err)
	assert.Equal(t, "m", u.String())
	assert.InDelta(t, 2.99792458e8, real(norm[0]), 1)

	// spacelike
	w, err = NewFourVector(quantity.Of(0, "s"), q)
	require.NoError(t, err)
	norm, _, err = w.Norm()
	require.NoError(t, err)
	assert.InDelta(t, 0, real(norm[0]), 1e-12)
	assert.InDelta(t, math.Sqrt(14), imag(norm[0]), 1e-12)

	neg, err := w.Neg()
	require.NoError(t, err)
	assert.Equal(t, -3.0, neg.Q().MustComponent("z").At(0))

	_, err = NewFourVector(quantity.Of(1, "m"), q)
	assert.ErrorIs(t, err, vecerr.ErrUnit)
}

func TestFourVectorFromArray(t *testing.T) {
	arr := quantity.Vec("m", 0, 1, 2, 3)
	w, err := FourVectorFromArray(arr)
	require.NoError(t, err)
	assert.Equal(t, "s", w.T().Unit().String())
	assert.Equal(t, 0.0, w.T().At(0))
	assert.Equal(t, 2.0, w.Q().MustComponent("y").At(0))

	_, err = FourVectorFromArray(quantity.Vec("m", 1, 2, 3))
	assert.ErrorIs(t, err, vecerr.ErrShape)
}

func TestTypedConstructors(t *testing.T) {
	sph, err := NewSphericalPos(quantity.Of(1, "km"), quantity.Of(0.5, "rad"), quantity.Of(1, "rad"))
	require.NoError(t, err)
	assert.Same(t, SphericalPos, sph.Type())

	ll, err := NewLonLatSphericalPos(quantity.Of(10, "deg"), quantity.Of(20, "deg"), quantity.Of(3, "kpc"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, ll.MustComponent("distance").At(0))

	_, err = NewRadialPos(quantity.Of(-1, "km"))
	assert.ErrorIs(t, err, vecerr.ErrDomain)

	_, err = NewCartesianPos3D(quantity.Of(1, "km"), quantity.Of(1, "s"), quantity.Of(1, "km"))
	assert.ErrorIs(t, err, vecerr.ErrUnit)

	pro, err := NewProlateSpheroidalPos(quantity.Of(5, "kpc2"), quantity.Of(0.5, "kpc2"), quantity.Of(0, "rad"), quantity.Of(1.5, "kpc"))
	require.NoError(t, err)

	moved, err := pro.WithAttr("Delta", quantity.Of(2, "kpc"))
	require.NoError(t, err)
	d, _ := moved.Attr("Delta")
	assert.Equal(t, 2.0, d.At(0))

	_, err = pro.WithAttr("Delta", quantity.Of(3, "kpc"))
	assert.ErrorIs(t, err, vecerr.ErrDomain, "mu below Delta^2")

	_, err = sph.WithAttr("Delta", quantity.Of(1, "kpc"))
	assert.ErrorIs(t, err, vecerr.ErrInvalidComponent)
}
