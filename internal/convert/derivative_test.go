package convert

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

var kms = quantity.MustParse("km / s")

type countingObserver struct {
	mu          sync.Mutex
	conversions map[string]int
	lossy       int
	jacobians   int
}

func (o *countingObserver) ObserveConversion(kind, tier string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.conversions == nil {
		o.conversions = map[string]int{}
	}
	o.conversions[kind+"/"+tier]++
}

func (o *countingObserver) ObserveLossy(string, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lossy++
}

func (o *countingObserver) ObserveJacobians(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.jacobians += n
}

func TestVelocityCartesianToCylindrical(t *testing.T) {
	c := New()
	pos := cart3("km", 1, 2, 3)
	vel := cartVel3("km / s", 1, 2, 3)

	cyl, err := c.Velocity(vel, vector.CylindricalVel, pos)
	require.NoError(t, err)

	dRho, err := cyl.MustComponent("d_rho").Value(kms)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(5), dRho[0], 1e-12)
	assert.InDelta(t, 0, cyl.MustComponent("d_phi").At(0), 1e-12)
	assert.True(t, cyl.MustComponent("d_phi").Unit().Is(quantity.AngularSpeed))
	dz, err := cyl.MustComponent("d_z").Value(kms)
	require.NoError(t, err)
	assert.InDelta(t, 3, dz[0], 1e-12)
}

func TestVelocityRoundTrip(t *testing.T) {
	c := New()
	pos := vector.MustNew(vector.SphericalPos, vector.Components{
		"r": quantity.Vec("kpc", 8, 1, 20), "theta": quantity.Vec("rad", 1, 0.4, 2.5), "phi": quantity.Vec("rad", 0.2, 3, 5),
	})
	vel := cartVel3("km / s", 10, -200, 5)

	sph, err := c.Velocity(vel, vector.SphericalVel, pos)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, sph.Shape())

	back, err := c.Velocity(sph, vector.CartesianVel3D, pos)
	require.NoError(t, err)
	for _, name := range []string{"d_x", "d_y", "d_z"} {
		got, err := back.MustComponent(name).Value(kms)
		require.NoError(t, err)
		want := vel.MustComponent(name).At(0)
		for i := range got {
			assert.InDelta(t, want, got[i], 1e-6, "%s[%d]", name, i)
		}
	}
}

func TestVelocityAcceptsRawArrays(t *testing.T) {
	c := New()
	pos := vector.Raw(quantity.Vec("m", 0, 3, 4))
	vel := vector.Raw(quantity.Vec("m / s", 0, 0, 1))

	sph, err := c.Velocity(vel, vector.SphericalVel, pos)
	require.NoError(t, err)
	dr, err := sph.MustComponent("d_r").Value(quantity.MustParse("m / s"))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, dr[0], 1e-12)
}

func TestVelocityAtPoleIsFinite(t *testing.T) {
	c := New()
	pos := cart3("km", 0, 0, 0)
	vel := cartVel3("km / s", 0, 0, 0)
	cyl, err := c.Velocity(vel, vector.CylindricalVel, pos)
	require.NoError(t, err)
	for _, name := range cyl.Type().FieldNames() {
		assert.False(t, math.IsNaN(cyl.MustComponent(name).At(0)), name)
	}
}

func TestBatchIsElementwise(t *testing.T) {
	const n = 257
	xs, ys, zs := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range xs {
		f := float64(i)
		xs[i], ys[i], zs[i] = math.Cos(f)*(1+f), math.Sin(f)*(2+f), f-100
	}
	batch := vector.MustNew(vector.CartesianPos3D, vector.Components{
		"x": quantity.Vec("km", xs...), "y": quantity.Vec("km", ys...), "z": quantity.Vec("km", zs...),
	})
	vel := cartVel3("km / s", 1, 2, 3)

	obs := &countingObserver{}
	c := New(WithWorkers(4), WithParallelThreshold(1), WithObserver(obs))
	all, err := c.Velocity(vel, vector.SphericalVel, batch)
	require.NoError(t, err)
	require.Equal(t, []int{n}, all.Shape())
	assert.Equal(t, n, obs.jacobians)

	serial := New()
	for _, i := range []int{0, 1, 100, n - 1} {
		one, err := serial.Velocity(vel, vector.SphericalVel, cart3("km", xs[i], ys[i], zs[i]))
		require.NoError(t, err)
		for _, name := range one.Type().FieldNames() {
			assert.InDelta(t, one.MustComponent(name).At(0), all.MustComponent(name).At(i), 1e-12, "%s[%d]", name, i)
		}
	}
}

func TestDerivativeShapeMismatch(t *testing.T) {
	c := New()
	pos := vector.MustNew(vector.CartesianPos3D, vector.Components{
		"x": quantity.Vec("km", 1, 2), "y": quantity.Vec("km", 1, 2), "z": quantity.Vec("km", 1, 2),
	})
	vel := vector.MustNew(vector.CartesianVel3D, vector.Components{
		"d_x": quantity.Vec("km / s", 1, 2, 3), "d_y": quantity.Vec("km / s", 1, 2, 3), "d_z": quantity.Vec("km / s", 1, 2, 3),
	})
	_, err := c.Velocity(vel, vector.SphericalVel, pos)
	assert.ErrorIs(t, err, vecerr.ErrShape)
}

func TestDerivativeNeedsPosition(t *testing.T) {
	c := New()
	_, err := c.Velocity(cartVel3("km / s", 1, 2, 3), vector.SphericalVel, nil)
	assert.ErrorIs(t, err, vecerr.ErrMissingComponent)
}

func TestAcceleration(t *testing.T) {
	c := New()
	pos := cart3("km", 1, 0, 0)
	acc := vector.MustNew(vector.CartesianAcc3D, vector.Components{
		"d2_x": quantity.Of(0, "km / s2"), "d2_y": quantity.Of(2, "km / s2"), "d2_z": quantity.Of(0, "km / s2"),
	})

	_, err := c.Acceleration(acc, vector.CylindricalAcc, nil, pos)
	assert.ErrorIs(t, err, vecerr.ErrMissingComponent)

	vel := cartVel3("km / s", 0, 1, 0)
	cyl, err := c.Acceleration(acc, vector.CylindricalAcc, vel, pos)
	require.NoError(t, err)
	assert.InDelta(t, 0, cyl.MustComponent("d2_rho").At(0), 1e-12)
	dphi, err := cyl.MustComponent("d2_phi").Value(quantity.MustParse("rad / s2"))
	require.NoError(t, err)
	assert.InDelta(t, 2, dphi[0], 1e-12)
}

func TestDerivativeKindChecks(t *testing.T) {
	c := New()
	_, err := c.Velocity(cart3("km", 1, 2, 3), vector.SphericalVel, cart3("km", 1, 2, 3))
	assert.Error(t, err)

	_, err = c.Derivative(vector.SphericalPos, cartVel3("km / s", 1, 2, 3), nil, cart3("km", 1, 2, 3))
	assert.ErrorIs(t, err, vecerr.ErrUnsupportedConversion)
}

func TestProlateVelocityRoundTrip(t *testing.T) {
	c := New()
	pos := cart3("kpc", 3, -1, 2)
	vel := cartVel3("kpc / Myr", 0.1, 0.2, -0.3)
	delta := WithFocalLength(quantity.Of(2, "kpc"))

	pro, err := c.Velocity(vel, vector.ProlateSpheroidalVel, pos, delta)
	require.NoError(t, err)

	proPos, err := c.Position(pos, vector.ProlateSpheroidalPos, delta)
	require.NoError(t, err)
	back, err := c.Velocity(pro, vector.CartesianVel3D, proPos)
	require.NoError(t, err)

	u := quantity.MustParse("kpc / Myr")
	for _, name := range []string{"d_x", "d_y", "d_z"} {
		got, err := back.MustComponent(name).Value(u)
		require.NoError(t, err)
		assert.InDelta(t, vel.MustComponent(name).At(0), got[0], 1e-9, name)
	}
}

func TestJacobianMatchesFiniteDifferences(t *testing.T) {
	c := New()
	x := []float64{1, 2, 3}
	res, err := c.Jacobian(vector.CartesianPos3D, vector.SphericalPos, cart3("km", x[0], x[1], x[2]))
	require.NoError(t, err)
	require.Len(t, res.Matrices, 1)
	assert.Equal(t, "km", res.InUnits[0].String())

	want := mat.NewDense(3, 3, nil)
	fd.Jacobian(want, func(y, x []float64) {
		r := math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
		y[0] = r
		y[1] = math.Acos(x[2] / r)
		y[2] = math.Atan2(x[1], x[0])
	}, x, &fd.JacobianSettings{Formula: fd.Central})
	assert.True(t, mat.EqualApprox(want, res.Matrices[0], 1e-6), "got\n%v\nwant\n%v",
		mat.Formatted(res.Matrices[0]), mat.Formatted(want))

	_, err = c.Jacobian(vector.SphericalPos, vector.SphericalVel, cart3("km", x[0], x[1], x[2]))
	assert.ErrorIs(t, err, vecerr.ErrUnsupportedConversion)
}

func TestObserverSeesTiers(t *testing.T) {
	obs := &countingObserver{}
	c := New(WithObserver(obs))
	v := cart3("km", 1, 2, 3)

	_, err := c.Position(v, vector.CartesianPos3D)
	require.NoError(t, err)
	_, err = c.Position(v, vector.SphericalPos)
	require.NoError(t, err)
	_, err = c.Position(v, vector.PolarPos)
	require.NoError(t, err)

	assert.Equal(t, 1, obs.conversions["position/identity"])
	assert.Equal(t, 2, obs.conversions["position/direct"])
	assert.Equal(t, 1, obs.lossy)
}

func TestWarningsIncludePositionRecharting(t *testing.T) {
	c := New()
	var ws Warnings
	vel := vector.MustNew(vector.RadialVel, vector.Components{"d_r": quantity.Of(5, "km / s")})

	out, err := c.Velocity(vel, vector.CartesianVel1D, cart3("km", 1, 2, 2), CollectWarnings(&ws))
	require.NoError(t, err)
	dx, err := out.MustComponent("d_x").Value(kms)
	require.NoError(t, err)
	assert.InDelta(t, 5, dx[0], 1e-12)

	got := ws.List()
	require.Len(t, got, 1)
	assert.Equal(t, "CartesianPos3D", got[0].From)
	assert.Equal(t, "RadialPos", got[0].To)

	var quiet Warnings
	_, err = c.With(WithLossyPolicy(vecerr.LossyIgnore)).Velocity(vel, vector.CartesianVel1D, cart3("km", 1, 2, 2), CollectWarnings(&quiet))
	require.NoError(t, err)
	assert.Empty(t, quiet.List())
}

func TestProlatePositionKeepsItsFocalLength(t *testing.T) {
	c := New()
	pos, err := c.Position(cart3("kpc", 3, -1, 2), vector.ProlateSpheroidalPos, WithFocalLength(quantity.Of(2, "kpc")))
	require.NoError(t, err)
	vel := vector.MustNew(vector.ProlateSpheroidalVel, vector.Components{
		"d_mu": quantity.Of(0.3, "kpc2 / Myr"), "d_nu": quantity.Of(-0.1, "kpc2 / Myr"), "d_phi": quantity.Of(0.05, "rad / Myr"),
	})

	want, err := c.Velocity(vel, vector.CylindricalVel, pos)
	require.NoError(t, err)
	got, err := c.Velocity(vel, vector.CylindricalVel, pos, WithFocalLength(quantity.Of(3, "kpc")))
	require.NoError(t, err)

	for _, name := range want.Type().FieldNames() {
		assert.InDelta(t, want.MustComponent(name).At(0), got.MustComponent(name).At(0), 1e-12, name)
	}
}
