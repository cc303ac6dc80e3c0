// Package sky implements an analytic daylight model (Preetham et al. 1999,
// "A Practical Analytic Model for Daylight") with a uniform-albedo ground.
package sky

import (
	"fmt"
	"math"

	"github.com/phoekz/raydiance-sub000/pkg/core"
)

// Params configures the sun position and atmosphere
type Params struct {
	Elevation float64   // Sun angle above the horizon in radians
	Azimuth   float64   // Sun angle around +Y in radians, measured from +X towards +Z
	Turbidity float64   // Haziness, 1 is a perfectly clear sky
	Albedo    core.Vec3 // Ground reflectance
}

// DefaultParams returns a clear mid-morning sky
func DefaultParams() Params {
	return Params{
		Elevation: 45.0 * math.Pi / 180.0,
		Azimuth:   0,
		Turbidity: 3,
		Albedo:    core.White,
	}
}

// Validate checks every parameter against its physical range
func (p Params) Validate() error {
	if !(p.Azimuth >= 0 && p.Azimuth <= 2*math.Pi) {
		return fmt.Errorf("%w, got %v", ErrInvalidAzimuth, p.Azimuth)
	}
	if !(p.Elevation >= 0 && p.Elevation <= math.Pi/2) {
		return fmt.Errorf("%w, got %v", ErrInvalidElevation, p.Elevation)
	}
	if !(p.Turbidity >= 1 && p.Turbidity <= 10) {
		return fmt.Errorf("%w, got %v", ErrInvalidTurbidity, p.Turbidity)
	}
	for _, c := range []float64{p.Albedo.X, p.Albedo.Y, p.Albedo.Z} {
		if !(c >= 0 && c <= 1) {
			return fmt.Errorf("%w, got %v", ErrInvalidAlbedo, p.Albedo)
		}
	}
	return nil
}

// perez holds the five distribution coefficients of one xyY channel
type perez struct {
	a, b, c, d, e float64
}

// eval is the Perez luminance distribution for view zenith angle cos and sun angle gamma
func (p perez) eval(cosTheta, gamma float64) float64 {
	cosGamma := math.Cos(gamma)
	return (1 + p.a*math.Exp(p.b/cosTheta)) * (1 + p.c*math.Exp(p.d*gamma) + p.e*cosGamma*cosGamma)
}

// Sky evaluates radiance for view directions. It is immutable and safe for concurrent use.
type Sky struct {
	params   Params
	sunDir   core.Vec3
	channels [3]perez   // x, y, Y
	zenith   [3]float64 // Zenith x, y, Y divided by the distribution at the zenith
}

// New validates params and precomputes the sun direction and model coefficients
func New(params Params) (*Sky, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	theta := 0.5*math.Pi - params.Elevation
	sunDir := core.NewVec3(
		math.Sin(theta)*math.Cos(params.Azimuth),
		math.Cos(theta),
		math.Sin(theta)*math.Sin(params.Azimuth),
	)

	t := params.Turbidity
	channels := [3]perez{
		{-0.0193*t - 0.2592, -0.0665*t + 0.0008, -0.0004*t + 0.2125, -0.0641*t - 0.8989, -0.0033*t + 0.0452},
		{-0.0167*t - 0.2608, -0.0950*t + 0.0092, -0.0079*t + 0.2102, -0.0441*t - 1.6537, -0.0109*t + 0.0529},
		{0.1787*t - 1.4630, -0.3554*t + 0.4275, -0.0227*t + 5.3251, 0.1206*t - 2.5771, -0.0670*t + 0.3703},
	}

	zx, zy, zY := zenith(t, theta)
	z := [3]float64{zx, zy, zY}
	var scale [3]float64
	for i := range channels {
		// Distribution value looking straight up, where gamma equals the sun zenith angle
		scale[i] = z[i] / channels[i].eval(1, theta)
	}

	return &Sky{params: params, sunDir: sunDir, channels: channels, zenith: scale}, nil
}

// zenith returns the chromaticity and luminance (kcd/m²) at the zenith
func zenith(t, thetaSun float64) (float64, float64, float64) {
	chi := (4.0/9.0 - t/120.0) * (math.Pi - 2*thetaSun)
	luminance := (4.0453*t-4.9710)*math.Tan(chi) - 0.2155*t + 2.4192

	t2 := t * t
	th := [4]float64{thetaSun * thetaSun * thetaSun, thetaSun * thetaSun, thetaSun, 1}
	mx := [3][4]float64{
		{0.00166, -0.00375, 0.00209, 0},
		{-0.02903, 0.06377, -0.03202, 0.00394},
		{0.11693, -0.21196, 0.06052, 0.25886},
	}
	my := [3][4]float64{
		{0.00275, -0.00610, 0.00317, 0},
		{-0.04214, 0.08970, -0.04153, 0.00516},
		{0.15346, -0.26756, 0.06670, 0.26688},
	}
	tv := [3]float64{t2, t, 1}

	var x, y float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			x += tv[i] * mx[i][j] * th[j]
			y += tv[i] * my[i][j] * th[j]
		}
	}
	return x, y, math.Max(0, luminance)
}

// Params returns the parameters the sky was built with
func (s *Sky) Params() Params {
	return s.params
}

// SunDirection returns the unit vector towards the sun
func (s *Sky) SunDirection() core.Vec3 {
	return s.sunDir
}

// Radiance returns linear sRGB radiance arriving from unit direction dir.
// Directions below the horizon see the ground lit by the horizon sky.
func (s *Sky) Radiance(dir core.Vec3) core.Vec3 {
	if dir.Y < 0 {
		horizon := core.NewVec3(dir.X, 0, dir.Z).Normalize()
		if horizon.LengthSquared() == 0 {
			horizon = core.NewVec3(1, 0, 0)
		}
		return s.skyRadiance(horizon).MultiplyVec(s.params.Albedo)
	}
	return s.skyRadiance(dir)
}

func (s *Sky) skyRadiance(dir core.Vec3) core.Vec3 {
	cosTheta := math.Max(dir.Y, 1e-3)
	gamma := math.Acos(math.Max(-1, math.Min(1, dir.Dot(s.sunDir))))

	x := s.zenith[0] * s.channels[0].eval(cosTheta, gamma)
	y := s.zenith[1] * s.channels[1].eval(cosTheta, gamma)
	lum := s.zenith[2] * s.channels[2].eval(cosTheta, gamma)
	if y <= 0 || lum <= 0 {
		return core.Black
	}

	// xyY to XYZ to linear sRGB
	bigX := x / y * lum
	bigZ := (1 - x - y) / y * lum
	rgb := core.NewVec3(
		3.2406*bigX-1.5372*lum-0.4986*bigZ,
		-0.9689*bigX+1.8758*lum+0.0415*bigZ,
		0.0557*bigX-0.2040*lum+1.0570*bigZ,
	)
	return core.NewVec3(math.Max(0, rgb.X), math.Max(0, rgb.Y), math.Max(0, rgb.Z))
}
