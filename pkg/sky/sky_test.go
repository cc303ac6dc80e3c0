package sky

import (
	"errors"
	"math"
	"testing"

	"github.com/phoekz/raydiance-sub000/pkg/core"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(p *Params)
		expected error
	}{
		{"default", func(p *Params) {}, nil},
		{"negative azimuth", func(p *Params) { p.Azimuth = -0.1 }, ErrInvalidAzimuth},
		{"azimuth above 2pi", func(p *Params) { p.Azimuth = 7 }, ErrInvalidAzimuth},
		{"elevation below horizon", func(p *Params) { p.Elevation = -0.1 }, ErrInvalidElevation},
		{"elevation past zenith", func(p *Params) { p.Elevation = 2 }, ErrInvalidElevation},
		{"nan elevation", func(p *Params) { p.Elevation = math.NaN() }, ErrInvalidElevation},
		{"low turbidity", func(p *Params) { p.Turbidity = 0.5 }, ErrInvalidTurbidity},
		{"high turbidity", func(p *Params) { p.Turbidity = 11 }, ErrInvalidTurbidity},
		{"albedo", func(p *Params) { p.Albedo = core.NewVec3(0.5, 1.5, 0.5) }, ErrInvalidAlbedo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.modify(&params)
			s, err := New(params)
			if tt.expected == nil {
				if err != nil || s == nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		elevation, azimuth float64
		expected           core.Vec3
	}{
		{math.Pi / 2, 0, core.NewVec3(0, 1, 0)},
		{0, 0, core.NewVec3(1, 0, 0)},
		{0, math.Pi / 2, core.NewVec3(0, 0, 1)},
		{math.Pi / 4, math.Pi, core.NewVec3(-math.Sqrt2/2, math.Sqrt2/2, 0)},
	}

	for _, tt := range tests {
		params := DefaultParams()
		params.Elevation = tt.elevation
		params.Azimuth = tt.azimuth
		s, err := New(params)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got := s.SunDirection(); got.Subtract(tt.expected).Length() > 1e-9 {
			t.Errorf("elevation %v azimuth %v: expected %v, got %v", tt.elevation, tt.azimuth, tt.expected, got)
		}
		if s.Params() != params {
			t.Errorf("Expected params %+v, got %+v", params, s.Params())
		}
	}
}

func TestRadiance(t *testing.T) {
	for _, turbidity := range []float64{2, 3, 10} {
		for _, elevation := range []float64{0.05, math.Pi / 6, math.Pi / 2} {
			params := DefaultParams()
			params.Turbidity = turbidity
			params.Elevation = elevation
			s, err := New(params)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			for theta := 0.0; theta < math.Pi; theta += 0.1 {
				for phi := 0.0; phi < 2*math.Pi; phi += 0.3 {
					dir := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
					l := s.Radiance(dir)
					if !l.IsFinite() || l.X < 0 || l.Y < 0 || l.Z < 0 {
						t.Fatalf("turbidity %v elevation %v: bad radiance %v for %v", turbidity, elevation, l, dir)
					}
				}
			}

			if l := s.Radiance(core.NewVec3(0, 1, 0)); l.Luminance() <= 0 {
				t.Errorf("turbidity %v elevation %v: expected a lit zenith, got %v", turbidity, elevation, l)
			}
		}
	}
}

func TestRadiance_BrighterTowardsSun(t *testing.T) {
	params := DefaultParams()
	params.Elevation = math.Pi / 6
	s, err := New(params)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sun := s.Radiance(s.SunDirection()).Luminance()
	away := s.Radiance(core.NewVec3(-math.Cos(math.Pi/6), math.Sin(math.Pi/6), 0)).Luminance()
	if sun <= away {
		t.Errorf("Expected the sky around the sun to be brighter: %v <= %v", sun, away)
	}
}

func TestRadiance_Ground(t *testing.T) {
	params := DefaultParams()
	params.Albedo = core.NewVec3(0.5, 0.25, 0)
	s, err := New(params)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	horizon := s.Radiance(core.NewVec3(1, 0, 0))
	ground := s.Radiance(core.NewVec3(1, -1, 0).Normalize())
	expected := horizon.MultiplyVec(params.Albedo)
	if ground.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected ground %v, got %v", expected, ground)
	}

	// Straight down has no horizon direction of its own
	if l := s.Radiance(core.NewVec3(0, -1, 0)); !l.IsFinite() {
		t.Errorf("Expected finite radiance straight down, got %v", l)
	}
}
