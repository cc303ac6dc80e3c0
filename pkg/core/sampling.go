package core

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Sampler provides uniform random numbers in [0, 1) for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a seeded PCG generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a pair of seeds
func NewRandomSampler(seed1, seed2 uint64) *RandomSampler {
	return &RandomSampler{random: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewPixelSampler creates the sampler for one pixel of one sample pass.
// The stream depends only on its arguments, so a pass can be re-rendered bit for bit.
func NewPixelSampler(salt uint64, sampleIndex int, x, y int) *RandomSampler {
	seed1 := salt ^ (uint64(sampleIndex) * 0x9e3779b97f4a7c15)
	seed2 := uint64(uint32(y))<<32 | uint64(uint32(x))
	return NewRandomSampler(seed1, seed2)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// HemisphereSampler selects how directions are drawn on the local +Y hemisphere
type HemisphereSampler uint8

const (
	HemisphereUniform HemisphereSampler = iota
	HemisphereCosine
)

// ParseHemisphereSampler parses "uniform" or "cosine"
func ParseHemisphereSampler(name string) (HemisphereSampler, error) {
	switch name {
	case "uniform":
		return HemisphereUniform, nil
	case "cosine":
		return HemisphereCosine, nil
	}
	return 0, fmt.Errorf("core: unknown hemisphere sampler %q", name)
}

func (h HemisphereSampler) String() string {
	switch h {
	case HemisphereUniform:
		return "uniform"
	case HemisphereCosine:
		return "cosine"
	}
	return fmt.Sprintf("HemisphereSampler(%d)", uint8(h))
}

// Sample maps a uniform 2D sample to a unit direction with y >= 0
func (h HemisphereSampler) Sample(u, v float64) Vec3 {
	if h == HemisphereUniform {
		return SampleUniformHemisphere(u, v)
	}
	return SampleCosineHemisphere(u, v)
}

// PDF returns the solid-angle density of a direction with the given cos(theta)
func (h HemisphereSampler) PDF(cosTheta float64) float64 {
	var pdf float64
	if h == HemisphereUniform {
		pdf = 1.0 / (2.0 * math.Pi)
	} else {
		pdf = cosTheta / math.Pi
	}
	if pdf < 0 || pdf > 1 {
		panic(fmt.Sprintf("core: hemisphere pdf must be in [0,1], got %v", pdf))
	}
	return pdf
}

// SampleUniformHemisphere generates a solid-angle-uniform direction around +Y
func SampleUniformHemisphere(u, v float64) Vec3 {
	phi := 2.0 * math.Pi * u
	r := math.Sqrt(math.Max(0, 1.0-v*v))
	return NewVec3(r*math.Cos(phi), v, r*math.Sin(phi)).Normalize()
}

// SampleCosineHemisphere generates a cosine-weighted direction around +Y (Malley's method)
func SampleCosineHemisphere(u, v float64) Vec3 {
	d := SampleConcentricDisk(u, v)
	y := math.Sqrt(math.Max(0, 1.0-d.X*d.X-d.Y*d.Y))
	return NewVec3(d.X, y, d.Y).Normalize()
}

// SampleConcentricDisk maps the unit square uniformly to the unit disk
// This avoids rejection sampling and keeps strata adjacent
func SampleConcentricDisk(u, v float64) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	s := 2*u - 1
	t := 2*v - 1
	if s == 0 && t == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(s) > math.Abs(t) {
		r = s
		theta = math.Pi / 4 * (t / s)
	} else {
		r = t
		theta = math.Pi/2 - math.Pi/4*(s/t)
	}

	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// OrthonormalBasis maps between world space and a local frame whose Y axis is the normal
type OrthonormalBasis struct {
	Tangent   Vec3
	Normal    Vec3
	Bitangent Vec3
}

// NewOrthonormalBasis builds a frame around the unit normal n.
// Based on "Building an Orthonormal Basis, Revisited" (Duff et al. 2017); stable at both poles.
func NewOrthonormalBasis(n Vec3) OrthonormalBasis {
	sign := math.Copysign(1.0, n.Z)
	a := -1.0 / (sign + n.Z)
	b := n.X * n.Y * a
	return OrthonormalBasis{
		Tangent:   NewVec3(1.0+sign*n.X*n.X*a, sign*b, -sign*n.X),
		Normal:    n,
		Bitangent: NewVec3(b, sign+n.Y*n.Y*a, -n.Y),
	}
}

// LocalFromWorld expresses a world-space vector in the local frame
func (o OrthonormalBasis) LocalFromWorld(w Vec3) Vec3 {
	return NewVec3(w.Dot(o.Tangent), w.Dot(o.Normal), w.Dot(o.Bitangent))
}

// WorldFromLocal expresses a local-frame vector in world space
func (o OrthonormalBasis) WorldFromLocal(l Vec3) Vec3 {
	return o.Tangent.Multiply(l.X).Add(o.Normal.Multiply(l.Y)).Add(o.Bitangent.Multiply(l.Z))
}
