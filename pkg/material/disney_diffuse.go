package material

import (
	"math"

	"github.com/phoekz/raydiance-sub000/pkg/core"
)

// DisneyDiffuseParams configures the diffuse lobe of the Disney BRDF
type DisneyDiffuseParams struct {
	Hemisphere core.HemisphereSampler
	BaseColor  core.Vec3
	Roughness  float64
}

// Validate reports a RangeError for out-of-range parameters
func (p DisneyDiffuseParams) Validate() error {
	return checkUnit(
		namedValue{"roughness", p.Roughness},
	)
}

// NewDisneyDiffuse creates a Disney diffuse BxDF: Lambertian with a
// roughness-dependent retroreflection at grazing angles.
func NewDisneyDiffuse(p DisneyDiffuseParams) BxDF {
	mustValidate(p.Validate())
	return BxDF{
		model:      ModelDisneyDiffuse,
		hemisphere: p.Hemisphere,
		color:      p.BaseColor,
		roughness:  p.Roughness,
	}
}

func (b *BxDF) evalDisneyDiffuse(wo, wi core.Vec3) core.Vec3 {
	cosI := math.Max(math.Abs(cosTheta(wi)), Epsilon)
	cosO := math.Max(math.Abs(cosTheta(wo)), Epsilon)

	wm := halfVector(wo, wi)
	dotIM := wi.Dot(wm)
	fd90 := 0.5 + 2.0*b.roughness*dotIM*dotIM
	fdI := 1.0 + (fd90-1.0)*pow5(1.0-cosI)
	fdO := 1.0 + (fd90-1.0)*pow5(1.0-cosO)

	return b.color.Multiply(fdI * fdO / math.Pi)
}
