package material

import (
	"github.com/phoekz/raydiance-sub000/pkg/core"
)

// LambertianParams configures a perfectly diffuse reflector
type LambertianParams struct {
	Hemisphere core.HemisphereSampler
	BaseColor  core.Vec3
}

// NewLambertian creates a Lambertian BxDF with reflectance base_color/π
func NewLambertian(p LambertianParams) BxDF {
	return BxDF{
		model:      ModelLambertian,
		hemisphere: p.Hemisphere,
		color:      p.BaseColor,
	}
}
