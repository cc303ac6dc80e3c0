package material

import (
	"math"

	"github.com/phoekz/raydiance-sub000/pkg/core"
)

// DisneySheenParams configures the sheen lobe of the Disney BRDF
type DisneySheenParams struct {
	Hemisphere core.HemisphereSampler
	BaseColor  core.Vec3
	Sheen      float64
	SheenTint  float64
}

// Validate reports a RangeError for out-of-range parameters
func (p DisneySheenParams) Validate() error {
	return checkUnit(
		namedValue{"sheen", p.Sheen},
		namedValue{"sheen_tint", p.SheenTint},
	)
}

// NewDisneySheen creates the grazing-angle sheen BxDF used for cloth-like surfaces
func NewDisneySheen(p DisneySheenParams) BxDF {
	mustValidate(p.Validate())
	return BxDF{
		model:      ModelDisneySheen,
		hemisphere: p.Hemisphere,
		color:      core.White.Lerp(tintColor(p.BaseColor), p.SheenTint).Multiply(p.Sheen),
	}
}

func (b *BxDF) evalDisneySheen(wo, wi core.Vec3) core.Vec3 {
	wm := halfVector(wo, wi)
	fresnel := pow5(math.Max(0, math.Min(1, 1.0-wi.Dot(wm))))
	return b.color.Multiply(fresnel)
}
