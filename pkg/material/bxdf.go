package material

import (
	"fmt"
	"math"

	"github.com/phoekz/raydiance-sub000/pkg/core"
)

// Epsilon is the smallest pdf a sampled direction may have. It also clamps
// cosines in denominators.
const Epsilon = 0.001

// Model identifies one of the reflectance models
type Model uint8

const (
	ModelLambertian Model = iota
	ModelDisneyDiffuse
	ModelDisneySpecular
	ModelDisneySheen
)

func (m Model) String() string {
	switch m {
	case ModelLambertian:
		return "lambertian"
	case ModelDisneyDiffuse:
		return "disney-diffuse"
	case ModelDisneySpecular:
		return "disney-specular"
	case ModelDisneySheen:
		return "disney-sheen"
	}
	return fmt.Sprintf("Model(%d)", uint8(m))
}

// Sample is a direction drawn from a BxDF with its reflectance and density
type Sample struct {
	Wi  core.Vec3 // Incoming direction in local space
	R   core.Vec3 // Reflectance f(wo, wi)
	PDF float64   // Solid-angle density of Wi, always > Epsilon
}

// BxDF is a reflectance model in local shading space, where the shading
// normal is +Y. All directions point away from the surface.
//
// It is a closed set of models selected by Model(); the zero value is not usable.
type BxDF struct {
	model      Model
	hemisphere core.HemisphereSampler
	color      core.Vec3 // Base, specular or sheen color depending on the model
	roughness  float64
	alphaX     float64
	alphaY     float64
}

// Model returns which reflectance model b implements
func (b *BxDF) Model() Model {
	return b.model
}

// Eval returns the reflectance for the pair of directions
func (b *BxDF) Eval(wo, wi core.Vec3) core.Vec3 {
	switch b.model {
	case ModelLambertian:
		return b.color.Multiply(1.0 / math.Pi)
	case ModelDisneyDiffuse:
		return b.evalDisneyDiffuse(wo, wi)
	case ModelDisneySpecular:
		return b.evalDisneySpecular(wo, wi)
	case ModelDisneySheen:
		return b.evalDisneySheen(wo, wi)
	}
	panic(fmt.Sprintf("material: unknown model %v", b.model))
}

// PDF returns the density with which Sample would produce wi given wo
func (b *BxDF) PDF(wo, wi core.Vec3) float64 {
	switch b.model {
	case ModelLambertian:
		return b.hemisphere.PDF(math.Max(0, cosTheta(wi)))
	case ModelDisneyDiffuse, ModelDisneySheen:
		return b.hemisphere.PDF(math.Abs(cosTheta(wi)))
	case ModelDisneySpecular:
		return b.pdfDisneySpecular(wo, wi)
	}
	panic(fmt.Sprintf("material: unknown model %v", b.model))
}

// Sample draws an incoming direction for wo from the uniform sample u.
// It returns false when the drawn direction is unusable.
func (b *BxDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	var wi core.Vec3
	if b.model == ModelDisneySpecular {
		wm := b.sampleVisibleNormal(wo, u)
		wi = wo.Reflect(wm)
		if !sameHemisphere(wo, wi) {
			return Sample{}, false
		}
	} else {
		wi = b.hemisphere.Sample(u.X, u.Y)
	}

	pdf := b.PDF(wo, wi)
	if !(pdf > Epsilon) {
		return Sample{}, false
	}
	return Sample{Wi: wi, R: b.Eval(wo, wi), PDF: pdf}, true
}

// Local shading space helpers. The normal is +Y.

func cosTheta(w core.Vec3) float64 {
	return w.Y
}

func cos2Theta(w core.Vec3) float64 {
	return w.Y * w.Y
}

func sin2Theta(w core.Vec3) float64 {
	return math.Max(0, 1-cos2Theta(w))
}

func sinTheta(w core.Vec3) float64 {
	return math.Sqrt(sin2Theta(w))
}

func tan2Theta(w core.Vec3) float64 {
	return sin2Theta(w) / cos2Theta(w)
}

func cosPhi(w core.Vec3) float64 {
	s := sinTheta(w)
	if s == 0 {
		return 1
	}
	return math.Max(-1, math.Min(1, w.X/s))
}

func sinPhi(w core.Vec3) float64 {
	s := sinTheta(w)
	if s == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, w.Z/s))
}

// halfVector returns the microsurface normal between wo and wi
func halfVector(wo, wi core.Vec3) core.Vec3 {
	return wo.Add(wi).Normalize()
}

func sameHemisphere(a, b core.Vec3) bool {
	return a.Y*b.Y > 0
}

func pow5(x float64) float64 {
	x2 := x * x
	return x2 * x2 * x
}

// tintColor returns the hue of c with its luminance normalized away
func tintColor(c core.Vec3) core.Vec3 {
	l := c.Luminance()
	if l > 0 {
		return c.Multiply(1.0 / l)
	}
	return core.White
}
