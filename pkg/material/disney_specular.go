package material

import (
	"math"

	"github.com/phoekz/raydiance-sub000/pkg/core"
)

// DisneySpecularParams configures the anisotropic GGX specular lobe
type DisneySpecularParams struct {
	BaseColor    core.Vec3
	Metallic     float64
	Specular     float64
	SpecularTint float64
	Roughness    float64
	Anisotropic  float64
}

// Validate reports a RangeError for out-of-range parameters
func (p DisneySpecularParams) Validate() error {
	return checkUnit(
		namedValue{"metallic", p.Metallic},
		namedValue{"specular", p.Specular},
		namedValue{"specular_tint", p.SpecularTint},
		namedValue{"roughness", p.Roughness},
		namedValue{"anisotropic", p.Anisotropic},
	)
}

// NewDisneySpecular creates a GGX microfacet BxDF with height-correlated
// Smith masking-shadowing and Schlick Fresnel.
//
// References:
//   - Understanding the Masking-Shadowing Function in Microfacet-Based BRDFs (Heitz 2014)
//   - A Simpler and Exact Sampling Routine for the GGX Distribution of Visible Normals (Heitz 2017)
func NewDisneySpecular(p DisneySpecularParams) BxDF {
	mustValidate(p.Validate())

	dielectric := core.White.Lerp(tintColor(p.BaseColor), p.SpecularTint).Multiply(p.Specular * 0.08)
	specularColor := dielectric.Lerp(p.BaseColor, p.Metallic)

	aspect := math.Sqrt(1.0 - 0.9*p.Anisotropic)
	r2 := p.Roughness * p.Roughness

	return BxDF{
		model:     ModelDisneySpecular,
		color:     specularColor,
		roughness: p.Roughness,
		alphaX:    math.Max(0.001, r2/aspect),
		alphaY:    math.Max(0.001, r2*aspect),
	}
}

// ggxD is the anisotropic GGX normal distribution
func (b *BxDF) ggxD(wm core.Vec3) float64 {
	t2 := tan2Theta(wm)
	if math.IsInf(t2, 0) || math.IsNaN(t2) {
		return 0
	}
	cos4 := cos2Theta(wm) * cos2Theta(wm)
	cx := cosPhi(wm) / b.alphaX
	sy := sinPhi(wm) / b.alphaY
	e := t2 * (cx*cx + sy*sy)
	return 1.0 / (math.Pi * b.alphaX * b.alphaY * cos4 * (1 + e) * (1 + e))
}

// ggxLambda is the Smith auxiliary function for direction w
func (b *BxDF) ggxLambda(w core.Vec3) float64 {
	t2 := tan2Theta(w)
	if math.IsInf(t2, 0) || math.IsNaN(t2) {
		return 0
	}
	cx := cosPhi(w) * b.alphaX
	sy := sinPhi(w) * b.alphaY
	alpha2 := cx*cx + sy*sy
	return (math.Sqrt(1+alpha2*t2) - 1) / 2
}

func (b *BxDF) ggxG1(w core.Vec3) float64 {
	return 1.0 / (1.0 + b.ggxLambda(w))
}

// ggxG is the height-correlated masking-shadowing function
func (b *BxDF) ggxG(wo, wi core.Vec3) float64 {
	return 1.0 / (1.0 + b.ggxLambda(wo) + b.ggxLambda(wi))
}

func (b *BxDF) fresnel(wo, wm core.Vec3) core.Vec3 {
	f := pow5(math.Max(0, math.Min(1, 1.0-wo.Dot(wm))))
	return b.color.Lerp(core.White, f)
}

func (b *BxDF) evalDisneySpecular(wo, wi core.Vec3) core.Vec3 {
	cosI := math.Max(math.Abs(cosTheta(wi)), Epsilon)
	cosO := math.Max(math.Abs(cosTheta(wo)), Epsilon)

	wm := halfVector(wo, wi)
	d := b.ggxD(wm)
	g := b.ggxG(wo, wi)
	return b.fresnel(wo, wm).Multiply(d * g / (4.0 * cosI * cosO))
}

// pdfDisneySpecular is the visible normal density converted to wi by the reflection Jacobian
func (b *BxDF) pdfDisneySpecular(wo, wi core.Vec3) float64 {
	wm := halfVector(wo, wi)
	dotOM := math.Max(math.Abs(wo.Dot(wm)), Epsilon)
	cosO := math.Max(math.Abs(cosTheta(wo)), Epsilon)
	visible := b.ggxG1(wo) / cosO * b.ggxD(wm) * dotOM
	return visible / (4.0 * dotOM)
}

// sampleVisibleNormal draws a microsurface normal visible from wo
func (b *BxDF) sampleVisibleNormal(wo core.Vec3, u core.Vec2) core.Vec3 {
	// Stretch to the unit-roughness configuration
	v := core.NewVec3(b.alphaX*wo.X, wo.Y, b.alphaY*wo.Z).Normalize()
	if v.Y < 0 {
		v = v.Negate()
	}

	// Basis around the stretched view direction
	t1 := core.NewVec3(1, 0, 0)
	if v.Y < 0.9999 {
		t1 = v.Cross(core.NewVec3(0, 1, 0)).Normalize()
	}
	t2 := t1.Cross(v)

	// Sample the projected area of the visible hemisphere
	a := 1.0 / (1.0 + v.Y)
	r := math.Sqrt(u.X)
	var phi, scale float64
	if u.Y < a {
		phi = u.Y / a * math.Pi
		scale = 1
	} else {
		phi = math.Pi + (u.Y-a)/(1.0-a)*math.Pi
		scale = v.Y
	}
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi) * scale
	p3 := math.Sqrt(math.Max(0, 1.0-p1*p1-p2*p2))
	n := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(v.Multiply(p3))

	// Unstretch
	return core.NewVec3(b.alphaX*n.X, n.Y, b.alphaY*n.Z).Normalize()
}
