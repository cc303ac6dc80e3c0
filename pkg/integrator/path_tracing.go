package integrator

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phoekz/raydiance-sub000/pkg/core"
	"github.com/phoekz/raydiance-sub000/pkg/geometry"
	"github.com/phoekz/raydiance-sub000/pkg/material"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
	"github.com/phoekz/raydiance-sub000/pkg/sky"
)

// originBias scales the hit distance when spawning the next ray so that it
// starts just in front of the surface
const originBias = 0.999

// Settings holds the per-input knobs of the integrator
type Settings struct {
	Hemisphere       core.HemisphereSampler
	MaxBounceCount   int
	VisualizeNormals bool
	Salt             uint64
}

// PathTracingIntegrator implements unidirectional path tracing against a sky.
// Paths are capped at MaxBounceCount with no Russian roulette and no direct
// light sampling.
type PathTracingIntegrator struct {
	scene    *scene.Scene
	bvh      *geometry.BVH
	dynamic  *scene.DynamicScene
	sky      *sky.Sky
	camera   geometry.Camera
	settings Settings
}

// NewPathTracingIntegrator creates a new path tracing integrator. All
// arguments are read-only and may be shared between goroutines.
func NewPathTracingIntegrator(
	s *scene.Scene,
	bvh *geometry.BVH,
	dynamic *scene.DynamicScene,
	skyModel *sky.Sky,
	camera geometry.Camera,
	settings Settings,
) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		scene:    s,
		bvh:      bvh,
		dynamic:  dynamic,
		sky:      skyModel,
		camera:   camera,
		settings: settings,
	}
}

// shadingParams are the texture-driven material inputs at a hit point
type shadingParams struct {
	baseColor    core.Vec3
	metallic     float64
	roughness    float64
	specular     float64
	specularTint float64
	sheen        float64
	sheenTint    float64
	anisotropic  float64
}

// Radiance estimates the radiance arriving through pixel (x, y) for one
// sample. The result depends only on the arguments and the integrator's
// inputs, so equal calls return bit-identical values. stats may be nil.
func (pt *PathTracingIntegrator) Radiance(x, y, sampleIndex int, stats *geometry.HitStats) core.Vec3 {
	sampler := core.NewPixelSampler(pt.settings.Salt, sampleIndex, x, y)
	jitter := sampler.Get2D()
	ray := pt.camera.GetRay(x, y, float32(jitter.X), float32(jitter.Y))

	radiance := core.Black
	throughput := core.White
	for bounce := 0; bounce < pt.settings.MaxBounceCount; bounce++ {
		hit, found := pt.bvh.Hit(ray, stats)

		// The ray escaped, so the sky is all it sees
		if !found {
			radiance = radiance.Add(throughput.MultiplyVec(pt.sky.Radiance(toVec3(ray.Direction))))
			break
		}

		triangle := &pt.bvh.Triangles[hit.TriangleIndex]
		texCoord := triangle.InterpolateTexCoord(hit.Barycentrics)
		normal := toVec3(triangle.InterpolateNormal(hit.Barycentrics))

		onb := core.NewOrthonormalBasis(normal)
		woLocal := onb.LocalFromWorld(toVec3(ray.Direction).Negate())

		params := pt.shadingParams(triangle.Material, texCoord)
		sample, ok := pt.sampleMaterial(triangle.Material, params, woLocal, sampler)
		if !ok {
			break
		}
		wi := onb.WorldFromLocal(sample.Wi)

		// Step back slightly from the hit so the next ray leaves the surface
		ray = geometry.Ray{
			Origin:    ray.At(originBias * hit.T),
			Direction: fromVec3(wi).Normalize(),
		}

		cosTheta := abs(wi.Dot(normal))
		if pt.settings.VisualizeNormals {
			color := normal.Add(core.White).Multiply(0.5)
			throughput = throughput.MultiplyVec(color).Multiply(cosTheta)
		} else {
			throughput = throughput.MultiplyVec(sample.R).Multiply(cosTheta / sample.PDF)
		}

		if !throughput.IsFinite() || !radiance.IsFinite() {
			panic(fmt.Sprintf(
				"integrator: non-finite path state: material=%d radiance=%v throughput=%v cos_theta=%v wi=%v pdf=%v",
				triangle.Material, radiance, throughput, cosTheta, sample.Wi, sample.PDF))
		}
	}
	return radiance
}

func (pt *PathTracingIntegrator) shadingParams(index uint32, uv mgl32.Vec2) shadingParams {
	m := &pt.scene.Materials[index]
	scalar := func(texture uint32) float64 {
		return float64(pt.dynamic.Sample(pt.scene, texture, uv)[0])
	}
	base := pt.dynamic.Sample(pt.scene, m.BaseColor, uv)

	return shadingParams{
		baseColor:    core.NewVec3(float64(base[0]), float64(base[1]), float64(base[2])),
		metallic:     scalar(m.Metallic),
		roughness:    scalar(m.Roughness),
		specular:     scalar(m.Specular),
		specularTint: scalar(m.SpecularTint),
		sheen:        scalar(m.Sheen),
		sheenTint:    scalar(m.SheenTint),
		anisotropic:  scalar(m.Anisotropic),
	}
}

// sampleMaterial draws the next direction from the material's current model.
// The Disney stack picks its diffuse lobe (diffuse plus sheen) with weight
// (1-metallic)(1-specular) and its specular lobe otherwise.
func (pt *PathTracingIntegrator) sampleMaterial(index uint32, p shadingParams, wo core.Vec3, sampler core.Sampler) (material.Sample, bool) {
	hemisphere := pt.settings.Hemisphere

	switch pt.dynamic.Model(index) {
	case scene.ModelDiffuse:
		bxdf := material.NewLambertian(material.LambertianParams{
			Hemisphere: hemisphere,
			BaseColor:  p.baseColor,
		})
		return bxdf.Sample(wo, sampler.Get2D())

	case scene.ModelDisney:
		diffuseWeight := (1 - p.metallic) * (1 - p.specular)
		if sampler.Get1D() < diffuseWeight {
			diffuse := material.NewDisneyDiffuse(material.DisneyDiffuseParams{
				Hemisphere: hemisphere,
				BaseColor:  p.baseColor,
				Roughness:  p.roughness,
			})
			sample, ok := diffuse.Sample(wo, sampler.Get2D())
			if !ok {
				return material.Sample{}, false
			}
			if p.sheen > 0 {
				sheen := material.NewDisneySheen(material.DisneySheenParams{
					Hemisphere: hemisphere,
					BaseColor:  p.baseColor,
					Sheen:      p.sheen,
					SheenTint:  p.sheenTint,
				})
				sample.R = sample.R.Add(sheen.Eval(wo, sample.Wi))
			}
			return sample, true
		}

		specular := material.NewDisneySpecular(material.DisneySpecularParams{
			BaseColor:    p.baseColor,
			Metallic:     p.metallic,
			Specular:     p.specular,
			SpecularTint: p.specularTint,
			Roughness:    p.roughness,
			Anisotropic:  p.anisotropic,
		})
		return specular.Sample(wo, sampler.Get2D())
	}
	panic(fmt.Sprintf("integrator: unknown material model %v", pt.dynamic.Model(index)))
}

func toVec3(v mgl32.Vec3) core.Vec3 {
	return core.NewVec3(float64(v[0]), float64(v[1]), float64(v[2]))
}

func fromVec3(v core.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
