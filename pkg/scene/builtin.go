package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type builtinScene struct {
	description string
	create      func() *Scene
}

var builtins = map[string]builtinScene{
	"triangle": {
		description: "A single white diffuse triangle seen from above",
		create:      NewTriangleScene,
	},
	"default": {
		description: "Boxes and a sphere with Disney materials on a ground plane",
		create:      NewDefaultScene,
	},
	"materials": {
		description: "Rows of spheres sweeping roughness, metallic and sheen",
		create:      NewMaterialsScene,
	},
}

// ListBuiltins returns every built-in scene sorted by name
func ListBuiltins() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for name, b := range builtins {
		infos = append(infos, SceneInfo{Name: name, Description: b.description})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Builtin creates the built-in scene with the given name
func Builtin(name string) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return b.create(), nil
}

// Builder assembles a scene without validating it; call Scene.Validate on the result.
type Builder struct {
	scene *Scene
}

// NewBuilder starts an empty scene
func NewBuilder(name string) *Builder {
	return &Builder{scene: &Scene{Name: name}}
}

// ExtendScene continues building on an existing scene in place
func ExtendScene(s *Scene) *Builder {
	return &Builder{scene: s}
}

// MaterialValues holds constant values for every material parameter
type MaterialValues struct {
	BaseColor    mgl32.Vec3
	Metallic     float32
	Roughness    float32
	Specular     float32
	SpecularTint float32
	Sheen        float32
	SheenTint    float32
	Anisotropic  float32
}

// DefaultMaterialValues returns a gray dielectric
func DefaultMaterialValues() MaterialValues {
	return MaterialValues{
		BaseColor: mgl32.Vec3{0.8, 0.8, 0.8},
		Roughness: 0.5,
		Specular:  0.5,
	}
}

// Texture appends a texture and returns its index
func (b *Builder) Texture(t Texture) uint32 {
	b.scene.Textures = append(b.scene.Textures, t)
	return uint32(len(b.scene.Textures) - 1)
}

// Material appends a material backed by constant textures and returns its index
func (b *Builder) Material(name string, model MaterialModel, v MaterialValues) uint32 {
	m := Material{
		Name:         name,
		Model:        model,
		BaseColor:    b.Texture(NewVector3Texture(v.BaseColor)),
		Metallic:     b.Texture(NewScalarTexture(v.Metallic)),
		Roughness:    b.Texture(NewScalarTexture(v.Roughness)),
		Specular:     b.Texture(NewScalarTexture(v.Specular)),
		SpecularTint: b.Texture(NewScalarTexture(v.SpecularTint)),
		Sheen:        b.Texture(NewScalarTexture(v.Sheen)),
		SheenTint:    b.Texture(NewScalarTexture(v.SheenTint)),
		Anisotropic:  b.Texture(NewScalarTexture(v.Anisotropic)),
	}
	b.scene.Materials = append(b.scene.Materials, m)
	return uint32(len(b.scene.Materials) - 1)
}

// SetBaseColorTexture points material index at an existing texture for its base color
func (b *Builder) SetBaseColorTexture(material, texture uint32) {
	b.scene.Materials[material].BaseColor = texture
}

// Mesh appends a mesh
func (b *Builder) Mesh(m Mesh) {
	b.scene.Meshes = append(b.scene.Meshes, m)
}

// Camera appends a camera
func (b *Builder) Camera(c Camera) {
	b.scene.Cameras = append(b.scene.Cameras, c)
}

// Scene returns the assembled scene
func (b *Builder) Scene() *Scene {
	return b.scene
}

// NewTriangleScene creates a white diffuse triangle in the XZ plane facing +Y,
// with the camera straight above it
func NewTriangleScene() *Scene {
	b := NewBuilder("triangle")
	white := b.Material("white", ModelDiffuse, MaterialValues{BaseColor: mgl32.Vec3{1, 1, 1}, Roughness: 1})

	up := mgl32.Vec3{0, 1, 0}
	b.Mesh(Mesh{
		Name:      "triangle",
		Transform: mgl32.Ident4(),
		Positions: []mgl32.Vec3{{-1, 0, 1}, {1, 0, 1}, {0, 0, -1}},
		Normals:   []mgl32.Vec3{up, up, up},
		TexCoords: []mgl32.Vec2{{0, 1}, {1, 1}, {0.5, 0}},
		Indices:   [][3]uint32{{0, 1, 2}},
		Material:  white,
	})

	b.Camera(NewLookAtCamera("top", mgl32.Vec3{0, 3, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.DegToRad(30)))
	return b.Scene()
}

// NewDefaultScene creates a few boxes and a sphere on a ground plane
func NewDefaultScene() *Scene {
	b := NewBuilder("default")

	ground := b.Material("ground", ModelDisney, MaterialValues{
		BaseColor: mgl32.Vec3{0.5, 0.5, 0.5}, Roughness: 0.9, Specular: 0.2,
	})
	red := b.Material("red-plastic", ModelDisney, MaterialValues{
		BaseColor: mgl32.Vec3{0.65, 0.1, 0.08}, Roughness: 0.35, Specular: 0.5,
	})
	gold := b.Material("brushed-gold", ModelDisney, MaterialValues{
		BaseColor: mgl32.Vec3{1.0, 0.77, 0.34}, Metallic: 1, Roughness: 0.3, Specular: 0.5, Anisotropic: 0.8,
	})
	cloth := b.Material("blue-cloth", ModelDisney, MaterialValues{
		BaseColor: mgl32.Vec3{0.1, 0.2, 0.5}, Roughness: 1, Specular: 0.1, Sheen: 1, SheenTint: 0.5,
	})
	chalk := b.Material("chalk", ModelDiffuse, MaterialValues{
		BaseColor: mgl32.Vec3{0.9, 0.9, 0.85},
	})

	b.Mesh(NewQuadMesh("ground", mgl32.Scale3D(20, 1, 20), ground))
	b.Mesh(NewBoxMesh("box-red",
		mgl32.Translate3D(-1.2, 0.5, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(20))), red))
	b.Mesh(NewBoxMesh("box-cloth",
		mgl32.Translate3D(1.2, 0.35, 0.4).Mul4(mgl32.Scale3D(0.7, 0.7, 0.7)), cloth))
	b.Mesh(NewBoxMesh("pillar",
		mgl32.Translate3D(0.2, 0.75, -1.4).Mul4(mgl32.Scale3D(0.4, 1.5, 0.4)), chalk))
	b.Mesh(NewSphereMesh("sphere",
		mgl32.Translate3D(0, 0.6, 0.6).Mul4(mgl32.Scale3D(0.6, 0.6, 0.6)), gold, 48, 24))

	b.Camera(NewLookAtCamera("main", mgl32.Vec3{0, 2.2, 5}, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(40)))
	return b.Scene()
}

// NewMaterialsScene lays out rows of spheres: roughness with metallic off,
// roughness with metallic on, and increasing sheen
func NewMaterialsScene() *Scene {
	const columns = 5
	b := NewBuilder("materials")

	ground := b.Material("ground", ModelDiffuse, MaterialValues{BaseColor: mgl32.Vec3{0.4, 0.4, 0.4}})
	b.Mesh(NewQuadMesh("ground", mgl32.Scale3D(30, 1, 30), ground))

	for row := 0; row < 3; row++ {
		for col := 0; col < columns; col++ {
			t := float32(col) / float32(columns-1)
			hue := 360.0 * float64(row*columns+col) / float64(3*columns)
			v := MaterialValues{
				BaseColor: oklchToRGB(0.7, 0.12, hue),
				Roughness: t,
				Specular:  0.5,
			}
			switch row {
			case 1:
				v.Metallic = 1
			case 2:
				v.Roughness = 0.8
				v.Sheen = t
				v.SheenTint = 0.5
			}

			name := fmt.Sprintf("sphere-%d-%d", row, col)
			m := b.Material(name, ModelDisney, v)
			x := (float32(col) - float32(columns-1)/2) * 1.1
			z := (float32(row) - 1) * 1.1
			b.Mesh(NewSphereMesh(name,
				mgl32.Translate3D(x, 0.5, z).Mul4(mgl32.Scale3D(0.5, 0.5, 0.5)), m, 32, 16))
		}
	}

	b.Camera(NewLookAtCamera("main", mgl32.Vec3{0, 4, 6}, mgl32.Vec3{0, 0.3, 0}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(40)))
	return b.Scene()
}

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) mgl32.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	bb := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*bb
	m_ := l - 0.1055613458*a - 0.0638541728*bb
	s_ := l - 0.0894841775*a - 1.2914855480*bb
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return mgl32.Vec3{
		float32(math.Max(0, math.Min(1, r))),
		float32(math.Max(0, math.Min(1, g))),
		float32(math.Max(0, math.Min(1, blue))),
	}
}
