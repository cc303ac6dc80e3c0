package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phoekz/raydiance-sub000/pkg/geometry"
)

// MaterialModel selects the reflectance model of a material
type MaterialModel uint8

const (
	ModelDiffuse MaterialModel = iota // Lambertian
	ModelDisney                       // Disney diffuse, sheen and specular lobes
)

func (m MaterialModel) String() string {
	switch m {
	case ModelDiffuse:
		return "diffuse"
	case ModelDisney:
		return "disney"
	}
	return fmt.Sprintf("MaterialModel(%d)", uint8(m))
}

// ParseMaterialModel parses "diffuse" or "disney"
func ParseMaterialModel(name string) (MaterialModel, error) {
	switch name {
	case "diffuse":
		return ModelDiffuse, nil
	case "disney":
		return ModelDisney, nil
	}
	return 0, fmt.Errorf("scene: unknown material model %q", name)
}

// Camera is a perspective camera placed in the scene
type Camera struct {
	Name      string
	Transform mgl32.Mat4 // World from view
	YFov      float32    // Vertical field of view in radians
	ZNear     float32
	ZFar      float32
}

// NewLookAtCamera places a camera at eye looking at center
func NewLookAtCamera(name string, eye, center, up mgl32.Vec3, yFov float32) Camera {
	return Camera{
		Name:      name,
		Transform: mgl32.LookAtV(eye, center, up).Inv(),
		YFov:      yFov,
		ZNear:     0.1,
		ZFar:      100.0,
	}
}

// Position returns the camera's world-space position
func (c *Camera) Position() mgl32.Vec3 {
	return c.Transform.Col(3).Vec3()
}

// Mesh is an indexed triangle mesh with a single material
type Mesh struct {
	Name      string
	Transform mgl32.Mat4 // World from object
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3 // Optional, one per position
	TexCoords []mgl32.Vec2 // Optional, one per position
	Indices   [][3]uint32
	Material  uint32
}

// Material references one texture per shading parameter. Base color reads
// three channels; every other parameter reads the first channel.
type Material struct {
	Name         string
	Model        MaterialModel
	BaseColor    uint32
	Metallic     uint32
	Roughness    uint32
	Specular     uint32
	SpecularTint uint32
	Sheen        uint32
	SheenTint    uint32
	Anisotropic  uint32
}

// textures lists the texture indices of every material parameter
func (m *Material) textures() [8]uint32 {
	return [8]uint32{
		m.BaseColor, m.Metallic, m.Roughness, m.Specular,
		m.SpecularTint, m.Sheen, m.SheenTint, m.Anisotropic,
	}
}

// Scene is an immutable description of everything the renderer draws
type Scene struct {
	Name      string
	Cameras   []Camera
	Meshes    []Mesh
	Materials []Material
	Textures  []Texture
}

// Validate checks that every reference is in range and every value is usable
func (s *Scene) Validate() error {
	if len(s.Cameras) == 0 {
		return invalid("at least one camera is required", "cameras")
	}
	if len(s.Meshes) == 0 {
		return invalid("at least one mesh is required", "meshes")
	}
	if len(s.Materials) == 0 {
		return invalid("at least one material is required", "materials")
	}

	for i := range s.Cameras {
		c := &s.Cameras[i]
		if !(c.YFov > 0 && c.YFov < math.Pi) {
			return invalid("field of view must be in (0,π)", "camera[%d].yfov", i)
		}
		if !(c.ZNear > 0 && c.ZNear < c.ZFar) {
			return invalid("clip planes must satisfy 0 < znear < zfar", "camera[%d]", i)
		}
		if c.Transform.Det() == 0 {
			return invalid("transform is singular", "camera[%d].transform", i)
		}
	}

	for i := range s.Meshes {
		if err := s.validateMesh(i); err != nil {
			return err
		}
	}

	for i := range s.Materials {
		m := &s.Materials[i]
		if m.Model != ModelDiffuse && m.Model != ModelDisney {
			return invalid("unknown model", "material[%d].model", i)
		}
		for _, t := range m.textures() {
			if int(t) >= len(s.Textures) {
				return invalid(fmt.Sprintf("texture %d out of range", t), "material[%d]", i)
			}
		}
	}

	for i := range s.Textures {
		if err := s.Textures[i].Validate(); err != nil {
			return invalid(err.Error(), "texture[%d]", i)
		}
	}

	return nil
}

func (s *Scene) validateMesh(i int) error {
	m := &s.Meshes[i]
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return invalid("mesh has no triangles", "mesh[%d]", i)
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		return invalid("normal count does not match position count", "mesh[%d].normals", i)
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != len(m.Positions) {
		return invalid("texcoord count does not match position count", "mesh[%d].texcoords", i)
	}
	if int(m.Material) >= len(s.Materials) {
		return invalid("material out of range", "mesh[%d].material", i)
	}
	if m.Transform.Det() == 0 {
		return invalid("transform is singular", "mesh[%d].transform", i)
	}
	for j, p := range m.Positions {
		for _, c := range p {
			if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
				return invalid("non-finite position", "mesh[%d].positions[%d]", i, j)
			}
		}
	}
	for j, n := range m.Normals {
		if !(n.Len() > 0) {
			return invalid("normal must be non-zero", "mesh[%d].normals[%d]", i, j)
		}
	}
	for j, tri := range m.Indices {
		for _, index := range tri {
			if int(index) >= len(m.Positions) {
				return invalid("vertex index out of range", "mesh[%d].indices[%d]", i, j)
			}
		}
	}
	return nil
}

// TriangleCount returns the number of triangles over all meshes
func (s *Scene) TriangleCount() int {
	count := 0
	for i := range s.Meshes {
		count += len(s.Meshes[i].Indices)
	}
	return count
}

// Triangles flattens all meshes into world-space triangles. Normals are
// transformed by the inverse transpose of the mesh transform.
func (s *Scene) Triangles() []geometry.Triangle {
	triangles := make([]geometry.Triangle, 0, s.TriangleCount())
	for i := range s.Meshes {
		mesh := &s.Meshes[i]
		normalMatrix := mesh.Transform.Mat3().Inv().Transpose()

		for _, tri := range mesh.Indices {
			var t geometry.Triangle
			t.Material = mesh.Material
			for k, index := range tri {
				t.Positions[k] = mgl32.TransformCoordinate(mesh.Positions[index], mesh.Transform)
				if len(mesh.Normals) > 0 {
					t.Normals[k] = normalMatrix.Mul3x1(mesh.Normals[index]).Normalize()
				}
				if len(mesh.TexCoords) > 0 {
					t.TexCoords[k] = mesh.TexCoords[index]
				}
			}
			triangles = append(triangles, t)
		}
	}
	return triangles
}

// Bounds returns the world-space bounding box of all meshes
func (s *Scene) Bounds() geometry.AABB {
	bounds := geometry.NewAABB()
	for i := range s.Meshes {
		mesh := &s.Meshes[i]
		for _, p := range mesh.Positions {
			bounds.Extend(mgl32.TransformCoordinate(p, mesh.Transform))
		}
	}
	return bounds
}
