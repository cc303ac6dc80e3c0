package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func validScene() *Scene {
	b := NewBuilder("test")
	m := b.Material("grey", ModelDiffuse, DefaultMaterialValues())
	b.Mesh(NewQuadMesh("quad", mgl32.Ident4(), m))
	b.Camera(NewLookAtCamera("main", mgl32.Vec3{0, 2, 2}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(45)))
	return b.Scene()
}

func TestScene_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *Scene)
		element string
	}{
		{"valid", func(s *Scene) {}, ""},
		{"no cameras", func(s *Scene) { s.Cameras = nil }, "cameras"},
		{"no meshes", func(s *Scene) { s.Meshes = nil }, "meshes"},
		{"no materials", func(s *Scene) { s.Materials = nil }, "materials"},
		{"zero fov", func(s *Scene) { s.Cameras[0].YFov = 0 }, "camera[0].yfov"},
		{"inverted clip planes", func(s *Scene) { s.Cameras[0].ZNear = 200 }, "camera[0]"},
		{"singular camera", func(s *Scene) { s.Cameras[0].Transform = mgl32.Mat4{} }, "camera[0].transform"},
		{"empty mesh", func(s *Scene) { s.Meshes[0].Indices = nil }, "mesh[0]"},
		{"normal count", func(s *Scene) { s.Meshes[0].Normals = s.Meshes[0].Normals[:1] }, "mesh[0].normals"},
		{"texcoord count", func(s *Scene) { s.Meshes[0].TexCoords = s.Meshes[0].TexCoords[:2] }, "mesh[0].texcoords"},
		{"mesh material", func(s *Scene) { s.Meshes[0].Material = 5 }, "mesh[0].material"},
		{"singular mesh", func(s *Scene) { s.Meshes[0].Transform = mgl32.Scale3D(1, 0, 1) }, "mesh[0].transform"},
		{"nan position", func(s *Scene) { s.Meshes[0].Positions[2][1] = float32(math.NaN()) }, "mesh[0].positions[2]"},
		{"zero normal", func(s *Scene) { s.Meshes[0].Normals[3] = mgl32.Vec3{} }, "mesh[0].normals[3]"},
		{"vertex index", func(s *Scene) { s.Meshes[0].Indices[1][2] = 4 }, "mesh[0].indices[1]"},
		{"material model", func(s *Scene) { s.Materials[0].Model = 9 }, "material[0].model"},
		{"material texture", func(s *Scene) { s.Materials[0].Sheen = 100 }, "material[0]"},
		{"texture value", func(s *Scene) { s.Textures[1] = NewScalarTexture(2) }, "texture[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScene()
			tt.modify(s)
			err := s.Validate()
			if tt.element == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidScene) {
				t.Fatalf("Expected ErrInvalidScene, got %v", err)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) || validationErr.Element != tt.element {
				t.Errorf("Expected element %q, got %v", tt.element, err)
			}
		})
	}
}

func TestScene_Triangles(t *testing.T) {
	b := NewBuilder("transformed")
	m := b.Material("grey", ModelDiffuse, DefaultMaterialValues())
	n := mgl32.Vec3{1, 1, 0}.Normalize()
	b.Mesh(Mesh{
		Name:      "tri",
		Transform: mgl32.Translate3D(0, 0, 5).Mul4(mgl32.Scale3D(2, 1, 1)),
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{n, n, n},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Indices:   [][3]uint32{{0, 1, 2}},
		Material:  m,
	})
	b.Mesh(NewQuadMesh("quad", mgl32.Ident4(), m))
	s := b.Scene()

	if s.TriangleCount() != 3 {
		t.Fatalf("Expected 3 triangles, got %d", s.TriangleCount())
	}
	triangles := s.Triangles()
	if len(triangles) != 3 {
		t.Fatalf("Expected 3 triangles, got %d", len(triangles))
	}

	tri := triangles[0]
	expected := [3]mgl32.Vec3{{0, 0, 5}, {2, 0, 5}, {0, 1, 5}}
	for i := range expected {
		if !tri.Positions[i].ApproxEqualThreshold(expected[i], 1e-5) {
			t.Errorf("Expected position %v, got %v", expected[i], tri.Positions[i])
		}
	}

	// The inverse transpose halves the x component before normalizing
	expectedNormal := mgl32.Vec3{0.5, 1, 0}.Normalize()
	if !tri.Normals[0].ApproxEqualThreshold(expectedNormal, 1e-5) {
		t.Errorf("Expected normal %v, got %v", expectedNormal, tri.Normals[0])
	}
	if tri.TexCoords[1] != (mgl32.Vec2{1, 0}) {
		t.Errorf("Expected texcoord (1, 0), got %v", tri.TexCoords[1])
	}
	if tri.Material != m {
		t.Errorf("Expected material %d, got %d", m, tri.Material)
	}
}

func TestScene_Bounds(t *testing.T) {
	s := validScene()
	s.Meshes[0].Transform = mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(4, 1, 2))

	bounds := s.Bounds()
	if !bounds.Min.ApproxEqualThreshold(mgl32.Vec3{-1, 2, 2}, 1e-5) {
		t.Errorf("Expected min (-1, 2, 2), got %v", bounds.Min)
	}
	if !bounds.Max.ApproxEqualThreshold(mgl32.Vec3{3, 2, 4}, 1e-5) {
		t.Errorf("Expected max (3, 2, 4), got %v", bounds.Max)
	}
}

func TestCamera_Position(t *testing.T) {
	c := NewLookAtCamera("c", mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 1)
	if p := c.Position(); !p.ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, 1e-5) {
		t.Errorf("Expected position (1, 2, 3), got %v", p)
	}
}

func TestParseMaterialModel(t *testing.T) {
	for _, model := range []MaterialModel{ModelDiffuse, ModelDisney} {
		got, err := ParseMaterialModel(model.String())
		if err != nil || got != model {
			t.Errorf("ParseMaterialModel(%q): expected %v, got %v (%v)", model.String(), model, got, err)
		}
	}
	if _, err := ParseMaterialModel("phong"); err == nil {
		t.Error("Expected error for unknown model")
	}
}
