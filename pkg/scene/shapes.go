package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewQuadMesh creates a unit square in the XZ plane centered at the origin, facing +Y
func NewQuadMesh(name string, transform mgl32.Mat4, material uint32) Mesh {
	up := mgl32.Vec3{0, 1, 0}
	return Mesh{
		Name:      name,
		Transform: transform,
		Positions: []mgl32.Vec3{{-0.5, 0, -0.5}, {-0.5, 0, 0.5}, {0.5, 0, 0.5}, {0.5, 0, -0.5}},
		Normals:   []mgl32.Vec3{up, up, up, up},
		TexCoords: []mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		Indices:   [][3]uint32{{0, 1, 2}, {0, 2, 3}},
		Material:  material,
	}
}

// NewBoxMesh creates a unit cube centered at the origin with flat-shaded faces
func NewBoxMesh(name string, transform mgl32.Mat4, material uint32) Mesh {
	mesh := Mesh{Name: name, Transform: transform, Material: material}

	// Each face: normal and two in-plane axes whose cross product is the normal
	faces := [6][3]mgl32.Vec3{
		{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	}
	for _, f := range faces {
		n, u, v := f[0], f[1], f[2]
		center := n.Mul(0.5)
		base := uint32(len(mesh.Positions))
		corners := [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
		for _, c := range corners {
			mesh.Positions = append(mesh.Positions, center.Add(u.Mul(c[0])).Add(v.Mul(c[1])))
			mesh.Normals = append(mesh.Normals, n)
			mesh.TexCoords = append(mesh.TexCoords, mgl32.Vec2{c[0] + 0.5, 0.5 - c[1]})
		}
		mesh.Indices = append(mesh.Indices, [3]uint32{base, base + 1, base + 2}, [3]uint32{base, base + 2, base + 3})
	}
	return mesh
}

// NewSphereMesh creates a UV sphere of radius 1 centered at the origin
func NewSphereMesh(name string, transform mgl32.Mat4, material uint32, segments, rings int) Mesh {
	mesh := Mesh{Name: name, Transform: transform, Material: material}

	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		theta := float64(v) * math.Pi
		for s := 0; s <= segments; s++ {
			u := float32(s) / float32(segments)
			phi := float64(u) * 2 * math.Pi
			p := mgl32.Vec3{
				float32(math.Sin(theta) * math.Cos(phi)),
				float32(math.Cos(theta)),
				float32(math.Sin(theta) * math.Sin(phi)),
			}
			mesh.Positions = append(mesh.Positions, p)
			mesh.Normals = append(mesh.Normals, p)
			mesh.TexCoords = append(mesh.TexCoords, mgl32.Vec2{u, v})
		}
	}

	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			// Skip the degenerate triangles at the poles
			if r != 0 {
				mesh.Indices = append(mesh.Indices, [3]uint32{a, a + 1, b})
			}
			if r != uint32(rings)-1 {
				mesh.Indices = append(mesh.Indices, [3]uint32{a + 1, b + 1, b})
			}
		}
	}
	return mesh
}
