package geometry

import "github.com/go-gl/mathgl/mgl32"

// Triangle is a world-space triangle with per-vertex shading attributes
type Triangle struct {
	Positions [3]mgl32.Vec3
	TexCoords [3]mgl32.Vec2
	Normals   [3]mgl32.Vec3
	Material  uint32 // Index into the scene's material list
}

// Bounds returns the bounding box of the triangle's vertices
func (t *Triangle) Bounds() AABB {
	return NewAABBFromPoints(t.Positions[0], t.Positions[1], t.Positions[2])
}

// Centroid returns the centroid of the triangle's bounding box
func (t *Triangle) Centroid() mgl32.Vec3 {
	return t.Bounds().Center()
}

// GeometricNormal returns the unit face normal following the vertex winding
func (t *Triangle) GeometricNormal() mgl32.Vec3 {
	e1 := t.Positions[1].Sub(t.Positions[0])
	e2 := t.Positions[2].Sub(t.Positions[0])
	return e1.Cross(e2).Normalize()
}

// InterpolateNormal blends vertex normals with barycentric weights and normalizes
func (t *Triangle) InterpolateNormal(b mgl32.Vec3) mgl32.Vec3 {
	n := t.Normals[0].Mul(b[0]).
		Add(t.Normals[1].Mul(b[1])).
		Add(t.Normals[2].Mul(b[2]))
	if n.Len() == 0 {
		return t.GeometricNormal()
	}
	return n.Normalize()
}

// InterpolateTexCoord blends vertex texture coordinates with barycentric weights
func (t *Triangle) InterpolateTexCoord(b mgl32.Vec3) mgl32.Vec2 {
	return t.TexCoords[0].Mul(b[0]).
		Add(t.TexCoords[1].Mul(b[1])).
		Add(t.TexCoords[2].Mul(b[2]))
}
