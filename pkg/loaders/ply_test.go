package loaders

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// createTestPLY creates a binary little-endian square made of two triangles
func createTestPLY(t *testing.T, filename string, includeNormals bool, includeColors bool) {
	var buf bytes.Buffer

	// Write PLY header
	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")

	if includeNormals {
		buf.WriteString("property float nx\n")
		buf.WriteString("property float ny\n")
		buf.WriteString("property float nz\n")
	}

	if includeColors {
		buf.WriteString("property uchar red\n")
		buf.WriteString("property uchar green\n")
		buf.WriteString("property uchar blue\n")
	}

	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	// Write vertex data (4 vertices forming a square)
	vertices := []struct {
		x, y, z    float32
		nx, ny, nz float32
		r, g, b    uint8
	}{
		{0.0, 0.0, 0.0, 0.0, 0.0, 1.0, 255, 0, 0},
		{1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0, 255, 0},
		{1.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0, 0, 255},
		{0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 255, 255, 0},
	}

	for _, v := range vertices {
		binary.Write(&buf, binary.LittleEndian, v.x)
		binary.Write(&buf, binary.LittleEndian, v.y)
		binary.Write(&buf, binary.LittleEndian, v.z)

		if includeNormals {
			binary.Write(&buf, binary.LittleEndian, v.nx)
			binary.Write(&buf, binary.LittleEndian, v.ny)
			binary.Write(&buf, binary.LittleEndian, v.nz)
		}

		if includeColors {
			binary.Write(&buf, binary.LittleEndian, v.r)
			binary.Write(&buf, binary.LittleEndian, v.g)
			binary.Write(&buf, binary.LittleEndian, v.b)
		}
	}

	// Write face data (2 triangles)
	faces := []struct {
		count      uint8
		v1, v2, v3 int32
	}{
		{3, 0, 1, 2},
		{3, 0, 2, 3},
	}

	for _, f := range faces {
		binary.Write(&buf, binary.LittleEndian, f.count)
		binary.Write(&buf, binary.LittleEndian, f.v1)
		binary.Write(&buf, binary.LittleEndian, f.v2)
		binary.Write(&buf, binary.LittleEndian, f.v3)
	}

	err := os.WriteFile(filename, buf.Bytes(), 0644)
	if err != nil {
		t.Fatalf("Failed to create test PLY file: %v", err)
	}
}

func TestLoadPLY_Basic(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test_basic.ply")
	createTestPLY(t, testFile, false, false)

	data, err := LoadPLY(testFile)
	if err != nil {
		t.Fatalf("Failed to load PLY: %v", err)
	}

	expectedVertices := []mgl32.Vec3{
		{0.0, 0.0, 0.0},
		{1.0, 0.0, 0.0},
		{1.0, 1.0, 0.0},
		{0.0, 1.0, 0.0},
	}

	if len(data.Vertices) != len(expectedVertices) {
		t.Fatalf("Expected %d vertices, got %d", len(expectedVertices), len(data.Vertices))
	}

	for i, expected := range expectedVertices {
		if data.Vertices[i] != expected {
			t.Errorf("Vertex %d: expected %v, got %v", i, expected, data.Vertices[i])
		}
	}

	expectedFaces := [][3]uint32{{0, 1, 2}, {0, 2, 3}}
	if len(data.Faces) != len(expectedFaces) {
		t.Fatalf("Expected %d faces, got %d", len(expectedFaces), len(data.Faces))
	}

	for i, expected := range expectedFaces {
		if data.Faces[i] != expected {
			t.Errorf("Face %d: expected %v, got %v", i, expected, data.Faces[i])
		}
	}

	if len(data.Normals) != 0 {
		t.Errorf("Expected no normals, got %d", len(data.Normals))
	}
}

func TestLoadPLY_WithNormals(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test_normals.ply")
	createTestPLY(t, testFile, true, false)

	data, err := LoadPLY(testFile)
	if err != nil {
		t.Fatalf("Failed to load PLY: %v", err)
	}

	if len(data.Normals) != 4 {
		t.Fatalf("Expected 4 normals, got %d", len(data.Normals))
	}

	for i, n := range data.Normals {
		if n != (mgl32.Vec3{0, 0, 1}) {
			t.Errorf("Normal %d: expected (0,0,1), got %v", i, n)
		}
	}
}

func TestLoadPLY_SkipsUnknownProperties(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test_colors.ply")
	createTestPLY(t, testFile, true, true)

	data, err := LoadPLY(testFile)
	if err != nil {
		t.Fatalf("Failed to load PLY: %v", err)
	}

	// Colors sit between vertices; a wrong stride would corrupt the third vertex
	if data.Vertices[2] != (mgl32.Vec3{1, 1, 0}) {
		t.Errorf("Vertex 2: expected (1,1,0), got %v", data.Vertices[2])
	}
	if len(data.Faces) != 2 {
		t.Errorf("Expected 2 faces, got %d", len(data.Faces))
	}
}

func TestReadPLY_ASCII(t *testing.T) {
	content := `ply
format ascii 1.0
comment quad with texture coordinates
element vertex 4
property float x
property float y
property float z
property float s
property float t
element face 1
property list uchar int vertex_indices
element extra 1
property list uchar float values
end_header
-1 0 -1 0 0
1 0 -1 1 0
1 0 1 1 1
-1 0 1 0 1
4 0 1 2 3
2 0.5 0.25
`

	data, err := ReadPLY(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}

	if len(data.TexCoords) != 4 {
		t.Fatalf("Expected 4 texture coordinates, got %d", len(data.TexCoords))
	}
	if data.TexCoords[2] != (mgl32.Vec2{1, 1}) {
		t.Errorf("TexCoord 2: expected (1,1), got %v", data.TexCoords[2])
	}

	// The quad is fanned into two triangles
	expectedFaces := [][3]uint32{{0, 1, 2}, {0, 2, 3}}
	if len(data.Faces) != len(expectedFaces) {
		t.Fatalf("Expected %d faces, got %d", len(expectedFaces), len(data.Faces))
	}
	for i, expected := range expectedFaces {
		if data.Faces[i] != expected {
			t.Errorf("Face %d: expected %v, got %v", i, expected, data.Faces[i])
		}
	}

	mesh := data.Mesh("quad", mgl32.Ident4(), 3)
	if mesh.Name != "quad" || mesh.Material != 3 || len(mesh.Indices) != 2 {
		t.Errorf("Unexpected mesh: %+v", mesh)
	}
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"unterminated header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"property before element", "ply\nformat ascii 1.0\nproperty float x\nend_header\n"},
		{"missing position", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nend_header\n0\n"},
		{"truncated body", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
		{"index out of range", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadPLY(strings.NewReader(test.content))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidPLY) {
				t.Errorf("Expected ErrInvalidPLY, got %v", err)
			}
		})
	}
}

func TestLoadPLY_NonExistentFile(t *testing.T) {
	_, err := LoadPLY("nonexistent.ply")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestParsePLYProperty(t *testing.T) {
	prop, err := parsePLYProperty([]string{"list", "uchar", "int", "vertex_indices"})
	if err != nil {
		t.Fatalf("parsePLYProperty failed: %v", err)
	}
	if !prop.IsList || prop.ListType != "uchar" || prop.DataType != "int" || prop.Name != "vertex_indices" {
		t.Errorf("Unexpected list property: %+v", prop)
	}

	prop, err = parsePLYProperty([]string{"double", "x"})
	if err != nil {
		t.Fatalf("parsePLYProperty failed: %v", err)
	}
	if prop.IsList || prop.Type != "double" || prop.Name != "x" {
		t.Errorf("Unexpected scalar property: %+v", prop)
	}

	if _, err := parsePLYProperty([]string{"list", "uchar"}); err == nil {
		t.Error("Expected error for short list property")
	}
}

func TestGetTypeSize(t *testing.T) {
	tests := []struct {
		dataType string
		expected int
	}{
		{"float", 4},
		{"float32", 4},
		{"int", 4},
		{"int32", 4},
		{"uint", 4},
		{"uint32", 4},
		{"double", 8},
		{"float64", 8},
		{"short", 2},
		{"int16", 2},
		{"ushort", 2},
		{"uint16", 2},
		{"char", 1},
		{"int8", 1},
		{"uchar", 1},
		{"uint8", 1},
		{"unknown", 0},
	}

	for _, test := range tests {
		result := getTypeSize(test.dataType)
		if result != test.expected {
			t.Errorf("getTypeSize(%s): expected %d, got %d", test.dataType, test.expected, result)
		}
	}
}
