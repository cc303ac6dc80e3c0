package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phoekz/raydiance-sub000/pkg/log"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
)

var logger = log.New("loaders")

// ErrInvalidPLY is returned for malformed or unsupported PLY files
var ErrInvalidPLY = errors.New("loaders: invalid ply file")

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block, such as "vertex" or "face"
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the mesh data loaded from a PLY file
type PLYData struct {
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3 // Empty if not present
	TexCoords []mgl32.Vec2 // Empty if not present
	Faces     [][3]uint32  // Polygons are triangulated as fans
}

// LoadPLY loads a PLY file
func LoadPLY(filename string) (*PLYData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded %s: %d vertices, %d triangles in %v",
		filename, len(data.Vertices), len(data.Faces), time.Since(startTime))
	return data, nil
}

// ReadPLY parses PLY data in ascii or binary format
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, data)
		case "face":
			err = readFaces(values, element, data)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: element %s: %v", ErrInvalidPLY, element.Name, err)
		}
	}

	for i, face := range data.Faces {
		for _, index := range face {
			if int(index) >= len(data.Vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d", ErrInvalidPLY, i, index)
			}
		}
	}
	return data, nil
}

// Mesh converts the data into a scene mesh
func (d *PLYData) Mesh(name string, transform mgl32.Mat4, material uint32) scene.Mesh {
	return scene.Mesh{
		Name:      name,
		Transform: transform,
		Positions: d.Vertices,
		Normals:   d.Normals,
		TexCoords: d.TexCoords,
		Indices:   d.Faces,
		Material:  material,
	}
}

// parsePLYHeader parses the header, leaving reader at the start of the body
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: unterminated header: %v", ErrInvalidPLY, err)
		}
		line = strings.TrimSpace(line)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("%w: missing magic number", ErrInvalidPLY)
			}
			first = false
			continue
		}
		if line == "end_header" {
			return header, nil
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid format line", ErrInvalidPLY)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid element line", ErrInvalidPLY)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count: %s", ErrInvalidPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before element", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			element := &header.Elements[len(header.Elements)-1]
			element.Properties = append(element.Properties, prop)
		default:
			return nil, fmt.Errorf("%w: unexpected header line %q", ErrInvalidPLY, line)
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrInvalidPLY)
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: invalid list property definition", ErrInvalidPLY)
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func readVertices(values valueReader, element PLYElement, data *PLYData) error {
	index := map[string]int{}
	for i, prop := range element.Properties {
		if prop.IsList {
			continue
		}
		index[prop.Name] = i
	}
	lookup := func(names ...string) int {
		for _, name := range names {
			if i, ok := index[name]; ok {
				return i
			}
		}
		return -1
	}

	position := [3]int{lookup("x"), lookup("y"), lookup("z")}
	normal := [3]int{lookup("nx"), lookup("ny"), lookup("nz")}
	texCoord := [2]int{lookup("u", "s", "texture_u"), lookup("v", "t", "texture_v")}
	if position[0] < 0 || position[1] < 0 || position[2] < 0 {
		return errors.New("missing x, y or z")
	}
	hasNormals := normal[0] >= 0 && normal[1] >= 0 && normal[2] >= 0
	hasTexCoords := texCoord[0] >= 0 && texCoord[1] >= 0

	data.Vertices = make([]mgl32.Vec3, 0, element.Count)
	if hasNormals {
		data.Normals = make([]mgl32.Vec3, 0, element.Count)
	}
	if hasTexCoords {
		data.TexCoords = make([]mgl32.Vec2, 0, element.Count)
	}

	row := make([]float64, len(element.Properties))
	for v := 0; v < element.Count; v++ {
		for i, prop := range element.Properties {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return err
				}
				continue
			}
			value, err := values.read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", v, err)
			}
			row[i] = value
		}

		data.Vertices = append(data.Vertices, vec3(row, position))
		if hasNormals {
			data.Normals = append(data.Normals, vec3(row, normal))
		}
		if hasTexCoords {
			data.TexCoords = append(data.TexCoords, mgl32.Vec2{float32(row[texCoord[0]]), float32(row[texCoord[1]])})
		}
	}
	return nil
}

func vec3(row []float64, index [3]int) mgl32.Vec3 {
	return mgl32.Vec3{float32(row[index[0]]), float32(row[index[1]]), float32(row[index[2]])}
}

func readFaces(values valueReader, element PLYElement, data *PLYData) error {
	data.Faces = make([][3]uint32, 0, element.Count)
	var polygon []uint32

	for f := 0; f < element.Count; f++ {
		for _, prop := range element.Properties {
			isIndices := prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index")
			if !isIndices {
				if err := skipProperty(values, prop); err != nil {
					return err
				}
				continue
			}

			count, err := values.read(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
			polygon = polygon[:0]
			for i := 0; i < int(count); i++ {
				index, err := values.read(prop.DataType)
				if err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				if index < 0 {
					return fmt.Errorf("face %d: negative vertex index", f)
				}
				polygon = append(polygon, uint32(index))
			}

			// Triangulate as a fan around the first vertex
			for i := 2; i < len(polygon); i++ {
				data.Faces = append(data.Faces, [3]uint32{polygon[0], polygon[i-1], polygon[i]})
			}
		}
	}
	return nil
}

func skipElement(values valueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if err := skipProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipProperty(values valueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipList(values valueReader, prop PLYProperty) error {
	count, err := values.read(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := values.read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// valueReader reads one scalar of the named PLY type
type valueReader interface {
	read(dataType string) (float64, error)
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (r *asciiValueReader) read(dataType string) (float64, error) {
	if getTypeSize(dataType) == 0 {
		return 0, fmt.Errorf("unknown type %q", dataType)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(r.scanner.Text(), 64)
}

type binaryValueReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (r *binaryValueReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unknown type %q", dataType)
	}
	b := r.buf[:size]
	if _, err := io.ReadFull(r.reader, b); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(r.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(r.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(r.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(r.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(r.order.Uint32(b))), nil
	default:
		return math.Float64frombits(r.order.Uint64(b)), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}
