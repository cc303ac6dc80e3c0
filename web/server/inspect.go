package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/labstack/echo/v4"

	"github.com/phoekz/raydiance-sub000/pkg/geometry"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
)

// InspectResponse describes the surface seen through one pixel
type InspectResponse struct {
	Hit           bool                   `json:"hit"`
	Distance      float32                `json:"distance"`
	Point         [3]float32             `json:"point"`
	Normal        [3]float32             `json:"normal"`
	TexCoord      [2]float32             `json:"texCoord"`
	TriangleIndex uint32                 `json:"triangleIndex"`
	Material      string                 `json:"material"`
	Model         string                 `json:"model"`
	Properties    map[string]interface{} `json:"properties"`
}

// handleInspect casts the primary ray through the center of a pixel and
// reports the material parameters at the closest hit
func (s *Server) handleInspect(c echo.Context) error {
	values := c.QueryParams()
	name := values.Get("scene")
	if name == "" {
		name = "default"
	}
	width, err := parseIntParam(values, "width", 400, 16, 2000)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	height, err := parseIntParam(values, "height", 300, 16, 2000)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	x, err := parseIntParam(values, "x", width/2, 0, width-1)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	y, err := parseIntParam(values, "y", height/2, 0, height-1)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	entry, err := s.loadScene(name)
	if errors.Is(err, scene.ErrUnknownScene) {
		return errorResponse(c, http.StatusNotFound, err)
	}
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	cameraIndex, err := parseIntParam(values, "camera", 0, 0, len(entry.scene.Cameras)-1)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusOK, inspect(entry, cameraIndex, width, height, x, y))
}

// inspect traces the primary ray of pixel (x, y)
func inspect(entry *sceneEntry, cameraIndex, width, height, x, y int) InspectResponse {
	cam := &entry.scene.Cameras[cameraIndex]
	camera := geometry.NewCamera(cam.Transform, mgl32.Ident4(), cam.YFov, cam.ZNear, cam.ZFar, width, height)
	ray := camera.GetRay(x, y, 0.5, 0.5)

	hit, ok := entry.bvh.Hit(ray, nil)
	if !ok {
		return InspectResponse{Hit: false}
	}

	triangle := &entry.bvh.Triangles[hit.TriangleIndex]
	point := ray.At(hit.T)
	normal := triangle.InterpolateNormal(hit.Barycentrics)
	uv := triangle.InterpolateTexCoord(hit.Barycentrics)
	material := &entry.scene.Materials[triangle.Material]

	return InspectResponse{
		Hit:           true,
		Distance:      hit.T,
		Point:         [3]float32(point),
		Normal:        [3]float32(normal),
		TexCoord:      [2]float32(uv),
		TriangleIndex: hit.TriangleIndex,
		Material:      material.Name,
		Model:         material.Model.String(),
		Properties:    materialProperties(entry.scene, material, uv),
	}
}

// materialProperties samples every parameter texture of a material at uv
func materialProperties(s *scene.Scene, m *scene.Material, uv mgl32.Vec2) map[string]interface{} {
	sample := func(index uint32) float32 {
		return s.Textures[index].Sample(uv)[0]
	}
	baseColor := s.Textures[m.BaseColor].Sample(uv)
	return map[string]interface{}{
		"baseColor":    [3]float32{baseColor[0], baseColor[1], baseColor[2]},
		"color":        fmt.Sprintf("#%02x%02x%02x", int(baseColor[0]*255), int(baseColor[1]*255), int(baseColor[2]*255)),
		"metallic":     sample(m.Metallic),
		"roughness":    sample(m.Roughness),
		"specular":     sample(m.Specular),
		"specularTint": sample(m.SpecularTint),
		"sheen":        sample(m.Sheen),
		"sheenTint":    sample(m.SheenTint),
		"anisotropic":  sample(m.Anisotropic),
	}
}
