package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/phoekz/raydiance-sub000/pkg/core"
	"github.com/phoekz/raydiance-sub000/pkg/renderer"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
)

// RenderRequest is a parsed render query
type RenderRequest struct {
	Scene        string
	Width        int
	Height       int
	Samples      int
	Exposure     float64
	Tonemap      bool
	Normals      bool
	Sampler      core.HemisphereSampler
	SunElevation float64 // Degrees
	SunAzimuth   float64 // Degrees
	Turbidity    float64
	Salt         uint64
}

// ProgressUpdate is sent after every completed sample pass
type ProgressUpdate struct {
	SampleIndex   int     `json:"sampleIndex"`
	SampleCount   int     `json:"sampleCount"`
	ImageData     string  `json:"imageData"` // Base64 encoded PNG
	ElapsedMs     int64   `json:"elapsedMs"`
	Rays          uint64  `json:"rays"`
	RaysPerSecond float64 `json:"raysPerSecond"`
	IsComplete    bool    `json:"isComplete"`
}

// SSEEvent is one server-sent event
type SSEEvent struct {
	Type string
	Data string
}

// outputResult carries one RecvOutput result to the handler
type outputResult struct {
	output renderer.Output
	err    error
}

// handleRender streams a progressive render as server-sent events: one
// "progress" event per sample pass, "console" events for renderer log
// lines, then "complete". The render stops when the client disconnects.
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	entry, err := s.loadScene(req.Scene)
	if errors.Is(err, scene.ErrUnknownScene) {
		return errorResponse(c, http.StatusNotFound, err)
	}
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	params := s.params
	params.SamplesPerPixel = req.Samples
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(logger, consoleChan)

	raytracer, err := renderer.CreateWithBVH(params, entry.scene, entry.bvh, webLogger)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	defer raytracer.Terminate()

	if err := raytracer.SendInput(req.Input()); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	setSSEHeaders(c.Response())
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	ctx := c.Request().Context()
	outputs := make(chan outputResult)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			out, err := raytracer.RecvOutput()
			select {
			case outputs <- outputResult{output: out, err: err}:
			case <-stop:
				return
			}
			if err != nil || out.Done() {
				return
			}
		}
	}()

	for {
		select {
		case result := <-outputs:
			if result.err != nil {
				return sendSSEEvent(c.Response(), SSEEvent{Type: "error", Data: result.err.Error()})
			}
			if err := sendProgress(c.Response(), &result.output); err != nil {
				return err
			}
			if result.output.Done() {
				return sendSSEEvent(c.Response(), SSEEvent{Type: "complete", Data: "Rendering completed"})
			}

		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Errorf("marshaling console message: %v", err)
				continue
			}
			if err := sendSSEEvent(c.Response(), SSEEvent{Type: "console", Data: string(data)}); err != nil {
				return err
			}

		case <-ctx.Done():
			logger.Infof("client disconnected from %s render", req.Scene)
			return nil
		}
	}
}

// Input converts the request into a renderer input
func (req *RenderRequest) Input() renderer.Input {
	in := renderer.DefaultInput(req.Width, req.Height)
	in.Hemisphere = req.Sampler
	in.Exposure = core.Exposure{Stops: req.Exposure}
	in.Tonemap = req.Tonemap
	in.VisualizeNormals = req.Normals
	in.Sky.Elevation = req.SunElevation * math.Pi / 180
	in.Sky.Azimuth = req.SunAzimuth * math.Pi / 180
	in.Sky.Turbidity = req.Turbidity
	in.Salt = req.Salt
	return in
}

// parseRenderRequest parses and validates the query parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: "default"}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 300, 16, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 64, 1, 10000); err != nil {
		return nil, err
	}
	if req.Exposure, err = parseFloatParam(values, "exposure", core.DefaultExposure().Stops, -16, 16); err != nil {
		return nil, err
	}
	if req.Tonemap, err = parseBoolParam(values, "tonemap", true); err != nil {
		return nil, err
	}
	if req.Normals, err = parseBoolParam(values, "normals", false); err != nil {
		return nil, err
	}
	if req.SunElevation, err = parseFloatParam(values, "sunElevation", 45, 0, 90); err != nil {
		return nil, err
	}
	if req.SunAzimuth, err = parseFloatParam(values, "sunAzimuth", 0, 0, 360); err != nil {
		return nil, err
	}
	if req.Turbidity, err = parseFloatParam(values, "turbidity", 3, 1, 10); err != nil {
		return nil, err
	}
	salt, err := parseIntParam(values, "salt", 0, 0, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	req.Salt = uint64(salt)

	req.Sampler = core.HemisphereCosine
	if name := values.Get("sampler"); name != "" {
		if req.Sampler, err = core.ParseHemisphereSampler(name); err != nil {
			return nil, err
		}
	}

	if req.Width*req.Height > 800*600 && req.Samples > 256 {
		logger.Warningf("large image with high samples may render slowly")
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// sendProgress encodes an output as a progress event
func sendProgress(res *echo.Response, out *renderer.Output) error {
	imageData, err := imageToBase64PNG(out.RGBA())
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	update := ProgressUpdate{
		SampleIndex:   out.SampleIndex,
		SampleCount:   out.SampleCount,
		ImageData:     imageData,
		ElapsedMs:     out.Elapsed.Milliseconds(),
		Rays:          out.Stats.Rays,
		RaysPerSecond: renderer.NewRenderStats(out).RaysPerSecond(),
		IsComplete:    out.Done(),
	}
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return sendSSEEvent(res, SSEEvent{Type: "progress", Data: string(data)})
}

// sendSSEEvent writes one event and flushes it to the client
func sendSSEEvent(res *echo.Response, event SSEEvent) error {
	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	res.Flush()
	return nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
