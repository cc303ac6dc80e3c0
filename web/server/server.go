package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/phoekz/raydiance-sub000/pkg/geometry"
	"github.com/phoekz/raydiance-sub000/pkg/log"
	"github.com/phoekz/raydiance-sub000/pkg/renderer"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
)

var logger = log.New("server")

// Server streams progressive renders of the built-in scenes over HTTP
type Server struct {
	port   int
	params renderer.Params
	echo   *echo.Echo

	mu     sync.Mutex
	scenes map[string]*sceneEntry // Scenes and BVHs built for inspection
}

// sceneEntry is a built-in scene with its acceleration structure
type sceneEntry struct {
	scene *scene.Scene
	bvh   *geometry.BVH
}

// NewServer creates a web server. params are the renderer defaults; each
// render request may override the sample count.
func NewServer(port int, params renderer.Params) *Server {
	s := &Server{
		port:   port,
		params: params,
		echo:   echo.New(),
		scenes: make(map[string]*sceneEntry),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(corsMiddleware)

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/inspect", s.handleInspect)
	return s
}

// Handler exposes the routes for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	logger.Noticef("starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for open requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.ListBuiltins())
}

// loadScene returns the named built-in scene, building its BVH on first use
func (s *Server) loadScene(name string) (*sceneEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.scenes[name]; ok {
		return entry, nil
	}
	sc, err := scene.Builtin(name)
	if err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	bvh, stats := geometry.NewBVHWithStats(sc.Triangles())
	logger.Debugf("scene %q: bvh with %d nodes built in %s", name, stats.Nodes, stats.Duration)

	entry := &sceneEntry{scene: sc, bvh: bvh}
	s.scenes[name] = entry
	return entry, nil
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusNoContent)
		}
		return next(c)
	}
}

// errorResponse reports a request error as JSON
func errorResponse(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}
