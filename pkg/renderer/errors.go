package renderer

import "errors"

var (
	ErrInvalidParams      = errors.New("renderer: invalid params")
	ErrInvalidImageSize   = errors.New("renderer: image size must be positive")
	ErrInvalidInput       = errors.New("renderer: invalid input")
	ErrRenderThreadExited = errors.New("renderer: render goroutine exited")
	ErrTerminated         = errors.New("renderer: raytracer terminated")
)
