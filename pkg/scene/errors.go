package scene

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownScene   = errors.New("scene: unknown built-in scene")
	ErrInvalidScene   = errors.New("scene: invalid scene")
	ErrInvalidTexture = errors.New("scene: invalid texture")
)

// ValidationError describes the first malformed element found in a scene
type ValidationError struct {
	Element string // e.g. "mesh[2].indices[10]"
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scene: %s: %s", e.Element, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidScene) hold for validation errors
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidScene
}

func invalid(reason string, format string, args ...interface{}) error {
	return &ValidationError{Element: fmt.Sprintf(format, args...), Reason: reason}
}
