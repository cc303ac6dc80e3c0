package material

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every RangeError
var ErrOutOfRange = errors.New("material: parameter out of range")

// RangeError reports a reflectance parameter outside [0, 1]
type RangeError struct {
	Param string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("material: %s must be in [0,1], got %v", e.Param, e.Value)
}

// Is makes errors.Is(err, ErrOutOfRange) hold for range errors
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// checkUnit returns a RangeError unless every named value lies in [0, 1]
func checkUnit(params ...namedValue) error {
	for _, p := range params {
		if !(p.value >= 0 && p.value <= 1) {
			return &RangeError{Param: p.name, Value: p.value}
		}
	}
	return nil
}

type namedValue struct {
	name  string
	value float64
}

// mustValidate panics on a parameter error. Constructors use it as a
// precondition check; callers validate untrusted input first.
func mustValidate(err error) {
	if err != nil {
		panic(err)
	}
}
