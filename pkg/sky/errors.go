package sky

import "errors"

var (
	ErrInvalidAzimuth   = errors.New("sky: sun azimuth must be in [0,2π]")
	ErrInvalidElevation = errors.New("sky: sun elevation must be in [0,π/2]")
	ErrInvalidTurbidity = errors.New("sky: turbidity must be in [1,10]")
	ErrInvalidAlbedo    = errors.New("sky: ground albedo must be in [0,1]")
)
