package nucleus

import "errors"

var (
	// ErrNoRenderContext is returned (wrapped) when the host cannot provide
	// a 3D rendering context. Activation fails and nothing stays acquired.
	ErrNoRenderContext = errors.New("nucleus: no render context")

	// ErrDeactivated is returned by View methods called after teardown.
	ErrDeactivated = errors.New("nucleus: view deactivated")

	// ErrInvalidConfig is returned (wrapped) by Config.Validate and Activate
	// when a count, the page count or the pixel ratio cap is out of range.
	ErrInvalidConfig = errors.New("nucleus: invalid config")
)
