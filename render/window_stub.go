//go:build !ebiten

package render

import "context"

// NewWindowCanvas reports that the GUI build tag is missing.
func NewWindowCanvas() (Canvas, error) {
	return nil, ErrWindowUnavailable
}

// RunWindow reports that the GUI build tag is missing.
func RunWindow(context.Context, string, int, Driver, Canvas) error {
	return ErrWindowUnavailable
}
