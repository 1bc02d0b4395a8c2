package render

import "github.com/pkg/errors"

// ErrWindowUnavailable is returned by window helpers in builds without the ebiten tag
var ErrWindowUnavailable = errors.New("window rendering requires building with the 'ebiten' tag")

// Driver advances and draws one frame at a time
type Driver interface {
	Step() error
	Render()
}
