package utils

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// NewLogger returns a timestamped logger writing to w (stderr when nil) at the named level
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewLogger] bad log level: %+v", level)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "gol",
		ReportTimestamp: true,
	}), nil
}
