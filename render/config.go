package render

import (
	"image/color"

	"github.com/pkg/errors"
)

// ErrInvalidCellSize is returned for a cell size below one pixel
var ErrInvalidCellSize = errors.New("cell size must be at least 1")

// Config holds the presentation settings handed to a renderer
type Config struct {
	CellSize   int    `json:"cell_size" yaml:"cell_size"`
	GridColor  string `json:"grid_color" yaml:"grid_color"`
	DeadColor  string `json:"dead_color" yaml:"dead_color"`
	AliveColor string `json:"alive_color" yaml:"alive_color"`
}

// DefaultConfig returns the classic look: 4px cells, light grey lines, blue live cells
func DefaultConfig() Config {
	return Config{
		CellSize:   4,
		GridColor:  "#CCCCCC",
		DeadColor:  "#FFF",
		AliveColor: "cornflowerblue",
	}
}

// Palette is a Config with its colors resolved
type Palette struct {
	Grid  color.Color
	Dead  color.Color
	Alive color.Color
}

// Palette parses the configured colors
func (c Config) Palette() (Palette, error) {
	var (
		p   Palette
		err error
	)
	if p.Grid, err = ParseColor(c.GridColor); err != nil {
		return p, errors.Wrap(err, "[Palette] grid_color")
	}
	if p.Dead, err = ParseColor(c.DeadColor); err != nil {
		return p, errors.Wrap(err, "[Palette] dead_color")
	}
	if p.Alive, err = ParseColor(c.AliveColor); err != nil {
		return p, errors.Wrap(err, "[Palette] alive_color")
	}
	return p, nil
}

// Validate checks the cell size and every color
func (c Config) Validate() error {
	if c.CellSize < 1 {
		return errors.Wrapf(ErrInvalidCellSize, "[Validate] cell_size %d", c.CellSize)
	}
	_, err := c.Palette()
	return err
}

// CanvasSize returns the pixel length of one side of the surface for a grid of the given size.
// Each cell takes cellSize pixels plus a one pixel line, with a closing line at the far edge.
func CanvasSize(gridSize, cellSize int) int {
	return gridSize*(cellSize+1) + 1
}
