// Package universe drives a Game of Life grid and paints each generation onto a canvas.
package universe

import (
	"github.com/pkg/errors"

	"github.com/sheikhrachel/torus-gol/model"
	"github.com/sheikhrachel/torus-gol/render"
)

// Universe owns one grid and the surface it is drawn on
type Universe struct {
	grid     *model.Grid
	renderer *render.CanvasRenderer
}

// New creates a randomly seeded universe of size*size cells and sizes canvas to fit it
func New(size int, canvas render.Canvas, cfg render.Config) (*Universe, error) {
	grid, err := model.NewGrid(size)
	if err != nil {
		return nil, errors.Wrap(err, "[New] failed to create grid")
	}
	return NewWithGrid(grid, canvas, cfg)
}

// NewWithGrid wraps an existing grid
func NewWithGrid(grid *model.Grid, canvas render.Canvas, cfg render.Config) (*Universe, error) {
	if grid == nil {
		return nil, errors.New("[NewWithGrid] grid is nil")
	}
	if canvas == nil {
		return nil, errors.New("[NewWithGrid] canvas is nil")
	}
	renderer, err := render.NewCanvasRenderer(canvas, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "[NewWithGrid] invalid render config")
	}
	renderer.Resize(grid.Size())

	return &Universe{grid: grid, renderer: renderer}, nil
}

// Grid returns the simulated grid
func (u *Universe) Grid() *model.Grid {
	return u.grid
}

// Tick advances one generation
func (u *Universe) Tick() {
	u.grid.Tick()
}

// TickParallel advances one generation splitting rows across workers
func (u *Universe) TickParallel(workers int) error {
	return u.grid.TickParallel(workers)
}

// Render draws the current generation
func (u *Universe) Render() {
	u.renderer.Render(u.grid)
}
