package render

import (
	"image/color"

	"github.com/sheikhrachel/torus-gol/rules"
)

// Canvas is the 2D drawing surface a renderer paints onto
type Canvas interface {
	Resize(width, height int)
	BeginPath()
	SetStrokeColor(c color.Color)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
	SetFillColor(c color.Color)
	FillRect(x, y, w, h float64)
}

// CellSource is the read-only view of a generation that renderers need
type CellSource interface {
	Width() int
	Height() int
	Cell(row, column int) rules.Cell
}

// CanvasRenderer draws gridlines and cells onto a Canvas
type CanvasRenderer struct {
	canvas   Canvas
	cellSize int
	palette  Palette
}

func NewCanvasRenderer(canvas Canvas, cfg Config) (*CanvasRenderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palette, _ := cfg.Palette()
	return &CanvasRenderer{canvas: canvas, cellSize: cfg.CellSize, palette: palette}, nil
}

// Resize sizes the canvas for a square grid of gridSize cells
func (r *CanvasRenderer) Resize(gridSize int) {
	side := CanvasSize(gridSize, r.cellSize)
	r.canvas.Resize(side, side)
}

// Render draws the gridlines followed by every cell
func (r *CanvasRenderer) Render(src CellSource) {
	r.drawGrid(src)
	r.drawCells(src)
}

func (r *CanvasRenderer) drawGrid(src CellSource) {
	step := float64(r.cellSize + 1)
	r.canvas.BeginPath()
	r.canvas.SetStrokeColor(r.palette.Grid)

	for i := range src.Width() {
		x := float64(i)*step + 1
		r.canvas.MoveTo(x, 0)
		r.canvas.LineTo(x, step*float64(src.Height())+1)
	}

	for j := range src.Height() {
		y := float64(j)*step + 1
		r.canvas.MoveTo(0, y)
		r.canvas.LineTo(step*float64(src.Width())+1, y)
	}

	r.canvas.Stroke()
}

func (r *CanvasRenderer) drawCells(src CellSource) {
	var (
		step = float64(r.cellSize + 1)
		side = float64(r.cellSize)
	)
	r.canvas.BeginPath()
	for row := range src.Height() {
		for col := range src.Width() {
			if src.Cell(row, col).IsAlive() {
				r.canvas.SetFillColor(r.palette.Alive)
			} else {
				r.canvas.SetFillColor(r.palette.Dead)
			}
			r.canvas.FillRect(float64(col)*step+1, float64(row)*step+1, side, side)
		}
	}
	r.canvas.Stroke()
}
