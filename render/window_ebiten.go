//go:build ebiten

package render

import (
	"context"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
)

// EbitenCanvas draws onto the screen image of the current frame
type EbitenCanvas struct {
	width, height int
	target        *ebiten.Image

	background color.Color
	stroke     color.Color
	fill       color.Color
	path       []segment
	cx, cy     float64
}

// NewWindowCanvas returns a canvas that paints into an ebiten window
func NewWindowCanvas() (Canvas, error) {
	return &EbitenCanvas{background: color.White, stroke: color.Black, fill: color.Black}, nil
}

func (c *EbitenCanvas) Resize(width, height int) {
	c.width, c.height = width, height
}

// Size returns the logical surface size
func (c *EbitenCanvas) Size() (int, int) { return c.width, c.height }

func (c *EbitenCanvas) BeginPath() { c.path = c.path[:0] }

func (c *EbitenCanvas) SetStrokeColor(col color.Color) { c.stroke = col }

func (c *EbitenCanvas) SetFillColor(col color.Color) { c.fill = col }

func (c *EbitenCanvas) MoveTo(x, y float64) { c.cx, c.cy = x, y }

func (c *EbitenCanvas) LineTo(x, y float64) {
	c.path = append(c.path, segment{c.cx, c.cy, x, y})
	c.cx, c.cy = x, y
}

func (c *EbitenCanvas) Stroke() {
	if c.target == nil {
		return
	}
	for _, s := range c.path {
		vector.StrokeLine(c.target, float32(s.x0), float32(s.y0), float32(s.x1), float32(s.y1), 1, c.stroke, true)
	}
}

func (c *EbitenCanvas) FillRect(x, y, w, h float64) {
	if c.target == nil {
		return
	}
	vector.DrawFilledRect(c.target, float32(x), float32(y), float32(w), float32(h), c.fill, false)
}

// Window adapts a Driver to the ebiten.Game interface
type Window struct {
	ctx      context.Context
	driver   Driver
	canvas   *EbitenCanvas
	paused   bool
	tickOnce bool
}

// Update handles per-frame input and advances the simulation
func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		w.paused = !w.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		w.tickOnce = true
	}

	if !w.paused || w.tickOnce {
		w.tickOnce = false
		return w.driver.Step()
	}
	return nil
}

// Draw renders the current generation
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(w.canvas.background)
	w.canvas.target = screen
	w.driver.Render()
	w.canvas.target = nil
}

// Layout returns the logical screen size
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.canvas.Size()
}

// RunWindow opens a window and drives frames until it closes, ctx is done or Step fails.
// canvas must come from NewWindowCanvas.
func RunWindow(ctx context.Context, title string, tps int, driver Driver, canvas Canvas) error {
	ec, ok := canvas.(*EbitenCanvas)
	if !ok {
		return errors.New("RunWindow needs the canvas returned by NewWindowCanvas")
	}

	width, height := ec.Size()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	if tps > 0 {
		ebiten.SetTPS(tps)
	}

	err := ebiten.RunGame(&Window{ctx: ctx, driver: driver, canvas: ec})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "[RunWindow] game loop failed")
	}
	return nil
}
