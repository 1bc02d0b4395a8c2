package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/vector"
)

const lineWidth = 1.0

type segment struct {
	x0, y0, x1, y1 float64
}

// ImageCanvas is an in-memory Canvas backed by an RGBA image.
// Resize paints the whole image with the background, the page a browser canvas sits on.
type ImageCanvas struct {
	img        *image.RGBA
	background color.Color
	stroke     color.Color
	fill       color.Color
	raster     *vector.Rasterizer

	path   []segment
	cx, cy float64
}

func NewImageCanvas() *ImageCanvas {
	return &ImageCanvas{
		img:        image.NewRGBA(image.Rect(0, 0, 0, 0)),
		background: color.White,
		stroke:     color.Black,
		fill:       color.Black,
		raster:     vector.NewRasterizer(0, 0),
	}
}

// Image exposes the backing image
func (c *ImageCanvas) Image() *image.RGBA { return c.img }

func (c *ImageCanvas) Resize(width, height int) {
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
}

func (c *ImageCanvas) BeginPath() { c.path = c.path[:0] }

func (c *ImageCanvas) SetStrokeColor(col color.Color) { c.stroke = col }

func (c *ImageCanvas) SetFillColor(col color.Color) { c.fill = col }

func (c *ImageCanvas) MoveTo(x, y float64) { c.cx, c.cy = x, y }

func (c *ImageCanvas) LineTo(x, y float64) {
	c.path = append(c.path, segment{c.cx, c.cy, x, y})
	c.cx, c.cy = x, y
}

// Stroke rasterizes the current path one pixel wide. Like a browser canvas, a line on an
// integer coordinate covers half of each pixel beside it and is blended over what is there.
func (c *ImageCanvas) Stroke() {
	if len(c.path) == 0 {
		return
	}
	b := c.img.Bounds()
	c.raster.Reset(b.Dx(), b.Dy())
	c.raster.DrawOp = draw.Over
	for _, s := range c.path {
		c.outline(s)
	}
	c.raster.Draw(c.img, b, image.NewUniform(c.stroke), image.Point{})
}

// outline adds the quad covering a segment of lineWidth to the rasterizer
func (c *ImageCanvas) outline(s segment) {
	dx, dy := s.x1-s.x0, s.y1-s.y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*lineWidth/2, dx/length*lineWidth/2

	c.raster.MoveTo(float32(s.x0+nx), float32(s.y0+ny))
	c.raster.LineTo(float32(s.x1+nx), float32(s.y1+ny))
	c.raster.LineTo(float32(s.x1-nx), float32(s.y1-ny))
	c.raster.LineTo(float32(s.x0-nx), float32(s.y0-ny))
	c.raster.ClosePath()
}

func (c *ImageCanvas) FillRect(x, y, w, h float64) {
	r := image.Rect(int(x), int(y), int(x+w), int(y+h))
	draw.Draw(c.img, r, image.NewUniform(c.fill), image.Point{}, draw.Src)
}

// SavePNG writes the current image to path
func (c *ImageCanvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[SavePNG] failed to create file: %+v", path)
	}
	defer f.Close()

	if err = png.Encode(f, c.img); err != nil {
		return errors.Wrapf(err, "[SavePNG] failed to encode image: %+v", path)
	}
	return f.Close()
}
