package universe

import (
	"errors"
	"image/color"
	"testing"

	"github.com/sheikhrachel/torus-gol/model"
	"github.com/sheikhrachel/torus-gol/render"
	"github.com/sheikhrachel/torus-gol/rules"
)

func TestNewSizesCanvas(t *testing.T) {
	canvas := render.NewImageCanvas()
	u, err := New(128, canvas, render.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if b := canvas.Image().Bounds(); b.Dx() != 641 || b.Dy() != 641 {
		t.Fatalf("canvas is %dx%d, want 641x641", b.Dx(), b.Dy())
	}
	if u.Grid().Width() != 128 {
		t.Fatalf("grid width = %d, want 128", u.Grid().Width())
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(0, render.NewImageCanvas(), render.DefaultConfig()); !errors.Is(err, model.ErrInvalidSize) {
		t.Fatalf("New(0) err = %v, want ErrInvalidSize", err)
	}

	cfg := render.DefaultConfig()
	cfg.CellSize = 0
	if _, err := New(4, render.NewImageCanvas(), cfg); !errors.Is(err, render.ErrInvalidCellSize) {
		t.Fatalf("New with cell size 0 err = %v, want ErrInvalidCellSize", err)
	}

	if _, err := New(4, nil, render.DefaultConfig()); err == nil {
		t.Fatal("New with nil canvas should fail")
	}
}

func TestTickAndRender(t *testing.T) {
	cells := make([]rules.Cell, 25)
	for _, idx := range []int{7, 12, 17} { // vertical blinker through the center
		cells[idx] = rules.Alive
	}
	grid, err := model.NewGridFromCells(5, cells)
	if err != nil {
		t.Fatal(err)
	}

	canvas := render.NewImageCanvas()
	u, err := NewWithGrid(grid, canvas, render.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	u.Tick()
	u.Render()

	alive := color.RGBA{0x64, 0x95, 0xed, 0xff}
	dead := color.RGBA{0xff, 0xff, 0xff, 0xff}
	img := canvas.Image()
	// (2,1) is now alive, (1,2) is dead; cell (r,c) starts at (c*5+1, r*5+1)
	if got := img.RGBAAt(1*5+2, 2*5+2); got != alive {
		t.Errorf("cell (2,1) pixel = %v, want alive", got)
	}
	if got := img.RGBAAt(2*5+2, 1*5+2); got != dead {
		t.Errorf("cell (1,2) pixel = %v, want dead", got)
	}

	if err := u.TickParallel(2); err != nil {
		t.Fatal(err)
	}
	if !u.Grid().Cell(1, 2).IsAlive() || u.Grid().Cell(2, 1).IsAlive() {
		t.Fatal("blinker did not return to vertical after two ticks")
	}
}
