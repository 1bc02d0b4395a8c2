package model

import (
	"crypto/md5"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/torus-gol/rules"
)

const historyDepth = 5

var (
	// ErrInvalidSize is returned when a grid is requested with fewer than one cell per side
	ErrInvalidSize = errors.New("grid size must be at least 1")
	// ErrCellCount is returned when explicit cells do not fill a size*size grid
	ErrCellCount = errors.New("cell count does not match grid size")
)

// RandomSource yields uniform values in [0, 1)
type RandomSource interface {
	Float64() float64
}

type historyEntry struct {
	generation int
	hash       string
}

// Grid is a square toroidal board stored as a flat row-major vector of cells
type Grid struct {
	size       int
	cells      []rules.Cell
	generation int
	history    []historyEntry // recent generations for cycle detection

	pool *CellPool
}

// NewGrid creates a randomly seeded grid with a time-based source
func NewGrid(size int) (*Grid, error) {
	return NewGridWithSource(size, NewRandomSource(0))
}

// NewGridWithSource creates a grid where every cell is alive when src yields a value >= 0.5
func NewGridWithSource(size int, src RandomSource) (*Grid, error) {
	if size < 1 {
		return nil, errors.Wrapf(ErrInvalidSize, "[NewGridWithSource] size %d", size)
	}
	cells := make([]rules.Cell, size*size)
	for i := range cells {
		if src.Float64() >= 0.5 {
			cells[i] = rules.Alive
		}
	}
	return &Grid{size: size, cells: cells}, nil
}

// NewGridFromCells creates a grid holding a copy of cells
func NewGridFromCells(size int, cells []rules.Cell) (*Grid, error) {
	if size < 1 {
		return nil, errors.Wrapf(ErrInvalidSize, "[NewGridFromCells] size %d", size)
	}
	if len(cells) != size*size {
		return nil, errors.Wrapf(ErrCellCount, "[NewGridFromCells] got %d cells for size %d", len(cells), size)
	}
	own := make([]rules.Cell, len(cells))
	copy(own, cells)
	return &Grid{size: size, cells: own}, nil
}

// UsePool makes Tick draw its next-generation buffer from pool and return retired ones to it
func (g *Grid) UsePool(pool *CellPool) {
	g.pool = pool
}

// Width returns the width of the grid
func (g *Grid) Width() int {
	return g.size
}

// Height returns the height of the grid
func (g *Grid) Height() int {
	return g.size
}

// Size returns the side length of the grid
func (g *Grid) Size() int {
	return g.size
}

// Generation returns how many ticks have been applied
func (g *Grid) Generation() int {
	return g.generation
}

// Index maps in-range coordinates to the position in the cell vector
func (g *Grid) Index(row, column int) int {
	return row*g.size + column
}

// Cell returns the current state at row, column
func (g *Grid) Cell(row, column int) rules.Cell {
	return g.cells[g.Index(row, column)]
}

// Cells returns a copy of the current generation
func (g *Grid) Cells() []rules.Cell {
	out := make([]rules.Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// LiveNeighborCount counts the live cells among the eight toroidal neighbors.
// On grids smaller than 3 the wrapped neighbors alias, so a 1x1 grid counts its own cell eight times.
func (g *Grid) LiveNeighborCount(row, column int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r := (row + dr + g.size) % g.size
			c := (column + dc + g.size) % g.size
			count += int(g.cells[g.Index(r, c)])
		}
	}
	return count
}

// Tick advances the grid by exactly one generation
func (g *Grid) Tick() {
	next := g.nextBuffer()
	g.computeRows(next, 0, g.size)
	g.swap(next)
}

// TickParallel advances one generation with rows split across workers.
// workers <= 0 uses one worker per CPU.
func (g *Grid) TickParallel(workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		eg            errgroup.Group
		next          = g.nextBuffer()
		rowsPerWorker = (g.size + workers - 1) / workers // Ceiling division
	)

	for i := range workers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, g.size)
		)
		if startRow >= g.size {
			break
		}

		eg.Go(func() error {
			g.computeRows(next, startRow, endRow)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		g.release(next)
		return errors.Wrap(err, "[TickParallel] row worker failed")
	}

	g.swap(next)
	return nil
}

// computeRows writes the next state of rows [startRow, endRow) into next, reading only g.cells
func (g *Grid) computeRows(next []rules.Cell, startRow, endRow int) {
	for row := startRow; row < endRow; row++ {
		for col := range g.size {
			idx := g.Index(row, col)
			next[idx] = rules.NextState(g.cells[idx], g.LiveNeighborCount(row, col))
		}
	}
}

func (g *Grid) nextBuffer() []rules.Cell {
	if g.pool != nil {
		return g.pool.Get(len(g.cells))
	}
	return make([]rules.Cell, len(g.cells))
}

func (g *Grid) release(buf []rules.Cell) {
	if g.pool != nil {
		g.pool.Put(buf)
	}
}

func (g *Grid) swap(next []rules.Cell) {
	old := g.cells
	g.cells = next
	g.generation++
	g.release(old)
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, c := range g.cells {
		count += int(c)
	}
	return
}

// Hash returns an MD5 digest of the current generation
func (g *Grid) Hash() string {
	buf := make([]byte, len(g.cells))
	for i, c := range g.cells {
		buf[i] = byte(c)
	}
	return fmt.Sprintf("%x", md5.Sum(buf))
}

// UpdateHistory records the current generation for stagnation detection
func (g *Grid) UpdateHistory() {
	if n := len(g.history); n > 0 && g.history[n-1].generation == g.generation {
		return
	}
	g.history = append(g.history, historyEntry{generation: g.generation, hash: g.Hash()})

	// Keep only the last few states to detect short cycles
	if len(g.history) > historyDepth {
		g.history = g.history[1:]
	}
}

// IsStagnant reports whether the current generation repeats one of the previous three,
// covering still lifes and period-2 or period-3 oscillators
func (g *Grid) IsStagnant() bool {
	if len(g.history) < 3 {
		return false
	}

	current := g.Hash()
	checked := 0
	for i := len(g.history) - 1; i >= 0 && checked < 3; i-- {
		if g.history[i].generation == g.generation {
			continue
		}
		if g.history[i].hash == current {
			return true
		}
		checked++
	}
	return false
}
