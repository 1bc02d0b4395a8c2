package model

import (
	"sync"

	"github.com/sheikhrachel/torus-gol/rules"
)

// CellPool recycles generation buffers between ticks
type CellPool struct {
	pool sync.Pool
}

func NewCellPool() *CellPool {
	return &CellPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]rules.Cell)
			},
		},
	}
}

// Get retrieves a buffer of length n. Its contents are unspecified.
func (p *CellPool) Get(n int) []rules.Cell {
	buf := p.pool.Get().(*[]rules.Cell)
	if cap(*buf) < n {
		*buf = make([]rules.Cell, n)
	}
	return (*buf)[:n]
}

// Put returns a buffer to the pool
func (p *CellPool) Put(buf []rules.Cell) {
	if buf == nil {
		return
	}
	p.pool.Put(&buf)
}
