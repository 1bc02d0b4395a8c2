package rules

// Cell is the state of a single grid position.
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

// IsAlive reports whether the cell is alive
func (c Cell) IsAlive() bool {
	return c == Alive
}

func (c Cell) String() string {
	if c == Alive {
		return "alive"
	}
	return "dead"
}

/*
NextState applies Conway's Game of Life rules to determine the next state of a cell.

A live cell survives with exactly two or three live neighbors and dies otherwise.
A dead cell with exactly three live neighbors becomes alive. Every other cell keeps its state.
*/
func NextState(current Cell, liveNeighbors int) Cell {
	switch {
	case current == Alive && (liveNeighbors == 2 || liveNeighbors == 3):
		return Alive
	case current == Alive:
		return Dead
	case liveNeighbors == 3:
		return Alive
	default:
		return current
	}
}
