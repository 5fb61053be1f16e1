package battleship

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Cell uint8

const (
	CellEmpty Cell = iota
	CellShip
	CellHit
	CellMiss
)

// IsTargeted reports whether a shot has already resolved on this cell.
func (c Cell) IsTargeted() bool {
	return c == CellHit || c == CellMiss
}

func (c Cell) String() string {
	switch c {
	case CellShip:
		return "ship"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	default:
		return "empty"
	}
}

// MarshalJSON keeps grid rows as number arrays instead of base64.
func (c Cell) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(c), 10), nil
}

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

// Grid is indexed as grid[y][x].
type Grid [][]Cell

// Creates a new default grid
// All cells are CellEmpty
func NewGrid(gridSize int) Grid {
	grid := make(Grid, gridSize)

	for i := 0; i < gridSize; i++ {
		grid[i] = make([]Cell, gridSize)
	}
	return grid
}

func (g Grid) Size() int {
	return len(g)
}

func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && y < len(g) && x < len(g[y])
}

func (g Grid) Get(x, y int) (Cell, error) {
	if !g.InBounds(x, y) {
		return CellEmpty, cerr.ErrXorYOutOfGridBound(x, y)
	}
	return g[y][x], nil
}

func (g Grid) Set(x, y int, cell Cell) error {
	if !g.InBounds(x, y) {
		return cerr.ErrXorYOutOfGridBound(x, y)
	}
	g[y][x] = cell
	return nil
}

// Masked returns a copy of the grid in which ships that
// have not been hit read as empty water.
func (g Grid) Masked() Grid {
	masked := NewGrid(len(g))
	for y := range g {
		for x, cell := range g[y] {
			if cell == CellShip {
				cell = CellEmpty
			}
			masked[y][x] = cell
		}
	}
	return masked
}

func (g Grid) clone() Grid {
	cp := NewGrid(len(g))
	for y := range g {
		copy(cp[y], g[y])
	}
	return cp
}

func (g Grid) String() string {
	if len(g) == 0 {
		return "GRID HAS SIZE ZERO -- NOT PRINTING\n"
	}

	var buffer bytes.Buffer
	tabWriter := tabwriter.NewWriter(&buffer, 3, 0, 1, ' ', 0)

	fmt.Fprint(tabWriter, "\t")
	for x := 0; x < len(g); x++ {
		fmt.Fprint(tabWriter, strconv.Itoa(x)+"\t")
	}
	fmt.Fprint(tabWriter, "\n")

	for y := range g {
		fmt.Fprint(tabWriter, strconv.Itoa(y)+"\t")
		for _, cell := range g[y] {
			switch cell {
			case CellShip:
				fmt.Fprint(tabWriter, "S\t")
			case CellHit:
				fmt.Fprint(tabWriter, "X\t")
			case CellMiss:
				fmt.Fprint(tabWriter, "O\t")
			default:
				fmt.Fprint(tabWriter, "~\t")
			}
		}
		fmt.Fprint(tabWriter, "\n")
	}
	tabWriter.Flush()
	return buffer.String()
}
