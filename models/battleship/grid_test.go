package battleship

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func TestNewGrid(t *testing.T) {
	grid := NewGrid(DefaultGridSize)
	require.Equal(t, DefaultGridSize, grid.Size())

	for y := range grid {
		require.Len(t, grid[y], DefaultGridSize)
		for x, cell := range grid[y] {
			require.Equalf(t, CellEmpty, cell, "non-empty cell at x: %d y: %d", x, y)
		}
	}
}

func TestGridGetSet(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		wantErr bool
	}{
		{name: "origin", x: 0, y: 0},
		{name: "far corner", x: 9, y: 9},
		{name: "negative x", x: -1, y: 0, wantErr: true},
		{name: "negative y", x: 0, y: -1, wantErr: true},
		{name: "x equal size", x: 10, y: 3, wantErr: true},
		{name: "y equal size", x: 3, y: 10, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid := NewGrid(DefaultGridSize)

			err := grid.Set(test.x, test.y, CellMiss)
			cell, getErr := grid.Get(test.x, test.y)

			if test.wantErr {
				require.True(t, errors.Is(err, cerr.ErrOutOfBounds))
				require.True(t, errors.Is(getErr, cerr.ErrOutOfBounds))
				return
			}

			require.NoError(t, err)
			require.NoError(t, getErr)
			require.Equal(t, CellMiss, cell)
		})
	}
}

func TestGridSetTouchesOnlyOneCell(t *testing.T) {
	grid := NewGrid(5)
	require.NoError(t, grid.Set(2, 3, CellShip))

	for y := range grid {
		for x, cell := range grid[y] {
			if x == 2 && y == 3 {
				require.Equal(t, CellShip, cell)
				continue
			}
			require.Equal(t, CellEmpty, cell)
		}
	}
}

func TestGridMasked(t *testing.T) {
	grid := NewGrid(4)
	grid[0][0] = CellShip
	grid[1][1] = CellHit
	grid[2][2] = CellMiss

	masked := grid.Masked()
	require.Equal(t, CellEmpty, masked[0][0])
	require.Equal(t, CellHit, masked[1][1])
	require.Equal(t, CellMiss, masked[2][2])

	// the source grid is untouched
	require.Equal(t, CellShip, grid[0][0])
}

func TestGridString(t *testing.T) {
	grid := NewGrid(3)
	grid[0][1] = CellShip
	grid[1][1] = CellHit
	grid[2][0] = CellMiss

	out := grid.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "S")
	require.Contains(t, lines[2], "X")
	require.Contains(t, lines[3], "O")

	require.Contains(t, Grid{}.String(), "SIZE ZERO")
}

func TestGridMarshalsRowsAsNumbers(t *testing.T) {
	grid := NewGrid(2)
	grid[0][1] = CellHit
	grid[1][0] = CellMiss

	raw, err := json.Marshal(grid)
	require.NoError(t, err)
	require.JSONEq(t, `[[0,2],[3,0]]`, string(raw))

	var decoded Grid
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, grid, decoded)
}
