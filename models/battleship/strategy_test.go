package battleship

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func TestChooseTargetHunt(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g Grid)
		want  Coordinates
	}{
		{
			name:  "left neighbour first",
			setup: func(g Grid) { g[4][4] = CellHit },
			want:  NewCoordinates(3, 4),
		},
		{
			name: "skips targeted neighbours",
			setup: func(g Grid) {
				g[4][4] = CellHit
				g[4][3] = CellMiss
				g[4][5] = CellMiss
			},
			want: NewCoordinates(4, 3),
		},
		{
			name:  "clipped at the left edge",
			setup: func(g Grid) { g[0][0] = CellHit },
			want:  NewCoordinates(1, 0),
		},
		{
			name: "row-major order between hits",
			setup: func(g Grid) {
				g[7][2] = CellHit
				g[5][8] = CellHit
			},
			want: NewCoordinates(7, 5),
		},
		{
			name: "exhausted hit falls through to the next one",
			setup: func(g Grid) {
				g[0][0] = CellHit
				g[0][1] = CellHit
				g[1][0] = CellMiss
				g[1][1] = CellMiss
				g[0][2] = CellMiss
				g[6][6] = CellHit
			},
			want: NewCoordinates(5, 6),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			view := NewGrid(DefaultGridSize)
			test.setup(view)

			target, err := ChooseTarget(view, testRng())
			require.NoError(t, err)
			require.Equal(t, test.want, target)
		})
	}
}

func TestChooseTargetRandomSkipsTargeted(t *testing.T) {
	view := NewGrid(DefaultGridSize)
	for y := range view {
		for x := range view[y] {
			view[y][x] = CellMiss
		}
	}
	view[6][2] = CellEmpty

	target, err := ChooseTarget(view, testRng())
	require.NoError(t, err)
	require.Equal(t, NewCoordinates(2, 6), target)
}

func TestChooseTargetNoTargetsLeft(t *testing.T) {
	view := NewGrid(3)
	for y := range view {
		for x := range view[y] {
			view[y][x] = CellMiss
		}
	}

	_, err := ChooseTarget(view, testRng())
	require.True(t, errors.Is(err, cerr.ErrNoTargetsLeft))
}

// Firing the computer's choices back into the same grid must never pick a
// cell twice, and must clear the whole board in exactly N*N shots.
func TestChooseTargetAlwaysUntargeted(t *testing.T) {
	rng := testRng()

	grid := NewGrid(DefaultGridSize)
	fleet := NewFleet()
	require.NoError(t, AutoPlaceFleet(grid, fleet, []int{4, 3, 2, 1}, rng, 1000))

	for shot := 0; shot < DefaultGridSize*DefaultGridSize; shot++ {
		target, err := ChooseTarget(grid.Masked(), rng)
		require.NoError(t, err)
		require.False(t, grid[target.Y][target.X].IsTargeted(), "shot %d picked %v twice", shot, target)

		_, err = ResolveShot(grid, fleet, target)
		require.NoError(t, err)
	}

	_, err := ChooseTarget(grid.Masked(), rng)
	require.True(t, errors.Is(err, cerr.ErrNoTargetsLeft))
	require.True(t, fleet.IsDefeated())
}
