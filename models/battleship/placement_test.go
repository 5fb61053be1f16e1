package battleship

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestCanPlaceNextToFourDeck(t *testing.T) {
	grid := NewGrid(DefaultGridSize)
	fleet := NewFleet()

	require.True(t, CanPlace(grid, NewCoordinates(0, 0), 4, OrientationHorizontal))
	PlaceShip(grid, fleet, NewCoordinates(0, 0), 4, OrientationHorizontal)

	tests := []struct {
		name  string
		start Coordinates
		want  bool
	}{
		{name: "directly below", start: NewCoordinates(0, 1), want: false},
		{name: "directly after the stern", start: NewCoordinates(4, 0), want: false},
		{name: "diagonal to the stern", start: NewCoordinates(4, 1), want: false},
		{name: "overlapping", start: NewCoordinates(2, 0), want: false},
		{name: "one row gap", start: NewCoordinates(0, 2), want: true},
		{name: "one column gap", start: NewCoordinates(5, 0), want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, CanPlace(grid, test.start, 1, OrientationHorizontal))
		})
	}
}

func TestValidatePlacementErrors(t *testing.T) {
	grid := NewGrid(DefaultGridSize)
	fleet := NewFleet()
	PlaceShip(grid, fleet, NewCoordinates(5, 5), 1, OrientationHorizontal)

	tests := []struct {
		name        string
		start       Coordinates
		length      int
		orientation Orientation
		target      error
	}{
		{name: "horizontal past the edge", start: NewCoordinates(8, 0), length: 3, orientation: OrientationHorizontal, target: cerr.ErrOutOfBounds},
		{name: "vertical past the edge", start: NewCoordinates(0, 9), length: 2, orientation: OrientationVertical, target: cerr.ErrOutOfBounds},
		{name: "negative start", start: NewCoordinates(-1, 0), length: 1, orientation: OrientationHorizontal, target: cerr.ErrOutOfBounds},
		{name: "zero length", start: NewCoordinates(0, 0), length: 0, orientation: OrientationHorizontal, target: cerr.ErrPlacement},
		{name: "unknown orientation", start: NewCoordinates(0, 0), length: 1, orientation: Orientation(7), target: cerr.ErrPlacement},
		{name: "touching diagonally", start: NewCoordinates(6, 6), length: 2, orientation: OrientationVertical, target: cerr.ErrPlacement},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := grid.clone()

			err := ValidatePlacement(grid, test.start, test.length, test.orientation)
			require.Error(t, err)
			require.True(t, errors.Is(err, test.target), err.Error())
			require.True(t, errors.Is(err, cerr.ErrPlacement), err.Error())
			require.Equal(t, before, grid)
		})
	}
}

func TestPlaceShip(t *testing.T) {
	grid := NewGrid(DefaultGridSize)
	fleet := NewFleet()

	ship := PlaceShip(grid, fleet, NewCoordinates(3, 2), 3, OrientationVertical)

	require.Equal(t, 3, ship.Length())
	require.False(t, ship.IsSunk())
	require.Empty(t, ship.HitCoordinates())
	require.Equal(t, []Coordinates{{3, 2}, {3, 3}, {3, 4}}, ship.Coordinates())
	require.Equal(t, 1, fleet.Len())

	for _, c := range ship.Coordinates() {
		require.Equal(t, CellShip, grid[c.Y][c.X])

		owner, _, ok := fleet.ShipAt(c)
		require.True(t, ok)
		require.Same(t, ship, owner)
	}
}

// No two ships may share a cell or sit next to each other, whatever
// order random placements are attempted in.
func TestPlacementSeparationProperty(t *testing.T) {
	rng := testRng()

	for round := 0; round < 200; round++ {
		grid := NewGrid(DefaultGridSize)
		fleet := NewFleet()

		for try := 0; try < 60; try++ {
			start := NewCoordinates(rng.IntN(DefaultGridSize), rng.IntN(DefaultGridSize))
			length := 1 + rng.IntN(4)
			orientation := Orientation(rng.IntN(2))

			if CanPlace(grid, start, length, orientation) {
				PlaceShip(grid, fleet, start, length, orientation)
			}
		}

		requireSeparated(t, fleet)
	}
}

func TestAutoPlaceFleet(t *testing.T) {
	rng := testRng()

	var (
		grid  Grid
		fleet *Fleet
		err   error
	)
	// a random deal can paint itself into a corner; start over like the game does
	for i := 0; i < DefaultFleetRegenerations; i++ {
		grid, fleet = NewGrid(DefaultGridSize), NewFleet()
		if err = AutoPlaceFleet(grid, fleet, DefaultHullSizes, rng, DefaultPlacementAttempts); err == nil {
			break
		}
	}
	require.NoError(t, err)
	require.Equal(t, DefaultHullSizes, fleet.HullSizes())
	requireSeparated(t, fleet)

	var shipCells int
	for y := range grid {
		for _, cell := range grid[y] {
			if cell == CellShip {
				shipCells++
			}
		}
	}
	require.Equal(t, 20, shipCells)
}

func TestAutoPlaceFleetReportsMissingHullSize(t *testing.T) {
	grid := NewGrid(2)
	fleet := NewFleet()

	// two 2-deck ships can never be separated on a 2x2 grid
	err := AutoPlaceFleet(grid, fleet, []int{2, 2}, testRng(), DefaultPlacementAttempts)
	require.Error(t, err)
	require.True(t, errors.Is(err, cerr.ErrPlacementWarning))
	require.Contains(t, err.Error(), "hull size 2")

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 1)
	require.Equal(t, 1, fleet.Len())
}

func requireSeparated(t *testing.T, fleet *Fleet) {
	t.Helper()

	ships := fleet.Ships()
	for i := 0; i < len(ships); i++ {
		for j := i + 1; j < len(ships); j++ {
			for _, a := range ships[i].Coordinates() {
				for _, b := range ships[j].Coordinates() {
					dx, dy := a.X-b.X, a.Y-b.Y
					touching := dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
					require.Falsef(t, touching, "ships %d and %d touch at %v / %v", i, j, a, b)
				}
			}
		}
	}
}
