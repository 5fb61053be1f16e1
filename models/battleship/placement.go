package battleship

import (
	"math/rand/v2"

	"github.com/hashicorp/go-multierror"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// ValidatePlacement checks every cell the ship would occupy. Each
// cell must be on the grid, and neither it nor any of its eight
// neighbours may already hold a ship, so ships never touch, not
// even diagonally. The grid is never mutated.
func ValidatePlacement(grid Grid, start Coordinates, length int, orientation Orientation) error {
	if length <= 0 {
		return cerr.ErrInvalidShipLength(length)
	}
	if !orientation.IsValid() {
		return cerr.ErrInvalidOrientation(uint8(orientation))
	}

	for _, c := range ShipCoordinates(start, length, orientation) {
		if !grid.InBounds(c.X, c.Y) {
			return cerr.ErrShipOutOfGridBound(start.X, start.Y, length)
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := c.X+dx, c.Y+dy
				if !grid.InBounds(nx, ny) {
					continue
				}
				if grid[ny][nx] == CellShip {
					return cerr.ErrShipTooClose(c.X, c.Y)
				}
			}
		}
	}
	return nil
}

func CanPlace(grid Grid, start Coordinates, length int, orientation Orientation) bool {
	return ValidatePlacement(grid, start, length, orientation) == nil
}

// PlaceShip puts a ship on the grid and appends it to the fleet.
// The caller must have checked CanPlace first.
func PlaceShip(grid Grid, fleet *Fleet, start Coordinates, length int, orientation Orientation) *Ship {
	coords := ShipCoordinates(start, length, orientation)
	for _, c := range coords {
		grid[c.Y][c.X] = CellShip
	}

	ship := newShip(coords)
	fleet.add(ship)
	return ship
}

// AutoPlaceFleet seats every hull size at random, trying each one at
// most attempts times. Hull sizes that could not be seated are
// reported together; the ships that did fit stay on the grid.
func AutoPlaceFleet(grid Grid, fleet *Fleet, hullSizes []int, rng *rand.Rand, attempts int) error {
	var warnings *multierror.Error

	for _, length := range hullSizes {
		placed := false

		for try := 0; try < attempts && !placed; try++ {
			start := NewCoordinates(rng.IntN(grid.Size()), rng.IntN(grid.Size()))
			orientation := OrientationHorizontal
			if rng.IntN(2) == 1 {
				orientation = OrientationVertical
			}

			if CanPlace(grid, start, length, orientation) {
				PlaceShip(grid, fleet, start, length, orientation)
				placed = true
			}
		}

		if !placed {
			warnings = multierror.Append(warnings, cerr.ErrShipNotPlaced(length))
		}
	}

	return warnings.ErrorOrNil()
}
