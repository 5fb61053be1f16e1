package battleship

import (
	"math/rand/v2"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// left, right, up, down
var huntNeighbours = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// ChooseTarget picks the computer's next shot from what is visible
// on the defending grid. Any hit with an untargeted orthogonal
// neighbour is followed up first, in row-major order. Otherwise a
// uniformly random untargeted cell is returned.
//
// The choice depends only on the grid; nothing is remembered between
// calls.
func ChooseTarget(view Grid, rng *rand.Rand) (Coordinates, error) {
	if target, ok := huntTarget(view); ok {
		return target, nil
	}

	candidates := make([]Coordinates, 0, view.Size()*view.Size())
	for y := range view {
		for x, cell := range view[y] {
			if !cell.IsTargeted() {
				candidates = append(candidates, NewCoordinates(x, y))
			}
		}
	}
	if len(candidates) == 0 {
		return Coordinates{}, cerr.ErrNoTargetsLeft
	}

	return candidates[rng.IntN(len(candidates))], nil
}

func huntTarget(view Grid) (Coordinates, bool) {
	for y := range view {
		for x, cell := range view[y] {
			if cell != CellHit {
				continue
			}

			for _, n := range huntNeighbours {
				nx, ny := x+n[0], y+n[1]
				if view.InBounds(nx, ny) && !view[ny][nx].IsTargeted() {
					return NewCoordinates(nx, ny), true
				}
			}
		}
	}
	return Coordinates{}, false
}
