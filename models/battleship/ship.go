package battleship

import "github.com/dolthub/swiss"

type Orientation uint8

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

func (o Orientation) IsValid() bool {
	return o == OrientationHorizontal || o == OrientationVertical
}

// ShipCoordinates returns the straight run of cells a ship of
// this length would occupy. Horizontal grows x, vertical grows y.
func ShipCoordinates(start Coordinates, length int, orientation Orientation) []Coordinates {
	coords := make([]Coordinates, 0, length)
	for i := 0; i < length; i++ {
		if orientation == OrientationHorizontal {
			coords = append(coords, NewCoordinates(start.X+i, start.Y))
		} else {
			coords = append(coords, NewCoordinates(start.X, start.Y+i))
		}
	}
	return coords
}

type Ship struct {
	coordinates []Coordinates
	hits        []bool
	sunk        bool
}

func newShip(coordinates []Coordinates) *Ship {
	return &Ship{
		coordinates: coordinates,
		hits:        make([]bool, len(coordinates)),
	}
}

func (sh *Ship) Length() int {
	return len(sh.coordinates)
}

func (sh *Ship) IsSunk() bool {
	return sh.sunk
}

func (sh *Ship) Coordinates() []Coordinates {
	out := make([]Coordinates, len(sh.coordinates))
	copy(out, sh.coordinates)
	return out
}

func (sh *Ship) HitCoordinates() []Coordinates {
	out := make([]Coordinates, 0, len(sh.coordinates))
	for i, hit := range sh.hits {
		if hit {
			out = append(out, sh.coordinates[i])
		}
	}
	return out
}

// gotHit marks the deck at idx and reports whether this
// hit is the one that sank the ship.
func (sh *Ship) gotHit(idx int) bool {
	sh.hits[idx] = true

	wasSunk := sh.sunk
	sh.sunk = true
	for _, hit := range sh.hits {
		if !hit {
			sh.sunk = false
			break
		}
	}
	return !wasSunk && sh.sunk
}

type deck struct {
	ship int
	idx  int
}

type Fleet struct {
	ships []*Ship
	decks *swiss.Map[Coordinates, deck]
}

func NewFleet() *Fleet {
	return &Fleet{
		ships: make([]*Ship, 0, len(DefaultHullSizes)),
		decks: swiss.NewMap[Coordinates, deck](32),
	}
}

func (f *Fleet) add(sh *Ship) {
	f.ships = append(f.ships, sh)
	for i, c := range sh.coordinates {
		f.decks.Put(c, deck{ship: len(f.ships) - 1, idx: i})
	}
}

func (f *Fleet) Ships() []*Ship {
	out := make([]*Ship, len(f.ships))
	copy(out, f.ships)
	return out
}

func (f *Fleet) Len() int {
	return len(f.ships)
}

// ShipAt returns the ship occupying c together with the
// index of that coordinate within the ship.
func (f *Fleet) ShipAt(c Coordinates) (*Ship, int, bool) {
	d, ok := f.decks.Get(c)
	if !ok {
		return nil, -1, false
	}
	return f.ships[d.ship], d.idx, true
}

func (f *Fleet) SunkCount() int {
	var n int
	for _, sh := range f.ships {
		if sh.sunk {
			n++
		}
	}
	return n
}

// IsDefeated reports whether every ship has sunk. An empty
// fleet is never defeated.
func (f *Fleet) IsDefeated() bool {
	if len(f.ships) == 0 {
		return false
	}
	return f.SunkCount() == len(f.ships)
}

func (f *Fleet) HullSizes() []int {
	sizes := make([]int, len(f.ships))
	for i, sh := range f.ships {
		sizes[i] = sh.Length()
	}
	return sizes
}

func (f *Fleet) clear() {
	f.ships = f.ships[:0]
	f.decks.Clear()
}
