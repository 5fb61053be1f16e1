package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Outcome uint8

const (
	OutcomeMiss Outcome = iota
	OutcomeHit
)

type ShotResult struct {
	At           Coordinates   `json:"at"`
	Outcome      Outcome       `json:"outcome"`
	ShipJustSunk bool          `json:"ship_just_sunk"`
	SunkShip     []Coordinates `json:"sunk_ship,omitempty"`
	GameWon      bool          `json:"game_won"`
}

func (sr ShotResult) IsHit() bool {
	return sr.Outcome == OutcomeHit
}

// ResolveShot fires at one cell of the defending grid. Exactly one
// cell changes on success; a cell that was already hit or missed is
// rejected without touching anything.
func ResolveShot(grid Grid, fleet *Fleet, at Coordinates) (ShotResult, error) {
	cell, err := grid.Get(at.X, at.Y)
	if err != nil {
		return ShotResult{}, err
	}
	if cell.IsTargeted() {
		return ShotResult{}, cerr.ErrPositionAlreadyTargeted(at.X, at.Y)
	}

	result := ShotResult{At: at, Outcome: OutcomeMiss}

	switch cell {
	case CellShip:
		ship, idx, ok := fleet.ShipAt(at)
		if !ok {
			return ShotResult{}, cerr.ErrNoShipAt(at.X, at.Y)
		}

		grid[at.Y][at.X] = CellHit
		result.Outcome = OutcomeHit
		if ship.gotHit(idx) {
			result.ShipJustSunk = true
			result.SunkShip = ship.Coordinates()
		}

	default:
		grid[at.Y][at.X] = CellMiss
	}

	result.GameWon = fleet.IsDefeated()
	return result, nil
}
