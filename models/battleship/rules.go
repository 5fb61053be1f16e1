package battleship

import (
	"fmt"
	"slices"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	DefaultGridSize           = 10
	DefaultPlacementAttempts  = 100
	DefaultFleetRegenerations = 10
)

// One 4-deck, two 3-deck, three 2-deck and four 1-deck ships.
var DefaultHullSizes = []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

type Rules struct {
	GridSize           int   `yaml:"board_size"`
	HullSizes          []int `yaml:"hull_sizes"`
	PlacementAttempts  int   `yaml:"placement_attempts"`
	FleetRegenerations int   `yaml:"fleet_regenerations"`
}

func DefaultRules() Rules {
	return Rules{
		GridSize:           DefaultGridSize,
		HullSizes:          slices.Clone(DefaultHullSizes),
		PlacementAttempts:  DefaultPlacementAttempts,
		FleetRegenerations: DefaultFleetRegenerations,
	}
}

func (r Rules) Validate() error {
	if r.GridSize <= 0 {
		return cerr.ErrRules(fmt.Sprintf("board size must be positive, got %d", r.GridSize))
	}
	if len(r.HullSizes) == 0 {
		return cerr.ErrRules("hull sizes must not be empty")
	}
	for _, size := range r.HullSizes {
		if size <= 0 || size > r.GridSize {
			return cerr.ErrRules(fmt.Sprintf("hull size %d does not fit a board of size %d", size, r.GridSize))
		}
	}
	if r.PlacementAttempts <= 0 {
		return cerr.ErrRules(fmt.Sprintf("placement attempts must be positive, got %d", r.PlacementAttempts))
	}
	if r.FleetRegenerations <= 0 {
		return cerr.ErrRules(fmt.Sprintf("fleet regenerations must be positive, got %d", r.FleetRegenerations))
	}
	return nil
}
