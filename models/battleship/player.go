package battleship

type Side uint8

const (
	SidePlayer Side = iota
	SideComputer
)

func (s Side) Other() Side {
	if s == SidePlayer {
		return SideComputer
	}
	return SidePlayer
}

func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "computer"
}

type Counters struct {
	Shots int `json:"shots"`
	Hits  int `json:"hits"`
}

func (c Counters) Accuracy() float64 {
	if c.Shots == 0 {
		return 0
	}
	return float64(c.Hits) / float64(c.Shots)
}

// Player holds one side's grid, fleet and shot counters.
type Player struct {
	side     Side
	grid     Grid
	fleet    *Fleet
	counters Counters
}

func newPlayer(side Side, gridSize int) *Player {
	return &Player{
		side:  side,
		grid:  NewGrid(gridSize),
		fleet: NewFleet(),
	}
}

func (p *Player) clearFleet() {
	p.grid = NewGrid(p.grid.Size())
	p.fleet.clear()
}

func (p *Player) recordShot(result ShotResult) {
	p.counters.Shots++
	if result.IsHit() {
		p.counters.Hits++
	}
}
