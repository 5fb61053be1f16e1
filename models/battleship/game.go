package battleship

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Phase uint8

const (
	PhaseSetup Phase = iota
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	default:
		return "setup"
	}
}

// Game is one match between the human player and the computer.
// Every exported method locks the game, so callers on different
// goroutines are served one at a time.
type Game struct {
	mu sync.Mutex

	uuid      string
	rules     Rules
	rng       *rand.Rand
	createdAt time.Time

	phase     Phase
	turn      Side
	winner    Side
	players   [2]*Player
	fleetWarn error
}

// NewGame creates a game in setup phase with the computer fleet already
// generated. A nil rng gets a randomly seeded one. If the computer fleet
// came out short, the game is still returned and ComputerFleetWarning
// says which hull sizes are missing.
func NewGame(uuid string, rules Rules, rng *rand.Rand) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Game{
		uuid:      uuid,
		rules:     rules,
		rng:       rng,
		createdAt: time.Now(),
	}
	g.reset()
	return g, nil
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Rules() Rules {
	return g.rules
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) Turn() Side {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turn
}

func (g *Game) IsFinished() bool {
	return g.Phase() == PhaseFinished
}

// Winner reports the winning side once the game has finished.
func (g *Game) Winner() (Side, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner, g.phase == PhaseFinished
}

func (g *Game) ComputerFleetWarning() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fleetWarn
}

func (g *Game) RemainingHullSizes() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingHullSizes()
}

// Restart wipes both sides and all counters and deals a fresh
// computer fleet. The returned error is the fleet warning, if any.
func (g *Game) Restart() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	return g.fleetWarn
}

func (g *Game) PlacePlayerShip(start Coordinates, length int, orientation Orientation) (*Ship, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseSetup {
		return nil, g.errWrongPhase()
	}
	if !slices.Contains(g.remainingHullSizes(), length) {
		return nil, cerr.ErrHullSizeNotAvailable(length)
	}

	player := g.players[SidePlayer]
	if err := ValidatePlacement(player.grid, start, length, orientation); err != nil {
		return nil, err
	}
	return PlaceShip(player.grid, player.fleet, start, length, orientation), nil
}

// AutoPlacePlayerFleet clears whatever the player has placed and
// deals the whole fleet at random.
func (g *Game) AutoPlacePlayerFleet() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseSetup {
		return g.errWrongPhase()
	}
	return g.autoPlace(g.players[SidePlayer])
}

func (g *Game) ClearPlayerFleet() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseSetup {
		return g.errWrongPhase()
	}
	g.players[SidePlayer].clearFleet()
	return nil
}

// BeginPlay moves the game out of setup. The player's fleet must be
// complete; the player shoots first.
func (g *Game) BeginPlay() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseSetup {
		return g.errWrongPhase()
	}

	placed := g.players[SidePlayer].fleet.Len()
	if placed != len(g.rules.HullSizes) {
		return cerr.ErrFleetIncomplete(placed, len(g.rules.HullSizes))
	}
	if g.players[SideComputer].fleet.Len() == 0 {
		return fmt.Errorf("%w: computer fleet is empty", cerr.ErrNotReady)
	}

	g.phase = PhaseInProgress
	g.turn = SidePlayer
	return nil
}

func (g *Game) PlayerShoot(at Coordinates) (ShotResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkTurn(SidePlayer); err != nil {
		return ShotResult{}, err
	}
	return g.shoot(SidePlayer, at)
}

// ComputerShoot lets the computer pick its own target from the
// player's grid, seen with unhit ships masked out.
func (g *Game) ComputerShoot() (ShotResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkTurn(SideComputer); err != nil {
		return ShotResult{}, err
	}

	target, err := ChooseTarget(g.players[SidePlayer].grid.Masked(), g.rng)
	if err != nil {
		return ShotResult{}, err
	}
	return g.shoot(SideComputer, target)
}

func (g *Game) checkTurn(attacker Side) error {
	if g.phase != PhaseInProgress {
		return fmt.Errorf("%w: phase %s", cerr.ErrGameNotInProgress, g.phase)
	}
	if g.turn != attacker {
		return fmt.Errorf("%w: %s", cerr.ErrNotYourTurn, attacker)
	}
	return nil
}

// A miss hands the turn over; a hit, sunk or not, keeps it.
func (g *Game) shoot(attacker Side, at Coordinates) (ShotResult, error) {
	defender := g.players[attacker.Other()]

	result, err := ResolveShot(defender.grid, defender.fleet, at)
	if err != nil {
		return ShotResult{}, err
	}

	g.players[attacker].recordShot(result)
	if !result.IsHit() {
		g.turn = attacker.Other()
	}
	if result.GameWon {
		g.phase = PhaseFinished
		g.winner = attacker
	}
	return result, nil
}

func (g *Game) reset() {
	g.phase = PhaseSetup
	g.turn = SidePlayer
	g.winner = SidePlayer
	g.players = [2]*Player{
		newPlayer(SidePlayer, g.rules.GridSize),
		newPlayer(SideComputer, g.rules.GridSize),
	}
	g.fleetWarn = g.autoPlace(g.players[SideComputer])
}

// autoPlace deals a fleet largest hull first, starting over on a clean
// grid up to FleetRegenerations times before settling for a short fleet.
func (g *Game) autoPlace(p *Player) error {
	order := slices.Clone(g.rules.HullSizes)
	slices.SortFunc(order, func(a, b int) int { return b - a })

	var err error
	for i := 0; i < g.rules.FleetRegenerations; i++ {
		p.clearFleet()
		if err = AutoPlaceFleet(p.grid, p.fleet, order, g.rng, g.rules.PlacementAttempts); err == nil {
			return nil
		}
	}
	return err
}

func (g *Game) remainingHullSizes() []int {
	remaining := slices.Clone(g.rules.HullSizes)
	for _, placed := range g.players[SidePlayer].fleet.HullSizes() {
		if idx := slices.Index(remaining, placed); idx != -1 {
			remaining = slices.Delete(remaining, idx, idx+1)
		}
	}
	return remaining
}

func (g *Game) errWrongPhase() error {
	return fmt.Errorf("%w: phase %s", cerr.ErrWrongPhase, g.phase)
}

// PlayerShips lists the coordinates of every ship the player has placed.
func (g *Game) PlayerShips() [][]Coordinates {
	g.mu.Lock()
	defer g.mu.Unlock()

	ships := g.players[SidePlayer].fleet.ships
	out := make([][]Coordinates, len(ships))
	for i, ship := range ships {
		out[i] = ship.Coordinates()
	}
	return out
}
