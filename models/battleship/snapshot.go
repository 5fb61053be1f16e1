package battleship

type SideSnapshot struct {
	Counters   Counters `json:"counters"`
	Accuracy   float64  `json:"accuracy"`
	ShipsTotal int      `json:"ships_total"`
	ShipsSunk  int      `json:"ships_sunk"`
}

// Snapshot is a read-only copy of the game for presentation.
// OpponentGrid only ever comes from Grid.Masked, so ships the player
// has not hit yet cannot leak through it.
type Snapshot struct {
	GameUuid           string       `json:"game_uuid"`
	Phase              Phase        `json:"phase"`
	Turn               Side         `json:"turn"`
	Winner             *Side        `json:"winner,omitempty"`
	PlayerGrid         Grid         `json:"player_grid"`
	OpponentGrid       Grid         `json:"opponent_grid"`
	RemainingHullSizes []int        `json:"remaining_hull_sizes"`
	Player             SideSnapshot `json:"player"`
	Computer           SideSnapshot `json:"computer"`
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, computer := g.players[SidePlayer], g.players[SideComputer]

	snapshot := Snapshot{
		GameUuid:           g.uuid,
		Phase:              g.phase,
		Turn:               g.turn,
		PlayerGrid:         player.grid.clone(),
		OpponentGrid:       computer.grid.Masked(),
		RemainingHullSizes: g.remainingHullSizes(),
		Player:             newSideSnapshot(player),
		Computer:           newSideSnapshot(computer),
	}
	if g.phase == PhaseFinished {
		winner := g.winner
		snapshot.Winner = &winner
	}
	return snapshot
}

func newSideSnapshot(p *Player) SideSnapshot {
	return SideSnapshot{
		Counters:   p.counters,
		Accuracy:   p.counters.Accuracy(),
		ShipsTotal: p.fleet.Len(),
		ShipsSunk:  p.fleet.SunkCount(),
	}
}
