package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid  string `json:"game_uuid"`
	GridSize  int    `json:"grid_size"`
	HullSizes []int  `json:"hull_sizes"`
}

type RespPlaceShip struct {
	Ship               []mb.Coordinates `json:"ship"`
	RemainingHullSizes []int            `json:"remaining_hull_sizes"`
}

type RespFleet struct {
	Ships              [][]mb.Coordinates `json:"ships"`
	RemainingHullSizes []int              `json:"remaining_hull_sizes"`
}

type RespAttack struct {
	X            int              `json:"x"`
	Y            int              `json:"y"`
	Outcome      mb.Outcome       `json:"outcome"`
	ShipJustSunk bool             `json:"ship_just_sunk"`
	SunkShip     []mb.Coordinates `json:"sunk_ship,omitempty"`
	IsTurn       bool             `json:"is_turn"`
	GameWon      bool             `json:"game_won"`
}

// NewRespAttack builds the attack report from the human player's
// point of view; IsTurn says whether the player shoots next.
func NewRespAttack(result mb.ShotResult, turn mb.Side) RespAttack {
	return RespAttack{
		X:            result.At.X,
		Y:            result.At.Y,
		Outcome:      result.Outcome,
		ShipJustSunk: result.ShipJustSunk,
		SunkShip:     result.SunkShip,
		IsTurn:       turn == mb.SidePlayer && !result.GameWon,
		GameWon:      result.GameWon,
	}
}

type RespEndGame struct {
	Winner   mb.Side     `json:"winner"`
	Player   mb.Counters `json:"player"`
	Computer mb.Counters `json:"computer"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
