package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type ReqPlaceShip struct {
	X           int            `json:"x"`
	Y           int            `json:"y"`
	Length      int            `json:"length"`
	Orientation mb.Orientation `json:"orientation"`
}

type ReqAttack struct {
	X int `json:"x"`
	Y int `json:"y"`
}
