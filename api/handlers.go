package api

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlaceShip]
	HandleAutoPlaceFleet(game *mb.Game) mc.Message[mc.RespFleet]
	HandleClearFleet(game *mb.Game) mc.Message[mc.RespFleet]
	HandleStartGame(game *mb.Game) mc.Message[mc.NoPayload]
	HandleAttack(game *mb.Game) mc.Message[mc.RespAttack]
	HandleSnapshot(game *mb.Game) mc.Message[mb.Snapshot]
	HandleRestart(game *mb.Game) mc.Message[mb.Snapshot]
}

// Every incoming valid request will have this structure.
// Handlers never fail; errors travel back inside the message.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func rejectWith[T any](code uint8, err error, message string) mc.Message[T] {
	log.Info().Err(err).Uint8("code", code).Msg("request rejected")

	msg := mc.NewMessage[T](code)
	msg.AddError(err.Error(), message)
	return msg
}

func errNoGame() error {
	return cerr.ErrGameNotExist("")
}

func (r Request) HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	game, err := gm.CreateGame()
	if err != nil {
		return nil, rejectWith[mc.RespCreateGame](mc.CodeCreateGame, err, "failed to create game")
	}

	rules := game.Rules()
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)
	resp.AddPayload(mc.RespCreateGame{
		GameUuid:  game.Uuid(),
		GridSize:  rules.GridSize,
		HullSizes: rules.HullSizes,
	})
	return game, resp
}

func (r Request) HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlaceShip] {
	if game == nil {
		return rejectWith[mc.RespPlaceShip](mc.CodePlaceShip, errNoGame(), "create a game first")
	}

	var req mc.Message[mc.ReqPlaceShip]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		return rejectWith[mc.RespPlaceShip](mc.CodePlaceShip, err, "invalid place ship payload")
	}

	start := mb.NewCoordinates(req.Payload.X, req.Payload.Y)
	ship, err := game.PlacePlayerShip(start, req.Payload.Length, req.Payload.Orientation)
	if err != nil {
		return rejectWith[mc.RespPlaceShip](mc.CodePlaceShip, err, "ship cannot be placed")
	}

	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)
	resp.AddPayload(mc.RespPlaceShip{
		Ship:               ship.Coordinates(),
		RemainingHullSizes: game.RemainingHullSizes(),
	})
	return resp
}

// An incomplete random fleet is still sent back, together with the
// warning, so the player can place the rest by hand.
func (r Request) HandleAutoPlaceFleet(game *mb.Game) mc.Message[mc.RespFleet] {
	if game == nil {
		return rejectWith[mc.RespFleet](mc.CodeAutoPlaceFleet, errNoGame(), "create a game first")
	}

	err := game.AutoPlacePlayerFleet()
	if err != nil && !errors.Is(err, cerr.ErrPlacementWarning) {
		return rejectWith[mc.RespFleet](mc.CodeAutoPlaceFleet, err, "fleet cannot be placed now")
	}

	resp := mc.NewMessage[mc.RespFleet](mc.CodeAutoPlaceFleet)
	resp.AddPayload(fleetOf(game))
	if err != nil {
		log.Warn().Err(err).Str("game", game.Uuid()).Msg("player fleet is incomplete")
		resp.AddError(err.Error(), "some ships could not be placed")
	}
	return resp
}

func (r Request) HandleClearFleet(game *mb.Game) mc.Message[mc.RespFleet] {
	if game == nil {
		return rejectWith[mc.RespFleet](mc.CodeClearFleet, errNoGame(), "create a game first")
	}
	if err := game.ClearPlayerFleet(); err != nil {
		return rejectWith[mc.RespFleet](mc.CodeClearFleet, err, "fleet cannot be cleared now")
	}

	resp := mc.NewMessage[mc.RespFleet](mc.CodeClearFleet)
	resp.AddPayload(fleetOf(game))
	return resp
}

func (r Request) HandleStartGame(game *mb.Game) mc.Message[mc.NoPayload] {
	if game == nil {
		return rejectWith[mc.NoPayload](mc.CodeStartGame, errNoGame(), "create a game first")
	}
	if err := game.BeginPlay(); err != nil {
		return rejectWith[mc.NoPayload](mc.CodeStartGame, err, "game cannot start")
	}
	return mc.NewMessage[mc.NoPayload](mc.CodeStartGame)
}

func (r Request) HandleAttack(game *mb.Game) mc.Message[mc.RespAttack] {
	if game == nil {
		return rejectWith[mc.RespAttack](mc.CodeAttack, errNoGame(), "create a game first")
	}

	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		return rejectWith[mc.RespAttack](mc.CodeAttack, err, "invalid attack payload")
	}

	result, err := game.PlayerShoot(mb.NewCoordinates(req.Payload.X, req.Payload.Y))
	if err != nil {
		return rejectWith[mc.RespAttack](mc.CodeAttack, err, "attack rejected")
	}

	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
	resp.AddPayload(mc.NewRespAttack(result, game.Turn()))
	return resp
}

func (r Request) HandleSnapshot(game *mb.Game) mc.Message[mb.Snapshot] {
	if game == nil {
		return rejectWith[mb.Snapshot](mc.CodeSnapshot, errNoGame(), "create a game first")
	}

	resp := mc.NewMessage[mb.Snapshot](mc.CodeSnapshot)
	resp.AddPayload(game.Snapshot())
	return resp
}

func (r Request) HandleRestart(game *mb.Game) mc.Message[mb.Snapshot] {
	if game == nil {
		return rejectWith[mb.Snapshot](mc.CodeRestart, errNoGame(), "create a game first")
	}

	if warn := game.Restart(); warn != nil {
		log.Warn().Err(warn).Str("game", game.Uuid()).Msg("computer fleet is incomplete")
	}

	resp := mc.NewMessage[mb.Snapshot](mc.CodeRestart)
	resp.AddPayload(game.Snapshot())
	return resp
}

func fleetOf(game *mb.Game) mc.RespFleet {
	return mc.RespFleet{
		Ships:              game.PlayerShips(),
		RemainingHullSizes: game.RemainingHullSizes(),
	}
}
