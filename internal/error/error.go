package error

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds         = errors.New("coordinates out of grid bound")
	ErrPlacement           = errors.New("ship cannot be placed here")
	ErrPlacementWarning    = errors.New("ship could not be placed within the retry budget")
	ErrHullSizeUnavailable = errors.New("no ship of this hull size left to place")
	ErrNotReady            = errors.New("player fleet is not complete")
	ErrAlreadyTargeted     = errors.New("position already targeted")
	ErrNotYourTurn         = errors.New("not this side's turn")
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrWrongPhase          = errors.New("operation not allowed in current game phase")
	ErrNoTargetsLeft       = errors.New("no untargeted position left")
	ErrGameNotExists       = errors.New("game does not exist")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidRules        = errors.New("invalid game rules")
	ErrFleetOutOfSync      = errors.New("grid and fleet are out of sync")
	ErrSignalAbsent        = errors.New("incoming payload has no code field")
)

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrOutOfBounds, x, y)
}

func ErrShipOutOfGridBound(x, y, length int) error {
	return fmt.Errorf("%w: ship of length %d starting at x: %d y: %d leaves the grid: %w", ErrPlacement, length, x, y, ErrOutOfBounds)
}

func ErrShipTooClose(x, y int) error {
	return fmt.Errorf("%w: another ship is at or next to x: %d\ty: %d", ErrPlacement, x, y)
}

func ErrInvalidShipLength(length int) error {
	return fmt.Errorf("%w: invalid ship length %d", ErrPlacement, length)
}

func ErrInvalidOrientation(orientation uint8) error {
	return fmt.Errorf("%w: invalid orientation %d", ErrPlacement, orientation)
}

func ErrShipNotPlaced(length int) error {
	return fmt.Errorf("%w: hull size %d", ErrPlacementWarning, length)
}

func ErrHullSizeNotAvailable(length int) error {
	return fmt.Errorf("%w: %d", ErrHullSizeUnavailable, length)
}

func ErrFleetIncomplete(placed, required int) error {
	return fmt.Errorf("%w: %d of %d ships placed", ErrNotReady, placed, required)
}

func ErrPositionAlreadyTargeted(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrAlreadyTargeted, x, y)
}

func ErrGameNotExist(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotExists, gameUuid)
}

func ErrSessionNotExist(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrRules(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRules, reason)
}

func ErrNoShipAt(x, y int) error {
	return fmt.Errorf("%w: ship cell without owning ship\tx: %d\ty: %d", ErrFleetOutOfSync, x, y)
}
