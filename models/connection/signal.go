package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID

	// Setup phase
	CodeCreateGame
	CodePlaceShip
	CodeAutoPlaceFleet
	CodeClearFleet
	CodeStartGame

	// Battle phase. The server answers a player miss with
	// one CodeComputerAttack per computer shot.
	CodeAttack
	CodeComputerAttack
	CodeEndGame

	CodeSnapshot
	CodeRestart

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)
