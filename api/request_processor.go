package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager     mc.SessionManager
	gameManager        mb.GameManager
	analytics          *sqlc.AnalyticsManager
	stats              *Stats
	computerMoveDelay  time.Duration
	computerChainDelay time.Duration
}

var _ http.Handler = RequestProcessor{}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	analytics *sqlc.AnalyticsManager,
	stats *Stats,
	computerMoveDelay time.Duration,
	computerChainDelay time.Duration,
) RequestProcessor {
	if stats == nil {
		stats = &Stats{}
	}

	return RequestProcessor{
		sessionManager:     sessionManager,
		gameManager:        gameManager,
		analytics:          analytics,
		stats:              stats,
		computerMoveDelay:  computerMoveDelay,
		computerChainDelay: computerChainDelay,
	}
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgrade replies to the client itself on failure
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("could not open websocket connection")
		return
	}

	rp.stats.OpenConns.Inc()
	defer rp.stats.OpenConns.Dec()

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("a new connection established")
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		session, err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn)
		if err != nil {
			// This either means an expired session or invalid session ID
			log.Info().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("reconnection rejected")
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			_ = conn.Close()
			return
		}
		rp.processSessionRequests(session)
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	var detached bool
	conn := session.Conn()

	defer func() {
		// Only this loop's conn; a reconnect may have attached a new one
		_ = conn.Close()

		// A detached session waits for its client to come back
		if detached {
			return
		}
		if game := session.Game(); game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
		}
		rp.sessionManager.TerminateSession(session)
		log.Info().Str("session", session.Id()).Msg("session terminated")
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := rp.write(session, resp); err != nil {
		detached = mc.IsAbnormalClosure(err)
		return
	}

	// A returning client gets its game back as it was left
	if game := session.Game(); game != nil {
		if err := rp.write(session, NewRequest().HandleSnapshot(game)); err != nil {
			detached = mc.IsAbnormalClosure(err)
			return
		}

		// The previous conn may have dropped in the middle of the computer's turn
		if game.Phase() == mb.PhaseInProgress && game.Turn() == mb.SideComputer {
			if err := rp.playComputerTurns(session, game); err != nil {
				detached = mc.IsAbnormalClosure(err)
				return
			}
		}
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			detached = mc.IsAbnormalClosure(err)
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err := rp.write(session, msg); err != nil {
				detached = mc.IsAbnormalClosure(err)
				break sessionLoop
			}
			continue sessionLoop
		}

		if err := rp.handleSignal(session, code, payload); err != nil {
			detached = mc.IsAbnormalClosure(err)
			break sessionLoop
		}
	}
}

// handleSignal answers one request. The returned error is only ever
// a connection error; game errors go back to the client.
func (rp RequestProcessor) handleSignal(session *mc.Session, code uint8, payload []byte) error {
	game := session.Game()
	req := NewRequest(payload)

	switch code {
	case mc.CodeCreateGame:
		if game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
		}

		newGame, respMsg := req.HandleCreateGame(rp.gameManager)
		if newGame != nil {
			session.SetGame(newGame)
			rp.stats.GamesCreated.Inc()
			rp.record("games_created", rp.analytics.IncrementGamesCreatedCount)

			if warn := newGame.ComputerFleetWarning(); warn != nil {
				log.Warn().Err(warn).Str("game", newGame.Uuid()).Msg("computer fleet is incomplete")
			}
			log.Info().Str("session", session.Id()).Str("game", newGame.Uuid()).Msg("game created")
		}
		return rp.write(session, respMsg)

	case mc.CodePlaceShip:
		return rp.write(session, req.HandlePlaceShip(game))

	case mc.CodeAutoPlaceFleet:
		return rp.write(session, req.HandleAutoPlaceFleet(game))

	case mc.CodeClearFleet:
		return rp.write(session, req.HandleClearFleet(game))

	case mc.CodeStartGame:
		return rp.write(session, req.HandleStartGame(game))

	// After the player's miss the computer plays all of
	// its turns before the next request is read
	case mc.CodeAttack:
		respMsg := req.HandleAttack(game)
		if err := rp.write(session, respMsg); err != nil {
			return err
		}

		switch {
		case respMsg.Error != nil:
			return nil
		case respMsg.Payload.GameWon:
			return rp.endGame(session, game)
		case !respMsg.Payload.IsTurn:
			return rp.playComputerTurns(session, game)
		}
		return nil

	case mc.CodeSnapshot:
		return rp.write(session, req.HandleSnapshot(game))

	case mc.CodeRestart:
		respMsg := req.HandleRestart(game)
		if respMsg.Error == nil {
			rp.record("restarts_called", rp.analytics.IncrementRestartsCalledCount)
		}
		return rp.write(session, respMsg)

	default:
		respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
		respInvalidSignal.AddError("", "invalid code in the incoming payload")
		return rp.write(session, respInvalidSignal)
	}
}

// playComputerTurns shoots for the computer until it misses or wins,
// pushing one frame per shot.
func (rp RequestProcessor) playComputerTurns(session *mc.Session, game *mb.Game) error {
	delay := rp.computerMoveDelay

	for {
		time.Sleep(delay)

		result, err := game.ComputerShoot()
		if err != nil {
			log.Error().Err(err).Str("game", game.Uuid()).Msg("computer could not shoot")
			return nil
		}

		msg := mc.NewMessage[mc.RespAttack](mc.CodeComputerAttack)
		msg.AddPayload(mc.NewRespAttack(result, game.Turn()))
		if err := rp.write(session, msg); err != nil {
			return err
		}

		if result.GameWon {
			return rp.endGame(session, game)
		}
		if !result.IsHit() {
			return nil
		}
		delay = rp.computerChainDelay
	}
}

func (rp RequestProcessor) endGame(session *mc.Session, game *mb.Game) error {
	snapshot := game.Snapshot()
	if snapshot.Winner == nil {
		return nil
	}
	winner := *snapshot.Winner

	rp.stats.GamesFinished.Inc()
	if winner == mb.SidePlayer {
		rp.record("player_wins", rp.analytics.IncrementPlayerWinsCount)
	} else {
		rp.record("computer_wins", rp.analytics.IncrementComputerWinsCount)
	}
	log.Info().Str("game", game.Uuid()).Stringer("winner", winner).Msg("game finished")
	log.Debug().Str("game", game.Uuid()).Msgf("final player grid:\n%s", snapshot.PlayerGrid)

	msg := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	msg.AddPayload(mc.RespEndGame{
		Winner:   winner,
		Player:   snapshot.Player.Counters,
		Computer: snapshot.Computer.Counters,
	})
	return rp.write(session, msg)
}

func (rp RequestProcessor) write(session *mc.Session, msg interface{}) error {
	return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
}

// Analytics are best effort; a failing database never ends a game.
func (rp RequestProcessor) record(counter string, increment func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := increment(ctx); err != nil {
		log.Error().Err(err).Str("counter", counter).Msg("failed to record analytics")
	}
}
