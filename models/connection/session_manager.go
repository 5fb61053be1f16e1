package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	DefaultGracePeriod           = time.Minute * 2
	DefaultMaxIdle               = time.Minute * 30
	DefaultCleanupInterval       = time.Minute
	randomInvalidCode      uint8 = 255
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context, onExpire func(*Session))
	CountSessions() int

	FindSession(sessionId string) (*Session, error)
	TerminateSession(session *Session)
	ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error)
	DetachSession(session *Session)

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	FetchCodeFromMsg(payload []byte) (uint8, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	maxIdle         time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

type SessionManagerOption func(*BattleshipSessionManager)

func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = d
	}
}

// WithMaxIdle sets how long an attached session may go without
// sending anything before its connection is closed.
func WithMaxIdle(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.maxIdle = d
	}
}

func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = d
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: DefaultCleanupInterval,
		gracePeriod:     DefaultGracePeriod,
		maxIdle:         DefaultMaxIdle,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)
	bsm.sessions[sessionId] = session

	return session
}

func (bsm *BattleshipSessionManager) CountSessions() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs || session == nil {
		return nil, cerr.ErrSessionNotExist(sessionId)
	}
	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(session *Session) {
	bsm.mu.Lock()
	delete(bsm.sessions, session.id)
	bsm.mu.Unlock()
}

// ReconnectSession hands a detached session over to a new connection.
// Sessions still served by a live connection cannot be taken over.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error) {
	// Held across lookup and attach so cleanup cannot expire the session in between
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	session, prs := bsm.sessions[sessionId]
	if !prs || session == nil || !session.attach(conn) {
		return nil, cerr.ErrSessionNotExist(sessionId)
	}

	log.Info().Str("session", sessionId).Msg("session reconnected")
	return session, nil
}

// DetachSession keeps the session and its game around after an
// abnormal closure until the grace period runs out.
func (bsm *BattleshipSessionManager) DetachSession(session *Session) {
	session.detach()
	log.Info().Str("session", session.id).Dur("grace", bsm.gracePeriod).Msg("session detached")
}

// CleanupPeriodically removes detached sessions whose grace period is
// over and closes the connection of sessions idle for longer than
// the max idle time. onExpire is called for every removed session outside the lock.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context, onExpire func(*Session)) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, session := range bsm.cleanup() {
				if onExpire != nil {
					onExpire(session)
				}
			}
		}
	}
}

func (bsm *BattleshipSessionManager) cleanup() []*Session {
	assumedClosedConns := 10
	expired := make([]*Session, 0, assumedClosedConns)

	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	for ID, session := range bsm.sessions {
		if idle, detached := session.detachedFor(); detached {
			if idle > bsm.gracePeriod {
				expired = append(expired, session)
				delete(bsm.sessions, ID)
				log.Info().Str("session", ID).Msg("removed detached session")
			}
			continue
		}

		// The read loop of this session ends on the closed
		// conn and terminates the session itself.
		if session.idleFor() > bsm.maxIdle {
			if conn := session.Conn(); conn != nil {
				_ = conn.Close()
			}
			log.Info().Str("session", ID).Msg("closed idle session conn")
		}
	}
	return expired
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	if IsAbnormalClosure(err) {
		bsm.DetachSession(session)
	}
	return err
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8
	conn := session.Conn()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		switch code := session.handleReadFromConnErr(err, retries); code {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			bsm.DetachSession(session)
			return -1, []byte{}, NewConnErr(code).AddDesc(err.Error())

		default:
			return -1, []byte{}, NewConnErr(code).AddDesc(err.Error())
		}
	}
}

// FetchCodeFromMsg reads the code of an incoming request. A missing
// code is an error and never reads as code 0.
func (bsm *BattleshipSessionManager) FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, cerr.ErrSignalAbsent
	}
	return *signal.Code, nil
}
