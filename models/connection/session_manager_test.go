package connection

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func TestFindAndTerminateSession(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	session := bsm.GenerateNewSession(nil)

	found, err := bsm.FindSession(session.Id())
	require.NoError(t, err)
	require.Same(t, session, found)
	require.Equal(t, 1, bsm.CountSessions())

	bsm.TerminateSession(session)
	_, err = bsm.FindSession(session.Id())
	require.True(t, errors.Is(err, cerr.ErrSessionNotFound))
	require.Zero(t, bsm.CountSessions())
}

func TestReconnectSession(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	session := bsm.GenerateNewSession(nil)

	_, err := bsm.ReconnectSession(session.Id(), nil)
	require.True(t, errors.Is(err, cerr.ErrSessionNotFound), "attached sessions cannot be taken over")

	bsm.DetachSession(session)
	require.False(t, session.IsAttached())

	reconnected, err := bsm.ReconnectSession(session.Id(), nil)
	require.NoError(t, err)
	require.Same(t, session, reconnected)
	require.True(t, session.IsAttached())

	_, err = bsm.ReconnectSession("unknown", nil)
	require.True(t, errors.Is(err, cerr.ErrSessionNotFound))
}

func TestCleanupRemovesExpiredDetachedSessions(t *testing.T) {
	bsm := NewBattleshipSessionManager(
		WithGracePeriod(time.Millisecond),
		WithCleanupInterval(time.Millisecond*10),
	)

	detached := bsm.GenerateNewSession(nil)
	attached := bsm.GenerateNewSession(nil)
	bsm.DetachSession(detached)

	expired := make(chan *Session, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bsm.CleanupPeriodically(ctx, func(s *Session) { expired <- s })

	select {
	case s := <-expired:
		require.Same(t, detached, s)
	case <-time.After(time.Second * 5):
		t.Fatal("detached session was never cleaned up")
	}

	_, err := bsm.FindSession(detached.Id())
	require.Error(t, err)
	_, err = bsm.FindSession(attached.Id())
	require.NoError(t, err)
}

func TestCleanupKeepsSessionsInGracePeriod(t *testing.T) {
	bsm := NewBattleshipSessionManager(WithGracePeriod(time.Hour))
	session := bsm.GenerateNewSession(nil)
	bsm.DetachSession(session)

	require.Empty(t, bsm.cleanup())
	require.Equal(t, 1, bsm.CountSessions())
}

func TestFetchCodeFromMsg(t *testing.T) {
	bsm := NewBattleshipSessionManager()

	tests := []struct {
		name     string
		payload  string
		wantCode uint8
		wantErr  bool
	}{
		{name: "attack", payload: `{"code": 7, "payload": {"x": 1, "y": 2}}`, wantCode: CodeAttack},
		{name: "create game", payload: `{"code": 2}`, wantCode: CodeCreateGame},
		{name: "not json", payload: `attack`, wantCode: randomInvalidCode, wantErr: true},
		{name: "code out of range", payload: `{"code": 300}`, wantCode: randomInvalidCode, wantErr: true},
		{name: "session id code", payload: `{"code": 0}`, wantCode: CodeSessionID},
		{name: "no code field", payload: `{"payload": {"x": 1}}`, wantCode: randomInvalidCode, wantErr: true},
		{name: "null code", payload: `{"code": null}`, wantCode: randomInvalidCode, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, err := bsm.FetchCodeFromMsg([]byte(test.payload))
			require.Equal(t, test.wantErr, err != nil)
			require.Equal(t, test.wantCode, code)
		})
	}
}

func TestOnConnErr(t *testing.T) {
	session := NewSession("test", nil)

	tests := []struct {
		name string
		err  error
		want uint8
	}{
		{name: "abnormal closure", err: &websocket.CloseError{Code: websocket.CloseAbnormalClosure}, want: ConnLoopAbnormalClosureRetry},
		{name: "try again later", err: &websocket.CloseError{Code: websocket.CloseTryAgainLater}, want: ConnLoopRetry},
		{name: "normal closure", err: &websocket.CloseError{Code: websocket.CloseNormalClosure}, want: ConnLoopBreak},
		{name: "unsupported data", err: &websocket.CloseError{Code: websocket.CloseUnsupportedData}, want: ConnLoopBreak},
		{name: "unknown error", err: errors.New("boom"), want: ConnLoopBreak},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, session.onConnErr(test.err))
		})
	}
}

func TestIsAbnormalClosure(t *testing.T) {
	require.True(t, IsAbnormalClosure(NewConnErr(ConnLoopAbnormalClosureRetry)))
	require.False(t, IsAbnormalClosure(NewConnErr(ConnLoopBreak)))
	require.False(t, IsAbnormalClosure(errors.New("boom")))
}

func TestReconnectRacingCleanup(t *testing.T) {
	for i := 0; i < 200; i++ {
		bsm := NewBattleshipSessionManager(WithGracePeriod(0))
		session := bsm.GenerateNewSession(nil)
		bsm.DetachSession(session)

		var (
			wg          sync.WaitGroup
			expired     []*Session
			reconnected *Session
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			expired = bsm.cleanup()
		}()
		go func() {
			defer wg.Done()
			reconnected, _ = bsm.ReconnectSession(session.Id(), nil)
		}()
		wg.Wait()

		_, err := bsm.FindSession(session.Id())
		if reconnected != nil {
			require.NoError(t, err, "reconnected session must stay tracked")
			require.Empty(t, expired)
		} else {
			require.Error(t, err)
			require.Len(t, expired, 1)
		}
	}
}

// serverConn returns the server side of a live websocket connection.
func serverConn(t *testing.T) *websocket.Conn {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(ts.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	conn := <-conns
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestCleanupClosesIdleConnsOnly(t *testing.T) {
	bsm := NewBattleshipSessionManager(WithMaxIdle(time.Minute))

	active := bsm.GenerateNewSession(serverConn(t))
	active.createdAt = time.Now().Add(-time.Hour)

	idle := bsm.GenerateNewSession(serverConn(t))
	idle.lastActiveAt = time.Now().Add(-time.Hour)

	require.Empty(t, bsm.cleanup())
	require.Equal(t, 2, bsm.CountSessions())

	require.NoError(t, active.Conn().WriteMessage(websocket.TextMessage, []byte("still here")))
	require.Error(t, idle.Conn().WriteMessage(websocket.TextMessage, []byte("gone")))
}

func TestReconnectResetsIdleTime(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	session := bsm.GenerateNewSession(nil)
	session.lastActiveAt = time.Now().Add(-time.Hour)
	bsm.DetachSession(session)

	_, err := bsm.ReconnectSession(session.Id(), nil)
	require.NoError(t, err)
	require.Less(t, session.idleFor(), time.Minute)
}
