package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	defaultPort     = "8000"
	shutdownTimeout = time.Second * 10
)

// Stats are the live counters of this server process.
type Stats struct {
	OpenConns     atomic.Int64
	GamesCreated  atomic.Int64
	GamesFinished atomic.Int64
}

type RespStats struct {
	ActiveGames    int                      `json:"active_games"`
	ActiveSessions int                      `json:"active_sessions"`
	OpenConns      int64                    `json:"open_conns"`
	GamesCreated   int64                    `json:"games_created"`
	GamesFinished  int64                    `json:"games_finished"`
	Analytics      *sqlc.GameServerAnalytic `json:"analytics,omitempty"`
}

type Server struct {
	port               string
	stage              string
	db                 *sql.DB
	rules              mb.Rules
	computerMoveDelay  time.Duration
	computerChainDelay time.Duration
	sessionOpts        []mc.SessionManagerOption

	sessionManager *mc.BattleshipSessionManager
	gameManager    *mb.BattleshipGameManager
	analytics      *sqlc.AnalyticsManager
	stats          *Stats
	rp             RequestProcessor
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) (*Server, error) {
	server := Server{
		port:               defaultPort,
		stage:              StageDev,
		rules:              mb.DefaultRules(),
		computerMoveDelay:  time.Second,
		computerChainDelay: time.Millisecond * 1500,
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			return nil, err
		}
	}

	if server.db != nil {
		server.analytics = sqlc.NewDbManager(server.db, serverIpNet()).Analytics
	}
	server.sessionManager = mc.NewBattleshipSessionManager(server.sessionOpts...)
	server.gameManager = mb.NewBattleshipGameManager(server.rules)
	server.stats = &Stats{}
	server.rp = NewRequestProcessor(
		server.sessionManager,
		server.gameManager,
		server.analytics,
		server.stats,
		server.computerMoveDelay,
		server.computerChainDelay,
	)

	return &server, nil
}

func WithPort(port string) Option {
	return func(s *Server) error {
		if port != "" {
			s.port = port
		}
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

func WithDb(db *sql.DB) Option {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

func WithRules(rules mb.Rules) Option {
	return func(s *Server) error {
		if err := rules.Validate(); err != nil {
			return err
		}
		s.rules = rules
		return nil
	}
}

func WithComputerDelays(move, chain time.Duration) Option {
	return func(s *Server) error {
		if move < 0 || chain < 0 {
			return errors.New("computer delays must not be negative")
		}
		s.computerMoveDelay = move
		s.computerChainDelay = chain
		return nil
	}
}

func WithSessionManagerOptions(opts ...mc.SessionManagerOption) Option {
	return func(s *Server) error {
		s.sessionOpts = append(s.sessionOpts, opts...)
		return nil
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/battleship", s.rp)

	r.Route("/api", func(r chi.Router) {
		r.Use(requestLogger)
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// Run serves until ctx is done and then shuts the server down.
// Expired sessions are cleaned up in the background meanwhile.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + s.port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: time.Second * 5,
	}

	go s.sessionManager.CleanupPeriodically(ctx, s.terminateSessionGame)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", s.port).Str("stage", s.stage).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) terminateSessionGame(session *mc.Session) {
	if game := session.Game(); game != nil {
		s.gameManager.TerminateGame(game.Uuid())
		log.Info().Str("session", session.Id()).Str("game", game.Uuid()).Msg("terminated game of expired session")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := RespStats{
		ActiveGames:    s.gameManager.CountGames(),
		ActiveSessions: s.sessionManager.CountSessions(),
		OpenConns:      s.stats.OpenConns.Load(),
		GamesCreated:   s.stats.GamesCreated.Load(),
		GamesFinished:  s.stats.GamesFinished.Load(),
	}

	if s.analytics != nil {
		ctx, cancel := context.WithTimeout(r.Context(), sqlc.QuerierCtxTimeout)
		defer cancel()

		analytics, err := s.analytics.GetAnalytics(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch analytics")
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "analytics unavailable"})
			return
		}
		resp.Analytics = &analytics
	}

	respondJSON(w, http.StatusOK, resp)
}

// serverIpNet finds the first non-loopback IPv4 address of this
// machine. Analytics rows are keyed by it.
func serverIpNet() net.IPNet {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn().Err(err).Msg("failed to list network interfaces")
		return loopbackIpNet()
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	log.Warn().Msg("no external ipv4 address found; using loopback for analytics")
	return loopbackIpNet()
}

func loopbackIpNet() net.IPNet {
	return net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}
}
