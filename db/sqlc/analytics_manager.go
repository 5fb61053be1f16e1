package sqlc

import (
	"context"
	"database/sql"
	"errors"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager records counters for one server, keyed by its IP.
// A nil *AnalyticsManager records nothing, so callers without a
// database can use it as is.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context) error {
	if a == nil {
		return nil
	}
	return a.queries.IncrementGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementRestartsCalledCount(ctx context.Context) error {
	if a == nil {
		return nil
	}
	return a.queries.IncrementRestartsCalledCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementPlayerWinsCount(ctx context.Context) error {
	if a == nil {
		return nil
	}
	return a.queries.IncrementPlayerWinsCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementComputerWinsCount(ctx context.Context) error {
	if a == nil {
		return nil
	}
	return a.queries.IncrementComputerWinsCount(ctx, a.serverIp)
}

// GetAnalytics returns the counters of this server. A server that
// has not recorded anything yet gets zero counters.
func (a *AnalyticsManager) GetAnalytics(ctx context.Context) (GameServerAnalytic, error) {
	if a == nil {
		return GameServerAnalytic{}, nil
	}

	analytics, err := a.queries.GetGameServerAnalytics(ctx, a.serverIp)
	if errors.Is(err, sql.ErrNoRows) {
		return GameServerAnalytic{ServerIp: a.serverIp}, nil
	}
	return analytics, err
}
