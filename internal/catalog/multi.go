package catalog

import (
	"context"
	"net/http"
	"time"

	"etlcheck/internal/schema"

	"go.uber.org/zap"
)

// MultiFetcher sends connections with an agent_url to a remote agent and
// everything else to SQL introspection.
type MultiFetcher struct {
	Connections Connections
	SQL         Fetcher
	Remote      func(conn Connection) Fetcher
}

func (m *MultiFetcher) Fetch(ctx context.Context, connectionID string) (*schema.Database, error) {
	conn, err := m.Connections.Get(connectionID)
	if err != nil {
		return nil, err
	}
	if conn.AgentURL != "" && m.Remote != nil {
		return m.Remote(conn).Fetch(ctx, conn.Name)
	}
	return m.SQL.Fetch(ctx, connectionID)
}

type FetcherOptions struct {
	PollInterval time.Duration
	PollTimeout  time.Duration
	HTTPClient   *http.Client
	Log          *zap.Logger
}

// NewFetcher wires the SQL and agent fetchers for a connection list.
func NewFetcher(conns Connections, opts FetcherOptions) *MultiFetcher {
	return &MultiFetcher{
		Connections: conns,
		SQL:         &SQLFetcher{Connections: conns, Log: opts.Log},
		Remote: func(conn Connection) Fetcher {
			return &JobFetcher{
				Agent:        NewHTTPAgent(conn.AgentURL, opts.HTTPClient),
				PollInterval: opts.PollInterval,
				Timeout:      opts.PollTimeout,
				Log:          opts.Log,
			}
		},
	}
}
