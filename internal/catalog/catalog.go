package catalog

import (
	"context"
	"sync"
	"time"

	"etlcheck/internal/schema"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL          = 5 * time.Minute
	DefaultFetchTimeout = 5 * time.Minute
)

// Fetcher loads the live schema of one connection.
type Fetcher interface {
	Fetch(ctx context.Context, connectionID string) (*schema.Database, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, connectionID string) (*schema.Database, error)

func (f FetcherFunc) Fetch(ctx context.Context, connectionID string) (*schema.Database, error) {
	return f(ctx, connectionID)
}

type entry struct {
	db        *schema.Database
	fetchedAt time.Time
}

// Catalog caches schemas per connection id for a fixed TTL. Concurrent
// misses for the same id share one upstream fetch.
type Catalog struct {
	fetcher      Fetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	log          *zap.Logger

	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

type Option func(*Catalog)

func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds one upstream fetch. The fetch outlives the caller
// that started it, so this is its only deadline.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Catalog) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

func New(f Fetcher, opts ...Option) *Catalog {
	c := &Catalog{
		fetcher:      f,
		ttl:          DefaultTTL,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		log:          zap.NewNop(),
		entries:      make(map[string]entry),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Catalog) cached(id string) (*schema.Database, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.db, true
}

// FetchSchema returns the cached schema for connectionID or fetches it.
// Every failure is a *SchemaFetchError.
func (c *Catalog) FetchSchema(ctx context.Context, connectionID string) (*schema.Database, error) {
	if db, ok := c.cached(connectionID); ok {
		c.log.Debug("schema cache hit", zap.String("connection", connectionID))
		return db, nil
	}

	ch := c.group.DoChan(connectionID, func() (any, error) {
		// a flight that started after the previous one stored its result
		if db, ok := c.cached(connectionID); ok {
			return db, nil
		}
		// coalesced waiters share this flight, so one caller's cancel must not end it
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		start := c.now()
		db, err := c.fetcher.Fetch(fctx, connectionID)
		if err != nil {
			return nil, &SchemaFetchError{ConnectionID: connectionID, Err: err}
		}
		if db == nil || db.Tables == nil {
			return nil, &SchemaFetchError{ConnectionID: connectionID, Err: ErrNoTables}
		}
		c.mu.Lock()
		c.entries[connectionID] = entry{db: db, fetchedAt: c.now()}
		c.mu.Unlock()
		c.log.Info("schema fetched",
			zap.String("connection", connectionID),
			zap.Int("tables", db.TableCount()),
			zap.Int("columns", db.ColumnCount()),
			zap.Duration("took", c.now().Sub(start)))
		return db, nil
	})

	select {
	case <-ctx.Done():
		return nil, &SchemaFetchError{ConnectionID: connectionID, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*schema.Database), nil
	}
}

// Lookup is the fail-open form of FetchSchema: any failure is logged and
// reported as "no schema". An empty id is never fetched.
func (c *Catalog) Lookup(ctx context.Context, connectionID string) *schema.Database {
	if connectionID == "" {
		return nil
	}
	db, err := c.FetchSchema(ctx, connectionID)
	if err != nil {
		c.log.Warn("schema unavailable, continuing without validation",
			zap.String("connection", connectionID), zap.Error(err))
		return nil
	}
	return db
}

// Invalidate drops one entry, or every entry when connectionID is "".
func (c *Catalog) Invalidate(connectionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if connectionID == "" {
		c.entries = make(map[string]entry)
		return
	}
	delete(c.entries, connectionID)
}
