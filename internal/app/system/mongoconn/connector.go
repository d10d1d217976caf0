// Package mongoconn owns the process-wide MongoDB connection.
//
// A Connector is built once by the composition root (bootstrap.ConnectDB) and
// injected wherever a database handle is needed. Acquire is safe to call from
// any number of request goroutines: at most one connection attempt is in flight
// at a time and every caller waiting on it receives the same result. A failed
// attempt is not remembered, so the next caller starts a fresh one.
//
// The attempt runs detached from the caller that started it, bounded by
// Config.ConnectTimeout. A caller whose context ends stops waiting without
// aborting the attempt for the others.
package mongoconn

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Provider hands out the shared database handle.
// Stores depend on this rather than on *Connector so tests can use Static.
type Provider interface {
	Acquire(ctx context.Context) (*mongo.Database, error)
}

// Config bounds the connection pool and its timeouts.
type Config struct {
	URI                    string
	Database               string
	MinPoolSize            uint64
	MaxPoolSize            uint64
	ConnectTimeout         time.Duration
	SocketIdleTimeout      time.Duration
	ServerSelectionTimeout time.Duration
}

// DefaultConfig returns pool bounds sized for a small marketing site.
func DefaultConfig() Config {
	return Config{
		URI:                    "mongodb://localhost:27017",
		Database:               "cleansite",
		MinPoolSize:            2,
		MaxPoolSize:            10,
		ConnectTimeout:         10 * time.Second,
		SocketIdleTimeout:      45 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}
}

// DialFunc opens and verifies a client. Tests replace it to count attempts.
type DialFunc func(ctx context.Context, cfg Config) (*mongo.Client, error)

// ErrNotConfigured is returned by Acquire when no URI or database name is set.
var ErrNotConfigured = errors.New("mongoconn: uri and database are required")

// ErrClosed is returned to callers of an attempt that Close overtook.
var ErrClosed = errors.New("mongoconn: connector closed during connect")

// Connector caches one *mongo.Client for the life of the process.
type Connector struct {
	cfg    Config
	dial   DialFunc
	logger *zap.Logger

	disconnect func(*mongo.Client, context.Context) error

	group singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
	closes uint64 // bumped by Close; an attempt that sees it move discards its client
}

// New creates a Connector. No connection is made until the first Acquire.
func New(cfg Config, logger *zap.Logger) *Connector {
	return NewWithDial(cfg, Dial, logger)
}

// NewWithDial creates a Connector that connects through dial instead of Dial.
func NewWithDial(cfg Config, dial DialFunc, logger *zap.Logger) *Connector {
	return &Connector{
		cfg:        cfg,
		dial:       dial,
		logger:     logger,
		disconnect: (*mongo.Client).Disconnect,
	}
}

// Acquire returns the shared database handle, connecting on first use.
func (c *Connector) Acquire(ctx context.Context) (*mongo.Database, error) {
	client, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.cfg.Database), nil
}

// Client returns the shared client, connecting on first use.
func (c *Connector) Client(ctx context.Context) (*mongo.Client, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	if c.cfg.URI == "" || c.cfg.Database == "" {
		return nil, ErrNotConfigured
	}

	// singleflight forgets the key once the call returns, which is exactly the
	// retry-fresh-after-failure behavior we want. Success is kept in c.client.
	ch := c.group.DoChan("connect", func() (any, error) {
		return c.connect(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("joined in-flight MongoDB connection attempt")
		}
		return res.Val.(*mongo.Client), nil
	}
}

// connect runs one attempt on behalf of every waiting caller.
func (c *Connector) connect(ctx context.Context) (*mongo.Client, error) {
	c.mu.RLock()
	existing, closes := c.client, c.closes
	c.mu.RUnlock()
	if existing != nil {
		return existing, nil
	}

	dialCtx := context.WithoutCancel(ctx)
	if c.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(dialCtx, c.cfg.ConnectTimeout)
		defer cancel()
	}

	c.logger.Debug("connecting to MongoDB", zap.String("database", c.cfg.Database))
	cl, err := c.dial(dialCtx, c.cfg)
	if err != nil {
		c.logger.Error("MongoDB connection attempt failed", zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	if c.closes != closes {
		c.mu.Unlock()
		c.logger.Warn("discarding MongoDB client dialed across Close")
		_ = c.disconnect(cl, context.WithoutCancel(dialCtx))
		return nil, ErrClosed
	}
	c.client = cl
	c.mu.Unlock()

	c.logger.Info("connected to MongoDB",
		zap.String("database", c.cfg.Database),
		zap.Uint64("max_pool_size", c.cfg.MaxPoolSize),
		zap.Uint64("min_pool_size", c.cfg.MinPoolSize),
	)
	return cl, nil
}

// Connected reports whether a client has been established.
func (c *Connector) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client != nil
}

// Ping verifies the cached client against the primary.
// It connects first if no client exists yet.
func (c *Connector) Ping(ctx context.Context) error {
	client, err := c.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects the cached client, if any. An attempt still in flight
// discards its client instead of installing it. A later Acquire reconnects.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.closes++
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return c.disconnect(client, ctx)
}

// Dial is the production DialFunc.
func Dial(ctx context.Context, cfg Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxPoolSize(cfg.MaxPoolSize)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.SocketIdleTimeout > 0 {
		opts.SetMaxConnIdleTime(cfg.SocketIdleTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// staticProvider wraps a database that is already connected.
type staticProvider struct {
	db *mongo.Database
}

// Static returns a Provider that always yields db.
func Static(db *mongo.Database) Provider {
	return staticProvider{db: db}
}

func (s staticProvider) Acquire(context.Context) (*mongo.Database, error) {
	return s.db, nil
}
