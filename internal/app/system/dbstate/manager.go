// Package dbstate owns the process-wide MongoDB connection and exposes its
// readiness to the rest of the app.
//
// The Manager is the only writer of the connection state; request handlers
// and the health endpoint read it through State(). Handlers that need the
// database are wrapped with Require (gate.go) so a down database is
// reported the same way on every route.
package dbstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// State enumerates the connection lifecycle.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Errored
)

// String returns the wire form used in health and gate responses.
func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

var (
	// ErrMissingURI is returned when Connect is called without a MongoDB
	// URI. Fatal at startup; no network call is attempted.
	ErrMissingURI = errors.New("dbstate: mongo_uri is required")

	// ErrConnectTimeout is returned when the connect attempt exceeds the
	// configured budget. Non-fatal in production: the process keeps
	// running and the gate serves 503s.
	ErrConnectTimeout = errors.New("dbstate: connect attempt timed out")

	// ErrConnectInFlight is returned when Connect is called while another
	// attempt is still running.
	ErrConnectInFlight = errors.New("dbstate: connect already in flight")
)

// Config carries what the Manager needs to establish the connection.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration // zero means DefaultConnectTimeout
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

// DefaultConnectTimeout bounds the connect attempt when the config does
// not say otherwise.
const DefaultConnectTimeout = 10 * time.Second

// Manager owns the single MongoDB client for the process.
type Manager struct {
	logger *zap.Logger

	state atomic.Int32

	mu       sync.Mutex // serializes Connect and Close
	inFlight bool
	client   *mongo.Client
	dbName   string

	// dial is swapped in tests to avoid a real server. Variadic to
	// match mongo.Connect's signature.
	dial func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error)
}

// NewManager returns a Manager in the disconnected state.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger,
		dial:   mongo.Connect,
	}
}

// State is a pure read of the current connection state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
}

// Client returns the MongoDB client, or nil before Connect has dialed.
func (m *Manager) Client() *mongo.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client
}

// Database returns the configured database handle, or nil before
// Connect has dialed.
func (m *Manager) Database() *mongo.Database {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	return m.client.Database(m.dbName)
}

// Connect establishes the connection described by cfg.
//
// The attempt (dial plus ping) is raced against cfg.ConnectTimeout. On
// success the state becomes connected; on timeout or failure it becomes
// errored and the error is returned for the caller to log. Calling Connect
// while already connected is a no-op; calling it while another attempt is
// running returns ErrConnectInFlight.
func (m *Manager) Connect(ctx context.Context, cfg Config) error {
	if cfg.URI == "" {
		return ErrMissingURI
	}

	m.mu.Lock()
	if m.State() == Connected {
		m.mu.Unlock()
		return nil
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrConnectInFlight
	}
	m.inFlight = true
	dial := m.dial
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	m.setState(Connecting)
	m.logger.Info("connecting to MongoDB",
		zap.String("database", cfg.Database),
		zap.Duration("timeout", timeout),
	)

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}

	client, err := dial(cctx, opts)
	if err != nil {
		m.setState(Errored)
		if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
			return fmt.Errorf("%w after %s", ErrConnectTimeout, timeout)
		}
		return fmt.Errorf("dbstate: connect failed: %w", err)
	}

	// The client is kept even when the ping fails: the driver keeps
	// dialing in the background, so Retry can flip the state to
	// connected later while the gate serves 503s.
	m.mu.Lock()
	m.client = client
	m.dbName = cfg.Database
	m.mu.Unlock()

	// Connect returns before the topology is usable; the ping is what
	// actually proves readiness within the budget.
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		m.setState(Errored)
		if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
			return fmt.Errorf("%w after %s", ErrConnectTimeout, timeout)
		}
		return fmt.Errorf("dbstate: connect failed: %w", err)
	}

	m.setState(Connected)

	m.logger.Info("connected to MongoDB",
		zap.String("database", cfg.Database),
		zap.Uint64("max_pool_size", cfg.MaxPoolSize),
		zap.Uint64("min_pool_size", cfg.MinPoolSize),
	)
	return nil
}

// Retry pings until the database answers, then marks the state
// connected. Used in production after a failed startup connect, where
// the process keeps serving 503s instead of exiting. Returns when the
// state is connected or ctx is done.
func (m *Manager) Retry(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		if m.State() == Connected {
			return
		}
		client := m.Client()
		if client == nil {
			continue
		}

		pctx, cancel := context.WithTimeout(ctx, interval)
		err := client.Ping(pctx, readpref.Primary())
		cancel()
		if err != nil {
			m.logger.Debug("MongoDB retry ping failed", zap.Error(err))
			continue
		}

		m.setState(Connected)
		m.logger.Info("MongoDB connection recovered")
		return
	}
}

// Close releases the connection. Safe to call when already disconnected;
// invoked from graceful shutdown on process termination signals.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	m.setState(Disconnected)
	if client == nil {
		return nil
	}

	m.logger.Info("disconnecting MongoDB client")
	if err := client.Disconnect(ctx); err != nil {
		m.logger.Error("MongoDB disconnect failed", zap.Error(err))
		return err
	}
	return nil
}
