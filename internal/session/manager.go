// Package session owns the lifecycle of live database connections:
// one optional pool per registered connection id, with test, connect,
// disconnect, remove, health-check, and close-all operations built on the
// registry.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/errs"
	"github.com/dbcove/dbcove/internal/logger"
	"github.com/dbcove/dbcove/internal/registry"
)

// OpenFunc matches database.Open; injectable so tests can supply a fake
// engine without dialing anything.
type OpenFunc func(ctx context.Context, cfg *database.ConnectConfig) (database.Conn, error)

// session is one connection id's runtime state. It exclusively owns its
// pool handle; no two sessions ever share one.
//
// State machine: Disconnected → Connecting → Connected → Disconnected.
// Connecting is transient and never externally observable — the per-session
// mutex is held for its duration, and any failure lands back in
// Disconnected with the pool closed.
type session struct {
	mu          sync.Mutex
	conn        database.Conn // nil while disconnected
	isConnected bool
	lastUsed    time.Time
}

// Manager coordinates sessions over the registry. All mutating operations
// on one id serialize through that id's session mutex; the sessions map
// itself is guarded separately so unrelated ids never block each other.
type Manager struct {
	store *registry.Store
	log   *logger.Logger
	open  OpenFunc

	mu       sync.RWMutex
	sessions map[string]*session

	// healthTimeout bounds each liveness probe during a health sweep so
	// one unreachable server cannot stall the whole pass.
	healthTimeout time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithOpenFunc replaces the engine dial function (used by tests).
func WithOpenFunc(open OpenFunc) Option {
	return func(m *Manager) { m.open = open }
}

// WithHealthTimeout sets the per-probe deadline for HealthCheck sweeps.
func WithHealthTimeout(d time.Duration) Option {
	return func(m *Manager) { m.healthTimeout = d }
}

// NewManager creates a Manager over the given registry store.
func NewManager(store *registry.Store, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		log:           log,
		open:          database.Open,
		sessions:      make(map[string]*session),
		healthTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) session(id string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = &session{}
		m.sessions[id] = s
	}
	return s
}

// TestResult reports a successful transient connection test.
type TestResult struct {
	Version string `json:"version,omitempty"`
}

// TestConnection opens a transient pool, probes liveness, reads the engine
// version, and closes the pool. It never touches the registry and never
// retains a handle.
func (m *Manager) TestConnection(ctx context.Context, cfg *registry.Config) (*TestResult, error) {
	cc := cfg.ConnectConfig()
	if err := cc.Normalize(); err != nil {
		return nil, err
	}

	conn, err := m.open(ctx, cc)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	version, err := conn.ServerVersion(ctx)
	if err != nil {
		// The pool passed its liveness probe; a missing version string is
		// not grounds to fail the test.
		version = ""
	}
	return &TestResult{Version: version}, nil
}

// AddConnection validates cfg, test-connects, and only on success assigns
// a new immutable id, registers the connection (disconnected), and
// persists. The returned view is redacted.
func (m *Manager) AddConnection(ctx context.Context, cfg *registry.Config) (registry.Redacted, error) {
	if _, err := m.TestConnection(ctx, cfg); err != nil {
		return registry.Redacted{}, err
	}

	cfg.ID = uuid.New().String()
	cfg.IsActive = false
	m.store.Upsert(cfg)
	m.persist()

	return cfg.Redact(), nil
}

// Connect opens the pool for id, probes it, and atomically flips the
// session to connected before persisting. Already connected is an
// idempotent success. On probe failure the partially opened pool is closed
// and the session stays disconnected.
func (m *Manager) Connect(ctx context.Context, id string) (registry.Redacted, error) {
	s := m.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	// Looked up under the session mutex so a concurrent Remove cannot
	// delete the registry entry between the check and the pool open.
	cfg, err := m.store.Get(id)
	if err != nil {
		return registry.Redacted{}, err
	}

	if s.isConnected && s.conn != nil {
		return cfg.Redact(), nil
	}

	cc := cfg.ConnectConfig()
	if err := cc.Normalize(); err != nil {
		return registry.Redacted{}, err
	}

	conn, err := m.open(ctx, cc)
	if err != nil {
		return registry.Redacted{}, err
	}

	version, verr := conn.ServerVersion(ctx)
	if verr != nil {
		version = cfg.Version // keep the last known version
	}

	now := time.Now().UTC()
	s.conn = conn
	s.isConnected = true
	s.lastUsed = now

	cfg.IsActive = true
	cfg.LastConnected = now
	cfg.Version = version
	m.store.Upsert(cfg)
	m.persist()

	m.log.With().Str("connection_id", id).Str("engine", string(cfg.Engine)).Logger().
		Info("connected")
	return cfg.Redact(), nil
}

// Disconnect closes the pool for id and flips the session to disconnected.
// Disconnecting an already-disconnected id is a success no-op.
func (m *Manager) Disconnect(ctx context.Context, id string) error {
	s := m.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := m.store.Get(id)
	if err != nil {
		return err
	}

	if !s.isConnected && s.conn == nil {
		return nil
	}

	if s.conn != nil {
		if cerr := s.conn.Close(); cerr != nil {
			m.log.With().Str("connection_id", id).Err(cerr).Logger().
				Warn("error closing pool")
		}
	}
	s.conn = nil
	s.isConnected = false

	cfg.IsActive = false
	m.store.Upsert(cfg)
	m.persist()

	m.log.With().Str("connection_id", id).Logger().Info("disconnected")
	return nil
}

// Remove disconnects id (best-effort) and deletes it from the registry.
// Removing an unknown id fails with NotFound.
//
// The session mutex is held across the pool close and the registry delete,
// so a Connect racing Remove either finishes first (and its pool is closed
// here) or runs after and fails NotFound. Either way no pool outlives the
// registry entry.
func (m *Manager) Remove(ctx context.Context, id string) error {
	s := m.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := m.store.Get(id); err != nil {
		return err
	}

	if s.conn != nil {
		if cerr := s.conn.Close(); cerr != nil {
			m.log.With().Str("connection_id", id).Err(cerr).Logger().
				Warn("error closing pool before remove")
		}
	}
	s.conn = nil
	s.isConnected = false

	if err := m.store.Remove(id); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.persist()
	m.log.With().Str("connection_id", id).Logger().Info("connection removed")
	return nil
}

// HealthStatus is the outcome of one session's liveness probe.
type HealthStatus struct {
	ID      string `json:"id"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthCheck probes every connected session. A failed probe demotes that
// session to disconnected with its pool discarded — recorded, not raised,
// because this runs on a schedule rather than in response to a user
// action. Disconnected sessions are left untouched.
func (m *Manager) HealthCheck(ctx context.Context) []HealthStatus {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	var out []HealthStatus
	for _, id := range ids {
		s := m.session(id)
		s.mu.Lock()
		if !s.isConnected || s.conn == nil {
			s.mu.Unlock()
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, m.healthTimeout)
		err := s.conn.Ping(probeCtx)
		cancel()

		st := HealthStatus{ID: id, Healthy: err == nil}
		if err != nil {
			st.Error = err.Error()
			_ = s.conn.Close()
			s.conn = nil
			s.isConnected = false
			s.mu.Unlock()

			if cfg, gerr := m.store.Get(id); gerr == nil {
				cfg.IsActive = false
				m.store.Upsert(cfg)
			}
			m.persist()

			m.log.With().Str("connection_id", id).Err(err).Logger().
				Warn("health probe failed, session demoted")
		} else {
			s.mu.Unlock()
		}
		out = append(out, st)
	}
	return out
}

// CloseAll disconnects every session. Used only at process shutdown.
func (m *Manager) CloseAll(ctx context.Context) {
	for _, rc := range m.store.All() {
		if err := m.Disconnect(ctx, rc.ID); err != nil {
			m.log.With().Str("connection_id", rc.ID).Err(err).Logger().
				Warn("close-all disconnect failed")
		}
	}
}

// Acquire returns the live pool for id, for query execution. Fails with
// NotFound for an unknown id and NotConnected when no live pool exists.
func (m *Manager) Acquire(id string) (database.Conn, error) {
	if _, err := m.store.Get(id); err != nil {
		return nil, err
	}

	s := m.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isConnected || s.conn == nil {
		return nil, errs.Newf(errs.ErrKindNotConnected, "connection %q is not connected", id)
	}
	s.lastUsed = time.Now().UTC()
	return s.conn, nil
}

// EngineOf reports the dialect of a registered connection.
func (m *Manager) EngineOf(id string) (database.Engine, error) {
	cfg, err := m.store.Get(id)
	if err != nil {
		return "", err
	}
	return cfg.Engine, nil
}

// Connections returns every registered connection, redacted.
func (m *Manager) Connections() []registry.Redacted {
	return m.store.All()
}

// ActiveConnections returns only the currently connected ones.
func (m *Manager) ActiveConnections() []registry.Redacted {
	all := m.store.All()
	out := make([]registry.Redacted, 0, len(all))
	for _, rc := range all {
		if rc.IsActive {
			out = append(out, rc)
		}
	}
	return out
}

// IsConnected reports the live state of one session.
func (m *Manager) IsConnected(id string) bool {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isConnected
}

// VerifySecrets exposes the registry's vault integrity check.
func (m *Manager) VerifySecrets() []registry.SecretStatus {
	return m.store.VerifySecrets()
}

// RotateKey rotates the vault master key and re-encrypts every stored
// password under it.
func (m *Manager) RotateKey() error {
	return m.store.Rekey()
}

// persist saves the registry, logging rather than failing: the in-memory
// registry is the source of truth for the running process and durability
// is best-effort per save.
func (m *Manager) persist() {
	if err := m.store.Save(); err != nil {
		m.log.With().Err(err).Logger().Error("failed to persist connection store")
	}
}
