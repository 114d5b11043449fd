package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const minPasswordLen = 8

// Manager owns the authentication session lifecycle. It is safe for
// concurrent use: operations are serialized around the persisted store, and a
// generation counter guarantees that a logout always wins over an in-flight
// refresh: a refresh completing after logout will not resurrect the cleared
// tokens.
type Manager struct {
	api   API
	store Store
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.Mutex
	gen     uint64
	current *Session
}

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// WithClock substitutes the wall clock, for expiry tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager over the given auth API and credential store.
func NewManager(api API, store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		api:   api,
		store: store,
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize rehydrates the session from the persisted store on application
// start. It returns the session, or nil for anonymous. It never returns an
// error: every failure degrades to anonymous, discarding persisted state
// whenever the stored credentials turn out to be unusable.
func (m *Manager) Initialize(ctx context.Context) *Session {
	m.mu.Lock()

	if ver, ok := m.get(keySchema); ok && ver != schemaVersion {
		m.clearLocked()
		m.mu.Unlock()
		return nil
	}

	access, ok := m.get(keyAccessToken)
	if !ok || access == "" {
		m.mu.Unlock()
		return nil
	}

	if !IsExpired(access, m.now()) {
		if userJSON, ok := m.get(keyUser); ok {
			var user UserRecord
			if err := json.Unmarshal([]byte(userJSON), &user); err == nil {
				refresh, _ := m.get(keyRefreshToken)
				sess := &Session{AccessToken: access, RefreshToken: refresh, User: &user}
				m.current = sess
				m.mu.Unlock()
				return sess.copy()
			}
		}
		// Valid token but no usable cached identity: fall through to the
		// refresh flow, which re-fetches the user record.
	}

	refresh, ok := m.get(keyRefreshToken)
	if !ok || refresh == "" {
		m.clearLocked()
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	sess, err := m.Refresh(ctx)
	if err != nil {
		m.log.Debug().Err(err).Msg("session rehydration failed, starting anonymous")
		return nil
	}
	return sess
}

// Login authenticates with the auth service and establishes a session.
// Nothing is persisted until the token pair and the user record are both in
// hand, so a failure anywhere leaves previously persisted state untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	access, refresh, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	uid, err := UserID(access)
	if err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}

	user, err := m.api.FetchUser(ctx, uid, access)
	if err != nil {
		return nil, err
	}

	sess := &Session{AccessToken: access, RefreshToken: refresh, User: user}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.persistLocked(sess); err != nil {
		return nil, err
	}
	return sess.copy(), nil
}

// Signup registers a new account. It does not establish a session: the
// caller routes the user to the login flow afterward, which leaves room for
// email verification or other gating between registration and login.
func (m *Manager) Signup(ctx context.Context, username, email, password string) (*UserSummary, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingSignupField
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}
	return m.api.Signup(ctx, username, email, password)
}

// Logout invalidates the refresh token server-side on a best-effort basis,
// then unconditionally discards all persisted session state. It never fails.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	refresh, _ := m.get(keyRefreshToken)
	m.mu.Unlock()

	if refresh != "" {
		if err := m.api.Logout(ctx, refresh); err != nil {
			m.log.Warn().Err(err).Msg("server-side logout failed, clearing local state anyway")
		}
	}

	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()
}

// Refresh exchanges the persisted refresh token for a new access token,
// re-fetches the user record, and persists both. The refresh token itself is
// not rotated. Any failure discards all persisted state before the error is
// returned: an unrefreshable session is unrecoverable, and a stale token must
// never stay persisted.
func (m *Manager) Refresh(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	refresh, ok := m.get(keyRefreshToken)
	gen := m.gen
	m.mu.Unlock()

	if !ok || refresh == "" {
		return nil, ErrNoRefreshToken
	}

	access, err := m.api.Refresh(ctx, refresh)
	if err != nil {
		m.discard(gen)
		return nil, err
	}

	uid, err := UserID(access)
	if err != nil {
		m.discard(gen)
		return nil, fmt.Errorf("decode refreshed token: %w", err)
	}

	user, err := m.api.FetchUser(ctx, uid, access)
	if err != nil {
		m.discard(gen)
		return nil, err
	}

	sess := &Session{AccessToken: access, RefreshToken: refresh, User: user}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// A logout (or a newer login) happened while this refresh was in
		// flight. Its outcome is discarded.
		return nil, ErrNoRefreshToken
	}
	if err := m.persistLocked(sess); err != nil {
		return nil, err
	}
	return sess.copy(), nil
}

// Profile fetches the current user's profile attribute bag and caches it in
// the store. It refreshes the access token first when it has expired.
func (m *Manager) Profile(ctx context.Context) (map[string]any, error) {
	m.mu.Lock()
	sess := m.current.copy()
	m.mu.Unlock()

	if sess == nil || sess.User == nil {
		return nil, ErrNotAuthenticated
	}

	if IsExpired(sess.AccessToken, m.now()) {
		refreshed, err := m.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		sess = refreshed
	}

	profile, err := m.api.FetchProfile(ctx, sess.User.ID, sess.AccessToken)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(profile); err == nil {
		m.mu.Lock()
		if err := m.store.Set(keyProfile, string(raw)); err != nil {
			m.log.Warn().Err(err).Msg("profile cache write failed")
		}
		m.mu.Unlock()
	}
	return profile, nil
}

// Current returns the in-memory session, or nil when anonymous.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.copy()
}

// get reads a store entry, logging and swallowing read errors. Caller holds mu.
func (m *Manager) get(key string) (string, bool) {
	v, ok, err := m.store.Get(key)
	if err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("credential store read failed")
		return "", false
	}
	return v, ok
}

// persistLocked writes the full session (tokens always as a pair, then the
// user record) and bumps the generation. Caller holds mu.
func (m *Manager) persistLocked(sess *Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	if err := m.store.Set(keySchema, schemaVersion); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := m.store.Set(keyAccessToken, sess.AccessToken); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := m.store.Set(keyRefreshToken, sess.RefreshToken); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := m.store.Set(keyUser, string(userJSON)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	// A cached profile belongs to the previous identity; drop it.
	_ = m.store.Delete(keyProfile)

	m.current = sess
	m.gen++
	return nil
}

// clearLocked discards every persisted entry and the in-memory mirror, and
// bumps the generation so in-flight refreshes abandon their result. Caller
// holds mu.
func (m *Manager) clearLocked() {
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUser, keyProfile, keySchema} {
		if err := m.store.Delete(key); err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("credential store delete failed")
		}
	}
	m.current = nil
	m.gen++
}

// discard clears all state unless the generation moved on since gen was
// snapshotted, in which case a newer session exists and is left alone.
func (m *Manager) discard(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen == gen {
		m.clearLocked()
	}
}

func (s *Session) copy() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	return &out
}
