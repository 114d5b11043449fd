package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type stubAPI struct {
	signupFn  func(ctx context.Context, username, email, password string) (*UserSummary, error)
	loginFn   func(ctx context.Context, email, password string) (string, string, error)
	refreshFn func(ctx context.Context, refreshToken string) (string, error)
	logoutFn  func(ctx context.Context, refreshToken string) error
	userFn    func(ctx context.Context, id, accessToken string) (*UserRecord, error)
	profileFn func(ctx context.Context, id, accessToken string) (map[string]any, error)

	refreshCalls int
	userCalls    int
	logoutCalls  int
}

func (s *stubAPI) Signup(ctx context.Context, username, email, password string) (*UserSummary, error) {
	if s.signupFn == nil {
		panic("unexpected Signup call")
	}
	return s.signupFn(ctx, username, email, password)
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (string, string, error) {
	if s.loginFn == nil {
		panic("unexpected Login call")
	}
	return s.loginFn(ctx, email, password)
}

func (s *stubAPI) Refresh(ctx context.Context, refreshToken string) (string, error) {
	s.refreshCalls++
	if s.refreshFn == nil {
		panic("unexpected Refresh call")
	}
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAPI) Logout(ctx context.Context, refreshToken string) error {
	s.logoutCalls++
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, refreshToken)
}

func (s *stubAPI) FetchUser(ctx context.Context, id, accessToken string) (*UserRecord, error) {
	s.userCalls++
	if s.userFn == nil {
		panic("unexpected FetchUser call")
	}
	return s.userFn(ctx, id, accessToken)
}

func (s *stubAPI) FetchProfile(ctx context.Context, id, accessToken string) (map[string]any, error) {
	if s.profileFn == nil {
		panic("unexpected FetchProfile call")
	}
	return s.profileFn(ctx, id, accessToken)
}

func testUser(id string, roles ...Role) *UserRecord {
	return &UserRecord{ID: id, Username: "alice", Email: "alice@example.com", Roles: roles}
}

// seedSession persists a full session directly into the store, bypassing the
// manager, to model state left behind by an earlier process.
func seedSession(t *testing.T, store Store, access, refresh string, user *UserRecord) {
	t.Helper()
	userJSON, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	for key, value := range map[string]string{
		keySchema:       schemaVersion,
		keyAccessToken:  access,
		keyRefreshToken: refresh,
		keyUser:         string(userJSON),
	} {
		if err := store.Set(key, value); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
}

func assertStoreEmpty(t *testing.T, store *MemStore) {
	t.Helper()
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUser, keyProfile, keySchema} {
		if _, ok, _ := store.Get(key); ok {
			t.Fatalf("expected %s to be cleared", key)
		}
	}
}

func TestManager_Login_PersistsFullSession(t *testing.T) {
	now := time.Now()
	access := makeToken(t, "user-1", now.Add(time.Hour))
	store := NewMemStore()
	api := &stubAPI{
		loginFn: func(_ context.Context, email, password string) (string, string, error) {
			if email != "alice@example.com" || password != "s3cret-pw" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return access, "refresh-1", nil
		},
		userFn: func(_ context.Context, id, token string) (*UserRecord, error) {
			if id != "user-1" {
				t.Fatalf("expected id from token, got %s", id)
			}
			if token != access {
				t.Fatalf("fetch-user must use the new access token")
			}
			return testUser("user-1", RoleStudent), nil
		},
	}
	mgr := NewManager(api, store)

	sess, err := mgr.Login(context.Background(), "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.User.ID != "user-1" {
		t.Fatalf("unexpected session user: %+v", sess.User)
	}

	if v, ok, _ := store.Get(keyAccessToken); !ok || v != access {
		t.Fatalf("access token not persisted")
	}
	if v, ok, _ := store.Get(keyRefreshToken); !ok || v != "refresh-1" {
		t.Fatalf("refresh token not persisted")
	}
	if _, ok, _ := store.Get(keyUser); !ok {
		t.Fatalf("user record not persisted")
	}
	if cur := mgr.Current(); cur == nil || cur.User.ID != "user-1" {
		t.Fatalf("in-memory session not established")
	}
}

func TestManager_Login_Validation(t *testing.T) {
	mgr := NewManager(&stubAPI{}, NewMemStore())

	if _, err := mgr.Login(context.Background(), "", "pw"); err != ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := mgr.Login(context.Background(), "a@b.c", ""); err != ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestManager_Login_FailureLeavesPreviousSessionUntouched(t *testing.T) {
	now := time.Now()
	oldAccess := makeToken(t, "old-user", now.Add(time.Hour))
	store := NewMemStore()
	seedSession(t, store, oldAccess, "old-refresh", testUser("old-user", RoleGuardian))

	newAccess := makeToken(t, "new-user", now.Add(time.Hour))
	api := &stubAPI{
		loginFn: func(context.Context, string, string) (string, string, error) {
			return newAccess, "new-refresh", nil
		},
		userFn: func(context.Context, string, string) (*UserRecord, error) {
			return nil, &APIError{StatusCode: 500, Message: "internal server error"}
		},
	}
	mgr := NewManager(api, store)

	if _, err := mgr.Login(context.Background(), "new@example.com", "password"); err == nil {
		t.Fatalf("expected login to fail")
	}

	// The fetch-user failure must not leave the new tokens half-persisted,
	// and the previously persisted session stays intact.
	if v, _, _ := store.Get(keyAccessToken); v != oldAccess {
		t.Fatalf("previous access token clobbered: %q", v)
	}
	if v, _, _ := store.Get(keyRefreshToken); v != "old-refresh" {
		t.Fatalf("previous refresh token clobbered: %q", v)
	}
}

func TestManager_Signup_NeverPersists(t *testing.T) {
	store := NewMemStore()
	api := &stubAPI{
		signupFn: func(_ context.Context, username, email, _ string) (*UserSummary, error) {
			return &UserSummary{ID: "user-9", Username: username, Email: email}, nil
		},
	}
	mgr := NewManager(api, store)

	if _, err := mgr.Signup(context.Background(), "bob", "bob@example.com", "longenough"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("signup must not persist anything, store has %d entries", store.Len())
	}
	if sess := mgr.Initialize(context.Background()); sess != nil {
		t.Fatalf("expected anonymous after signup, got %+v", sess)
	}
}

func TestManager_Signup_Validation(t *testing.T) {
	mgr := NewManager(&stubAPI{}, NewMemStore())

	if _, err := mgr.Signup(context.Background(), "", "a@b.c", "longenough"); err != ErrMissingSignupField {
		t.Fatalf("expected ErrMissingSignupField, got %v", err)
	}
	if _, err := mgr.Signup(context.Background(), "bob", "a@b.c", "short"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestManager_Logout_ClearsStateEvenWhenServerFails(t *testing.T) {
	now := time.Now()
	store := NewMemStore()
	seedSession(t, store, makeToken(t, "u1", now.Add(time.Hour)), "refresh-1", testUser("u1"))

	api := &stubAPI{
		logoutFn: func(context.Context, string) error {
			return errors.New("connection refused")
		},
	}
	mgr := NewManager(api, store)

	mgr.Logout(context.Background())

	if api.logoutCalls != 1 {
		t.Fatalf("expected one server logout attempt, got %d", api.logoutCalls)
	}
	assertStoreEmpty(t, store)
	if mgr.Current() != nil {
		t.Fatalf("expected anonymous after logout")
	}
}

func TestManager_Logout_NoRefreshTokenSkipsServerCall(t *testing.T) {
	api := &stubAPI{}
	mgr := NewManager(api, NewMemStore())

	mgr.Logout(context.Background())

	if api.logoutCalls != 0 {
		t.Fatalf("logout must not hit the server without a refresh token")
	}
}

func TestManager_Initialize_EmptyStore(t *testing.T) {
	mgr := NewManager(&stubAPI{}, NewMemStore())
	if sess := mgr.Initialize(context.Background()); sess != nil {
		t.Fatalf("expected anonymous, got %+v", sess)
	}
}

func TestManager_Initialize_ValidTokenUsesCacheNoNetwork(t *testing.T) {
	now := time.Now()
	store := NewMemStore()
	seedSession(t, store, makeToken(t, "u1", now.Add(time.Hour)), "refresh-1", testUser("u1", RoleStudent))

	api := &stubAPI{} // any network call panics
	mgr := NewManager(api, store)

	sess := mgr.Initialize(context.Background())
	if sess == nil {
		t.Fatalf("expected authenticated session")
	}
	if sess.User.ID != "u1" {
		t.Fatalf("unexpected user: %+v", sess.User)
	}
	if api.refreshCalls != 0 || api.userCalls != 0 {
		t.Fatalf("valid cached session must not touch the network")
	}
}

func TestManager_Initialize_ExpiredTokenRefreshes(t *testing.T) {
	now := time.Now()
	expired := makeToken(t, "u1", now.Add(-time.Minute))
	fresh := makeToken(t, "u1", now.Add(time.Hour))
	store := NewMemStore()
	seedSession(t, store, expired, "refresh-1", testUser("u1", RoleStudent))

	api := &stubAPI{
		refreshFn: func(_ context.Context, refreshToken string) (string, error) {
			if refreshToken != "refresh-1" {
				t.Fatalf("refresh must use the persisted refresh token")
			}
			return fresh, nil
		},
		userFn: func(context.Context, string, string) (*UserRecord, error) {
			return testUser("u1", RoleStudent), nil
		},
	}
	mgr := NewManager(api, store)

	sess := mgr.Initialize(context.Background())
	if sess == nil {
		t.Fatalf("expected authenticated session after refresh")
	}
	if api.refreshCalls != 1 || api.userCalls != 1 {
		t.Fatalf("expected exactly one refresh and one fetch-user, got %d/%d", api.refreshCalls, api.userCalls)
	}
	if v, _, _ := store.Get(keyAccessToken); v != fresh {
		t.Fatalf("new access token not persisted")
	}
	if v, _, _ := store.Get(keyRefreshToken); v != "refresh-1" {
		t.Fatalf("refresh token must not be rotated")
	}
}

func TestManager_Initialize_ExpiredTokenNoRefreshToken(t *testing.T) {
	now := time.Now()
	store := NewMemStore()
	seedSession(t, store, makeToken(t, "u1", now.Add(-time.Minute)), "", testUser("u1"))

	mgr := NewManager(&stubAPI{}, store)

	if sess := mgr.Initialize(context.Background()); sess != nil {
		t.Fatalf("expected anonymous")
	}
	assertStoreEmpty(t, store)
}

func TestManager_Initialize_RefreshFailureClearsState(t *testing.T) {
	now := time.Now()
	store := NewMemStore()
	seedSession(t, store, makeToken(t, "u1", now.Add(-time.Minute)), "refresh-1", testUser("u1"))

	api := &stubAPI{
		refreshFn: func(context.Context, string) (string, error) {
			return "", &APIError{StatusCode: 401, Message: "refresh token invalid or expired"}
		},
	}
	mgr := NewManager(api, store)

	if sess := mgr.Initialize(context.Background()); sess != nil {
		t.Fatalf("expected anonymous after refresh failure")
	}
	assertStoreEmpty(t, store)
}

func TestManager_Initialize_SchemaMismatchDiscards(t *testing.T) {
	now := time.Now()
	store := NewMemStore()
	seedSession(t, store, makeToken(t, "u1", now.Add(time.Hour)), "refresh-1", testUser("u1"))
	if err := store.Set(keySchema, "0"); err != nil {
		t.Fatalf("seed schema: %v", err)
	}

	mgr := NewManager(&stubAPI{}, store)

	if sess := mgr.Initialize(context.Background()); sess != nil {
		t.Fatalf("expected anonymous on schema mismatch")
	}
	assertStoreEmpty(t, store)
}

func TestManager_Refresh_NoToken(t *testing.T) {
	mgr := NewManager(&stubAPI{}, NewMemStore())
	if _, err := mgr.Refresh(context.Background()); err != ErrNoRefreshToken {
		t.Fatalf("expected ErrNoRefreshToken, got %v", err)
	}
}

func TestManager_Refresh_FailureClearsState(t *testing.T) {
	now := time.Now()
	store := NewMemStore()
	seedSession(t, store, makeToken(t, "u1", now.Add(time.Hour)), "refresh-1", testUser("u1"))

	api := &stubAPI{
		refreshFn: func(context.Context, string) (string, error) {
			return "", &APIError{StatusCode: 401, Message: "refresh token invalid or expired"}
		},
	}
	mgr := NewManager(api, store)

	if _, err := mgr.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh to fail")
	}
	assertStoreEmpty(t, store)
}

func TestManager_LogoutWinsOverInFlightRefresh(t *testing.T) {
	now := time.Now()
	fresh := makeToken(t, "u1", now.Add(time.Hour))
	store := NewMemStore()
	seedSession(t, store, makeToken(t, "u1", now.Add(-time.Minute)), "refresh-1", testUser("u1"))

	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})
	api := &stubAPI{
		refreshFn: func(context.Context, string) (string, error) {
			close(refreshStarted)
			<-releaseRefresh
			return fresh, nil
		},
		userFn: func(context.Context, string, string) (*UserRecord, error) {
			return testUser("u1"), nil
		},
	}
	mgr := NewManager(api, store)

	refreshDone := make(chan error, 1)
	go func() {
		_, err := mgr.Refresh(context.Background())
		refreshDone <- err
	}()

	<-refreshStarted
	mgr.Logout(context.Background())
	close(releaseRefresh)

	if err := <-refreshDone; err == nil {
		t.Fatalf("refresh completing after logout must not succeed")
	}
	// The refresh must not resurrect the cleared tokens.
	assertStoreEmpty(t, store)
	if mgr.Current() != nil {
		t.Fatalf("expected anonymous after logout")
	}
}

func TestManager_Profile_CachesRecord(t *testing.T) {
	now := time.Now()
	access := makeToken(t, "u1", now.Add(time.Hour))
	store := NewMemStore()
	seedSession(t, store, access, "refresh-1", testUser("u1", RoleGuardian))

	api := &stubAPI{
		profileFn: func(_ context.Context, id, token string) (map[string]any, error) {
			if id != "u1" || token != access {
				t.Fatalf("unexpected profile fetch args: %s", id)
			}
			return map[string]any{"name": "Alice", "bio": "hi"}, nil
		},
	}
	mgr := NewManager(api, store)
	if sess := mgr.Initialize(context.Background()); sess == nil {
		t.Fatalf("expected session")
	}

	profile, err := mgr.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile["name"] != "Alice" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if _, ok, _ := store.Get(keyProfile); !ok {
		t.Fatalf("profile not cached in store")
	}
}

func TestManager_Profile_NotAuthenticated(t *testing.T) {
	mgr := NewManager(&stubAPI{}, NewMemStore())
	if _, err := mgr.Profile(context.Background()); err != ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
