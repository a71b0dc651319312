package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goaltrack/backend/internal/model"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal server side of the protocol: me accepts exactly
// one access token, refresh accepts exactly one refresh token and
// rotates both. Counters record how often each endpoint was hit.
type fakeAPI struct {
	mu           sync.Mutex
	validAccess  string
	validRefresh string
	meCalls      int
	refreshCalls int
	refreshFails bool
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.meCalls++
		if bearerOf(r) != f.validAccess {
			writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Error: "invalid or expired access token"})
			return
		}
		writeJSON(w, http.StatusOK, model.PublicUser{Email: "a@b.com"})
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.refreshCalls++
		if f.refreshFails || bearerOf(r) != f.validRefresh {
			writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
			return
		}
		f.validAccess = f.validAccess + "+"
		f.validRefresh = f.validRefresh + "+"
		writeJSON(w, http.StatusOK, model.AuthResponse{
			Tokens: model.TokenPair{AccessToken: f.validAccess, RefreshToken: f.validRefresh},
		})
	})
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "secret1" {
			writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Error: "invalid credentials"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, model.AuthResponse{
			User:   model.PublicUser{Email: req.Email},
			Tokens: model.TokenPair{AccessToken: f.validAccess, RefreshToken: f.validRefresh},
		})
	})
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.LogoutResponse{Message: "Logged out successfully"})
	})
	return mux
}

func (f *fakeAPI) counts() (me, refresh int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls, f.refreshCalls
}

func bearerOf(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, api *fakeAPI) (*Client, *MemoryStore) {
	t.Helper()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)
	store := NewMemoryStore()
	return NewClient(server.URL, store), store
}

func TestMeWithValidToken(t *testing.T) {
	api := &fakeAPI{validAccess: "access-1", validRefresh: "refresh-1"}
	client, store := newTestClient(t, api)
	require.NoError(t, store.Save("access-1", "refresh-1"))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a@b.com", user.Email)
	me, refresh := api.counts()
	require.Equal(t, 1, me)
	require.Equal(t, 0, refresh)
}

func TestStaleAccessRefreshesOnceAndRetriesOnce(t *testing.T) {
	api := &fakeAPI{validAccess: "access-1", validRefresh: "refresh-1"}
	client, store := newTestClient(t, api)
	require.NoError(t, store.Save("stale", "refresh-1"))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a@b.com", user.Email)
	me, refreshes := api.counts()
	require.Equal(t, 2, me, "one failed call plus one retry")
	require.Equal(t, 1, refreshes)

	// The rotated pair was persisted.
	access, refresh, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "access-1+", access)
	require.Equal(t, "refresh-1+", refresh)
}

func TestRefreshFailureExpiresSession(t *testing.T) {
	api := &fakeAPI{validAccess: "access-1", validRefresh: "refresh-1", refreshFails: true}
	client, store := newTestClient(t, api)
	require.NoError(t, store.Save("stale", "refresh-1"))

	_, err := client.Me(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)

	// Local state is gone; the next call does not loop into refresh.
	access, refresh, loadErr := store.Load()
	require.NoError(t, loadErr)
	require.Empty(t, access)
	require.Empty(t, refresh)
}

func TestNoRefreshTokenExpiresSessionWithoutServerCall(t *testing.T) {
	api := &fakeAPI{validAccess: "access-1", validRefresh: "refresh-1"}
	client, store := newTestClient(t, api)
	require.NoError(t, store.Save("stale", ""))

	_, err := client.Me(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	_, refreshes := api.counts()
	require.Equal(t, 0, refreshes)
}

func TestSecond401Propagates(t *testing.T) {
	// Refresh succeeds but the server keeps rejecting the call: the
	// client must give up after one retry, not refresh again.
	api := &fakeAPI{validAccess: "never-matches", validRefresh: "refresh-1"}
	client, store := newTestClient(t, api)
	require.NoError(t, store.Save("stale", "refresh-1"))

	_, err := client.Me(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	me, refreshes := api.counts()
	require.Equal(t, 2, me)
	require.Equal(t, 1, refreshes)
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	api := &fakeAPI{validAccess: "access-1", validRefresh: "refresh-1"}
	client, store := newTestClient(t, api)
	require.NoError(t, store.Save("stale", "refresh-1"))

	const callers = 6
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := client.Me(context.Background())
			errs <- err
		}()
	}
	for i := 0; i < callers; i++ {
		require.NoError(t, <-errs)
	}
	_, refreshes := api.counts()
	require.Equal(t, 1, refreshes, "the refresh must be single-flight")
}

func TestLoginPersistsTokens(t *testing.T) {
	api := &fakeAPI{validAccess: "access-1", validRefresh: "refresh-1"}
	client, store := newTestClient(t, api)

	res, err := client.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", res.User.Email)

	access, refresh, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "access-1", access)
	require.Equal(t, "refresh-1", refresh)

	_, err = client.Login(context.Background(), "a@b.com", "wrong-pass")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Contains(t, apiErr.Message, "invalid credentials")
}

func TestLogoutClearsStoreEvenOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
	}))
	t.Cleanup(server.Close)

	store := NewMemoryStore()
	require.NoError(t, store.Save("access", "refresh"))
	client := NewClient(server.URL, store)

	err := client.Logout(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)

	access, refresh, loadErr := store.Load()
	require.NoError(t, loadErr)
	require.Empty(t, access)
	require.Empty(t, refresh)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileStore(path)

	// Missing file is an empty pair, not an error.
	access, refresh, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, access)
	require.Empty(t, refresh)

	require.NoError(t, store.Save("access-1", "refresh-1"))
	access, refresh, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, "access-1", access)
	require.Equal(t, "refresh-1", refresh)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	access, refresh, err = store.Load()
	require.NoError(t, err)
	require.Empty(t, access)
	require.Empty(t, refresh)
}
