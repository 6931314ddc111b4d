package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/baselog-dev/baselog/internal/cli/auth"
	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/notice"
)

// expiringServer issues one token and then rejects it on /products.
func expiringServer(t *testing.T, logouts *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(client.LoginResponse{ID: "u1", AccessToken: "abc.def.ghi"})
		case "/auth/me":
			json.NewEncoder(w).Encode(client.Profile{ID: "u1", Email: "a@b.com", Role: client.RoleAdmin})
		case "/auth/logout":
			logouts.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		case "/echo":
			json.NewEncoder(w).Encode(map[string]string{"authorization": r.Header.Get("Authorization")})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "Invalid or expired token"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wire(baseURL string, tokens auth.TokenStore, notifier notice.Notifier) (*Store, *client.Client) {
	store := New(client.New(baseURL), tokens)
	api := client.New(baseURL, client.WithMiddleware(
		client.BearerToken(store, tokens),
		client.SignOutOnUnauthorized(store.SignOut, notifier),
	))
	return store, api
}

func TestUnauthorizedResponseSignsOutOnce(t *testing.T) {
	keyring.MockInit()
	tokens := &auth.Keyring{}
	var logouts atomic.Int32
	srv := expiringServer(t, &logouts)

	var rec notice.Recorder
	store, api := wire(srv.URL, tokens, &rec)
	store.Initialize(context.Background())
	require.NoError(t, store.SignIn(context.Background(), client.Credentials{Email: "a@b.com", Password: "password123"}))
	require.True(t, store.IsAdmin())

	_, err := api.ListProducts(context.Background())

	require.ErrorIs(t, err, client.ErrUnauthorized, "the backend error still reaches the caller")
	assert.Nil(t, store.User())
	assert.Empty(t, store.Token())
	_, err = tokens.LoadToken()
	assert.ErrorIs(t, err, auth.ErrNoToken)
	assert.Equal(t, 1, rec.Count(client.SessionExpiredNotice))
	assert.EqualValues(t, 1, logouts.Load())
}

func TestFallbackTokenBeforeInitialize(t *testing.T) {
	keyring.MockInit()
	tokens := &auth.Keyring{}
	var logouts atomic.Int32
	srv := expiringServer(t, &logouts)

	stored := "persisted.jwt.value"
	require.NoError(t, tokens.SaveToken(stored))

	store := New(client.New(srv.URL), tokens)
	require.True(t, store.Loading())
	require.Empty(t, store.Token())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/echo", nil)
	require.NoError(t, err)

	rt := client.Chain(http.DefaultTransport, client.BearerToken(store, tokens))
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Bearer "+stored, out["authorization"])
}
